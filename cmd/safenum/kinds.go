package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/buckaroo-pm/boost-safe-numerics/storage"
)

func newKindsCmd() *cobra.Command {
	var lang string
	cmd := &cobra.Command{
		Use:   "kinds",
		Short: "List the storage kinds and their ranges",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tag, err := language.Parse(lang)
			if err != nil {
				return fmt.Errorf("invalid --lang %q: %w", lang, err)
			}
			return printKinds(cmd.OutOrStdout(), message.NewPrinter(tag))
		},
	}
	cmd.Flags().StringVar(&lang, "lang", "en", "language used to group digits")
	return cmd
}

func printKinds(out io.Writer, p *message.Printer) error {
	rows := [][]string{{"kind", "bits", "min", "max"}}
	for _, k := range storage.All() {
		rows = append(rows, []string{
			k.String(),
			p.Sprintf("%d", k.Bits()),
			formatMag(p, k.MinMag()),
			formatMag(p, k.MaxMag()),
		})
	}

	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}
	var b strings.Builder
	for ri, row := range rows {
		for i, cell := range row {
			if i > 0 {
				b.WriteString("  ")
			}
			// Numbers are right aligned.
			if i > 0 && ri > 0 {
				b.WriteString(runewidth.FillLeft(cell, widths[i]))
			} else {
				b.WriteString(runewidth.FillRight(cell, widths[i]))
			}
		}
		b.WriteString("\n")
	}
	_, err := io.WriteString(out, b.String())
	return err
}

func formatMag(p *message.Printer, m storage.Mag) string {
	if m.Neg && m.Abs != 0 {
		return "-" + p.Sprintf("%d", m.Abs)
	}
	return p.Sprintf("%d", m.Abs)
}
