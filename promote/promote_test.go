package promote

import (
	"testing"

	"github.com/buckaroo-pm/boost-safe-numerics/interval"
	"github.com/buckaroo-pm/boost-safe-numerics/ops"
	"github.com/buckaroo-pm/boost-safe-numerics/storage"
)

func exactOf(op ops.Op, l, r storage.Kind) interval.Interval {
	iv, _ := ops.Range(op, l.Range(), r.Range())
	return iv
}

func TestDefaultStartingKind(t *testing.T) {
	tests := []struct {
		name string
		l, r storage.Kind
		want storage.Kind
	}{
		{"two signed widths", storage.Int8, storage.Int32, storage.Int32},
		{"two unsigned widths", storage.Uint16, storage.Uint8, storage.Uint16},
		{"mixed equal width 8", storage.Int8, storage.Uint8, storage.Int16},
		{"mixed equal width 32", storage.Uint32, storage.Int32, storage.Int64},
		{"mixed equal width 64", storage.Int64, storage.Uint64, storage.Uint64},
		{"signed wider", storage.Int32, storage.Uint16, storage.Int32},
		{"unsigned wider", storage.Int8, storage.Uint16, storage.Int32},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := usual(ops.Add, tt.l, tt.r); got != tt.want {
				t.Fatalf("usual(%s, %s) = %s, want %s", tt.l, tt.r, got, tt.want)
			}
		})
	}
}

func TestDefaultWidensToHoldExact(t *testing.T) {
	tests := []struct {
		op   ops.Op
		l, r storage.Kind
		want storage.Kind
	}{
		{ops.Mul, storage.Int32, storage.Int32, storage.Int64},
		{ops.Mul, storage.Int8, storage.Int8, storage.Int16},
		{ops.Add, storage.Uint8, storage.Uint8, storage.Uint16},
		{ops.Sub, storage.Uint8, storage.Uint8, storage.Int16},
		{ops.Mul, storage.Uint64, storage.Uint64, storage.Uint64},
		{ops.Mul, storage.Int64, storage.Int64, storage.Int64},
		{ops.Neg, storage.Uint8, storage.Uint8, storage.Int16},
		{ops.Shl, storage.Int8, storage.Uint8, storage.Int8},
	}
	for _, tt := range tests {
		got := Default{}.Promote(tt.op, tt.l, tt.r, exactOf(tt.op, tt.l, tt.r))
		if got != tt.want {
			t.Fatalf("%s %s %s -> %s, want %s", tt.l, tt.op, tt.r, got, tt.want)
		}
	}
}

func TestDefaultUsesProvenRanges(t *testing.T) {
	exact := interval.Make(100, 100).Mul(interval.Make(2, 2))
	if got := (Default{}).Promote(ops.Mul, storage.Int8, storage.Int8, exact); got != storage.Int16 {
		t.Fatalf("int8 100*2 -> %s", got)
	}
	exact = interval.Make(5, 5).Mul(interval.Make(6, 6))
	if got := (Default{}).Promote(ops.Mul, storage.Int32, storage.Int32, exact); got != storage.Int32 {
		t.Fatalf("int32 5*6 -> %s", got)
	}
}

func TestNativeUnsignedWins(t *testing.T) {
	tests := []struct {
		op   ops.Op
		l, r storage.Kind
		want storage.Kind
	}{
		{ops.Add, storage.Int8, storage.Uint8, storage.Uint8},
		{ops.Add, storage.Uint32, storage.Int32, storage.Uint32},
		{ops.Mul, storage.Int8, storage.Int8, storage.Int8},
		{ops.Mul, storage.Int16, storage.Uint8, storage.Int16},
		{ops.Mul, storage.Uint8, storage.Int64, storage.Int64},
		{ops.Shr, storage.Uint8, storage.Int64, storage.Uint8},
	}
	for _, tt := range tests {
		got := Native{}.Promote(tt.op, tt.l, tt.r, exactOf(tt.op, tt.l, tt.r))
		if got != tt.want {
			t.Fatalf("%s %s %s -> %s, want %s", tt.l, tt.op, tt.r, got, tt.want)
		}
	}
}

func TestNarrowest(t *testing.T) {
	p := Narrowest{}
	if got := p.Promote(ops.Add, storage.Int64, storage.Int64, interval.Make(0, 200)); got != storage.Uint8 {
		t.Fatalf("[0,200] -> %s", got)
	}
	if got := p.Promote(ops.Add, storage.Int64, storage.Int64, interval.Make(-1, 200)); got != storage.Int16 {
		t.Fatalf("[-1,200] -> %s", got)
	}
	if got := p.Promote(ops.Mul, storage.Uint64, storage.Uint64, exactOf(ops.Mul, storage.Uint64, storage.Uint64)); got != storage.Uint64 {
		t.Fatalf("unholdable result must fall back to Default, got %s", got)
	}
}

func TestTable(t *testing.T) {
	tbl, err := NewTable(nil,
		Rule{Op: ops.Mul, Left: storage.Int8, Right: storage.Uint8, Result: storage.Int32},
		Rule{Left: storage.Int16, Right: storage.Int16, Result: storage.Int64},
	)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	if tbl.Len() != 2 || tbl.Name() != "table" {
		t.Fatalf("table metadata mismatch")
	}
	tests := []struct {
		op   ops.Op
		l, r storage.Kind
		want storage.Kind
	}{
		{ops.Mul, storage.Int8, storage.Uint8, storage.Int32},
		{ops.Mul, storage.Uint8, storage.Int8, storage.Int32},
		{ops.Sub, storage.Int16, storage.Int16, storage.Int64},
		{ops.Add, storage.Int8, storage.Uint8, storage.Int16},
	}
	for _, tt := range tests {
		got := tbl.Promote(tt.op, tt.l, tt.r, exactOf(tt.op, tt.l, tt.r))
		if got != tt.want {
			t.Fatalf("%s %s %s -> %s, want %s", tt.l, tt.op, tt.r, got, tt.want)
		}
	}

	var nilTable *Table
	if got := nilTable.Promote(ops.Add, storage.Int8, storage.Int8, exactOf(ops.Add, storage.Int8, storage.Int8)); got != storage.Int16 {
		t.Fatalf("nil table -> %s", got)
	}
}

func TestTableRejectsBadRules(t *testing.T) {
	if _, err := NewTable(nil, Rule{Left: storage.Int8, Right: storage.Kind{}, Result: storage.Int8}); err == nil {
		t.Fatalf("expected invalid kind error")
	}
	if _, err := NewTable(nil, Rule{Op: ops.Lt, Left: storage.Int8, Right: storage.Int8, Result: storage.Int8}); err == nil {
		t.Fatalf("expected comparison rule error")
	}
	_, err := NewTable(nil,
		Rule{Left: storage.Int8, Right: storage.Int8, Result: storage.Int8},
		Rule{Left: storage.Int8, Right: storage.Int8, Result: storage.Int16},
	)
	if err == nil {
		t.Fatalf("expected conflict error")
	}
}

func TestLookup(t *testing.T) {
	for name, want := range map[string]string{"": "default", "Legacy": "native", "narrowest": "narrowest"} {
		p, err := Lookup(name)
		if err != nil || p.Name() != want {
			t.Fatalf("Lookup(%q) = %v, %v", name, p, err)
		}
	}
	if _, err := Lookup("table"); err == nil {
		t.Fatalf("table needs rules and is not a lookup name")
	}
}
