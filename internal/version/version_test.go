package version

import (
	"testing"

	"github.com/fatih/color"
)

func TestVersion_DefaultValues(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
}

func TestPretty(t *testing.T) {
	origVersion, origNoColor := Version, color.NoColor
	defer func() { Version, color.NoColor = origVersion, origNoColor }()

	color.NoColor = true
	tests := []struct {
		version string
		want    string
	}{
		{"1.2.3", "1.2.3"},
		{"0.1.0-dev", "0.1.0-dev"},
		{"1.2.3-rc.1+build.123", "1.2.3-rc.1+build.123"},
		{"  2.0.0  ", "2.0.0"},
		{"nightly", "nightly"},
		{"", "dev"},
	}
	for _, tt := range tests {
		Version = tt.version
		if got := Pretty(); got != tt.want {
			t.Errorf("Pretty() with Version %q = %q, want %q", tt.version, got, tt.want)
		}
	}
}

func BenchmarkPretty(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = Pretty()
	}
}
