package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	tests := []struct {
		name      string
		minLevel  string
		wantDebug bool
		wantInfo  bool
		wantWarn  bool
		wantError bool
	}{
		{"debug passes everything", "debug", true, true, true, true},
		{"info drops debug", "info", false, true, true, true},
		{"warn drops info", "warn", false, false, true, true},
		{"error only errors", "error", false, false, false, true},
		{"unknown defaults to info", "verbose", false, true, true, true},
	}

	ctx := context.Background()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := NewWithWriter(&buf, tt.minLevel)

			log.Debug(ctx, "debug line")
			log.Info(ctx, "info line")
			log.Warn(ctx, "warn line")
			log.Error(ctx, "error line")

			out := buf.String()
			checks := []struct {
				marker string
				want   bool
			}{
				{"[DEBUG]", tt.wantDebug},
				{"[INFO]", tt.wantInfo},
				{"[WARN]", tt.wantWarn},
				{"[ERROR]", tt.wantError},
			}
			for _, c := range checks {
				if got := strings.Contains(out, c.marker); got != c.want {
					t.Errorf("%s present = %v, want %v (output: %q)", c.marker, got, c.want, out)
				}
			}
		})
	}
}

func TestFormatting(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "info")

	log.Info(context.Background(), "processed %s in %d ms", "abc123", 42)

	if !strings.Contains(buf.String(), "processed abc123 in 42 ms") {
		t.Errorf("formatted output missing: %q", buf.String())
	}
}

func TestNop(t *testing.T) {
	// Must not panic and must stay silent.
	log := Nop()
	log.Error(context.Background(), "dropped %v", "anyway")
}
