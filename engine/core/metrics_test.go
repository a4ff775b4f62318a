package core

import (
	"testing"
	"time"
)

func TestMetricsRollingAverage(t *testing.T) {
	m := NewMetrics()
	if m.AverageSlab() != 0 || m.Remaining(10) != 0 {
		t.Fatalf("fresh metrics should report zero")
	}

	for i := 0; i < AVG_COUNT; i++ {
		m.SlabUpdate(10*time.Millisecond, 4, 2)
	}
	if got := m.AverageSlab(); got != 10*time.Millisecond {
		t.Fatalf("AverageSlab = %v", got)
	}

	// Older samples fall out of the window.
	for i := 0; i < AVG_COUNT; i++ {
		m.SlabUpdate(20*time.Millisecond, 4, 2)
	}
	if got := m.AverageSlab(); got != 20*time.Millisecond {
		t.Fatalf("AverageSlab after window rollover = %v", got)
	}
	if got := m.Remaining(5); got != 100*time.Millisecond {
		t.Fatalf("Remaining(5) = %v", got)
	}
	if m.Remaining(-1) != 0 {
		t.Fatalf("Remaining for no slabs should be zero")
	}

	if m.Slabs != 2*AVG_COUNT || m.Cells != 8*AVG_COUNT || m.Triangles != 4*AVG_COUNT {
		t.Fatalf("totals: slabs %d cells %d triangles %d", m.Slabs, m.Cells, m.Triangles)
	}
	if m.Elapsed != time.Duration(AVG_COUNT)*30*time.Millisecond {
		t.Fatalf("Elapsed = %v", m.Elapsed)
	}
}

func TestParseLogLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"debug":  DebugLevel,
		" INFO ": InfoLevel,
		"warn":   WarnLevel,
		"error":  ErrorLevel,
		"fatal":  ErrorLevel,
	}
	for in, want := range cases {
		got, err := ParseLogLevel(in)
		if err != nil {
			t.Fatalf("ParseLogLevel(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseLogLevel(%q) = %v, expected %v", in, got, want)
		}
	}
	if _, err := ParseLogLevel("loud"); err == nil {
		t.Fatalf("expected an error for an unknown level")
	}
}

func TestShortID(t *testing.T) {
	id := NewRunID()
	if len(id) != 36 {
		t.Fatalf("run id %q is not a canonical uuid", id)
	}
	if ShortID(id) != id[:8] {
		t.Fatalf("ShortID(%q) = %q", id, ShortID(id))
	}
	if ShortID("abc") != "abc" {
		t.Fatalf("short ids should pass through unchanged")
	}
}
