package exporters

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/tiff"

	"github.com/spaghettifunk/quatmesh/engine/grid"
)

func testGrid() grid.Grid {
	return grid.Grid{
		X: grid.Axis{Min: -1, Max: 1, Resolution: 3},
		Y: grid.Axis{Min: -1, Max: 1, Resolution: 2},
		Z: grid.Axis{Min: -1, Max: 1, Resolution: 2},
	}
}

func TestPlaneExporterRoundTrip(t *testing.T) {
	g := testGrid()
	dir := filepath.Join(t.TempDir(), "slices")
	pe, err := NewPlaneExporter(dir, g, 4)
	if err != nil {
		t.Fatalf("NewPlaneExporter: %v", err)
	}

	plane := make([]float32, g.PlaneSize())
	plane[g.Index(0, 0)] = 0
	plane[g.Index(1, 0)] = 2
	plane[g.Index(2, 0)] = 9
	plane[g.Index(0, 1)] = -1
	plane[g.Index(1, 1)] = 1
	plane[g.Index(2, 1)] = 4

	path, err := pe.Export(7, plane)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if filepath.Base(path) != "slice_00007.tiff" {
		t.Fatalf("unexpected slice name %q", filepath.Base(path))
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()
	img, err := tiff.Decode(f)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 3 || b.Dy() != 2 {
		t.Fatalf("image bounds %v, expected 3x2", b)
	}

	want := map[[2]int]uint32{
		{0, 0}: 0,
		{1, 0}: 32768,
		{2, 0}: 65535,
		{0, 1}: 0,
		{1, 1}: 16384,
		{2, 1}: 65535,
	}
	for xy, w := range want {
		r, _, _, _ := img.At(xy[0], xy[1]).RGBA()
		if r != w {
			t.Fatalf("pixel %v = %d, expected %d", xy, r, w)
		}
	}
}

func TestPlaneExporterRejectsWrongPlane(t *testing.T) {
	g := testGrid()
	pe, err := NewPlaneExporter(t.TempDir(), g, 4)
	if err != nil {
		t.Fatalf("NewPlaneExporter: %v", err)
	}
	if _, err := pe.Export(0, make([]float32, 2)); err == nil {
		t.Fatalf("expected an error for a short plane")
	}
}

func TestPlaneExporterRejectsBadCeiling(t *testing.T) {
	if _, err := NewPlaneExporter(t.TempDir(), testGrid(), 0); err == nil {
		t.Fatalf("expected an error for a zero ceiling")
	}
}
