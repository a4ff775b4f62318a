package exporters

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"golang.org/x/image/tiff"

	"github.com/spaghettifunk/quatmesh/engine/grid"
	"github.com/spaghettifunk/quatmesh/engine/math"
)

// PlaneExporter dumps scalar z-planes as 16-bit grayscale TIFF images.
// A value of zero is black and anything at or above Ceiling is white.
type PlaneExporter struct {
	Dir     string
	Grid    grid.Grid
	Ceiling float32
}

func NewPlaneExporter(dir string, g grid.Grid, ceiling float32) (*PlaneExporter, error) {
	if ceiling <= 0 {
		return nil, fmt.Errorf("plane exporter ceiling must be positive, got %v", ceiling)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &PlaneExporter{Dir: dir, Grid: g, Ceiling: ceiling}, nil
}

// SlicePath is the file a given z index is written to.
func (pe *PlaneExporter) SlicePath(z int) string {
	return filepath.Join(pe.Dir, fmt.Sprintf("slice_%05d.tiff", z))
}

// Image converts a plane into a Gray16 image with x growing to the right
// and y growing downwards.
func (pe *PlaneExporter) Image(plane []float32) (*image.Gray16, error) {
	if len(plane) != pe.Grid.PlaneSize() {
		return nil, fmt.Errorf("plane has %d samples, expected %d", len(plane), pe.Grid.PlaneSize())
	}
	w, h := pe.Grid.X.Resolution, pe.Grid.Y.Resolution
	img := image.NewGray16(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			v := plane[pe.Grid.Index(x, y)]
			if !math.IsFinite(v) {
				v = pe.Ceiling
			}
			level := math.Clamp(v/pe.Ceiling, 0, 1)
			img.SetGray16(x, y, color.Gray16{Y: uint16(level*65535 + 0.5)})
		}
	}
	return img, nil
}

// Export writes the plane of slice z and returns the file path.
func (pe *PlaneExporter) Export(z int, plane []float32) (string, error) {
	img, err := pe.Image(plane)
	if err != nil {
		return "", err
	}
	path := pe.SlicePath(z)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := tiff.Encode(f, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true}); err != nil {
		f.Close()
		return "", err
	}
	return path, f.Close()
}
