package mesh

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	m "math"
	"os"
	"path/filepath"

	"github.com/spaghettifunk/quatmesh/engine/core"
	"github.com/spaghettifunk/quatmesh/engine/math"
)

const (
	stlHeaderSize = 80
	// normal + 3 vertices as float32 triples, then a uint16 attribute
	stlTriangleSize = 12*4 + 2
)

// STLSize is the byte length of a binary STL holding n triangles.
func STLSize(n int) int64 {
	return stlHeaderSize + 4 + int64(n)*stlTriangleSize
}

// Encode writes m as binary STL: a zeroed 80-byte header, a little-endian
// uint32 triangle count, then per triangle its face normal, three vertices
// and a zero attribute word.
func Encode(w io.Writer, mesh *Mesh) error {
	if mesh.Len() == 0 {
		return core.ErrEmptyMesh
	}
	if uint64(mesh.Len()) > m.MaxUint32 {
		return fmt.Errorf("binary STL holds at most %d triangles, mesh has %d", uint32(m.MaxUint32), mesh.Len())
	}

	bw := bufio.NewWriterSize(w, 1<<20)

	var header [stlHeaderSize + 4]byte
	binary.LittleEndian.PutUint32(header[stlHeaderSize:], uint32(mesh.Len()))
	if _, err := bw.Write(header[:]); err != nil {
		return err
	}

	var rec [stlTriangleSize]byte
	for _, t := range mesh.Triangles() {
		putVec3(rec[0:], t.Normal())
		putVec3(rec[12:], t.Vertices[0])
		putVec3(rec[24:], t.Vertices[1])
		putVec3(rec[36:], t.Vertices[2])
		binary.LittleEndian.PutUint16(rec[48:], 0)
		if _, err := bw.Write(rec[:]); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func putVec3(b []byte, v math.Vec3) {
	binary.LittleEndian.PutUint32(b[0:], m.Float32bits(v.X))
	binary.LittleEndian.PutUint32(b[4:], m.Float32bits(v.Y))
	binary.LittleEndian.PutUint32(b[8:], m.Float32bits(v.Z))
}

func getVec3(b []byte) math.Vec3 {
	return math.NewVec3(
		m.Float32frombits(binary.LittleEndian.Uint32(b[0:])),
		m.Float32frombits(binary.LittleEndian.Uint32(b[4:])),
		m.Float32frombits(binary.LittleEndian.Uint32(b[8:])),
	)
}

// Write stores mesh as a binary STL at path. The data goes to a temporary
// file next to path that is renamed into place only once complete, so a
// failed write never leaves a truncated artifact. An empty mesh returns
// core.ErrEmptyMesh and touches nothing.
func Write(mesh *Mesh, path string) (err error) {
	if mesh.Len() == 0 {
		return core.ErrEmptyMesh
	}

	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file in %s: %w", dir, err)
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmp)
		}
	}()

	if err = Encode(f, mesh); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err = f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to sync %s: %w", tmp, err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmp, err)
	}
	if err = os.Chmod(tmp, 0o644); err != nil {
		return fmt.Errorf("failed to chmod %s: %w", tmp, err)
	}
	if err = os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to move %s into place: %w", path, err)
	}
	return nil
}

// Decoded pairs a triangle with the normal stored next to it in the file.
type Decoded struct {
	Triangle
	StoredNormal math.Vec3
	Attribute    uint16
}

var ErrTruncated = errors.New("truncated binary STL")

const maxInitialTriangles = 1 << 16

// Decode reads a binary STL produced by Encode or any conforming writer.
func Decode(r io.Reader) ([]Decoded, error) {
	br := bufio.NewReader(r)

	var header [stlHeaderSize + 4]byte
	if _, err := io.ReadFull(br, header[:]); err != nil {
		return nil, fmt.Errorf("%w: header: %s", ErrTruncated, err)
	}
	n := binary.LittleEndian.Uint32(header[stlHeaderSize:])

	// n comes from the file; let append grow past the first block.
	out := make([]Decoded, 0, min(n, maxInitialTriangles))
	var rec [stlTriangleSize]byte
	for i := uint32(0); i < n; i++ {
		if _, err := io.ReadFull(br, rec[:]); err != nil {
			return nil, fmt.Errorf("%w: triangle %d of %d: %s", ErrTruncated, i, n, err)
		}
		out = append(out, Decoded{
			StoredNormal: getVec3(rec[0:]),
			Triangle:     NewTriangle(getVec3(rec[12:]), getVec3(rec[24:]), getVec3(rec[36:])),
			Attribute:    binary.LittleEndian.Uint16(rec[48:]),
		})
	}
	return out, nil
}

// Read decodes the binary STL at path.
func Read(path string) ([]Decoded, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	var header [stlHeaderSize + 4]byte
	if _, err := io.ReadFull(f, header[:]); err != nil {
		return nil, fmt.Errorf("%w: %s: header: %s", ErrTruncated, path, err)
	}
	n := binary.LittleEndian.Uint32(header[stlHeaderSize:])
	if want := STLSize(int(n)); info.Size() != want {
		return nil, fmt.Errorf("%w: %s is %d bytes, %d triangles need %d", ErrTruncated, path, info.Size(), n, want)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	return Decode(f)
}
