// Package rom copies program images into memory at fixed offsets.
//
// Images are raw bytes. Nothing is decoded or validated beyond checking
// that each image exists and fits into memory.
package rom

import (
	"archive/zip"
	"io"
	"io/fs"
	"os"
	"strconv"

	"github.com/pkg/errors"

	"github.com/hexaflex/i8080/translate"
)

var f = translate.From

// ImageSize is the size of a single Space Invaders ROM chip.
const ImageSize = 0x800

// Segment names an image file and the memory offset it is copied to.
type Segment struct {
	Name   string
	Offset int
}

// Layout is the ordered list of images making up a program.
type Layout []Segment

// ReferenceLayout places the Space Invaders images the way the reference
// emulator shell does.
var ReferenceLayout = Layout{
	{"invaders.h", 0x0100},
	{"invaders.g", 0x0900},
	{"invaders.f", 0x1100},
	{"invaders.e", 0x1900},
}

// ArcadeLayout places the Space Invaders images where the arcade board
// decodes them.
var ArcadeLayout = Layout{
	{"invaders.h", 0x0000},
	{"invaders.g", 0x0800},
	{"invaders.f", 0x1000},
	{"invaders.e", 0x1800},
}

// Load copies every segment of the layout from fsys into mem.
// It fails on the first missing or oversized image; earlier segments
// remain loaded.
func Load(mem []byte, fsys fs.FS, layout Layout) error {
	for _, seg := range layout {
		if err := loadSegment(mem, fsys, seg); err != nil {
			return err
		}
	}
	return nil
}

func loadSegment(mem []byte, fsys fs.FS, seg Segment) error {
	fd, err := fsys.Open(seg.Name)
	if err != nil {
		return errors.Wrapf(err, "rom: %s", seg.Name)
	}
	defer fd.Close()

	data, err := io.ReadAll(fd)
	if err != nil {
		return errors.Wrapf(err, "rom: %s", seg.Name)
	}

	if seg.Offset < 0 || seg.Offset+len(data) > len(mem) {
		return errors.New(f("rom: %s: %s bytes at %04x exceed memory", seg.Name, strconv.Itoa(len(data)), seg.Offset))
	}

	copy(mem[seg.Offset:], data)
	return nil
}

// LoadDir loads the layout from image files in the given directory.
func LoadDir(mem []byte, dir string, layout Layout) error {
	return Load(mem, os.DirFS(dir), layout)
}

// LoadZip loads the layout from a zip romset.
func LoadZip(mem []byte, path string, layout Layout) error {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return errors.Wrapf(err, "rom: %s", path)
	}
	defer zr.Close()

	return Load(mem, zr, layout)
}

// LoadPath loads from a directory or, if path names a regular file,
// from a zip romset.
func LoadPath(mem []byte, path string, layout Layout) error {
	fsys, closer, err := Open(path)
	if err != nil {
		return err
	}
	defer closer.Close()

	return Load(mem, fsys, layout)
}

// Open returns a file system holding the images found in a directory or,
// if path names a regular file, in a zip romset. The closer must be
// closed once loading is done.
func Open(path string) (fs.FS, io.Closer, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "rom")
	}

	if fi.IsDir() {
		return os.DirFS(path), nopCloser{}, nil
	}

	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "rom: %s", path)
	}
	return zr, zr, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// End returns the address just past the highest byte the layout can
// cover, assuming images of the given size.
func (l Layout) End(imageSize int) int {
	end := 0
	for _, seg := range l {
		if e := seg.Offset + imageSize; e > end {
			end = e
		}
	}
	return end
}
