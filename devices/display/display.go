// Package display converts the board's 1bpp video memory into pixels.
//
// Video memory holds 224 columns of 256 pixels, 32 bytes per column,
// least significant bit lowest on screen. The cabinet monitor is mounted
// rotated, so the visible image is 224 pixels wide and 256 pixels tall.
package display

import (
	"image"
	"image/color"
)

// Display properties.
const (
	Width    = 224                // Visible width in pixels.
	Height   = 256                // Visible height in pixels.
	VRAMSize = Width * Height / 8 // Size of video memory in bytes.
)

// Pixel values produced by Convert.
const (
	Off = 0x00
	On  = 0xff
)

// Overlay colours of the cabinet's gel strips.
var (
	White = color.RGBA{0xff, 0xff, 0xff, 0xff}
	Red   = color.RGBA{0xff, 0x20, 0x20, 0xff}
	Green = color.RGBA{0x20, 0xff, 0x20, 0xff}
	Black = color.RGBA{0x00, 0x00, 0x00, 0xff}
)

// Convert writes one byte per pixel into dst, row by row from the top of
// the rotated screen. dst must hold Width*Height bytes. vram shorter than
// VRAMSize leaves the remaining pixels off.
func Convert(vram []byte, dst []byte) {
	_ = dst[Width*Height-1]

	for i := range dst {
		dst[i] = Off
	}

	if len(vram) > VRAMSize {
		vram = vram[:VRAMSize]
	}

	for i, b := range vram {
		if b == 0 {
			continue
		}

		x := i / 32
		y := Height - 1 - (i%32)*8

		for bit := 0; bit < 8; bit++ {
			if b&(1<<bit) != 0 {
				dst[(y-bit)*Width+x] = On
			}
		}
	}
}

// Overlay returns the gel colour covering the given screen position.
func Overlay(x, y int) color.RGBA {
	switch {
	case y >= 32 && y < 64:
		return Red
	case y >= 184 && y < 240:
		return Green
	case y >= 240 && x >= 16 && x < 134:
		return Green
	}
	return White
}

// Screen holds the most recently converted frame.
type Screen struct {
	Pixels  [Width * Height]byte // One byte per pixel, Off or On.
	Colored bool                 // Apply the gel overlay in Image.
}

// Update converts the given video memory.
func (s *Screen) Update(vram []byte) {
	Convert(vram, s.Pixels[:])
}

// Image renders the frame as an RGBA image.
func (s *Screen) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, Width, Height))
	s.Draw(img.Pix)
	return img
}

// Draw writes the frame as packed RGBA into dst, which must hold
// Width*Height*4 bytes.
func (s *Screen) Draw(dst []byte) {
	_ = dst[Width*Height*4-1]

	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			c := Black
			if s.Pixels[y*Width+x] == On {
				c = White
				if s.Colored {
					c = Overlay(x, y)
				}
			}

			o := (y*Width + x) * 4
			dst[o+0] = c.R
			dst[o+1] = c.G
			dst[o+2] = c.B
			dst[o+3] = c.A
		}
	}
}
