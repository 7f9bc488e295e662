package main

import (
	"github.com/go-gl/gl/v4.2-core/gl"

	"github.com/hexaflex/i8080/devices"
	"github.com/hexaflex/i8080/devices/display"
)

// Renderer is the host display device. It keeps the last uploaded frame
// in a texture and draws it over the current viewport.
type Renderer struct {
	pixels  [display.Width * display.Height * 4]byte
	program uint32
	vao     uint32
	tex     uint32
	dirty   bool
	ready   bool
}

var _ devices.Device = &Renderer{}

// NewRenderer creates a renderer. Startup must run with a current GL context.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// ID returns the device identifier.
func (r *Renderer) ID() devices.ID {
	return devices.NewID(devices.Host, 0x0002)
}

// Startup creates the GL objects.
func (r *Renderer) Startup() error {
	program, err := compileProgram(vertex, fragment)
	if err != nil {
		return err
	}

	r.program = program
	gl.GenVertexArrays(1, &r.vao)
	r.tex = makeTexture(display.Width, display.Height)
	r.dirty = true
	r.ready = true
	return nil
}

// Shutdown frees the GL objects.
func (r *Renderer) Shutdown() error {
	if !r.ready {
		return nil
	}

	r.ready = false
	gl.DeleteTextures(1, &r.tex)
	gl.DeleteVertexArrays(1, &r.vao)
	gl.DeleteProgram(r.program)
	return nil
}

// Upload converts the screen for the next Draw.
func (r *Renderer) Upload(s *display.Screen) {
	s.Draw(r.pixels[:])
	r.dirty = true
}

// Draw renders the most recently uploaded frame.
func (r *Renderer) Draw() {
	if !r.ready {
		return
	}

	if r.dirty {
		updateTexture(r.tex, display.Width, display.Height, r.pixels[:])
		r.dirty = false
	}

	gl.UseProgram(r.program)
	gl.BindVertexArray(r.vao)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, r.tex)
	gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)
}
