package main

import (
	"strings"

	"github.com/go-gl/gl/v4.2-core/gl"
	"github.com/pkg/errors"
)

// textureParams are applied to every texture made by makeTexture. The
// picture is scaled by whole pixels, so no filtering.
var textureParams = [...][2]int32{
	{gl.TEXTURE_MIN_FILTER, gl.NEAREST},
	{gl.TEXTURE_MAG_FILTER, gl.NEAREST},
	{gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE},
	{gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE},
}

// makeTexture allocates an RGBA texture of the given size on unit 0.
func makeTexture(width, height int32) uint32 {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, tex)

	for _, p := range textureParams {
		gl.TexParameteri(gl.TEXTURE_2D, uint32(p[0]), p[1])
	}

	gl.TexStorage2D(gl.TEXTURE_2D, 1, gl.RGBA8, width, height)
	return tex
}

// updateTexture replaces the full contents of a texture made by makeTexture.
func updateTexture(tex uint32, width, height int32, pixels []byte) {
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, width, height, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
}

// infoLog reads a shader or program log through the matching pair of
// length and text getters.
func infoLog(id uint32, length func(uint32, uint32, *int32), text func(uint32, int32, *int32, *uint8)) string {
	var n int32
	length(id, gl.INFO_LOG_LENGTH, &n)
	if n <= 0 {
		return ""
	}

	buf := make([]byte, n+1)
	text(id, n, nil, &buf[0])
	return strings.TrimRight(string(buf), "\x00\n")
}

// compileProgram builds and links a program from vertex and fragment source.
func compileProgram(vertex, fragment string) (uint32, error) {
	program := gl.CreateProgram()

	for _, stage := range []struct {
		name   string
		kind   uint32
		source string
	}{
		{"vertex", gl.VERTEX_SHADER, vertex},
		{"fragment", gl.FRAGMENT_SHADER, fragment},
	} {
		shader, err := compileShader(stage.source, stage.kind)
		if err != nil {
			gl.DeleteProgram(program)
			return 0, errors.Wrapf(err, "%s shader", stage.name)
		}

		gl.AttachShader(program, shader)
		// Flagged for deletion; freed once the program goes.
		gl.DeleteShader(shader)
	}

	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		msg := infoLog(program, gl.GetProgramiv, gl.GetProgramInfoLog)
		gl.DeleteProgram(program)
		return 0, errors.Errorf("link: %s", msg)
	}

	return program, nil
}

func compileShader(source string, kind uint32) (uint32, error) {
	shader := gl.CreateShader(kind)

	src, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, src, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		msg := infoLog(shader, gl.GetShaderiv, gl.GetShaderInfoLog)
		gl.DeleteShader(shader)
		return 0, errors.New(msg)
	}

	return shader, nil
}
