package ui

import (
	"fmt"

	"github.com/go-gl/gl/v3.3-core/gl"
)

// ShaderNames lists the available fragment shaders, the first one is the
// default.
var ShaderNames = []string{"passthrough", "crt"}

// Columns are position and texture coordinates.
// Rows are the quad vertices in clockwise order.
var vertices = []float32{
	// x, y, z, s, t
	1.0, 1.0, 0, 1, 0, // top right
	1.0, -1.0, 0, 1, 1, // bottom right
	-1.0, -1.0, 0, 0, 1, // bottom left
	-1.0, 1.0, 0, 0, 0, // top left
}

var indices = []uint32{
	0, 1, 3,
	1, 2, 3,
}

const vertexShaderSource = `
#version 330 core
layout (location = 0) in vec3 aPos;
layout (location = 1) in vec2 aTexCoord;

out vec2 TexCoord;

void main() {
    gl_Position = vec4(aPos, 1.0);
    TexCoord = aTexCoord;
}
`

var fragmentShaders = map[string]string{
	"passthrough": `
#version 330 core
out vec4 FragColor;
in vec2 TexCoord;

uniform sampler2D screen;

void main() {
    FragColor = texture(screen, TexCoord);
}
`,
	"crt": `
#version 330 core
out vec4 FragColor;
in vec2 TexCoord;

uniform sampler2D screen;

void main() {
    vec3 color = texture(screen, TexCoord).rgb;
    float scanline = sin(TexCoord.y * 1200.0) * 0.05;
    float vignette = 0.3 + 0.7 * pow(16.0 * TexCoord.x * TexCoord.y * (1.0 - TexCoord.x) * (1.0 - TexCoord.y), 0.5);
    color = color * vignette - scanline;
    FragColor = vec4(color, 1.0);
}
`,
}

// fragmentSource returns the source of the named fragment shader.
func fragmentSource(name string) (string, error) {
	src, ok := fragmentShaders[name]
	if !ok {
		return "", fmt.Errorf("unknown shader %q", name)
	}
	return src, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	sh := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(source + "\x00")
	gl.ShaderSource(sh, 1, csrc, nil)
	free()
	gl.CompileShader(sh)

	var status int32
	if gl.GetShaderiv(sh, gl.COMPILE_STATUS, &status); status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(sh, gl.INFO_LOG_LENGTH, &logLength)

		log := make([]byte, logLength+1)
		gl.GetShaderInfoLog(sh, logLength, nil, &log[0])

		return 0, fmt.Errorf("shader compile error: %v", string(log))
	}
	return sh, nil
}

func linkProgram(vert, frag uint32) (uint32, error) {
	prg := gl.CreateProgram()
	gl.AttachShader(prg, vert)
	gl.AttachShader(prg, frag)
	gl.LinkProgram(prg)

	var status int32
	if gl.GetProgramiv(prg, gl.LINK_STATUS, &status); status == gl.FALSE {
		var logLength int32
		var glLog [256]byte
		gl.GetProgramInfoLog(prg, int32(len(glLog)), &logLength, &glLog[0])
		return 0, fmt.Errorf("shader program link error: %v", string(glLog[:logLength]))
	}

	gl.DeleteShader(vert)
	gl.DeleteShader(frag)
	return prg, nil
}

// newProgram builds the program drawing the screen texture with the named
// fragment shader.
func newProgram(shader string) (uint32, error) {
	fsrc, err := fragmentSource(shader)
	if err != nil {
		return 0, err
	}
	vert, err := compileShader(vertexShaderSource, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex shader compilation: %s", err)
	}
	frag, err := compileShader(fsrc, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, fmt.Errorf("fragment shader compilation (%s): %s", shader, err)
	}
	return linkProgram(vert, frag)
}
