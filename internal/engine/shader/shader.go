// Package shader compiles GLSL programs and caches their uniform locations.
package shader

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/multicube/internal/logger"
	"github.com/Faultbox/multicube/pkg/math"
)

// Program is a linked shader program.
type Program struct {
	name     string
	id       uint32
	uniforms map[string]int32
}

// New compiles and links a program, then resolves every uniform declared
// in either source. Must be called with a current GL context.
func New(name, vertexSrc, fragmentSrc string) (*Program, error) {
	id, err := CompileProgram(vertexSrc, fragmentSrc)
	if err != nil {
		return nil, fmt.Errorf("%s program: %w", name, err)
	}

	p := &Program{name: name, id: id, uniforms: make(map[string]int32)}
	for _, u := range Uniforms(vertexSrc + "\n" + fragmentSrc) {
		loc := gl.GetUniformLocation(id, gl.Str(cString(u)))
		if loc < 0 {
			// Declared but optimized out by the driver.
			logger.Debug("inactive uniform", zap.String("program", name), zap.String("uniform", u))
		}
		p.uniforms[u] = loc
	}
	logger.Debug("shader program linked",
		zap.String("program", name),
		zap.Uint32("id", id),
		zap.Int("uniforms", len(p.uniforms)),
	)
	return p, nil
}

// ID returns the GL program name.
func (p *Program) ID() uint32 { return p.id }

// Use makes the program current.
func (p *Program) Use() { gl.UseProgram(p.id) }

// Uniform returns the location of a uniform, or -1 if the program has no
// active uniform by that name.
func (p *Program) Uniform(name string) int32 {
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	loc := gl.GetUniformLocation(p.id, gl.Str(cString(name)))
	p.uniforms[name] = loc
	return loc
}

// SetMat4 uploads a column-major matrix. The program must be current.
func (p *Program) SetMat4(name string, m math.Mat4) {
	gl.UniformMatrix4fv(p.Uniform(name), 1, false, m.Ptr())
}

// SetInt uploads an integer or sampler unit.
func (p *Program) SetInt(name string, v int32) {
	gl.Uniform1i(p.Uniform(name), v)
}

// SetFloat uploads a float.
func (p *Program) SetFloat(name string, v float32) {
	gl.Uniform1f(p.Uniform(name), v)
}

// SetVec3 uploads a vector.
func (p *Program) SetVec3(name string, v math.Vec3) {
	gl.Uniform3f(p.Uniform(name), v.X, v.Y, v.Z)
}

// Delete releases the program.
func (p *Program) Delete() {
	if p.id != 0 {
		gl.DeleteProgram(p.id)
		p.id = 0
	}
}

// CompileProgram compiles vertex and fragment shaders and links them into
// a program.
func CompileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vert, err := compileShader(vertexSrc, gl.VERTEX_SHADER, "vertex")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vert)

	frag, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER, "fragment")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(frag)

	program := gl.CreateProgram()
	gl.AttachShader(program, vert)
	gl.AttachShader(program, frag)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, max(logLen, 1))
		gl.GetProgramInfoLog(program, logLen, nil, &log[0])
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link: %s", strings.TrimRight(string(log), "\x00"))
	}
	return program, nil
}

func compileShader(source string, shaderType uint32, kind string) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csource, free := gl.Strs(cString(source))
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, max(logLen, 1))
		gl.GetShaderInfoLog(shader, logLen, nil, &log[0])
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s shader: %s", kind, strings.TrimRight(string(log), "\x00"))
	}
	return shader, nil
}

// cString returns s terminated by exactly one NUL, as the gl string
// helpers expect.
func cString(s string) string {
	return strings.TrimRight(s, "\x00") + "\x00"
}

var uniformDecl = regexp.MustCompile(`(?m)^\s*uniform\s+\w+\s+(\w+)\s*(?:\[[^\]]*\])?\s*;`)

// Uniforms lists the uniform names declared in GLSL source, in order and
// without duplicates.
func Uniforms(src string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, m := range uniformDecl.FindAllStringSubmatch(src, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}
