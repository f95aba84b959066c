// Package renderer draws the sky box and the cube field with OpenGL.
package renderer

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/multicube/internal/engine/lighting"
	"github.com/Faultbox/multicube/internal/engine/renderer/shaders"
	"github.com/Faultbox/multicube/internal/engine/shader"
	"github.com/Faultbox/multicube/internal/engine/texture"
	"github.com/Faultbox/multicube/internal/game/world"
	"github.com/Faultbox/multicube/internal/logger"
	"github.com/Faultbox/multicube/pkg/geometry"
	"github.com/Faultbox/multicube/pkg/math"
)

const floatSize = 4

// Attribute locations shared with the shader sources.
const (
	attribPosition = 0
	attribNormal   = 1
	attribTexCoord = 2
)

// ErrNoTextures is returned when a field is drawn before its face pool is
// uploaded.
var ErrNoTextures = errors.New("renderer: face textures not loaded")

// Config holds renderer configuration.
type Config struct {
	Width       int
	Height      int
	VSync       bool
	SkyboxScale float32
	// Sun lights the cubes; nil draws them unlit.
	Sun *lighting.Sun
}

type meshBuffers struct {
	vao   uint32
	vbo   uint32
	count int32
}

// Renderer handles all OpenGL rendering.
type Renderer struct {
	config Config
	log    *zap.Logger

	cubeProgram *shader.Program
	skyProgram  *shader.Program

	cube meshBuffers
	sky  meshBuffers

	faceTextures []uint32
	skyTexture   uint32
}

// attribute describes one vertex attribute inside an interleaved mesh.
type attribute struct {
	location uint32
	size     int32
	offset   int // in floats
}

// attributes lists the vertex attributes present in m.
func attributes(m *geometry.Mesh) []attribute {
	attrs := []attribute{{attribPosition, geometry.PositionSize, 0}}
	if off := m.NormalOffset(); off >= 0 {
		attrs = append(attrs, attribute{attribNormal, geometry.NormalSize, off})
	}
	if off := m.TexCoordOffset(); off >= 0 {
		attrs = append(attrs, attribute{attribTexCoord, geometry.TexCoordSize, off})
	}
	return attrs
}

// New creates a new renderer.
// Must be called after the OpenGL context is current.
func New(cfg Config) (*Renderer, error) {
	if cfg.SkyboxScale <= 0 {
		cfg.SkyboxScale = 1
	}
	r := &Renderer{
		config: cfg,
		log:    logger.Named("renderer"),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	gl.Enable(gl.CULL_FACE)
	gl.FrontFace(gl.CW)
	gl.ClearColor(0, 0, 0, 1)

	var err error
	r.cubeProgram, err = shader.New("cube", shaders.CubeVertexShader, shaders.CubeFragmentShader)
	if err != nil {
		return nil, err
	}
	r.skyProgram, err = shader.New("skybox", shaders.SkyboxVertexShader, shaders.SkyboxFragmentShader)
	if err != nil {
		r.cubeProgram.Delete()
		return nil, err
	}

	r.cube = r.uploadMesh(geometry.NewCube(true, true))
	r.sky = r.uploadMesh(geometry.NewCube(false, false).Scaled(cfg.SkyboxScale))

	r.Resize(cfg.Width, cfg.Height)
	return r, nil
}

// uploadMesh copies m into a new VAO/VBO pair.
func (r *Renderer) uploadMesh(m *geometry.Mesh) meshBuffers {
	var b meshBuffers
	b.count = int32(m.VertexCount())

	gl.GenVertexArrays(1, &b.vao)
	gl.BindVertexArray(b.vao)

	gl.GenBuffers(1, &b.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(m.Data)*floatSize, unsafe.Pointer(&m.Data[0]), gl.STATIC_DRAW)

	stride := int32(m.Stride * floatSize)
	for _, a := range attributes(m) {
		gl.VertexAttribPointerWithOffset(a.location, a.size, gl.FLOAT, false, stride, uintptr(a.offset*floatSize))
		gl.EnableVertexAttribArray(a.location)
	}

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	r.log.Debug("mesh uploaded",
		zap.Uint32("vao", b.vao),
		zap.Int32("vertices", b.count),
		zap.Int("stride", m.Stride),
	)
	return b
}

// LoadFaceTextures uploads the face texture pool. Index i of the pool is
// bound when an instance face refers to i.
func (r *Renderer) LoadFaceTextures(pool []*texture.Image) error {
	if len(pool) == 0 {
		return ErrNoTextures
	}
	r.deleteFaceTextures()

	r.faceTextures = make([]uint32, len(pool))
	gl.GenTextures(int32(len(pool)), &r.faceTextures[0])
	for i, img := range pool {
		gl.BindTexture(gl.TEXTURE_2D, r.faceTextures[i])
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(img.Width), int32(img.Height), 0,
			gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
		gl.GenerateMipmap(gl.TEXTURE_2D)
	}
	gl.BindTexture(gl.TEXTURE_2D, 0)

	r.log.Info("face textures loaded", zap.Int("count", len(pool)))
	return nil
}

// LoadSkybox uploads the six prepared sky box faces as a cube map, in the
// +X, -X, +Y, -Y, +Z, -Z order.
func (r *Renderer) LoadSkybox(faces [texture.SkyboxFaceCount]*texture.Image) error {
	for i, img := range faces {
		if img == nil {
			return fmt.Errorf("renderer: sky box face %d missing", i)
		}
	}
	if r.skyTexture != 0 {
		gl.DeleteTextures(1, &r.skyTexture)
	}

	gl.GenTextures(1, &r.skyTexture)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, r.skyTexture)
	for i, img := range faces {
		gl.TexImage2D(gl.TEXTURE_CUBE_MAP_POSITIVE_X+uint32(i), 0, gl.RGBA,
			int32(img.Width), int32(img.Height), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	}
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_R, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)

	r.log.Info("sky box loaded", zap.Int("size", faces[0].Width))
	return nil
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Begin starts a new frame.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// DrawSkybox draws the sky box around the viewer. The translation of view
// is dropped so the sky never moves with the camera.
func (r *Renderer) DrawSkybox(view, projection math.Mat4) {
	if r.skyTexture == 0 {
		return
	}
	gl.DepthMask(false)
	gl.CullFace(gl.FRONT)

	r.skyProgram.Use()
	r.skyProgram.SetMat4("uProjection", projection)
	r.skyProgram.SetMat4("uView", view.WithoutTranslation())
	r.skyProgram.SetInt("uSkybox", 0)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, r.skyTexture)
	gl.BindVertexArray(r.sky.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, r.sky.count)
	gl.BindVertexArray(0)

	gl.CullFace(gl.BACK)
	gl.DepthMask(true)
}

// DrawField draws every instance of the field, binding the pool texture of
// each face before drawing its six vertices.
func (r *Renderer) DrawField(field *world.Field, view, projection math.Mat4) error {
	if len(r.faceTextures) == 0 {
		return ErrNoTextures
	}

	r.cubeProgram.Use()
	r.cubeProgram.SetMat4("uProjection", projection)
	r.cubeProgram.SetMat4("uView", view)
	r.cubeProgram.SetInt("uTexture", 0)
	r.setSun()

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindVertexArray(r.cube.vao)
	for i := range field.Instances {
		in := &field.Instances[i]
		r.cubeProgram.SetMat4("uModel", in.Model())
		for f, idx := range in.Faces {
			gl.BindTexture(gl.TEXTURE_2D, r.faceTexture(idx))
			gl.DrawArrays(gl.TRIANGLES, int32(f*geometry.VerticesPerFace), geometry.VerticesPerFace)
		}
	}
	gl.BindVertexArray(0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return nil
}

// ReadPixels returns the back buffer as bottom-up RGBA rows. Call it after
// drawing and before the buffers are swapped.
func (r *Renderer) ReadPixels() (pixels []byte, width, height int) {
	width, height = r.config.Width, r.config.Height
	if width <= 0 || height <= 0 {
		return nil, 0, 0
	}
	pixels = make([]byte, width*height*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, width, height
}

// SetSun replaces the light applied to the cubes; nil turns lighting off.
func (r *Renderer) SetSun(sun *lighting.Sun) {
	r.config.Sun = sun
}

func (r *Renderer) setSun() {
	if r.config.Sun == nil {
		r.cubeProgram.SetInt("uLit", 0)
		return
	}
	r.cubeProgram.SetInt("uLit", 1)
	r.cubeProgram.SetVec3("uSunDir", r.config.Sun.Direction)
	r.cubeProgram.SetFloat("uAmbient", r.config.Sun.Ambient)
}

// faceTexture returns the texture for pool index idx, falling back to the
// first entry for indices outside the pool.
func (r *Renderer) faceTexture(idx int) uint32 {
	if idx < 0 || idx >= len(r.faceTextures) {
		return r.faceTextures[0]
	}
	return r.faceTextures[idx]
}

func (r *Renderer) deleteFaceTextures() {
	if len(r.faceTextures) > 0 {
		gl.DeleteTextures(int32(len(r.faceTextures)), &r.faceTextures[0])
		r.faceTextures = nil
	}
}

func (b *meshBuffers) delete() {
	if b.vao != 0 {
		gl.DeleteVertexArrays(1, &b.vao)
	}
	if b.vbo != 0 {
		gl.DeleteBuffers(1, &b.vbo)
	}
	*b = meshBuffers{}
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	r.cube.delete()
	r.sky.delete()
	r.deleteFaceTextures()
	if r.skyTexture != 0 {
		gl.DeleteTextures(1, &r.skyTexture)
		r.skyTexture = 0
	}
	if r.cubeProgram != nil {
		r.cubeProgram.Delete()
	}
	if r.skyProgram != nil {
		r.skyProgram.Delete()
	}
}
