// Package geometry builds the procedural cube mesh shared by every cube
// instance and the sky box.
//
// One canonical face is rotated into the other five. Every face is emitted
// as two triangles that wind clockwise when seen from outside the cube, so
// renderers treat clockwise as the front face (or cull front faces when the
// cube is viewed from inside, as the sky box is).
package geometry

import (
	"fmt"
	gomath "math"

	"github.com/Faultbox/multicube/pkg/math"
)

// Mesh layout constants.
const (
	FaceCount       = 6
	VerticesPerFace = 6
	VertexCount     = FaceCount * VerticesPerFace

	PositionSize = 3
	NormalSize   = 3
	TexCoordSize = 2
)

// FaceNormals is the outward unit normal of each face block. Face f occupies
// vertices [6f, 6f+6) of the mesh.
var FaceNormals = [FaceCount]math.Vec3{
	{X: 1, Y: 0, Z: 0},
	{X: 0, Y: 1, Z: 0},
	{X: 0, Y: 0, Z: 1},
	{X: -1, Y: 0, Z: 0},
	{X: 0, Y: -1, Z: 0},
	{X: 0, Y: 0, Z: -1},
}

// dropAxis names the position component ignored when deriving texture
// coordinates for each face: the face's own axis.
var dropAxis = [FaceCount]int{0, 1, 2, 0, 1, 2}

// canonicalFace is the +Z face at z=+0.5 as two triangles.
var canonicalFace = [VerticesPerFace]math.Vec3{
	{X: 0.5, Y: -0.5, Z: 0.5},
	{X: -0.5, Y: -0.5, Z: 0.5},
	{X: 0.5, Y: 0.5, Z: 0.5},
	{X: -0.5, Y: -0.5, Z: 0.5},
	{X: -0.5, Y: 0.5, Z: 0.5},
	{X: 0.5, Y: 0.5, Z: 0.5},
}

// faceTransforms derive all six faces from the canonical one. The rotated
// outward normal decides which face block each result fills.
var faceTransforms = []math.Mat4{
	math.Identity(),
	math.RotateX(gomath.Pi),
	math.RotateY(gomath.Pi / 2),
	math.RotateX(-gomath.Pi / 2).Mul(math.RotateY(-gomath.Pi / 2)),
	math.RotateX(gomath.Pi / 2),
	math.RotateX(-gomath.Pi / 2),
}

// Mesh is an interleaved, non-indexed triangle list. Each vertex holds a
// position, then an optional normal, then optional texture coordinates.
type Mesh struct {
	Data      []float32
	Stride    int // floats per vertex: 3, 5, 6 or 8
	Normals   bool
	TexCoords bool
}

// NewCube generates a unit cube centred on the origin.
// With both flags false only positions are emitted, which is the form the
// sky box uses.
func NewCube(texCoords, normals bool) *Mesh {
	m := &Mesh{
		Stride:    PositionSize,
		Normals:   normals,
		TexCoords: texCoords,
	}
	if normals {
		m.Stride += NormalSize
	}
	if texCoords {
		m.Stride += TexCoordSize
	}
	m.Data = make([]float32, VertexCount*m.Stride)

	var filled [FaceCount]bool
	for _, transform := range faceTransforms {
		face := faceFor(transform.TransformDirection(math.Vec3{Z: 1}))
		if filled[face] {
			panic(fmt.Sprintf("geometry: face %d generated twice", face))
		}
		filled[face] = true

		var side [VerticesPerFace]math.Vec3
		for i, v := range canonicalFace {
			p := transform.TransformVec3(v)
			side[i] = math.Vec3{X: snapHalf(p.X), Y: snapHalf(p.Y), Z: snapHalf(p.Z)}
		}
		m.writeFace(face, side)
	}

	return m
}

// writeFace stores one face block at offset 6*face.
func (m *Mesh) writeFace(face int, side [VerticesPerFace]math.Vec3) {
	normal := FaceNormals[face]
	for i, p := range side {
		v := m.Data[(face*VerticesPerFace+i)*m.Stride:]
		v[0], v[1], v[2] = p.X, p.Y, p.Z
		n := PositionSize
		if m.Normals {
			v[n], v[n+1], v[n+2] = normal.X, normal.Y, normal.Z
			n += NormalSize
		}
		if m.TexCoords {
			uv := faceTexCoord(face, p)
			v[n], v[n+1] = uv.X, uv.Y
		}
	}
}

// faceTexCoord maps the two in-plane components of p to 0 or 1 by sign.
func faceTexCoord(face int, p math.Vec3) math.Vec2 {
	var uv [2]float32
	n := 0
	for axis := 0; axis < 3; axis++ {
		if axis == dropAxis[face] {
			continue
		}
		if p.Component(axis) > 0 {
			uv[n] = 1
		}
		n++
	}
	return math.Vec2{X: uv[0], Y: uv[1]}
}

// faceFor returns the face index whose normal matches n.
func faceFor(n math.Vec3) int {
	for i, fn := range FaceNormals {
		if n.ApproxEqual(fn, 1e-4) {
			return i
		}
	}
	panic(fmt.Sprintf("geometry: no face for normal %v", n))
}

// snapHalf rounds to the nearest multiple of 0.5. Quarter-turn rotations
// keep every corner on +-0.5, so this only removes float error.
func snapHalf(v float32) float32 {
	return float32(gomath.Round(float64(v)*2) / 2)
}

// VertexCount returns the number of vertices in the mesh.
func (m *Mesh) VertexCount() int {
	if m.Stride == 0 {
		return 0
	}
	return len(m.Data) / m.Stride
}

// Vertex returns the raw floats of vertex i.
func (m *Mesh) Vertex(i int) []float32 {
	return m.Data[i*m.Stride : (i+1)*m.Stride]
}

// Face returns the raw floats of the six vertices of face f.
func (m *Mesh) Face(f int) []float32 {
	start := f * VerticesPerFace * m.Stride
	return m.Data[start : start+VerticesPerFace*m.Stride]
}

// Position returns the position of vertex i.
func (m *Mesh) Position(i int) math.Vec3 {
	v := m.Vertex(i)
	return math.Vec3{X: v[0], Y: v[1], Z: v[2]}
}

// Normal returns the normal of vertex i, if the mesh has normals.
func (m *Mesh) Normal(i int) (math.Vec3, bool) {
	off := m.NormalOffset()
	if off < 0 {
		return math.Vec3{}, false
	}
	v := m.Vertex(i)
	return math.Vec3{X: v[off], Y: v[off+1], Z: v[off+2]}, true
}

// TexCoord returns the texture coordinate of vertex i, if the mesh has them.
func (m *Mesh) TexCoord(i int) (math.Vec2, bool) {
	off := m.TexCoordOffset()
	if off < 0 {
		return math.Vec2{}, false
	}
	v := m.Vertex(i)
	return math.Vec2{X: v[off], Y: v[off+1]}, true
}

// NormalOffset is the float offset of the normal within a vertex, or -1.
func (m *Mesh) NormalOffset() int {
	if !m.Normals {
		return -1
	}
	return PositionSize
}

// TexCoordOffset is the float offset of the texture coordinate within a
// vertex, or -1.
func (m *Mesh) TexCoordOffset() int {
	if !m.TexCoords {
		return -1
	}
	if m.Normals {
		return PositionSize + NormalSize
	}
	return PositionSize
}

// Scaled returns a copy with every position multiplied by s. Normals and
// texture coordinates are left untouched.
func (m *Mesh) Scaled(s float32) *Mesh {
	out := &Mesh{
		Data:      make([]float32, len(m.Data)),
		Stride:    m.Stride,
		Normals:   m.Normals,
		TexCoords: m.TexCoords,
	}
	copy(out.Data, m.Data)
	for i := 0; i < out.VertexCount(); i++ {
		v := out.Vertex(i)
		v[0] *= s
		v[1] *= s
		v[2] *= s
	}
	return out
}

// Bounds returns the axis-aligned bounding box of the positions.
func (m *Mesh) Bounds() (lo, hi math.Vec3) {
	if m.VertexCount() == 0 {
		return math.Vec3{}, math.Vec3{}
	}
	lo = m.Position(0)
	hi = lo
	for i := 1; i < m.VertexCount(); i++ {
		p := m.Position(i)
		lo = math.Vec3{X: min(lo.X, p.X), Y: min(lo.Y, p.Y), Z: min(lo.Z, p.Z)}
		hi = math.Vec3{X: max(hi.X, p.X), Y: max(hi.Y, p.Y), Z: max(hi.Z, p.Z)}
	}
	return lo, hi
}
