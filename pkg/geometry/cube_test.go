package geometry

import (
	"testing"

	"github.com/Faultbox/multicube/pkg/math"
)

func TestNewCubeLayout(t *testing.T) {
	tests := []struct {
		name      string
		texCoords bool
		normals   bool
		stride    int
		normalOff int
		texOff    int
	}{
		{"bare", false, false, 3, -1, -1},
		{"textures", true, false, 5, -1, 3},
		{"normals", false, true, 6, 3, -1},
		{"both", true, true, 8, 3, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewCube(tt.texCoords, tt.normals)
			if m.Stride != tt.stride {
				t.Errorf("stride = %d, want %d", m.Stride, tt.stride)
			}
			if len(m.Data) != VertexCount*tt.stride {
				t.Errorf("len(Data) = %d, want %d", len(m.Data), VertexCount*tt.stride)
			}
			if m.VertexCount() != 36 {
				t.Errorf("VertexCount() = %d, want 36", m.VertexCount())
			}
			if m.NormalOffset() != tt.normalOff {
				t.Errorf("NormalOffset() = %d, want %d", m.NormalOffset(), tt.normalOff)
			}
			if m.TexCoordOffset() != tt.texOff {
				t.Errorf("TexCoordOffset() = %d, want %d", m.TexCoordOffset(), tt.texOff)
			}
		})
	}
}

func TestCubeFaceNormals(t *testing.T) {
	m := NewCube(true, true)
	for f := 0; f < FaceCount; f++ {
		for i := 0; i < VerticesPerFace; i++ {
			n, ok := m.Normal(f*VerticesPerFace + i)
			if !ok {
				t.Fatal("mesh should have normals")
			}
			if n != FaceNormals[f] {
				t.Errorf("face %d vertex %d normal = %v, want %v", f, i, n, FaceNormals[f])
			}
		}
	}
}

func TestCubeFacesLieOnTheirPlane(t *testing.T) {
	m := NewCube(false, false)
	for f := 0; f < FaceCount; f++ {
		n := FaceNormals[f]
		for i := 0; i < VerticesPerFace; i++ {
			p := m.Position(f*VerticesPerFace + i)
			if d := p.Dot(n); d != 0.5 {
				t.Errorf("face %d vertex %d = %v, distance along normal %v, want 0.5", f, i, p, d)
			}
		}
	}
}

func TestCubeBounds(t *testing.T) {
	lo, hi := NewCube(true, true).Bounds()
	if lo != (math.Vec3{X: -0.5, Y: -0.5, Z: -0.5}) {
		t.Errorf("min = %v, want (-0.5, -0.5, -0.5)", lo)
	}
	if hi != (math.Vec3{X: 0.5, Y: 0.5, Z: 0.5}) {
		t.Errorf("max = %v, want (0.5, 0.5, 0.5)", hi)
	}
}

func TestCubeIsClosed(t *testing.T) {
	m := NewCube(false, false)

	// Every corner of the cube is shared by exactly three faces.
	faces := make(map[math.Vec3]map[int]bool)
	for f := 0; f < FaceCount; f++ {
		corners := make(map[math.Vec3]bool)
		for i := 0; i < VerticesPerFace; i++ {
			p := m.Position(f*VerticesPerFace + i)
			corners[p] = true
			if faces[p] == nil {
				faces[p] = make(map[int]bool)
			}
			faces[p][f] = true
		}
		if len(corners) != 4 {
			t.Errorf("face %d has %d distinct corners, want 4", f, len(corners))
		}
	}

	if len(faces) != 8 {
		t.Fatalf("cube has %d distinct corners, want 8", len(faces))
	}
	for p, fs := range faces {
		if len(fs) != 3 {
			t.Errorf("corner %v belongs to %d faces, want 3", p, len(fs))
		}
	}
}

func TestCubeWindingIsConsistent(t *testing.T) {
	m := NewCube(false, false)
	for f := 0; f < FaceCount; f++ {
		for tri := 0; tri < 2; tri++ {
			base := f*VerticesPerFace + tri*3
			a, b, c := m.Position(base), m.Position(base+1), m.Position(base+2)
			w := b.Sub(a).Cross(c.Sub(a)).Normalize()

			// Clockwise seen from outside: the winding normal points inward.
			if w != FaceNormals[f].Negate() {
				t.Errorf("face %d triangle %d winding normal = %v, want %v", f, tri, w, FaceNormals[f].Negate())
			}
		}
	}
}

func TestCubeTexCoords(t *testing.T) {
	m := NewCube(true, false)

	uv, ok := m.TexCoord(0)
	if !ok {
		t.Fatal("mesh should have texture coordinates")
	}
	valid := map[math.Vec2]bool{{X: 0, Y: 0}: true, {X: 0, Y: 1}: true, {X: 1, Y: 0}: true, {X: 1, Y: 1}: true}
	if !valid[uv] {
		t.Errorf("face 0 vertex 0 texcoord = %v, want a unit square corner", uv)
	}

	for f := 0; f < FaceCount; f++ {
		seen := make(map[math.Vec2]bool)
		for i := 0; i < VerticesPerFace; i++ {
			uv, _ := m.TexCoord(f*VerticesPerFace + i)
			if !valid[uv] {
				t.Errorf("face %d vertex %d texcoord = %v, out of range", f, i, uv)
			}
			seen[uv] = true
		}
		if len(seen) != 4 {
			t.Errorf("face %d uses %d texcoord corners, want 4", f, len(seen))
		}
	}
}

func TestCubeTexCoordsIndependentOfNormals(t *testing.T) {
	a := NewCube(true, false)
	b := NewCube(true, true)
	for i := 0; i < VertexCount; i++ {
		uvA, _ := a.TexCoord(i)
		uvB, _ := b.TexCoord(i)
		if uvA != uvB {
			t.Errorf("vertex %d: texcoord %v without normals, %v with normals", i, uvA, uvB)
		}
		if a.Position(i) != b.Position(i) {
			t.Errorf("vertex %d: positions differ", i)
		}
	}
}

func TestBareCubeHasNoChannels(t *testing.T) {
	m := NewCube(false, false)
	if _, ok := m.Normal(0); ok {
		t.Error("bare cube should not report normals")
	}
	if _, ok := m.TexCoord(0); ok {
		t.Error("bare cube should not report texture coordinates")
	}
}

func TestScaled(t *testing.T) {
	m := NewCube(true, true)
	sky := m.Scaled(2000)

	lo, hi := sky.Bounds()
	if lo != (math.Vec3{X: -1000, Y: -1000, Z: -1000}) || hi != (math.Vec3{X: 1000, Y: 1000, Z: 1000}) {
		t.Errorf("scaled bounds = %v..%v, want +-1000", lo, hi)
	}

	n, _ := sky.Normal(0)
	if n != FaceNormals[0] {
		t.Errorf("scaling changed normal to %v", n)
	}
	uv, _ := sky.TexCoord(0)
	uv0, _ := m.TexCoord(0)
	if uv != uv0 {
		t.Errorf("scaling changed texcoord to %v", uv)
	}

	// Source mesh is untouched.
	if lo, _ := m.Bounds(); lo.X != -0.5 {
		t.Errorf("source mesh modified: min %v", lo)
	}
}

func TestFaceSlice(t *testing.T) {
	m := NewCube(false, true)
	f := m.Face(5)
	if len(f) != VerticesPerFace*m.Stride {
		t.Fatalf("len(Face(5)) = %d, want %d", len(f), VerticesPerFace*m.Stride)
	}
	if f[3] != 0 || f[4] != 0 || f[5] != -1 {
		t.Errorf("face 5 normal = %v, want (0, 0, -1)", f[3:6])
	}
}
