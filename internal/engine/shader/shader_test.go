package shader

import (
	"reflect"
	"testing"
)

func TestUniforms(t *testing.T) {
	src := `#version 410 core
uniform mat4 uProjection;
uniform mat4 uView;
  uniform sampler2D uTexture ;
uniform float uWeights[4];
// uniform mat4 uCommented;
in vec2 vTexCoord;
uniform mat4 uView;
`
	want := []string{"uProjection", "uView", "uTexture", "uWeights"}
	if got := Uniforms(src); !reflect.DeepEqual(got, want) {
		t.Errorf("Uniforms = %v, want %v", got, want)
	}
	if got := Uniforms("void main() {}"); got != nil {
		t.Errorf("Uniforms of source without uniforms = %v", got)
	}
}

func TestCString(t *testing.T) {
	tests := []struct{ in, want string }{
		{"uView", "uView\x00"},
		{"uView\x00", "uView\x00"},
		{"uView\x00\x00", "uView\x00"},
		{"", "\x00"},
	}
	for _, tt := range tests {
		if got := cString(tt.in); got != tt.want {
			t.Errorf("cString(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
