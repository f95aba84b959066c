// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// CubeVertexShader transforms textured cube vertices.
//
//go:embed cube.vert
var CubeVertexShader string

// CubeFragmentShader samples the face texture.
//
//go:embed cube.frag
var CubeFragmentShader string

// SkyboxVertexShader passes the sky box direction through.
//
//go:embed skybox.vert
var SkyboxVertexShader string

// SkyboxFragmentShader samples the sky cube map.
//
//go:embed skybox.frag
var SkyboxFragmentShader string
