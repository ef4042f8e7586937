// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// SurfaceVertexShader is the vertex shader for the water surface.
//
//go:embed surface.vert
var SurfaceVertexShader string

// SurfaceFragmentShader is the fragment shader for the water surface.
//
//go:embed surface.frag
var SurfaceFragmentShader string

// SolidVertexShader is the vertex shader for flat-colored geometry and lines.
//
//go:embed solid.vert
var SolidVertexShader string

// SolidFragmentShader is the fragment shader for flat-colored geometry and lines.
//
//go:embed solid.frag
var SolidFragmentShader string
