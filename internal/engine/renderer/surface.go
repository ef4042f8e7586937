package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/tidewater/internal/engine/lighting"
	"github.com/Faultbox/tidewater/internal/engine/renderer/shaders"
	"github.com/Faultbox/tidewater/internal/engine/shader"
	"github.com/Faultbox/tidewater/internal/engine/water"
	"github.com/Faultbox/tidewater/pkg/math"
)

// SurfaceView is the per-draw state of the water surface.
type SurfaceView struct {
	ViewProj   math.Mat4
	Model      math.Mat4
	CameraPos  math.Vec3
	Mode       water.Mode
	Reflection uint32 // color texture of the reflection target
	Refraction uint32 // color texture of the refraction target
}

// SurfaceRenderer draws the deformed grid mesh, blending the mirror
// textures by a fresnel term.
type SurfaceRenderer struct {
	program *shader.Program

	vao uint32
	vbo uint32
	ebo uint32

	vertexCount int
	indexCount  int32
	scratch     []float32

	WaterColor [4]float32
	Distortion float32
	Sun        lighting.Sun
}

// NewSurfaceRenderer creates a new surface renderer.
func NewSurfaceRenderer() (*SurfaceRenderer, error) {
	program, err := shader.NewProgram(shaders.SurfaceVertexShader, shaders.SurfaceFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("surface shader: %w", err)
	}

	sr := &SurfaceRenderer{
		program:    program,
		WaterColor: [4]float32{0.12, 0.32, 0.45, 0.85},
		Distortion: 0.02,
		Sun:        lighting.DefaultSun(),
	}

	gl.GenVertexArrays(1, &sr.vao)
	gl.GenBuffers(1, &sr.vbo)
	gl.GenBuffers(1, &sr.ebo)

	return sr, nil
}

// Upload copies the mesh's current vertices to the GPU. Indices are uploaded
// only when the vertex count changes.
func (sr *SurfaceRenderer) Upload(m *water.GridMesh) {
	if len(m.Vertices) == 0 || len(m.Indices) == 0 {
		sr.indexCount = 0
		return
	}

	sr.scratch = m.Positions(sr.scratch)

	gl.BindVertexArray(sr.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, sr.vbo)

	if len(m.Vertices) != sr.vertexCount {
		gl.BufferData(gl.ARRAY_BUFFER, len(sr.scratch)*4, unsafe.Pointer(&sr.scratch[0]), gl.DYNAMIC_DRAW)

		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, sr.ebo)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, unsafe.Pointer(&m.Indices[0]), gl.STATIC_DRAW)

		gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 3*4, 0)
		gl.EnableVertexAttribArray(0)

		sr.vertexCount = len(m.Vertices)
		sr.indexCount = int32(len(m.Indices))
	} else {
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(sr.scratch)*4, unsafe.Pointer(&sr.scratch[0]))
	}

	gl.BindVertexArray(0)
}

// Render draws the uploaded mesh.
func (sr *SurfaceRenderer) Render(v SurfaceView) {
	if sr.indexCount == 0 {
		return
	}

	sr.program.Use()
	sr.program.SetMat4("uViewProj", v.ViewProj)
	sr.program.SetMat4("uModel", v.Model)
	sr.program.SetVec3("uCameraPos", v.CameraPos)
	sr.program.SetVec4("uWaterColor", sr.WaterColor)
	sr.program.SetFloat("uDistortion", sr.Distortion)
	sr.program.SetInt("uMode", int32(v.Mode))
	sr.program.SetVec3("uSunDir", sr.Sun.Direction())
	sr.program.SetVec3("uSunColor", sr.Sun.Radiance())

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, v.Reflection)
	sr.program.SetInt("uReflection", 0)
	gl.ActiveTexture(gl.TEXTURE1)
	gl.BindTexture(gl.TEXTURE_2D, v.Refraction)
	sr.program.SetInt("uRefraction", 1)

	// The surface is seen from both sides.
	gl.Disable(gl.CULL_FACE)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	gl.BindVertexArray(sr.vao)
	gl.DrawElementsWithOffset(gl.TRIANGLES, sr.indexCount, gl.UNSIGNED_INT, 0)
	gl.BindVertexArray(0)

	gl.Disable(gl.BLEND)
	gl.Enable(gl.CULL_FACE)
	gl.ActiveTexture(gl.TEXTURE0)
}

// Destroy releases GPU resources.
func (sr *SurfaceRenderer) Destroy() {
	if sr.vao != 0 {
		gl.DeleteVertexArrays(1, &sr.vao)
	}
	if sr.vbo != 0 {
		gl.DeleteBuffers(1, &sr.vbo)
	}
	if sr.ebo != 0 {
		gl.DeleteBuffers(1, &sr.ebo)
	}
	sr.program.Delete()
}
