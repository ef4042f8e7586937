package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/tidewater/internal/engine/renderer/shaders"
	"github.com/Faultbox/tidewater/internal/engine/shader"
	"github.com/Faultbox/tidewater/pkg/math"
)

// SolidRenderer draws flat-colored triangles and debug lines from a single
// streaming vertex buffer.
type SolidRenderer struct {
	program  *shader.Program
	vao      uint32
	vbo      uint32
	capacity int // floats
}

// NewSolidRenderer creates a new solid renderer.
func NewSolidRenderer() (*SolidRenderer, error) {
	program, err := shader.NewProgram(shaders.SolidVertexShader, shaders.SolidFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("solid shader: %w", err)
	}

	sr := &SolidRenderer{program: program}
	gl.GenVertexArrays(1, &sr.vao)
	gl.GenBuffers(1, &sr.vbo)

	gl.BindVertexArray(sr.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, sr.vbo)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 3*4, 0)
	gl.EnableVertexAttribArray(0)
	gl.BindVertexArray(0)

	return sr, nil
}

// Lines draws line-list vertices.
func (sr *SolidRenderer) Lines(viewProj math.Mat4, vertices []float32, color [4]float32) {
	sr.draw(gl.LINES, viewProj, vertices, color)
}

// Triangles draws triangle-list vertices with back-face culling.
func (sr *SolidRenderer) Triangles(viewProj math.Mat4, vertices []float32, color [4]float32) {
	sr.draw(gl.TRIANGLES, viewProj, vertices, color)
}

func (sr *SolidRenderer) draw(mode uint32, viewProj math.Mat4, vertices []float32, color [4]float32) {
	if len(vertices) < 3 {
		return
	}

	gl.BindVertexArray(sr.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, sr.vbo)
	if len(vertices) > sr.capacity {
		gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STREAM_DRAW)
		sr.capacity = len(vertices)
	} else {
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(vertices)*4, unsafe.Pointer(&vertices[0]))
	}

	sr.program.Use()
	sr.program.SetMat4("uViewProj", viewProj)
	sr.program.SetVec4("uColor", color)

	gl.DrawArrays(mode, 0, int32(len(vertices)/3))
	gl.BindVertexArray(0)
}

// Destroy releases GPU resources.
func (sr *SolidRenderer) Destroy() {
	if sr.vao != 0 {
		gl.DeleteVertexArrays(1, &sr.vao)
	}
	if sr.vbo != 0 {
		gl.DeleteBuffers(1, &sr.vbo)
	}
	sr.program.Delete()
}
