package scene

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/meshmark/pkg/math"
)

// MarkerRadius is the marker sphere radius in scene units. Picking uses the
// same radius so a marker is clickable exactly where it is drawn.
const MarkerRadius = 0.04

// Marker colors: red for open, blue for completed.
var (
	openColor      = [3]float32{0.86, 0.18, 0.18}
	completedColor = [3]float32{0.2, 0.35, 0.9}
)

// markerMesh is a unit octahedron, cheap to draw and readable at any angle.
type markerMesh struct {
	vao, vbo, ebo uint32
	indexCount    int32
}

func newMarkerMesh() markerMesh {
	// Six apex vertices, radial normals, no texcoords.
	verts := []float32{
		1, 0, 0, 1, 0, 0, 0, 0,
		-1, 0, 0, -1, 0, 0, 0, 0,
		0, 1, 0, 0, 1, 0, 0, 0,
		0, -1, 0, 0, -1, 0, 0, 0,
		0, 0, 1, 0, 0, 1, 0, 0,
		0, 0, -1, 0, 0, -1, 0, 0,
	}
	indices := []uint32{
		2, 0, 4, 2, 4, 1, 2, 1, 5, 2, 5, 0,
		3, 4, 0, 3, 1, 4, 3, 5, 1, 3, 0, 5,
	}

	var m markerMesh
	m.indexCount = int32(len(indices))

	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(verts)*4, gl.Ptr(verts), gl.STATIC_DRAW)

	gl.GenBuffers(1, &m.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)

	stride := int32(8 * 4)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, stride, 6*4)

	gl.BindVertexArray(0)
	return m
}

// drawMarkers renders markers with the scene program already bound. Markers
// are lit flat so they stay legible under every rig preset.
func (s *Scene) drawMarkers(markers []Marker) {
	if len(markers) == 0 {
		return
	}

	gl.Uniform1i(s.loc.useTexture, 0)
	gl.BindTexture(gl.TEXTURE_2D, s.fallback)
	gl.Uniform1f(s.loc.ambient, 1)
	gl.Uniform1f(s.loc.directional, 0)
	gl.Uniform1f(s.loc.point, 0)

	gl.BindVertexArray(s.marker.vao)
	for _, m := range markers {
		c := openColor
		if m.Completed {
			c = completedColor
		}
		gl.Uniform3f(s.loc.baseColor, c[0], c[1], c[2])

		model := math.Translate(m.Position.X, m.Position.Y, m.Position.Z).Mul(math.ScaleUniform(MarkerRadius))
		gl.UniformMatrix4fv(s.loc.model, 1, false, model.Ptr())
		gl.DrawElementsWithOffset(gl.TRIANGLES, s.marker.indexCount, gl.UNSIGNED_INT, 0)
	}

	// Restore mesh lighting and model transform for the next frame's order.
	identity := math.Identity()
	gl.UniformMatrix4fv(s.loc.model, 1, false, identity.Ptr())
	gl.Uniform1f(s.loc.ambient, s.lights.Ambient)
	gl.Uniform1f(s.loc.directional, s.lights.Directional)
	gl.Uniform1f(s.loc.point, s.lights.Point)
}

func (m *markerMesh) destroy() {
	if m.vao != 0 {
		gl.DeleteVertexArrays(1, &m.vao)
		gl.DeleteBuffers(1, &m.vbo)
		gl.DeleteBuffers(1, &m.ebo)
		m.vao, m.vbo, m.ebo = 0, 0, 0
	}
}
