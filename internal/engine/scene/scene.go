// Package scene renders the annotated model into an offscreen framebuffer:
// the mesh with its per-group materials, the annotation markers, and the
// configured lighting rig.
package scene

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/meshmark/internal/engine/framebuffer"
	"github.com/Faultbox/meshmark/internal/engine/lighting"
	"github.com/Faultbox/meshmark/internal/engine/shader"
	"github.com/Faultbox/meshmark/internal/engine/texture"
	"github.com/Faultbox/meshmark/pkg/formats"
	"github.com/Faultbox/meshmark/pkg/math"
)

const vertexShaderSource = `#version 410 core
layout (location = 0) in vec3 aPosition;
layout (location = 1) in vec3 aNormal;
layout (location = 2) in vec2 aTexCoord;

uniform mat4 uModel;
uniform mat4 uView;
uniform mat4 uProjection;

out vec3 vNormal;
out vec3 vWorldPos;
out vec2 vTexCoord;

void main() {
    vec4 world = uModel * vec4(aPosition, 1.0);
    vWorldPos = world.xyz;
    vNormal = mat3(uModel) * aNormal;
    vTexCoord = aTexCoord;
    gl_Position = uProjection * uView * world;
}
`

const fragmentShaderSource = `#version 410 core
in vec3 vNormal;
in vec3 vWorldPos;
in vec2 vTexCoord;

uniform sampler2D uTexture;
uniform bool uUseTexture;
uniform vec3 uBaseColor;

uniform float uAmbient;
uniform float uDirectional;
uniform float uPoint;
uniform vec3 uLightDir;
uniform vec3 uPointPos;

out vec4 FragColor;

void main() {
    vec3 base = uBaseColor;
    float alpha = 1.0;
    if (uUseTexture) {
        vec4 tex = texture(uTexture, vTexCoord);
        base = tex.rgb;
        alpha = tex.a;
    }

    vec3 normal = normalize(vNormal);
    if (!gl_FrontFacing) {
        normal = -normal;
    }

    float light = uAmbient;
    light += uDirectional * max(dot(normal, normalize(uLightDir)), 0.0);

    vec3 toPoint = uPointPos - vWorldPos;
    float dist = length(toPoint);
    float atten = 1.0 / (1.0 + 0.5 * dist * dist);
    light += uPoint * max(dot(normal, toPoint / dist), 0.0) * atten;

    FragColor = vec4(base * min(light, 1.0), alpha);
}
`

// GroupStyle is the resolved appearance of one draw group.
type GroupStyle struct {
	Texture uint32 // GL id, 0 for flat color
	Color   formats.RGB
}

// Marker is one annotation sphere to draw.
type Marker struct {
	Position  math.Vec3
	Completed bool
}

type drawCall struct {
	style GroupStyle
	start int32
	count int32
}

// Scene owns the GL resources for one loaded model.
type Scene struct {
	program uint32
	loc     uniforms

	fb *framebuffer.Offscreen

	vao, vbo, ebo uint32
	calls         []drawCall

	marker   markerMesh
	fallback uint32

	background [3]float32
	lights     lighting.Values
}

type uniforms struct {
	model, view, projection     int32
	tex, useTexture, baseColor  int32
	ambient, directional, point int32
	lightDir, pointPos          int32
}

// New compiles the scene program and allocates the offscreen target.
// Requires a current GL context.
func New(width, height int32) (*Scene, error) {
	program, err := shader.CompileProgram(vertexShaderSource, fragmentShaderSource)
	if err != nil {
		return nil, fmt.Errorf("scene shader: %w", err)
	}

	fb, err := framebuffer.New(width, height)
	if err != nil {
		gl.DeleteProgram(program)
		return nil, err
	}

	s := &Scene{
		program:    program,
		fb:         fb,
		fallback:   texture.UploadWhite(),
		background: [3]float32{0.45, 0.45, 0.48},
		lights:     lighting.NewRig(lighting.MinIntensity).Values(),
	}
	s.loc = uniforms{
		model:       shader.Uniform(program, "uModel"),
		view:        shader.Uniform(program, "uView"),
		projection:  shader.Uniform(program, "uProjection"),
		tex:         shader.Uniform(program, "uTexture"),
		useTexture:  shader.Uniform(program, "uUseTexture"),
		baseColor:   shader.Uniform(program, "uBaseColor"),
		ambient:     shader.Uniform(program, "uAmbient"),
		directional: shader.Uniform(program, "uDirectional"),
		point:       shader.Uniform(program, "uPoint"),
		lightDir:    shader.Uniform(program, "uLightDir"),
		pointPos:    shader.Uniform(program, "uPointPos"),
	}
	s.marker = newMarkerMesh()
	return s, nil
}

// UploadMesh replaces the scene geometry. Vertices are expected normalized;
// styles maps group material names to their resolved appearance.
func (s *Scene) UploadMesh(verts []formats.Vertex, indices []uint32, groups []formats.DrawGroup, styles map[string]GroupStyle) {
	s.releaseMesh()

	gl.GenVertexArrays(1, &s.vao)
	gl.BindVertexArray(s.vao)

	gl.GenBuffers(1, &s.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, s.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(verts)*int(unsafe.Sizeof(formats.Vertex{})), gl.Ptr(verts), gl.STATIC_DRAW)

	gl.GenBuffers(1, &s.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, s.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)

	stride := int32(unsafe.Sizeof(formats.Vertex{}))
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, stride, 6*4)

	gl.BindVertexArray(0)

	s.calls = s.calls[:0]
	for _, g := range groups {
		style, ok := styles[g.Material]
		if !ok {
			style = GroupStyle{Color: formats.RGB{R: 0.5, G: 0.5, B: 0.5}}
		}
		s.calls = append(s.calls, drawCall{style: style, start: g.Start, count: g.Count})
	}
}

// SetBackground sets the clear color.
func (s *Scene) SetBackground(r, g, b float32) { s.background = [3]float32{r, g, b} }

// SetLighting applies a lighting rig snapshot.
func (s *Scene) SetLighting(v lighting.Values) { s.lights = v }

// Resize adjusts the offscreen target to the viewport.
func (s *Scene) Resize(w, h int32) { s.fb.Resize(w, h) }

// Size returns the offscreen target dimensions.
func (s *Scene) Size() (int32, int32) { return s.fb.Size() }

// Render draws the mesh and markers and returns the color texture id for the
// UI to display.
func (s *Scene) Render(view, projection math.Mat4, markers []Marker) uint32 {
	restore := s.fb.Bind()
	defer restore()

	s.fb.Clear(s.background[0], s.background[1], s.background[2])

	gl.Enable(gl.DEPTH_TEST)
	// Double-sided rendering: single-sided scans and inverted normals are
	// common in uploaded OBJ files.
	gl.Disable(gl.CULL_FACE)

	gl.UseProgram(s.program)
	identity := math.Identity()
	gl.UniformMatrix4fv(s.loc.model, 1, false, identity.Ptr())
	gl.UniformMatrix4fv(s.loc.view, 1, false, view.Ptr())
	gl.UniformMatrix4fv(s.loc.projection, 1, false, projection.Ptr())

	gl.Uniform1f(s.loc.ambient, s.lights.Ambient)
	gl.Uniform1f(s.loc.directional, s.lights.Directional)
	gl.Uniform1f(s.loc.point, s.lights.Point)
	gl.Uniform3f(s.loc.lightDir, s.lights.LightDir.X, s.lights.LightDir.Y, s.lights.LightDir.Z)
	gl.Uniform3f(s.loc.pointPos, s.lights.PointPos.X, s.lights.PointPos.Y, s.lights.PointPos.Z)
	gl.Uniform1i(s.loc.tex, 0)
	gl.ActiveTexture(gl.TEXTURE0)

	gl.BindVertexArray(s.vao)
	for _, c := range s.calls {
		if c.style.Texture != 0 {
			gl.Uniform1i(s.loc.useTexture, 1)
			gl.BindTexture(gl.TEXTURE_2D, c.style.Texture)
		} else {
			gl.Uniform1i(s.loc.useTexture, 0)
			gl.BindTexture(gl.TEXTURE_2D, s.fallback)
			gl.Uniform3f(s.loc.baseColor, c.style.Color.R, c.style.Color.G, c.style.Color.B)
		}
		gl.DrawElementsWithOffset(gl.TRIANGLES, c.count, gl.UNSIGNED_INT, uintptr(c.start)*4)
	}

	s.drawMarkers(markers)

	gl.BindVertexArray(0)
	gl.UseProgram(0)
	return s.fb.ColorTexture()
}

func (s *Scene) releaseMesh() {
	if s.vao != 0 {
		gl.DeleteVertexArrays(1, &s.vao)
		gl.DeleteBuffers(1, &s.vbo)
		gl.DeleteBuffers(1, &s.ebo)
		s.vao, s.vbo, s.ebo = 0, 0, 0
	}
	s.calls = nil
}

// Destroy releases all GL resources.
func (s *Scene) Destroy() {
	s.releaseMesh()
	s.marker.destroy()
	texture.Delete(s.fallback)
	if s.program != 0 {
		gl.DeleteProgram(s.program)
		s.program = 0
	}
	s.fb.Destroy()
}
