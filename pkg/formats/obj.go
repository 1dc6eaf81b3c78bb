// Package formats parses the text-based asset formats accepted by the viewer:
// Wavefront OBJ geometry and MTL material libraries. Parsing is independent of
// any rendering library; the output is plain mesh and material data.
package formats

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrNoGeometry is returned when an OBJ file contains no renderable faces.
var ErrNoGeometry = errors.New("obj: no face geometry")

// Vertex is a mesh vertex with position, normal, and texture coordinates.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// Size returns the extent of the box on each axis.
func (b Bounds) Size() [3]float32 {
	return [3]float32{b.Max[0] - b.Min[0], b.Max[1] - b.Min[1], b.Max[2] - b.Min[2]}
}

// Center returns the midpoint of the box.
func (b Bounds) Center() [3]float32 {
	return [3]float32{
		(b.Min[0] + b.Max[0]) / 2,
		(b.Min[1] + b.Max[1]) / 2,
		(b.Min[2] + b.Max[2]) / 2,
	}
}

// MaxDimension returns the largest extent across the three axes.
func (b Bounds) MaxDimension() float32 {
	s := b.Size()
	return max(s[0], max(s[1], s[2]))
}

// DrawGroup is a run of triangle indices sharing one material.
type DrawGroup struct {
	Material string
	Start    int32
	Count    int32
}

// OBJModel is the parsed mesh: triangulated vertices with faces grouped by
// material in first-use order.
type OBJModel struct {
	Vertices []Vertex
	Indices  []uint32
	Groups   []DrawGroup
	MTLLibs  []string
	Bounds   Bounds
}

// ParseOBJ parses OBJ text. Faces with more than three corners are fan
// triangulated; negative indices are resolved relative to the elements seen so
// far. Lines that cannot be parsed are skipped rather than failing the model.
func ParseOBJ(text string) (*OBJModel, error) {
	var (
		positions [][3]float32
		texCoords [][2]float32
		normals   [][3]float32
	)

	// Faces are bucketed per material, then flattened in first-use order.
	currentMaterial := ""
	materialOrder := []string{}
	facesByMaterial := map[string][]Vertex{}
	var mtlLibs []string

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "v":
			if p, ok := parseFloats3(fields[1:]); ok {
				positions = append(positions, p)
			}
		case "vt":
			if len(fields) >= 3 {
				u, errU := strconv.ParseFloat(fields[1], 32)
				v, errV := strconv.ParseFloat(fields[2], 32)
				if errU == nil && errV == nil {
					texCoords = append(texCoords, [2]float32{float32(u), float32(v)})
				}
			}
		case "vn":
			if n, ok := parseFloats3(fields[1:]); ok {
				normals = append(normals, n)
			}
		case "usemtl":
			if len(fields) >= 2 {
				currentMaterial = fields[1]
			}
		case "mtllib":
			mtlLibs = append(mtlLibs, fields[1:]...)
		case "f":
			corners := fields[1:]
			if len(corners) < 3 {
				continue
			}
			if _, seen := facesByMaterial[currentMaterial]; !seen {
				materialOrder = append(materialOrder, currentMaterial)
			}
			// Fan triangulation around the first corner.
			first, okFirst := resolveCorner(corners[0], positions, texCoords, normals)
			for i := 1; okFirst && i < len(corners)-1; i++ {
				second, ok1 := resolveCorner(corners[i], positions, texCoords, normals)
				third, ok2 := resolveCorner(corners[i+1], positions, texCoords, normals)
				if !ok1 || !ok2 {
					continue
				}
				facesByMaterial[currentMaterial] = append(facesByMaterial[currentMaterial], first, second, third)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("obj: %w", err)
	}

	model := &OBJModel{MTLLibs: mtlLibs}
	for _, name := range materialOrder {
		verts := facesByMaterial[name]
		start := int32(len(model.Indices))
		for _, v := range verts {
			model.Indices = append(model.Indices, uint32(len(model.Vertices)))
			model.Vertices = append(model.Vertices, v)
		}
		model.Groups = append(model.Groups, DrawGroup{
			Material: name,
			Start:    start,
			Count:    int32(len(verts)),
		})
	}

	if len(model.Vertices) == 0 {
		return nil, ErrNoGeometry
	}

	model.Bounds = computeBounds(model.Vertices)
	return model, nil
}

// resolveCorner parses a face corner of the form "v", "v/vt", "v//vn", or
// "v/vt/vn" into a vertex. Indices are 1-based; negative values count back
// from the end of the list seen so far.
func resolveCorner(corner string, positions [][3]float32, texCoords [][2]float32, normals [][3]float32) (Vertex, bool) {
	parts := strings.Split(corner, "/")

	pi, ok := resolveIndex(parts[0], len(positions))
	if !ok {
		return Vertex{}, false
	}
	v := Vertex{Position: positions[pi]}

	if len(parts) > 1 && parts[1] != "" {
		if ti, ok := resolveIndex(parts[1], len(texCoords)); ok {
			v.TexCoord = texCoords[ti]
		}
	}
	if len(parts) > 2 && parts[2] != "" {
		if ni, ok := resolveIndex(parts[2], len(normals)); ok {
			v.Normal = normals[ni]
		}
	}
	return v, true
}

func resolveIndex(s string, count int) (int, bool) {
	idx, err := strconv.Atoi(s)
	if err != nil || idx == 0 {
		return 0, false
	}
	if idx < 0 {
		idx = count + idx
	} else {
		idx--
	}
	if idx < 0 || idx >= count {
		return 0, false
	}
	return idx, true
}

func parseFloats3(fields []string) ([3]float32, bool) {
	if len(fields) < 3 {
		return [3]float32{}, false
	}
	var out [3]float32
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return [3]float32{}, false
		}
		out[i] = float32(f)
	}
	return out, true
}

func computeBounds(verts []Vertex) Bounds {
	b := Bounds{
		Min: verts[0].Position,
		Max: verts[0].Position,
	}
	for _, v := range verts[1:] {
		for i := 0; i < 3; i++ {
			b.Min[i] = min(b.Min[i], v.Position[i])
			b.Max[i] = max(b.Max[i], v.Position[i])
		}
	}
	return b
}
