package formats

import (
	"bufio"
	"path"
	"strconv"
	"strings"
)

// RGB is a color with components in the 0-1 range.
type RGB struct {
	R, G, B float32
}

// White is the default diffuse color for materials without a Kd directive.
var White = RGB{1, 1, 1}

// Material is one newmtl block from an MTL library. TextureFile holds the
// basename of the referenced texture map; directory components are stripped
// because uploaded textures live in a single flat namespace.
type Material struct {
	Name        string
	TextureFile string
	Diffuse     RGB
	HasDiffuse  bool
}

// mapDirectives are the texture map keys recorded against a material.
// map_Kd wins over the others when several are present.
var mapDirectives = map[string]bool{
	"map_Kd":   true,
	"map_Ka":   true,
	"map_Ks":   true,
	"map_Bump": true,
}

// ParseMTL parses MTL text into one Material per newmtl block, in source
// order. Unknown directives are ignored; directives before the first newmtl
// have no material to attach to and are dropped.
func ParseMTL(text string) []Material {
	var materials []Material
	current := -1

	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		fields := strings.Fields(line)
		key := fields[0]

		switch {
		case key == "newmtl" && len(fields) >= 2:
			materials = append(materials, Material{Name: fields[1], Diffuse: White})
			current = len(materials) - 1

		case key == "Kd" && current >= 0 && len(fields) >= 4:
			if c, ok := parseColor(fields[1:4]); ok {
				materials[current].Diffuse = c
				materials[current].HasDiffuse = true
			}

		case mapDirectives[key] && current >= 0 && len(fields) >= 2:
			// Map directives may carry options ("map_Kd -bm 0.5 tex.png");
			// the path is the final field.
			name := textureBasename(fields[len(fields)-1])
			if name == "" {
				continue
			}
			if key == "map_Kd" || materials[current].TextureFile == "" {
				materials[current].TextureFile = name
			}
		}
	}

	return materials
}

// textureBasename strips directory components from a texture path, handling
// both forward and backslash separators from varied export tools.
func textureBasename(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	base := path.Base(p)
	if base == "." || base == "/" {
		return ""
	}
	return base
}

func parseColor(fields []string) (RGB, bool) {
	var c [3]float32
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return RGB{}, false
		}
		c[i] = float32(f)
	}
	return RGB{c[0], c[1], c[2]}, true
}
