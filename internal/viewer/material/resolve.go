// Package material matches parsed MTL materials against the texture set that
// actually arrived in the upload bundle. Export tools disagree about naming,
// so resolution runs through ordered fallback tiers and degrades to a flat
// color instead of failing the load.
package material

import (
	"strings"

	"github.com/Faultbox/meshmark/pkg/formats"
)

// Tier records which fallback matched a material, so degraded resolutions
// stay observable without log scraping.
type Tier int

const (
	// TierNone means no texture matched; the material renders flat.
	TierNone Tier = iota
	// TierExact is a byte-for-byte filename match.
	TierExact
	// TierStripped matches with the file extension removed (re-encoding
	// pipelines often turn .png into .jpg).
	TierStripped
	// TierNormalized matches after case folding and removing whitespace,
	// hyphens, and underscores.
	TierNormalized
	// TierSubstring matches when either normalized material name or texture
	// name contains the other.
	TierSubstring
	// TierSoleTexture assigns the bundle's only texture regardless of name.
	TierSoleTexture
)

func (t Tier) String() string {
	switch t {
	case TierExact:
		return "exact"
	case TierStripped:
		return "extension-stripped"
	case TierNormalized:
		return "normalized"
	case TierSubstring:
		return "substring"
	case TierSoleTexture:
		return "sole-texture"
	default:
		return "none"
	}
}

// neutralGray is the flat color for materials with neither texture nor Kd.
var neutralGray = formats.RGB{R: 0.5, G: 0.5, B: 0.5}

// Resolved is the renderable appearance for one material. Every material gets
// either a texture or a flat color; it is never left unrenderable.
type Resolved struct {
	Name        string
	TextureName string // key into the bundle's texture map, "" when flat
	Tier        Tier
	Color       formats.RGB
}

// Textured reports whether the material resolved to a texture.
func (r Resolved) Textured() bool { return r.TextureName != "" }

// Resolve matches one material against the available texture names.
func Resolve(mat formats.Material, textures map[string][]byte) Resolved {
	out := Resolved{Name: mat.Name, Color: neutralGray}
	if mat.HasDiffuse {
		out.Color = mat.Diffuse
	}

	if name, tier := findTexture(mat, textures); tier != TierNone {
		out.TextureName = name
		out.Tier = tier
	}
	return out
}

// ResolveAll resolves every material, keyed by material name.
func ResolveAll(mats []formats.Material, textures map[string][]byte) map[string]Resolved {
	out := make(map[string]Resolved, len(mats))
	for _, m := range mats {
		out[m.Name] = Resolve(m, textures)
	}
	return out
}

func findTexture(mat formats.Material, textures map[string][]byte) (string, Tier) {
	if mat.TextureFile != "" {
		// Tier 1: exact filename.
		if _, ok := textures[mat.TextureFile]; ok {
			return mat.TextureFile, TierExact
		}

		// Tier 2: extension stripped on both sides.
		want := stripExt(mat.TextureFile)
		for name := range textures {
			if stripExt(name) == want {
				return name, TierStripped
			}
		}

		// Tier 3: normalized (case/space/hyphen/underscore folded).
		wantNorm := normalizeName(want)
		for name := range textures {
			if normalizeName(stripExt(name)) == wantNorm {
				return name, TierNormalized
			}
		}

		// Tier 4: substring match against the material name.
		matNorm := normalizeName(mat.Name)
		if matNorm != "" {
			for name := range textures {
				texNorm := normalizeName(stripExt(name))
				if strings.Contains(texNorm, matNorm) || strings.Contains(matNorm, texNorm) {
					return name, TierSubstring
				}
			}
		}
	}

	// Tier 5: a single-texture bundle is assumed monotextured.
	if len(textures) == 1 {
		for name := range textures {
			return name, TierSoleTexture
		}
	}

	return "", TierNone
}

func stripExt(name string) string {
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		return name[:i]
	}
	return name
}

func normalizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch r {
		case ' ', '\t', '-', '_':
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
