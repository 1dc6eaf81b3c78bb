package material

import (
	"testing"

	"github.com/Faultbox/meshmark/pkg/formats"
)

func tex(names ...string) map[string][]byte {
	out := make(map[string][]byte, len(names))
	for _, n := range names {
		out[n] = []byte{0xff}
	}
	return out
}

func TestResolveExact(t *testing.T) {
	r := Resolve(formats.Material{Name: "Head", TextureFile: "head.jpg"}, tex("head.jpg", "body.png"))
	if r.Tier != TierExact || r.TextureName != "head.jpg" {
		t.Errorf("got tier %v texture %q, want exact head.jpg", r.Tier, r.TextureName)
	}
}

func TestResolveStrippedExtension(t *testing.T) {
	r := Resolve(formats.Material{Name: "Head", TextureFile: "head.png"}, tex("head.jpg", "body.jpg"))
	if r.Tier != TierStripped || r.TextureName != "head.jpg" {
		t.Errorf("got tier %v texture %q, want stripped head.jpg", r.Tier, r.TextureName)
	}
}

func TestResolveNormalized(t *testing.T) {
	// The spec's canonical case: "Body_Color.PNG" against {"body_color.jpg"}
	// needs case folding and underscore removal but not substring matching.
	r := Resolve(
		formats.Material{Name: "Body", TextureFile: "Body_Color.PNG"},
		tex("body_color.jpg", "other-skin.jpg"),
	)
	if r.Tier != TierNormalized || r.TextureName != "body_color.jpg" {
		t.Errorf("got tier %v texture %q, want normalized body_color.jpg", r.Tier, r.TextureName)
	}
}

func TestResolveSubstring(t *testing.T) {
	r := Resolve(
		formats.Material{Name: "LeftArm", TextureFile: "missing.png"},
		tex("robot left-arm diffuse.jpg", "torso.jpg"),
	)
	if r.Tier != TierSubstring || r.TextureName != "robot left-arm diffuse.jpg" {
		t.Errorf("got tier %v texture %q, want substring match", r.Tier, r.TextureName)
	}
}

func TestResolveSoleTexture(t *testing.T) {
	// No name relationship at all, but a single-texture bundle is assumed
	// monotextured.
	r := Resolve(formats.Material{Name: "Hull", TextureFile: "nothing-like-it.png"}, tex("skin.jpg"))
	if r.Tier != TierSoleTexture || r.TextureName != "skin.jpg" {
		t.Errorf("got tier %v texture %q, want sole-texture skin.jpg", r.Tier, r.TextureName)
	}

	// Also applies when the material never referenced a texture.
	r = Resolve(formats.Material{Name: "Hull"}, tex("skin.jpg"))
	if r.Tier != TierSoleTexture {
		t.Errorf("got tier %v, want sole-texture for unreferenced material", r.Tier)
	}
}

func TestResolveFlatFallback(t *testing.T) {
	mat := formats.Material{
		Name:        "Glass",
		TextureFile: "gone.png",
		Diffuse:     formats.RGB{R: 0.1, G: 0.2, B: 0.9},
		HasDiffuse:  true,
	}
	r := Resolve(mat, tex("a.jpg", "b.jpg"))
	if r.Textured() {
		t.Fatalf("expected flat fallback, got texture %q (tier %v)", r.TextureName, r.Tier)
	}
	if r.Tier != TierNone {
		t.Errorf("tier = %v, want none", r.Tier)
	}
	if r.Color != mat.Diffuse {
		t.Errorf("color = %v, want the MTL diffuse", r.Color)
	}

	// Without a Kd the fallback is neutral gray.
	r = Resolve(formats.Material{Name: "Glass"}, map[string][]byte{})
	if r.Color != neutralGray {
		t.Errorf("color = %v, want neutral gray", r.Color)
	}
}

func TestResolveAll(t *testing.T) {
	mats := []formats.Material{
		{Name: "Head", TextureFile: "head.jpg"},
		{Name: "Body", TextureFile: "body.png"},
	}
	resolved := ResolveAll(mats, tex("head.jpg", "body.png"))
	if len(resolved) != 2 {
		t.Fatalf("got %d resolutions, want 2", len(resolved))
	}
	for name, r := range resolved {
		if r.Tier != TierExact {
			t.Errorf("%s resolved at tier %v, want exact", name, r.Tier)
		}
	}
}
