package viewer

import (
	"context"
	"fmt"
	"image"

	"go.uber.org/zap"

	"github.com/Faultbox/meshmark/internal/engine/geometry"
	"github.com/Faultbox/meshmark/internal/engine/scene"
	"github.com/Faultbox/meshmark/internal/engine/texture"
	"github.com/Faultbox/meshmark/internal/logger"
	"github.com/Faultbox/meshmark/internal/viewer/annotate"
	"github.com/Faultbox/meshmark/internal/viewer/bundle"
	"github.com/Faultbox/meshmark/internal/viewer/material"
	"github.com/Faultbox/meshmark/pkg/formats"
)

// preparedModel is the CPU side of a loaded model: parsed, normalized and
// decoded off the UI thread, ready for a GL upload on it.
type preparedModel struct {
	name        string
	verts       []formats.Vertex
	indices     []uint32
	groups      []formats.DrawGroup
	bounds      formats.Bounds
	resolved    map[string]material.Resolved
	images      map[string]*image.RGBA
	dims        geometry.RealDimensions
	hasDims     bool
	annotations []bundle.StoredAnnotation
}

type loadResult struct {
	prepared *preparedModel
	err      error
}

type reloadResult struct {
	annotations []bundle.StoredAnnotation
	err         error
}

// beginLoad fetches and prepares the bundle off the UI thread. The frame loop
// polls loadCh and finishes with the GL upload.
func (a *App) beginLoad() {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Store.Timeout)
		defer cancel()

		b, err := a.fetcher.FetchModel(ctx, a.params.Token)
		if err != nil {
			a.loadCh <- loadResult{err: err}
			return
		}
		b.Annotations, err = a.fetcher.FetchAnnotations(ctx, a.params.Token)
		if err != nil {
			a.loadCh <- loadResult{err: err}
			return
		}

		prepared, err := prepare(b)
		a.loadCh <- loadResult{prepared: prepared, err: err}
	}()
}

// beginReload refetches the annotation list after a batch submit settles.
func (a *App) beginReload() {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Store.Timeout)
		defer cancel()

		anns, err := a.fetcher.FetchAnnotations(ctx, a.params.Token)
		a.reloadCh <- reloadResult{annotations: anns, err: err}
	}()
}

// prepare parses and normalizes the bundle. Pure CPU work.
func prepare(b *bundle.ModelBundle) (*preparedModel, error) {
	obj, err := formats.ParseOBJ(b.OBJText)
	if err != nil {
		return nil, fmt.Errorf("model %q: %w", b.Name, err)
	}
	mats := formats.ParseMTL(b.MTLText)

	p := &preparedModel{
		name:        b.Name,
		verts:       obj.Vertices,
		indices:     obj.Indices,
		groups:      obj.Groups,
		resolved:    material.ResolveAll(mats, b.Textures),
		images:      map[string]*image.RGBA{},
		annotations: b.Annotations,
	}

	// Real dimensions come from the raw bounds; rendering uses normalized
	// geometry so every model fills the same view volume.
	p.dims, p.hasDims = geometry.ComputeRealDimensions(obj.Bounds, b.RealHeightMeters)
	norm := geometry.ComputeNormalization(obj.Bounds)
	norm.ApplyToVertices(p.verts)
	p.bounds = norm.NormalizedBounds(obj.Bounds)

	for _, r := range p.resolved {
		if !r.Textured() {
			continue
		}
		if _, done := p.images[r.TextureName]; done {
			continue
		}
		img, err := texture.Decode(r.TextureName, b.Textures[r.TextureName])
		if err != nil {
			// A broken texture demotes the group to flat color.
			logger.Warn("texture decode failed", zap.String("name", r.TextureName), zap.Error(err))
			continue
		}
		p.images[r.TextureName] = img
	}

	logger.Info("model prepared",
		zap.String("name", b.Name),
		zap.Int("vertices", len(p.verts)),
		zap.Int("groups", len(p.groups)),
		zap.Int("annotations", len(p.annotations)),
	)
	return p, nil
}

// finishLoad uploads the prepared model to GL and builds the session. Runs on
// the UI thread with a current context.
func (a *App) finishLoad(p *preparedModel) error {
	s, err := scene.New(int32(a.cfg.Window.Width), int32(a.cfg.Window.Height))
	if err != nil {
		return err
	}

	uploaded := map[string]uint32{}
	styles := map[string]scene.GroupStyle{}
	for name, r := range p.resolved {
		style := scene.GroupStyle{Color: r.Color}
		if img, ok := p.images[r.TextureName]; ok {
			id, done := uploaded[r.TextureName]
			if !done {
				id = texture.Upload(img)
				uploaded[r.TextureName] = id
			}
			style.Texture = id
		}
		styles[name] = style
	}
	s.UploadMesh(p.verts, p.indices, p.groups, styles)

	r, g, bl := backgroundColor(a.background)
	s.SetBackground(r, g, bl)
	s.SetLighting(a.rig.Values())

	a.scene = s
	a.model = p
	a.session = annotate.NewSession(p.annotations)
	a.cam.FitToBounds(p.bounds)
	return nil
}
