// Package viewer is the interactive annotation client: it loads a model
// bundle from a share link, renders it with annotation markers, and drives
// the annotate session and batch submit flow.
package viewer

import (
	"fmt"
	"time"

	"github.com/AllenDang/cimgui-go/backend"
	"github.com/AllenDang/cimgui-go/backend/sdlbackend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/meshmark/internal/config"
	"github.com/Faultbox/meshmark/internal/engine/camera"
	"github.com/Faultbox/meshmark/internal/engine/lighting"
	"github.com/Faultbox/meshmark/internal/engine/scene"
	"github.com/Faultbox/meshmark/internal/viewer/annotate"
	"github.com/Faultbox/meshmark/internal/viewer/bundle"
	"github.com/Faultbox/meshmark/internal/viewer/overlay"
	"github.com/Faultbox/meshmark/internal/viewer/store"
	"github.com/Faultbox/meshmark/pkg/math"
)

// App owns the window, the loaded model and all per-session state.
type App struct {
	cfg     *config.Config
	params  bundle.Params
	fetcher bundle.Fetcher
	edits   store.Store

	backend backend.Backend[sdlbackend.SDLWindowFlags]

	loadCh   chan loadResult
	reloadCh chan reloadResult
	loadErr  error

	// prepared holds the CPU-side model until the frame loop uploads it.
	prepared *preparedModel
	model    *preparedModel

	scene   *scene.Scene
	cam     *camera.OrbitCamera
	rig     *lighting.Rig
	session *annotate.Session
	sub     *store.Submitter
	notices *overlay.Notices
	gesture annotate.Gesture

	background bundle.Background

	// Placement dialog state.
	placeOpen  bool
	placePoint math.Vec3
	placeText  string

	// Marker popup state.
	markerOpen   bool
	markerID     annotate.ID
	markerAnchor math.Vec2

	lastFrame time.Time
	lastMouse imgui.Vec2
}

// New builds the app around its collaborators. params come from the share
// link; fetcher and edits talk to the review server.
func New(cfg *config.Config, fetcher bundle.Fetcher, edits store.Store, params bundle.Params) *App {
	rig := lighting.NewRig(float32(cfg.Viewer.LightIntensity))
	rig.SetBoost(cfg.Viewer.LightBoost)

	return &App{
		cfg:        cfg,
		params:     params,
		fetcher:    fetcher,
		edits:      edits,
		rig:        rig,
		cam:        camera.New(),
		sub:        store.NewSubmitter(edits, cfg.Store.Timeout),
		notices:    overlay.NewNotices(0),
		background: params.Background,
		loadCh:     make(chan loadResult, 1),
		reloadCh:   make(chan reloadResult, 1),
	}
}

// Run creates the window and blocks in the UI loop until the window closes.
// Must be called from the main goroutine with the OS thread locked.
func (a *App) Run() error {
	b, err := backend.CreateBackend(sdlbackend.NewSDLBackend())
	if err != nil {
		return fmt.Errorf("create backend: %w", err)
	}
	a.backend = b

	b.SetBgColor(imgui.NewVec4(0.08, 0.08, 0.1, 1))
	b.CreateWindow("Meshmark", a.cfg.Window.Width, a.cfg.Window.Height)

	if err := gl.Init(); err != nil {
		return fmt.Errorf("opengl init: %w", err)
	}

	a.beginLoad()
	a.lastFrame = time.Now()
	b.Run(a.frame)
	return nil
}

// Close releases GL resources. Safe to call after the loop exits.
func (a *App) Close() {
	if a.scene != nil {
		a.scene.Destroy()
		a.scene = nil
	}
}

func backgroundColor(b bundle.Background) (r, g, bl float32) {
	switch b {
	case bundle.BackgroundWhite:
		return 0.96, 0.96, 0.96
	case bundle.BackgroundBlack:
		return 0.05, 0.05, 0.06
	default:
		return 0.45, 0.45, 0.48
	}
}
