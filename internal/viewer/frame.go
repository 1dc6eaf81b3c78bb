package viewer

import (
	"errors"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/Faultbox/meshmark/internal/engine/camera"
	"github.com/Faultbox/meshmark/internal/engine/lighting"
	"github.com/Faultbox/meshmark/internal/engine/picking"
	"github.com/Faultbox/meshmark/internal/engine/scene"
	"github.com/Faultbox/meshmark/internal/viewer/annotate"
	"github.com/Faultbox/meshmark/internal/viewer/bundle"
	"github.com/Faultbox/meshmark/internal/viewer/overlay"
	"github.com/Faultbox/meshmark/internal/viewer/store"
	"github.com/Faultbox/meshmark/pkg/math"
)

// frame is the per-frame callback driven by the backend.
func (a *App) frame() {
	now := time.Now()
	dt := float32(now.Sub(a.lastFrame).Seconds())
	a.lastFrame = now

	a.pollAsync(now)

	viewport := imgui.MainViewport()
	imgui.SetNextWindowPos(viewport.WorkPos())
	imgui.SetNextWindowSize(viewport.WorkSize())
	flags := imgui.WindowFlagsNoMove | imgui.WindowFlagsNoResize | imgui.WindowFlagsNoCollapse |
		imgui.WindowFlagsNoTitleBar | imgui.WindowFlagsNoBringToFrontOnFocus
	if imgui.BeginV("##meshmark", nil, flags) {
		switch {
		case a.loadErr != nil:
			a.renderLoadError()
		case a.scene == nil:
			imgui.Text("Loading model...")
		default:
			a.renderToolbar(now)
			a.renderScene(dt, now)
		}
	}
	imgui.End()

	if a.scene != nil {
		a.renderPlaceDialog(viewport)
		a.renderMarkerPopup(viewport)
	}
	a.renderNotices(viewport, now)
}

// pollAsync drains the load, reload and submit channels.
func (a *App) pollAsync(now time.Time) {
	select {
	case res := <-a.loadCh:
		if res.err != nil {
			a.loadErr = res.err
		} else if err := a.finishLoad(res.prepared); err != nil {
			a.loadErr = err
		}
	default:
	}

	select {
	case res := <-a.reloadCh:
		if res.err != nil {
			a.notices.Push("Annotation reload failed", overlay.NoticeWarn, now)
		} else if a.model != nil {
			a.session = annotate.NewSession(res.annotations)
		}
	default:
	}

	warn, reload := a.sub.Poll(now)
	if warn != "" {
		a.notices.Push(warn, overlay.NoticeWarn, now)
	}
	if reload {
		a.beginReload()
	}
}

func (a *App) renderLoadError() {
	if errors.Is(a.loadErr, bundle.ErrNotFound) {
		imgui.Text("This share link points to a model that no longer exists.")
	} else {
		imgui.Text("Could not load the model.")
		imgui.Text(a.loadErr.Error())
	}
}

func (a *App) renderToolbar(now time.Time) {
	armLabel := "Add annotation"
	if a.session.Mode() == annotate.ModeAnnotateArm {
		armLabel = "Click the model..."
	}
	if imgui.Button(armLabel) {
		a.session.ToggleArm()
	}

	// Cycles gray -> white -> black.
	imgui.SameLine()
	if imgui.Button("Background: " + a.background.String()) {
		switch a.background {
		case bundle.BackgroundGray:
			a.background = bundle.BackgroundWhite
		case bundle.BackgroundWhite:
			a.background = bundle.BackgroundBlack
		default:
			a.background = bundle.BackgroundGray
		}
		a.scene.SetBackground(backgroundColor(a.background))
	}

	imgui.SameLine()
	lit := a.rig.Boost()
	if imgui.Checkbox("Lit", &lit) {
		a.rig.SetBoost(lit)
	}
	if lit {
		imgui.SameLine()
		imgui.SetNextItemWidth(140)
		pct := a.rig.Intensity()
		if imgui.SliderFloatV("##intensity", &pct, lighting.MinIntensity, lighting.MaxIntensity, "%.0f%%", imgui.SliderFlagsNone) {
			a.rig.SetIntensity(pct)
		}
	}

	if a.model.hasDims {
		imgui.SameLine()
		imgui.TextDisabled(a.model.dims.String())
	}

	if a.session.HasPending() && !a.sub.Busy() {
		imgui.SameLine()
		if imgui.Button("Submit edits") {
			a.submitEdits(now)
		}
	}
}

func (a *App) submitEdits(now time.Time) {
	batch, err := store.BuildBatch(a.params.Token, a.session)
	if err != nil {
		a.notices.Push("Nothing to submit", overlay.NoticeInfo, now)
		return
	}
	a.sub.Start(batch, now)
	a.session.ClearPending()
	a.notices.Push("Submitting edits...", overlay.NoticeInfo, now)
}

func (a *App) renderScene(dt float32, now time.Time) {
	avail := imgui.ContentRegionAvail()
	w, h := avail.X, avail.Y
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	a.scene.Resize(int32(w), int32(h))

	a.cam.Update(dt)
	a.scene.SetLighting(a.rig.Values())

	view := a.cam.ViewMatrix()
	proj := math.Perspective(camera.FovY, w/h, 0.05, 100)
	texID := a.scene.Render(view, proj, a.markers())

	texRef := imgui.NewTextureRefTextureID(imgui.TextureID(texID))
	imgui.ImageWithBgV(
		*texRef,
		imgui.NewVec2(w, h),
		imgui.NewVec2(0, 1), // UV flipped for OpenGL
		imgui.NewVec2(1, 0),
		imgui.NewVec4(0, 0, 0, 0),
		imgui.NewVec4(1, 1, 1, 1),
	)
	origin := imgui.ItemRectMin()

	if imgui.IsItemHovered() {
		mouse := imgui.MousePos()
		if imgui.IsMouseDragging(imgui.MouseButtonLeft) {
			a.cam.HandleDrag(mouse.X-a.lastMouse.X, mouse.Y-a.lastMouse.Y)
		}
		if imgui.IsMouseDragging(imgui.MouseButtonRight) {
			a.cam.HandlePan(mouse.X-a.lastMouse.X, mouse.Y-a.lastMouse.Y)
		}
		a.lastMouse = mouse

		if wheel := imgui.CurrentIO().MouseWheel(); wheel != 0 {
			a.cam.HandleZoom(wheel)
		}

		local := math.Vec2{X: mouse.X - origin.X, Y: mouse.Y - origin.Y}
		if imgui.IsMouseDown(imgui.MouseButtonLeft) && !a.gesture.Active() {
			a.gesture.Begin(local.X, local.Y, now)
		}
		if a.gesture.Active() && !imgui.IsMouseDown(imgui.MouseButtonLeft) {
			if pos, tap := a.gesture.End(local.X, local.Y, now); tap {
				a.activate(pos, w, h, origin)
			}
		}
	} else if a.gesture.Active() && !imgui.IsMouseDown(imgui.MouseButtonLeft) {
		a.gesture.Cancel()
	}
}

func (a *App) markers() []scene.Marker {
	anns := a.session.Annotations()
	out := make([]scene.Marker, 0, len(anns))
	for _, an := range anns {
		out = append(out, scene.Marker{Position: an.Position, Completed: an.Completed})
	}
	return out
}

// activate runs the tap pipeline: markers first, then the mesh when armed.
func (a *App) activate(pos math.Vec2, w, h float32, origin imgui.Vec2) {
	eye, forward, up := a.cam.Frame()
	ray := picking.ScreenRay(eye, forward, up, camera.FovY, pos.X, pos.Y, w, h)

	meshHit := func(r picking.Ray) (math.Vec3, bool) {
		return r.IntersectMesh(a.model.verts, a.model.indices, a.model.bounds)
	}
	act := a.session.Activate(ray, scene.MarkerRadius, meshHit)

	switch act.Kind {
	case annotate.ActivateMarker:
		a.markerOpen = true
		a.markerID = act.Marker
		a.markerAnchor = a.projectToScreen(act.Marker, w, h, origin)
	case annotate.ActivatePlacement:
		a.placeOpen = true
		a.placePoint = act.Point
		a.placeText = ""
	}
}

// projectToScreen anchors the marker popup at the marker's screen position.
func (a *App) projectToScreen(id annotate.ID, w, h float32, origin imgui.Vec2) math.Vec2 {
	an, ok := a.session.Get(id)
	if !ok {
		return math.Vec2{X: origin.X + w/2, Y: origin.Y + h/2}
	}
	viewProj := math.Perspective(camera.FovY, w/h, 0.05, 100).Mul(a.cam.ViewMatrix())
	x, y, ok := picking.Project(viewProj, an.Position, w, h)
	if !ok {
		return math.Vec2{X: origin.X + w/2, Y: origin.Y + h/2}
	}
	return math.Vec2{X: origin.X + x, Y: origin.Y + y}
}

func (a *App) renderNotices(viewport *imgui.Viewport, now time.Time) {
	active := a.notices.Active(now)
	if len(active) == 0 {
		return
	}

	workPos := viewport.WorkPos()
	workSize := viewport.WorkSize()
	flags := imgui.WindowFlagsNoTitleBar | imgui.WindowFlagsNoResize | imgui.WindowFlagsNoMove |
		imgui.WindowFlagsNoScrollbar | imgui.WindowFlagsAlwaysAutoResize | imgui.WindowFlagsNoFocusOnAppearing
	imgui.SetNextWindowPos(imgui.NewVec2(workPos.X+10, workPos.Y+workSize.Y-float32(len(active))*26-10))
	imgui.SetNextWindowBgAlpha(0.85)
	if imgui.BeginV("##notices", nil, flags) {
		for _, n := range active {
			if n.Level == overlay.NoticeWarn {
				imgui.TextColored(imgui.NewVec4(0.95, 0.7, 0.25, 1), n.Text)
			} else {
				imgui.Text(n.Text)
			}
		}
	}
	imgui.End()
}

func (a *App) renderPlaceDialog(viewport *imgui.Viewport) {
	if !a.placeOpen {
		return
	}

	workPos := viewport.WorkPos()
	workSize := viewport.WorkSize()
	imgui.SetNextWindowPos(imgui.NewVec2(workPos.X+workSize.X/2-180, workPos.Y+workSize.Y/2-60))
	flags := imgui.WindowFlagsNoResize | imgui.WindowFlagsNoCollapse | imgui.WindowFlagsAlwaysAutoResize
	if imgui.BeginV("Add annotation", nil, flags) {
		imgui.SetNextItemWidth(340)
		imgui.InputTextWithHint("##annotation-text", "Describe the change...", &a.placeText, 0, nil)

		if imgui.Button("Add") {
			if _, err := a.session.Place(a.placePoint, a.placeText); err != nil {
				a.notices.Push("Annotation text is required", overlay.NoticeWarn, time.Now())
			} else {
				a.placeOpen = false
			}
		}
		// Cancel discards the point but leaves the session armed; only a
		// successful placement or a re-toggle returns to Navigate.
		imgui.SameLine()
		if imgui.Button("Cancel") {
			a.placeOpen = false
		}
	}
	imgui.End()
}

func (a *App) renderMarkerPopup(viewport *imgui.Viewport) {
	if !a.markerOpen {
		return
	}
	an, ok := a.session.Get(a.markerID)
	if !ok {
		a.markerOpen = false
		return
	}

	workSize := viewport.WorkSize()
	pos := overlay.PlacePopup(a.markerAnchor, 280, 110, workSize.X, workSize.Y)
	imgui.SetNextWindowPos(imgui.NewVec2(pos.X, pos.Y))
	flags := imgui.WindowFlagsNoResize | imgui.WindowFlagsNoCollapse | imgui.WindowFlagsAlwaysAutoResize |
		imgui.WindowFlagsNoTitleBar
	if imgui.BeginV("##marker-popup", nil, flags) {
		imgui.TextWrapped(an.Text)
		if an.Completed {
			imgui.TextColored(imgui.NewVec4(0.4, 0.55, 0.95, 1), "Completed")
		}

		if !an.Completed && imgui.Button("Mark completed") {
			if err := a.session.Complete(an.ID); err == nil {
				a.markerOpen = false
			}
		}
		if !an.Completed {
			imgui.SameLine()
		}
		if imgui.Button("Delete") {
			if err := a.session.Delete(an.ID); err == nil {
				a.markerOpen = false
			}
		}
		imgui.SameLine()
		if imgui.Button("Close") {
			a.markerOpen = false
		}
	}
	imgui.End()
}
