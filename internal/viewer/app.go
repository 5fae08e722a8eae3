package viewer

import (
	"fmt"
	"time"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/tilequad/internal/engine/camera"
	"github.com/Faultbox/tilequad/internal/engine/debug"
	"github.com/Faultbox/tilequad/internal/engine/framebuffer"
	"github.com/Faultbox/tilequad/internal/engine/input"
	"github.com/Faultbox/tilequad/internal/engine/shader"
	"github.com/Faultbox/tilequad/internal/engine/window"
	"github.com/Faultbox/tilequad/internal/logger"
	"github.com/Faultbox/tilequad/internal/session"
	"github.com/Faultbox/tilequad/internal/tilemap/shadergen"
)

// App is the interactive viewer: one window showing one session.
type App struct {
	session  *session.Session
	window   *window.Window
	input    *input.Input
	camera   *camera.OrthoCamera
	shaders  *shader.Cache
	renderer *Renderer
	shots    *debug.ScreenshotCapture
	log      *zap.Logger

	running bool
}

// NewApp opens the window and uploads the session's tiles.
func NewApp(s *session.Session) (*App, error) {
	cfg := s.Config
	a := &App{
		session: s,
		input:   input.New(),
		camera:  s.Scene.NewCamera(),
		shaders: shader.NewCache(),
		shots:   debug.NewScreenshotCapture("screenshots", "tileviewer"),
		log:     logger.Named("viewer"),
	}

	var err error
	a.window, err = window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	src, err := shadergen.Generate(cfg.Render.Topology, s.Features)
	if err != nil {
		a.Close()
		return nil, err
	}

	prog, err := s.Program()
	if err != nil {
		a.Close()
		return nil, err
	}

	opts := Options{
		Sources:   src,
		Features:  prog.Features(),
		Config:    prog.Config(),
		SlotSize:  s.SlotSize(),
		Filter:    s.Filter,
		DepthTest: cfg.Render.DepthTest,
	}
	if s.Atlas != nil {
		opts.Atlas = s.Atlas.Image()
	}
	if s.MaskImage != nil {
		opts.Mask = s.MaskImage
		opts.MaskScale = s.Scene.HeightMask.Scale
	}

	a.renderer, err = New(a.shaders, opts)
	if err != nil {
		a.Close()
		return nil, err
	}
	if err := a.renderer.Upload(SortBackToFront(prog, s.Vertices)); err != nil {
		a.Close()
		return nil, err
	}

	a.log.Info("viewer initialized", zap.String("variant", src.Variant))
	return a, nil
}

// Run starts the frame loop and returns when the window is closed.
func (a *App) Run() error {
	a.running = true

	frameCount := 0
	fpsTimer := time.Now()

	a.log.Info("starting frame loop")

	for a.running {
		if a.input.Update() {
			a.running = false
			break
		}
		a.handleEvents()

		a.render()
		a.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			a.window.SetTitle(fmt.Sprintf("%s - %d fps - zoom %.2f", a.session.Config.Window.Title, frameCount, a.camera.Zoom))
			a.log.Debug("fps", zap.Int("count", frameCount))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (a *App) handleEvents() {
	// Mouse deltas arrive in window coordinates; the camera works in drawable pixels.
	ww, _ := a.window.GetSize()
	dw, _ := a.window.DrawableSize()
	scale := float32(dw) / float32(max(ww, 1))

	for _, e := range a.input.Events() {
		switch e.Type {
		case input.EventMouseMove:
			if a.input.IsButtonHeld(sdl.BUTTON_LEFT) {
				a.camera.HandleDrag(float32(e.DeltaX)*scale, float32(e.DeltaY)*scale)
			}
		case input.EventMouseWheel:
			a.camera.HandleZoom(e.Wheel)
		case input.EventKeyDown:
			a.handleKey(e.Key)
		}
	}
}

func (a *App) handleKey(key sdl.Scancode) {
	switch key {
	case sdl.SCANCODE_ESCAPE:
		a.running = false
	case sdl.SCANCODE_LEFT, sdl.SCANCODE_A:
		a.camera.HandleMovement(-1, 0)
	case sdl.SCANCODE_RIGHT, sdl.SCANCODE_D:
		a.camera.HandleMovement(1, 0)
	case sdl.SCANCODE_UP, sdl.SCANCODE_W:
		a.camera.HandleMovement(0, 1)
	case sdl.SCANCODE_DOWN, sdl.SCANCODE_S:
		a.camera.HandleMovement(0, -1)
	case sdl.SCANCODE_F:
		a.fit()
	case sdl.SCANCODE_F12:
		a.screenshot()
	case sdl.SCANCODE_P:
		a.export()
	}
}

// fit frames every tile, including the grid translation.
func (a *App) fit() {
	prog, err := a.session.Program()
	if err != nil {
		a.log.Warn("fit failed", zap.Error(err))
		return
	}
	minX, minY, maxX, maxY := Bounds(prog, a.session.Vertices)
	t := prog.Config().Translation
	w, h := a.window.DrawableSize()
	a.camera.FitToBounds(minX+t.X, minY+t.Y, maxX+t.X, maxY+t.Y, w, h)
}

func (a *App) render() {
	w, h := a.window.DrawableSize()
	bg := a.session.Config.Render.Background

	gl.Viewport(0, 0, int32(w), int32(h))
	gl.ClearColor(bg[0], bg[1], bg[2], bg[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	a.renderer.Draw(a.camera.View(w, h))
}

func (a *App) screenshot() {
	w, h := a.window.DrawableSize()
	pixels := make([]byte, w*h*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&pixels[0]))

	path, err := a.shots.CaptureFromPixels(pixels, w, h)
	if err != nil {
		a.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	a.log.Info("screenshot saved", zap.String("path", path))
}

// export renders one frame offscreen at the configured window size, the same size the
// software preview uses, and saves it next to the screenshots.
func (a *App) export() {
	cfg := a.session.Config
	target, err := framebuffer.New(cfg.Window.Width, cfg.Window.Height)
	if err != nil {
		a.log.Warn("export failed", zap.Error(err))
		return
	}
	defer target.Destroy()

	w, h := target.Size()
	target.Render(cfg.Render.Background, func() {
		a.renderer.Draw(a.camera.View(w, h))
	})

	path, err := a.shots.CaptureFromImage(target.ReadImage())
	if err != nil {
		a.log.Warn("export failed", zap.Error(err))
		return
	}
	a.log.Info("export saved", zap.String("path", path), zap.Int("width", w), zap.Int("height", h))
}

// Close releases GL resources and the window.
func (a *App) Close() {
	a.log.Info("closing viewer")

	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.shaders != nil && a.window != nil {
		a.shaders.Release()
	}
	if a.window != nil {
		a.window.Close()
	}
}
