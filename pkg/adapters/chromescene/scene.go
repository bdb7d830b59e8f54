// Package chromescene evaluates an HTML/JS composition in headless Chrome.
// The page exposes a global `rendercastSeek(frame)` hook returning a promise
// that settles after the next animation frame paints; each evaluated frame
// is captured as a full-page screenshot.
package chromescene

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/user/rendercast/pkg/ports"
)

// Options configure the headless browser.
type Options struct {
	URL        string // page to load (file:// or http(s)://)
	Width      int    // browser window width
	Height     int    // browser window height
	ChromePath string // explicit Chrome binary; falls back to CHROME_PATH, then system default
	Headless   bool
}

// Scene drives one Chrome tab as a scene evaluator.
type Scene struct {
	opts Options

	allocCtx    context.Context
	allocCancel context.CancelFunc
	ctx         context.Context
	cancel      context.CancelFunc
}

// New creates a Scene. Launch must be called before EvaluateFrame.
func New(opts Options) *Scene {
	if opts.Width <= 0 {
		opts.Width = 1280
	}
	if opts.Height <= 0 {
		opts.Height = 720
	}
	return &Scene{opts: opts}
}

// Launch starts the browser and navigates to the composition page.
func (s *Scene) Launch(ctx context.Context) error {
	chromedpOpts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("mute-audio", true),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.WindowSize(s.opts.Width, s.opts.Height),
		chromedp.Flag("window-size", fmt.Sprintf("%d,%d", s.opts.Width, s.opts.Height)),
	}
	if s.opts.Headless {
		chromedpOpts = append(chromedpOpts, chromedp.Flag("headless", "new"))
	}
	if path := resolveChromePath(s.opts.ChromePath); path != "" {
		chromedpOpts = append(chromedpOpts, chromedp.ExecPath(path))
	}

	s.allocCtx, s.allocCancel = chromedp.NewExecAllocator(ctx, chromedpOpts...)
	s.ctx, s.cancel = chromedp.NewContext(s.allocCtx)

	if err := chromedp.Run(s.ctx, chromedp.Navigate(s.opts.URL)); err != nil {
		s.Close()
		return fmt.Errorf("navigate to composition: %w", err)
	}
	return nil
}

// seekScript asks the page to present frame %d and resolves after the
// following animation frame has painted.
const seekScript = `
	(async () => {
		if (typeof window.rendercastSeek === "function") {
			await window.rendercastSeek(%d);
		}
		await new Promise(r => requestAnimationFrame(() => requestAnimationFrame(r)));
	})()
`

// EvaluateFrame seeks the page to the frame index, waits for the
// rasterization pass, and screenshots the result.
func (s *Scene) EvaluateFrame(ctx context.Context, index int) (ports.Surface, error) {
	if s.ctx == nil {
		return nil, fmt.Errorf("chrome scene not launched")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	seek := fmt.Sprintf(seekScript, index)
	var shot []byte
	err := chromedp.Run(s.ctx,
		chromedp.Evaluate(seek, nil, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithAwaitPromise(true)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, err := page.CaptureScreenshot().
				WithFormat(page.CaptureScreenshotFormatPng).
				Do(ctx)
			if err != nil {
				return err
			}
			shot = data
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("evaluate frame %d: %w", index, err)
	}

	img, err := png.Decode(bytes.NewReader(shot))
	if err != nil {
		return nil, fmt.Errorf("decode screenshot for frame %d: %w", index, err)
	}
	return &surface{img: img}, nil
}

// Close tears down the browser.
func (s *Scene) Close() error {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if s.allocCancel != nil {
		s.allocCancel()
		s.allocCancel = nil
	}
	return nil
}

type surface struct {
	img image.Image
}

func (s *surface) Image() (image.Image, error) {
	return s.img, nil
}

func (s *surface) Size() (int, int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

// resolveChromePath picks the Chrome binary: explicit option, CHROME_PATH
// env, then empty (chromedp's own lookup).
func resolveChromePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv("CHROME_PATH"); env != "" {
		if _, err := os.Stat(env); err == nil {
			return env
		}
	}
	return ""
}

var _ ports.SceneEvaluator = (*Scene)(nil)
