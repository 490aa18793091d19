package renderer

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"
)

// Page is the shared render surface: one headless-Chromium tab reused
// sequentially for every document and every frame of a run.
type Page struct {
	ctx        context.Context
	cancels    []context.CancelFunc
	loadSettle time.Duration
	seekSettle time.Duration
}

// Launch starts the headless browser and opens the tab. A failure here is
// fatal for the whole run: without a renderer no work is possible.
func Launch(parent context.Context, loadSettle, seekSettle time.Duration) (*Page, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Headless,
		chromedp.Flag("hide-scrollbars", true),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(parent, opts...)
	ctx, cancelCtx := chromedp.NewContext(allocCtx)

	// Пустой Run форсирует запуск браузера, чтобы ошибка всплыла сразу
	if err := chromedp.Run(ctx); err != nil {
		cancelCtx()
		cancelAlloc()
		return nil, fmt.Errorf("запуск Chromium: %w", err)
	}

	return &Page{
		ctx:        ctx,
		cancels:    []context.CancelFunc{cancelCtx, cancelAlloc},
		loadSettle: loadSettle,
		seekSettle: seekSettle,
	}, nil
}

// LoadDocument renders the SVG centered on a transparent size x size page
// and waits for the initial paint to settle.
func (p *Page) LoadDocument(markup string, size int) error {
	html := buildHTML(markup, size)
	uri := "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte(html))

	return chromedp.Run(p.ctx,
		chromedp.EmulateViewport(int64(size), int64(size)),
		emulation.SetDefaultBackgroundColorOverride().
			WithColor(&cdp.RGBA{R: 0, G: 0, B: 0, A: 0}),
		chromedp.Navigate(uri),
		chromedp.WaitVisible("svg", chromedp.ByQuery),
		chromedp.Sleep(p.loadSettle),
	)
}

// Both timeline kinds are driven to an explicit time value, not played:
// the captured frame must not depend on real-world rendering latency.
const seekScript = `(() => {
	document.getAnimations().forEach((a) => {
		a.pause();
		a.currentTime = %[1]f;
	});
	const svg = document.querySelector('svg');
	if (svg && svg.pauseAnimations) {
		svg.pauseAnimations();
		svg.setCurrentTime(%[2]f);
	}
})()`

// Seek pauses and positions every CSS animation (Web Animations API, ms)
// and the SMIL timeline (SVG.setCurrentTime, s) at the given timestamp,
// then waits a short settle delay for the repaint.
func (p *Page) Seek(ms float64) error {
	js := fmt.Sprintf(seekScript, ms, ms/1000.0)
	return chromedp.Run(p.ctx,
		chromedp.Evaluate(js, nil),
		chromedp.Sleep(p.seekSettle),
	)
}

// Capture returns one PNG snapshot of the current state, transparency kept.
func (p *Page) Capture() ([]byte, error) {
	var buf []byte
	if err := chromedp.Run(p.ctx, chromedp.CaptureScreenshot(&buf)); err != nil {
		return nil, err
	}
	return buf, nil
}

// Close releases the tab and shuts the browser down.
func (p *Page) Close() error {
	err := chromedp.Cancel(p.ctx)
	for _, cancel := range p.cancels {
		cancel()
	}
	return err
}

func buildHTML(markup string, size int) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><style>
    html, body {
        margin: 0; padding: 0;
        background: transparent;
        overflow: hidden;
        width: %[1]dpx; height: %[1]dpx;
    }
    body {
        display: flex;
        align-items: center;
        justify-content: center;
    }
    svg {
        width: %[1]dpx;
        height: %[1]dpx;
    }
</style></head>
<body>%[2]s</body>
</html>`, size, markup)
}
