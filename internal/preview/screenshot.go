// Package preview renders page screenshots with headless Chrome.
package preview

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"
)

var ErrChromeMissing = errors.New("chromium not installed")

// Result holds a generated preview image.
type Result struct {
	Data     []byte
	MimeType string
}

// Screenshot renders html in headless Chrome and captures a full-page PNG.
func Screenshot(ctx context.Context, html string) (*Result, error) {
	if _, err := exec.LookPath("chromium-browser"); err != nil {
		if _, fallbackErr := exec.LookPath("chromium"); fallbackErr != nil {
			return nil, ErrChromeMissing
		}
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	// Chrome options for headless mode in container
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
	)

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	taskCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	// Encode HTML as a data URL; url.QueryEscape uses + for spaces which is
	// wrong for data URLs, so percent-encode by hand.
	dataURL := "data:text/html;charset=utf-8," + percentEncodeForDataURL(html)

	var png []byte
	err := chromedp.Run(taskCtx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			return emulation.SetDeviceMetricsOverride(1280, 800, 1, false).Do(ctx)
		}),
		chromedp.Navigate(dataURL),
		chromedp.WaitReady("body"),
		chromedp.FullScreenshot(&png, 90),
	)
	if err != nil {
		return nil, fmt.Errorf("chrome screenshot failed: %w", err)
	}

	return &Result{Data: png, MimeType: "image/png"}, nil
}

// percentEncodeForDataURL encodes s for use in a data URL, keeping only the
// unreserved characters of RFC 3986 and encoding spaces as %20.
func percentEncodeForDataURL(s string) string {
	var result strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z',
			r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9',
			r == '-', r == '_', r == '.', r == '~':
			result.WriteRune(r)
		case r == ' ':
			result.WriteString("%20")
		default:
			for _, b := range []byte(string(r)) {
				result.WriteString(fmt.Sprintf("%%%02X", b))
			}
		}
	}
	return result.String()
}
