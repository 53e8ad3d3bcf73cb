package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

// MinContentLength is the minimum extracted text length to consider HTTP fetch successful.
// If content is shorter, we should fall back to browser rendering.
const MinContentLength = 500

// DefaultBrowserTimeout bounds a single headless render.
const DefaultBrowserTimeout = 30 * time.Second

// ShouldUseBrowser returns true if the extracted text is too short,
// indicating the page is likely rendered by JavaScript or behind a sign-in wall.
func ShouldUseBrowser(extractedText string) bool {
	return len(strings.TrimSpace(extractedText)) < MinContentLength
}

// renderPlan is how long to let a site's scripts settle and which overlay
// buttons to click away before reading the DOM.
type renderPlan struct {
	settle  time.Duration
	dismiss string
}

func planFor(site Site) renderPlan {
	switch site {
	case SiteLinkedIn:
		return renderPlan{
			settle:  3 * time.Second,
			dismiss: `button.modal__dismiss, button.contextual-sign-in-modal__modal-dismiss, button[aria-label="Dismiss"]`,
		}
	case SiteYouTube:
		return renderPlan{
			settle:  2 * time.Second,
			dismiss: `button[aria-label^="Accept"], tp-yt-paper-button[aria-label^="Accept"]`,
		}
	case SiteWikipedia:
		// Server rendered
		return renderPlan{settle: 0}
	default:
		return renderPlan{
			settle:  2 * time.Second,
			dismiss: `button[id*="accept"], button[class*="accept"]`,
		}
	}
}

// WithBrowser renders a page in a headless browser and returns the rendered HTML.
// Requires Chrome/Chromium to be installed on the system.
func WithBrowser(ctx context.Context, url string, timeout time.Duration) (string, error) {
	site := DetectSite(url)
	plan := planFor(site)
	slog.DebugContext(ctx, "rendering page in headless browser", "url", url, "site", site)

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.UserAgent(DefaultUserAgent),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, timeout)
	defer cancel()

	actions := []chromedp.Action{
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
	}
	if plan.settle > 0 {
		actions = append(actions, chromedp.Sleep(plan.settle))
	}
	if plan.dismiss != "" {
		actions = append(actions, chromedp.ActionFunc(func(ctx context.Context) error {
			// Overlays are optional
			_ = chromedp.Click(plan.dismiss, chromedp.ByQuery, chromedp.AtLeast(0)).Do(ctx)
			return nil
		}))
	}

	var html string
	actions = append(actions, chromedp.OuterHTML("html", &html))
	if err := chromedp.Run(browserCtx, actions...); err != nil {
		return "", fmt.Errorf("browser rendering failed: %w", err)
	}

	slog.DebugContext(ctx, "rendered page", "url", url, "bytes", len(html))
	return html, nil
}
