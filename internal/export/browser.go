package export

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/browser"
	"github.com/chromedp/chromedp"
)

// browserBinaries are the executables probed to decide whether the browser
// strategy is available at all.
var browserBinaries = []string{
	"google-chrome",
	"google-chrome-stable",
	"chromium",
	"chromium-browser",
	"chrome",
	"headless-shell",
}

// exportSelector pairs a selector with its query option; the web UI gives no
// stable hook for the export affordance, so several candidates are tried.
type exportSelector struct {
	sel string
	opt chromedp.QueryOption
}

var menuSelectors = []exportSelector{
	{`//button[contains(., 'Export')]`, chromedp.BySearch},
	{`//button[contains(., 'Download')]`, chromedp.BySearch},
	{`button[aria-label*='Export']`, chromedp.ByQuery},
	{`button[aria-label*='Menu']`, chromedp.ByQuery},
	{`button[aria-label*='More']`, chromedp.ByQuery},
	{`[data-testid*='export']`, chromedp.ByQuery},
	{`[data-testid*='menu']`, chromedp.ByQuery},
}

func formatSelectors(format string) []exportSelector {
	upper := "PDF"
	if format == "pptx" {
		upper = "PPTX"
	}
	sels := []exportSelector{
		{fmt.Sprintf(`//button[contains(., '%s')]`, upper), chromedp.BySearch},
		{fmt.Sprintf(`//a[contains(., '%s')]`, upper), chromedp.BySearch},
		{fmt.Sprintf(`//div[contains(., '%s')]`, upper), chromedp.BySearch},
	}
	if format == "pptx" {
		sels = append(sels, exportSelector{`//*[contains(., 'PowerPoint')]`, chromedp.BySearch})
	}
	return sels
}

// browserStrategy drives a Chrome session to the artifact's web view and
// triggers the in-page export, then waits for the download to land and
// renames it to the canonical output path.
type browserStrategy struct {
	execPath     string
	headless     bool
	downloadWait time.Duration
	logger       *slog.Logger
}

func NewBrowserStrategy(headless bool, downloadWait time.Duration, logger *slog.Logger) Strategy {
	if logger == nil {
		logger = slog.Default()
	}
	if downloadWait <= 0 {
		downloadWait = 2 * time.Minute
	}
	return &browserStrategy{
		execPath:     findBrowserBinary(),
		headless:     headless,
		downloadWait: downloadWait,
		logger:       logger,
	}
}

func findBrowserBinary() string {
	for _, name := range browserBinaries {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	return ""
}

func (s *browserStrategy) Name() string { return "browser" }

// Available is false when no Chrome/Chromium binary is installed; that is
// not an error, it just removes this strategy from the list.
func (s *browserStrategy) Available() bool { return s.execPath != "" }

func (s *browserStrategy) Attempt(ctx context.Context, job Job) error {
	if s.execPath == "" {
		return fmt.Errorf("no browser binary available")
	}

	downloadDir := filepath.Dir(job.OutputPath)
	if err := os.MkdirAll(downloadDir, 0o755); err != nil {
		return fmt.Errorf("create download dir: %w", err)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.ExecPath(s.execPath),
		chromedp.Flag("headless", s.headless),
		chromedp.WindowSize(1920, 1080),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)
	defer cancelTab()

	s.logger.Info("export.browser.navigate", "url", job.RemoteURL, "headless", s.headless)
	err := chromedp.Run(tabCtx,
		browser.SetDownloadBehavior(browser.SetDownloadBehaviorBehaviorAllow).
			WithDownloadPath(downloadDir).
			WithEventsEnabled(true),
		chromedp.Navigate(job.RemoteURL),
		// the deck view renders client-side; give it time to settle
		chromedp.Sleep(8*time.Second),
	)
	if err != nil {
		return fmt.Errorf("open artifact page: %w", err)
	}

	s.clickFirst(tabCtx, menuSelectors)
	s.clickFirst(tabCtx, formatSelectors(job.Format))

	return s.waitForDownload(ctx, downloadDir, job)
}

// clickFirst tries each candidate selector with a short timeout and stops at
// the first that resolves to a clickable node. Misses are expected.
func (s *browserStrategy) clickFirst(ctx context.Context, candidates []exportSelector) {
	for _, c := range candidates {
		clickCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := chromedp.Run(clickCtx,
			chromedp.Click(c.sel, c.opt, chromedp.NodeVisible),
			chromedp.Sleep(2*time.Second),
		)
		cancel()
		if err == nil {
			s.logger.Info("export.browser.clicked", "selector", c.sel)
			return
		}
	}
	s.logger.Warn("export.browser.no_selector_matched")
}

// waitForDownload polls the download directory until the artifact shows up,
// renaming a freshly downloaded file to the canonical output path.
func (s *browserStrategy) waitForDownload(ctx context.Context, downloadDir string, job Job) error {
	deadline := time.Now().Add(s.downloadWait)
	pattern := filepath.Join(downloadDir, "*."+job.Format)

	for time.Now().Before(deadline) {
		if fi, err := os.Stat(job.OutputPath); err == nil && fi.Size() > 0 {
			s.logger.Info("export.browser.downloaded", "out", job.OutputPath, "bytes", fi.Size())
			return nil
		}

		// pick up a fresh download under the browser's own name
		matches, _ := filepath.Glob(pattern)
		var newest string
		var newestMod time.Time
		for _, m := range matches {
			fi, err := os.Stat(m)
			if err != nil || fi.Size() == 0 {
				continue
			}
			if fi.ModTime().After(newestMod) {
				newest, newestMod = m, fi.ModTime()
			}
		}
		if newest != "" && newest != job.OutputPath && time.Since(newestMod) < 30*time.Second {
			if err := os.Rename(newest, job.OutputPath); err != nil {
				return fmt.Errorf("move downloaded file: %w", err)
			}
			s.logger.Info("export.browser.downloaded", "from", newest, "out", job.OutputPath)
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}
	return fmt.Errorf("download did not complete within %s", s.downloadWait)
}
