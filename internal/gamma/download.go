package gamma

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"
)

var docIDPattern = regexp.MustCompile(`/docs/([^/?]+)`)

// exportEndpoints lists the candidate export URLs in preference order. The
// public API documents exports loosely, so we probe the known shapes.
func (c *Client) exportEndpoints(generationID, remoteURL, format string) []string {
	var urls []string
	if m := docIDPattern.FindStringSubmatch(remoteURL); m != nil {
		docID := m[1]
		urls = append(urls,
			fmt.Sprintf("%s/docs/%s/export/%s", c.cfg.BaseURL, docID, format),
			fmt.Sprintf("%s/generations/%s/export/%s", c.cfg.BaseURL, generationID, format),
			fmt.Sprintf("https://gamma.app/api/export/%s/%s", format, docID),
		)
	} else {
		urls = append(urls, fmt.Sprintf("%s/generations/%s/export/%s", c.cfg.BaseURL, generationID, format))
	}
	return urls
}

// ExportDownload asks the service to materialize the artifact and streams it
// to outPath. Every candidate endpoint is tried; the errors are joined when
// all of them fail. An existing file at outPath is overwritten.
func (c *Client) ExportDownload(ctx context.Context, generationID, remoteURL, format, outPath string) error {
	accept := "application/pdf"
	if format == "pptx" {
		accept = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	}

	var attempts []error
	for _, url := range c.exportEndpoints(generationID, remoteURL, format) {
		err := c.downloadOne(ctx, url, accept, format, outPath)
		if err == nil {
			c.logger.Info("gamma.export.api_ok", "url", url, "out", outPath)
			return nil
		}
		c.logger.Warn("gamma.export.api_attempt_failed", "url", url, "err", err)
		attempts = append(attempts, fmt.Errorf("%s: %w", url, err))
	}
	return errors.Join(attempts...)
}

func (c *Client) downloadOne(ctx context.Context, url, accept, format, outPath string) error {
	reqCtx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("X-API-KEY", c.cfg.APIKey)
	req.Header.Set("Accept", accept)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusAccepted {
		return fmt.Errorf("export accepted but not ready (202)")
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}

	// Sniff the head before committing to disk: an HTML error page with a
	// 200 must not be saved as a deck.
	head := make([]byte, 4)
	n, _ := io.ReadFull(resp.Body, head)
	head = head[:n]
	if !validArtifactHead(format, resp.Header.Get("Content-Type"), head) {
		return fmt.Errorf("response is not %s (content-type %q)", format, resp.Header.Get("Content-Type"))
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if _, err := out.Write(head); err != nil {
		out.Close()
		os.Remove(outPath)
		return fmt.Errorf("write output: %w", err)
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(outPath)
		return fmt.Errorf("write output: %w", err)
	}
	return out.Close()
}

// validArtifactHead checks content type and magic bytes: %PDF for PDF, PK
// (zip) for PPTX.
func validArtifactHead(format, contentType string, head []byte) bool {
	ct := strings.ToLower(contentType)
	switch format {
	case "pdf":
		return strings.Contains(ct, "pdf") || (len(head) >= 4 && string(head[:4]) == "%PDF")
	case "pptx":
		return strings.Contains(ct, "presentation") || strings.Contains(ct, "pptx") ||
			(len(head) >= 2 && string(head[:2]) == "PK")
	}
	return false
}
