package gamma

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/deckpilot/deckpilot/constants"
	"github.com/deckpilot/deckpilot/internal/common"
)

// Config for the Gamma client.
type Config struct {
	APIKey        string        // if empty, falls back to env GAMMA_API_KEY
	BaseURL       string        // default https://public-api.gamma.app/v1.0
	ThemeID       string        // optional; empty uses the workspace default theme
	Timeout       time.Duration // http client timeout
	MaxInputChars int           // head-truncation budget before submission
}

type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GAMMA_API_KEY")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://public-api.gamma.app/v1.0"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}
	if cfg.MaxInputChars <= 0 {
		cfg.MaxInputChars = 400000
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

func (c *Client) headers() map[string]string {
	return map[string]string{"X-API-KEY": c.cfg.APIKey}
}

// Submit sends the extracted text to the generation endpoint and returns the
// remote generation id. Text over the input budget is head-truncated first;
// truncation is logged, never an error. A non-success response is permanent
// (ErrRemoteRejected); a transport failure is transient (ErrRemoteUnavailable).
func (c *Client) Submit(ctx context.Context, text string, opts Options, hasImageURLs bool) (string, error) {
	if len(text) > c.cfg.MaxInputChars {
		c.logger.Warn("gamma.submit.truncated",
			"original_chars", len(text),
			"budget_chars", c.cfg.MaxInputChars,
		)
		text = text[:c.cfg.MaxInputChars]
	}

	payload := buildSubmitPayload(text, opts, c.cfg.ThemeID, hasImageURLs)

	raw, code, err := sendJSON(ctx, c.http, http.MethodPost, c.cfg.BaseURL+"/generations", payload, c.headers(), c.logger)
	if err != nil {
		return "", common.NewAppError("GAMMA_SUBMIT", "sending generation request",
			fmt.Errorf("%w: %w", common.ErrRemoteUnavailable, err))
	}
	// 201 (Created) and 200 both mean accepted.
	if code != http.StatusOK && code != http.StatusCreated {
		return "", common.NewAppError("GAMMA_SUBMIT",
			fmt.Sprintf("status %d: %s", code, truncateBody(raw)),
			common.ErrRemoteRejected)
	}

	var resp struct {
		GenerationID string `json:"generationId"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil || resp.GenerationID == "" {
		return "", common.NewAppError("GAMMA_SUBMIT", "response carried no generationId",
			common.ErrRemoteRejected)
	}

	c.logger.Info("gamma.submit.accepted", "generation_id", resp.GenerationID)
	return resp.GenerationID, nil
}

// StatusResult is one observation of a remote generation job.
type StatusResult struct {
	Status    constants.GenerationStatus
	RemoteURL string
}

// CheckStatus performs a single non-blocking status probe. Transport errors,
// 429 and 5xx responses are transient (ErrRemoteUnavailable); any other
// non-2xx is permanent (ErrRemoteRejected).
func (c *Client) CheckStatus(ctx context.Context, generationID string) (StatusResult, error) {
	url := fmt.Sprintf("%s/generations/%s", c.cfg.BaseURL, generationID)
	raw, code, err := sendJSON(ctx, c.http, http.MethodGet, url, nil, c.headers(), c.logger)
	if err != nil {
		return StatusResult{}, common.NewAppError("GAMMA_STATUS", "probing generation status",
			fmt.Errorf("%w: %w", common.ErrRemoteUnavailable, err))
	}
	if code == http.StatusTooManyRequests || code >= 500 {
		return StatusResult{}, common.NewAppError("GAMMA_STATUS",
			fmt.Sprintf("status %d", code), common.ErrRemoteUnavailable)
	}
	if code != http.StatusOK {
		return StatusResult{}, common.NewAppError("GAMMA_STATUS",
			fmt.Sprintf("status %d: %s", code, truncateBody(raw)), common.ErrRemoteRejected)
	}

	var resp struct {
		Status   string `json:"status"`
		GammaURL string `json:"gammaUrl"`
		URL      string `json:"url"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return StatusResult{}, common.NewAppError("GAMMA_STATUS", "decoding status response",
			common.ErrRemoteUnavailable)
	}

	remoteURL := resp.GammaURL
	if remoteURL == "" {
		remoteURL = resp.URL
	}
	return StatusResult{Status: mapRemoteStatus(resp.Status), RemoteURL: remoteURL}, nil
}

// mapRemoteStatus folds the remote vocabulary into ours; the service says
// "processing" where our records say "generating".
func mapRemoteStatus(remote string) constants.GenerationStatus {
	switch remote {
	case "pending":
		return constants.StatusPending
	case "processing", "generating":
		return constants.StatusGenerating
	case "completed":
		return constants.StatusCompleted
	case "failed":
		return constants.StatusFailed
	}
	// unknown statuses keep the poll loop going
	return constants.StatusPending
}

func buildSubmitPayload(text string, opts Options, themeID string, hasImageURLs bool) map[string]any {
	opts = opts.withDefaults()

	payload := map[string]any{
		"inputText": text,
		"textMode":  "generate",
		"format":    "presentation",
		"cardSplit": opts.CardSplit,
		"exportAs":  opts.ExportAs,
	}
	if opts.ThemeID != "" {
		themeID = opts.ThemeID
	}
	if themeID != "" {
		payload["themeId"] = themeID
	}
	if opts.NumCards > 0 {
		payload["numCards"] = opts.NumCards
	}
	if opts.AdditionalInstructions != "" {
		payload["additionalInstructions"] = opts.AdditionalInstructions
	}

	payload["textOptions"] = map[string]any{
		"amount":   opts.TextAmount,
		"tone":     opts.Tone,
		"audience": opts.Audience,
		"language": opts.Language,
	}

	// Provided image URLs win over AI generation: the service is told to use
	// only the images embedded in the input text.
	imageSource := opts.ImageSource
	if hasImageURLs {
		imageSource = "noImages"
	}
	imageOptions := map[string]any{"source": imageSource}
	if imageSource == "aiGenerated" {
		imageOptions["model"] = opts.ImageModel
		imageOptions["style"] = opts.ImageStyle
	}
	payload["imageOptions"] = imageOptions

	payload["cardOptions"] = map[string]any{
		"dimensions": opts.CardDimensions,
	}
	return payload
}

func truncateBody(raw []byte) string {
	const max = 200
	if len(raw) > max {
		raw = raw[:max]
	}
	return string(raw)
}
