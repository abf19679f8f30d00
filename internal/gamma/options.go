package gamma

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/deckpilot/deckpilot/internal/common"
)

// Options are the caller-tunable generation parameters forwarded to the
// remote service. Zero values fall back to the documented defaults.
type Options struct {
	TextAmount             string `json:"textAmount,omitempty"` // "brief" | "medium" | "detailed"
	Tone                   string `json:"tone,omitempty"`
	Audience               string `json:"audience,omitempty"`
	Language               string `json:"language,omitempty"`
	ImageSource            string `json:"imageSource,omitempty"`
	ImageModel             string `json:"imageModel,omitempty"` // only relevant for aiGenerated
	ImageStyle             string `json:"imageStyle,omitempty"` // only relevant for aiGenerated
	CardDimensions         string `json:"cardDimensions,omitempty"`
	CardSplit              string `json:"cardSplit,omitempty"`
	NumCards               int    `json:"numCards,omitempty"`
	ThemeID                string `json:"themeId,omitempty"`
	ExportAs               string `json:"exportAs,omitempty"`
	AdditionalInstructions string `json:"additionalInstructions,omitempty"`
}

func (o Options) withDefaults() Options {
	if o.TextAmount == "" {
		o.TextAmount = "detailed"
	}
	if o.Tone == "" {
		o.Tone = "professional"
	}
	if o.Audience == "" {
		o.Audience = "general"
	}
	if o.Language == "" {
		o.Language = "en"
	}
	if o.ImageSource == "" {
		o.ImageSource = "aiGenerated"
	}
	if o.ImageModel == "" {
		o.ImageModel = "imagen-4-pro"
	}
	if o.ImageStyle == "" {
		o.ImageStyle = "photorealistic"
	}
	if o.CardDimensions == "" {
		o.CardDimensions = "fluid"
	}
	if o.CardSplit == "" {
		o.CardSplit = "auto"
	}
	if o.ExportAs == "" {
		o.ExportAs = "pdf"
	}
	return o
}

// optionsSchema constrains an options file to the parameter vocabulary the
// remote service documents; unknown keys are rejected up front instead of
// surfacing as a remote 400 after submission.
const optionsSchema = `{
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "textAmount": {"type": "string", "enum": ["brief", "medium", "detailed"]},
    "tone": {"type": "string", "minLength": 1, "maxLength": 500},
    "audience": {"type": "string", "minLength": 1, "maxLength": 500},
    "language": {"type": "string", "minLength": 2, "maxLength": 16},
    "imageSource": {"type": "string", "enum": [
      "aiGenerated", "pictographic", "unsplash", "giphy",
      "webAllImages", "webFreeToUse", "webFreeToUseCommercially",
      "placeholder", "noImages"
    ]},
    "imageModel": {"type": "string"},
    "imageStyle": {"type": "string"},
    "cardDimensions": {"type": "string", "enum": ["fluid", "16x9", "4x3"]},
    "cardSplit": {"type": "string", "enum": ["auto", "inputTextBreaks"]},
    "numCards": {"type": "integer", "minimum": 1, "maximum": 60},
    "themeId": {"type": "string"},
    "exportAs": {"type": "string", "enum": ["pdf", "pptx"]},
    "additionalInstructions": {"type": "string", "maxLength": 2000}
  }
}`

var compiledOptionsSchema = jsonschema.MustCompileString("options.schema.json", optionsSchema)

// LoadOptionsFile reads a JSON options file, validates it against the schema
// and unmarshals it. Defaults still apply for anything left unset.
func LoadOptionsFile(path string) (Options, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Options{}, common.NewAppError("OPTIONS_READ", path, fmt.Errorf("%w: %w", common.ErrIO, err))
	}

	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return Options{}, common.NewAppError("OPTIONS_PARSE", path, fmt.Errorf("%w: %w", common.ErrInvalidInput, err))
	}
	if err := compiledOptionsSchema.Validate(generic); err != nil {
		return Options{}, common.NewAppError("OPTIONS_SCHEMA", path, fmt.Errorf("%w: %w", common.ErrInvalidInput, err))
	}

	var opts Options
	if err := json.Unmarshal(raw, &opts); err != nil {
		return Options{}, common.NewAppError("OPTIONS_DECODE", path, fmt.Errorf("%w: %w", common.ErrInvalidInput, err))
	}
	return opts, nil
}
