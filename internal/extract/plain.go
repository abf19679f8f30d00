package extract

import (
	"fmt"
	"os"

	"github.com/deckpilot/deckpilot/internal/common"
)

func extractPlain(path string) (Result, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Result{}, common.NewAppError("EXTRACT_READ", path, fmt.Errorf("%w: %w", common.ErrIO, err))
	}
	return Result{
		Text:       string(raw),
		SourceType: "TXT",
		Method:     "plain",
	}, nil
}
