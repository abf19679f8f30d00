package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/deckpilot/deckpilot/internal/common"
)

// Key identifies one source file: the normalized absolute path plus a hash of
// the full byte contents. Identical bytes at two paths are two distinct keys,
// which preserves per-location history.
type Key struct {
	Path string
	Hash string // lowercase hex sha256
}

func (k Key) String() string {
	return k.Path + "#" + k.Hash
}

// File computes the fingerprint key for the file at path.
func File(path string) (Key, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Key{}, common.NewAppError("FINGERPRINT_PATH", path, fmt.Errorf("%w: %w", common.ErrIO, err))
	}

	f, err := os.Open(abs)
	if err != nil {
		return Key{}, common.NewAppError("FINGERPRINT_OPEN", abs, fmt.Errorf("%w: %w", common.ErrIO, err))
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return Key{}, common.NewAppError("FINGERPRINT_READ", abs, fmt.Errorf("%w: %w", common.ErrIO, err))
	}

	return Key{Path: abs, Hash: hex.EncodeToString(h.Sum(nil))}, nil
}
