// Package clipboard reads URLs from the system clipboard.
package clipboard

import (
	"errors"
	"fmt"
	"strings"

	atottoClip "github.com/atotto/clipboard"
)

var (
	ErrEmpty        = errors.New("clipboard is empty")
	ErrNotGitHubURL = errors.New("clipboard does not contain a GitHub URL")
	ErrUnsupported  = errors.New("no clipboard utility available (install xclip, xsel or wl-clipboard)")
)

// Reader returns the clipboard's current text.
type Reader interface {
	ReadText() (string, error)
}

// AtottoClipboard reads text through the atotto/clipboard library
type AtottoClipboard struct{}

// NewAtottoClipboard returns a new Atotto-based clipboard reader
func NewAtottoClipboard() *AtottoClipboard {
	return &AtottoClipboard{}
}

func (c *AtottoClipboard) ReadText() (string, error) {
	if atottoClip.Unsupported {
		return "", ErrUnsupported
	}
	text, err := atottoClip.ReadAll()
	if err != nil {
		return "", fmt.Errorf("failed to read clipboard: %w", err)
	}
	return text, nil
}

// ReadGitHubURL reads the clipboard and returns its trimmed text if it is a
// GitHub link. Only the host is checked; the helper validates the rest.
func ReadGitHubURL(r Reader) (string, error) {
	text, err := r.ReadText()
	if err != nil {
		return "", err
	}

	url := strings.TrimSpace(text)
	if url == "" {
		return "", ErrEmpty
	}
	if !strings.Contains(url, "github.com") {
		return "", ErrNotGitHubURL
	}
	return url, nil
}
