package imaging

import (
	"fmt"
	"os"
)

// WithTempFile writes img to a temporary .jpg file, hands its path to fn and
// removes the file afterwards, whether fn succeeds, fails or panics.
func WithTempFile(img Image, fn func(path string) error) error {
	f, err := os.CreateTemp("", "parecer-*.jpg")
	if err != nil {
		return fmt.Errorf("imaging: create temp file: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := f.Write(img.Data); err != nil {
		f.Close()
		return fmt.Errorf("imaging: write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("imaging: close temp file: %w", err)
	}
	return fn(path)
}
