// Package imgio handles reading and writing images at the process
// boundary. Everything inside the pipeline works on decoded images;
// format handling stays here.
package imgio

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// UnsupportedFormatError reports an output extension with no encoder.
type UnsupportedFormatError struct {
	Path string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported image format: %s (use .png, .jpg or .jpeg)", e.Path)
}

// Load decodes the image at path into NRGBA.
func Load(path string) (*image.NRGBA, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load image %s: %w", path, err)
	}
	return imaging.Clone(img), nil
}

// Save encodes img to path; the format is chosen by extension.
func Save(img image.Image, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		if err := imaging.Save(img, path); err != nil {
			return fmt.Errorf("failed to save image %s: %w", path, err)
		}
	case ".jpg", ".jpeg":
		if err := imaging.Save(img, path, imaging.JPEGQuality(92)); err != nil {
			return fmt.Errorf("failed to save image %s: %w", path, err)
		}
	default:
		return &UnsupportedFormatError{Path: path}
	}
	return nil
}
