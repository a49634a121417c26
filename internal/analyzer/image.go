package analyzer

import (
	"bytes"
	"fmt"
	"image"

	// Standard decoders registered for image.DecodeConfig.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	// Extended formats commonly seen in uploads.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ImageInfo describes a successfully decoded upload.
type ImageInfo struct {
	Format string
	Width  int
	Height int
}

// DecodeImageInfo reads the image header and extracts format and dimensions
// without decoding pixel data. Returns an error when the bytes are not a
// recognized image.
func DecodeImageInfo(data []byte) (*ImageInfo, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty image data")
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	return &ImageInfo{
		Format: format,
		Width:  cfg.Width,
		Height: cfg.Height,
	}, nil
}
