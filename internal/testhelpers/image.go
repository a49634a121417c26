package testhelpers

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"testing"
)

// PNGBytes encodes a blank PNG of the given dimensions for upload tests.
func PNGBytes(t *testing.T, width, height int) []byte {
	t.Helper()

	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height))); err != nil {
		t.Fatalf("encode test png: %v", err)
	}
	return buf.Bytes()
}

// JPEGBytes encodes a blank JPEG of the given dimensions for upload tests.
func JPEGBytes(t *testing.T, width, height int) []byte {
	t.Helper()

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height)), nil); err != nil {
		t.Fatalf("encode test jpeg: %v", err)
	}
	return buf.Bytes()
}
