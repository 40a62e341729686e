// Package media prepares picked image files for upload: decode, downscale to
// a width cap, re-encode as JPEG. Keeps mobile-sized payloads instead of
// shipping full camera resolution to the backend.
package media

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// Prepared is an upload-ready image part.
type Prepared struct {
	Name        string
	ContentType string
	Data        []byte
}

// PrepareImage loads the file at path and returns JPEG bytes no wider than
// maxWidth. Images already narrower keep their dimensions but are still
// re-encoded, so the upload content type is uniform.
func PrepareImage(path string, maxWidth, quality int, maxBytes int64) (Prepared, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Prepared{}, fmt.Errorf("stat image: %w", err)
	}
	if maxBytes > 0 && info.Size() > maxBytes {
		return Prepared{}, fmt.Errorf("image %s exceeds upload limit of %d bytes", filepath.Base(path), maxBytes)
	}

	img, err := imaging.Open(path)
	if err != nil {
		return Prepared{}, fmt.Errorf("decode image: %w", err)
	}
	if maxWidth > 0 && img.Bounds().Dx() > maxWidth {
		img = imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return Prepared{}, fmt.Errorf("encode jpeg: %w", err)
	}
	if maxBytes > 0 && int64(buf.Len()) > maxBytes {
		return Prepared{}, fmt.Errorf("image %s exceeds upload limit of %d bytes after encoding", filepath.Base(path), maxBytes)
	}

	return Prepared{
		Name:        jpegName(path),
		ContentType: "image/jpeg",
		Data:        buf.Bytes(),
	}, nil
}

func jpegName(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)
	if name == "" {
		name = "photo"
	}
	return name + ".jpg"
}
