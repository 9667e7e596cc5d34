package metadata

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// Info carries whatever could be extracted from an uploaded file. Every
// field is optional: extraction failures degrade to an empty Info, they
// never fail the upload.
type Info struct {
	Width   *int
	Height  *int
	TakenAt *time.Time
}

// ExtractImage reads pixel dimensions and the EXIF DateTimeOriginal tag
// from an in-memory image.
func ExtractImage(data []byte) Info {
	var info Info

	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		w, h := cfg.Width, cfg.Height
		info.Width = &w
		info.Height = &h
	}

	if x, err := exif.Decode(bytes.NewReader(data)); err == nil {
		if taken, err := x.DateTime(); err == nil {
			info.TakenAt = &taken
		}
	}

	return info
}
