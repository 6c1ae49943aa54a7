package draft

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"

	"golang.org/x/image/draw"
)

const (
	MaxImageWidth  = 800
	JPEGQuality    = 80
	MaxUploadBytes = 10 << 20 // 10MB
)

var (
	ErrImageTooLarge = errors.New("image too large")
	ErrImageInvalid  = errors.New("invalid image")
)

// EncodeImage decodes an uploaded image, shrinks it to MaxImageWidth if it is
// wider, and returns it as base64 encoded JPEG. The backend stores every
// upload with a .jpg extension.
func EncodeImage(src io.Reader, limit int64) (string, error) {
	if limit <= 0 {
		limit = MaxUploadBytes
	}

	raw, err := io.ReadAll(io.LimitReader(src, limit+1))
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	if int64(len(raw)) > limit {
		return "", ErrImageTooLarge
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrImageInvalid, err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > MaxImageWidth {
		newH := h * MaxImageWidth / w
		if newH < 1 {
			newH = 1
		}
		dst := image.NewRGBA(image.Rect(0, 0, MaxImageWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return "", fmt.Errorf("encode jpeg: %w", err)
	}

	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
