// ABOUTME: Avatar image normalization pipeline
// ABOUTME: Accepts jpg/jpeg/png uploads and produces a fixed-size PNG

package avatar

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // registers JPEG decoding for image.Decode
	"image/png"

	"golang.org/x/image/draw"
)

// MaxUploadSize is the upload size ceiling in bytes
const MaxUploadSize = 1_000_000

// Side is the edge length of the normalized square output
const Side = 250

// Avatar errors
var (
	ErrUnsupportedFormat = errors.New("please upload a jpg, jpeg or png file")
	ErrTooLarge          = fmt.Errorf("file exceeds the %d byte limit", MaxUploadSize)
)

// Normalize converts an uploaded image into the stored avatar form: a
// 250x250 PNG. Input larger than MaxUploadSize is rejected before decoding;
// input that is not JPEG or PNG fails with ErrUnsupportedFormat.
//
// The transform is stateless, so concurrent calls are safe.
func Normalize(data []byte) ([]byte, error) {
	if len(data) > MaxUploadSize {
		return nil, ErrTooLarge
	}

	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrUnsupportedFormat
	}
	switch format {
	case "jpeg", "png":
	default:
		return nil, ErrUnsupportedFormat
	}

	dst := image.NewRGBA(image.Rect(0, 0, Side, Side))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("encoding avatar: %w", err)
	}

	return buf.Bytes(), nil
}
