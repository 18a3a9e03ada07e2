package server

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	maxImageWidth = 1600
	webpQuality   = 85
)

// normalizeImage re-encodes a decodable upload as WebP, downscaling anything
// wider than maxImageWidth. Payloads the decoder does not recognize pass
// through untouched so formats like SVG keep their original bytes. Returns
// the bytes to store, their content type, and the file extension.
func normalizeImage(data []byte, contentType string) ([]byte, string, string) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return data, contentType, imageExtension(contentType)
	}

	bounds := src.Bounds()
	if w := bounds.Dx(); w > maxImageWidth {
		h := bounds.Dy() * maxImageWidth / w
		dst := image.NewRGBA(image.Rect(0, 0, maxImageWidth, h))
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
		src = dst
	}

	buf := new(bytes.Buffer)
	if err := webp.Encode(buf, src, &webp.Options{Quality: webpQuality}); err != nil {
		return data, contentType, imageExtension(contentType)
	}
	return buf.Bytes(), "image/webp", "webp"
}
