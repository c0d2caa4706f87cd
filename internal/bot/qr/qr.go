// Package qr renders download links as QR code images for the file detail
// screen.
package qr

import (
	qrcode "github.com/skip2/go-qrcode"
)

// Size is the side length in pixels of the generated PNG.
const Size = 256

// PNG encodes url into a QR code PNG with medium error recovery.
func PNG(url string) ([]byte, error) {
	return qrcode.Encode(url, qrcode.Medium, Size)
}
