package utils

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

// GenerateQRCode encodes content as a square PNG of the given pixel size.
func GenerateQRCode(content string, size int) ([]byte, error) {
	png, err := qrcode.Encode(content, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encode qr code: %w", err)
	}
	return png, nil
}
