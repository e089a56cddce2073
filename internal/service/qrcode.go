package service

import (
	"github.com/skip2/go-qrcode"
)

type PNGQRGenerator struct {
	Size int
}

func (g PNGQRGenerator) Render(payload string) ([]byte, error) {
	size := g.Size
	if size == 0 {
		size = 256
	}
	return qrcode.Encode(payload, qrcode.Medium, size)
}

var _ QRGenerator = PNGQRGenerator{}
