package storage

import (
	"net/url"

	"github.com/pkg/errors"
	"github.com/skip2/go-qrcode"
)

const qrSize = 256

var ErrInvalidLink = errors.New("invalid_link")

// BookingQRCode gera o PNG do QR code do link público de agendamento.
func BookingQRCode(link string) ([]byte, error) {
	u, err := url.Parse(link)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, ErrInvalidLink
	}

	png, err := qrcode.Encode(link, qrcode.Medium, qrSize)
	if err != nil {
		return nil, errors.Wrap(err, "encode qrcode")
	}
	return png, nil
}
