// Package storage cuida dos arquivos de marca do estúdio: logo e QR code
// do link de agendamento.
package storage

import (
	"bytes"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/chai2010/webp"
	"github.com/pkg/errors"
	"golang.org/x/image/draw"
)

const (
	MaxLogoSide  = 512
	MaxLogoBytes = 5 << 20
	logoQuality  = 85
)

var ErrUnsupportedImage = errors.New("unsupported_image")

// TranscodeLogo decodifica PNG/JPEG/WebP (o pacote webp registra o formato), reduz para no máximo
// MaxLogoSide px no maior lado e devolve WebP.
func TranscodeLogo(r io.Reader) ([]byte, error) {
	src, _, err := image.Decode(io.LimitReader(r, MaxLogoBytes))
	if err != nil {
		return nil, errors.Wrap(ErrUnsupportedImage, err.Error())
	}

	img := fit(src, MaxLogoSide)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: logoQuality}); err != nil {
		return nil, errors.Wrap(err, "encode webp")
	}
	return buf.Bytes(), nil
}

func fit(src image.Image, max int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= max && h <= max {
		return src
	}

	if w >= h {
		h = h * max / w
		w = max
	} else {
		w = w * max / h
		h = max
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
