package handlers

import (
	"bytes"
	"io"
	"net/http"
	"regexp"

	qrcode "github.com/yeqown/go-qrcode/v2"
	"github.com/yeqown/go-qrcode/writer/standard"
)

var hexColorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// QRCode renders a PNG QR code pointing at the mapping's short URL.
// Optional query params: shape=circle, fg=#rrggbb, dl=1 (download).
func (h *URLHandler) QRCode(w http.ResponseWriter, r *http.Request) {
	link, ok := h.ownedURL(w, r)
	if !ok {
		return
	}

	shape := r.URL.Query().Get("shape")
	fg := r.URL.Query().Get("fg")
	dl := r.URL.Query().Get("dl")

	opts := []standard.ImageOption{
		standard.WithBuiltinImageEncoder(standard.PNG_FORMAT),
		standard.WithQRWidth(10),
		standard.WithBorderWidth(20),
		standard.WithBgTransparent(),
	}
	if shape == "circle" {
		opts = append(opts, standard.WithCircleShape())
	}
	if hexColorRe.MatchString(fg) {
		opts = append(opts, standard.WithFgColorRGBHex(fg))
	}

	qrc, err := qrcode.New(h.Cfg.ShortURL(link.ShortCode))
	if err != nil {
		jsonError(w, "failed to generate qr code", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	writer := standard.NewWithWriter(nopCloser{&buf}, opts...)
	if err := qrc.Save(writer); err != nil {
		jsonError(w, "failed to render qr code", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	if dl == "1" {
		w.Header().Set("Content-Disposition", "attachment; filename=\""+link.ShortCode+"-qr.png\"")
	}
	w.Write(buf.Bytes())
}
