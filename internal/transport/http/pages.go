package http

import (
	"embed"
	"errors"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"strings"
	"time"

	"hotspot-quiz-service/internal/domain"

	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
)

//go:embed assets/index.html assets/app.css assets/app.js
var assets embed.FS

var pageTemplate = template.Must(template.ParseFS(assets, "assets/index.html"))

const qrSize = 320

func assetFS() http.FileSystem {
	sub, err := fs.Sub(assets, "assets")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

type pageData struct {
	Prefix   string
	Catalog  domain.Catalog
	Texts    domain.Texts
	ImageURL string
}

func (h *Handler) servePage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	startTime := time.Now()

	catalog, err := h.service.Catalog(r.Context(), ps.ByName("catalog"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	h.securityHeaders(w)
	session := getOrSetSessionID(w, r)

	if err := pageTemplate.Execute(w, pageData{
		Prefix:   h.opts.Prefix,
		Catalog:  catalog,
		Texts:    catalog.Texts.WithDefaults(),
		ImageURL: catalog.ImageURL,
	}); err != nil {
		log.Printf("render page %s: %v", catalog.ID, err)
		return
	}

	h.logf("SERVE: Quiz %s for session %s to %s in %s", catalog.ID, session, realIP(r), time.Since(startTime).Round(time.Microsecond))
}

// serveQR encodes the quiz page URL so another device can join quickly.
func (h *Handler) serveQR(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if _, err := h.service.Catalog(r.Context(), ps.ByName("catalog")); err != nil {
		h.writeError(w, err)
		return
	}

	scheme := "http"
	if r.TLS != nil || h.opts.Secure {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	url := scheme + "://" + r.Host + strings.TrimSuffix(r.URL.Path, "/qr")

	png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
	if err != nil {
		http.Error(w, "qr generation failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	h.securityHeaders(w)
	_, _ = w.Write(png)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrCatalogNotFound), errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidCatalog):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
