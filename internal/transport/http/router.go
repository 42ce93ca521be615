package http

import (
	"context"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"hotspot-quiz-service/internal/app"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

const logDate = `2006-01-02T15:04:05.000-07:00`

// Options tunes the HTTP surface.
type Options struct {
	Prefix         string
	DefaultCatalog string
	Version        string
	Profile        bool
	Secure         bool
	Verbose        bool
	// LiveSessions backs /stats when set.
	LiveSessions func(ctx context.Context) (int, error)
}

// Handler serves the quiz page, its JSON API and the websocket.
type Handler struct {
	service  *app.QuizService
	opts     Options
	upgrader websocket.Upgrader
}

// NewHandler wires the presentation layer onto the quiz use cases.
func NewHandler(service *app.QuizService, opts Options) *Handler {
	opts.Prefix = strings.TrimSuffix(opts.Prefix, "/")
	return &Handler{
		service: service,
		opts:    opts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// NewRouter registers every route under opts.Prefix.
//
//   - /                         redirects to the default catalog
//   - /quiz/:catalog            HTML client
//   - /quiz/:catalog/ws         websocket for the player's round
//   - /quiz/:catalog/qr         PNG QR code of the page
//   - /api/quiz/:catalog/...    JSON API
func NewRouter(service *app.QuizService, opts Options) *httprouter.Router {
	h := NewHandler(service, opts)
	p := h.opts.Prefix

	mux := httprouter.New()
	mux.PanicHandler = func(w http.ResponseWriter, r *http.Request, i any) {
		log.Printf("panic serving %s: %v", r.URL.Path, i)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		h.securityHeaders(w)
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, "An error has occurred. Please try again.\n")
	}

	mux.GET(p+"/", h.redirectDefault)
	mux.GET(p+"/healthz", h.serveHealthCheck)
	mux.GET(p+"/version", h.serveVersion)
	if h.opts.LiveSessions != nil {
		mux.GET(p+"/stats", h.serveStats)
	}

	mux.GET(p+"/quiz/:catalog", h.servePage)
	mux.GET(p+"/quiz/:catalog/ws", h.ServeWS)
	mux.GET(p+"/quiz/:catalog/qr", h.serveQR)
	mux.ServeFiles(p+"/assets/*filepath", assetFS())

	mux.GET(p+"/api/quiz/:catalog", h.serveCatalog)
	mux.GET(p+"/api/quiz/:catalog/view", h.serveView)
	mux.POST(p+"/api/quiz/:catalog/click", h.serveClick)
	mux.POST(p+"/api/quiz/:catalog/reset", h.serveReset)

	if h.opts.Profile {
		registerProfileHandlers(p, mux)
	}
	return mux
}

func (h *Handler) securityHeaders(w http.ResponseWriter) {
	w.Header().Set("Cross-Origin-Opener-Policy", "same-origin")
	w.Header().Set("Cross-Origin-Resource-Policy", "same-site")
	w.Header().Set("Permissions-Policy", "geolocation=(), midi=(), sync-xhr=(), microphone=(), camera=(), magnetometer=(), gyroscope=(), payment=()")
	w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	// catalog images are usually hosted elsewhere
	w.Header().Set("Content-Security-Policy", "default-src 'self'; img-src 'self' https: data:")

	if h.opts.Secure {
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
	}
}

func (h *Handler) logf(format string, args ...any) {
	if !h.opts.Verbose {
		return
	}
	log.Printf("%s | "+format, append([]any{time.Now().Format(logDate)}, args...)...)
}

func (h *Handler) redirectDefault(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	http.Redirect(w, r, h.opts.Prefix+"/quiz/"+h.opts.DefaultCatalog, http.StatusTemporaryRedirect)
}

func (h *Handler) serveHealthCheck(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	h.securityHeaders(w)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) serveVersion(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	startTime := time.Now()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	h.securityHeaders(w)
	written, _ := fmt.Fprintf(w, "hotspot-quiz v%s\n", h.opts.Version)

	h.logf("SERVE: Version page (%d B) to %s in %s", written, realIP(r), time.Since(startTime).Round(time.Microsecond))
}

func (h *Handler) serveStats(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	n, err := h.opts.LiveSessions(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]int{"sessions": n})
}

func realIP(r *http.Request) string {
	host, port, _ := net.SplitHostPort(r.RemoteAddr)
	if ip := r.Header.Get("X-Real-IP"); ip != "" && net.ParseIP(ip) != nil {
		host = ip
	}
	if net.ParseIP(host) != nil && strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	if port != "" {
		return host + ":" + port
	}
	return host
}
