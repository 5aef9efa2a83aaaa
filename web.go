package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog/log"
)

const (
	timeout     time.Duration = 10 * time.Second
	statusLimit               = 20
)

// viewServer mirrors what the terminal shows onto a small local HTTP
// page, so a second screen can follow the game.
type viewServer struct {
	cfg *Config

	mu     sync.RWMutex
	view   View
	status []string
}

func newViewServer(cfg *Config) *viewServer {
	return &viewServer{cfg: cfg}
}

func (s *viewServer) Status(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.status = append(s.status, msg)
	if len(s.status) > statusLimit {
		s.status = s.status[len(s.status)-statusLimit:]
	}
}

func (s *viewServer) Update(v View) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.view = v
}

func (s *viewServer) snapshot() (View, []string) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.view, append([]string(nil), s.status...)
}

func securityHeaders(w http.ResponseWriter) {
	w.Header().Set("Cross-Origin-Opener-Policy", "same-origin")
	w.Header().Set("Cross-Origin-Resource-Policy", "same-site")
	w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Content-Security-Policy", "default-src 'self'")
}

func realIP(r *http.Request) string {
	host, port, _ := net.SplitHostPort(r.RemoteAddr)
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		if net.ParseIP(ip) != nil {
			host = ip
		}
	}
	if net.ParseIP(host) != nil && strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	if port != "" {
		return host + ":" + port
	}
	return host
}

func newPage(title, body string) string {
	var htmlBody strings.Builder

	htmlBody.WriteString(`<!DOCTYPE html><html lang="en"><head>`)
	htmlBody.WriteString(`<style>html,body{font-family:monospace;}</style>`)
	htmlBody.WriteString(fmt.Sprintf("<title>%s</title></head>", title))
	htmlBody.WriteString(fmt.Sprintf("<body><a href=\"/\">%s</a></body></html>", body))

	return htmlBody.String()
}

func serveBoard(s *viewServer, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		startTime := time.Now()

		v, status := s.snapshot()

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		securityHeaders(w)

		text := renderView(v) + "\n" + strings.Join(status, "\n") + "\n"

		written, err := io.WriteString(w, text)
		if err != nil {
			errs <- err

			return
		}

		logf("SERVE: Board (%s) to %s in %s",
			humanReadableSize(int64(written)),
			realIP(r),
			time.Since(startTime).Round(time.Microsecond),
		)
	}
}

func serveState(s *viewServer, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		v, status := s.snapshot()

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		securityHeaders(w)

		err := json.NewEncoder(w).Encode(struct {
			View
			Status []string `json:"status"`
		}{View: v, Status: status})
		if err != nil {
			errs <- err
		}
	}
}

func serveQR(s *viewServer, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		v, _ := s.snapshot()

		code := v.Session.RoomCode
		if code == "" {
			http.Error(w, "not in a room", http.StatusNotFound)

			return
		}

		png, err := roomQR(code)
		if err != nil {
			http.Error(w, "failed to generate QR code", http.StatusInternalServerError)
			errs <- err

			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Content-Length", strconv.Itoa(len(png)))
		w.Header().Set("Cache-Control", "no-store")
		securityHeaders(w)

		if _, err := w.Write(png); err != nil {
			errs <- err
		}
	}
}

func serveHealthCheck(errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		securityHeaders(w)

		if _, err := w.Write([]byte("Ok\n")); err != nil {
			errs <- err
		}
	}
}

func serveVersion(errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		startTime := time.Now()

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		securityHeaders(w)
		w.WriteHeader(http.StatusOK)

		written, err := w.Write([]byte("minigames v" + releaseVersion + "\n"))
		if err != nil {
			errs <- err

			return
		}

		logf("SERVE: Version page (%s) to %s in %s",
			humanReadableSize(int64(written)),
			realIP(r),
			time.Since(startTime).Round(time.Microsecond),
		)
	}
}

func (s *viewServer) routes(errs chan<- error) *httprouter.Router {
	mux := httprouter.New()

	mux.PanicHandler = func(w http.ResponseWriter, r *http.Request, i any) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		securityHeaders(w)
		w.WriteHeader(http.StatusInternalServerError)

		io.WriteString(w, newPage("Server Error", "An error has occurred. Please try again."))
	}

	mux.GET("/", serveBoard(s, errs))

	mux.GET("/healthz", serveHealthCheck(errs))

	mux.GET("/qr", serveQR(s, errs))

	mux.GET("/state", serveState(s, errs))

	mux.GET("/version", serveVersion(errs))

	if s.cfg.profile {
		registerProfileHandlers(mux)
	}

	return mux
}

// ServeView runs the status page until ctx is done.
func ServeView(ctx context.Context, s *viewServer) error {
	errs := make(chan error, 64)
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for err := range errs {
			log.Warn().Err(err).Msg("status page")
		}
	}()

	srv := &http.Server{
		Addr:              net.JoinHostPort(s.cfg.bind, strconv.Itoa(s.cfg.viewPort)),
		Handler:           s.routes(errs),
		IdleTimeout:       10 * time.Minute,
		ReadTimeout:       timeout,
		ReadHeaderTimeout: timeout,
		WriteTimeout:      timeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Msgf("Status page listening on http://%s/", srv.Addr)
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		close(errs)
		<-drained

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		// Handlers may still be running and writing to errs.
		return err
	}

	close(errs)
	<-drained

	return nil
}

func humanReadableSize(bytes int64) string {
	const unit int64 = 1000
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := unit, 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "kMGTPE"[exp])
}
