package xhttp

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"runtime/debug"
	"time"

	"golang.org/x/text/message"

	"oss.terrastruct.com/cmdlog"
	"oss.terrastruct.com/xcontext"
)

func NewServer(errLog *log.Logger, h http.Handler) *http.Server {
	return &http.Server{
		MaxHeaderBytes: 1 << 18,
		ReadTimeout:    time.Minute,
		// Websocket connections outlive any write timeout; they ping instead.
		IdleTimeout: time.Hour,
		ErrorLog:    errLog,
		Handler:     http.MaxBytesHandler(h, 1<<20),
	}
}

// Serve serves on l until ctx is done and then shuts s down, waiting at most
// shutdownTimeout for open requests.
func Serve(ctx context.Context, shutdownTimeout time.Duration, s *http.Server, l net.Listener) error {
	s.BaseContext = func(net.Listener) context.Context {
		return ctx
	}

	done := make(chan error, 1)
	go func() {
		done <- s.Serve(l)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		ctx, cancel := context.WithTimeout(xcontext.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		return s.Shutdown(ctx)
	}
}

// recorder remembers what a handler wrote so Log can report it.
type recorder struct {
	http.ResponseWriter

	status int
	length int
}

func (rec *recorder) WriteHeader(code int) {
	if rec.status == 0 {
		rec.status = code
	}
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *recorder) Write(p []byte) (int, error) {
	if rec.status == 0 && len(p) > 0 {
		rec.status = http.StatusOK
	}
	n, err := rec.ResponseWriter.Write(p)
	rec.length += n
	return n, err
}

func (rec *recorder) Written() bool {
	return rec.status != 0
}

// Hijack lets websocket upgrades through the logger.
func (rec *recorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := rec.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("%T does not implement http.Hijacker", rec.ResponseWriter)
	}
	rec.status = http.StatusSwitchingProtocols
	return hj.Hijack()
}

func (rec *recorder) Flush() {
	if f, ok := rec.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Log logs one line per request with its status, size and duration, and
// turns panics into 500s.
func Log(clog *cmdlog.Logger, next http.Handler) http.Handler {
	printer := message.NewPrinter(message.MatchLanguage("en"))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &recorder{ResponseWriter: w}
		start := time.Now()
		defer func() {
			if v := recover(); v != nil {
				if err, ok := v.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(v)
				}
				clog.Error.Printf("%s %s: panic: %v\n%s", r.Method, r.URL, v, debug.Stack())
				if !rec.Written() {
					JSON(clog, rec, http.StatusInternalServerError, map[string]interface{}{
						"error": http.StatusText(http.StatusInternalServerError),
					})
				}
			}
		}()

		next.ServeHTTP(rec, r)

		dur := time.Since(start)
		switch rec.status {
		case 0:
			clog.Warn.Printf("%s %s %v: no response written", r.Method, r.URL, dur)
		case http.StatusSwitchingProtocols:
			clog.Success.Printf("%s %s %v: upgraded", r.Method, r.URL, dur)
		default:
			levelFor(clog, rec.status).Printf("%s %s %d %sB %v", r.Method, r.URL, rec.status, printer.Sprint(rec.length), dur)
		}
	})
}
