// Package xhttp holds the HTTP plumbing of the watch server: error returning
// handlers, request logging and graceful serving.
package xhttp

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"oss.terrastruct.com/cmdlog"
)

// Error is returned by a HandlerFunc to pick the status code and the body
// written back.
type Error struct {
	Code int
	Resp interface{}
	Err  error
}

func (e Error) Unwrap() error {
	return e.Err
}

func (e Error) Error() string {
	return fmt.Sprintf("http %d (%v): %v", e.Code, e.Resp, e.Err)
}

// Errorf builds an Error. A nil resp becomes the status text of code.
func Errorf(code int, resp interface{}, msg string, v ...interface{}) error {
	if resp == nil {
		resp = http.StatusText(code)
	}
	return Error{Code: code, Resp: resp, Err: fmt.Errorf(msg, v...)}
}

// HandlerFunc is an http.HandlerFunc that may fail.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// HandlerFuncAdapter serves a HandlerFunc. Errors are logged, 4xx as warnings
// and everything else as errors, and written as {"error": resp} unless the
// handler already wrote a response. Errors that are not an Error are 500s.
type HandlerFuncAdapter struct {
	Log  *cmdlog.Logger
	Func HandlerFunc
}

func (a HandlerFuncAdapter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	err := a.Func(w, r)
	if err == nil {
		return
	}

	var herr Error
	if !errors.As(err, &herr) {
		herr = Error{Code: http.StatusInternalServerError, Err: err}
	}
	if herr.Code < 400 || herr.Code > 599 {
		a.Log.Error.Printf("unexpected status %d for error %v", herr.Code, err)
		herr.Code = http.StatusInternalServerError
		herr.Resp = nil
	}
	if herr.Resp == nil {
		herr.Resp = http.StatusText(herr.Code)
	}
	levelFor(a.Log, herr.Code).Printf("%s %s: %v", r.Method, r.URL.Path, err)

	if ww, ok := w.(interface{ Written() bool }); ok && ww.Written() {
		return
	}
	JSON(a.Log, w, herr.Code, map[string]interface{}{
		"error": herr.Resp,
	})
}

// JSON writes v as the response body with code.
func JSON(clog *cmdlog.Logger, w http.ResponseWriter, code int, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		clog.Error.Printf("failed to marshal response: %v", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(b)
}

func levelFor(clog *cmdlog.Logger, code int) *log.Logger {
	switch {
	case code < 300:
		return clog.Success
	case code < 400:
		return clog.Info
	case code < 500:
		return clog.Warn
	default:
		return clog.Error
	}
}
