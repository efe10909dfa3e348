package mfserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/epithet-ssh/jarmf/pkg/jar"
	"github.com/epithet-ssh/jarmf/pkg/manifest"
	"github.com/klauspost/compress/zip"
	"golang.org/x/text/encoding"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Line  int    `json:"line,omitempty"`
	Key   string `json:"key,omitempty"`
}

type badRequestError struct {
	err error
}

func (e *badRequestError) Error() string { return e.err.Error() }
func (e *badRequestError) Unwrap() error { return e.err }

// describe maps err to a status code and response body.
func describe(err error) (int, ErrorResponse) {
	resp := ErrorResponse{Error: err.Error()}

	var (
		formatErr *manifest.FormatError
		contErr   *manifest.ContinuationError
		dupErr    *manifest.DuplicateKeyError
		encErr    *manifest.EncodingError
		maxErr    *http.MaxBytesError
		badReq    *badRequestError
	)
	switch {
	case errors.As(err, &maxErr):
		return http.StatusRequestEntityTooLarge, resp
	case errors.As(err, &badReq):
		return http.StatusBadRequest, resp
	case errors.As(err, &formatErr):
		resp.Line = formatErr.Line
	case errors.As(err, &contErr):
		resp.Line = contErr.Line
	case errors.As(err, &dupErr):
		resp.Line = dupErr.Line
		resp.Key = dupErr.Key
	case errors.As(err, &encErr):
		resp.Key = encErr.Key
	case errors.Is(err, jar.ErrEntryNotFound):
		return http.StatusNotFound, resp
	case errors.Is(err, manifest.ErrTooLarge),
		errors.Is(err, encoding.ErrInvalidUTF8),
		errors.Is(err, zip.ErrFormat),
		errors.Is(err, zip.ErrAlgorithm),
		errors.Is(err, zip.ErrChecksum):
	default:
		return http.StatusInternalServerError, resp
	}
	return http.StatusUnprocessableEntity, resp
}

func (s *server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := describe(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", "path", r.URL.Path, "error", err)
	} else {
		s.log.Debug("request rejected", "path", r.URL.Path, "status", status, "error", err)
	}
	s.record(r, 0, 0, err)

	out, jerr := json.Marshal(&resp)
	if jerr != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(out)
}
