// Package mfserver serves manifest decoding and encoding over HTTP.
package mfserver

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/epithet-ssh/jarmf/pkg/format"
	"github.com/epithet-ssh/jarmf/pkg/jar"
	"github.com/epithet-ssh/jarmf/pkg/manifest"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RequestBodySizeLimit is the default maximum request body size.
const RequestBodySizeLimit = 1024 * 1024

// ErrUnknownCodec indicates an unrecognized codec query parameter.
var ErrUnknownCodec = errors.New("mfserver: unknown codec")

type server struct {
	log         *slog.Logger
	events      EventLogger
	maxBodySize int64
	maxLineLen  int
}

// Option configures the handler returned by New.
type Option func(*server)

// WithMaxBodySize overrides RequestBodySizeLimit.
func WithMaxBodySize(n int64) Option {
	return func(s *server) {
		if n > 0 {
			s.maxBodySize = n
		}
	}
}

// WithMaxLineLength bounds logical lines while decoding.
func WithMaxLineLength(n int) Option {
	return func(s *server) {
		s.maxLineLen = n
	}
}

// WithEventLogger records one event per handled request.
func WithEventLogger(events EventLogger) Option {
	return func(s *server) {
		s.events = events
	}
}

// New creates the manifest service router:
//
//	POST /v1/decode   manifest text in, JSON out
//	POST /v1/encode   JSON in, manifest text out
//	POST /v1/jar      archive bytes in, JSON out
//	GET  /healthz
func New(log *slog.Logger, opts ...Option) http.Handler {
	s := &server{
		log:         log,
		maxBodySize: RequestBodySizeLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.events == nil {
		s.events = NewSlogEventLogger(log)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.healthz)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/decode", s.decode)
		r.Post("/encode", s.encode)
		r.Post("/jar", s.decodeJar)
	})

	return r
}

func (s *server) healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok\n"))
}

func (s *server) decode(w http.ResponseWriter, r *http.Request) {
	decodeValue, _, err := codec(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	body, err := s.readBody(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	m, err := manifest.Decode(bytes.NewReader(body), decodeValue, s.decodeOptions()...)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.record(r, len(body), len(m), nil)
	s.writeJSON(w, m)
}

func (s *server) decodeJar(w http.ResponseWriter, r *http.Request) {
	decodeValue, _, err := codec(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	body, err := s.readBody(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	m, err := jar.DecodeBytes(body, decodeValue, s.decodeOptions()...)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.record(r, len(body), len(m), nil)
	s.writeJSON(w, m)
}

func (s *server) encode(w http.ResponseWriter, r *http.Request) {
	_, encodeValue, err := codec(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	body, err := s.readBody(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	m, err := format.ReadJSON(bytes.NewReader(body))
	if err != nil {
		s.fail(w, r, &badRequestError{err: err})
		return
	}

	var out bytes.Buffer
	if err := manifest.Encode(&out, m, encodeValue); err != nil {
		s.fail(w, r, err)
		return
	}

	s.record(r, len(body), len(m), nil)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(out.Bytes()); err != nil {
		s.log.Warn("unable to write response", "error", err)
	}
}

func (s *server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("unable to read body: %w", err)
	}
	return body, nil
}

func (s *server) decodeOptions() []manifest.Option {
	if s.maxLineLen > 0 {
		return []manifest.Option{manifest.MaxLogicalLineLength(s.maxLineLen)}
	}
	return nil
}

func (s *server) writeJSON(w http.ResponseWriter, m manifest.Manifest[any]) {
	var out bytes.Buffer
	if err := format.WriteJSON(&out, m, false); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		s.log.Warn("unable to jsonify response", "error", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(out.Bytes()); err != nil {
		s.log.Warn("unable to write response", "error", err)
	}
}

func (s *server) record(r *http.Request, size, sections int, err error) {
	event := &Event{
		Timestamp: time.Now(),
		RequestID: middleware.GetReqID(r.Context()),
		Route:     r.URL.Path,
		Codec:     r.URL.Query().Get("codec"),
		Bytes:     size,
		Sections:  sections,
		Err:       err,
	}
	if lerr := s.events.LogEvent(r.Context(), event); lerr != nil {
		s.log.Warn("failed to log event", "error", lerr)
	}
}

// codec picks the value codec from the codec query parameter.
func codec(r *http.Request) (manifest.ValueDecoder[any], manifest.ValueEncoder[any], error) {
	switch name := r.URL.Query().Get("codec"); name {
	case "", "text":
		return manifest.TextDecoder, manifest.TextEncoder, nil
	case "bool":
		return manifest.BoolDecoder, manifest.BoolEncoder, nil
	default:
		return nil, nil, &badRequestError{err: fmt.Errorf("%w: %q", ErrUnknownCodec, name)}
	}
}
