package jar

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/epithet-ssh/jarmf/pkg/manifest"
)

// DefaultHTTPTimeout bounds a whole archive download.
const DefaultHTTPTimeout = 30 * time.Second

// HTTPSource downloads archives over HTTPS, such as from a Maven repository.
type HTTPSource struct {
	client   *http.Client
	insecure bool
	maxSize  int64
	logger   *slog.Logger
}

// HTTPSourceConfig configures an HTTPSource.
type HTTPSourceConfig struct {
	// Insecure permits http:// URLs and skips certificate verification.
	Insecure bool

	// CACertFile is a PEM file of trusted CA certificates. If empty, the
	// system pool is used.
	CACertFile string

	Timeout time.Duration // Optional, defaults to DefaultHTTPTimeout
	MaxSize int64         // Optional, defaults to DefaultMaxArchiveSize
	Logger  *slog.Logger  // Optional, defaults to slog.Default()
}

// NewHTTPSource builds a source with its own TLS-configured client.
func NewHTTPSource(config HTTPSourceConfig) (*HTTPSource, error) {
	if config.Timeout == 0 {
		config.Timeout = DefaultHTTPTimeout
	}
	if config.MaxSize == 0 {
		config.MaxSize = DefaultMaxArchiveSize
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	tlsCfg := &tls.Config{InsecureSkipVerify: config.Insecure}
	if config.CACertFile != "" {
		pemData, err := os.ReadFile(config.CACertFile)
		if err != nil {
			return nil, fmt.Errorf("jar: reading CA certificate file %q: %w", config.CACertFile, err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pemData) {
			return nil, fmt.Errorf("jar: no valid certificates in %q", config.CACertFile)
		}
		tlsCfg.RootCAs = pool
	}

	return &HTTPSource{
		client: &http.Client{
			Transport: &http.Transport{TLSClientConfig: tlsCfg},
			Timeout:   config.Timeout,
		},
		insecure: config.Insecure,
		maxSize:  config.MaxSize,
		logger:   config.Logger,
	}, nil
}

// Fetch downloads the archive at rawURL.
func (s *HTTPSource) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if strings.HasPrefix(rawURL, "http://") && !s.insecure {
		return nil, fmt.Errorf("jar: URL %q uses insecure http://; use https:// or allow insecure connections", rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("jar: invalid URL %q: %w", rawURL, err)
	}

	s.logger.Debug("fetching archive", "url", rawURL)
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jar: fetching %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("jar: fetching %s: unexpected status %s", rawURL, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, s.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("jar: reading %s: %w", rawURL, err)
	}
	if int64(len(data)) > s.maxSize {
		return nil, ErrArchiveTooLarge
	}

	s.logger.Debug("fetched archive", "url", rawURL, "bytes", len(data))
	return data, nil
}

// DecodeHTTP downloads the archive at rawURL and decodes its manifest.
func DecodeHTTP[V any](ctx context.Context, src *HTTPSource, rawURL string, decodeValue manifest.ValueDecoder[V], opts ...manifest.Option) (manifest.Manifest[V], error) {
	data, err := src.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	return DecodeBytes(data, decodeValue, opts...)
}

// IsHTTPURL reports whether s uses the http or https scheme.
func IsHTTPURL(s string) bool {
	return strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "http://")
}
