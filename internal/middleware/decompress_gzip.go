// Package middleware contains HTTP middlewares of the squarehouse API.
package middleware

import (
	"compress/gzip"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/KretovDmitry/squarehouse/internal/errs"
	"github.com/KretovDmitry/squarehouse/internal/logger"
)

// compressReader implements ReadCloser interface
// and replaces Read method with a decompression one.
type compressReader struct {
	r  io.ReadCloser
	zr *gzip.Reader
}

func newCompressReader(r io.ReadCloser) (*compressReader, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("new gzip reader: %w", err)
	}

	return &compressReader{
		r:  r,
		zr: zr,
	}, nil
}

func (c *compressReader) Read(p []byte) (n int, err error) {
	return c.zr.Read(p)
}

// Close closes both the gzip reader and the original body.
func (c *compressReader) Close() error {
	if err := c.r.Close(); err != nil {
		return fmt.Errorf("close body: %w", err)
	}
	return c.zr.Close()
}

// Unzip decompresses request bodies sent with gzip content encoding.
// A body which is not valid gzip is rejected with 400 Bad Request.
func Unzip(log logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		f := func(w http.ResponseWriter, r *http.Request) {
			if !strings.Contains(r.Header.Get("Content-Encoding"), "gzip") {
				next.ServeHTTP(w, r)
				return
			}

			cr, err := newCompressReader(r.Body)
			if err != nil {
				log.With(r.Context()).Debugf("decompress request: %v", err)
				w.Header().Set("Content-Type", "text/plain; charset=utf-8")
				w.WriteHeader(http.StatusBadRequest)
				_, _ = fmt.Fprintf(w, "%s: body is not gzip encoded", errs.ErrInvalidRequest)
				return
			}
			r.Body = cr
			r.Header.Del("Content-Encoding")
			defer func() {
				if err = cr.Close(); err != nil {
					log.With(r.Context()).Errorf("close compress reader: %v", err)
				}
			}()

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(f)
	}
}
