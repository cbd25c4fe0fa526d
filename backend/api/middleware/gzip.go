package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// GzipDecodeMiddleware decompresses gzipped request bodies
func GzipDecodeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Content-Encoding") == "gzip" {
			gzipReader, err := gzip.NewReader(c.Request.Body)
			if err != nil {
				c.AbortWithStatus(http.StatusBadRequest)
				return
			}
			defer gzipReader.Close()
			c.Request.Body = io.NopCloser(gzipReader)
		}
		c.Next()
	}
}

// gzipWriter decides whether to compress when the first header or byte is
// written, so download handlers that stream raw blobs can opt out via
// Content-Type.
type gzipWriter struct {
	gin.ResponseWriter
	gzWriter    *gzip.Writer
	wroteHeader bool
	compress    bool
}

func shouldCompress(contentType string) bool {
	// Blob downloads go out as octet-stream and are usually compressed
	// already.
	return !strings.Contains(contentType, "application/octet-stream")
}

func (w *gzipWriter) WriteHeader(statusCode int) {
	if w.wroteHeader {
		return
	}
	w.wroteHeader = true
	w.compress = shouldCompress(w.Header().Get("Content-Type"))

	if w.compress {
		w.Header().Set("Content-Encoding", "gzip")
		w.Header().Set("Vary", "Accept-Encoding")
		// The original Content-Length is invalid for the compressed
		// stream; removing it switches the transport to chunked encoding.
		w.Header().Del("Content-Length")
		w.gzWriter = gzip.NewWriter(w.ResponseWriter)
	}
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *gzipWriter) Write(data []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	if !w.compress {
		return w.ResponseWriter.Write(data)
	}
	return w.gzWriter.Write(data)
}

func (w *gzipWriter) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}

func (w *gzipWriter) Close() error {
	if w.gzWriter != nil {
		return w.gzWriter.Close()
	}
	return nil
}

// GzipEncodeMiddleware compresses response bodies for clients that accept it
func GzipEncodeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !strings.Contains(c.Request.Header.Get("Accept-Encoding"), "gzip") {
			c.Next()
			return
		}

		gw := &gzipWriter{ResponseWriter: c.Writer}
		c.Writer = gw
		defer func() {
			gw.Close()
			c.Writer = gw.ResponseWriter
		}()

		c.Next()
	}
}
