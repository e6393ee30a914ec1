package restapi

import (
	"net/http"

	"github.com/klauspost/compress/gzhttp"
)

// Responses smaller than this are sent uncompressed. A single line entry
// usually is; the full board usually is not.
const compressionMinSize = 1024

// NewCompressionMiddleware gzips responses of at least minSize bytes for
// clients that accept it.
func NewCompressionMiddleware(minSize int) func(http.Handler) http.Handler {
	wrapper, err := gzhttp.NewWrapper(
		gzhttp.MinSize(minSize),
		gzhttp.CompressionLevel(6),
	)
	return func(next http.Handler) http.Handler {
		if err != nil {
			return gzhttp.GzipHandler(next)
		}
		return wrapper(next)
	}
}

// CompressionMiddleware applies gzip compression with the default threshold.
func CompressionMiddleware(next http.Handler) http.Handler {
	return NewCompressionMiddleware(compressionMinSize)(next)
}
