// Package middleware provides the HTTP middleware of the placement service.
package middleware

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

// uncompressedPaths are served as is. The metrics handler negotiates its
// own encoding.
var uncompressedPaths = []string{"/metrics", "/swagger/"}

// binaryRenderPattern matches render downloads; PDF bodies are already
// deflated.
const binaryRenderPattern = `^/api/layouts/[^/]+/render$`

// Compression gzips responses for clients that accept it.
func Compression() gin.HandlerFunc {
	return gzip.Gzip(gzip.DefaultCompression,
		gzip.WithExcludedPaths(uncompressedPaths),
		gzip.WithExcludedPathsRegexs([]string{binaryRenderPattern}),
	)
}
