package handler

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"net/http"

	"sigs.k8s.io/yaml"

	"github.com/daap14/teamcap/internal/api/middleware"
	"github.com/daap14/teamcap/internal/api/response"
)

// OpenAPIHandler serves the embedded OpenAPI document as JSON.
type OpenAPIHandler struct {
	doc  []byte
	etag string
	err  error
}

// NewOpenAPIHandler converts the YAML document up front. A document that
// fails to convert is reported on every request instead of at startup.
func NewOpenAPIHandler(yamlDoc []byte) *OpenAPIHandler {
	doc, err := yaml.YAMLToJSON(yamlDoc)
	if err != nil {
		return &OpenAPIHandler{err: err}
	}
	sum := sha256.Sum256(doc)
	return &OpenAPIHandler{doc: doc, etag: `"` + hex.EncodeToString(sum[:8]) + `"`}
}

func (h *OpenAPIHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.err != nil {
		slog.Error("failed to convert OpenAPI document to JSON", "error", h.err)
		response.Internal(w, middleware.GetRequestID(r.Context()))
		return
	}

	w.Header().Set("ETag", h.etag)
	if r.Header.Get("If-None-Match") == h.etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(h.doc); err != nil {
		slog.Error("failed to write OpenAPI response", "error", err)
	}
}
