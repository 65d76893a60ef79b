package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
)

//go:embed templates/index.html
var templateFS embed.FS

type IndexHandler struct {
	page []byte
}

// NewIndexHandler renders the landing page once; it has no per-request data.
func NewIndexHandler(logger *slog.Logger) (*IndexHandler, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, struct{ Title string }{Title: "GameChat"}); err != nil {
		return nil, err
	}
	if logger != nil {
		logger.Debug("landing page rendered", "bytes", buf.Len())
	}
	return &IndexHandler{page: buf.Bytes()}, nil
}

func (h *IndexHandler) Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(h.page)
}
