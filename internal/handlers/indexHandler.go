package handlers

import (
	_ "embed"
	"net/http"
)

//go:embed static/index.html
var indexPage []byte

// IndexHandler serves the built-in chat page.
func (h *Handler) IndexHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(indexPage); err != nil {
		logRH.Error("Error writing index page", "error", err)
	}
}
