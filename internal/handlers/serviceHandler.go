package handlers

import (
	"net/http"

	"github.com/vgorule/GeminiQA/internal/adapter"
	"github.com/vgorule/GeminiQA/internal/adapter/utils"
	"github.com/vgorule/GeminiQA/internal/api"
)

// HealthHandler reports per-dependency availability. The service stays "ok"
// only when every dependency is reachable; otherwise it is degraded but
// still serving.
func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	services := h.service.Availability(r.Context())

	status := "ok"
	for _, up := range services {
		if !up {
			status = "degraded"
			break
		}
	}

	writeJsonResponse(w, http.StatusOK, api.HealthResponse{
		Status:   status,
		Services: services,
	})
}

// DeleteInteractionHandler removes one stored interaction by id.
func (h *Handler) DeleteInteractionHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", r.RemoteAddr)
		return
	}

	idString := utils.GetChiURLParam(r, "id")
	if idString == "" {
		writeJsonResponse(w, http.StatusBadRequest, api.DeleteResponse{
			Error: &api.APIError{Code: http.StatusBadRequest, Message: "id is required"},
		})
		return
	}

	if err := h.service.DeleteInteraction(r.Context(), idString); err != nil {
		logRH.Error("Delete interaction failed", "id", idString, "error", err)
		code, apiErr := adapter.ToAPIError(err)
		writeJsonResponse(w, code, api.DeleteResponse{Id: idString, Error: apiErr})
		return
	}

	writeJsonResponse(w, http.StatusOK, api.DeleteResponse{Id: idString, Deleted: true})
}
