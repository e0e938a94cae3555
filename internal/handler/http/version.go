package http

import (
	"net/http"

	"github.com/MKhiriev/go-study-keeper/internal/utils"
)

func (h *Handler) getServerVersion(w http.ResponseWriter, r *http.Request) {
	serverVersion := h.services.AppInfoService.GetAppVersion(r.Context())

	utils.WriteJSON(w, serverVersion, http.StatusOK)
}
