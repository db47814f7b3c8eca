package political

import (
	"encoding/json"
	"net/http"

	"github.com/aura-collective/aura-backend/internal/common/utils"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) SubmitAssessment(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	var dto SubmitAssessmentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := utils.ValidateStruct(dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	assessment, err := h.service.SubmitAssessment(r.Context(), userID, &dto)
	if err != nil {
		if err == ErrInvalidOrientation {
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save assessment")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, assessment)
}

func (h *Handler) GetGateStatus(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	canAccess, err := h.service.CanAccessMatching(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get gate status")
		return
	}

	message, err := h.service.GateStatusMessage(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get gate status")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"can_access_matching": canAccess,
		"message":             message,
	})
}
