package intake

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/aura-collective/aura-backend/internal/common/utils"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) GetProgress(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	progress, err := h.service.Progress(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get intake progress")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, progress)
}

func (h *Handler) CompleteStep(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)
	step := Step(mux.Vars(r)["step"])

	progress, err := h.service.CompleteStep(r.Context(), userID, step)
	if err != nil {
		switch err {
		case ErrUnknownStep:
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		case ErrStepOutOfOrder:
			utils.RespondWithError(w, http.StatusConflict, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update intake progress")
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, progress)
}
