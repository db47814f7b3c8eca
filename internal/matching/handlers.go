package matching

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

func (h *Handler) GetDailyMatches(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	response, err := h.service.DailyMatches(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get daily matches")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, response)
}

func (h *Handler) GetCompatibility(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)
	targetUUID := mux.Vars(r)["userUuid"]

	response, err := h.service.CompatibilityByUUID(r.Context(), userID, targetUUID)
	if err != nil {
		switch err {
		case ErrInvalidUUID:
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		case ErrUserNotFound:
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		case ErrSelfMatch:
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to calculate compatibility")
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, response)
}

func (h *Handler) InvalidateScores(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	deleted, err := h.service.InvalidateUser(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to invalidate scores")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]int64{"invalidated": deleted})
}
