package location

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

type setAreasDTO struct {
	Areas []*Area `json:"areas" validate:"required,min=1,max=5,dive"`
}

func (h *Handler) GetAreas(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	areas, err := h.service.Areas(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get areas")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, areas)
}

func (h *Handler) SetAreas(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	var dto setAreasDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := utils.ValidateStruct(dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.SetAreas(r.Context(), userID, dto.Areas); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save areas")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dto.Areas)
}

func (h *Handler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	prefs, err := h.service.Preferences(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get preferences")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, prefs)
}

func (h *Handler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	var prefs Preferences
	if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	prefs.UserID = userID

	if err := h.service.SavePreferences(r.Context(), &prefs); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save preferences")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, prefs)
}
