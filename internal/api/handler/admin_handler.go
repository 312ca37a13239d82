package handler

import (
	"encoding/json"
	"net/http"

	"airwavectf/internal/api/middleware"
	"airwavectf/internal/app/service"
	"airwavectf/internal/common"

	"github.com/go-chi/chi/v5"
)

type AdminHandler struct {
	adminService     *service.AdminService
	challengeService *service.ChallengeService
}

func NewAdminHandler(as *service.AdminService, cs *service.ChallengeService) *AdminHandler {
	return &AdminHandler{adminService: as, challengeService: cs}
}

func (h *AdminHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)
	r.Use(middleware.AdminOnly)

	r.Get("/users", h.listUsers)
	r.Put("/users/{userID}", h.updateUser)

	r.Get("/challenges", h.listChallenges)
	r.Post("/challenges", h.createChallenge)
	r.Put("/challenges/{challengeID}", h.updateChallenge)
	r.Delete("/challenges/{challengeID}", h.deleteChallenge)

	r.Get("/stats", h.stats)
}

func (h *AdminHandler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.adminService.ListUsers(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"users": users})
}

func (h *AdminHandler) updateUser(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	user, err := h.adminService.UpdateUser(r.Context(), chi.URLParam(r, "userID"), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, user)
}

func (h *AdminHandler) listChallenges(w http.ResponseWriter, r *http.Request) {
	challenges, err := h.challengeService.ListAll(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"challenges": challenges})
}

func (h *AdminHandler) createChallenge(w http.ResponseWriter, r *http.Request) {
	var req service.CreateChallengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	challenge, err := h.challengeService.Create(r.Context(), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, challenge)
}

func (h *AdminHandler) updateChallenge(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateChallengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	challenge, err := h.challengeService.Update(r.Context(), chi.URLParam(r, "challengeID"), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, challenge)
}

func (h *AdminHandler) deleteChallenge(w http.ResponseWriter, r *http.Request) {
	if err := h.challengeService.Delete(r.Context(), chi.URLParam(r, "challengeID")); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Challenge deleted successfully"})
}

func (h *AdminHandler) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.adminService.Stats(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, stats)
}
