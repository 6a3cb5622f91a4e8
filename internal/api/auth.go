package api

import (
	"net/http"
	"time"

	"medsales/m/domain"
	"medsales/m/internal/session"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	ident, ok := session.FromContext(r.Context())
	resp := map[string]any{"app": "medsales", "authenticated": ok}
	if ok {
		resp["user"] = ident
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *Handler) loginPage(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"flash": popFlash(w, r)})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeInput(r, &req); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	if req.Username == "" || req.Password == "" {
		respondJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":  "validation failed",
			"fields": map[string]string{"username": "is required", "password": "is required"},
		})
		return
	}

	user, err := h.svc.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	token, err := h.sessions.Issue(r.Context(), session.Identity{UserID: user.ID, Username: user.Username, IsAdmin: user.IsAdmin})
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.sessions.TTL() / time.Second),
	})
	h.logger.WithField("username", user.Username).Info("user logged in")
	respondJSON(w, http.StatusOK, loginResponse{Token: token, User: user})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Revoke(r.Context(), sessionToken(r)); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "", Path: "/", MaxAge: -1, Expires: time.Unix(0, 0)})
	setFlash(w, "You have been logged out.")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	ident, _ := session.FromContext(r.Context())
	dash, err := h.svc.Dashboard(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"user": ident, "dashboard": dash})
}
