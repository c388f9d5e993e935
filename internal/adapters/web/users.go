package web

import (
	"net/http"

	"dairyfarm/internal/core"
)

// register handles POST /api/auth/register. Replies with a signed token so the
// client is logged in immediately after signup.
func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email     string `json:"email"`
		Password  string `json:"password"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.svc.Users.Register(r.Context(), core.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		serviceError(w, r, err)
		return
	}

	token, err := h.issueToken(user)
	if err != nil {
		writeError(w, r, "token generation failed", "INTERNAL_ERROR", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, map[string]any{
		"message": "User registered successfully",
		"token":   token,
		"user":    user,
	})
}

// login handles POST /api/auth/login.
func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.svc.Users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		serviceError(w, r, err)
		return
	}

	token, err := h.issueToken(user)
	if err != nil {
		writeError(w, r, "token generation failed", "INTERNAL_ERROR", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{
		"message": "Login successful",
		"token":   token,
		"user":    user,
	})
}

// profile handles GET /api/auth/profile.
func (h *Handler) profile(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())

	user, err := h.svc.Users.GetByID(r.Context(), claims.UserID)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"user": user})
}

// forgotPassword handles POST /api/auth/forgot-password. The message is the
// same whether or not the email exists; the token is included in the response
// because there is no mail delivery in this deployment.
func (h *Handler) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	token, err := h.svc.Users.ForgotPassword(r.Context(), req.Email)
	if err != nil {
		serviceError(w, r, err)
		return
	}

	resp := map[string]any{
		"message": "If an account with that email exists, a password reset link has been sent",
	}
	if token != "" {
		resp["resetToken"] = token
	}
	writeJSON(w, resp)
}

// resetPassword handles POST /api/auth/reset-password.
func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token       string `json:"token"`
		NewPassword string `json:"newPassword"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.svc.Users.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"message": "Password has been reset successfully"})
}

// ── Admin user management ─────────────────────────────────────────────────────

// listUsers handles GET /api/admin/users.
func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.Users.ListUsers(r.Context())
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, users)
}

// assignAdmin handles POST /api/admin/assign-admin. Body: { userId }.
func (h *Handler) assignAdmin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID int `json:"userId"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.UserID <= 0 {
		writeError(w, r, "userId is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	if err := h.svc.Users.PromoteToAdmin(r.Context(), req.UserID); err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"message": "User promoted to admin successfully"})
}

// deleteUser handles DELETE /api/admin/users/{id}. Admins cannot delete their
// own account.
func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	claims := authFromContext(r.Context())
	if claims.UserID == id {
		writeError(w, r, "Cannot delete your own account", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	user, err := h.svc.Users.DeleteUser(r.Context(), id)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{
		"message": "User deleted successfully",
		"user":    user,
	})
}
