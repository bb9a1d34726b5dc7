package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/disnaker-asahan/letter-manager/backend/internal/domain"
	"github.com/disnaker-asahan/letter-manager/backend/internal/repository"
)

// enqueueMail publishes msg and only logs a failure; the caller's operation has already succeeded.
func (h *Handler) enqueueMail(r *http.Request, msg domain.MailMessage) {
	if err := h.mailer.Publish(r.Context(), msg); err != nil {
		slog.Warn("cannot enqueue mail", "type", msg.Type, "to", msg.To, "error", err)
	}
}

func (h *Handler) GetAllUserInfo(w http.ResponseWriter, r *http.Request) {
	users, err := h.repository.GetAllUsers(r.Context())
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, users)
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username   string `json:"username" validate:"required,min=3,max=50"`
		Password   string `json:"password" validate:"required,min=6"`
		FullName   string `json:"fullName" validate:"required,max=100"`
		Email      string `json:"email" validate:"required,email,max=100"`
		Department string `json:"department" validate:"required,max=100"`
		Role       string `json:"role" validate:"required,role"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	user, ok := h.createUser(w, r, req.Username, req.Password, req.FullName, req.Email, req.Department, domain.Role(req.Role))
	if !ok {
		return
	}

	h.enqueueMail(r, domain.MailMessage{
		Type: domain.MailTypeCreateUser,
		To:   user.Email,
		Data: domain.CreateUserMailData{
			FullName: user.FullName,
			Username: user.Username,
			Role:     user.Role,
		},
	})

	h.writeJSON(w, r, http.StatusCreated, map[string]any{
		"message": "Pengguna berhasil dibuat",
		"user":    user,
	})
}

func (h *Handler) GetUserInfo(w http.ResponseWriter, r *http.Request) {
	user := r.Context().Value(UserInfoCtx).(*domain.User)
	h.writeJSON(w, r, http.StatusOK, user)
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FullName   *string `json:"fullName" validate:"omitempty,min=1,max=100"`
		Email      *string `json:"email" validate:"omitempty,email,max=100"`
		Department *string `json:"department" validate:"omitempty,min=1,max=100"`
		Role       *string `json:"role" validate:"omitempty,role"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	user := r.Context().Value(UserInfoCtx).(*domain.User)

	// the bootstrap account must keep its administrator role
	if req.Role != nil && user.Username == h.config.InitialAdmin.Username && domain.Role(*req.Role) != domain.RoleAdministrator {
		h.forbidden(w, r, "Peran administrator awal tidak dapat diubah")
		return
	}

	if req.FullName != nil {
		user.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Department != nil {
		user.Department = strings.TrimSpace(*req.Department)
	}
	if req.Role != nil {
		user.Role = domain.Role(*req.Role)
	}

	if err := h.repository.UpdateUser(r.Context(), user); err != nil {
		switch {
		case repository.IsUniqueViolation(err, "email"):
			h.badRequest(w, r, errors.New("Email sudah terdaftar"))
		case errors.Is(err, sql.ErrNoRows):
			h.conflict(w, r)
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.writeJSON(w, r, http.StatusOK, map[string]any{
		"message": "Pengguna berhasil diperbarui",
		"user":    user,
	})
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	user := r.Context().Value(UserInfoCtx).(*domain.User)

	if user.ID == myInfo.ID {
		h.badRequest(w, r, errors.New("Tidak dapat menghapus akun sendiri"))
		return
	}
	if user.Username == h.config.InitialAdmin.Username {
		h.forbidden(w, r, "Administrator awal tidak dapat dihapus")
		return
	}

	if err := h.repository.DeleteUser(r.Context(), user.ID); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.notFound(w, r, "Pengguna tidak ditemukan")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.messageResponse(w, r, http.StatusOK, "Pengguna berhasil dihapus")
}
