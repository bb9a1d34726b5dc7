package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/disnaker-asahan/letter-manager/backend/internal/domain"
	"github.com/disnaker-asahan/letter-manager/backend/internal/repository"
)

func (h *Handler) GetMyInfo(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	h.writeJSON(w, r, http.StatusOK, myInfo)
}

func (h *Handler) UpdateMyProfile(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	var req struct {
		FullName   string `json:"fullName" validate:"required,max=100"`
		Email      string `json:"email" validate:"required,email,max=100"`
		Department string `json:"department" validate:"required,max=100"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email != myInfo.Email {
		exists, err := h.repository.CheckEmailIfExists(r.Context(), email)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}
		if exists {
			h.badRequest(w, r, errors.New("Email sudah terdaftar"))
			return
		}
	}

	myInfo.FullName = strings.TrimSpace(req.FullName)
	myInfo.Email = email
	myInfo.Department = strings.TrimSpace(req.Department)

	if err := h.repository.UpdateUser(r.Context(), myInfo); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.conflict(w, r)
		case repository.IsUniqueViolation(err, "email"):
			h.badRequest(w, r, errors.New("Email sudah terdaftar"))
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.writeJSON(w, r, http.StatusOK, map[string]any{
		"message": "Profil berhasil diperbarui",
		"user":    myInfo,
	})
}

func (h *Handler) UpdateMyPassword(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	var req struct {
		CurrentPassword string `json:"currentPassword" validate:"required"`
		NewPassword     string `json:"newPassword" validate:"required,min=6"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(myInfo.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		h.badRequest(w, r, errors.New("Password saat ini salah"))
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	myInfo.PasswordHash = string(hashedPassword)

	if err := h.repository.UpdateUser(r.Context(), myInfo); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.conflict(w, r)
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.messageResponse(w, r, http.StatusOK, "Password berhasil diubah")
}
