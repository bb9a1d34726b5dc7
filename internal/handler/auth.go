package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/disnaker-asahan/letter-manager/backend/internal/domain"
	"github.com/disnaker-asahan/letter-manager/backend/internal/repository"
	"github.com/disnaker-asahan/letter-manager/backend/internal/session"
	"github.com/disnaker-asahan/letter-manager/backend/internal/utils"
)

const otpPurposeResetPassword = "reset_password"

type AuthClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type LoginResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    *domain.User `json:"user"`
}

func (h *Handler) issueToken(user *domain.User) (string, error) {
	now := time.Now()
	expiration := now.Add(time.Duration(h.config.JWT.Expiration) * time.Second)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, AuthClaims{
		Role: string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(expiration),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Subject:   strconv.FormatInt(user.ID, 10),
		},
	})

	return token.SignedString([]byte(h.config.JWT.Secret))
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	// the username field also accepts an email address, stored lowercased
	identifier := strings.TrimSpace(req.Username)
	if strings.Contains(identifier, "@") {
		identifier = strings.ToLower(identifier)
	}

	user, err := h.repository.GetUserByUsernameOrEmail(r.Context(), identifier)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.unauthorized(w, r, "Username atau password salah")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		switch {
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			h.unauthorized(w, r, "Username atau password salah")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	token, err := h.issueToken(user)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, LoginResponse{
		Message: "Login berhasil",
		Token:   token,
		User:    user,
	})
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	if !h.config.RegistrationEnabled {
		h.forbidden(w, r, "Pendaftaran akun sedang dinonaktifkan")
		return
	}

	var req struct {
		Username   string `json:"username" validate:"required,min=3,max=50"`
		Password   string `json:"password" validate:"required,min=6"`
		FullName   string `json:"fullName" validate:"required,max=100"`
		Email      string `json:"email" validate:"required,email,max=100"`
		Department string `json:"department" validate:"required,max=100"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	user, ok := h.createUser(w, r, req.Username, req.Password, req.FullName, req.Email, req.Department, domain.RoleStaff)
	if !ok {
		return
	}

	h.writeJSON(w, r, http.StatusCreated, map[string]any{
		"message": "Pendaftaran berhasil",
		"user":    user,
	})
}

// createUser hashes the password and stores the account. On failure it has already written the response.
func (h *Handler) createUser(w http.ResponseWriter, r *http.Request, username, password, fullName, email, department string, role domain.Role) (*domain.User, bool) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		h.internalServerError(w, r, err)
		return nil, false
	}

	user := &domain.User{
		Username:     strings.TrimSpace(username),
		PasswordHash: string(hashedPassword),
		FullName:     strings.TrimSpace(fullName),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		Department:   strings.TrimSpace(department),
		Role:         role,
	}

	if err := h.repository.CreateUser(r.Context(), user); err != nil {
		switch {
		case repository.IsUniqueViolation(err, "username"):
			h.badRequest(w, r, errors.New("Username sudah digunakan"))
		case repository.IsUniqueViolation(err, "email"):
			h.badRequest(w, r, errors.New("Email sudah terdaftar"))
		default:
			h.internalServerError(w, r, err)
		}
		return nil, false
	}

	return user, true
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	claims := r.Context().Value(ClaimsCtxKey).(*AuthClaims)

	ttl := time.Until(claims.ExpiresAt.Time)
	if err := h.sessions.RevokeToken(r.Context(), claims.ID, ttl); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.messageResponse(w, r, http.StatusOK, "Logout berhasil")
}

func (h *Handler) RequireResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email" validate:"required,email"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	const sent = "Kode verifikasi telah dikirim ke email Anda"
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := h.repository.GetUserByEmail(r.Context(), email)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			// same answer as for a known address so the endpoint cannot be used to probe accounts
			h.messageResponse(w, r, http.StatusOK, sent)
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	otp, err := utils.GenerateRandomOTP()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	ttl := time.Duration(h.config.OTP.Expiration) * time.Second
	if err := h.sessions.SaveOTP(r.Context(), otpPurposeResetPassword, user.Email, otp, ttl); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := h.mailer.Publish(r.Context(), domain.MailMessage{
		Type: domain.MailTypeResetPassword,
		To:   user.Email,
		Data: domain.ResetPasswordMailData{
			FullName:   user.FullName,
			OTP:        otp,
			Expiration: h.config.OTP.Expiration / 60, // minutes in the mail body
		},
	}); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.messageResponse(w, r, http.StatusOK, sent)
}

func (h *Handler) ConfirmResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email" validate:"required,email"`
		OTP      string `json:"otp" validate:"required,len=6,numeric"`
		Password string `json:"password" validate:"required,min=6"`
	}
	if !h.decode(w, r, &req) {
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	if err := h.sessions.VerifyOTP(r.Context(), otpPurposeResetPassword, email, req.OTP); err != nil {
		switch {
		case errors.Is(err, session.ErrInvalidOTP):
			h.badRequest(w, r, errors.New("Kode verifikasi salah atau telah kedaluwarsa"))
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	user, err := h.repository.GetUserByEmail(r.Context(), email)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.badRequest(w, r, errors.New("Kode verifikasi salah atau telah kedaluwarsa"))
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	user.PasswordHash = string(hashedPassword)

	if err := h.repository.UpdateUser(r.Context(), user); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.conflict(w, r)
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if err := h.sessions.DeleteOTP(r.Context(), otpPurposeResetPassword, email); err != nil {
		// the password is already changed; a leftover OTP expires on its own
		slog.Warn("cannot delete used otp", "email", email, "error", err)
	}

	h.messageResponse(w, r, http.StatusOK, "Password berhasil diatur ulang")
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.repository.Ping(r.Context()); err != nil {
		slog.Error("health check failed", "error", err)
		h.errorResponse(w, r, http.StatusServiceUnavailable, "Database tidak dapat dihubungi")
		return
	}

	h.writeJSON(w, r, http.StatusOK, map[string]any{
		"status": "OK",
		"time":   h.now(),
	})
}
