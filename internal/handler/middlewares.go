package handler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/disnaker-asahan/letter-manager/backend/internal/domain"
)

type ResponseWriter struct {
	http.ResponseWriter
	StatusCode int
}

func (rw *ResponseWriter) WriteHeader(statusCode int) {
	rw.StatusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (h *Handler) logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &ResponseWriter{ResponseWriter: w, StatusCode: http.StatusOK}
		next.ServeHTTP(rw, r)
		duration := time.Since(start)
		slog.Info("request handled", "status", rw.StatusCode, "ip", r.RemoteAddr, "method", r.Method, "path", r.URL.Path, "duration", duration)
	})
}

func (h *Handler) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				h.internalServerError(w, r, fmt.Errorf("panic: %v", err))
				fmt.Print(string(debug.Stack()))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokenString == "" {
			h.unauthorized(w, r, "Token akses diperlukan")
			return
		}

		claims := &AuthClaims{}
		_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			return []byte(h.config.JWT.Secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
		if err != nil {
			h.forbidden(w, r, "Token tidak valid atau telah kedaluwarsa")
			return
		}

		revoked, err := h.sessions.IsTokenRevoked(r.Context(), claims.ID)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}
		if revoked {
			h.forbidden(w, r, "Token tidak valid atau telah kedaluwarsa")
			return
		}

		ctx := context.WithValue(r.Context(), ClaimsCtxKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) myInfo(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := r.Context().Value(ClaimsCtxKey).(*AuthClaims)

		sub, err := strconv.ParseInt(claims.Subject, 10, 64)
		if err != nil {
			h.forbidden(w, r, "Token tidak valid atau telah kedaluwarsa")
			return
		}

		myInfo, err := h.repository.GetUserByID(r.Context(), sub)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				// the account was deleted after the token was issued
				h.forbidden(w, r, "Token tidak valid atau telah kedaluwarsa")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		ctx := context.WithValue(r.Context(), MyInfoCtx, myInfo)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequiredRole checks the stored role of the caller, not the one embedded in the token.
func (h *Handler) RequiredRole(roles []domain.Role) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
			if !slices.Contains(roles, myInfo.Role) {
				h.forbidden(w, r, "Anda tidak memiliki akses untuk tindakan ini")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func parseIDParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func (h *Handler) userInfo(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := parseIDParam(r)
		if !ok {
			h.errorResponse(w, r, http.StatusBadRequest, "ID pengguna tidak valid")
			return
		}

		user, err := h.repository.GetUserByID(r.Context(), userID)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.notFound(w, r, "Pengguna tidak ditemukan")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		ctx := context.WithValue(r.Context(), UserInfoCtx, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) letter(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		letterID, ok := parseIDParam(r)
		if !ok {
			h.errorResponse(w, r, http.StatusBadRequest, "ID surat tidak valid")
			return
		}

		l, err := h.repository.GetLetterByID(r.Context(), letterID)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.notFound(w, r, "Surat tidak ditemukan")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		ctx := context.WithValue(r.Context(), LetterCtx, l)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) archivedLetter(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		archivedID, ok := parseIDParam(r)
		if !ok {
			h.errorResponse(w, r, http.StatusBadRequest, "ID arsip tidak valid")
			return
		}

		a, err := h.repository.GetArchivedLetter(r.Context(), archivedID)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.notFound(w, r, "Arsip surat tidak ditemukan")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		ctx := context.WithValue(r.Context(), ArchivedLetterCtx, a)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
