package handler

import (
	"context"
	"reflect"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	ind "github.com/go-playground/locales/id"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	id_translations "github.com/go-playground/validator/v10/translations/id"

	"github.com/disnaker-asahan/letter-manager/backend/internal/config"
	"github.com/disnaker-asahan/letter-manager/backend/internal/domain"
	"github.com/disnaker-asahan/letter-manager/backend/internal/repository"
)

// SessionStore holds revoked tokens and one-time passwords.
type SessionStore interface {
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) error
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)
	SaveOTP(ctx context.Context, purpose, subject, otp string, ttl time.Duration) error
	VerifyOTP(ctx context.Context, purpose, subject, otp string) error
	DeleteOTP(ctx context.Context, purpose, subject string) error
}

// MailPublisher queues outgoing mail for the mail worker.
type MailPublisher interface {
	Publish(ctx context.Context, msg domain.MailMessage) error
}

type Handler struct {
	validate   *validator.Validate
	config     *config.Config
	repository *repository.Repository
	translator ut.Translator
	mailer     MailPublisher
	sessions   SessionStore
	now        func() time.Time

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, mailer MailPublisher, sessions SessionStore) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	id := ind.New()
	uni := ut.New(id, id)
	trans, _ := uni.GetTranslator("id")
	if err := id_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}
	if err := registerRoleValidation(validate, trans); err != nil {
		return nil, err
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, err
	}

	return &Handler{
		validate:   validate,
		config:     cfg,
		repository: repo,
		translator: trans,
		mailer:     mailer,
		sessions:   sessions,
		now:        func() time.Time { return time.Now().In(loc) },

		Mux: chi.NewRouter(),
	}, nil
}

// registerRoleValidation adds the "role" tag. oneof cannot express role names because they contain spaces.
func registerRoleValidation(validate *validator.Validate, trans ut.Translator) error {
	if err := validate.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return domain.Role(fl.Field().String()).Valid()
	}); err != nil {
		return err
	}

	return validate.RegisterTranslation("role", trans, func(ut ut.Translator) error {
		return ut.Add("role", "{0} harus salah satu dari: Staff, Kepala Bidang, Sekretaris, Kepala Dinas, Administrator", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("role", fe.Field())
		return t
	})
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(middleware.RealIP)
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)
	h.Mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: strings.Split(h.config.Server.AllowedOrigin, ","),
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	h.Mux.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)
		r.Post("/login", h.Login)
		r.Post("/register", h.Register)
		r.Route("/reset-password", func(r chi.Router) {
			r.Post("/require", h.RequireResetPassword)
			r.Post("/confirm", h.ConfirmResetPassword)
		})

		// everything below needs a valid bearer token
		r.Group(func(r chi.Router) {
			r.Use(h.auth)
			r.Use(h.myInfo)

			r.Post("/logout", h.Logout)
			r.Get("/me", h.GetMyInfo)
			r.Put("/profile", h.UpdateMyProfile)
			r.Put("/change-password", h.UpdateMyPassword)

			r.Route("/letters", func(r chi.Router) {
				r.Get("/", h.GetAllLetters)
				r.Post("/", h.CreateLetter)
				r.Route("/{id}", func(r chi.Router) {
					r.Use(h.letter)
					r.Get("/", h.GetLetter)
					r.Put("/", h.UpdateLetter)
					r.Delete("/", h.DeleteLetter)
					r.Post("/archive", h.ArchiveLetter)
					r.Get("/dispositions", h.GetLetterDispositions)
					r.Post("/dispositions", h.CreateDisposition)
					r.With(h.RequiredRole(domain.ApproverRoles)).Post("/approve", h.ApproveLetter)
					r.With(h.RequiredRole(domain.ApproverRoles)).Post("/reject", h.RejectLetter)
				})
			})

			r.Route("/archived-letters", func(r chi.Router) {
				r.Get("/", h.GetAllArchivedLetters)
				r.Post("/", h.CreateArchivedLetter)
				r.Route("/{id}", func(r chi.Router) {
					r.Use(h.archivedLetter)
					r.Get("/", h.GetArchivedLetter)
					r.Post("/restore", h.RestoreArchivedLetter)
					r.Delete("/", h.DeleteArchivedLetter)
				})
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/", h.GetAllUserInfo)
				r.With(h.RequiredRole(domain.AdminRoles)).Post("/", h.CreateUser)
				r.Route("/{id}", func(r chi.Router) {
					r.Use(h.userInfo)
					r.Get("/", h.GetUserInfo)
					r.With(h.RequiredRole(domain.AdminRoles)).Put("/", h.UpdateUser)
					r.With(h.RequiredRole(domain.AdminRoles)).Delete("/", h.DeleteUser)
				})
			})

			r.Get("/statistics", h.GetStatistics)
			r.Get("/search", h.SearchLetters)
			r.Get("/reports", h.GetReport)
			r.Get("/reports/export", h.ExportReport)
		})
	})
}
