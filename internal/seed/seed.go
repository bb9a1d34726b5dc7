package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/disnaker-asahan/letter-manager/backend/internal/config"
	"github.com/disnaker-asahan/letter-manager/backend/internal/domain"
	"github.com/disnaker-asahan/letter-manager/backend/internal/repository"
	"github.com/disnaker-asahan/letter-manager/backend/internal/utils"
)

type demoUser struct {
	Username   string
	FullName   string
	Role       domain.Role
	Department string
}

var demoUsers = []demoUser{
	{"prabowo", "Prabowo Subianto", domain.RoleKepalaDinas, "Kepala Dinas"},
	{"sekretaris", "Siti Nurhaliza", domain.RoleSekretaris, "Sekretariat"},
	{"kabid1", "Ahmad Dahlan", domain.RoleKepalaBidang, "Bidang Penempatan dan Perluasan Kerja"},
	{"staff1", "Rina Susanti", domain.RoleStaff, "Bidang Hubungan Industrial"},
}

// EnsureInitialAdmin creates the configured administrator account unless it already exists.
func EnsureInitialAdmin(ctx context.Context, r *repository.Repository, cfg *config.Config) error {
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(cfg.InitialAdmin.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &domain.User{
		Username:     cfg.InitialAdmin.Username,
		PasswordHash: string(passwordHash),
		FullName:     cfg.InitialAdmin.FullName,
		Email:        cfg.InitialAdmin.Email,
		Department:   cfg.InitialAdmin.Department,
		Role:         domain.RoleAdministrator,
	}

	if err := r.CreateUser(ctx, admin); err != nil {
		if repository.IsUniqueViolation(err, "username") || repository.IsUniqueViolation(err, "email") {
			return nil
		}
		return err
	}

	slog.Info("initial admin created", "username", admin.Username)
	return nil
}

// SeedDemo inserts the demo accounts and one sample letter. Accounts that already exist are skipped.
func SeedDemo(ctx context.Context, r *repository.Repository, cfg *config.Config) error {
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(cfg.Seed.User.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	var head *domain.User
	for _, du := range demoUsers {
		user := &domain.User{
			Username:     du.Username,
			PasswordHash: string(passwordHash),
			FullName:     du.FullName,
			Email:        du.Username + "@" + cfg.Email.UserDomain,
			Department:   du.Department,
			Role:         du.Role,
		}

		if err := r.CreateUser(ctx, user); err != nil {
			if repository.IsUniqueViolation(err, "username") || repository.IsUniqueViolation(err, "email") {
				slog.Info("demo user already exists", "username", du.Username)
				continue
			}
			return fmt.Errorf("create %s: %w", du.Username, err)
		}
		slog.Info("demo user created", "username", user.Username, "role", user.Role)

		if user.Role == domain.RoleKepalaDinas {
			head = user
		}
	}

	// the sample letter is only added on the first run
	if head == nil {
		return nil
	}

	sample := &domain.Letter{
		Type:         domain.LetterIncoming,
		Subject:      "Undangan Rapat Koordinasi",
		Sender:       "Pemerintah Kabupaten Asahan",
		Recipient:    "Dinas Tenaga Kerja Kabupaten Asahan",
		LetterNumber: utils.GenerateRandomLetterNumber(time.Now().Year()),
		Priority:     domain.PriorityTinggi,
		Status:       domain.StatusDiterima,
		Content:      "Dengan hormat, kami mengundang Bapak/Ibu untuk menghadiri rapat koordinasi ketenagakerjaan.",
		CreatedBy:    &head.ID,
	}
	if err := r.CreateLetter(ctx, sample); err != nil {
		return err
	}
	slog.Info("sample letter created", "id", sample.ID)

	return nil
}

// SeedLetters inserts n random letters owned by createdBy and returns how many were stored.
func SeedLetters(ctx context.Context, r *repository.Repository, n int, createdBy int64) (int, error) {
	cnt := 0
	for i := 0; i < n; i++ {
		l := utils.GenerateRandomLetter(createdBy)
		if err := r.CreateLetter(ctx, l); err != nil {
			return cnt, err
		}
		cnt++
	}

	return cnt, nil
}

// SeedUsers inserts n random staff accounts. Name collisions are skipped, not retried.
func SeedUsers(ctx context.Context, r *repository.Repository, cfg *config.Config, n int) (int, error) {
	cnt := 0
	for i := 0; i < n; i++ {
		user, err := utils.GenerateRandomUser(cfg.Seed.User.Password, cfg.Email.UserDomain)
		if err != nil {
			return cnt, err
		}

		if err := r.CreateUser(ctx, user); err != nil {
			if repository.IsUniqueViolation(err, "username") || repository.IsUniqueViolation(err, "email") {
				slog.Warn("random user collided, skipped", "username", user.Username)
				continue
			}
			return cnt, err
		}
		cnt++
	}

	return cnt, nil
}
