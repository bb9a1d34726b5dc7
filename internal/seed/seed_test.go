package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/disnaker-asahan/letter-manager/backend/internal/config"
	"github.com/disnaker-asahan/letter-manager/backend/internal/database"
	"github.com/disnaker-asahan/letter-manager/backend/internal/domain"
	"github.com/disnaker-asahan/letter-manager/backend/internal/repository"
)

func setup(t *testing.T) (*repository.Repository, *config.Config) {
	t.Helper()

	cfg := &config.Config{}
	cfg.Database.Driver = "sqlite"
	cfg.Database.DSN = ":memory:"
	cfg.Database.ConnectTimeout = 5
	cfg.Database.QueryTimeout = 5
	cfg.Database.TransactionTimeout = 5
	cfg.InitialAdmin.Username = "admin"
	cfg.InitialAdmin.Password = "rahasia123"
	cfg.InitialAdmin.FullName = "Administrator"
	cfg.InitialAdmin.Email = "admin@example.go.id"
	cfg.InitialAdmin.Department = "Sekretariat"
	cfg.Seed.User.Password = "password123"
	cfg.Email.UserDomain = "example.go.id"

	db, dialect, err := database.Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = database.Migrate(context.Background(), db, dialect)
	require.NoError(t, err)

	return repository.NewRepository(cfg, db, dialect), cfg
}

func TestEnsureInitialAdminIsIdempotent(t *testing.T) {
	repo, cfg := setup(t)
	ctx := context.Background()

	require.NoError(t, EnsureInitialAdmin(ctx, repo, cfg))
	require.NoError(t, EnsureInitialAdmin(ctx, repo, cfg))

	users, err := repo.GetAllUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, domain.RoleAdministrator, users[0].Role)
}

func TestSeedDemo(t *testing.T) {
	repo, cfg := setup(t)
	ctx := context.Background()

	require.NoError(t, SeedDemo(ctx, repo, cfg))
	// a second run neither fails nor duplicates anything
	require.NoError(t, SeedDemo(ctx, repo, cfg))

	users, err := repo.GetAllUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, len(demoUsers))

	head, err := repo.GetUserByUsernameOrEmail(ctx, "prabowo@example.go.id")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleKepalaDinas, head.Role)

	letters, err := repo.ListLetters(ctx, domain.LetterFilter{})
	require.NoError(t, err)
	require.Len(t, letters, 1)
	assert.Equal(t, "Undangan Rapat Koordinasi", letters[0].Subject)
	assert.Equal(t, head.ID, *letters[0].CreatedBy)
}

func TestSeedLettersAndUsers(t *testing.T) {
	repo, cfg := setup(t)
	ctx := context.Background()

	require.NoError(t, EnsureInitialAdmin(ctx, repo, cfg))
	admin, err := repo.GetUserByUsernameOrEmail(ctx, "admin")
	require.NoError(t, err)

	n, err := SeedLetters(ctx, repo, 7, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	letters, err := repo.ListLetters(ctx, domain.LetterFilter{})
	require.NoError(t, err)
	assert.Len(t, letters, 7)

	n, err = SeedUsers(ctx, repo, cfg, 3)
	require.NoError(t, err)
	assert.LessOrEqual(t, n, 3)

	users, err := repo.GetAllUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, n+1)
}
