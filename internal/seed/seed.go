package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	appModels "github.com/mkaya/vaxtrack/internal/app/models"
	appRepos "github.com/mkaya/vaxtrack/internal/app/repositories"
	"github.com/mkaya/vaxtrack/internal/config"
	"github.com/mkaya/vaxtrack/internal/pkg/apperrors"
	"github.com/mkaya/vaxtrack/internal/pkg/auth"
	"github.com/rs/zerolog"
)

// CreateDefaultData creates the default admin account if no user exists yet.
// The credentials come from ADMIN_USERNAME / ADMIN_PASSWORD and fall back to
// admin / admin123 for local development.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	userRepo := appRepos.NewUserRepository(dbPool)

	username := config.GetEnv("ADMIN_USERNAME", "admin")
	password := config.GetEnv("ADMIN_PASSWORD", "admin123")

	exists, err := userRepo.UsernameExists(ctx, username)
	if err != nil {
		lgr.Error().Err(err).Msg("Error checking for default admin user")
		return err
	}
	if exists {
		lgr.Debug().Str("username", username).Msg("Default admin user already present")
		return nil
	}

	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		lgr.Error().Err(err).Msg("Error hashing default admin password")
		return err
	}

	admin := &appModels.User{
		Username: username,
		Password: hashedPassword,
		Role:     appModels.RoleAdmin,
	}

	if err := userRepo.Create(ctx, admin); err != nil {
		// A concurrent instance may have created the user first
		if errors.Is(err, apperrors.ErrUsernameAlreadyExists) {
			return nil
		}
		lgr.Error().Err(err).Msg("Error creating default admin user")
		return err
	}

	lgr.Info().Str("username", username).Msg("Default admin user created")
	return nil
}
