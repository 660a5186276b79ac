package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	appModels "github.com/tanmay/courtside/internal/app/models"
	appRepos "github.com/tanmay/courtside/internal/app/repositories"
	"github.com/tanmay/courtside/internal/pkg/apperrors"
	"golang.org/x/crypto/bcrypt"
)

// CreateDefaultData creates the default center and admin account if they
// don't exist. Errors are collected rather than aborting startup.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	centerRepo := appRepos.NewCenterRepository(dbPool)
	userRepo := appRepos.NewUserRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default data (center, admin account)...")
	var finalErr error

	// --- Default Center --- //
	defaultCenter := &appModels.Center{
		Name:     "Courtside Indiranagar",
		Code:     "BLR-IND",
		Address:  "100 Feet Road, Indiranagar",
		City:     "Bengaluru",
		UPIVPA:   "courtside.ind@okaxis",
		IsActive: true,
	}
	err := centerRepo.Create(ctx, defaultCenter)
	if err != nil && !errors.Is(err, apperrors.ErrCenterAlreadyExists) {
		lgr.Error().Err(err).Msg("Error creating default center")
		finalErr = errors.Join(finalErr, err)
	}

	// --- Default Admin User --- //
	exists, err := userRepo.ExistsByEmail(ctx, "admin@courtside.in")
	if err != nil {
		lgr.Error().Err(err).Msg("Error checking if admin user exists")
		finalErr = errors.Join(finalErr, err)
	} else if !exists {
		lgr.Info().Msg("Creating default admin user...")

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte("Admin123!"), bcrypt.DefaultCost)
		if err != nil {
			lgr.Error().Err(err).Msg("Error hashing admin password")
			finalErr = errors.Join(finalErr, err)
		} else {
			admin := &appModels.User{
				Email:     "admin@courtside.in",
				Password:  string(hashedPassword),
				FirstName: "Courtside",
				LastName:  "Admin",
				Phone:     "+919800000000",
				RoleType:  appModels.RoleAdmin,
				IsActive:  true,
			}
			if err := userRepo.Create(ctx, admin); err != nil && !errors.Is(err, apperrors.ErrEmailAlreadyExists) {
				lgr.Error().Err(err).Msg("Error creating default admin user")
				finalErr = errors.Join(finalErr, err)
			} else if err == nil {
				lgr.Info().Str("email", admin.Email).Msg("Default admin user created. Change the password after first login.")
			}
		}
	}

	return finalErr
}
