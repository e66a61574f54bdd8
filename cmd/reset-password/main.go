package main

import (
	"context"
	"flag"
	"os"

	"go-supermarket-pos/internal/repository"
	"go-supermarket-pos/pkg/config"
	"go-supermarket-pos/pkg/database"
	"go-supermarket-pos/pkg/logger"

	"github.com/google/uuid"
)

func main() {
	// 1. Load Env
	cfg := config.Load()

	identifier := flag.String("user", cfg.Admin.Email, "username or email of the account to reset")
	newPassword := flag.String("password", cfg.Admin.Password, "new password")
	flag.Parse()

	if len(*newPassword) < 6 {
		logger.Error("Password must be at least 6 characters", nil)
		os.Exit(1)
	}

	// 2. Setup Database
	db, err := database.Connect(cfg.Database)
	if err != nil {
		logger.Error("Failed to connect to database", err)
		os.Exit(1)
	}
	defer database.Close(db)

	ctx := context.Background()
	userRepo := repository.NewUserRepo(db)

	// 3. Find user
	user, err := userRepo.FindByUsernameOrEmail(ctx, *identifier)
	if err != nil {
		logger.Error("User %s not found in database", err, *identifier)
		os.Exit(1)
	}

	// 4. Hash new password
	if err := user.SetPassword(*newPassword); err != nil {
		logger.Error("Failed to hash password", err)
		os.Exit(1)
	}

	// 5. Update, then end any open session
	if err := userRepo.UpdatePassword(ctx, user.ID, user.Password); err != nil {
		logger.Error("Failed to update password in DB", err)
		os.Exit(1)
	}
	if err := userRepo.UpdateTokenVersion(ctx, user.ID, uuid.NewString()); err != nil {
		logger.Error("Failed to reset session", err)
		os.Exit(1)
	}

	logger.Info("Password for %s has been reset", user.Username)
}
