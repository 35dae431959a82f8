// Command seed creates the bootstrap administrator and manager accounts.
// Accounts that already exist are left untouched, so it is safe to rerun.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/iliyamo/match-ticket-reservation/internal/config"
	"github.com/iliyamo/match-ticket-reservation/internal/database"
	"github.com/iliyamo/match-ticket-reservation/internal/model"
	"github.com/iliyamo/match-ticket-reservation/internal/repository"
	"github.com/iliyamo/match-ticket-reservation/internal/utils"
)

type seedAccount struct {
	email    string
	password string
	account  model.Account
}

func bootstrapAccounts(adminPass, managerPass string) []seedAccount {
	return []seedAccount{
		{
			email:    "admin@isp.com",
			password: adminPass,
			account: model.Account{
				Name:  "Administrateur",
				Role:  model.RoleAdmin,
				Agent: &model.AgentProfile{LastName: "ADMIN", FirstName: "Super", Department: "Administration"},
			},
		},
		{
			email:    "manager@isp.com",
			password: managerPass,
			account: model.Account{
				Name:  "Paul FIDELE",
				Role:  model.RoleManager,
				Agent: &model.AgentProfile{LastName: "FIDELE", FirstName: "Paul", Department: "Gestion des billets"},
			},
		},
	}
}

func main() {
	adminPass := pflag.String("admin-password", "admin123", "password for admin@isp.com")
	managerPass := pflag.String("manager-password", "manager123", "password for manager@isp.com")
	migrate := pflag.Bool("migrate", true, "apply migrations before seeding")
	pflag.Parse()

	cfg := config.Load()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := run(ctx, cfg, logger, *migrate, bootstrapAccounts(*adminPass, *managerPass)); err != nil {
		logger.Error("seed failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger, migrate bool, seeds []seedAccount) error {
	db, err := database.Open(ctx, cfg.DB, logger)
	if err != nil {
		return err
	}
	defer db.Close()
	if migrate {
		if err := database.Migrate(db); err != nil {
			return err
		}
	}

	repo := repository.NewAccountRepo(db)
	for _, s := range seeds {
		a := s.account
		a.Email = repository.NormalizeEmail(s.email)
		if a.PasswordHash, err = utils.HashPassword(s.password, cfg.BcryptCost); err != nil {
			return fmt.Errorf("hash password for %s: %w", s.email, err)
		}
		created, err := repo.CreateIfAbsent(ctx, &a)
		if err != nil {
			return fmt.Errorf("seed %s: %w", s.email, err)
		}
		if created {
			logger.Info("account created", slog.String("email", a.Email), slog.String("role", string(a.Role)))
		} else {
			logger.Info("account exists, skipped", slog.String("email", a.Email))
		}
	}
	return nil
}
