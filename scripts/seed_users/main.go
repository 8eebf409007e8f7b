// Command seed_users creates reviewer and admin accounts from a JSON
// file. The API has no account-creation endpoint, so this is the way
// accounts get into a fresh database.
//
//	go run ./scripts/seed_users -accounts scripts/seed_users/accounts.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/esn-apps/scholarship-review-api/internal/models"
	"github.com/esn-apps/scholarship-review-api/internal/repository"
	"github.com/esn-apps/scholarship-review-api/pkg/config"
	"github.com/esn-apps/scholarship-review-api/pkg/database"
)

type account struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

func main() {
	var (
		accountsPath string
		timeout      time.Duration
	)

	flag.StringVar(&accountsPath, "accounts", filepath.Join("scripts", "seed_users", "accounts.json"), "Path to JSON accounts file")
	flag.DurationVar(&timeout, "timeout", 30*time.Second, "Overall timeout")
	flag.Parse()

	accounts, err := loadAccounts(accountsPath)
	if err != nil {
		log.Fatalf("failed to load accounts: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	repo := repository.NewUserRepository(db)

	var created, skipped int
	for _, acc := range accounts {
		role := models.UserRole(acc.Role)
		if !validRole(role) {
			log.Fatalf("account %s has unknown role %q", acc.Email, acc.Role)
		}

		if existing, err := repo.FindByEmail(ctx, acc.Email); err == nil && existing != nil {
			fmt.Printf("skip   %-30s already exists\n", acc.Email)
			skipped++
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(acc.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("failed to hash password for %s: %v", acc.Email, err)
		}

		user := &models.User{
			Email:        acc.Email,
			PasswordHash: string(hash),
			FullName:     acc.FullName,
			Role:         role,
			Active:       true,
		}
		if err := repo.Create(ctx, user); err != nil {
			log.Fatalf("failed to create %s: %v", acc.Email, err)
		}
		fmt.Printf("create %-30s %s\n", acc.Email, role)
		created++
	}

	fmt.Printf("\ndone: %d created, %d skipped\n", created, skipped)
}

func loadAccounts(path string) ([]account, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var accounts []account
	if err := json.Unmarshal(raw, &accounts); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(accounts) == 0 {
		return nil, fmt.Errorf("%s contains no accounts", path)
	}
	return accounts, nil
}

func validRole(role models.UserRole) bool {
	switch role {
	case models.RoleAdmin, models.RoleReviewerPresident, models.RoleReviewerEO, models.RoleReviewerCF:
		return true
	}
	return false
}
