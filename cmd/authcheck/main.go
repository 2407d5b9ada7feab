package main

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/yeasin2002/marketauth/domain"
	"github.com/yeasin2002/marketauth/internal/app"
	"github.com/yeasin2002/marketauth/internal/config"
	"github.com/yeasin2002/marketauth/internal/infrastructure/repositories"
)

// Stack verification against live backing services: configuration, schema,
// session store and the full token lifecycle. The probe account it creates
// is removed again on exit.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	fmt.Println("marketauth stack check")
	fmt.Println("======================")
	fmt.Printf("session backend: %s\n", cfg.SessionBackend)

	container, err := app.NewContainer(cfg)
	if err != nil {
		log.Fatalf("container: %v", err)
	}
	defer container.Close()
	fmt.Println("✓ database reachable, schema migrated")
	if container.RedisClient != nil {
		fmt.Println("✓ redis reachable")
	}

	var accounts int64
	if err := container.DB.Model(&repositories.DBAccount{}).Count(&accounts).Error; err != nil {
		log.Fatalf("failed to query accounts table: %v", err)
	}
	fmt.Printf("✓ accounts table accessible (current count: %d)\n", accounts)

	// Stateless token round trip
	identity := domain.Identity{Subject: "stack-check", Email: "check@example.com", Role: domain.RoleCustomer}
	token, err := container.TokenSvc.IssueAccessToken(identity)
	if err != nil {
		log.Fatalf("failed to issue access token: %v", err)
	}
	verified, err := container.TokenSvc.VerifyAccessToken(token)
	if err != nil {
		log.Fatalf("access token round trip failed: %v", err)
	}
	if verified.Subject != identity.Subject || verified.Role != identity.Role {
		log.Fatalf("access token round trip returned a different identity: %+v", verified)
	}
	fmt.Println("✓ access token round trip")

	// Full lifecycle against the configured stores
	ctx := context.Background()
	email := fmt.Sprintf("stack-check-%s@example.com", uuid.NewString())

	account, err := container.AuthSvc.Register(ctx, email, "stack-check-password", "customer")
	if err != nil {
		log.Fatalf("register probe failed: %v", err)
	}
	defer func() {
		if err := container.DB.Unscoped().Delete(&repositories.DBAccount{}, "id = ?", account.ID).Error; err != nil {
			log.Printf("cleanup: failed to delete probe account: %v", err)
		}
	}()
	fmt.Println("✓ register")

	result, err := container.AuthSvc.Login(ctx, email, "stack-check-password")
	if err != nil {
		log.Fatalf("login probe failed: %v", err)
	}
	fmt.Println("✓ login")

	pair, err := container.AuthSvc.Refresh(ctx, result.RefreshToken)
	if err != nil {
		log.Fatalf("refresh probe failed: %v", err)
	}
	fmt.Println("✓ refresh rotation")

	if _, err := container.AuthSvc.Refresh(ctx, result.RefreshToken); err == nil {
		log.Fatal("replayed refresh token unexpectedly accepted")
	}
	fmt.Println("✓ replayed refresh token rejected")

	if err := container.AuthSvc.Logout(ctx, pair.RefreshToken); err != nil {
		log.Fatalf("logout probe failed: %v", err)
	}
	fmt.Println("✓ logout")

	fmt.Println()
	fmt.Println("stack check completed successfully")
}
