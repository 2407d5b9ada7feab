package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yeasin2002/marketauth/domain"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	// Auto-migrate the schema
	if err := db.AutoMigrate(&DBAccount{}); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	return db
}

func TestAccountRepositoryImpl_Create(t *testing.T) {
	tests := []struct {
		name          string
		setupData     func(repo *AccountRepositoryImpl)
		account       *domain.Account
		expectedError error
	}{
		{
			name:      "successful creation",
			setupData: func(repo *AccountRepositoryImpl) {},
			account: &domain.Account{
				Email:        "new@example.com",
				PasswordHash: "hashed_password",
				Role:         domain.RoleCustomer,
			},
			expectedError: nil,
		},
		{
			name: "duplicate email",
			setupData: func(repo *AccountRepositoryImpl) {
				repo.Create(context.Background(), &domain.Account{
					Email:        "taken@example.com",
					PasswordHash: "hashed_password",
					Role:         domain.RoleCustomer,
				})
			},
			account: &domain.Account{
				Email:        "taken@example.com",
				PasswordHash: "other_password",
				Role:         domain.RoleContractor,
			},
			expectedError: domain.ErrEmailTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewAccountRepository(setupTestDB(t))
			tt.setupData(repo)

			err := repo.Create(context.Background(), tt.account)

			if tt.expectedError != nil {
				if !errors.Is(err, tt.expectedError) {
					t.Errorf("expected error %v, got %v", tt.expectedError, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.account.ID == "" {
				t.Error("expected Create to assign an ID")
			}
		})
	}
}

func TestAccountRepositoryImpl_FindByEmail(t *testing.T) {
	tests := []struct {
		name          string
		setupData     func(repo *AccountRepositoryImpl) string
		email         string
		expectedError error
	}{
		{
			name: "successful find by email",
			setupData: func(repo *AccountRepositoryImpl) string {
				account := &domain.Account{
					Email:        "findme@example.com",
					PasswordHash: "hashed_password",
					Role:         domain.RoleContractor,
				}
				repo.Create(context.Background(), account)
				return account.ID
			},
			email:         "findme@example.com",
			expectedError: nil,
		},
		{
			name:          "email not found",
			setupData:     func(repo *AccountRepositoryImpl) string { return "" },
			email:         "ghost@example.com",
			expectedError: domain.ErrAccountNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewAccountRepository(setupTestDB(t))
			wantID := tt.setupData(repo)

			account, err := repo.FindByEmail(context.Background(), tt.email)

			if tt.expectedError != nil {
				if !errors.Is(err, tt.expectedError) {
					t.Errorf("expected error %v, got %v", tt.expectedError, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if account.ID != wantID {
				t.Errorf("expected account %s, got %s", wantID, account.ID)
			}
			if account.Email != tt.email {
				t.Errorf("expected email %s, got %s", tt.email, account.Email)
			}
			if account.Role != domain.RoleContractor {
				t.Errorf("expected role contractor, got %s", account.Role)
			}
		})
	}
}

func TestAccountRepositoryImpl_FindByID(t *testing.T) {
	repo := NewAccountRepository(setupTestDB(t))
	ctx := context.Background()

	account := &domain.Account{
		Email:           "byid@example.com",
		PasswordHash:    "hashed_password",
		Role:            domain.RoleAdmin,
		RefreshTokenIDs: []string{"jti-1", "jti-2"},
	}
	if err := repo.Create(ctx, account); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	found, err := repo.FindByID(ctx, account.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if found.Email != account.Email {
		t.Errorf("expected email %s, got %s", account.Email, found.Email)
	}
	if len(found.RefreshTokenIDs) != 2 || found.RefreshTokenIDs[0] != "jti-1" {
		t.Errorf("refresh token ids did not round-trip, got %v", found.RefreshTokenIDs)
	}

	if _, err := repo.FindByID(ctx, "no-such-id"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Errorf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestAccountRepositoryImpl_Update(t *testing.T) {
	repo := NewAccountRepository(setupTestDB(t))
	ctx := context.Background()

	account := &domain.Account{
		Email:        "update@example.com",
		PasswordHash: "hashed_password",
		Role:         domain.RoleCustomer,
	}
	if err := repo.Create(ctx, account); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	store := NewDBSessionStore(repo.db, 10)
	if err := store.Record(ctx, account.ID, "jti-live"); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	// The in-memory account predates the session and carries no jti set;
	// updating it must leave the stored set alone.
	account.Suspended = true
	if err := repo.Update(ctx, account); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	found, err := repo.FindByID(ctx, account.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if !found.Suspended {
		t.Error("expected the account to be suspended after update")
	}
	if len(found.RefreshTokenIDs) != 1 || found.RefreshTokenIDs[0] != "jti-live" {
		t.Errorf("update clobbered the refresh token set: %v", found.RefreshTokenIDs)
	}

	if err := repo.Update(ctx, &domain.Account{ID: "no-such-id", Role: domain.RoleCustomer}); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Errorf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestAccountRepositoryImpl_Delete(t *testing.T) {
	repo := NewAccountRepository(setupTestDB(t))
	ctx := context.Background()

	account := &domain.Account{
		Email:        "delete@example.com",
		PasswordHash: "hashed_password",
		Role:         domain.RoleCustomer,
	}
	if err := repo.Create(ctx, account); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := repo.Delete(ctx, account.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := repo.FindByID(ctx, account.ID); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Errorf("expected deleted account to be gone, got %v", err)
	}
	if err := repo.Delete(ctx, account.ID); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Errorf("expected ErrAccountNotFound on double delete, got %v", err)
	}
}

func TestAccountRepositoryImpl_ResetCodeLifecycle(t *testing.T) {
	repo := NewAccountRepository(setupTestDB(t))
	ctx := context.Background()

	account := &domain.Account{
		Email:        "reset@example.com",
		PasswordHash: "hashed_password",
		Role:         domain.RoleCustomer,
	}
	if err := repo.Create(ctx, account); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	expiry := time.Now().Add(15 * time.Minute).UTC().Truncate(time.Second)
	if err := repo.SetResetCode(ctx, account.ID, "0427", expiry); err != nil {
		t.Fatalf("SetResetCode failed: %v", err)
	}

	found, err := repo.FindByID(ctx, account.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if found.ResetCode == nil || *found.ResetCode != "0427" {
		t.Fatalf("expected stored reset code 0427, got %v", found.ResetCode)
	}
	if found.ResetCodeExpiresAt == nil {
		t.Fatal("expected a stored reset code expiry")
	}

	if err := repo.ClearResetCode(ctx, account.ID); err != nil {
		t.Fatalf("ClearResetCode failed: %v", err)
	}
	found, err = repo.FindByID(ctx, account.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if found.ResetCode != nil || found.ResetCodeExpiresAt != nil {
		t.Error("expected code and expiry to be cleared together")
	}

	// Both operations report a missing account.
	if err := repo.SetResetCode(ctx, "no-such-id", "1111", expiry); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Errorf("expected ErrAccountNotFound, got %v", err)
	}
	if err := repo.ClearResetCode(ctx, "no-such-id"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Errorf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestAccountRepositoryImpl_UpdatePassword(t *testing.T) {
	repo := NewAccountRepository(setupTestDB(t))
	ctx := context.Background()

	account := &domain.Account{
		Email:        "pw@example.com",
		PasswordHash: "old_hash",
		Role:         domain.RoleCustomer,
	}
	if err := repo.Create(ctx, account); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := repo.UpdatePassword(ctx, account.ID, "new_hash"); err != nil {
		t.Fatalf("UpdatePassword failed: %v", err)
	}

	found, err := repo.FindByID(ctx, account.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if found.PasswordHash != "new_hash" {
		t.Errorf("expected new_hash, got %s", found.PasswordHash)
	}

	if err := repo.UpdatePassword(ctx, "no-such-id", "x"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Errorf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestTokenIDEncoding(t *testing.T) {
	tests := []struct {
		name string
		ids  []string
	}{
		{name: "empty list", ids: nil},
		{name: "single id", ids: []string{"a"}},
		{name: "preserves order", ids: []string{"c", "a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded := decodeTokenIDs(encodeTokenIDs(tt.ids))
			if len(decoded) != len(tt.ids) {
				t.Fatalf("expected %d ids, got %d", len(tt.ids), len(decoded))
			}
			for i := range tt.ids {
				if decoded[i] != tt.ids[i] {
					t.Errorf("position %d: expected %s, got %s", i, tt.ids[i], decoded[i])
				}
			}
		})
	}

	if decodeTokenIDs("not json") != nil {
		t.Error("unreadable values should decode as an empty list")
	}
	if encodeTokenIDs(nil) != "[]" {
		t.Error("empty list should encode as [] for stable compare-and-set")
	}
}
