package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yeasin2002/marketauth/domain"
)

var _ domain.AccountRepository = (*AccountRepositoryImpl)(nil)

// AccountRepositoryImpl implements domain.AccountRepository using GORM
type AccountRepositoryImpl struct {
	db *gorm.DB
}

// DBAccount represents the database model for Account (with GORM tags).
// RefreshTokenIDs is stored as a JSON array in a single column so the
// database session store can swap it with one compare-and-set update.
type DBAccount struct {
	ID                 string `gorm:"primaryKey;size:36"`
	Email              string `gorm:"uniqueIndex;size:255"`
	PasswordHash       string `gorm:"column:password"`
	Role               string `gorm:"index;size:64"`
	Suspended          bool   `gorm:"index"`
	RefreshTokenIDs    string `gorm:"column:refresh_token_ids"`
	ResetCode          *string
	ResetCodeExpiresAt *time.Time
	CreatedAt          time.Time `gorm:"index"`
	UpdatedAt          time.Time
	DeletedAt          gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for GORM
func (DBAccount) TableName() string {
	return "accounts"
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *gorm.DB) *AccountRepositoryImpl {
	return &AccountRepositoryImpl{db: db}
}

// Create implements domain.AccountRepository. A missing ID is filled with a
// fresh UUID before the insert.
func (r *AccountRepositoryImpl) Create(ctx context.Context, account *domain.Account) error {
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	dbAccount := r.domainToDB(account)
	if err := r.db.WithContext(ctx).Create(dbAccount).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrEmailTaken
		}
		return err
	}
	account.CreatedAt = dbAccount.CreatedAt
	account.UpdatedAt = dbAccount.UpdatedAt
	return nil
}

// FindByEmail implements domain.AccountRepository
func (r *AccountRepositoryImpl) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	var dbAccount DBAccount
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&dbAccount).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbAccount), nil
}

// FindByID implements domain.AccountRepository
func (r *AccountRepositoryImpl) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	var dbAccount DBAccount
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&dbAccount).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbAccount), nil
}

// Update implements domain.AccountRepository. Only profile fields are
// written: the refresh-token set belongs to the session store and the
// reset-code pair to SetResetCode/ClearResetCode, so a stale in-memory
// account can never clobber either.
func (r *AccountRepositoryImpl) Update(ctx context.Context, account *domain.Account) error {
	tx := r.db.WithContext(ctx).Model(&DBAccount{}).Where("id = ?", account.ID).Updates(map[string]interface{}{
		"email":     account.Email,
		"password":  account.PasswordHash,
		"role":      account.Role.String(),
		"suspended": account.Suspended,
	})
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrDuplicatedKey) {
			return domain.ErrEmailTaken
		}
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

// Delete implements domain.AccountRepository. Rows are soft-deleted so
// audit history keeps resolving account IDs.
func (r *AccountRepositoryImpl) Delete(ctx context.Context, id string) error {
	tx := r.db.WithContext(ctx).Where("id = ?", id).Delete(&DBAccount{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

// SetResetCode implements domain.AccountRepository. Code and expiry are
// written in one statement so they can never diverge.
func (r *AccountRepositoryImpl) SetResetCode(ctx context.Context, id, code string, expiresAt time.Time) error {
	tx := r.db.WithContext(ctx).Model(&DBAccount{}).Where("id = ?", id).Updates(map[string]interface{}{
		"reset_code":            code,
		"reset_code_expires_at": expiresAt,
	})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

// ClearResetCode implements domain.AccountRepository
func (r *AccountRepositoryImpl) ClearResetCode(ctx context.Context, id string) error {
	tx := r.db.WithContext(ctx).Model(&DBAccount{}).Where("id = ?", id).Updates(map[string]interface{}{
		"reset_code":            nil,
		"reset_code_expires_at": nil,
	})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

// UpdatePassword implements domain.AccountRepository
func (r *AccountRepositoryImpl) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	tx := r.db.WithContext(ctx).Model(&DBAccount{}).Where("id = ?", id).Update("password", passwordHash)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

// encodeTokenIDs serializes a jti list for storage. The encoding is
// deterministic, which the session store's compare-and-set relies on.
func encodeTokenIDs(ids []string) string {
	if len(ids) == 0 {
		return "[]"
	}
	data, _ := json.Marshal(ids)
	return string(data)
}

// decodeTokenIDs is the inverse of encodeTokenIDs. Unreadable values decode
// as an empty list.
func decodeTokenIDs(raw string) []string {
	if raw == "" || raw == "[]" {
		return nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil
	}
	return ids
}

// domainToDB converts domain account to database account
func (r *AccountRepositoryImpl) domainToDB(account *domain.Account) *DBAccount {
	return &DBAccount{
		ID:                 account.ID,
		Email:              account.Email,
		PasswordHash:       account.PasswordHash,
		Role:               account.Role.String(),
		Suspended:          account.Suspended,
		RefreshTokenIDs:    encodeTokenIDs(account.RefreshTokenIDs),
		ResetCode:          account.ResetCode,
		ResetCodeExpiresAt: account.ResetCodeExpiresAt,
		CreatedAt:          account.CreatedAt,
		UpdatedAt:          account.UpdatedAt,
	}
}

// dbToDomain converts database account to domain account
func (r *AccountRepositoryImpl) dbToDomain(dbAccount *DBAccount) *domain.Account {
	return &domain.Account{
		ID:                 dbAccount.ID,
		Email:              dbAccount.Email,
		PasswordHash:       dbAccount.PasswordHash,
		Role:               domain.Role(dbAccount.Role),
		Suspended:          dbAccount.Suspended,
		RefreshTokenIDs:    decodeTokenIDs(dbAccount.RefreshTokenIDs),
		ResetCode:          dbAccount.ResetCode,
		ResetCodeExpiresAt: dbAccount.ResetCodeExpiresAt,
		CreatedAt:          dbAccount.CreatedAt,
		UpdatedAt:          dbAccount.UpdatedAt,
	}
}
