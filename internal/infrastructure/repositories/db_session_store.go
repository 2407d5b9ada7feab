package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yeasin2002/marketauth/domain"
)

var _ domain.SessionStore = (*DBSessionStoreImpl)(nil)

const (
	defaultMaxSessions = 10
	casRetryLimit      = 5
)

// DBSessionStoreImpl implements domain.SessionStore on top of the accounts
// table. The jti list lives in the refresh_token_ids column and every write
// is a compare-and-set against the serialization that was read, so two
// writers can never both apply conflicting swaps.
type DBSessionStoreImpl struct {
	db          *gorm.DB
	maxSessions int
}

// NewDBSessionStore creates a session store backed by the accounts table.
func NewDBSessionStore(db *gorm.DB, maxPerAccount int) *DBSessionStoreImpl {
	if maxPerAccount <= 0 {
		maxPerAccount = defaultMaxSessions
	}
	return &DBSessionStoreImpl{db: db, maxSessions: maxPerAccount}
}

// load reads the stored serialization and its decoded form. The raw string
// is what subsequent compare-and-set updates match against.
func (s *DBSessionStoreImpl) load(ctx context.Context, accountID string) (string, []string, error) {
	var dbAccount DBAccount
	err := s.db.WithContext(ctx).
		Select("id", "refresh_token_ids").
		Where("id = ?", accountID).
		First(&dbAccount).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, domain.ErrAccountNotFound
		}
		return "", nil, err
	}
	return dbAccount.RefreshTokenIDs, decodeTokenIDs(dbAccount.RefreshTokenIDs), nil
}

// swap writes the new jti list if the stored value still matches observed.
func (s *DBSessionStoreImpl) swap(ctx context.Context, accountID, observed string, ids []string) (bool, error) {
	tx := s.db.WithContext(ctx).Model(&DBAccount{}).
		Where("id = ? AND refresh_token_ids = ?", accountID, observed).
		Update("refresh_token_ids", encodeTokenIDs(ids))
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected == 1, nil
}

// Record implements domain.SessionStore. The list is kept oldest first, so
// exceeding the cap drops entries from the front.
func (s *DBSessionStoreImpl) Record(ctx context.Context, accountID, jti string) error {
	for attempt := 0; attempt < casRetryLimit; attempt++ {
		observed, ids, err := s.load(ctx, accountID)
		if err != nil {
			return err
		}

		ids = append(ids, jti)
		if over := len(ids) - s.maxSessions; over > 0 {
			ids = ids[over:]
		}

		ok, err := s.swap(ctx, accountID, observed, ids)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
	return fmt.Errorf("session record for account %s: gave up after %d contended writes", accountID, casRetryLimit)
}

// IsActive implements domain.SessionStore. A missing account has no active
// sessions, matching the keyed-store backends.
func (s *DBSessionStoreImpl) IsActive(ctx context.Context, accountID, jti string) (bool, error) {
	_, ids, err := s.load(ctx, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return false, nil
		}
		return false, err
	}
	for _, id := range ids {
		if id == jti {
			return true, nil
		}
	}
	return false, nil
}

// Rotate implements domain.SessionStore. When two rotations race on the same
// oldJTI the compare-and-set lets exactly one through; the loser re-reads,
// no longer finds oldJTI and fails like any other stale token.
func (s *DBSessionStoreImpl) Rotate(ctx context.Context, accountID, oldJTI, newJTI string) error {
	for attempt := 0; attempt < casRetryLimit; attempt++ {
		observed, ids, err := s.load(ctx, accountID)
		if err != nil {
			if errors.Is(err, domain.ErrAccountNotFound) {
				return domain.ErrInvalidToken
			}
			return err
		}

		idx := -1
		for i, id := range ids {
			if id == oldJTI {
				idx = i
				break
			}
		}
		if idx < 0 {
			return domain.ErrInvalidToken
		}

		next := make([]string, 0, len(ids))
		next = append(next, ids[:idx]...)
		next = append(next, ids[idx+1:]...)
		next = append(next, newJTI)

		ok, err := s.swap(ctx, accountID, observed, next)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
	return fmt.Errorf("session rotate for account %s: gave up after %d contended writes", accountID, casRetryLimit)
}

// Revoke implements domain.SessionStore. Revoking a jti that is not current
// reports ErrInvalidToken so callers treat replayed logouts like replayed
// refreshes.
func (s *DBSessionStoreImpl) Revoke(ctx context.Context, accountID, jti string) error {
	for attempt := 0; attempt < casRetryLimit; attempt++ {
		observed, ids, err := s.load(ctx, accountID)
		if err != nil {
			if errors.Is(err, domain.ErrAccountNotFound) {
				return domain.ErrInvalidToken
			}
			return err
		}

		idx := -1
		for i, id := range ids {
			if id == jti {
				idx = i
				break
			}
		}
		if idx < 0 {
			return domain.ErrInvalidToken
		}

		next := make([]string, 0, len(ids)-1)
		next = append(next, ids[:idx]...)
		next = append(next, ids[idx+1:]...)

		ok, err := s.swap(ctx, accountID, observed, next)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
	return fmt.Errorf("session revoke for account %s: gave up after %d contended writes", accountID, casRetryLimit)
}

// RevokeAll implements domain.SessionStore
func (s *DBSessionStoreImpl) RevokeAll(ctx context.Context, accountID string) error {
	return s.db.WithContext(ctx).Model(&DBAccount{}).
		Where("id = ?", accountID).
		Update("refresh_token_ids", "[]").Error
}
