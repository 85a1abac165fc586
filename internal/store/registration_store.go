package store

import (
	"context"
	"time"

	"employee-portal/internal/domain"

	"gorm.io/gorm"
)

type RegistrationStore struct{ db *gorm.DB }

func (s *Store) Registrations() *RegistrationStore { return &RegistrationStore{db: s.DB} }

func (r *RegistrationStore) GetByEmail(ctx context.Context, email string) (*domain.RegistrationToken, error) {
	var tok domain.RegistrationToken
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = LOWER(?)", domain.NormalizeEmail(email)).
		First(&tok).Error
	if err != nil {
		return nil, translate(err)
	}
	return &tok, nil
}

func (r *RegistrationStore) FindByEmailAndToken(ctx context.Context, email, token string) (*domain.RegistrationToken, error) {
	var tok domain.RegistrationToken
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = LOWER(?) AND token = ?", domain.NormalizeEmail(email), token).
		First(&tok).Error
	if err != nil {
		return nil, translate(err)
	}
	return &tok, nil
}

// FindByToken looks a code up without an email. Unused rows win over used
// ones, then the latest expiry.
func (r *RegistrationStore) FindByToken(ctx context.Context, token string) (*domain.RegistrationToken, error) {
	var tok domain.RegistrationToken
	err := r.db.WithContext(ctx).
		Where("token = ?", token).
		Order("used ASC").
		Order("expires_at DESC").
		First(&tok).Error
	if err != nil {
		return nil, translate(err)
	}
	return &tok, nil
}

// UnusedTokenExists reports whether a pending row already carries the code.
func (r *RegistrationStore) UnusedTokenExists(ctx context.Context, token string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.RegistrationToken{}).
		Where("token = ? AND used = ?", token, false).
		Count(&n).Error
	return n > 0, err
}

// Create inserts tok. Inside a transaction the insert runs under a
// savepoint, so a duplicate email leaves the enclosing Postgres transaction
// usable and the caller can re-read the row that won.
func (r *RegistrationStore) Create(ctx context.Context, tok *domain.RegistrationToken) error {
	tok.Email = domain.NormalizeEmail(tok.Email)
	if tok.CreatedAt.IsZero() {
		tok.CreatedAt = time.Now().UTC()
	}
	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(tok).Error
	}))
}

// Replace overwrites the pending code of an existing row and resets it to
// unused.
func (r *RegistrationStore) Replace(ctx context.Context, id int64, tok *domain.RegistrationToken) error {
	return translate(r.db.WithContext(ctx).Model(&domain.RegistrationToken{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"name":       tok.Name,
			"department": tok.Department,
			"token":      tok.Token,
			"expires_at": tok.ExpiresAt,
			"used":       false,
			"used_at":    nil,
		}).Error)
}

// MarkUsed flips used to true only if it is still false. It returns false
// when another completion got there first.
func (r *RegistrationStore) MarkUsed(ctx context.Context, id int64, at time.Time) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&domain.RegistrationToken{}).
		Where("id = ? AND used = ?", id, false).
		Updates(map[string]any{"used": true, "used_at": at})
	return tx.RowsAffected == 1, tx.Error
}

func (r *RegistrationStore) CountPending(ctx context.Context, now time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.RegistrationToken{}).
		Where("used = ? AND expires_at > ?", false, now).
		Count(&n).Error
	return n, err
}
