package store

import (
	"context"
	"time"

	"employee-portal/internal/domain"

	"gorm.io/gorm"
)

type UserStore struct{ db *gorm.DB }

func (s *Store) Users() *UserStore { return &UserStore{db: s.DB} }

func (u *UserStore) Create(ctx context.Context, usr *domain.User) error {
	if usr.CreatedAt.IsZero() {
		usr.CreatedAt = time.Now().UTC()
	}
	if usr.Tags == "" {
		usr.Tags = "[]"
	}
	if usr.Status == "" {
		usr.Status = domain.DefaultStatus
	}
	usr.Email = domain.NormalizeEmail(usr.Email)
	return translate(u.db.WithContext(ctx).Create(usr).Error)
}

func (u *UserStore) GetByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	var user domain.User
	if err := u.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (u *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := u.db.WithContext(ctx).
		Where("LOWER(email) = LOWER(?)", domain.NormalizeEmail(email)).
		First(&user).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (u *UserStore) List(ctx context.Context) ([]*domain.User, error) {
	var users []*domain.User
	if err := u.db.WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Update applies column -> value changes to one user.
func (u *UserStore) Update(ctx context.Context, id domain.UserID, changes map[string]any) error {
	if len(changes) == 0 {
		return nil
	}
	return translate(u.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", id).
		Updates(changes).Error)
}

func (u *UserStore) SetStatus(ctx context.Context, id domain.UserID, status string) error {
	return u.Update(ctx, id, map[string]any{"status": status})
}

func (u *UserStore) SetPassword(ctx context.Context, id domain.UserID, secret string) error {
	return u.Update(ctx, id, map[string]any{"password": secret})
}

func (u *UserStore) TouchLastLogin(ctx context.Context, id domain.UserID, at time.Time) error {
	return u.Update(ctx, id, map[string]any{"last_login_at": at})
}

// Delete removes the user; returns false when no row matched.
func (u *UserStore) Delete(ctx context.Context, id domain.UserID) (bool, error) {
	tx := u.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.User{})
	return tx.RowsAffected > 0, tx.Error
}

func (u *UserStore) Count(ctx context.Context) (int64, error) {
	var n int64
	err := u.db.WithContext(ctx).Model(&domain.User{}).Count(&n).Error
	return n, err
}

func (u *UserStore) CountAdmins(ctx context.Context) (int64, error) {
	var n int64
	err := u.db.WithContext(ctx).Model(&domain.User{}).Where("is_admin = ?", true).Count(&n).Error
	return n, err
}

// LastLogin returns the most recent login across all users, nil if none.
func (u *UserStore) LastLogin(ctx context.Context) (*time.Time, error) {
	var user domain.User
	err := u.db.WithContext(ctx).
		Where("last_login_at IS NOT NULL").
		Order("last_login_at DESC").
		Limit(1).
		Find(&user).Error
	if err != nil {
		return nil, err
	}
	return user.LastLoginAt, nil
}
