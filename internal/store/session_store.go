package store

import (
	"context"

	"employee-portal/internal/domain"

	"gorm.io/gorm"
)

type SessionStore struct{ db *gorm.DB }

func (s *Store) Sessions() *SessionStore { return &SessionStore{s.DB} }

// Create inserts a session row. A token collision surfaces as ErrDuplicateKey.
func (ss *SessionStore) Create(ctx context.Context, s *domain.Session) error {
	return translate(ss.db.WithContext(ctx).Create(s).Error)
}

// Delete removes the session and reports whether a row was removed.
func (ss *SessionStore) Delete(ctx context.Context, token string) (bool, error) {
	tx := ss.db.WithContext(ctx).Where("token = ?", token).Delete(&domain.Session{})
	return tx.RowsAffected > 0, tx.Error
}

// GetUser resolves a session token to its user.
func (ss *SessionStore) GetUser(ctx context.Context, token string) (*domain.User, error) {
	var user domain.User
	err := ss.db.WithContext(ctx).
		Table("sessions").
		Select("users.*").
		Joins("JOIN users ON users.id = sessions.user_id").
		Where("sessions.token = ?", token).
		Take(&user).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (ss *SessionStore) DeleteAllForUser(ctx context.Context, userID domain.UserID) (int64, error) {
	tx := ss.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&domain.Session{})
	return tx.RowsAffected, tx.Error
}

func (ss *SessionStore) Count(ctx context.Context) (int64, error) {
	var n int64
	err := ss.db.WithContext(ctx).Model(&domain.Session{}).Count(&n).Error
	return n, err
}
