package impl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"employee-portal/internal/domain"
	"employee-portal/internal/dto"
	"employee-portal/internal/service"
	"employee-portal/internal/store"
)

type seedUser struct {
	Name       string
	Email      string
	Department string
	Password   string
	IsAdmin    bool
}

var defaultUsers = []seedUser{
	{Name: "Олексій", Email: "employee@company.com", Department: "Розробка", Password: "password123"},
	{Name: "Адміністратор", Email: "admin@company.com", Department: "Адміністрування", Password: "admin12345", IsAdmin: true},
}

type UserServiceImpl struct {
	Store           dataStore
	PasswordService service.PasswordService
	Logger          *slog.Logger

	now func() time.Time
}

func NewUserServiceImpl(st *store.Store, passwords service.PasswordService, logger *slog.Logger) *UserServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserServiceImpl{
		Store:           newDataStore(st),
		PasswordService: passwords,
		Logger:          logger,
		now:             utcNow,
	}
}

func (s *UserServiceImpl) Get(ctx context.Context, id domain.UserID) (*dto.User, error) {
	u, err := s.Store.Users().GetByID(ctx, id)
	if isNotFound(err) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	out := dto.UserFromDomain(u)
	return &out, nil
}

func (s *UserServiceImpl) List(ctx context.Context) ([]dto.User, error) {
	users, err := s.Store.Users().List(ctx)
	if err != nil {
		return nil, err
	}
	return dto.UsersFromDomain(users), nil
}

func (s *UserServiceImpl) Create(ctx context.Context, r dto.CreateUserRequest) (*dto.User, error) {
	name := strings.TrimSpace(r.Name)
	email := domain.NormalizeEmail(r.Email)
	if name == "" || email == "" || r.Password == "" {
		return nil, ErrMissingUserFields
	}
	secret, err := s.PasswordService.Hash(r.Password)
	if err != nil {
		return nil, err
	}

	u := &domain.User{
		Name:       name,
		Email:      email,
		Department: strings.TrimSpace(r.Department),
		Password:   secret,
		IsAdmin:    r.IsAdmin,
		JobTitle:   r.JobTitle,
		Phone:      r.Phone,
		Location:   r.Location,
		Bio:        r.Bio,
		Tags:       domain.SerializeTags(r.Tags),
		Status:     strings.TrimSpace(r.Status),
	}
	err = s.Store.WithTx(ctx, func(tx storeTx) error {
		if _, err := tx.Users().GetByEmail(ctx, email); err == nil {
			return domain.ErrEmailTaken
		} else if !isNotFound(err) {
			return err
		}
		if err := tx.Users().Create(ctx, u); err != nil {
			if isDuplicate(err) {
				return domain.ErrEmailTaken
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := dto.UserFromDomain(u)
	return &out, nil
}

// Update applies the fields present in r. An emptied email or name is
// ignored rather than stored.
func (s *UserServiceImpl) Update(ctx context.Context, id domain.UserID, r dto.UpdateUserRequest) (*dto.User, error) {
	changes := map[string]any{}
	setString := func(col string, v *string) {
		if v != nil {
			changes[col] = *v
		}
	}
	if r.Name != nil && strings.TrimSpace(*r.Name) != "" {
		changes["name"] = strings.TrimSpace(*r.Name)
	}
	if r.Email != nil && domain.NormalizeEmail(*r.Email) != "" {
		changes["email"] = domain.NormalizeEmail(*r.Email)
	}
	setString("department", r.Department)
	setString("job_title", r.JobTitle)
	setString("phone", r.Phone)
	setString("location", r.Location)
	setString("bio", r.Bio)
	if r.Status != nil && strings.TrimSpace(*r.Status) != "" {
		changes["status"] = strings.TrimSpace(*r.Status)
	}
	if r.IsAdmin != nil {
		changes["is_admin"] = *r.IsAdmin
	}
	if r.Tags != nil {
		changes["tags"] = domain.SerializeTags(*r.Tags)
	}
	if r.Password != nil && *r.Password != "" {
		secret, err := s.PasswordService.Hash(*r.Password)
		if err != nil {
			return nil, err
		}
		changes["password"] = secret
	}

	var updated *domain.User
	err := s.Store.WithTx(ctx, func(tx storeTx) error {
		if _, err := tx.Users().GetByID(ctx, id); err != nil {
			if isNotFound(err) {
				return domain.ErrUserNotFound
			}
			return err
		}
		if err := tx.Users().Update(ctx, id, changes); err != nil {
			if isDuplicate(err) {
				return domain.ErrEmailTaken
			}
			return err
		}
		u, err := tx.Users().GetByID(ctx, id)
		if err != nil {
			return err
		}
		updated = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := dto.UserFromDomain(updated)
	return &out, nil
}

// Delete removes the user together with every session it holds.
func (s *UserServiceImpl) Delete(ctx context.Context, id domain.UserID) error {
	return s.Store.WithTx(ctx, func(tx storeTx) error {
		if _, err := tx.Sessions().DeleteAllForUser(ctx, id); err != nil {
			return err
		}
		deleted, err := tx.Users().Delete(ctx, id)
		if err != nil {
			return err
		}
		if !deleted {
			return domain.ErrUserNotFound
		}
		return nil
	})
}

func (s *UserServiceImpl) UpdateStatus(ctx context.Context, id domain.UserID, status string) (*dto.User, error) {
	status = strings.TrimSpace(status)
	if status == "" {
		return nil, ErrEmptyStatus
	}
	if err := s.Store.Users().SetStatus(ctx, id, status); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *UserServiceImpl) Overview(ctx context.Context) (*dto.OverviewResponse, error) {
	var (
		out dto.OverviewResponse
		err error
	)
	users := s.Store.Users()
	if out.Stats.ActiveSessions, err = s.Store.Sessions().Count(ctx); err != nil {
		return nil, fmt.Errorf("count sessions: %w", err)
	}
	if out.Stats.Users, err = users.Count(ctx); err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	if out.Stats.Admins, err = users.CountAdmins(ctx); err != nil {
		return nil, fmt.Errorf("count admins: %w", err)
	}
	if out.Stats.PendingRegistrations, err = s.Store.Registrations().CountPending(ctx, s.now()); err != nil {
		return nil, fmt.Errorf("count pending registrations: %w", err)
	}
	if out.Stats.LastLogin, err = users.LastLogin(ctx); err != nil {
		return nil, fmt.Errorf("last login: %w", err)
	}
	if out.Users, err = s.List(ctx); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *UserServiceImpl) SeedDefaults(ctx context.Context) (int, error) {
	created := 0
	err := s.Store.WithTx(ctx, func(tx storeTx) error {
		for _, su := range defaultUsers {
			if _, err := tx.Users().GetByEmail(ctx, su.Email); err == nil {
				continue
			} else if !isNotFound(err) {
				return err
			}
			secret, err := s.PasswordService.Hash(su.Password)
			if err != nil {
				return err
			}
			u := &domain.User{
				Name:       su.Name,
				Email:      su.Email,
				Department: su.Department,
				Password:   secret,
				IsAdmin:    su.IsAdmin,
			}
			if err := tx.Users().Create(ctx, u); err != nil {
				return fmt.Errorf("seed %s: %w", su.Email, err)
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if created > 0 {
		s.Logger.InfoContext(ctx, "seeded default users", slog.Int("created", created))
	}
	return created, nil
}
