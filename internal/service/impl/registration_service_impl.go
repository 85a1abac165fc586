package impl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"employee-portal/internal/domain"
	"employee-portal/internal/dto"
	"employee-portal/internal/observability/metrics"
	"employee-portal/internal/service"
	"employee-portal/internal/store"
)

const registrationRequestedMessage = "Лист із підтвердженням надіслано. Перевірте пошту, щоб завершити реєстрацію."

type RegistrationConfig struct {
	AppBaseURL        string
	TokenTTL          time.Duration
	PasswordMinLength int
	MailTimeout       time.Duration
}

type RegistrationServiceImpl struct {
	Store           dataStore
	PasswordService service.PasswordService
	Sessions        service.SessionService
	Email           service.EmailService
	Config          RegistrationConfig
	Logger          *slog.Logger

	drawCode func() (string, error)
	now      func() time.Time
}

func NewRegistrationServiceImpl(
	st *store.Store,
	passwords service.PasswordService,
	sessions service.SessionService,
	email service.EmailService,
	cfg RegistrationConfig,
	logger *slog.Logger,
) *RegistrationServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	return &RegistrationServiceImpl{
		Store:           newDataStore(st),
		PasswordService: passwords,
		Sessions:        sessions,
		Email:           email,
		Config:          cfg,
		Logger:          logger,
		drawCode:        randomRegistrationCode,
		now:             utcNow,
	}
}

// Request issues a fresh confirmation code for an email that has no
// account yet and mails it. A pending code for the same email is replaced.
// The mail is sent once; on failure the caller has to request again.
func (r *RegistrationServiceImpl) Request(ctx context.Context, req dto.RegisterRequest) (*dto.RegisterResponse, error) {
	email := domain.NormalizeEmail(req.Email)
	if email == "" {
		return nil, ErrEmptyEmail
	}

	tok := domain.RegistrationToken{
		Email:      email,
		Name:       strings.TrimSpace(req.Name),
		Department: strings.TrimSpace(req.Department),
	}

	err := r.Store.WithTx(ctx, func(tx storeTx) error {
		if _, err := tx.Users().GetByEmail(ctx, email); err == nil {
			return domain.ErrEmailTaken
		} else if !isNotFound(err) {
			return err
		}

		code, err := generateRegistrationCode(ctx, tx.Registrations(), r.drawCode)
		if err != nil {
			return err
		}
		tok.Token = code
		tok.ExpiresAt = r.now().Add(r.Config.TokenTTL)
		tok.CreatedAt = r.now()

		return upsertRegistration(ctx, tx.Registrations(), &tok)
	})
	if err != nil {
		metrics.AuthRegistrationsTotal.WithLabelValues("request", "failure").Inc()
		return nil, err
	}

	link := confirmationLink(r.Config.AppBaseURL, tok.Token, email)

	mailCtx := ctx
	if r.Config.MailTimeout > 0 {
		var cancel context.CancelFunc
		mailCtx, cancel = context.WithTimeout(ctx, r.Config.MailTimeout)
		defer cancel()
	}
	if err := r.Email.SendRegistrationConfirmation(mailCtx, service.RegistrationEmail{
		To:        email,
		Name:      tok.Name,
		Code:      tok.Token,
		Link:      link,
		ExpiresAt: tok.ExpiresAt,
	}); err != nil {
		metrics.AuthRegistrationsTotal.WithLabelValues("request", "mail_failure").Inc()
		r.Logger.ErrorContext(ctx, "registration mail failed", append(requestAttrs(ctx), slog.String("error", err.Error()))...)
		return nil, fmt.Errorf("%w: %v", ErrMailDelivery, err)
	}

	metrics.AuthRegistrationsTotal.WithLabelValues("request", "success").Inc()
	r.Logger.InfoContext(ctx, "registration requested", append(requestAttrs(ctx), slog.Time("expires_at", tok.ExpiresAt))...)

	resp := &dto.RegisterResponse{
		Message:   registrationRequestedMessage,
		ExpiresAt: tok.ExpiresAt,
	}
	if r.Email.Preview() {
		resp.ConfirmationLink = link
		resp.TokenPreview = tok.Token
	}
	return resp, nil
}

// upsertRegistration keeps at most one row per email: an existing row is
// overwritten and reset to unused, otherwise a new one is inserted.
func upsertRegistration(ctx context.Context, regs registrationStore, tok *domain.RegistrationToken) error {
	existing, err := regs.GetByEmail(ctx, tok.Email)
	switch {
	case err == nil:
		tok.ID = existing.ID
		return regs.Replace(ctx, existing.ID, tok)
	case !isNotFound(err):
		return err
	}

	err = regs.Create(ctx, tok)
	if !isDuplicate(err) {
		return err
	}
	// Lost an insert race for the same email; the row exists now.
	existing, err = regs.GetByEmail(ctx, tok.Email)
	if err != nil {
		return err
	}
	tok.ID = existing.ID
	return regs.Replace(ctx, existing.ID, tok)
}

// Complete consumes a pending code, creates the account and signs the new
// user in. Creating the user and marking the code used happen in one
// transaction.
func (r *RegistrationServiceImpl) Complete(ctx context.Context, req dto.CompleteRegistrationRequest) (*dto.SessionResponse, error) {
	code, linkEmail := NormalizeIncomingToken(req.Token)
	if code == "" || req.Password == "" {
		return nil, ErrEmptyToken
	}
	email := domain.NormalizeEmail(req.Email)
	if email == "" {
		email = domain.NormalizeEmail(linkEmail)
	}

	var user *domain.User
	err := r.Store.WithTx(ctx, func(tx storeTx) error {
		var (
			tok *domain.RegistrationToken
			err error
		)
		if email != "" {
			tok, err = tx.Registrations().FindByEmailAndToken(ctx, email, code)
		} else {
			tok, err = tx.Registrations().FindByToken(ctx, code)
		}
		if isNotFound(err) {
			return domain.ErrTokenNotFound
		}
		if err != nil {
			return err
		}

		now := r.now()
		if tok.Used {
			return domain.ErrTokenUsed
		}
		if tok.Expired(now) {
			return domain.ErrTokenExpired
		}
		if _, err := tx.Users().GetByEmail(ctx, tok.Email); err == nil {
			return domain.ErrAccountActive
		} else if !isNotFound(err) {
			return err
		}
		if err := r.checkPassword(req.Password, req.ConfirmPassword); err != nil {
			return err
		}

		secret, err := r.PasswordService.Hash(req.Password)
		if err != nil {
			return err
		}
		u := &domain.User{
			Name:       tok.Name,
			Email:      tok.Email,
			Department: tok.Department,
			Password:   secret,
			Status:     domain.DefaultStatus,
		}
		if u.Name == "" {
			u.Name = localPart(tok.Email)
		}
		if u.Department == "" {
			u.Department = domain.DefaultDepartment
		}
		if err := tx.Users().Create(ctx, u); err != nil {
			if isDuplicate(err) {
				return domain.ErrAccountActive
			}
			return err
		}

		marked, err := tx.Registrations().MarkUsed(ctx, tok.ID, now)
		if err != nil {
			return err
		}
		if !marked {
			return domain.ErrTokenUsed
		}
		user = u
		return nil
	})
	if err != nil {
		metrics.AuthRegistrationsTotal.WithLabelValues("complete", "failure").Inc()
		return nil, err
	}

	token, err := r.Sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	metrics.AuthRegistrationsTotal.WithLabelValues("complete", "success").Inc()
	r.Logger.InfoContext(ctx, "registration completed", append(requestAttrs(ctx), slog.Int64("user_id", user.ID))...)

	return &dto.SessionResponse{Token: token, User: dto.UserFromDomain(user)}, nil
}

func (r *RegistrationServiceImpl) checkPassword(password, confirm string) error {
	if len([]rune(password)) < r.Config.PasswordMinLength {
		return ErrPasswordLength
	}
	if confirm != "" && confirm != password {
		return ErrPasswordMismatch
	}
	return nil
}

func localPart(email string) string {
	if i := strings.Index(email, "@"); i > 0 {
		return email[:i]
	}
	return email
}

var _ service.RegistrationService = (*RegistrationServiceImpl)(nil)
