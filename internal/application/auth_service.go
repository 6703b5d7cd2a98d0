package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pedidoslab/pedidos-api/internal/domain/entity"
	"github.com/pedidoslab/pedidos-api/internal/domain/repository"
	"github.com/pedidoslab/pedidos-api/pkg/helpers"
	"github.com/pedidoslab/pedidos-api/pkg/mailer"
	"github.com/pedidoslab/pedidos-api/pkg/token"
)

// Publisher enqueues notification jobs. Satisfied by helpers.RabbitPublisher.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// AuthService owns registration, login, session resolution, profile updates,
// and the password-reset flow. Tokens are stateless; every protected request
// re-verifies its credential instead of consulting server-side session state.
type AuthService struct {
	Users        repository.UserRepository
	Tokens       *token.Codec
	ResetMaxAge  time.Duration
	ResetURLBase string
	Pub          Publisher
	MailEnabled  bool
	Logger       *logrus.Logger
}

func NewAuthService(users repository.UserRepository, tokens *token.Codec, resetMaxAge time.Duration, resetURLBase string, pub Publisher, mailEnabled bool, logger *logrus.Logger) *AuthService {
	return &AuthService{
		Users:        users,
		Tokens:       tokens,
		ResetMaxAge:  resetMaxAge,
		ResetURLBase: resetURLBase,
		Pub:          pub,
		MailEnabled:  mailEnabled,
		Logger:       logger,
	}
}

// Register creates a new user. A duplicate email returns ErrDuplicateEmail
// and performs no write.
func (s *AuthService) Register(ctx context.Context, email, password string) (*entity.User, error) {
	if _, err := s.Users.GetByEmail(ctx, email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{Email: email, PasswordHash: hash}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return u, nil
}

// Login verifies credentials and issues a session token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*entity.User, string, time.Time, error) {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.PasswordHash, password) {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	tok, exp, err := s.Tokens.IssueSession(u.Email)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return u, tok, exp, nil
}

// ResolveSession turns a session credential into an authenticated user.
// An absent or invalid credential, or one whose email no longer resolves to a
// user, yields ErrInvalidCredentials; callers must send the client back to
// the login entry point.
func (s *AuthService) ResolveSession(ctx context.Context, credential string) (*entity.User, error) {
	if credential == "" {
		return nil, ErrInvalidCredentials
	}
	email, ok := s.Tokens.VerifySession(credential)
	if !ok {
		return nil, ErrInvalidCredentials
	}
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// RequestPasswordReset issues a reset link for a registered email and
// enqueues the recovery mail. Unknown emails succeed silently so the endpoint
// cannot be used for enumeration.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}

	tok, err := s.Tokens.IssueReset(u.Email)
	if err != nil {
		return err
	}
	link := s.ResetURLBase + "/" + tok
	s.enqueueMail(ctx, mailer.PasswordResetJob(u.Email, link))
	return nil
}

// VerifyResetToken checks a reset link and returns the embedded email.
func (s *AuthService) VerifyResetToken(tok string) (string, error) {
	email, ok := s.Tokens.VerifyReset(tok, s.ResetMaxAge)
	if !ok {
		return "", ErrInvalidResetToken
	}
	return email, nil
}

// ResetPassword sets a new password for the account named by a valid reset
// token.
func (s *AuthService) ResetPassword(ctx context.Context, tok, newPassword string) error {
	email, err := s.VerifyResetToken(tok)
	if err != nil {
		return err
	}
	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.Users.UpdatePasswordByEmail(ctx, email, hash); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidResetToken
		}
		return err
	}
	return nil
}

func (s *AuthService) GetProfile(ctx context.Context, userID int64) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

type UpdateProfileInput struct {
	Email    string
	Password string // optional; re-hashed when present
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID int64, in UpdateProfileInput) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	if in.Email != "" {
		u.Email = in.Email
	}
	if in.Password != "" {
		hash, err := helpers.HashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hash
	}
	if err := s.Users.Update(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return u, nil
}

// enqueueMail is fire-and-forget: a publish failure is logged and never
// surfaces to the caller.
func (s *AuthService) enqueueMail(ctx context.Context, job mailer.EmailJob) {
	if s.Pub == nil || !s.MailEnabled {
		return
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("to", job.To).Warn("failed to enqueue email")
	}
}
