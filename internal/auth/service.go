package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/daap14/teamcap/internal/backupcode"
	"github.com/daap14/teamcap/internal/store"
	"github.com/daap14/teamcap/internal/user"
)

// ErrInvalidToken is returned when a bearer token matches no session.
var ErrInvalidToken = errors.New("invalid token")

// ErrTokenExpired is returned when a session exists but is past its expiry.
var ErrTokenExpired = errors.New("token expired")

// ErrInvalidCredentials is returned when username and password do not match
// an active user.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrInvalidPassword is returned when the current password supplied to a
// password change does not match.
var ErrInvalidPassword = errors.New("invalid password")

// CodeIssuer issues and revokes backup codes.
type CodeIssuer interface {
	Regenerate(ctx context.Context, userID string) ([]backupcode.BackupCode, error)
	RevokeAll(ctx context.Context, userID string) error
}

// Account holds registration input.
type Account struct {
	FirstName string
	LastName  string
	Username  string
	Password  string
}

// Registration is the outcome of Register.
type Registration struct {
	User        *user.User
	BackupCodes []string
	Restored    bool
}

// Service provides authentication operations.
type Service struct {
	users      user.Repository
	sessions   Repository
	codes      CodeIssuer
	tx         store.Transactor
	bcryptCost int
	now        func() time.Time
}

// NewService creates a new auth Service.
func NewService(users user.Repository, sessions Repository, codes CodeIssuer, tx store.Transactor, bcryptCost int) *Service {
	return &Service{
		users:      users,
		sessions:   sessions,
		codes:      codes,
		tx:         tx,
		bcryptCost: bcryptCost,
		now:        time.Now,
	}
}

// GenerateToken creates an opaque bearer token: 32 random bytes, base64url.
func GenerateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// HashPassword returns the bcrypt hash of password.
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// Verify resolves a bearer token to a Principal. It runs on every request.
func (s *Service) Verify(ctx context.Context, token string) (*Principal, error) {
	a, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("looking up session: %w", err)
	}

	if !a.Valid(s.now()) {
		return nil, ErrTokenExpired
	}

	return &Principal{UserID: a.UserID, Token: a.Token, ExpiresAt: *a.ExpiresAt}, nil
}

// Login checks credentials and returns the user's session. An unexpired
// session is refreshed in place; an expired one is replaced, so a user holds
// at most one session row.
func (s *Service) Login(ctx context.Context, username, password string) (*Authentication, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	var session *Authentication
	err = s.tx.Do(ctx, func(ctx context.Context) error {
		existing, err := s.sessions.GetByUserID(ctx, u.ID)
		switch {
		case err == nil && existing.Valid(s.now()):
			session, err = s.sessions.Refresh(ctx, existing.ID)
			return err
		case err == nil:
			if err := s.sessions.DeleteByID(ctx, existing.ID); err != nil {
				return fmt.Errorf("removing expired session: %w", err)
			}
		case !errors.Is(err, ErrSessionNotFound):
			return fmt.Errorf("looking up session: %w", err)
		}

		token, err := GenerateToken()
		if err != nil {
			return err
		}
		session, err = s.sessions.Create(ctx, u.ID, token)
		return err
	})
	if err != nil {
		return nil, err
	}

	return session, nil
}

// Logout deletes the session holding token.
func (s *Service) Logout(ctx context.Context, token string) error {
	if err := s.sessions.DeleteByToken(ctx, token); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return ErrInvalidToken
		}
		return err
	}
	return nil
}

// Register creates an account and its first batch of backup codes. When an
// archived account with the same username and password exists it is
// restored instead of creating a duplicate.
func (s *Service) Register(ctx context.Context, a Account) (*Registration, error) {
	reg := &Registration{}

	err := s.tx.Do(ctx, func(ctx context.Context) error {
		_, err := s.users.GetByUsername(ctx, a.Username)
		if err == nil {
			return user.ErrUsernameTaken
		}
		if !errors.Is(err, user.ErrUserNotFound) {
			return fmt.Errorf("checking username: %w", err)
		}

		archived, err := s.users.ListArchivedByUsername(ctx, a.Username)
		if err != nil {
			return err
		}
		for i := range archived {
			if bcrypt.CompareHashAndPassword([]byte(archived[i].PasswordHash), []byte(a.Password)) != nil {
				continue
			}
			reg.User, err = s.users.Restore(ctx, archived[i].ID, a.FirstName, a.LastName)
			if err != nil {
				return err
			}
			reg.Restored = true
			break
		}

		if reg.User == nil {
			hash, err := s.HashPassword(a.Password)
			if err != nil {
				return err
			}
			reg.User, err = s.users.Create(ctx, user.NewUser{
				FirstName:    a.FirstName,
				LastName:     a.LastName,
				Username:     a.Username,
				PasswordHash: hash,
			})
			if err != nil {
				return err
			}
		}

		codes, err := s.codes.Regenerate(ctx, reg.User.ID)
		if err != nil {
			return fmt.Errorf("issuing backup codes: %w", err)
		}
		reg.BackupCodes = backupcode.Codes(codes)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if reg.Restored {
		slog.Info("restored archived user", "userId", reg.User.ID)
	}
	return reg, nil
}

// Unregister removes the user's sessions, revokes their backup codes and
// archives the account in one transaction.
func (s *Service) Unregister(ctx context.Context, userID string) error {
	return s.tx.Do(ctx, func(ctx context.Context) error {
		if _, err := s.sessions.DeleteByUserID(ctx, userID); err != nil {
			return err
		}
		if err := s.codes.RevokeAll(ctx, userID); err != nil {
			return err
		}
		return s.users.Archive(ctx, userID)
	})
}

// ChangePassword replaces the password of p's user after checking the
// current one. Every other session of the user is revoked.
func (s *Service) ChangePassword(ctx context.Context, p *Principal, current, next string) error {
	u, err := s.users.GetByID(ctx, p.UserID)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(current)) != nil {
		return ErrInvalidPassword
	}

	hash, err := s.HashPassword(next)
	if err != nil {
		return err
	}

	return s.tx.Do(ctx, func(ctx context.Context) error {
		if _, err := s.users.SetPasswordHash(ctx, u.ID, hash); err != nil {
			return err
		}

		sessions, err := s.sessions.ListByUserID(ctx, u.ID)
		if err != nil {
			return err
		}
		for _, other := range sessions {
			if other.Token == p.Token {
				continue
			}
			if err := s.sessions.DeleteByID(ctx, other.ID); err != nil {
				return fmt.Errorf("revoking session: %w", err)
			}
		}
		return nil
	})
}
