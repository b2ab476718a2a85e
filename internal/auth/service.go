package auth

import (
	"context"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/placefinder/placefinder/internal/apperr"
	"github.com/placefinder/placefinder/internal/credential"
	"github.com/placefinder/placefinder/internal/identity"
	"github.com/placefinder/placefinder/internal/logging"
	"github.com/placefinder/placefinder/internal/notification"
	"github.com/placefinder/placefinder/internal/validation"
)

// dummySalt and dummyHash stand in for a missing account so a login for an
// unknown username still pays for one key derivation. The hash is not the
// derivation of any known password.
const (
	dummySalt = "00000000000000000000000000000000"
	dummyHash = "0000000000000000000000000000000000000000000000000000000000000000"
)

// EditKind names the attribute a profile edit changed.
type EditKind int

const (
	EditNone EditKind = iota
	EditUsername
	EditEmail
	EditPassword
)

// Service composes hashing, validation, tokens and the identity store into
// the signup, login, reset, resolution, edit and delete flows.
type Service struct {
	users    identity.Repository
	hasher   *credential.Hasher
	tokens   *TokenService
	notifier notification.Notifier
	logger   *slog.Logger
}

// NewService wires the gateway. notifier may be nil.
func NewService(users identity.Repository, hasher *credential.Hasher, tokens *TokenService, notifier notification.Notifier, logger *slog.Logger) *Service {
	return &Service{users: users, hasher: hasher, tokens: tokens, notifier: notifier, logger: logger}
}

// SignupInput is the registration body.
type SignupInput struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// Signup creates an account. No token is issued; login is a separate step.
func (s *Service) Signup(ctx context.Context, in SignupInput) (identity.User, error) {
	if in.Username == "" || in.Email == "" || in.Password == "" || in.ConfirmPassword == "" {
		return identity.User{}, apperr.MissingFields("Bad request: All fields are required.")
	}

	exists, err := s.users.EmailExists(ctx, in.Email)
	if err != nil {
		return identity.User{}, err
	}
	if exists {
		return identity.User{}, apperr.New(apperr.CodeDuplicateEmail, "Bad request: Email already exists.")
	}

	if !validation.Valid(validation.Registration(in)) {
		return identity.User{}, apperr.New(apperr.CodeValidationRejected, "Forbidden: Access forbidden.")
	}

	salt, hash, err := s.hasher.Derive(ctx, in.Password)
	if err != nil {
		return identity.User{}, err
	}

	user := identity.User{
		ID:           uuid.NewString(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordSalt: salt,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return identity.User{}, err
	}

	s.notify(ctx, notification.Message{
		Kind:        notification.KindAccountCreated,
		Destination: user.Email,
		Body:        "Welcome " + user.Username,
	})
	return user, nil
}

// Login checks the credentials and issues a token for the account. Unknown
// usernames and wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", apperr.MissingFields("Bad request")
	}

	user, err := s.users.FindByUsername(ctx, username)
	found := err == nil
	if err != nil && !apperr.Is(err, apperr.CodeNotFound) {
		return "", err
	}

	salt, hash := dummySalt, dummyHash
	if found {
		salt, hash = user.PasswordSalt, user.PasswordHash
	}
	ok, err := s.hasher.Verify(ctx, password, salt, hash)
	if err != nil {
		return "", err
	}
	if !found || !ok {
		return "", apperr.New(apperr.CodeUnauthorized, "Unauthorized")
	}

	return s.tokens.Issue(user.ID)
}

// ResetInput is the forgotten-password body.
type ResetInput struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// ResetPassword replaces the password of the account owning the email. An
// unknown email is reported as FORBIDDEN, which still lets a caller probe
// whether an address is registered.
func (s *Service) ResetPassword(ctx context.Context, in ResetInput) error {
	if in.Email == "" || in.Password == "" || in.ConfirmPassword == "" {
		return apperr.MissingFields("Bad request: All fields are required.")
	}

	exists, err := s.users.EmailExists(ctx, in.Email)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.New(apperr.CodeForbidden, "Forbidden: Access forbidden.")
	}
	if !validation.PasswordsMatch(in.Password, in.ConfirmPassword) {
		return apperr.New(apperr.CodePasswordMismatch, "Forbidden: Passwords do not match.")
	}
	if utf8.RuneCountInString(in.Password) > validation.MaxFieldLength {
		return apperr.New(apperr.CodeValidationRejected, "Forbidden: Access forbidden.")
	}

	salt, hash, err := s.hasher.Derive(ctx, in.Password)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePasswordByEmail(ctx, in.Email, salt, hash); err != nil {
		if apperr.Is(err, apperr.CodeNotFound) {
			return apperr.New(apperr.CodeForbidden, "Forbidden: Access forbidden.")
		}
		return err
	}

	s.notify(ctx, notification.Message{
		Kind:        notification.KindPasswordReset,
		Destination: in.Email,
		Body:        "Your password was changed",
	})
	return nil
}

// Resolve turns a bearer token into the id of an existing account. A valid
// token whose account no longer exists resolves to NOT_FOUND.
func (s *Service) Resolve(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", apperr.New(apperr.CodeInvalidToken, "Forbidden: Not authenticated.")
	}
	id, err := s.tokens.Decode(token)
	if err != nil {
		return "", err
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	if user.ID != id {
		return "", identity.ErrUserNotFound
	}
	return user.ID, nil
}

// EditProfile applies one attribute change for the resolved id.
func (s *Service) EditProfile(ctx context.Context, id string, intent EditIntent) (EditKind, error) {
	switch edit := intent.(type) {
	case UsernameEdit:
		if utf8.RuneCountInString(edit.Username) > validation.MaxFieldLength {
			return EditNone, apperr.New(apperr.CodeValidationRejected, "Forbidden: Access forbidden.")
		}
		if err := s.users.UpdateUsername(ctx, id, edit.Username); err != nil {
			return EditNone, err
		}
		return EditUsername, nil

	case EmailEdit:
		exists, err := s.users.EmailExists(ctx, edit.Email)
		if err != nil {
			return EditNone, err
		}
		if exists {
			return EditNone, apperr.New(apperr.CodeDuplicateEmail, "Bad request: Email already exists.")
		}
		if utf8.RuneCountInString(edit.Email) > validation.MaxFieldLength || !validation.ValidEmail(edit.Email) {
			return EditNone, apperr.New(apperr.CodeValidationRejected, "Forbidden: Access forbidden.")
		}
		if err := s.users.UpdateEmail(ctx, id, edit.Email); err != nil {
			return EditNone, err
		}
		return EditEmail, nil

	case PasswordEdit:
		if !validation.PasswordsMatch(edit.Password, edit.ConfirmPassword) {
			return EditNone, apperr.New(apperr.CodePasswordMismatch, "Forbidden: Passwords do not match.")
		}
		if utf8.RuneCountInString(edit.Password) > validation.MaxFieldLength {
			return EditNone, apperr.New(apperr.CodeValidationRejected, "Forbidden: Access forbidden.")
		}
		salt, hash, err := s.hasher.Derive(ctx, edit.Password)
		if err != nil {
			return EditNone, err
		}
		if err := s.users.UpdatePassword(ctx, id, salt, hash); err != nil {
			return EditNone, err
		}
		return EditPassword, nil

	default:
		return EditNone, nil
	}
}

// DeleteAccount hard-deletes the account. Deleting an absent id is NOT_FOUND.
func (s *Service) DeleteAccount(ctx context.Context, id string) error {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.notify(ctx, notification.Message{
		Kind:        notification.KindAccountDeleted,
		Destination: user.Email,
		Body:        "Your account was deleted",
	})
	return nil
}

func (s *Service) notify(ctx context.Context, msg notification.Message) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Send(ctx, msg); err != nil && s.logger != nil {
		logging.LogError(s.logger, "notification failed", err, "kind", msg.Kind)
	}
}
