// Copyright (c) 2026 Gatekeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/taibuivan/gatekeep/internal/platform/apperr"
	"github.com/taibuivan/gatekeep/internal/platform/constants"
	"github.com/taibuivan/gatekeep/internal/platform/ctxutil"
	"github.com/taibuivan/gatekeep/internal/platform/metrics"
	"github.com/taibuivan/gatekeep/internal/platform/sec"
	"github.com/taibuivan/gatekeep/internal/platform/validate"
	"github.com/taibuivan/gatekeep/pkg/fold"
)

// # Contracts & Types

// PasswordHasher hashes and checks passwords. Implemented by [sec.PasswordHasher].
type PasswordHasher interface {
	Hash(plainTextPassword string) (string, error)
	Verify(plainTextPassword, existingHash string) bool
}

// TokenProvider issues and decodes access tokens. Implemented by [sec.TokenService].
type TokenProvider interface {
	Issue(subject string) (string, error)
	Decode(token string) (*sec.Claims, error)
}

// timingPassword is hashed once and verified against when a login names an
// unknown user, so both failure paths cost one bcrypt comparison.
const timingPassword = "gatekeep-unknown-user"

// Service implements user authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or login logic must be reviewed with care.
type Service struct {
	users      UserRepository
	identities IdentityLoader
	hasher     PasswordHasher
	tokens     TokenProvider
	metrics    *metrics.Metrics
	timingHash func() string
}

// NewService constructs a new [Service] with necessary dependencies.
//
// collectors may be nil.
func NewService(
	users UserRepository,
	identities IdentityLoader,
	hasher PasswordHasher,
	tokens TokenProvider,
	collectors *metrics.Metrics,
) *Service {
	return &Service{
		users:      users,
		identities: identities,
		hasher:     hasher,
		tokens:     tokens,
		metrics:    collectors,
		timingHash: sync.OnceValue(func() string {
			hash, _ := hasher.Hash(timingPassword)
			return hash
		}),
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

/*
Register validates, hashes, and persists a brand new user account.

Description: Username and email are canonicalized, then checked for
existence in that order so the first conflict wins. The password is hashed
and the account written in a single insert. No token is issued.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *User: Created entity
  - err: ErrUsernameTaken, ErrEmailTaken, validation or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {
	username := fold.Identifier(input.Username)
	email := fold.Identifier(input.Email)

	validator := &validate.Validator{}
	validator.Required(FieldUsername, username).
		MaxLen(FieldUsername, username, MaxUsernameLength).
		Printable(FieldUsername, username).
		Required(FieldEmail, email).
		MaxLen(FieldEmail, email, MaxEmailLength).
		Printable(FieldEmail, email).
		Email(FieldEmail, email).
		Required(FieldPassword, input.Password).
		MaxBytes(FieldPassword, input.Password, sec.MaxPasswordBytes)

	if err := validator.Err(); err != nil {
		service.metrics.Registration(metrics.OutcomeInvalid)
		return nil, err
	}

	// Verify username uniqueness first, then email.
	taken, err := service.users.ExistsByUsername(context, username)
	if err != nil {
		return nil, service.registrationFailed(fmt.Errorf("auth_service_username_check_failed: %w", err))
	}
	if taken {
		service.metrics.Registration(metrics.OutcomeDuplicate)
		return nil, ErrUsernameTaken
	}

	taken, err = service.users.ExistsByEmail(context, email)
	if err != nil {
		return nil, service.registrationFailed(fmt.Errorf("auth_service_email_check_failed: %w", err))
	}
	if taken {
		service.metrics.Registration(metrics.OutcomeDuplicate)
		return nil, ErrEmailTaken
	}

	hashedPassword, err := service.hasher.Hash(input.Password)
	if err != nil {
		return nil, service.registrationFailed(fmt.Errorf("auth_service_hash_failed: %w", err))
	}

	user := &User{
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
	}

	// The unique constraints settle races the existence checks cannot see.
	if err := service.users.Create(context, user); err != nil {
		if errors.Is(err, ErrUsernameTaken) || errors.Is(err, ErrEmailTaken) {
			service.metrics.Registration(metrics.OutcomeDuplicate)
			return nil, err
		}
		return nil, service.registrationFailed(fmt.Errorf("auth_service_register_failed: %w", err))
	}

	service.metrics.Registration(metrics.OutcomeSuccess)
	ctxutil.GetLogger(context).InfoContext(context, "user_registered",
		slog.Int64("user_id", user.ID),
		slog.String("username", user.Username),
	)

	return user, nil
}

func (service *Service) registrationFailed(err error) error {
	service.metrics.Registration(metrics.OutcomeError)
	return err
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Username string
	Password string
}

// LoginResult carries the issued access token.
type LoginResult struct {
	AccessToken string
	TokenType   string
}

/*
Login validates user credentials and issues an access token.

Description: An unknown username and a wrong password both produce
[ErrBadCredentials] after one bcrypt comparison, so neither the message nor
the latency reveals which one failed.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginResult: Signed bearer token
  - err: ErrBadCredentials or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginResult, error) {
	username := fold.Identifier(input.Username)

	// A username no account can hold is rejected before it reaches the store.
	if username == "" || input.Password == "" || !validate.IsPrintable(username) {
		service.metrics.LoginAttempt(metrics.OutcomeRejected)
		return nil, ErrBadCredentials
	}

	user, err := service.identities.LoadByUsername(context, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			service.hasher.Verify(input.Password, service.timingHash())
			service.metrics.LoginAttempt(metrics.OutcomeRejected)
			return nil, ErrBadCredentials
		}
		service.metrics.LoginAttempt(metrics.OutcomeError)
		return nil, fmt.Errorf("auth_service_login_lookup_failed: %w", err)
	}

	if !service.hasher.Verify(input.Password, user.PasswordHash) {
		service.metrics.LoginAttempt(metrics.OutcomeRejected)
		return nil, ErrBadCredentials
	}

	token, err := service.tokens.Issue(user.Username)
	if err != nil {
		service.metrics.LoginAttempt(metrics.OutcomeError)
		return nil, fmt.Errorf("auth_service_token_issue_failed: %w", err)
	}

	service.metrics.LoginAttempt(metrics.OutcomeSuccess)
	ctxutil.GetLogger(context).InfoContext(context, "user_logged_in", slog.String("username", user.Username))

	return &LoginResult{AccessToken: token, TokenType: constants.TokenType}, nil
}

/*
Authenticate resolves a raw bearer token to the identity it represents.

Description: Decodes the token, then re-loads the subject so that a token
for a user that no longer resolves carries no identity.

Parameters:
  - context: context.Context
  - token: string (without the "Bearer " prefix)

Returns:
  - *sec.Identity: Request principal
  - err: ErrInvalidBearer, ErrUserNotFound or loader failures
*/
func (service *Service) Authenticate(context context.Context, token string) (*sec.Identity, error) {
	claims, err := service.tokens.Decode(token)
	if err != nil {
		service.metrics.TokenVerification(metrics.OutcomeInvalid)
		return nil, fmt.Errorf("%w: %w", ErrInvalidBearer, err)
	}

	user, err := service.identities.LoadByUsername(context, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			service.metrics.TokenVerification(metrics.OutcomeRejected)
			return nil, err
		}
		service.metrics.TokenVerification(metrics.OutcomeError)
		return nil, apperr.Internal(fmt.Errorf("auth_service_identity_load_failed: %w", err))
	}

	service.metrics.TokenVerification(metrics.OutcomeSuccess)
	return sec.NewIdentity(user.Username), nil
}

// # Session Introspection

/*
CurrentUser returns the stored account behind an authenticated identity.

Parameters:
  - context: context.Context
  - identity: *sec.Identity (nil for anonymous requests)

Returns:
  - *User: Hydrated entity
  - err: ErrNotAuthenticated when anonymous or the user no longer resolves
*/
func (service *Service) CurrentUser(context context.Context, identity *sec.Identity) (*User, error) {
	if identity == nil {
		return nil, ErrNotAuthenticated
	}

	user, err := service.identities.LoadByUsername(context, identity.Username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrNotAuthenticated
		}
		return nil, fmt.Errorf("auth_service_current_user_failed: %w", err)
	}

	return user, nil
}

// Logout records the event. Tokens are stateless and stay valid until they expire.
func (service *Service) Logout(context context.Context, identity *sec.Identity) {
	logger := ctxutil.GetLogger(context)
	if identity == nil {
		logger.InfoContext(context, "anonymous_logout")
		return
	}
	logger.InfoContext(context, "user_logged_out", slog.String("username", identity.Username))
}
