package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	// ErrEmailTaken indicates an account with the email already exists.
	ErrEmailTaken = errors.New("users: email already registered")
	// ErrInvalidCredentials is returned for both unknown-email and
	// wrong-password failures so callers cannot distinguish them.
	ErrInvalidCredentials = errors.New("users: invalid email or password")
	// ErrUserNotFound indicates the requested account does not exist.
	ErrUserNotFound = errors.New("users: user not found")
	// ErrSelfDelete indicates an admin attempted to delete their own account.
	ErrSelfDelete = errors.New("users: cannot delete own account")
	// ErrInvalidRole indicates a role outside the assignable set.
	ErrInvalidRole = errors.New("users: invalid role")

	errMissingDatabase   = errors.New("users: database connection required")
	errMissingIDProvider = errors.New("users: id provider required")
)

// IDProvider issues identifiers for new accounts.
type IDProvider interface {
	NewID() (string, error)
}

// ServiceConfig describes the dependencies required for account management.
type ServiceConfig struct {
	Database   *gorm.DB
	Clock      func() time.Time
	IDProvider IDProvider
}

// Service manages account records: creation, authentication, listing,
// deletion, and the one-time admin bootstrap.
type Service struct {
	db         *gorm.DB
	now        func() time.Time
	idProvider IDProvider
}

// NewService constructs the account service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Database == nil {
		return nil, errMissingDatabase
	}
	if cfg.IDProvider == nil {
		return nil, errMissingIDProvider
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Service{
		db:         cfg.Database,
		now:        clock,
		idProvider: cfg.IDProvider,
	}, nil
}

// Create registers a new account. The email is case-folded before storage;
// a blank role falls back to the legacy default.
func (s *Service) Create(ctx context.Context, email, password, role string) (User, error) {
	email = NormalizeEmail(email)
	if email == "" || strings.TrimSpace(password) == "" {
		return User{}, fmt.Errorf("users: email and password are required")
	}
	if role == "" {
		role = RoleLegacyUser
	}
	if !ValidRole(role) {
		return User{}, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}

	var existing User
	err := s.db.WithContext(ctx).Where("email = ?", email).Take(&existing).Error
	if err == nil {
		return User{}, ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("users: hashing password: %w", err)
	}

	id, err := s.idProvider.NewID()
	if err != nil {
		return User{}, err
	}

	user := User{
		ID:           id,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    s.now().UTC(),
		UpdatedAt:    s.now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return User{}, err
	}
	return user, nil
}

// Authenticate verifies the email/password pair and returns the account.
func (s *Service) Authenticate(ctx context.Context, email, password string) (User, error) {
	var user User
	err := s.db.WithContext(ctx).Where("email = ?", NormalizeEmail(email)).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return User{}, ErrInvalidCredentials
	}
	if err != nil {
		return User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return user, nil
}

// GetByID loads a single account.
func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	var user User
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		return User{}, err
	}
	return user, nil
}

// List returns all accounts ordered by creation time.
func (s *Service) List(ctx context.Context) ([]User, error) {
	var accounts []User
	if err := s.db.WithContext(ctx).Order("created_at ASC").Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

// Delete removes the target account. The acting admin may not delete
// themselves.
func (s *Service) Delete(ctx context.Context, actorID, targetID string) error {
	if actorID == targetID {
		return ErrSelfDelete
	}
	result := s.db.WithContext(ctx).Where("id = ?", targetID).Delete(&User{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// EnsureAdmin creates an admin account if no account holds the email yet.
// It reports whether a new account was created, so bootstrap scripts can
// run repeatedly without error.
func (s *Service) EnsureAdmin(ctx context.Context, email, password string) (User, bool, error) {
	var existing User
	err := s.db.WithContext(ctx).Where("email = ?", NormalizeEmail(email)).Take(&existing).Error
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return User{}, false, err
	}
	created, err := s.Create(ctx, email, password, RoleAdmin)
	if err != nil {
		return User{}, false, err
	}
	return created, true, nil
}
