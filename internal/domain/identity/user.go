package identity

import (
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/pdv/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Password cost for bcrypt
const bcryptCost = 12

const (
	minPasswordLength = 6
	maxPasswordLength = 72 // bcrypt input limit
	maxFullNameLength = 200
)

// User is an operator of the point of sale
type User struct {
	shared.BaseEntity
	Email        string
	PasswordHash string
	FullName     string
	Role         Role
	Active       bool
	LastLoginAt  *time.Time
}

// NewUser creates an active user with a hashed password
func NewUser(email, password, fullName string, role Role) (*User, error) {
	email = normalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validateFullName(fullName); err != nil {
		return nil, err
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Role must be one of: admin, manager, cashier")
	}
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	return &User{
		BaseEntity:   shared.NewBaseEntity(),
		Email:        email,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(fullName),
		Role:         role,
		Active:       true,
	}, nil
}

// VerifyPassword verifies if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// placeholderHash is a bcrypt hash at bcryptCost that matches no password a
// client can send.
var placeholderHash = sync.OnceValue(func() []byte {
	hash, err := bcrypt.GenerateFromPassword([]byte("pdv:no-such-user"), bcryptCost)
	if err != nil {
		panic("identity: generate placeholder hash: " + err.Error())
	}
	return hash
})

// VerifyMissingUserPassword spends the same bcrypt work as VerifyPassword for
// an email with no account, so response time does not reveal which emails
// are registered. It always reports false.
func VerifyMissingUserPassword(password string) bool {
	_ = bcrypt.CompareHashAndPassword(placeholderHash(), []byte(password))
	return false
}

// ChangePassword changes the user's password after checking the current one
func (u *User) ChangePassword(currentPassword, newPassword string) error {
	if !u.VerifyPassword(currentPassword) {
		return shared.NewDomainError("INVALID_PASSWORD", "Current password is incorrect")
	}
	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	u.Touch()
	return nil
}

// CanLogin reports whether the account may authenticate
func (u *User) CanLogin() error {
	if !u.Active {
		return shared.NewDomainError("ACCOUNT_DISABLED", "User account is disabled")
	}
	return nil
}

// Enable reactivates a disabled account
func (u *User) Enable() error {
	if u.Active {
		return shared.NewDomainError("ALREADY_ACTIVE", "User is already active")
	}
	u.Active = true
	u.Touch()
	return nil
}

// Disable soft-disables the account; users are never deleted
func (u *User) Disable() error {
	if !u.Active {
		return shared.NewDomainError("ALREADY_DISABLED", "User is already disabled")
	}
	u.Active = false
	u.Touch()
	return nil
}

// RecordLogin stamps the last successful login
func (u *User) RecordLogin(at time.Time) {
	u.LastLoginAt = &at
	u.UpdatedAt = at
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}

func validateFullName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Full name cannot be empty")
	}
	if len(name) > maxFullNameLength {
		return shared.NewDomainError("INVALID_NAME", "Full name cannot exceed 200 characters")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	if len(password) < minPasswordLength {
		return "", shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 6 characters")
	}
	if len(password) > maxPasswordLength {
		return "", shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	return string(hash), nil
}
