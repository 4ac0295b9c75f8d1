package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"arztpraxis/internal/domain"
)

type bcryptChecker struct {
	hash []byte
}

// NewBcryptChecker returns a PasswordChecker that compares against a bcrypt hash.
func NewBcryptChecker(hash string) (domain.PasswordChecker, error) {
	if _, err := bcrypt.Cost([]byte(hash)); err != nil {
		return nil, fmt.Errorf("invalid admin password hash: %w", err)
	}
	return &bcryptChecker{hash: []byte(hash)}, nil
}

// NewPlainPasswordChecker hashes password once with cost and returns a checker for it.
// It exists for deployments that configure the admin password in clear text.
func NewPlainPasswordChecker(password string, cost int) (domain.PasswordChecker, error) {
	if password == "" {
		return nil, errors.New("admin password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	return &bcryptChecker{hash: hash}, nil
}

func (c *bcryptChecker) Check(password string) error {
	if err := bcrypt.CompareHashAndPassword(c.hash, []byte(password)); err != nil {
		return domain.ErrUnauthorized
	}
	return nil
}

type disabledChecker struct{}

// NewDisabledChecker returns a PasswordChecker that rejects every password.
// It is used when no admin password is configured.
func NewDisabledChecker() domain.PasswordChecker {
	return disabledChecker{}
}

func (disabledChecker) Check(string) error {
	return domain.ErrUnauthorized
}
