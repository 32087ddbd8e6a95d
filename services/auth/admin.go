package auth

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// AdminAccount is the configured administrator. The password hash is computed
// once in NewAdminAccount and never changes for the life of the process.
type AdminAccount struct {
	Email    string
	Username string
	FullName string

	passwordHash []byte
}

func NewAdminAccount(email, username, fullName, password string, cost int) (*AdminAccount, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, err
	}
	return &AdminAccount{
		Email:        strings.TrimSpace(email),
		Username:     username,
		FullName:     fullName,
		passwordHash: hash,
	}, nil
}

// Matches compares an email against the admin address, ignoring case.
func (a *AdminAccount) Matches(email string) bool {
	return strings.EqualFold(strings.TrimSpace(email), a.Email)
}

func (a *AdminAccount) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password)) == nil
}
