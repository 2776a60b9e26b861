// Package password verifies stored employee credentials and upgrades legacy
// plaintext credentials to bcrypt hashes.
package password

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// hashPrefix marks a bcrypt hash ($2a$, $2b$, $2y$).
const hashPrefix = "$2"

// MaxLength is the longest password bcrypt accepts, in bytes.
const MaxLength = 72

// ErrTooLong is returned by Hash for passwords bcrypt would reject.
var ErrTooLong = bcrypt.ErrPasswordTooLong

// Manager hashes and verifies passwords at a fixed bcrypt cost.
type Manager struct {
	cost int
}

// NewManager returns a Manager using cost, or bcrypt.DefaultCost when cost
// is outside bcrypt's accepted range.
func NewManager(cost int) *Manager {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Manager{cost: cost}
}

// IsHashed reports whether stored is a bcrypt hash rather than a legacy
// plaintext password.
func IsHashed(stored string) bool {
	return strings.HasPrefix(stored, hashPrefix)
}

// Hash returns a salted bcrypt hash of plain.
func (m *Manager) Hash(plain string) (string, error) {
	if len(plain) > MaxLength {
		return "", ErrTooLong
	}
	h, err := bcrypt.GenerateFromPassword([]byte(plain), m.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

// VerifyAndMigrate checks supplied against stored.
//
// A bcrypt hash is compared in constant time and never migrated. Any other
// stored value is a legacy plaintext credential: when it equals supplied,
// migrated holds a fresh hash that the caller must persist in its place.
// A legacy credential too long for bcrypt still verifies but yields no
// migrated hash. An invalid password is reported as valid == false with a
// nil error.
func (m *Manager) VerifyAndMigrate(stored, supplied string) (valid bool, migrated string, err error) {
	if IsHashed(stored) {
		err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(supplied))
		switch {
		case err == nil:
			return true, "", nil
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			return false, "", nil
		default:
			return false, "", fmt.Errorf("compare hash: %w", err)
		}
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(supplied)) != 1 {
		return false, "", nil
	}

	migrated, err = m.Hash(supplied)
	if errors.Is(err, ErrTooLong) {
		return true, "", nil
	}
	if err != nil {
		return false, "", err
	}
	return true, migrated, nil
}
