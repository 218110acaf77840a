// Package auth implements the static administrator gate. The configured PIN
// is hashed at startup; verification goes through bcrypt so the plain PIN is
// never held past construction.
package auth

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/service-desk/internal/config"
)

// Gate checks administrator PIN entries.
type Gate struct {
	pinHash string
}

// NewGate hashes the configured PIN with the configured cost.
func NewGate(cfg config.AdminConfig) (*Gate, error) {
	hashed, err := HashPIN(cfg.PIN, cfg.BcryptCost)
	if err != nil {
		return nil, err
	}
	return &Gate{pinHash: hashed}, nil
}

// Verify reports whether the entered PIN matches.
func (g *Gate) Verify(pin string) bool {
	return ComparePIN(g.pinHash, pin) == nil
}

// HashPIN hashes a plaintext PIN with configured cost.
func HashPIN(pin string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(pin), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePIN verifies a PIN against its hashed value.
func ComparePIN(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}
