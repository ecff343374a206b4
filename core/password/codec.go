// Package password produces and recognises hashed credentials.
package password

import (
	"fmt"
	"regexp"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrCodecFailure = errors.New("password hashing failed")
	ErrMismatch     = errors.New("password does not match")
	ErrInvalidCost  = errors.New("invalid bcrypt cost")

	// $2a$|$2b$|$2y$, 2-digit cost, 22 chars salt + 31 chars checksum
	bcryptRegex = regexp.MustCompile(`^\$2[aby]\$\d{2}\$[./A-Za-z0-9]{53}$`)
)

// Codec hashes plaintext passwords and tells hashed values apart from legacy plaintext ones.
type Codec interface {
	// Hash returns a salted hash of plaintext. Two calls with the same input never return the same value.
	Hash(plaintext string) (string, error)
	// IsHashed reports whether value has the structure of a hash produced by this Codec.
	IsHashed(value string) bool
	// Check returns ErrMismatch if plaintext does not match hash.
	Check(hash, plaintext string) error
}

type BcryptCodec struct {
	cost int
}

var _ Codec = (*BcryptCodec)(nil) // interface compliance check

func NewBcryptCodec(cost int) (*BcryptCodec, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, errors.Wrapf(ErrInvalidCost, "%d not in [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &BcryptCodec{cost: cost}, nil
}

func (c *BcryptCodec) Cost() int { return c.cost }

func (c *BcryptCodec) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), c.cost)
	if err != nil {
		return "", errors.WithStack(fmt.Errorf("%w: %v", ErrCodecFailure, err))
	}
	return string(hash), nil
}

func (c *BcryptCodec) IsHashed(value string) bool {
	return bcryptRegex.MatchString(value)
}

func (c *BcryptCodec) Check(hash, plaintext string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err == nil {
		return nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrMismatch
	}
	return errors.Wrap(err, "checking password")
}
