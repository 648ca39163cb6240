package application

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/devconnector-api/pkg/helpers"
)

// CredentialService hashes secrets and issues/validates bearer tokens. The
// signing secret is supplied once through the JWT manager.
type CredentialService struct {
	jwt *helpers.JWTManager
}

func NewCredentialService(jwt *helpers.JWTManager) *CredentialService {
	return &CredentialService{jwt: jwt}
}

// Hash digests secret. bcrypt only reads 72 bytes, so a longer secret is
// rejected as invalid input.
func (c *CredentialService) Hash(secret string) (string, error) {
	d, err := helpers.HashPassword(secret)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", &ValidationError{Field: "password", Msg: "Please enter a password with 72 or fewer bytes"}
	}
	return d, err
}

func (c *CredentialService) Verify(secret, digest string) bool {
	return helpers.CompareHashAndPassword(digest, secret)
}

// Issue returns a token for subjectID expiring after ttl, or after the
// manager's default lifetime when ttl is zero.
func (c *CredentialService) Issue(subjectID string, ttl time.Duration) (string, error) {
	var (
		tok string
		err error
	)
	if ttl <= 0 {
		tok, _, err = c.jwt.GenerateAccessToken(subjectID)
	} else {
		tok, _, err = c.jwt.Issue(subjectID, ttl)
	}
	return tok, err
}

// Validate returns the subject id carried by token. Failures are
// helpers.ErrExpiredToken or helpers.ErrMalformedToken.
func (c *CredentialService) Validate(token string) (string, error) {
	claims, err := c.jwt.ParseAccessToken(token)
	if err != nil {
		return "", err
	}
	return claims.User.ID, nil
}
