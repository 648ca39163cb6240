package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrExpiredToken   = errors.New("token expired")
	ErrMalformedToken = errors.New("malformed token")
)

// JWTManager issues and validates signed bearer tokens. The secret is fixed
// at construction.
type JWTManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewJWTManager(secret string, ttl time.Duration) *JWTManager {
	return &JWTManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// SetNowForTest replaces the clock used for issuing and validating.
func (m *JWTManager) SetNowForTest(now func() time.Time) { m.now = now }

// Claims carries the subject identity. It never changes once issued.
type Claims struct {
	User ClaimUser `json:"user"`
	jwt.RegisteredClaims
}

type ClaimUser struct {
	ID string `json:"id"`
}

// GenerateAccessToken issues a token for userID with the manager's TTL.
func (m *JWTManager) GenerateAccessToken(userID string) (string, time.Time, error) {
	return m.Issue(userID, m.ttl)
}

// Issue signs a token for userID that expires at now+ttl, rounded up to the
// whole second the exp claim can carry.
func (m *JWTManager) Issue(userID string, ttl time.Duration) (string, time.Time, error) {
	now := m.now()
	exp := ceilSecond(now.Add(ttl))
	claims := &Claims{
		User: ClaimUser{ID: userID},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(m.secret)
	return s, exp, err
}

func ceilSecond(t time.Time) time.Time {
	if r := t.Truncate(time.Second); !r.Equal(t) {
		return r.Add(time.Second)
	}
	return t
}

// ParseAccessToken validates tokenStr and returns its claims. It fails with
// ErrExpiredToken after expiry and ErrMalformedToken for anything else that
// does not parse or verify.
func (m *JWTManager) ParseAccessToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrMalformedToken
	}
	if !tkn.Valid || claims.User.ID == "" {
		return nil, ErrMalformedToken
	}
	return claims, nil
}
