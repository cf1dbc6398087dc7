package identity

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"restro/pkg/domain/model"
)

const issuer = "restro"

type tokenClaims struct {
	Email    string     `json:"email"`
	Role     model.Role `json:"role"`
	Verified bool       `json:"verified"`
	jwt.RegisteredClaims
}

// NewTokenManager signs tokens with HS256. A zero ttl issues tokens without expiry.
func NewTokenManager(secret []byte, ttl time.Duration) model.TokenManager {
	return &tokenManager{
		secret: secret,
		ttl:    ttl,
		now:    time.Now,
	}
}

type tokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func (m *tokenManager) Issue(claims model.Claims) (string, error) {
	issuedAt := m.now()
	registered := jwt.RegisteredClaims{
		Issuer:   issuer,
		Subject:  claims.Subject.String(),
		IssuedAt: jwt.NewNumericDate(issuedAt),
	}
	if m.ttl > 0 {
		registered.ExpiresAt = jwt.NewNumericDate(issuedAt.Add(m.ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		Email:            claims.Email,
		Role:             claims.Role,
		Verified:         claims.Verified,
		RegisteredClaims: registered,
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token")
	}
	return signed, nil
}

func (m *tokenManager) Verify(token string) (model.Claims, error) {
	var claims tokenClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		log.WithError(err).Debug("rejected token")
		return model.Claims{}, model.ErrUnauthorized
	}

	subject, err := uuid.Parse(claims.Subject)
	if err != nil {
		return model.Claims{}, model.ErrUnauthorized
	}
	return model.Claims{
		Subject:  subject,
		Email:    claims.Email,
		Role:     claims.Role,
		Verified: claims.Verified,
	}, nil
}
