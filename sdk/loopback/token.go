package loopback

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"github.com/opd-ai/commsbridge/sdk"
)

// IssueToken mints an HS256 access token for subject expiring at expiresAt.
// A zero expiresAt produces a token without expiry.
func IssueToken(key []byte, subject string, expiresAt time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:  subject,
		Issuer:   "loopback",
		IssuedAt: jwt.NewNumericDate(time.Now()),
	}
	if !expiresAt.IsZero() {
		claims.ExpiresAt = jwt.NewNumericDate(expiresAt)
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
}

// parseToken checks the structure, and the signature when a key is set.
// Expiry is checked separately so an expired token can be refreshed.
func (s *SDK) parseToken(token string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	var err error
	if len(s.opts.signingKey) > 0 {
		_, err = jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
			return s.opts.signingKey, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithoutClaimsValidation())
	} else {
		_, _, err = jwt.NewParser().ParseUnverified(token, claims)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sdk.ErrInvalidToken, err)
	}
	return claims, nil
}

func (s *SDK) expiredLocked() bool {
	exp := s.claims.ExpiresAt
	return exp != nil && !exp.After(s.opts.now())
}

func (s *SDK) tokenExpired() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expiredLocked()
}

// refresh is handed to the refresh hook. An unusable token is reported as
// an invalid token event and the previous token stays in place.
func (s *SDK) refresh(token string) {
	claims, err := s.parseToken(token)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "refresh",
			"error":    err.Error(),
		}).Warn("Refreshed access token rejected")
		s.emit(sdk.InvalidTokenError{Reason: "invalid token", Description: err.Error()})
		return
	}

	s.mu.Lock()
	s.token = token
	s.claims = claims
	s.refreshes++
	s.mu.Unlock()
}

// ensureToken asks for a new token when the current one has expired.
// The hook runs without holding the SDK lock.
func (s *SDK) ensureToken() error {
	if !s.tokenExpired() {
		return nil
	}
	if s.hook != nil {
		s.hook(s.refresh)
	}
	if s.tokenExpired() {
		s.emit(sdk.InvalidTokenError{
			Reason:      "token expired",
			Description: "access token expired and was not refreshed",
		})
		return fmt.Errorf("%w: token expired", sdk.ErrInvalidToken)
	}
	return nil
}
