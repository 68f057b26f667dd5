// Package jwttoken validates bearer tokens issued by the auth service and
// extracts the couple identity from their claims.
package jwttoken

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	dErrors "territory/pkg/domainerrors"
)

// coupleClaimKeys lists the claim-name synonyms the identity service has
// used across token iterations, in precedence order. The first key with a
// non-empty value wins; "sub" is the final fallback.
var coupleClaimKeys = []string{"coupleId", "couple_id", "coupleID", "couple", "couple-id", "sub"}

// Service validates HS256 tokens and resolves couple identities.
type Service struct {
	signingKey []byte
}

func New(signingKey string) *Service {
	return &Service{signingKey: []byte(signingKey)}
}

// ResolveCoupleID validates the token and returns the couple identifier
// from its claims. The identifier is an opaque non-blank string; numeric and
// single-element array claim values are coerced.
func (s *Service) ResolveCoupleID(tokenString string) (string, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return "", dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	if !parsed.Valid {
		return "", dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	coupleID := CoupleIDFromClaims(claims)
	if coupleID == "" {
		return "", dErrors.New(dErrors.CodeUnauthorized, "token carries no couple identity")
	}
	return coupleID, nil
}

// CoupleIDFromClaims scans the synonym keys in order and returns the first
// non-empty value, or "".
func CoupleIDFromClaims(claims map[string]any) string {
	for _, key := range coupleClaimKeys {
		if v := claimString(claims[key]); v != "" {
			return v
		}
	}
	return ""
}

func claimString(v any) string {
	switch value := v.(type) {
	case string:
		return strings.TrimSpace(value)
	case float64:
		// JSON numbers decode as float64; couple ids are integral.
		return fmt.Sprintf("%.0f", value)
	case int64:
		return fmt.Sprintf("%d", value)
	case []any:
		if len(value) > 0 {
			return claimString(value[0])
		}
	}
	return ""
}
