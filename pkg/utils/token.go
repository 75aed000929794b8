package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidCheckoutToken = errors.New("invalid checkout token")
	ErrCheckoutTokenExpired = errors.New("checkout token expired")
)

// CheckoutClaims ties a stored bill to the user who made the booking.
type CheckoutClaims struct {
	CheckoutID uuid.UUID `json:"cid"`
	UserID     uuid.UUID `json:"uid"`
	jwt.RegisteredClaims
}

// GenerateCheckoutToken signs an HS256 token valid for ttl starting at issuedAt.
func GenerateCheckoutToken(secret []byte, checkoutID, userID uuid.UUID, issuedAt time.Time, ttl time.Duration) (string, time.Time, error) {
	expiresAt := issuedAt.Add(ttl)
	claims := CheckoutClaims{
		CheckoutID: checkoutID,
		UserID:     userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        checkoutID.String(),
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign checkout token: %w", err)
	}
	return signed, expiresAt, nil
}

// ParseCheckoutToken verifies signature and expiry. An expired token yields
// ErrCheckoutTokenExpired; every other failure wraps ErrInvalidCheckoutToken.
func ParseCheckoutToken(secret []byte, tokenString string) (*CheckoutClaims, error) {
	claims := &CheckoutClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	}, jwt.WithExpirationRequired())
	if errors.Is(err, jwt.ErrTokenExpired) {
		return nil, ErrCheckoutTokenExpired
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCheckoutToken, err)
	}
	if !token.Valid || claims.CheckoutID == uuid.Nil || claims.UserID == uuid.Nil {
		return nil, ErrInvalidCheckoutToken
	}
	return claims, nil
}
