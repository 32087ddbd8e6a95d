package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"learnhub/apperror"

	"github.com/golang-jwt/jwt/v4"
)

// Claims is the JWT payload issued at login
type Claims struct {
	UserID  uint   `json:"uid"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	IsAdmin bool   `json:"isAdmin"`
	jwt.RegisteredClaims
}

type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs an HS256 token for p.
func (m *TokenManager) Issue(p Principal) (string, error) {
	issuedAt := m.now()
	claims := Claims{
		Role: RoleOf(p),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(m.ttl)),
		},
	}

	switch v := p.(type) {
	case Admin:
		claims.UserID = AdminID
		claims.Email = v.Email
		claims.IsAdmin = true
	case Learner:
		claims.UserID = v.UserID
		claims.Email = v.Email
	default:
		return "", fmt.Errorf("unsupported principal %T", p)
	}
	claims.Subject = strconv.FormatUint(uint64(claims.UserID), 10)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Parse validates a token and rebuilds the principal it was issued for.
func (m *TokenManager) Parse(tokenString string) (Principal, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperror.Auth("Token has expired")
		}
		return nil, apperror.Auth("Invalid token")
	}
	if !token.Valid {
		return nil, apperror.Auth("Invalid token")
	}

	if claims.IsAdmin {
		return Admin{Email: claims.Email}, nil
	}
	if claims.UserID == 0 {
		return nil, apperror.Auth("Invalid token payload")
	}
	return Learner{UserID: claims.UserID, Email: claims.Email, Role: claims.Role}, nil
}
