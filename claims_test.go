package gatekeeper_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	gatekeeper "github.com/goliatone/go-gatekeeper"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeRoles(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{"nil stays nil", nil, nil},
		{"empty stays nil", []string{}, nil},
		{"duplicates collapse", []string{"admin", "user", "admin", "user"}, []string{"admin", "user"}},
		{"empty entries dropped", []string{"", "admin", ""}, []string{"admin"}},
		{"order preserved", []string{"user", "admin"}, []string{"user", "admin"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, gatekeeper.NormalizeRoles(tt.input))
		})
	}
}

func TestJWTClaimsAccessors(t *testing.T) {
	now := time.Now()
	claims := &gatekeeper.JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "alice",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		Uname:     "alice",
		UserRoles: []string{"admin"},
	}

	assert.Equal(t, "alice", claims.Subject())
	assert.Equal(t, "alice", claims.Username())
	assert.True(t, claims.HasRole("admin"))
	assert.False(t, claims.HasRole("user"))
	assert.WithinDuration(t, now, claims.IssuedAt(), time.Second)
	assert.WithinDuration(t, now.Add(time.Hour), claims.Expires(), time.Second)
}

func TestJWTClaimsUsernameFallsBackToSubject(t *testing.T) {
	claims := &gatekeeper.JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "alice"},
	}

	assert.Equal(t, "alice", claims.Username())
}

func TestJWTClaimsZeroTimes(t *testing.T) {
	claims := &gatekeeper.JWTClaims{}

	assert.True(t, claims.Expires().IsZero())
	assert.True(t, claims.IssuedAt().IsZero())
}
