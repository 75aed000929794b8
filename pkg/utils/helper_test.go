package utils

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func TestBearerToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{"Bearer   abc  ", "abc", true},
		{"Bearer ", "", false},
		{"Basic abc", "", false},
		{"abc", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		r := httptest.NewRequest("GET", "/", nil)
		if tt.header != "" {
			r.Header.Set("Authorization", tt.header)
		}
		got, ok := BearerToken(r)
		if got != tt.want || ok != tt.ok {
			t.Errorf("BearerToken(%q) = %q, %v; want %q, %v", tt.header, got, ok, tt.want, tt.ok)
		}
	}
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.5:4123"
	if got := ClientIP(r); got != "10.0.0.5" {
		t.Fatalf("expected 10.0.0.5, got %s", got)
	}

	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	if got := ClientIP(r); got != "203.0.113.7" {
		t.Fatalf("expected forwarded address, got %s", got)
	}
}

func TestParseInt(t *testing.T) {
	if ParseInt("3", 1) != 3 || ParseInt("x", 1) != 1 || ParseInt("-2", 1) != 1 || ParseInt("", 7) != 7 {
		t.Fatal("unexpected ParseInt result")
	}
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("hunter22")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !CheckPasswordHash("hunter22", hash) || CheckPasswordHash("hunter23", hash) {
		t.Fatal("password check mismatch")
	}
}

func TestUserContext(t *testing.T) {
	ctx := context.Background()
	if _, ok := GetUserIDFromContext(ctx); ok {
		t.Fatal("expected no user on an empty context")
	}

	userID := uuid.New()
	ctx = SetUserContext(ctx, userID, "admin")
	ctx = SetTokenContext(ctx, "session-token")

	if got, ok := GetUserIDFromContext(ctx); !ok || got != userID {
		t.Fatalf("expected %s, got %s", userID, got)
	}
	if role, _ := GetRoleFromContext(ctx); role != "admin" {
		t.Fatalf("expected admin role, got %q", role)
	}
	if token, _ := GetTokenFromContext(ctx); token != "session-token" {
		t.Fatalf("expected token kept alongside the user, got %q", token)
	}
}
