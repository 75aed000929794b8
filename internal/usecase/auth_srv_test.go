package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"cinebook/internal/data/entity"
	"cinebook/internal/data/repository"
	"cinebook/internal/dto/request"
	"cinebook/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type fakeAccountRepo struct {
	repository.UserRepository
	users []*entity.User
}

func (r *fakeAccountRepo) Create(_ context.Context, user *entity.User) error {
	r.users = append(r.users, user)
	return nil
}

func (r *fakeAccountRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeAccountRepo) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

type fakeSessionStore struct {
	repository.SessionRepository
	created []*entity.Session
}

func (r *fakeSessionStore) Create(_ context.Context, session *entity.Session) error {
	r.created = append(r.created, session)
	return nil
}

func (r *fakeSessionStore) Revoke(_ context.Context, token string) error {
	for _, s := range r.created {
		if s.Token.String() == token && s.RevokedAt == nil {
			now := time.Now()
			s.RevokedAt = &now
			return nil
		}
	}
	return repository.ErrNotFound
}

func newAuthFixture() (AuthService, *fakeAccountRepo, *fakeSessionStore) {
	users := &fakeAccountRepo{}
	sessions := &fakeSessionStore{}
	repo := &repository.Repository{User: users, Session: sessions}
	config := &utils.Config{Session: utils.SessionConfig{ExpiryHours: 24}}
	return NewAuthService(repo, config, zap.NewNop()), users, sessions
}

func TestRegister_CreatesUserAndSession(t *testing.T) {
	svc, users, sessions := newAuthFixture()

	resp, err := svc.Register(context.Background(), &request.RegisterRequest{
		Username: "alice",
		Email:    "Alice@Example.com",
		Password: "secret123",
	}, ClientInfo{UserAgent: "test", IPAddress: "10.0.0.1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if len(users.users) != 1 || users.users[0].Email != "alice@example.com" {
		t.Fatalf("expected normalised email stored, got %+v", users.users)
	}
	if users.users[0].PasswordHash == "secret123" {
		t.Fatal("password stored in clear text")
	}
	if resp.Role != entity.RoleCustomer || resp.Token == "" {
		t.Fatalf("expected customer with a session token, got %+v", resp)
	}
	if len(sessions.created) != 1 || *sessions.created[0].IPAddress != "10.0.0.1" {
		t.Fatal("expected session recorded with client info")
	}
}

func TestRegister_Duplicate(t *testing.T) {
	svc, _, _ := newAuthFixture()
	req := &request.RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "secret123"}

	if _, err := svc.Register(context.Background(), req, ClientInfo{}); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, err := svc.Register(context.Background(), req, ClientInfo{})
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	svc, users, _ := newAuthFixture()
	hash, err := utils.HashPassword("secret123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	users.users = append(users.users,
		&entity.User{Base: entity.Base{ID: uuid.New()}, Username: "bob", Email: "bob@example.com", PasswordHash: hash, Role: entity.RoleCustomer, IsActive: true},
		&entity.User{Base: entity.Base{ID: uuid.New()}, Username: "carol", Email: "carol@example.com", PasswordHash: hash, Role: entity.RoleCustomer},
	)

	tests := []struct {
		name       string
		identifier string
		password   string
		wantErr    error
	}{
		{name: "by username", identifier: "bob", password: "secret123"},
		{name: "by email", identifier: "bob@example.com", password: "secret123"},
		{name: "wrong password", identifier: "bob", password: "wrong-pass", wantErr: ErrInvalidCredentials},
		{name: "unknown user", identifier: "dave", password: "secret123", wantErr: ErrInvalidCredentials},
		{name: "inactive", identifier: "carol", password: "secret123", wantErr: ErrAccountInactive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.Login(context.Background(), &request.LoginRequest{Username: tt.identifier, Password: tt.password}, ClientInfo{})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("login: %v", err)
			}
			if resp.Username != "bob" || resp.Token == "" {
				t.Fatalf("unexpected response %+v", resp)
			}
		})
	}
}

func TestLogout_UnknownSession(t *testing.T) {
	svc, _, _ := newAuthFixture()

	err := svc.Logout(context.Background(), uuid.NewString())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
