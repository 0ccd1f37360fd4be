package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskboard/taskboard-api/internal/core/domain"
	"github.com/taskboard/taskboard-api/internal/core/ports"
)

const testSecret = "test-secret"

type stubUserRepo struct {
	byID      map[string]*domain.User
	byEmail   map[string]*domain.User
	nextID    int
	createErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]*domain.User),
	}
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	if _, ok := r.byEmail[u.Email]; ok {
		return nil, domain.ErrUserExists
	}
	r.nextID++
	clone := *u
	clone.ID = fmt.Sprintf("user-%d", r.nextID)
	r.byID[clone.ID] = &clone
	r.byEmail[clone.Email] = &clone
	out := clone
	return &out, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) FindAll(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.byID))
	for _, u := range r.byID {
		clone := *u
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubUserRepo) UpdateByID(_ context.Context, id string, update ports.UserUpdate) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if update.Name != nil {
		u.Name = *update.Name
	}
	if update.Email != nil {
		delete(r.byEmail, u.Email)
		u.Email = *update.Email
		r.byEmail[u.Email] = u
	}
	u.UpdatedAt = time.Now().UTC()
	clone := *u
	return &clone, nil
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, testSecret, time.Hour)

	res, err := svc.Register(context.Background(), "Alice", "alice@example.com", "s3cret99")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.User.ID == "" {
		t.Error("registered user must have an id")
	}
	if res.User.Email != "alice@example.com" {
		t.Errorf("unexpected email %q", res.User.Email)
	}
	if res.Token == "" {
		t.Error("registration must return a token")
	}
	if res.User.PasswordHash == "s3cret99" {
		t.Error("password must not be stored in clear text")
	}
	if bcrypt.CompareHashAndPassword([]byte(res.User.PasswordHash), []byte("s3cret99")) != nil {
		t.Error("stored hash must verify against the original password")
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, testSecret, time.Hour)

	if _, err := svc.Register(context.Background(), "Alice", "alice@example.com", "s3cret99"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := svc.Register(context.Background(), "Imposter", "alice@example.com", "other")
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Register_EmptyFields(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), testSecret, time.Hour)

	for _, tc := range []struct{ name, email, password string }{
		{"", "alice@example.com", "pw"},
		{"Alice", "", "pw"},
		{"Alice", "alice@example.com", ""},
	} {
		if _, err := svc.Register(context.Background(), tc.name, tc.email, tc.password); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Errorf("Register(%q, %q, %q): expected ErrInvalidCredentials, got %v", tc.name, tc.email, tc.password, err)
		}
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, testSecret, time.Hour)

	reg, err := svc.Register(context.Background(), "Alice", "alice@example.com", "s3cret99")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res, err := svc.Login(context.Background(), "alice@example.com", "s3cret99")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.User.ID != reg.User.ID {
		t.Errorf("login returned user %q, expected %q", res.User.ID, reg.User.ID)
	}

	token, err := jwt.Parse(res.Token, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return []byte(testSecret), nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("login token does not verify: %v", err)
	}
	claims := token.Claims.(jwt.MapClaims)
	if claims["user_id"] != reg.User.ID {
		t.Errorf("token user_id %v, expected %q", claims["user_id"], reg.User.ID)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, testSecret, time.Hour)

	if _, err := svc.Register(context.Background(), "Alice", "alice@example.com", "s3cret99"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := svc.Login(context.Background(), "alice@example.com", "wrong")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), testSecret, time.Hour)

	// Unknown account and bad password are indistinguishable to the caller.
	_, err := svc.Login(context.Background(), "nobody@example.com", "pw")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestUserService_UpdateProfile(t *testing.T) {
	repo := newStubUserRepo()
	auth := NewAuthService(repo, testSecret, time.Hour)
	svc := NewUserService(repo, discardLogger)

	reg, err := auth.Register(context.Background(), "Alice", "alice@example.com", "s3cret99")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	newName := "Alice B."
	updated, err := svc.UpdateProfile(context.Background(), reg.User.ID, ports.UserUpdate{Name: &newName})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Name != newName {
		t.Errorf("expected name %q, got %q", newName, updated.Name)
	}
	if updated.Email != "alice@example.com" {
		t.Errorf("untouched email must survive, got %q", updated.Email)
	}
}

func TestUserService_UpdateProfile_UnknownUser(t *testing.T) {
	svc := NewUserService(newStubUserRepo(), discardLogger)

	name := "ghost"
	_, err := svc.UpdateProfile(context.Background(), "missing", ports.UserUpdate{Name: &name})
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_ListUsers(t *testing.T) {
	repo := newStubUserRepo()
	auth := NewAuthService(repo, testSecret, time.Hour)
	svc := NewUserService(repo, discardLogger)

	for _, email := range []string{"a@example.com", "b@example.com"} {
		if _, err := auth.Register(context.Background(), "u", email, "s3cret99"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	users, err := svc.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(users) != 2 {
		t.Errorf("expected 2 users, got %d", len(users))
	}
}
