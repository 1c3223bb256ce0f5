package services

import (
	"context"
	"errors"
	"testing"

	"github.com/jrdcruz/pageant-system/models"
	"golang.org/x/crypto/bcrypt"
)

func seedLoginUser(t *testing.T, users *fakeUserRepo, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &models.User{
		Username:     "judge1",
		Email:        "judge1@school.edu.ph",
		PasswordHash: string(hash),
		Role:         models.RoleJudge,
	}
	if err := users.Create(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials", func(t *testing.T) {
		users := newFakeUserRepo()
		seedLoginUser(t, users, "open sesame")
		service := NewAuthService(users)

		user, err := service.Login(ctx, LoginInput{Email: "judge1@school.edu.ph", Password: "open sesame"})
		if err != nil {
			t.Fatalf("Login: %v", err)
		}
		if user.Role != models.RoleJudge {
			t.Errorf("role = %q, want Judge", user.Role)
		}
		if user.PasswordHash != "" {
			t.Errorf("hash leaked in login response")
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		users := newFakeUserRepo()
		seedLoginUser(t, users, "open sesame")
		service := NewAuthService(users)

		_, err := service.Login(ctx, LoginInput{Email: "judge1@school.edu.ph", Password: "close sesame"})
		if !errors.Is(err, ErrAuthInvalidCredentials) {
			t.Errorf("got %v, want ErrAuthInvalidCredentials", err)
		}
	})

	t.Run("unknown email maps to the same error", func(t *testing.T) {
		service := NewAuthService(newFakeUserRepo())

		_, err := service.Login(ctx, LoginInput{Email: "nobody@school.edu.ph", Password: "whatever!"})
		if !errors.Is(err, ErrAuthInvalidCredentials) {
			t.Errorf("got %v, want ErrAuthInvalidCredentials", err)
		}
	})
}

func TestGetProfileByID(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserRepo()
	seeded := seedLoginUser(t, users, "open sesame")
	service := NewAuthService(users)

	profile, err := service.GetProfileByID(ctx, seeded.ID)
	if err != nil {
		t.Fatalf("GetProfileByID: %v", err)
	}
	if profile.Email != seeded.Email {
		t.Errorf("email = %q, want %q", profile.Email, seeded.Email)
	}
	if profile.PasswordHash != "" {
		t.Errorf("hash leaked in profile")
	}

	if _, err := service.GetProfileByID(ctx, 404); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("got %v, want ErrUserNotFound", err)
	}
}
