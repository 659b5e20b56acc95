package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"fruitables-shop/internal/config"
	"fruitables-shop/internal/dto"
	"fruitables-shop/internal/repository"
	"fruitables-shop/internal/token"

	"gorm.io/gorm"
)

func newTestAccountService(t *testing.T, db *gorm.DB) AccountService {
	t.Helper()
	return NewAccountService(repository.NewCustomerRepository(db), config.JWT{
		Secret:    "test-jwt-secret",
		AccessTTL: time.Hour,
	})
}

func registerReq() *dto.RegisterRequest {
	return &dto.RegisterRequest{
		FullName:    "Nguyen Van A",
		Email:       "a@example.com",
		Password:    "s3cret-pass",
		PhoneNumber: "0900000000",
		Address:     "1 Tran Hung Dao",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	svc := newTestAccountService(t, db)
	ctx := context.Background()

	registered, err := svc.Register(ctx, registerReq())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if registered.Username == "" {
		t.Fatal("expected generated username")
	}

	login, err := svc.Login(ctx, &dto.LoginRequest{
		Username: registered.Username,
		Password: "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if login.AccessToken == "" {
		t.Fatal("expected access token")
	}

	claims, err := token.Parse("test-jwt-secret", login.AccessToken)
	if err != nil {
		t.Fatalf("parse issued token: %v", err)
	}
	if claims.Subject != registered.Username {
		t.Errorf("expected token subject %s, got %s", registered.Username, claims.Subject)
	}
	if claims.FullName != "Nguyen Van A" {
		t.Errorf("expected full name claim, got %s", claims.FullName)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	svc := newTestAccountService(t, db)
	ctx := context.Background()

	if _, err := svc.Register(ctx, registerReq()); err != nil {
		t.Fatalf("first register: %v", err)
	}

	_, err := svc.Register(ctx, registerReq())
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	db := newTestDB(t)
	svc := newTestAccountService(t, db)
	ctx := context.Background()

	registered, err := svc.Register(ctx, registerReq())
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	_, err = svc.Login(ctx, &dto.LoginRequest{
		Username: registered.Username,
		Password: "wrong",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_UnknownUser(t *testing.T) {
	db := newTestDB(t)
	svc := newTestAccountService(t, db)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Username: "nobody",
		Password: "whatever",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_DisabledAccount(t *testing.T) {
	db := newTestDB(t)
	svc := newTestAccountService(t, db)
	ctx := context.Background()

	registered, err := svc.Register(ctx, registerReq())
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := db.Table("customers").
		Where("username = ?", registered.Username).
		Update("active", false).Error; err != nil {
		t.Fatalf("disable account: %v", err)
	}

	_, err = svc.Login(ctx, &dto.LoginRequest{
		Username: registered.Username,
		Password: "s3cret-pass",
	})
	if !errors.Is(err, ErrAccountDisabled) {
		t.Errorf("expected ErrAccountDisabled, got %v", err)
	}
}
