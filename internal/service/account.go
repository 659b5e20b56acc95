package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"unicode"

	"fruitables-shop/internal/config"
	"fruitables-shop/internal/dto"
	"fruitables-shop/internal/model"
	"fruitables-shop/internal/repository"
	"fruitables-shop/internal/token"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AccountService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
}

type accountServiceImpl struct {
	customerRepo repository.CustomerRepository
	jwtCfg       config.JWT
}

func NewAccountService(customerRepo repository.CustomerRepository, jwtCfg config.JWT) AccountService {
	return &accountServiceImpl{
		customerRepo: customerRepo,
		jwtCfg:       jwtCfg,
	}
}

func (s *accountServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	emailTaken, err := s.customerRepo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if emailTaken {
		return nil, ErrEmailTaken
	}

	username := generateUsername(req.FullName)
	for {
		taken, err := s.customerRepo.UsernameExists(ctx, username)
		if err != nil {
			return nil, fmt.Errorf("check username: %w", err)
		}
		if !taken {
			break
		}
		username = generateUsername(req.FullName)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	customer := &model.Customer{
		Username:     username,
		PasswordHash: string(hash),
		FullName:     req.FullName,
		Email:        req.Email,
		Phone:        req.PhoneNumber,
		Address:      req.Address,
		Gender:       req.Gender,
		Active:       true,
		Role:         model.RoleCustomer,
		Image:        "default-avatar.jpg",
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}

	return &dto.RegisterResponse{Username: username}, nil
}

func (s *accountServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	customer, err := s.customerRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find customer: %w", err)
	}

	if !customer.Active {
		return nil, ErrAccountDisabled
	}

	if bcrypt.CompareHashAndPassword([]byte(customer.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	accessToken, err := token.Generate(s.jwtCfg.Secret, s.jwtCfg.AccessTTL, customer.Username, customer.FullName, customer.Role)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &dto.LoginResponse{
		AccessToken: accessToken,
		Username:    customer.Username,
		FullName:    customer.FullName,
		Role:        customer.Role,
	}, nil
}

// generateUsername builds a username from the lowercased last name plus a
// random 4-digit suffix, e.g. "nguyen8472".
func generateUsername(fullName string) string {
	fields := strings.FieldsFunc(fullName, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	base := "customer"
	if len(fields) > 0 {
		base = strings.ToLower(fields[len(fields)-1])
	}

	return fmt.Sprintf("%s%04d", base, rand.Intn(10000))
}
