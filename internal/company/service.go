package company

import (
	"context"
	"errors"

	"github.com/jobpopapp/backend/internal/auth"
	"github.com/jobpopapp/backend/internal/logger"
)

var (
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type Store interface {
	Create(ctx context.Context, name, email, phone, country, passwordHash string) (*Company, error)
	FindByEmail(ctx context.Context, email string) (*Company, error)
	FindByID(ctx context.Context, id int) (*Company, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdateProfile(ctx context.Context, id int, req UpdateProfileRequest) (*Company, error)
}

// PendingChecker settles any in-flight payment when a company comes back to
// the site. Login is the natural moment to catch orders whose IPN never
// arrived.
type PendingChecker interface {
	CheckPendingForCompany(ctx context.Context, companyID int)
}

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*Company, string, string, error)
	Login(ctx context.Context, req LoginRequest) (*Company, string, string, error)
	GetByID(ctx context.Context, companyID int) (*Company, error)
	UpdateProfile(ctx context.Context, companyID int, req UpdateProfileRequest) (*Company, error)
	RefreshToken(ctx context.Context, refreshToken string) (string, *Company, error)
}

type service struct {
	repo      Store
	checker   PendingChecker
	jwtSecret string
}

func NewService(repo Store, checker PendingChecker, jwtSecret string) Service {
	return &service{
		repo:      repo,
		checker:   checker,
		jwtSecret: jwtSecret,
	}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*Company, string, string, error) {
	exists, err := s.repo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, "", "", err
	}
	if exists {
		return nil, "", "", ErrEmailExists
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, "", "", err
	}

	company, err := s.repo.Create(ctx, req.Name, req.Email, req.Phone, req.Country, passwordHash)
	if err != nil {
		return nil, "", "", err
	}

	accessToken, refreshToken, err := auth.GenerateTokens(company.ID, company.Email, s.jwtSecret)
	if err != nil {
		return nil, "", "", err
	}

	logger.Infof("Company registered: id=%d email=%s", company.ID, company.Email)
	return company, accessToken, refreshToken, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*Company, string, string, error) {
	company, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, "", "", ErrInvalidCredentials
	}

	if !auth.CheckPassword(company.PasswordHash, req.Password) {
		return nil, "", "", ErrInvalidCredentials
	}

	accessToken, refreshToken, err := auth.GenerateTokens(company.ID, company.Email, s.jwtSecret)
	if err != nil {
		return nil, "", "", err
	}

	if s.checker != nil {
		// Detached from the request context: the login response must not
		// wait on the payment gateway.
		go s.checker.CheckPendingForCompany(context.Background(), company.ID)
	}

	return company, accessToken, refreshToken, nil
}

func (s *service) GetByID(ctx context.Context, companyID int) (*Company, error) {
	return s.repo.FindByID(ctx, companyID)
}

func (s *service) UpdateProfile(ctx context.Context, companyID int, req UpdateProfileRequest) (*Company, error) {
	return s.repo.UpdateProfile(ctx, companyID, req)
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (string, *Company, error) {
	_, claims, err := auth.RefreshAccessToken(refreshToken, s.jwtSecret)
	if err != nil {
		return "", nil, err
	}

	company, err := s.repo.FindByID(ctx, claims.CompanyID)
	if err != nil {
		return "", nil, ErrCompanyNotFound
	}

	newAccessToken, err := auth.GenerateAccessToken(company.ID, company.Email, s.jwtSecret)
	if err != nil {
		return "", nil, err
	}

	return newAccessToken, company, nil
}
