package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Cyril-dot/billionBackend/internal/auth"
)

var (
	ErrNotFound       = errors.New("identity: not found")
	ErrEmailTaken     = errors.New("identity: email already registered")
	ErrBadCredentials = errors.New("identity: bad credentials")
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

type RegisterCustomerInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

func (s *Service) RegisterCustomer(ctx context.Context, in RegisterCustomerInput) (*Customer, error) {
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	c := &Customer{
		ID:           uuid.NewString(),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: hash,
	}
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return c, nil
}

type RegisterMerchantInput struct {
	Name        string
	Email       string
	Phone       string
	ShopName    string
	ShopAddress string
	Password    string
}

func (s *Service) RegisterMerchant(ctx context.Context, in RegisterMerchantInput) (*Merchant, error) {
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	m := &Merchant{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Email:        in.Email,
		Phone:        in.Phone,
		ShopName:     in.ShopName,
		ShopAddress:  in.ShopAddress,
		PasswordHash: hash,
	}
	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return m, nil
}

func (s *Service) LoginCustomer(ctx context.Context, email, password string) (*Customer, error) {
	var c Customer
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBadCredentials
		}
		return nil, err
	}
	if !auth.CheckPassword(c.PasswordHash, password) {
		return nil, ErrBadCredentials
	}
	return &c, nil
}

func (s *Service) LoginMerchant(ctx context.Context, email, password string) (*Merchant, error) {
	var m Merchant
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBadCredentials
		}
		return nil, err
	}
	if !auth.CheckPassword(m.PasswordHash, password) {
		return nil, ErrBadCredentials
	}
	return &m, nil
}

func (s *Service) GetCustomer(ctx context.Context, id string) (*Customer, error) {
	var c Customer
	if err := s.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (s *Service) GetMerchant(ctx context.Context, id string) (*Merchant, error) {
	var m Merchant
	if err := s.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}
