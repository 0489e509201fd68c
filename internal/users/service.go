package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cukedoh/bakery-backend/pkg/db/models"
	pkgerrors "github.com/cukedoh/bakery-backend/pkg/errors"
)

// Repository is the profile read surface the service consumes.
type Repository interface {
	FindUser(ctx context.Context, id string) (*models.User, error)
	FindAddress(ctx context.Context, id uuid.UUID) (*models.CustomerAddress, error)
	ListAddresses(ctx context.Context, userID string) ([]models.CustomerAddress, error)
}

// Contact is the resolved recipient for one checkout: who to call and,
// for delivery orders, where to ship.
type Contact struct {
	Name            string
	Phone           string
	Email           *string
	DeliveryAddress *string
}

// Service resolves member profiles and saved addresses for checkout.
type Service interface {
	GetProfile(ctx context.Context, userID string) (*models.User, error)
	ListAddresses(ctx context.Context, userID string) ([]models.CustomerAddress, error)
	ResolveContact(ctx context.Context, userID string, addressID *uuid.UUID) (*Contact, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	user, err := s.repo.FindUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find user")
	}
	return user, nil
}

func (s *service) ListAddresses(ctx context.Context, userID string) ([]models.CustomerAddress, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	addresses, err := s.repo.ListAddresses(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list addresses")
	}
	return addresses, nil
}

// ResolveContact builds the checkout recipient. With an address id the saved
// address supplies name, phone and the shipping line; otherwise the profile
// supplies the contact and no shipping line is set.
func (s *service) ResolveContact(ctx context.Context, userID string, addressID *uuid.UUID) (*Contact, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	contact := &Contact{Name: user.Name}
	if user.Email != "" {
		email := user.Email
		contact.Email = &email
	}
	if user.Phone != nil {
		contact.Phone = *user.Phone
	}

	if addressID == nil || *addressID == uuid.Nil {
		return contact, nil
	}

	address, err := s.repo.FindAddress(ctx, *addressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find address")
	}
	if address.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
	}

	contact.Name = address.Name
	contact.Phone = address.Phone
	line := formatAddress(address)
	contact.DeliveryAddress = &line
	return contact, nil
}

func formatAddress(a *models.CustomerAddress) string {
	parts := []string{a.AddressLine}
	for _, p := range []*string{a.District, a.Province, a.PostalCode} {
		if p != nil && strings.TrimSpace(*p) != "" {
			parts = append(parts, strings.TrimSpace(*p))
		}
	}
	return strings.Join(parts, ", ")
}
