package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/re-fagiano/Project-feffoemaurizia/internal/domain"
	"github.com/re-fagiano/Project-feffoemaurizia/internal/repository"
	apperrors "github.com/re-fagiano/Project-feffoemaurizia/pkg/util"
)

// ClientService covers client registry and site management.
type ClientService struct {
	clients repository.ClientRepository
	logger  *zap.Logger
}

// NewClientService constructs the service.
func NewClientService(clients repository.ClientRepository, logger *zap.Logger) *ClientService {
	return &ClientService{clients: clients, logger: logger}
}

// ClientInput carries the editable fields of a client record.
type ClientInput struct {
	CompanyName         string
	VATNumber           *string
	FiscalCode          *string
	PrimaryEmail        string
	SecondaryEmails     []string
	Phones              []string
	InternallyManaged   bool
	ReferenceTechnician *string
	Notes               *string
}

// SiteInput carries the editable fields of a client site.
type SiteInput struct {
	Name         string
	Address      string
	City         *string
	PostalCode   *string
	Province     *string
	Latitude     *float64
	Longitude    *float64
	ContactName  *string
	ContactPhone *string
	ContactEmail *string
	PrimarySite  bool
}

func (in ClientInput) validate() error {
	if strings.TrimSpace(in.CompanyName) == "" {
		return apperrors.NewValidationError("company name is required", nil)
	}
	if !strings.Contains(in.PrimaryEmail, "@") {
		return apperrors.NewValidationError("invalid primary email", map[string]any{"email": in.PrimaryEmail})
	}
	return nil
}

// Create registers a client.
func (s *ClientService) Create(ctx context.Context, input ClientInput) (*domain.Client, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	client := &domain.Client{
		CompanyName:         strings.TrimSpace(input.CompanyName),
		VATNumber:           input.VATNumber,
		FiscalCode:          input.FiscalCode,
		PrimaryEmail:        normalizeEmail(input.PrimaryEmail),
		SecondaryEmails:     input.SecondaryEmails,
		Phones:              input.Phones,
		InternallyManaged:   input.InternallyManaged,
		ReferenceTechnician: input.ReferenceTechnician,
		Notes:               input.Notes,
		Active:              true,
	}
	if client.SecondaryEmails == nil {
		client.SecondaryEmails = []string{}
	}
	if client.Phones == nil {
		client.Phones = []string{}
	}
	if err := s.clients.Create(ctx, client); err != nil {
		if repository.IsUniqueViolation(err, "") {
			return nil, apperrors.NewConflict("a client with this email already exists", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return client, nil
}

// Update edits a client record.
func (s *ClientService) Update(ctx context.Context, id string, input ClientInput) (*domain.Client, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	client, err := s.clients.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	client.CompanyName = strings.TrimSpace(input.CompanyName)
	client.VATNumber = input.VATNumber
	client.FiscalCode = input.FiscalCode
	client.PrimaryEmail = normalizeEmail(input.PrimaryEmail)
	client.InternallyManaged = input.InternallyManaged
	client.ReferenceTechnician = input.ReferenceTechnician
	client.Notes = input.Notes
	if input.SecondaryEmails != nil {
		client.SecondaryEmails = input.SecondaryEmails
	}
	if input.Phones != nil {
		client.Phones = input.Phones
	}

	if err := s.clients.Update(ctx, client); err != nil {
		if repository.IsUniqueViolation(err, "") {
			return nil, apperrors.NewConflict("a client with this email already exists", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return client, nil
}

// Deactivate soft-deletes a client; its history stays queryable.
func (s *ClientService) Deactivate(ctx context.Context, id string) error {
	if err := s.clients.SetActive(ctx, id, false); err != nil {
		return apperrors.MapError(err)
	}
	s.logger.Info("client deactivated", zap.String("client_id", id))
	return nil
}

// Reactivate restores a deactivated client.
func (s *ClientService) Reactivate(ctx context.Context, id string) error {
	if err := s.clients.SetActive(ctx, id, true); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// GetByID fetches a client with its sites.
func (s *ClientService) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	client, err := s.clients.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return client, nil
}

// List returns clients matching the filter.
func (s *ClientService) List(ctx context.Context, filter repository.ClientFilter) ([]domain.Client, error) {
	clients, err := s.clients.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return clients, nil
}

// AddSite attaches a site to a client.
func (s *ClientService) AddSite(ctx context.Context, clientID string, input SiteInput) (*domain.ClientSite, error) {
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Address) == "" {
		return nil, apperrors.NewValidationError("site name and address are required", nil)
	}
	if _, err := s.clients.GetByID(ctx, clientID); err != nil {
		return nil, apperrors.MapError(err)
	}

	site := &domain.ClientSite{
		ClientID:     clientID,
		Name:         strings.TrimSpace(input.Name),
		Address:      strings.TrimSpace(input.Address),
		City:         input.City,
		PostalCode:   input.PostalCode,
		Province:     input.Province,
		Latitude:     input.Latitude,
		Longitude:    input.Longitude,
		ContactName:  input.ContactName,
		ContactPhone: input.ContactPhone,
		ContactEmail: input.ContactEmail,
		PrimarySite:  input.PrimarySite,
		Active:       true,
	}
	if err := s.clients.CreateSite(ctx, site); err != nil {
		return nil, apperrors.MapError(err)
	}
	return site, nil
}

// UpdateSite edits a client site.
func (s *ClientService) UpdateSite(ctx context.Context, clientID, siteID string, input SiteInput) (*domain.ClientSite, error) {
	site, err := s.clients.GetSite(ctx, clientID, siteID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	site.Name = strings.TrimSpace(input.Name)
	site.Address = strings.TrimSpace(input.Address)
	site.City = input.City
	site.PostalCode = input.PostalCode
	site.Province = input.Province
	site.Latitude = input.Latitude
	site.Longitude = input.Longitude
	site.ContactName = input.ContactName
	site.ContactPhone = input.ContactPhone
	site.ContactEmail = input.ContactEmail
	site.PrimarySite = input.PrimarySite

	if err := s.clients.UpdateSite(ctx, site); err != nil {
		return nil, apperrors.MapError(err)
	}
	return site, nil
}

// RemoveSite deletes a client site.
func (s *ClientService) RemoveSite(ctx context.Context, clientID, siteID string) error {
	if err := s.clients.DeleteSite(ctx, clientID, siteID); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// ListSites returns the sites of a client.
func (s *ClientService) ListSites(ctx context.Context, clientID string) ([]domain.ClientSite, error) {
	sites, err := s.clients.ListSites(ctx, clientID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return sites, nil
}
