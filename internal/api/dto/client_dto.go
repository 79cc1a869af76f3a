package dto

import (
	"time"

	"github.com/re-fagiano/Project-feffoemaurizia/internal/domain"
)

// ClientRequest payload for create and update.
type ClientRequest struct {
	CompanyName         string   `json:"company_name"`
	VATNumber           *string  `json:"vat_number"`
	FiscalCode          *string  `json:"fiscal_code"`
	PrimaryEmail        string   `json:"primary_email"`
	SecondaryEmails     []string `json:"secondary_emails"`
	Phones              []string `json:"phones"`
	InternallyManaged   bool     `json:"internally_managed"`
	ReferenceTechnician *string  `json:"reference_technician"`
	Notes               *string  `json:"notes"`
}

// SiteRequest payload for create and update.
type SiteRequest struct {
	Name         string   `json:"name"`
	Address      string   `json:"address"`
	City         *string  `json:"city"`
	PostalCode   *string  `json:"postal_code"`
	Province     *string  `json:"province"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	ContactName  *string  `json:"contact_name"`
	ContactPhone *string  `json:"contact_phone"`
	ContactEmail *string  `json:"contact_email"`
	PrimarySite  bool     `json:"primary_site"`
}

// ClientResponse is the public view of a client.
type ClientResponse struct {
	ID                  string         `json:"id"`
	CompanyName         string         `json:"company_name"`
	VATNumber           *string        `json:"vat_number"`
	FiscalCode          *string        `json:"fiscal_code"`
	PrimaryEmail        string         `json:"primary_email"`
	SecondaryEmails     []string       `json:"secondary_emails"`
	Phones              []string       `json:"phones"`
	InternallyManaged   bool           `json:"internally_managed"`
	ReferenceTechnician *string        `json:"reference_technician"`
	Notes               *string        `json:"notes"`
	Active              bool           `json:"active"`
	Sites               []SiteResponse `json:"sites,omitempty"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
}

// SiteResponse is the public view of a client site.
type SiteResponse struct {
	ID           string   `json:"id"`
	ClientID     string   `json:"client_id"`
	Name         string   `json:"name"`
	Address      string   `json:"address"`
	City         *string  `json:"city"`
	PostalCode   *string  `json:"postal_code"`
	Province     *string  `json:"province"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	ContactName  *string  `json:"contact_name"`
	ContactPhone *string  `json:"contact_phone"`
	ContactEmail *string  `json:"contact_email"`
	PrimarySite  bool     `json:"primary_site"`
	Active       bool     `json:"active"`
}

// NewClientResponse maps a domain client.
func NewClientResponse(c *domain.Client) ClientResponse {
	resp := ClientResponse{
		ID:                  c.ID,
		CompanyName:         c.CompanyName,
		VATNumber:           c.VATNumber,
		FiscalCode:          c.FiscalCode,
		PrimaryEmail:        c.PrimaryEmail,
		SecondaryEmails:     c.SecondaryEmails,
		Phones:              c.Phones,
		InternallyManaged:   c.InternallyManaged,
		ReferenceTechnician: c.ReferenceTechnician,
		Notes:               c.Notes,
		Active:              c.Active,
		CreatedAt:           c.CreatedAt,
		UpdatedAt:           c.UpdatedAt,
	}
	for i := range c.Sites {
		resp.Sites = append(resp.Sites, NewSiteResponse(&c.Sites[i]))
	}
	return resp
}

// NewSiteResponse maps a domain site.
func NewSiteResponse(s *domain.ClientSite) SiteResponse {
	return SiteResponse{
		ID:           s.ID,
		ClientID:     s.ClientID,
		Name:         s.Name,
		Address:      s.Address,
		City:         s.City,
		PostalCode:   s.PostalCode,
		Province:     s.Province,
		Latitude:     s.Latitude,
		Longitude:    s.Longitude,
		ContactName:  s.ContactName,
		ContactPhone: s.ContactPhone,
		ContactEmail: s.ContactEmail,
		PrimarySite:  s.PrimarySite,
		Active:       s.Active,
	}
}
