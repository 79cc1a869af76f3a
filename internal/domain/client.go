package domain

import "time"

// Client is a customer company tracked by the helpdesk.
type Client struct {
	ID                  string
	CompanyName         string
	VATNumber           *string
	FiscalCode          *string
	PrimaryEmail        string
	SecondaryEmails     []string
	Phones              []string
	InternallyManaged   bool
	ReferenceTechnician *string
	Notes               *string
	Active              bool
	CreatedAt           time.Time
	UpdatedAt           time.Time

	Sites []ClientSite
}

// ClientSite is a physical location belonging to a client.
type ClientSite struct {
	ID            string
	ClientID      string
	Name          string
	Address       string
	City          *string
	PostalCode    *string
	Province      *string
	Latitude      *float64
	Longitude     *float64
	ContactName   *string
	ContactPhone  *string
	ContactEmail  *string
	PrimarySite   bool
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
