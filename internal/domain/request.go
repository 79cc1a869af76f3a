package domain

import "time"

// RequestState enumerates the request lifecycle. Wire values are kept in
// the platform's historical form.
type RequestState string

const (
	RequestStateToVerify  RequestState = "da_verificare"
	RequestStateVoid      RequestState = "nulla"
	RequestStateToHandle  RequestState = "da_gestire"
	RequestStateInProgress RequestState = "in_gestione"
	RequestStateResolved  RequestState = "risolta"
	RequestStateReopened  RequestState = "riaperta"
	RequestStateValidated RequestState = "validata"
	RequestStateToInvoice RequestState = "da_fatturare"
	RequestStateInvoiced  RequestState = "fatturata"
	RequestStateClosed    RequestState = "chiusa"
)

// RequestOrigin identifies the channel a request came from.
type RequestOrigin string

const (
	OriginClient      RequestOrigin = "cliente"
	OriginTechnician  RequestOrigin = "tecnico"
	OriginAdmin       RequestOrigin = "admin"
	OriginMonitoring  RequestOrigin = "monitoraggio"
	OriginSwitchboard RequestOrigin = "centralino"
	OriginEmail       RequestOrigin = "email"
	OriginScheduler   RequestOrigin = "schedulatore"
)

// Request is the aggregate for one client-reported issue.
type Request struct {
	ID             string
	Number         int64
	ClientID       string
	SiteID         *string
	ScopeID        *string
	Description    string
	State          RequestState
	Origin         RequestOrigin
	Priority       string
	AppointmentAt  *time.Time
	CreatedByID    *string
	SupervisorID   *string
	AutoValidated  *bool
	ValidatedByID  *string
	ValidatedAt    *time.Time
	ValidationDue  *time.Time
	ReopenedAt     *time.Time
	ReopenReason   *string
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Activities []Activity
}
