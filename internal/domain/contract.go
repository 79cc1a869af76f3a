package domain

import "time"

// ContractKind distinguishes flat-fee from hour-bank contracts.
type ContractKind string

const (
	ContractFlatFee  ContractKind = "forfettario"
	ContractHourBank ContractKind = "monte_ore"
)

// ContractState enumerates client-contract lifecycle states.
type ContractState string

const (
	ContractStateActive    ContractState = "attivo"
	ContractStateExpired   ContractState = "scaduto"
	ContractStateSuspended ContractState = "sospeso"
	ContractStateCancelled ContractState = "disdetto"
	ContractStateExhausted ContractState = "esaurito"
)

// FeeFrequency is the billing cadence of a flat-fee contract.
type FeeFrequency string

const (
	FeeMonthly    FeeFrequency = "mensile"
	FeeQuarterly  FeeFrequency = "trimestrale"
	FeeHalfYearly FeeFrequency = "semestrale"
	FeeYearly     FeeFrequency = "annuale"
)

// ContractTemplate is the reusable definition a client contract is built
// from.
type ContractTemplate struct {
	ID           string
	Name         string
	Kind         ContractKind
	Description  *string
	Configurable bool
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Lines []ContractLine
}

// ContractLine is one service voice of a template. Nil IncludedHours means
// unlimited.
type ContractLine struct {
	ID            string
	TemplateID    string
	LineKind      string
	Name          string
	Description   *string
	IncludedHours *int
	Amount        *float64
	ScopeID       *string
	WorkTypeID    *string
	Position      int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ClientContract is a client's concrete subscription to a template.
type ClientContract struct {
	ID              string
	ClientID        string
	TemplateID      *string
	CustomName      *string
	ActivatedOn     time.Time
	ExpiresOn       *time.Time
	Kind            ContractKind
	FeeAmount       *float64
	FeeFrequency    *FeeFrequency
	TotalHours      *int
	UsedHours       float64
	AlertThreshold  int
	State           ContractState
	SignedAttachment *string
	Notes           *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ContractUsage is one immutable hour-deduction event against a client
// contract.
type ContractUsage struct {
	ID               string
	ClientContractID string
	ActivityID       *string
	ContractLineID   *string
	Hours            float64
	UsedOn           time.Time
	Note             *string
	RecordedByID     *string
	CreatedAt        time.Time
}
