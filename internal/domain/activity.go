package domain

import "time"

// ActivityState enumerates the activity lifecycle.
type ActivityState string

const (
	ActivityStatePlanned   ActivityState = "programmata"
	ActivityStateInProgress ActivityState = "in_lavorazione"
	ActivityStateOnStandby ActivityState = "in_standby"
	ActivityStateCompleted ActivityState = "completata"
)

// BillingKind classifies how an activity is charged.
type BillingKind string

const (
	BillingPaid     BillingKind = "a_pagamento"
	BillingContract BillingKind = "contratto"
	BillingHourBank BillingKind = "monte_ore"
	BillingIncluded BillingKind = "incluso"
)

// Activity is one unit of technician work under a request.
type Activity struct {
	ID                string
	RequestID         string
	WorkTypeID        *string
	Description       string
	State             ActivityState
	Priority          string
	ScheduledAt       *time.Time
	InternalNotes     *string
	ExternalReference *string
	Resolving         bool
	BillingKind       *BillingKind
	ClientContractID  *string
	ContractLineID    *string
	BilledHours       *float64
	Attachments       []string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TimeEntry is one check-in/check-out interval of a technician on an
// activity. EndedAt stays nil while the timer runs.
type TimeEntry struct {
	ID              string
	ActivityID      string
	TechnicianID    string
	StartedAt       time.Time
	EndedAt         *time.Time
	DurationMinutes *int
	StartLatitude   *float64
	StartLongitude  *float64
	Note            *string
	CreatedAt       time.Time
}

// Open reports whether the entry is still running.
func (e *TimeEntry) Open() bool {
	return e.EndedAt == nil
}
