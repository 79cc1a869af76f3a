package domain

import "time"

// Scope groups requests and work types under one area of competence
// (networking, backup, printing, ...), optionally watched by a supervisor.
type Scope struct {
	ID           string
	Name         string
	Description  *string
	SupervisorID *string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// WorkType classifies activities and drives billing defaults.
type WorkType struct {
	ID               string
	Name             string
	Billable         bool
	ScopeID          *string
	EstimatedMinutes *int
	Active           bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
