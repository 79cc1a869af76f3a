package domain

import "time"

// ScheduleEntityKind names what a schedule watches.
type ScheduleEntityKind string

const (
	ScheduleEntityContract      ScheduleEntityKind = "contratto"
	ScheduleEntityLicense       ScheduleEntityKind = "licenza"
	ScheduleEntityProduct       ScheduleEntityKind = "prodotto"
	ScheduleEntityCertification ScheduleEntityKind = "certificazione"
	ScheduleEntityContractLine  ScheduleEntityKind = "voce_contratto"
	ScheduleEntityCustom        ScheduleEntityKind = "custom"
)

// ScheduleActionKind names what should happen when a schedule fires.
type ScheduleActionKind string

const (
	ScheduleActionCreateRequest ScheduleActionKind = "crea_richiesta"
	ScheduleActionNotify        ScheduleActionKind = "invia_notifica"
	ScheduleActionAlert         ScheduleActionKind = "genera_alert"
	ScheduleActionCustom        ScheduleActionKind = "custom"
)

// ScheduleFrequency is the recurrence of a schedule.
type ScheduleFrequency string

const (
	FrequencyDaily      ScheduleFrequency = "giornaliera"
	FrequencyWeekly     ScheduleFrequency = "settimanale"
	FrequencyMonthly    ScheduleFrequency = "mensile"
	FrequencyBimonthly  ScheduleFrequency = "bimestrale"
	FrequencyQuarterly  ScheduleFrequency = "trimestrale"
	FrequencyHalfYearly ScheduleFrequency = "semestrale"
	FrequencyYearly     ScheduleFrequency = "annuale"
	FrequencyCustom     ScheduleFrequency = "custom"
)

// Schedule stores a recurring action definition. The platform records due
// dates only; nothing in this backend fires the actions.
type Schedule struct {
	ID             string
	EntityKind     ScheduleEntityKind
	EntityID       *string
	Name           string
	ActionKind     ScheduleActionKind
	Frequency      ScheduleFrequency
	CustomInterval *string
	NoticeDays     int
	LastTrigger    *time.Time
	NextTrigger    *time.Time
	Active         bool
	ActionConfig   map[string]any
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
