package models

// Severity of a detected disease.
type Severity string

const (
	SeverityNone   Severity = "none"
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// RiskLevel summarizes a crop's disease exposure.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Health trend direction over a crop's recent scan history.
const (
	TrendDeclining = -1
	TrendStable    = 0
	TrendImproving = 1
)

type ReminderType string

const (
	ReminderTreatment ReminderType = "treatment"
	ReminderWeather   ReminderType = "weather"
	ReminderHarvest   ReminderType = "harvest"
	ReminderSupply    ReminderType = "supply"
	ReminderSeasonal  ReminderType = "seasonal"
	ReminderRescan    ReminderType = "rescan"
)

type ReminderPriority string

const (
	PriorityUrgent ReminderPriority = "urgent"
	PriorityHigh   ReminderPriority = "high"
	PriorityNormal ReminderPriority = "normal"
	PriorityLow    ReminderPriority = "low"
)

// AnalysisOutcome classifies what a scan request resolved to. Callers must be
// able to tell "not a plant" apart from "plant but unsupported" apart from
// "supported and analyzed" apart from a plain failure.
type AnalysisOutcome string

const (
	OutcomeAnalyzed        AnalysisOutcome = "analyzed"
	OutcomeNotPlant        AnalysisOutcome = "not_plant"
	OutcomeUnsupportedCrop AnalysisOutcome = "unsupported_crop"
	OutcomeRejectedImage   AnalysisOutcome = "rejected_image"
	OutcomeFailed          AnalysisOutcome = "failed"
)
