package models

import "time"

// pending — order is paid and waiting for fulfillment;
// processing — order is claimed by the fulfillment loop, report is being generated;
// completed — report is generated and stored;
// failed — generation or storage failed, error message is recorded.

// order status
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusCompleted  = "completed"
	OrderStatusFailed     = "failed"
)

// education level
const (
	LevelElementary = "elementary"
	LevelMiddle     = "middle"
	LevelHigh       = "high"
	LevelCollege    = "college"
)

// Order is book report order entity
type Order struct {
	ID              string
	BookTitle       string
	Author          string
	GradeLevel      string
	TargetGrade     string
	Length          int
	IsRush          bool
	SampleText      string
	CustomerEmail   string
	Status          string
	ReportText      string
	ErrorMessage    string
	StripeSessionID string
	CreatedAt       time.Time
	CompletedAt     *time.Time
}
