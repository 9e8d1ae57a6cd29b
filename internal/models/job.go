package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/diewo77/commcentre/validation"
	"github.com/shopspring/decimal"
	"github.com/ttacon/libphonenumber"
)

// JobStatus is the workflow state of a custom print job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "Pending"
	JobStatusDesigning JobStatus = "Designing"
	JobStatusPrinting  JobStatus = "Printing"
	JobStatusCompleted JobStatus = "Completed"

	// LegacyStatusPrintingCutting was written by older versions of the board.
	LegacyStatusPrintingCutting JobStatus = "Printing/Cutting"
)

// JobStatuses lists the canonical statuses in board order.
var JobStatuses = []JobStatus{JobStatusPending, JobStatusDesigning, JobStatusPrinting, JobStatusCompleted}

// DeadlineLayout is the wire format of Job.Deadline.
const DeadlineLayout = "2006-01-02"

// IsCanonical reports whether s is one of the four recognized statuses.
func (s JobStatus) IsCanonical() bool {
	switch s {
	case JobStatusPending, JobStatusDesigning, JobStatusPrinting, JobStatusCompleted:
		return true
	}
	return false
}

// NormalizeStatus maps user input to a canonical status before storage.
// Empty input means Pending; the legacy "Printing/Cutting" means Printing.
// Any other unrecognized value is rejected.
func NormalizeStatus(raw string) (JobStatus, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return JobStatusPending, true
	}
	if strings.EqualFold(s, string(LegacyStatusPrintingCutting)) {
		return JobStatusPrinting, true
	}
	for _, st := range JobStatuses {
		if strings.EqualFold(s, string(st)) {
			return st, true
		}
	}
	return "", false
}

// Classify maps a stored status to its board column. Legacy values land in
// Printing and anything unrecognized falls back to Pending. It never rewrites
// the stored value.
func Classify(status JobStatus) JobStatus {
	if status == LegacyStatusPrintingCutting {
		return JobStatusPrinting
	}
	if status.IsCanonical() {
		return status
	}
	return JobStatusPending
}

// ComputeBalance returns the amount still owed on a job.
func ComputeBalance(total, advance decimal.Decimal) decimal.Decimal {
	return total.Sub(advance)
}

// Job is a custom order (design, printing, binding...) tracked on the board.
type Job struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	CustomerName string          `gorm:"size:255;not null" json:"customer_name" validate:"required"`
	Contact      string          `gorm:"size:100" json:"contact"`
	ContactE164  string          `gorm:"column:contact_e164;size:20" json:"contact_e164,omitempty"`
	JobType      string          `gorm:"size:100;not null" json:"job_type" validate:"required"`
	TotalAmount  decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"total_amount" validate:"gte=0"`
	Advance      decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"advance" validate:"gte=0"`
	Status       JobStatus       `gorm:"size:30;not null;index" json:"status"`
	Deadline     *time.Time      `gorm:"type:date" json:"deadline,omitempty"`
	DateCreated  time.Time       `gorm:"not null" json:"date_created"`
}

// Balance is recomputed from the current amounts on every call.
func (j *Job) Balance() decimal.Decimal {
	return ComputeBalance(j.TotalAmount, j.Advance)
}

// Bucket returns the board column for the job.
func (j *Job) Bucket() JobStatus {
	return Classify(j.Status)
}

// MarshalJSON adds the derived balance and board column to the payload.
func (j Job) MarshalJSON() ([]byte, error) {
	type alias Job
	return json.Marshal(struct {
		alias
		Balance string    `json:"balance"`
		Bucket  JobStatus `json:"bucket"`
	}{alias(j), FormatAmount(j.Balance()), j.Bucket()})
}

// JobInput carries raw job form values.
type JobInput struct {
	CustomerName string `json:"customer_name"`
	Contact      string `json:"contact"`
	JobType      string `json:"job_type"`
	TotalAmount  string `json:"total_amount"`
	Advance      string `json:"advance"`
	Status       string `json:"status"`
	Deadline     string `json:"deadline"`
}

// NewJob validates input and builds a job ready for storage. Amounts that fail
// to parse count as zero; negative amounts, missing names and unknown statuses
// are violations.
func NewJob(in JobInput, region string, now time.Time) (*Job, validation.Violations) {
	j := &Job{
		CustomerName: strings.TrimSpace(in.CustomerName),
		Contact:      strings.TrimSpace(in.Contact),
		ContactE164:  PhoneE164(in.Contact, region),
		JobType:      strings.TrimSpace(in.JobType),
		TotalAmount:  ParseAmount(in.TotalAmount),
		Advance:      ParseAmount(in.Advance),
		DateCreated:  now,
	}
	v := validation.Struct(j)
	status, ok := NormalizeStatus(in.Status)
	if !ok {
		v["status"] = "invalid_status"
	}
	j.Status = status
	if d := strings.TrimSpace(in.Deadline); d != "" {
		t, err := time.Parse(DeadlineLayout, d)
		if err != nil {
			v["deadline"] = "invalid_date"
		} else {
			j.Deadline = &t
		}
	}
	if !v.Empty() {
		return nil, v
	}
	return j, nil
}

// PhoneE164 formats a contact as E.164 when it is a valid phone number for
// the region, and returns "" for anything else (emails, names, partial numbers).
func PhoneE164(raw, region string) string {
	s := strings.TrimSpace(raw)
	if s == "" || region == "" {
		return ""
	}
	num, err := libphonenumber.Parse(s, region)
	if err != nil || !libphonenumber.IsValidNumber(num) {
		return ""
	}
	return libphonenumber.Format(num, libphonenumber.E164)
}
