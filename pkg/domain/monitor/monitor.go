// Package monitor defines the periodic re-scan subscription entity.
// A monitor binds a target URL and contact to a scan cadence; the
// scheduler is the only component that mutates monitors after
// registration.
package monitor

import (
	"net/mail"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/a11ylens/api/pkg/domain/shared"
)

// Frequency is the scan cadence of a monitor.
type Frequency string

// Frequencies, shortest interval first.
const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// Interval maps a frequency to its fixed duration. Monthly is a fixed
// 30-day approximation, not calendar-month arithmetic.
func (f Frequency) Interval() time.Duration {
	switch f {
	case FrequencyDaily:
		return 24 * time.Hour
	case FrequencyWeekly:
		return 7 * 24 * time.Hour
	case FrequencyMonthly:
		return 30 * 24 * time.Hour
	default:
		return 24 * time.Hour
	}
}

// Rank returns the ordinal position of the frequency, daily lowest.
func (f Frequency) Rank() int {
	switch f {
	case FrequencyDaily:
		return 0
	case FrequencyWeekly:
		return 1
	case FrequencyMonthly:
		return 2
	default:
		return -1
	}
}

// IsValid checks if the frequency is a known value.
func (f Frequency) IsValid() bool {
	return f.Rank() >= 0
}

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Monitor is a persistent subscription causing periodic re-scanning
// of one target. Never physically deleted; deactivation is a soft
// state.
type Monitor struct {
	ID        shared.ID `json:"id"`
	URL       string    `json:"url"`
	Host      string    `json:"host"`
	Contact   string    `json:"contact"`
	Frequency Frequency `json:"frequency"`

	// ScheduleCron optionally overrides the frequency interval with a
	// cron expression.
	ScheduleCron string `json:"schedule_cron,omitempty"`

	Active     bool       `json:"active"`
	LastScanAt *time.Time `json:"last_scan_at,omitempty"`
	LastScore  *int       `json:"last_score,omitempty"`
	NextDueAt  time.Time  `json:"next_due_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// NewMonitor registers a new active monitor. The target URL and the
// contact address are validated before any I/O; the first scan is due
// immediately.
func NewMonitor(rawURL, contact string, frequency Frequency) (*Monitor, error) {
	normalized, err := shared.NormalizeURL(rawURL)
	if err != nil {
		return nil, err
	}
	if err := validateContact(contact); err != nil {
		return nil, err
	}
	if !frequency.IsValid() {
		return nil, shared.NewDomainError("VALIDATION", "invalid frequency", shared.ErrValidation)
	}

	now := time.Now().UTC()
	return &Monitor{
		ID:        shared.NewID(),
		URL:       normalized,
		Host:      shared.NormalizeHost(normalized),
		Contact:   strings.TrimSpace(contact),
		Frequency: frequency,
		Active:    true,
		NextDueAt: now,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func validateContact(contact string) error {
	trimmed := strings.TrimSpace(contact)
	if trimmed == "" {
		return shared.NewDomainError("VALIDATION", "contact is required", shared.ErrValidation)
	}
	if _, err := mail.ParseAddress(trimmed); err != nil {
		return shared.NewDomainError("VALIDATION", "contact is not a valid email address", shared.ErrValidation)
	}
	return nil
}

// SetCron sets an optional cron cadence override. An empty expression
// clears the override.
func (m *Monitor) SetCron(expr string) error {
	if expr != "" {
		if _, err := cronParser.Parse(expr); err != nil {
			return shared.NewDomainError("VALIDATION", "invalid cron expression", shared.ErrValidation)
		}
	}
	m.ScheduleCron = expr
	m.UpdatedAt = time.Now().UTC()
	return nil
}

// Reactivate re-registers the monitor: it becomes active again and
// adopts the given frequency. Re-registration is how a deactivated
// monitor comes back.
func (m *Monitor) Reactivate(frequency Frequency) error {
	if !frequency.IsValid() {
		return shared.NewDomainError("VALIDATION", "invalid frequency", shared.ErrValidation)
	}

	now := time.Now().UTC()
	m.Frequency = frequency
	if !m.Active {
		m.Active = true
		m.NextDueAt = now
	}
	m.UpdatedAt = now
	return nil
}

// Deactivate soft-disables the monitor. Terminal unless re-registered.
func (m *Monitor) Deactivate() {
	if !m.Active {
		return
	}
	m.Active = false
	m.UpdatedAt = time.Now().UTC()
}

// IsDue reports whether the monitor should be scanned at the given
// instant.
func (m *Monitor) IsDue(now time.Time) bool {
	if !m.Active {
		return false
	}
	return !now.Before(m.NextDueAt)
}

// RecordRun records a successful scheduled scan and advances the
// next-due timestamp.
func (m *Monitor) RecordRun(score int, at time.Time) {
	m.LastScanAt = &at
	m.LastScore = &score
	m.NextDueAt = m.nextRun(at)
	m.UpdatedAt = at
}

// RecordFailure advances the next-due timestamp after a failed scan
// without touching the last score. The monitor retries on its normal
// cadence instead of hot-looping on a dead target.
func (m *Monitor) RecordFailure(at time.Time) {
	m.LastScanAt = &at
	m.NextDueAt = m.nextRun(at)
	m.UpdatedAt = at
}

func (m *Monitor) nextRun(from time.Time) time.Time {
	if m.ScheduleCron != "" {
		if schedule, err := cronParser.Parse(m.ScheduleCron); err == nil {
			return schedule.Next(from)
		}
	}
	return from.Add(m.Frequency.Interval())
}
