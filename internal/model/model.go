// Package model defines domain entities used by services and repositories.
package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// DefaultCategoryColor is applied when a category is created without a color.
const DefaultCategoryColor = "#3498db"

// Recurrence is how often an event repeats.
type Recurrence string

const (
	RecurrenceNone    Recurrence = "none"
	RecurrenceDaily   Recurrence = "daily"
	RecurrenceWeekly  Recurrence = "weekly"
	RecurrenceMonthly Recurrence = "monthly"
	RecurrenceYearly  Recurrence = "yearly"
)

// Valid reports whether r is one of the known recurrences.
func (r Recurrence) Valid() bool {
	switch r {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly, RecurrenceYearly:
		return true
	}
	return false
}

// User is an account owning categories and events.
type User struct {
	ID        uuid.UUID `json:"id"`         // assigned on insert
	Name      string    `json:"name"`
	Email     string    `json:"email"`      // unique lookup key
	Password  string    `json:"-"`          // stored as given
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserSummary is the read-only projection attached to events.
type UserSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// Summary projects u for enrichment.
func (u *User) Summary() *UserSummary {
	return &UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}

// Category groups events of a user.
type Category struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Color       string    `json:"color"`
	Description *string   `json:"description,omitempty"`
	OwnerUserID uuid.UUID `json:"ownerUserId"` // advisory reference, not enforced
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CategorySummary is the read-only projection attached to events.
type CategorySummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Color string    `json:"color"`
}

// Summary projects c for enrichment.
func (c *Category) Summary() *CategorySummary {
	return &CategorySummary{ID: c.ID, Name: c.Name, Color: c.Color}
}

// Event is a scheduled entry. EndAt, when set, is never before StartAt.
type Event struct {
	ID              uuid.UUID   `json:"id"`
	Title           string      `json:"title"`
	Description     *string     `json:"description,omitempty"`
	StartAt         time.Time   `json:"startAt"`
	EndAt           *time.Time  `json:"endAt,omitempty"`
	Location        *string     `json:"location,omitempty"`
	OwnerUserID     uuid.UUID   `json:"ownerUserId"`
	CategoryID      *uuid.UUID  `json:"categoryId,omitempty"`
	Recurrence      *Recurrence `json:"recurrence,omitempty"`
	ReminderMinutes *int        `json:"reminderMinutes,omitempty"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`

	// Built per response, never persisted.
	User     *UserSummary     `json:"user,omitempty"`
	Category *CategorySummary `json:"category,omitempty"`
}
