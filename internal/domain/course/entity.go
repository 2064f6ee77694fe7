// Package course contains the course model: a named program with a duration
// and a fee that students enrol in.
package course

import (
	"time"

	"github.com/studentdesk/studentdesk/internal/domain/shared"
)

// DurationUnit is the unit of Course.Duration.
type DurationUnit string

const (
	UnitDays   DurationUnit = "days"
	UnitWeeks  DurationUnit = "weeks"
	UnitMonths DurationUnit = "months"
	UnitYears  DurationUnit = "years"
)

// IsValid checks that the unit is one of the known units.
func (u DurationUnit) IsValid() bool {
	switch u {
	case UnitDays, UnitWeeks, UnitMonths, UnitYears:
		return true
	default:
		return false
	}
}

// Course is a program students enrol in. Deleting a course does not touch
// the students that reference it.
type Course struct {
	ID           string       `json:"id"`
	Name         string       `json:"name" validate:"required,max=200"`
	Duration     int          `json:"duration" validate:"gte=0"`
	DurationUnit DurationUnit `json:"durationUnit" validate:"omitempty,oneof=days weeks months years"`
	Fee          float64      `json:"fee" validate:"gte=0"`
	Description  string       `json:"description"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    *time.Time   `json:"updatedAt,omitempty"`
}

// Validate checks the course's attributes.
func (c Course) Validate(op string) error {
	return shared.ValidateStruct("course", op, c)
}

// Patch holds a partial update; nil fields are left unchanged.
type Patch struct {
	Name         *string
	Duration     *int
	DurationUnit *DurationUnit
	Fee          *float64
	Description  *string
}

// Apply merges the set fields of p into c.
func (p Patch) Apply(c *Course) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Duration != nil {
		c.Duration = *p.Duration
	}
	if p.DurationUnit != nil {
		c.DurationUnit = *p.DurationUnit
	}
	if p.Fee != nil {
		c.Fee = *p.Fee
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
}
