package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPriority is returned by ParsePriority for unknown values.
var ErrInvalidPriority = errors.New("invalid priority")

// Priority ranks an Assignment.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// DefaultPriority is the priority preselected for new assignments.
const DefaultPriority = PriorityMedium

// Priorities lists the valid priorities from most to least urgent.
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// ParsePriority parses a priority name case-insensitively.
func ParsePriority(s string) (Priority, error) {
	for _, p := range Priorities {
		if strings.EqualFold(strings.TrimSpace(s), string(p)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q (want one of High, Medium, Low)", ErrInvalidPriority, s)
}
