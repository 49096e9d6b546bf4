package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	RunID    ID
	TargetID ID
)

// String conversions for domain IDs
func (id RunID) String() string    { return ID(id).String() }
func (id TargetID) String() string { return ID(id).String() }

// NewRunID identifies one execution of the matching pipeline.
func NewRunID() RunID { return RunID(NewID()) }

// ParseTargetID parses a string into TargetID
func ParseTargetID(s string) (TargetID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("target cannot be empty")
	}
	return TargetID(s), nil
}
