package models

import (
	"fmt"
	"strings"
)

// SourceUnavailableError reports that the sheet for a team could not be fetched.
type SourceUnavailableError struct {
	Team string
	Err  error
}

func (e *SourceUnavailableError) Error() string {
	return fmt.Sprintf("sheet for team %q unavailable: %v", e.Team, e.Err)
}

func (e *SourceUnavailableError) Unwrap() error {
	return e.Err
}

// StructureError reports a sheet that lacks required columns or headers.
type StructureError struct {
	Team    string
	Missing []StatField
	Reason  string
}

func (e *StructureError) Error() string {
	var sb strings.Builder
	sb.WriteString("malformed sheet")
	if e.Team != "" {
		sb.WriteString(fmt.Sprintf(" for team %q", e.Team))
	}
	if len(e.Missing) > 0 {
		sb.WriteString(": missing fields ")
		sb.WriteString(strings.Join(e.MissingNames(), ", "))
	}
	if e.Reason != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Reason)
	}
	return sb.String()
}

func (e *StructureError) MissingNames() []string {
	names := make([]string, len(e.Missing))
	for i, f := range e.Missing {
		names[i] = f.String()
	}
	return names
}
