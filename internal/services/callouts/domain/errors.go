package domain

import "fmt"

// DuplicateError reports an existing callout for the same user and day
// Callers unwrap it to offer a replace prompt
type DuplicateError struct {
	Existing Record
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s already has a %s callout for %s", e.Existing.Username, e.Existing.Status, e.Existing.Day)
}
