// Package storage tracks which article titles have already been spent so a
// topic is never rewritten twice. Membership is exact, case-sensitive title
// equality.
package storage

import "context"

// TitleStore is the duplicate record set shared by both topic strategies.
// Implementations serialize access within the process; concurrent processes
// against the same backing store are not supported.
type TitleStore interface {
	// Contains reports whether the exact title was recorded before.
	Contains(title string) bool
	// Add records the title and persists the whole set. Adding an existing
	// title is a no-op. Durability is only guaranteed once Add returns nil.
	Add(ctx context.Context, title string) error
	// Titles returns every recorded title in first-use order.
	Titles() []string
	// Len returns the number of recorded titles.
	Len() int
}
