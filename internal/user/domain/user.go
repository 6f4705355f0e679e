// Package domain defines the aggregator's user records. Only superusers are
// consulted, as recipients of operator alerts.
package domain

import "time"

// User represents an aggregator user account.
type User struct {
	ID          int64
	Name        string
	Email       string
	IsActive    bool
	IsSuperuser bool
	CreatedAt   time.Time
}

// IsAlertRecipient reports whether the user should receive operator alerts.
func (u *User) IsAlertRecipient() bool {
	return u.IsSuperuser && u.IsActive && u.Email != ""
}
