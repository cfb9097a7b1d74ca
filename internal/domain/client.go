package domain

import "time"

// Client is a care recipient.
type Client struct {
	ID        string
	FirstName string
	LastName  string
	Email     *string
	Phone     *string
	Address   *string
	CreatedAt time.Time
}
