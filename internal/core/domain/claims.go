package domain

import "time"

// Claims are the facts asserted by a verified bearer token.
type Claims struct {
	Subject   string
	Email     string
	Role      Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}
