package rbac

import "time"

// Role represents a named grouping of claims.
type Role struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

// Claim is a (type, value) pair attached to a role, or assembled
// transiently for a user at token time.
type Claim struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}
