package domain

import "time"

// Session is an authenticated principal's server-side session state. At most
// one session per principal is valid at any instant; a newer login evicts
// the older session.
type Session struct {
	Token         string    `json:"token"`
	PrincipalID   string    `json:"principal_id"`
	PrincipalName string    `json:"principal_name"`
	Roles         []string  `json:"roles"`
	CreatedAt     time.Time `json:"created_at"`
	LastSeen      time.Time `json:"last_seen"`
}

// HasAuthority reports whether the session's principal holds the named role.
func (s Session) HasAuthority(name string) bool {
	for _, r := range s.Roles {
		if r == name {
			return true
		}
	}
	return false
}
