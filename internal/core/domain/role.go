package domain

// Role is a named authority grantable to a user. Names are unique and
// case-sensitive across the store. Roles are created lazily by the registry
// and never deleted by this service.
type Role struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
