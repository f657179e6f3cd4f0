package domain

const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// User models a stored principal. Role ownership is one-directional: the
// user carries its roles, a role never carries its users.
type User struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	LastName     string `json:"last_name"`
	Phone        string `json:"phone,omitempty"`
	Email        string `json:"email,omitempty"`
	PasswordHash string `json:"-"`
	Roles        []Role `json:"roles"`
}

// RoleNames returns the names of the user's roles in declaration order.
func (u User) RoleNames() []string {
	names := make([]string, len(u.Roles))
	for i, r := range u.Roles {
		names[i] = r.Name
	}
	return names
}

// HasAuthority reports whether the user holds the named role.
func (u User) HasAuthority(name string) bool {
	for _, r := range u.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}
