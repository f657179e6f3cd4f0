package handler

// infoResponse is the standard envelope for single-message bodies (404 and
// 500 outcomes, delete confirmations).
type infoResponse struct {
	Info string `json:"info"`
}

// --- Request types ---

type createUserRequest struct {
	Name     string   `json:"name"      validate:"required"`
	LastName string   `json:"last_name" validate:"required"`
	Phone    string   `json:"phone"     validate:"omitempty,phone"`
	Email    string   `json:"email"     validate:"omitempty,email"`
	Password string   `json:"password"  validate:"required"`
	Roles    []string `json:"roles"     validate:"required,min=1"`
}

// updateUserRequest mirrors createUserRequest except the password is
// optional: omitting it keeps the stored credential. The target id comes
// from the URL path, never the body.
type updateUserRequest struct {
	Name     string   `json:"name"      validate:"required"`
	LastName string   `json:"last_name" validate:"required"`
	Phone    string   `json:"phone"     validate:"omitempty,phone"`
	Email    string   `json:"email"     validate:"omitempty,email"`
	Password string   `json:"password"`
	Roles    []string `json:"roles"     validate:"required,min=1"`
}

// --- Response types ---

// userResponse is the transport representation of a user. The password is
// write-only: no output type carries it.
type userResponse struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	LastName string   `json:"last_name"`
	Phone    string   `json:"phone,omitempty"`
	Email    string   `json:"email,omitempty"`
	Roles    []string `json:"roles"`
}
