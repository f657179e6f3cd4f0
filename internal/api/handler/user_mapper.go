package handler

import (
	"github.com/kataops/identity-api/internal/core/domain"
	"github.com/kataops/identity-api/internal/core/ports"
)

// --- Request → Service input ---

func toCreateInput(req createUserRequest) ports.CreateUserInput {
	return ports.CreateUserInput{
		Name:     req.Name,
		LastName: req.LastName,
		Phone:    req.Phone,
		Email:    req.Email,
		Password: req.Password,
		Roles:    req.Roles,
	}
}

func toUpdateInput(req updateUserRequest) ports.UpdateUserInput {
	return ports.UpdateUserInput{
		Name:     req.Name,
		LastName: req.LastName,
		Phone:    req.Phone,
		Email:    req.Email,
		Password: req.Password,
		Roles:    req.Roles,
	}
}

// --- Domain → HTTP response ---

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:       u.ID,
		Name:     u.Name,
		LastName: u.LastName,
		Phone:    u.Phone,
		Email:    u.Email,
		Roles:    u.RoleNames(),
	}
}

func toListResponse(users []*domain.User) []userResponse {
	out := make([]userResponse, len(users))
	for i, u := range users {
		out[i] = toUserResponse(u)
	}
	return out
}
