package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kataops/identity-api/internal/core/domain"
	"github.com/kataops/identity-api/internal/core/ports"
)

type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// List returns all users ordered by id ascending. A role query parameter
// narrows the list to users holding that role.
//
// GET /api/v1/users[?role=NAME] (ADMIN)
func (h *UserHandler) List(c echo.Context) error {
	var (
		users []*domain.User
		err   error
	)
	if role := c.QueryParam("role"); role != "" {
		users, err = h.service.ListByRole(c.Request().Context(), role)
	} else {
		users, err = h.service.List(c.Request().Context())
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListResponse(users))
}

// GetByID returns a single user.
//
// GET /api/v1/users/:id (ADMIN)
func (h *UserHandler) GetByID(c echo.Context) error {
	user, err := h.service.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Create registers a new user.
//
// POST /api/v1/users (ADMIN)
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, infoResponse{Info: "invalid payload"})
	}
	if err := c.Validate(req); err != nil {
		return validationResponse(c, err)
	}

	user, err := h.service.Create(c.Request().Context(), toCreateInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toUserResponse(user))
}

// Update modifies an existing user. An omitted password keeps the stored
// credential.
//
// PUT /api/v1/users/:id (ADMIN)
func (h *UserHandler) Update(c echo.Context) error {
	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, infoResponse{Info: "invalid payload"})
	}
	if err := c.Validate(req); err != nil {
		return validationResponse(c, err)
	}

	user, err := h.service.Update(c.Request().Context(), c.Param("id"), toUpdateInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Delete removes a user by id.
//
// DELETE /api/v1/users/:id (ADMIN)
func (h *UserHandler) Delete(c echo.Context) error {
	id := c.Param("id")
	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, infoResponse{Info: fmt.Sprintf("user with id %s deleted", id)})
}

// Current returns the caller's own representation.
//
// GET /api/v1/users/user (USER or ADMIN)
func (h *UserHandler) Current(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	user, err := h.service.GetByID(c.Request().Context(), sess.PrincipalID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// validationResponse renders a field → message map for validator failures
// and a generic envelope otherwise.
func validationResponse(c echo.Context, err error) error {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return c.JSON(http.StatusBadRequest, ve.Fields)
	}
	return c.JSON(http.StatusBadRequest, infoResponse{Info: err.Error()})
}
