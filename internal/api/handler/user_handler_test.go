package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/kataops/identity-api/internal/core/domain"
	"github.com/kataops/identity-api/internal/core/ports"
)

// stubUserService backs handler tests with an in-memory user set.
type stubUserService struct {
	nextID int
	users  map[string]*domain.User
}

func newStubUserService() *stubUserService {
	return &stubUserService{users: make(map[string]*domain.User)}
}

var _ ports.UserService = (*stubUserService)(nil)

func (s *stubUserService) Create(_ context.Context, input ports.CreateUserInput) (*domain.User, error) {
	s.nextID++
	roles := make([]domain.Role, len(input.Roles))
	for i, name := range input.Roles {
		roles[i] = domain.Role{ID: "role_" + name, Name: name}
	}
	user := &domain.User{
		ID:           strconv.Itoa(s.nextID),
		Name:         input.Name,
		LastName:     input.LastName,
		Phone:        input.Phone,
		Email:        input.Email,
		PasswordHash: "hashed:" + input.Password,
		Roles:        roles,
	}
	s.users[user.ID] = user
	return user, nil
}

func (s *stubUserService) Update(_ context.Context, id string, input ports.UpdateUserInput) (*domain.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user with id %s: %w", id, domain.ErrUserNotFound)
	}
	user.Name = input.Name
	user.LastName = input.LastName
	user.Phone = input.Phone
	user.Email = input.Email
	return user, nil
}

func (s *stubUserService) Delete(_ context.Context, id string) error {
	if _, ok := s.users[id]; !ok {
		return fmt.Errorf("user with id %s: %w", id, domain.ErrUserNotFound)
	}
	delete(s.users, id)
	return nil
}

func (s *stubUserService) List(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	return out, nil
}

func (s *stubUserService) ListByRole(_ context.Context, roleName string) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range s.users {
		if u.HasAuthority(roleName) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *stubUserService) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user with id %s: %w", id, domain.ErrUserNotFound)
	}
	return user, nil
}

func (s *stubUserService) GetByName(_ context.Context, name string) (*domain.User, error) {
	for _, u := range s.users {
		if u.Name == name {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func newTestContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestUserHandler_Create_Success(t *testing.T) {
	h := NewUserHandler(newStubUserService())
	c, rec := newTestContext(t, http.MethodPost, "/api/v1/users",
		`{"name":"alice","last_name":"smith","phone":"123-45-67","password":"secret","roles":["USER"]}`)

	if err := h.Create(c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["name"] != "alice" {
		t.Fatalf("unexpected response: %v", resp)
	}
	if _, present := resp["password"]; present {
		t.Fatalf("password must never appear in output")
	}
	if strings.Contains(rec.Body.String(), "secret") || strings.Contains(rec.Body.String(), "hashed") {
		t.Fatalf("credential material leaked into response: %s", rec.Body.String())
	}
}

func TestUserHandler_Create_ValidationFieldMap(t *testing.T) {
	h := NewUserHandler(newStubUserService())
	c, rec := newTestContext(t, http.MethodPost, "/api/v1/users",
		`{"name":"","last_name":"","phone":"12345","password":"pw","roles":[]}`)

	if err := h.Create(c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var fields map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &fields); err != nil {
		t.Fatalf("decode field map: %v", err)
	}
	for _, field := range []string{"name", "last_name", "phone", "roles"} {
		if _, ok := fields[field]; !ok {
			t.Fatalf("expected a message for field %q, got %v", field, fields)
		}
	}
	if fields["phone"] != "please use pattern XXX-XX-XX" {
		t.Fatalf("unexpected phone message: %q", fields["phone"])
	}
}

func TestUserHandler_Create_InvalidPayload(t *testing.T) {
	h := NewUserHandler(newStubUserService())
	c, rec := newTestContext(t, http.MethodPost, "/api/v1/users", `{not json`)

	if err := h.Create(c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestUserHandler_List_RoleFilter(t *testing.T) {
	svc := newStubUserService()
	_, _ = svc.Create(context.Background(), ports.CreateUserInput{
		Name: "alice", LastName: "x", Password: "pw", Roles: []string{"ADMIN"},
	})
	_, _ = svc.Create(context.Background(), ports.CreateUserInput{
		Name: "bob", LastName: "x", Password: "pw", Roles: []string{"USER"},
	})

	h := NewUserHandler(svc)
	c, rec := newTestContext(t, http.MethodGet, "/api/v1/users?role=ADMIN", "")

	if err := h.List(c); err != nil {
		t.Fatalf("List: %v", err)
	}
	var resp []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp) != 1 || resp[0]["name"] != "alice" {
		t.Fatalf("expected only the admin, got %v", resp)
	}
}

func TestUserHandler_GetByID_NotFoundPropagates(t *testing.T) {
	h := NewUserHandler(newStubUserService())
	c, _ := newTestContext(t, http.MethodGet, "/api/v1/users/7", "")
	c.SetParamNames("id")
	c.SetParamValues("7")

	err := h.GetByID(c)
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound to propagate, got %v", err)
	}
}

func TestUserHandler_Delete_Confirmation(t *testing.T) {
	svc := newStubUserService()
	created, _ := svc.Create(context.Background(), ports.CreateUserInput{
		Name: "bob", LastName: "x", Password: "pw", Roles: []string{"USER"},
	})

	h := NewUserHandler(svc)
	c, rec := newTestContext(t, http.MethodDelete, "/api/v1/users/"+created.ID, "")
	c.SetParamNames("id")
	c.SetParamValues(created.ID)

	if err := h.Delete(c); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "user with id "+created.ID+" deleted") {
		t.Fatalf("expected confirmation message, got %s", rec.Body.String())
	}
}

func TestUserHandler_Current_ReturnsOwnRepresentation(t *testing.T) {
	svc := newStubUserService()
	created, _ := svc.Create(context.Background(), ports.CreateUserInput{
		Name: "carol", LastName: "x", Password: "pw", Roles: []string{"USER"},
	})

	h := NewUserHandler(svc)
	c, rec := newTestContext(t, http.MethodGet, "/api/v1/users/user", "")
	c.Set("session", &domain.Session{Token: "tok", PrincipalID: created.ID, PrincipalName: "carol"})

	if err := h.Current(c); err != nil {
		t.Fatalf("Current: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["name"] != "carol" {
		t.Fatalf("expected the caller's own record, got %v", resp)
	}
	if _, present := resp["password"]; present {
		t.Fatalf("password must never appear in output")
	}
}

func TestUserHandler_Current_MissingSession(t *testing.T) {
	h := NewUserHandler(newStubUserService())
	c, _ := newTestContext(t, http.MethodGet, "/api/v1/users/user", "")

	err := h.Current(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}
