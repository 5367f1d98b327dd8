package echo_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	app "github.com/mohammadpnp/graph-user-import/internal/application/user"
	httpecho "github.com/mohammadpnp/graph-user-import/internal/interfaces/http/echo"
)

type fakeGetUserUseCase struct {
	out app.GetUserByIDOutput
	err error
}

func (f *fakeGetUserUseCase) Execute(ctx context.Context, in app.GetUserByIDInput) (app.GetUserByIDOutput, error) {
	if f.err != nil {
		return app.GetUserByIDOutput{}, f.err
	}
	return f.out, nil
}

type fakeSearchUseCase struct {
	out app.SearchUsersOutput
	err error
	got app.SearchUsersInput
}

func (f *fakeSearchUseCase) Execute(ctx context.Context, in app.SearchUsersInput) (app.SearchUsersOutput, error) {
	f.got = in
	if f.err != nil {
		return app.SearchUsersOutput{}, f.err
	}
	return f.out, nil
}

func strPtr(s string) *string { return &s }

func TestGetUserByIDHandlerSuccess(t *testing.T) {
	t.Parallel()

	e := echo.New()
	userHandler := httpecho.NewUserHandler(&fakeGetUserUseCase{out: app.GetUserByIDOutput{
		ID:          "a3f91a91-7fdd-43bf-bfd2-00bc02f6c53e",
		DisplayName: strPtr("Alice"),
		Email:       strPtr("alice@example.com"),
		RawJSON:     json.RawMessage(`{"id":"a3f91a91-7fdd-43bf-bfd2-00bc02f6c53e","displayName":"Alice"}`),
	}}, &fakeSearchUseCase{})
	httpecho.RegisterRoutes(e, nil, userHandler)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/a3f91a91-7fdd-43bf-bfd2-00bc02f6c53e", nil)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var got map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unexpected json: %v", err)
	}

	data, ok := got["data"].(map[string]any)
	if !ok {
		t.Fatalf("unexpected data payload: %#v", got["data"])
	}
	if data["email"] != "alice@example.com" {
		t.Fatalf("unexpected email: %#v", data["email"])
	}
	if data["user_principal_name"] != nil {
		t.Fatalf("expected null upn, got %#v", data["user_principal_name"])
	}
	raw, ok := data["raw_json"].(map[string]any)
	if !ok || raw["displayName"] != "Alice" {
		t.Fatalf("unexpected raw_json: %#v", data["raw_json"])
	}
}

func TestGetUserByIDHandlerErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want int
	}{
		{name: "invalid id", err: app.ErrInvalidUserID, want: http.StatusBadRequest},
		{name: "not found", err: app.ErrUserNotFound, want: http.StatusNotFound},
		{name: "internal", err: errors.New("db down"), want: http.StatusInternalServerError},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			e := echo.New()
			httpecho.RegisterRoutes(e, nil, httpecho.NewUserHandler(&fakeGetUserUseCase{err: tc.err}, &fakeSearchUseCase{}))

			req := httptest.NewRequest(http.MethodGet, "/api/v1/users/some-id", nil)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, rec.Code)
			}
		})
	}
}

func TestSearchUsersHandler(t *testing.T) {
	t.Parallel()

	e := echo.New()
	search := &fakeSearchUseCase{out: app.SearchUsersOutput{Users: []app.UserOutput{{ID: "1", DisplayName: strPtr("Alice")}}}}
	httpecho.RegisterRoutes(e, nil, httpecho.NewUserHandler(&fakeGetUserUseCase{}, search))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users?q=ali&limit=5", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if search.got.Query != "ali" || search.got.Limit != 5 {
		t.Fatalf("unexpected input: %+v", search.got)
	}

	var got struct {
		Data app.SearchUsersOutput `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unexpected json: %v", err)
	}
	if len(got.Data.Users) != 1 || got.Data.Users[0].ID != "1" {
		t.Fatalf("unexpected users: %+v", got.Data.Users)
	}
}

func TestSearchUsersHandlerInvalidLimit(t *testing.T) {
	t.Parallel()

	e := echo.New()
	httpecho.RegisterRoutes(e, nil, httpecho.NewUserHandler(&fakeGetUserUseCase{}, &fakeSearchUseCase{}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users?limit=ten", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSearchUsersHandlerInternalError(t *testing.T) {
	t.Parallel()

	e := echo.New()
	httpecho.RegisterRoutes(e, nil, httpecho.NewUserHandler(&fakeGetUserUseCase{}, &fakeSearchUseCase{err: errors.New("boom")}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
