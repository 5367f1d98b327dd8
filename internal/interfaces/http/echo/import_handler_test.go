package echo_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	app "github.com/mohammadpnp/graph-user-import/internal/application/user"
	httpecho "github.com/mohammadpnp/graph-user-import/internal/interfaces/http/echo"
)

type fakeImportUseCase struct {
	output app.ImportUsersFromJSONOutput
	err    error

	calls int
	got   app.ImportUsersFromJSONInput
}

func (f *fakeImportUseCase) Execute(ctx context.Context, in app.ImportUsersFromJSONInput) (app.ImportUsersFromJSONOutput, error) {
	f.calls++
	f.got = in
	if f.err != nil {
		return app.ImportUsersFromJSONOutput{}, f.err
	}
	return f.output, nil
}

func postImport(e *echo.Echo, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/imports/users", bytes.NewReader([]byte(body)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestImportHandlerSuccess(t *testing.T) {
	t.Parallel()

	e := echo.New()
	useCase := &fakeImportUseCase{output: app.ImportUsersFromJSONOutput{
		RunID:     "run-1",
		Processed: 3,
		Inserted:  2,
		Skipped:   1,
	}}
	httpecho.RegisterRoutes(e, httpecho.NewImportHandler(useCase, true), nil)

	rec := postImport(e, `{"source_path":" exports/users.json "}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(useCase.got.SourcePaths) != 1 || useCase.got.SourcePaths[0] != "exports/users.json" {
		t.Fatalf("unexpected source paths: %v", useCase.got.SourcePaths)
	}
	if !useCase.got.SkipInvalid {
		t.Fatal("expected skip invalid policy to be passed through")
	}

	var got map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unexpected json: %v", err)
	}

	data, ok := got["data"].(map[string]any)
	if !ok {
		t.Fatalf("unexpected data payload: %#v", got["data"])
	}
	if data["run_id"] != "run-1" {
		t.Fatalf("unexpected run_id: %#v", data["run_id"])
	}
	if data["inserted"] != float64(2) || data["skipped"] != float64(1) {
		t.Fatalf("unexpected counts: %#v", data)
	}
}

func TestImportHandlerBadJSON(t *testing.T) {
	t.Parallel()

	e := echo.New()
	useCase := &fakeImportUseCase{}
	httpecho.RegisterRoutes(e, httpecho.NewImportHandler(useCase, false), nil)

	rec := postImport(e, `{"source_path":`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if useCase.calls != 0 {
		t.Fatal("use case must not run on a bad body")
	}
}

func TestImportHandlerInvalidSource(t *testing.T) {
	t.Parallel()

	for _, body := range []string{
		`{"source_path":""}`,
		`{"source_path":"users.csv"}`,
		`{"source_path":"../secrets.json"}`,
		`{"source_path":"/etc/users.json"}`,
	} {
		e := echo.New()
		useCase := &fakeImportUseCase{}
		httpecho.RegisterRoutes(e, httpecho.NewImportHandler(useCase, false), nil)

		rec := postImport(e, body)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", body, rec.Code)
		}
		if useCase.calls != 0 {
			t.Fatalf("%s: use case must not run for an invalid source", body)
		}
	}
}

func TestImportHandlerInputError(t *testing.T) {
	t.Parallel()

	e := echo.New()
	useCase := &fakeImportUseCase{err: fmt.Errorf("%w: users.json: decode json", app.ErrInvalidInput)}
	httpecho.RegisterRoutes(e, httpecho.NewImportHandler(useCase, false), nil)

	rec := postImport(e, `{"source_path":"users.json"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestImportHandlerDatabaseError(t *testing.T) {
	t.Parallel()

	e := echo.New()
	useCase := &fakeImportUseCase{err: fmt.Errorf("%w: %w", app.ErrDatabase, errors.New("boom"))}
	httpecho.RegisterRoutes(e, httpecho.NewImportHandler(useCase, false), nil)

	rec := postImport(e, `{"source_path":"users.json"}`)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
