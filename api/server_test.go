package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/entitygen/clone"
	"github.com/dhamidi/entitygen/config"
	"github.com/dhamidi/entitygen/java/codebase"
	"github.com/dhamidi/entitygen/java/source"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func setupServer(t *testing.T) (*Server, string) {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "p", "Service.java"), "package p;\n\npublic class Service {\n    Target run(Source src) {\n        Target t = Mapper.toTarget(src);\n        return t;\n    }\n}\n")
	writeFile(t, filepath.Join(dir, "p", "Mapper.java"), "package p;\n\npublic class Mapper {\n}\n")
	writeFile(t, filepath.Join(dir, "p", "Target.java"), "package p;\n\npublic class Target {\n    public void setName(String name) {}\n    public void setAge(int age) {}\n}\n")
	writeFile(t, filepath.Join(dir, "p", "Source.java"), "package p;\n\npublic class Source {\n    public String getName() { return null; }\n}\n")
	writeFile(t, filepath.Join(dir, "p", "Loop.java"), "package p;\n\npublic class Loop extends Loop {\n    public void setX(int x) {}\n}\n")

	cb := codebase.New(dir)
	require.NoError(t, cb.ScanAll())
	return NewServer(cb, config.Default()), dir
}

func do(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s, _ := setupServer(t)
	rec := do(t, s, http.MethodGet, "/api/v1/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "healthy", got["status"])
	assert.Equal(t, float64(5), got["classes"])
}

func TestGetClass(t *testing.T) {
	s, _ := setupServer(t)

	rec := do(t, s, http.MethodGet, "/api/v1/classes/p.Target", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got struct {
		Name    string `json:"name"`
		Setters []struct {
			Key string `json:"key"`
		} `json:"setters"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "p.Target", got.Name)
	assert.Len(t, got.Setters, 2)

	rec = do(t, s, http.MethodGet, "/api/v1/classes/p.Missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateMethod(t *testing.T) {
	s, _ := setupServer(t)

	rec := do(t, s, http.MethodPost, "/api/v1/methods", MethodRequest{
		Receiver: "p.Mapper",
		Method:   "toTarget",
		Returns:  "p.Target",
		Args:     []Argument{{Expr: "src", Type: "p.Source"}},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got MethodResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "public static p.Target toTarget(p.Source src)", got.Signature)
	assert.Contains(t, got.Method, "newEntity.setAge();")
	assert.Equal(t, 1, got.Matched)
	assert.Equal(t, 2, got.Properties)
	assert.False(t, got.Written)
}

func TestCreateMethodWrite(t *testing.T) {
	s, dir := setupServer(t)
	matched := true

	rec := do(t, s, http.MethodPost, "/api/v1/methods", MethodRequest{
		At:      "p/Service.java:5:27",
		Matched: &matched,
		Write:   true,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var got MethodResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.True(t, got.Written)
	assert.Equal(t, filepath.Join(dir, "p", "Mapper.java"), got.File)

	content, err := os.ReadFile(got.File)
	require.NoError(t, err)
	assert.Contains(t, string(content), "public static Target toTarget(Source src) {")
	assert.NotContains(t, string(content), "setAge")

	rec = do(t, s, http.MethodGet, "/api/v1/classes/p.Mapper", nil)
	assert.Contains(t, rec.Body.String(), `"toTarget"`)
}

func TestCreateMethodErrors(t *testing.T) {
	s, _ := setupServer(t)

	tests := []struct {
		name string
		body any
		want int
	}{
		{"bad body", "not an object", http.StatusBadRequest},
		{"no method", MethodRequest{Receiver: "p.Mapper"}, http.StatusBadRequest},
		{"unknown receiver", MethodRequest{Receiver: "p.Nope", Method: "m", Returns: "p.Target"}, http.StatusNotFound},
		{"unknown target", MethodRequest{Receiver: "p.Mapper", Method: "m", Returns: "p.Nope"}, http.StatusNotFound},
		{"no expected type", MethodRequest{Receiver: "p.Mapper", Method: "m"}, http.StatusUnprocessableEntity},
		{"cyclic hierarchy", MethodRequest{Receiver: "p.Mapper", Method: "m", Returns: "p.Loop"}, http.StatusUnprocessableEntity},
		{"unknown file", MethodRequest{At: "p/Nope.java:1:1"}, http.StatusNotFound},
		{"not a call", MethodRequest{At: "p/Service.java:1:1"}, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/api/v1/methods", tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())

			var got map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.NotEmpty(t, got["error"])
		})
	}
}

func TestMatches(t *testing.T) {
	s, _ := setupServer(t)

	rec := do(t, s, http.MethodPost, "/api/v1/matches", MethodRequest{
		Returns: "p.Target",
		Args:    []Argument{{Expr: "src", Type: "p.Source"}},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got MatchesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "p.Target", got.Target)
	assert.Equal(t, 1, got.Matched)
	require.Len(t, got.Properties, 2)
	assert.Equal(t, PropertyResponse{
		Key: "name", Setter: "setName", Type: "java.lang.String",
		Matched: true, Expr: "src.getName()", Getter: "getName", Argument: 0,
	}, got.Properties[0])
	assert.Equal(t, PropertyResponse{
		Key: "age", Setter: "setAge", Type: "int", Argument: -1,
	}, got.Properties[1])
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("x: %w", clone.ErrUnresolvableTarget), http.StatusNotFound},
		{fmt.Errorf("x: %w", clone.ErrStaleModel), http.StatusConflict},
		{fmt.Errorf("x: %w", codebase.ErrNotInSource), http.StatusConflict},
		{fmt.Errorf("x: %w", clone.ErrMalformedHierarchy), http.StatusUnprocessableEntity},
		{fmt.Errorf("x: %w", clone.ErrNoExpectedType), http.StatusUnprocessableEntity},
		{fmt.Errorf("x: %w", source.ErrNoCall), http.StatusUnprocessableEntity},
		{context.Canceled, http.StatusServiceUnavailable},
		{fmt.Errorf("%w: %w", clone.ErrStaleModel, context.Canceled), http.StatusServiceUnavailable},
		{fmt.Errorf("%w: %w", clone.ErrStaleModel, context.DeadlineExceeded), http.StatusServiceUnavailable},
		{errors.New("other"), http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}

func TestListenAndServeShutdown(t *testing.T) {
	s, _ := setupServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, s.ListenAndServe(ctx, "127.0.0.1:0"))
}
