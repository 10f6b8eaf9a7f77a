package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"friday/internal/domain"
	"friday/internal/specfile"
)

func submission() domain.Submission {
	return domain.Submission{
		Spec:           &specfile.Memory{FileName: "petstore.yaml", Content: []byte("openapi: 3.0.3\n")},
		BaseURL:        "https://petstore.example.com",
		OutputFilename: "api_test_report.md",
	}
}

func TestClient_RunAPITests(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, RunPath, r.URL.Path)
		gotAuth = r.Header.Get("Authorization")

		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}
		assert.Equal(t, "https://petstore.example.com", r.FormValue(FieldBaseURL))
		assert.Equal(t, "api_test_report.md", r.FormValue(FieldOutput))

		file, header, err := r.FormFile(FieldSpecUpload)
		if !assert.NoError(t, err) {
			return
		}
		defer file.Close()
		content, _ := io.ReadAll(file)
		assert.Equal(t, "petstore.yaml", header.Filename)
		assert.Equal(t, "openapi: 3.0.3\n", string(content))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"total_tests": 12, "paths_tested": ["/pets", "/pets/{id}", "/pets"], "message": "ok"}`))
	}))
	defer server.Close()

	c := New(Options{ServiceURL: server.URL + "/", Token: "secret"})
	result, err := c.RunAPITests(context.Background(), submission())

	require.NoError(t, err)
	assert.Equal(t, 12, result.TotalTests)
	assert.Equal(t, domain.PathsTested(2), result.PathsTested)
	assert.Equal(t, "ok", result.Message)
	assert.Equal(t, "Bearer secret", gotAuth)
}

func TestClient_ErrorResponses(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{name: "detail string", status: http.StatusBadRequest, body: `{"detail": "Invalid spec"}`, message: "Invalid spec"},
		{name: "detail list", status: http.StatusUnprocessableEntity, body: `{"detail": [{"msg": "field required"}, {"msg": "bad url"}]}`, message: "field required; bad url"},
		{name: "message field", status: http.StatusInternalServerError, body: `{"message": "runner crashed"}`, message: "runner crashed"},
		{name: "error field", status: http.StatusBadGateway, body: `{"error": "upstream"}`, message: "upstream"},
		{name: "plain text", status: http.StatusServiceUnavailable, body: `down for maintenance`, message: "test service returned status 503"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := New(Options{ServiceURL: server.URL}).RunAPITests(context.Background(), submission())

			var serviceErr *ServiceError
			require.True(t, errors.As(err, &serviceErr))
			assert.Equal(t, tt.status, serviceErr.StatusCode)
			assert.Equal(t, tt.message, err.Error())
		})
	}
}

func TestClient_BadJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	_, err := New(Options{ServiceURL: server.URL}).RunAPITests(context.Background(), submission())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
}

func TestClient_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := New(Options{ServiceURL: url, Timeout: time.Second}).RunAPITests(context.Background(), submission())
	require.Error(t, err)
	assert.NotEmpty(t, err.Error())
}

func TestClient_InvalidInput(t *testing.T) {
	_, err := New(Options{}).RunAPITests(context.Background(), submission())
	assert.Error(t, err)

	_, err = New(Options{ServiceURL: "http://localhost"}).RunAPITests(context.Background(), domain.Submission{})
	assert.Error(t, err)
}
