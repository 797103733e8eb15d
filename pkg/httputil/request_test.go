package httputil

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
)

func TestParseJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "valid", body: `{"identifiers": ["a"]}`},
		{name: "malformed", body: `{invalid}`, wantErr: "invalid JSON"},
		{name: "empty", body: ``, wantErr: "empty body"},
		{name: "unknown field", body: `{"ids": ["a"]}`, wantErr: "unknown field"},
		{name: "trailing document", body: `{"identifiers": []} {}`, wantErr: "trailing data"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/test", bytes.NewBufferString(tt.body))
			var dest struct {
				Identifiers []string `json:"identifiers"`
			}

			err := ParseJSON(req, &dest)

			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, []string{"a"}, dest.Identifiers)
		})
	}
}

func TestParseJSONOrError(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/test", bytes.NewBufferString(`{invalid}`))
	var dest map[string]string

	ok := ParseJSONOrError(w, req, &dest)

	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid JSON")
}

func TestParsePathStringOrError(t *testing.T) {
	tests := []struct {
		name     string
		vars     map[string]string
		want     string
		expectOK bool
	}{
		{"present", map[string]string{"identifier": "@scope/plugin"}, "@scope/plugin", true},
		{"missing", map[string]string{}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/test", nil), tt.vars)

			got, ok := ParsePathStringOrError(w, req, "identifier")

			assert.Equal(t, tt.expectOK, ok)
			assert.Equal(t, tt.want, got)
			if !tt.expectOK {
				assert.Equal(t, http.StatusBadRequest, w.Code)
			}
		})
	}
}

func TestParseQueryBoolOrError(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		defaultVal bool
		want       bool
		expectOK   bool
	}{
		{"true", "?attempts=true", false, true, true},
		{"zero", "?attempts=0", true, false, true},
		{"missing uses default", "", true, true, true},
		{"invalid", "?attempts=maybe", false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/test"+tt.query, nil)

			got, ok := ParseQueryBoolOrError(w, req, "attempts", tt.defaultVal)

			assert.Equal(t, tt.expectOK, ok)
			assert.Equal(t, tt.want, got)
			if !tt.expectOK {
				assert.Equal(t, http.StatusBadRequest, w.Code)
			}
		})
	}
}

func TestRequireNonEmpty(t *testing.T) {
	w := httptest.NewRecorder()
	assert.True(t, RequireNonEmpty(w, []string{"a"}, "identifiers"))

	w = httptest.NewRecorder()
	assert.False(t, RequireNonEmpty(w, nil, "identifiers"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "identifiers is required")
}
