package helpers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arztpraxis/internal/domain"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		query string
		want  domain.PaginationParams
	}{
		{"", domain.PaginationParams{Page: 1, PageSize: 20}},
		{"page=3&page_size=10", domain.PaginationParams{Page: 3, PageSize: 10}},
		{"page=0&page_size=-1", domain.PaginationParams{Page: 1, PageSize: 20}},
		{"page=abc&page_size=500", domain.PaginationParams{Page: 1, PageSize: 100}},
		{"page=500000000000000000&page_size=20", domain.PaginationParams{Page: 500000000000000000, PageSize: 20}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/admin/invites?"+tt.query, nil)
			assert.Equal(t, tt.want, ParsePagination(r))
		})
	}
}

func TestParsePagination_huge_page_stays_in_range(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/admin/invites?page=500000000000000000&page_size=20", nil)
	p := ParsePagination(r)
	assert.GreaterOrEqual(t, p.Offset(), 0)
	start, end := p.Window(3)
	assert.Equal(t, 3, start)
	assert.Equal(t, 3, end)
}

func TestNewPaginationMeta(t *testing.T) {
	assert.Equal(t, PaginationMeta{Page: 1, PageSize: 20, Total: 41, TotalPages: 3}, NewPaginationMeta(1, 20, 41))
	assert.Equal(t, 0, NewPaginationMeta(1, 0, 10).TotalPages)
}

func TestWriteFormResult(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteFormResult(rr, http.StatusOK, FormResult{Success: false, Message: "Bitte geben Sie Ihren Vornamen ein."})

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json; charset=utf-8", rr.Header().Get("Content-Type"))
	var body map[string]any
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Bitte geben Sie Ihren Vornamen ein.", body["message"])
	assert.Equal(t, false, body["confirmationSent"])
	assert.Equal(t, "", body["inviteId"])
}

type loginBody struct {
	Password string `json:"password"`
}

func (l loginBody) Validate() []string {
	if l.Password == "" {
		return []string{"password is required"}
	}
	return nil
}

func TestDecodeAndValidate(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		wantOK bool
	}{
		{"valid", `{"password":"x"}`, true},
		{"validation error", `{"password":""}`, false},
		{"unknown field", `{"password":"x","role":"admin"}`, false},
		{"malformed", `{`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(tt.body))
			var dest loginBody
			ok := DecodeAndValidate(rr, r, &dest)
			assert.Equal(t, tt.wantOK, ok)
			if !ok {
				assert.Equal(t, http.StatusBadRequest, rr.Code)
				var env APIResponse
				require.NoError(t, json.NewDecoder(rr.Body).Decode(&env))
				require.NotNil(t, env.Error)
				assert.Equal(t, ErrCodeBadRequest, env.Error.Code)
			}
		})
	}
}
