package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shaneclick1-cyber/Kinddraw/internal/models"

	should "github.com/stretchr/testify/assert"
	must "github.com/stretchr/testify/require"
)

func TestComments(t *testing.T) {
	env := newTestEnv(t, testConfig(), nil)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/campaigns/abc123/comments", nil))
	must.Equal(t, http.StatusOK, rec.Code)
	should.JSONEq(t, `[]`, rec.Body.String())

	for _, body := range []string{`{"displayName":" Sam ","body":" first "}`, `{"displayName":"Alex","body":"second"}`} {
		rec = env.do(jsonRequest(http.MethodPost, "/api/campaigns/abc123/comments", body))
		must.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec = env.do(httptest.NewRequest(http.MethodGet, "/api/campaigns/abc123/comments", nil))
	must.Equal(t, http.StatusOK, rec.Code)
	var comments []models.Comment
	must.NoError(t, json.Unmarshal(rec.Body.Bytes(), &comments))
	must.Len(t, comments, 2)
	should.Equal(t, "second", comments[0].Body)
	should.Equal(t, "Sam", comments[1].DisplayName)
	should.Equal(t, "first", comments[1].Body)
}

func TestAddCommentValidation(t *testing.T) {
	env := newTestEnv(t, testConfig(), nil)

	tests := []struct {
		name string
		body string
	}{
		{name: "blank_name", body: `{"displayName":"   ","body":"hello"}`},
		{name: "missing_body", body: `{"displayName":"Sam"}`},
		{name: "too_long", body: `{"displayName":"Sam","body":"` + strings.Repeat("x", maxCommentLen+1) + `"}`},
		{name: "invalid_json", body: `{`},
	}
	for i := range tests {
		tc := tests[i]
		t.Run(tc.name, func(t *testing.T) {
			rec := env.do(jsonRequest(http.MethodPost, "/api/campaigns/abc123/comments", tc.body))
			should.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
	should.Empty(t, env.store.comments)
}
