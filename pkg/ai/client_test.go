package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"resume-builder/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chatServer answers /v1/chat with reply(input) as the output field.
func chatServer(t *testing.T, reply func(input string) string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat", r.URL.Path)
		var req struct {
			Agent string `json:"agent"`
			Input string `json:"input"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"agent": "mock", "output": reply(req.Input)})
	}))
}

func TestExtractJSON(t *testing.T) {
	var out map[string]interface{}
	require.NoError(t, ExtractJSON("Sure! ```json\n{\"a\": 1}\n```", &out))
	assert.Equal(t, float64(1), out["a"])

	err := ExtractJSON("no json here", &out)
	assert.ErrorIs(t, err, ErrNonJSON)
}

func TestChatJSONUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	var out map[string]interface{}
	err := NewClient(srv.URL).ChatJSON(context.Background(), "hi", &out)

	var ue *UpstreamError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, http.StatusServiceUnavailable, ue.StatusCode())
}

func TestEnhancerKeepsIdentifyingFields(t *testing.T) {
	srv := chatServer(t, func(input string) string {
		switch {
		case strings.HasPrefix(input, "Polish professional summary"):
			return `{"professionalSummary": "Backend engineer focused on reliable Go services."}`
		case strings.HasPrefix(input, "Format experience"):
			return "```json\n" + `{"experience": [{"company": "Renamed Inc", "position": "CTO", "description": "Built the billing pipeline.", "achievements": ["Shipped invoicing in Go"]}]}` + "\n```"
		case strings.HasPrefix(input, "Format projects"):
			return `{"projects": [{"name": "Other", "description": "A ledger service with double-entry accounting.", "highlights": ["Handles 1k tx/s"]}]}`
		}
		return `{}`
	})
	defer srv.Close()

	d := model.Empty()
	d.ProfessionalSummary = "I code."
	d.Experience = []model.Experience{{Company: "Acme", Position: "Intern", StartDate: "2024-01"}}
	d.Projects = []model.Project{{Name: "Ledger", URL: "https://github.com/a/ledger"}}

	e := NewEnhancer(NewClient(srv.URL))
	for _, sec := range model.EnhanceableSections {
		require.NoError(t, e.Enhance(context.Background(), sec, d), sec)
	}

	assert.Equal(t, "Backend engineer focused on reliable Go services.", d.ProfessionalSummary)
	assert.Equal(t, "Acme", d.Experience[0].Company)
	assert.Equal(t, "Intern", d.Experience[0].Position)
	assert.Equal(t, "Built the billing pipeline.", d.Experience[0].Description)
	assert.Equal(t, []string{"Shipped invoicing in Go"}, d.Experience[0].Achievements)
	assert.Equal(t, "Ledger", d.Projects[0].Name)
	assert.Equal(t, []string{"Handles 1k tx/s"}, d.Projects[0].Highlights)
}

func TestEnhancerRejectsEntryCountChange(t *testing.T) {
	srv := chatServer(t, func(string) string {
		return `{"experience": [{"company": "A"}, {"company": "B"}]}`
	})
	defer srv.Close()

	d := model.Empty()
	d.Experience = []model.Experience{{Company: "Acme", Position: "Intern"}}

	err := NewEnhancer(NewClient(srv.URL)).Enhance(context.Background(), model.SectionExperience, d)
	assert.Error(t, err)
	assert.Equal(t, "Acme", d.Experience[0].Company)
}
