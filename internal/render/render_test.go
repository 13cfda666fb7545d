package render

import (
	"strings"
	"testing"

	"resume-builder/internal/domain"
	"resume-builder/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() *model.ResumeData {
	d := model.Empty()
	d.PersonalInfo = model.PersonalInfo{
		FullName: "Asha Rao",
		Email:    "asha@example.com",
		LinkedIn: "https://www.linkedin.com/in/asha/",
	}
	d.ProfessionalSummary = "Backend engineer <who> ships."
	d.Experience = []model.Experience{{Company: "Acme", Position: "Intern", StartDate: "2024-01", Current: true, Achievements: []string{"Cut latency"}}}
	d.Skills = []model.Skill{{Name: "Go"}, {Name: "SQL"}}
	return d
}

func TestHTMLRendersEveryTemplate(t *testing.T) {
	for _, k := range domain.AllTemplates() {
		html, err := HTML(k, sample())
		require.NoError(t, err, k)

		assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"), k)
		assert.Contains(t, html, "Asha Rao", k)
		assert.Contains(t, html, "size: A4", k)
		assert.Contains(t, html, "linkedin.com/in/asha", k)
		assert.Contains(t, html, "Go, SQL", k)
		assert.Contains(t, html, "2024-01 – Present", k)
		assert.Contains(t, html, `class="`+string(k)+`"`, k)
		assert.NotContains(t, html, "<who>", "content must be escaped")
	}
}

func TestHTMLRejectsUnknownTemplate(t *testing.T) {
	_, err := HTML(domain.TemplateKind("modern"), sample())
	assert.ErrorIs(t, err, domain.ErrUnknownTemplate)
}

func TestHTMLEmptyContent(t *testing.T) {
	html, err := HTML(domain.TemplateFresher, model.Empty())
	require.NoError(t, err)
	assert.Contains(t, html, "<title>Resume</title>")
}

func TestLinkLabel(t *testing.T) {
	cases := map[string]string{
		"https://www.linkedin.com/in/asha/": "linkedin.com/in/asha",
		"github.com/asha":                   "github.com/asha",
		"https://blog.example.co.uk":        "example.co.uk",
		"":                                  "",
	}
	for in, want := range cases {
		assert.Equal(t, want, LinkLabel(in), in)
	}
}

func TestDateRangeAndInitials(t *testing.T) {
	assert.Equal(t, "2020 – 2022", DateRange("2020", "2022", false))
	assert.Equal(t, "2021 – Present", DateRange("2021", "", true))
	assert.Equal(t, "2019", DateRange("2019", "", false))
	assert.Equal(t, "", DateRange("", "", false))

	assert.Equal(t, "AR", Initials("asha  rao kumar"))
	assert.Equal(t, "", Initials(""))
}
