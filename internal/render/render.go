// Package render turns résumé content into a print-ready A4 HTML document.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/url"
	"strings"

	"resume-builder/internal/domain"
	"resume-builder/internal/model"

	"golang.org/x/net/publicsuffix"
)

//go:embed templates/*.html
var files embed.FS

var funcs = template.FuncMap{
	"linkLabel": LinkLabel,
	"dateRange": DateRange,
	"join":      strings.Join,
	"initials":  Initials,
	"skillNames": func(skills []model.Skill) string {
		names := make([]string, 0, len(skills))
		for _, s := range skills {
			if s.Name != "" {
				names = append(names, s.Name)
			}
		}
		return strings.Join(names, ", ")
	},
}

var sets = map[domain.TemplateKind]*template.Template{}

func init() {
	for _, k := range domain.AllTemplates() {
		name, err := fileFor(k)
		if err != nil {
			panic(err)
		}
		t := template.Must(template.New("base.html").Funcs(funcs).ParseFS(files, "templates/base.html", "templates/"+name))
		sets[k] = t
	}
}

// fileFor is the single dispatch point from template kind to markup.
func fileFor(k domain.TemplateKind) (string, error) {
	switch k {
	case domain.TemplateCorporate:
		return "corporate.html", nil
	case domain.TemplateFresher:
		return "fresher.html", nil
	case domain.TemplateGeneral:
		return "general.html", nil
	case domain.TemplateTechnical:
		return "technical.html", nil
	case domain.TemplateInternship:
		return "internship.html", nil
	}
	return "", fmt.Errorf("%w: %q", domain.ErrUnknownTemplate, string(k))
}

type page struct {
	Kind  domain.TemplateKind
	Title string
	Data  *model.ResumeData
}

// HTML renders d with the layout for k. Unknown kinds are an error, never a
// fallback to another layout.
func HTML(k domain.TemplateKind, d *model.ResumeData) (string, error) {
	if _, err := fileFor(k); err != nil {
		return "", err
	}
	t := sets[k]

	title := strings.TrimSpace(d.PersonalInfo.FullName)
	if title == "" {
		title = "Resume"
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base.html", page{Kind: k, Title: title, Data: d}); err != nil {
		return "", fmt.Errorf("render %s: %w", k, err)
	}
	return buf.String(), nil
}

// LinkLabel shortens a profile URL to its registrable domain plus path,
// e.g. "https://www.linkedin.com/in/asha/" becomes "linkedin.com/in/asha".
func LinkLabel(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	withScheme := raw
	if !strings.Contains(raw, "://") {
		withScheme = "https://" + raw
	}
	u, err := url.Parse(withScheme)
	if err != nil || u.Hostname() == "" {
		return raw
	}
	host := u.Hostname()
	if d, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		host = d
	}
	return host + strings.TrimSuffix(u.EscapedPath(), "/")
}

func DateRange(start, end string, current bool) string {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	if current {
		end = "Present"
	}
	switch {
	case start == "" && end == "":
		return ""
	case start == "":
		return end
	case end == "":
		return start
	}
	return start + " – " + end
}

func Initials(name string) string {
	var out []rune
	for _, part := range strings.Fields(name) {
		out = append(out, []rune(strings.ToUpper(part))[0])
		if len(out) == 2 {
			break
		}
	}
	return string(out)
}
