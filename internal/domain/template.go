package domain

import (
	"errors"
	"fmt"
	"strings"
)

// TemplateKind is the closed set of résumé layouts a user can pick.
type TemplateKind string

const (
	TemplateCorporate  TemplateKind = "corporate"
	TemplateFresher    TemplateKind = "fresher"
	TemplateGeneral    TemplateKind = "general"
	TemplateTechnical  TemplateKind = "technical"
	TemplateInternship TemplateKind = "internship"
)

var ErrUnknownTemplate = errors.New("unknown template")

// AllTemplates lists every template in display order.
func AllTemplates() []TemplateKind {
	return []TemplateKind{
		TemplateCorporate,
		TemplateFresher,
		TemplateGeneral,
		TemplateTechnical,
		TemplateInternship,
	}
}

func (t TemplateKind) Valid() bool {
	switch t {
	case TemplateCorporate, TemplateFresher, TemplateGeneral, TemplateTechnical, TemplateInternship:
		return true
	}
	return false
}

func (t TemplateKind) String() string { return string(t) }

// ParseTemplateKind accepts the canonical lower-case names, ignoring
// surrounding whitespace and case.
func ParseTemplateKind(s string) (TemplateKind, error) {
	t := TemplateKind(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownTemplate, s)
	}
	return t, nil
}
