package model

import "fmt"

// Section names the parts of a résumé that can be rewritten by the AI
// service.
type Section string

const (
	SectionSummary    Section = "summary"
	SectionExperience Section = "experience"
	SectionProjects   Section = "projects"
)

// EnhanceableSections is the order an AI-enhanced export runs them in.
var EnhanceableSections = []Section{SectionSummary, SectionExperience, SectionProjects}

func ParseSection(s string) (Section, error) {
	switch Section(s) {
	case SectionSummary, SectionExperience, SectionProjects:
		return Section(s), nil
	}
	return "", fmt.Errorf("unknown section %q", s)
}
