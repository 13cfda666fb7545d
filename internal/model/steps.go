package model

import (
	"fmt"
	"net/mail"
	"strings"
)

// Step names follow the builder form, in order.
type Step string

const (
	StepPersonal       Step = "personal"
	StepSummary        Step = "summary"
	StepEducation      Step = "education"
	StepExperience     Step = "experience"
	StepSkills         Step = "skills"
	StepProjects       Step = "projects"
	StepCertifications Step = "certifications"
	StepLanguages      Step = "languages"
)

var Steps = []Step{
	StepPersonal, StepSummary, StepEducation, StepExperience,
	StepSkills, StepProjects, StepCertifications, StepLanguages,
}

type StepResult struct {
	Step     Step     `json:"step"`
	Complete bool     `json:"complete"`
	Optional bool     `json:"optional"`
	Missing  []string `json:"missing,omitempty"`
}

type Progress struct {
	Steps     []StepResult `json:"steps"`
	Completed int          `json:"completed"`
	Total     int          `json:"total"`
}

// IncompleteError is returned when a required step is not filled in.
type IncompleteError struct {
	Step    Step
	Missing []string
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("step %q is incomplete: missing %s", e.Step, strings.Join(e.Missing, ", "))
}

// Evaluate reports every builder step for d.
func Evaluate(d *ResumeData) Progress {
	p := Progress{Total: len(Steps)}
	for _, s := range Steps {
		r := ValidateStep(d, s)
		if r.Complete {
			p.Completed++
		}
		p.Steps = append(p.Steps, r)
	}
	return p
}

// RequireExportable fails unless the personal step is complete; the other
// steps may be empty on a printed résumé.
func RequireExportable(d *ResumeData) error {
	r := ValidateStep(d, StepPersonal)
	if r.Complete {
		return nil
	}
	return &IncompleteError{Step: StepPersonal, Missing: r.Missing}
}

func ValidateStep(d *ResumeData, s Step) StepResult {
	r := StepResult{Step: s, Missing: []string{}}
	switch s {
	case StepPersonal:
		if strings.TrimSpace(d.PersonalInfo.FullName) == "" {
			r.Missing = append(r.Missing, "personalInfo.fullName")
		}
		if _, err := mail.ParseAddress(d.PersonalInfo.Email); err != nil {
			r.Missing = append(r.Missing, "personalInfo.email")
		}
	case StepSummary:
		if strings.TrimSpace(d.ProfessionalSummary) == "" {
			r.Missing = append(r.Missing, "professionalSummary")
		}
	case StepEducation:
		if len(d.Education) == 0 {
			r.Missing = append(r.Missing, "education")
		}
		for i, e := range d.Education {
			if strings.TrimSpace(e.Institution) == "" {
				r.Missing = append(r.Missing, fmt.Sprintf("education[%d].institution", i))
			}
			if strings.TrimSpace(e.Degree) == "" {
				r.Missing = append(r.Missing, fmt.Sprintf("education[%d].degree", i))
			}
		}
	case StepExperience:
		r.Optional = true
		for i, e := range d.Experience {
			if strings.TrimSpace(e.Company) == "" {
				r.Missing = append(r.Missing, fmt.Sprintf("experience[%d].company", i))
			}
			if strings.TrimSpace(e.Position) == "" {
				r.Missing = append(r.Missing, fmt.Sprintf("experience[%d].position", i))
			}
		}
	case StepSkills:
		if len(d.Skills) == 0 {
			r.Missing = append(r.Missing, "skills")
		}
		for i, sk := range d.Skills {
			if strings.TrimSpace(sk.Name) == "" {
				r.Missing = append(r.Missing, fmt.Sprintf("skills[%d].name", i))
			}
		}
	case StepProjects:
		r.Optional = true
		for i, p := range d.Projects {
			if strings.TrimSpace(p.Name) == "" {
				r.Missing = append(r.Missing, fmt.Sprintf("projects[%d].name", i))
			}
		}
	case StepCertifications:
		r.Optional = true
		for i, c := range d.Certifications {
			if strings.TrimSpace(c.Name) == "" {
				r.Missing = append(r.Missing, fmt.Sprintf("certifications[%d].name", i))
			}
		}
	case StepLanguages:
		r.Optional = true
		for i, l := range d.Languages {
			if strings.TrimSpace(l.Name) == "" {
				r.Missing = append(r.Missing, fmt.Sprintf("languages[%d].name", i))
			}
		}
	}
	r.Complete = len(r.Missing) == 0
	return r
}
