package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"resume-builder/internal/model"
)

// Enhancer rewrites résumé sections through the section formatters. Facts
// that identify an entry (company, position, dates, project name, url) are
// always kept from the original.
type Enhancer struct {
	summary    Formatter
	experience Formatter
	projects   Formatter
}

func NewEnhancer(c *Client) *Enhancer {
	return &Enhancer{
		summary:    c.NewSummaryFormatter(),
		experience: c.NewExperienceFormatter(),
		projects:   c.NewProjectsFormatter(),
	}
}

func (e *Enhancer) Enhance(ctx context.Context, section model.Section, d *model.ResumeData) error {
	switch section {
	case model.SectionSummary:
		return e.enhanceSummary(ctx, d)
	case model.SectionExperience:
		return e.enhanceExperience(ctx, d)
	case model.SectionProjects:
		return e.enhanceProjects(ctx, d)
	}
	return fmt.Errorf("section %q cannot be enhanced", section)
}

func (e *Enhancer) enhanceSummary(ctx context.Context, d *model.ResumeData) error {
	payload := map[string]interface{}{
		"fullName":            d.PersonalInfo.FullName,
		"professionalSummary": d.ProfessionalSummary,
		"education":           d.Education,
		"experience":          d.Experience,
		"skills":              d.Skills,
	}
	out, err := e.summary.Format(ctx, payload)
	if err != nil {
		return err
	}
	if s, ok := out["professionalSummary"].(string); ok && s != "" {
		d.ProfessionalSummary = s
	}
	return nil
}

func (e *Enhancer) enhanceExperience(ctx context.Context, d *model.ResumeData) error {
	if len(d.Experience) == 0 {
		return nil
	}
	out, err := e.experience.Format(ctx, map[string]interface{}{"experience": d.Experience})
	if err != nil {
		return err
	}
	var rewritten []model.Experience
	if err := remarshal(out["experience"], &rewritten); err != nil {
		return err
	}
	if len(rewritten) != len(d.Experience) {
		return fmt.Errorf("ai-service returned %d experience entries for %d", len(rewritten), len(d.Experience))
	}
	for i := range d.Experience {
		if rewritten[i].Description != "" {
			d.Experience[i].Description = rewritten[i].Description
		}
		if len(rewritten[i].Achievements) > 0 {
			d.Experience[i].Achievements = rewritten[i].Achievements
		}
	}
	return nil
}

func (e *Enhancer) enhanceProjects(ctx context.Context, d *model.ResumeData) error {
	if len(d.Projects) == 0 {
		return nil
	}
	out, err := e.projects.Format(ctx, map[string]interface{}{"projects": d.Projects})
	if err != nil {
		return err
	}
	var rewritten []model.Project
	if err := remarshal(out["projects"], &rewritten); err != nil {
		return err
	}
	if len(rewritten) != len(d.Projects) {
		return fmt.Errorf("ai-service returned %d projects for %d", len(rewritten), len(d.Projects))
	}
	for i := range d.Projects {
		if rewritten[i].Description != "" {
			d.Projects[i].Description = rewritten[i].Description
		}
		if len(rewritten[i].Highlights) > 0 {
			d.Projects[i].Highlights = rewritten[i].Highlights
		}
	}
	return nil
}

func remarshal(in interface{}, out interface{}) error {
	b, err := json.Marshal(in)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("%w: %v", ErrNonJSON, err)
	}
	return nil
}
