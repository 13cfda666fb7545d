// Package plan holds the static plan catalog. It is the only place that
// states which templates and how many AI-enhanced downloads a plan grants.
package plan

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"

	"resume-builder/internal/domain"

	"gopkg.in/yaml.v2"
)

//go:embed plans.yaml
var catalogYAML []byte

var ErrUnknownPlan = errors.New("unknown plan type")

type Plan struct {
	Type                domain.PlanType       `yaml:"type" json:"type"`
	Name                string                `yaml:"name" json:"name"`
	Tier                int                   `yaml:"tier" json:"tier"`
	Free                bool                  `yaml:"free" json:"free"`
	Price               int64                 `yaml:"price" json:"price"`
	Currency            string                `yaml:"currency" json:"currency"`
	DurationDays        int                   `yaml:"duration_days" json:"durationDays"`
	AIEnhancedDownloads int                   `yaml:"ai_enhanced_downloads" json:"aiEnhancedDownloads"`
	Templates           []domain.TemplateKind `yaml:"templates" json:"templates"`
}

// Allows reports whether t is in the plan's template set.
func (p Plan) Allows(t domain.TemplateKind) bool {
	for _, allowed := range p.Templates {
		if allowed == t {
			return true
		}
	}
	return false
}

type Catalog struct {
	plans  []Plan
	byType map[domain.PlanType]Plan
}

type catalogFile struct {
	Plans []Plan `yaml:"plans"`
}

// Load parses and checks a catalog document. Plans are ordered by tier.
func Load(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse plan catalog: %w", err)
	}
	if len(f.Plans) == 0 {
		return nil, errors.New("plan catalog is empty")
	}

	c := &Catalog{byType: make(map[domain.PlanType]Plan, len(f.Plans))}
	free := 0
	for _, p := range f.Plans {
		if p.Type == "" {
			return nil, errors.New("plan without type")
		}
		if _, dup := c.byType[p.Type]; dup {
			return nil, fmt.Errorf("duplicate plan %q", p.Type)
		}
		for _, t := range p.Templates {
			if !t.Valid() {
				return nil, fmt.Errorf("plan %q: %w: %q", p.Type, domain.ErrUnknownTemplate, t)
			}
		}
		if p.AIEnhancedDownloads < 0 {
			return nil, fmt.Errorf("plan %q: negative AI quota", p.Type)
		}
		if p.Free {
			free++
		} else if p.Price <= 0 || p.DurationDays <= 0 {
			return nil, fmt.Errorf("plan %q: paid plan needs price and duration", p.Type)
		}
		c.byType[p.Type] = p
		c.plans = append(c.plans, p)
	}
	if free != 1 {
		return nil, fmt.Errorf("plan catalog must have exactly one free plan, has %d", free)
	}

	sort.SliceStable(c.plans, func(i, j int) bool { return c.plans[i].Tier < c.plans[j].Tier })
	return c, nil
}

var defaultCatalog *Catalog

func init() {
	c, err := Load(catalogYAML)
	if err != nil {
		panic(err)
	}
	defaultCatalog = c
}

// Default returns the embedded catalog.
func Default() *Catalog { return defaultCatalog }

func (c *Catalog) All() []Plan {
	out := make([]Plan, len(c.plans))
	copy(out, c.plans)
	return out
}

func (c *Catalog) Get(t domain.PlanType) (Plan, error) {
	p, ok := c.byType[t]
	if !ok {
		return Plan{}, fmt.Errorf("%w: %q", ErrUnknownPlan, t)
	}
	return p, nil
}

func (c *Catalog) Free() Plan {
	for _, p := range c.plans {
		if p.Free {
			return p
		}
	}
	// Load guarantees one free plan.
	panic("plan catalog has no free plan")
}

// SuggestFor returns the lowest-tier plan that includes t.
func (c *Catalog) SuggestFor(t domain.TemplateKind) (Plan, bool) {
	for _, p := range c.plans {
		if p.Allows(t) {
			return p, true
		}
	}
	return Plan{}, false
}

// SuggestUpgrade returns the lowest-tier plan that includes t and grants
// more than used AI-enhanced downloads.
func (c *Catalog) SuggestUpgrade(t domain.TemplateKind, used int) (Plan, bool) {
	for _, p := range c.plans {
		if p.Allows(t) && p.AIEnhancedDownloads > used {
			return p, true
		}
	}
	return Plan{}, false
}
