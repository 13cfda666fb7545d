package usecase

import (
	"time"

	"resume-builder/internal/domain"
	"resume-builder/internal/plan"
)

const (
	ReasonNoSubscription    = "No active subscription"
	ReasonTemplateNotInPlan = "Template not available in current plan"
	ReasonAILimitExceeded   = "AI download limit exceeded"
)

// Eligibility is the answer to "may this résumé be downloaded now".
type Eligibility struct {
	CanDownload          bool                `json:"canDownload"`
	Reason               string              `json:"reason,omitempty"`
	RedirectToPayment    bool                `json:"redirectToPayment,omitempty"`
	SuggestedPlan        domain.PlanType     `json:"suggestedPlan,omitempty"`
	CurrentTemplate      domain.TemplateKind `json:"currentTemplate,omitempty"`
	AIEnhanced           bool                `json:"aiEnhanced,omitempty"`
	RemainingAIDownloads *int                `json:"remainingAiDownloads,omitempty"`
	PlanType             domain.PlanType     `json:"planType,omitempty"`
}

// Evaluator applies the plan catalog to a subscription snapshot. It does no
// I/O and never mutates the subscription.
type Evaluator struct {
	catalog *plan.Catalog
}

func NewEvaluator(catalog *plan.Catalog) *Evaluator {
	return &Evaluator{catalog: catalog}
}

// Evaluate decides a download of a résumé using template t. The first
// matching rule wins: no usable subscription, template outside the plan,
// AI quota spent, otherwise allowed.
func (e *Evaluator) Evaluate(sub *domain.Subscription, t domain.TemplateKind, aiEnhanced bool, now time.Time) Eligibility {
	var current plan.Plan
	active := sub.IsActive(now)
	if active {
		p, err := e.catalog.Get(sub.PlanType)
		if err != nil {
			// A row naming a plan the catalog no longer has grants nothing.
			active = false
		}
		current = p
	}

	if !active {
		el := Eligibility{
			Reason:            ReasonNoSubscription,
			RedirectToPayment: true,
			AIEnhanced:        aiEnhanced,
		}
		if sub != nil {
			el.PlanType = sub.PlanType
		}
		if p, ok := e.catalog.SuggestFor(t); ok {
			el.SuggestedPlan = p.Type
		}
		return el
	}

	if !current.Allows(t) {
		el := Eligibility{
			Reason:            ReasonTemplateNotInPlan,
			RedirectToPayment: true,
			CurrentTemplate:   t,
			AIEnhanced:        aiEnhanced,
			PlanType:          current.Type,
		}
		if p, ok := e.catalog.SuggestFor(t); ok {
			el.SuggestedPlan = p.Type
		}
		return el
	}

	remaining := current.AIEnhancedDownloads - sub.AIDownloadsUsed
	if remaining < 0 {
		remaining = 0
	}

	if aiEnhanced && remaining == 0 {
		el := Eligibility{
			Reason:               ReasonAILimitExceeded,
			RedirectToPayment:    true,
			AIEnhanced:           true,
			PlanType:             current.Type,
			RemainingAIDownloads: &remaining,
		}
		if p, ok := e.catalog.SuggestUpgrade(t, sub.AIDownloadsUsed); ok && p.Type != current.Type {
			el.SuggestedPlan = p.Type
		}
		return el
	}

	return Eligibility{
		CanDownload:          true,
		AIEnhanced:           aiEnhanced,
		PlanType:             current.Type,
		RemainingAIDownloads: &remaining,
	}
}
