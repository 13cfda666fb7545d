package testutil

import (
	"encoding/json"
	"time"

	"resume-builder/internal/domain"
	"resume-builder/internal/model"

	"github.com/google/uuid"
)

// Now is the fixed clock used across service tests.
var Now = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func SampleResume() *model.ResumeData {
	d := model.Empty()
	d.PersonalInfo = model.PersonalInfo{
		FullName: "Asha Rao",
		Email:    "asha@example.com",
		Phone:    "+91 98450 00000",
		Location: "Bengaluru",
		LinkedIn: "https://www.linkedin.com/in/asharao",
		GitHub:   "https://github.com/asharao",
	}
	d.ProfessionalSummary = "Final-year CS student who builds backend services in Go."
	d.Education = []model.Education{{
		Institution: "RV College of Engineering",
		Degree:      "B.E.",
		Field:       "Computer Science",
		StartDate:   "2021-08",
		EndDate:     "2025-06",
		GPA:         "8.9",
	}}
	d.Experience = []model.Experience{{
		Company:      "Acme Fintech",
		Position:     "Backend Intern",
		StartDate:    "2024-05",
		EndDate:      "2024-07",
		Description:  "Worked on the ledger service.",
		Achievements: []string{"Cut reconciliation time by 40%"},
	}}
	d.Skills = []model.Skill{{Name: "Go", Level: "advanced"}, {Name: "PostgreSQL"}}
	d.Projects = []model.Project{{
		Name:         "Ledger",
		Description:  "Double-entry ledger API.",
		Technologies: []string{"Go", "PostgreSQL"},
		URL:          "https://github.com/asharao/ledger",
	}}
	d.Languages = []model.Language{{Name: "English", Proficiency: "fluent"}}
	return d
}

func SampleContent() json.RawMessage {
	b, err := SampleResume().Encode()
	if err != nil {
		panic(err)
	}
	return b
}

// ActiveSubscription is an unexpired subscription for owner on pt with
// aiUsed AI downloads already taken. Expiry is relative to the wall clock
// because services read time.Now.
func ActiveSubscription(owner uuid.UUID, pt domain.PlanType, aiUsed int) domain.Subscription {
	exp := time.Now().Add(domain.PaidPlanPeriod)
	return domain.Subscription{
		ID:              uuid.New(),
		OwnerID:         owner,
		Status:          domain.StatusActive,
		PlanType:        pt,
		ExpiresAt:       &exp,
		AIDownloadsUsed: aiUsed,
		CreatedAt:       Now,
		UpdatedAt:       Now,
	}
}

// SeedResume stores a résumé with the sample content.
func (s *Store) SeedResume(owner uuid.UUID, t domain.TemplateKind) domain.Resume {
	r := domain.Resume{
		ID:        uuid.New(),
		OwnerID:   owner,
		Title:     "My resume",
		Template:  t,
		Content:   SampleContent(),
		CreatedAt: Now,
		UpdatedAt: Now,
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resumes[r.ID] = r
	return r
}
