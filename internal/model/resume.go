package model

import (
	"encoding/json"
	"fmt"
)

// ResumeData is the content document stored on every résumé and fed to the
// templates. Field names follow the builder's JSON.

type PersonalInfo struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	Website  string `json:"website,omitempty"`
	GitHub   string `json:"github,omitempty"`
	PhotoURL string `json:"photoUrl,omitempty"`
}

type Education struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Field       string `json:"field,omitempty"`
	StartDate   string `json:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty"`
	GPA         string `json:"gpa,omitempty"`
	Description string `json:"description,omitempty"`
}

type Experience struct {
	Company      string   `json:"company"`
	Position     string   `json:"position"`
	Location     string   `json:"location,omitempty"`
	StartDate    string   `json:"startDate,omitempty"`
	EndDate      string   `json:"endDate,omitempty"`
	Current      bool     `json:"current,omitempty"`
	Description  string   `json:"description,omitempty"`
	Achievements []string `json:"achievements,omitempty"`
}

type Skill struct {
	Name  string `json:"name"`
	Level string `json:"level,omitempty"`
}

type Project struct {
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
	URL          string   `json:"url,omitempty"`
	StartDate    string   `json:"startDate,omitempty"`
	EndDate      string   `json:"endDate,omitempty"`
	Highlights   []string `json:"highlights,omitempty"`
}

type Certification struct {
	Name         string `json:"name"`
	Issuer       string `json:"issuer,omitempty"`
	Date         string `json:"date,omitempty"`
	URL          string `json:"url,omitempty"`
	CredentialID string `json:"credentialId,omitempty"`
}

type Language struct {
	Name        string `json:"name"`
	Proficiency string `json:"proficiency,omitempty"`
}

type ResumeData struct {
	PersonalInfo        PersonalInfo    `json:"personalInfo"`
	ProfessionalSummary string          `json:"professionalSummary"`
	Education           []Education     `json:"education"`
	Experience          []Experience    `json:"experience"`
	Skills              []Skill         `json:"skills"`
	Projects            []Project       `json:"projects"`
	Certifications      []Certification `json:"certifications"`
	Languages           []Language      `json:"languages"`
}

// Empty returns a document with every list present, which is what a new
// builder draft starts from.
func Empty() *ResumeData {
	return &ResumeData{
		Education:      []Education{},
		Experience:     []Experience{},
		Skills:         []Skill{},
		Projects:       []Project{},
		Certifications: []Certification{},
		Languages:      []Language{},
	}
}

// Decode validates raw against the schema and unmarshals it.
func Decode(raw []byte) (*ResumeData, error) {
	if err := ValidateJSON(raw); err != nil {
		return nil, err
	}
	var d ResumeData
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("decode resume content: %w", err)
	}
	return &d, nil
}

// Encode marshals d; the result always passes ValidateJSON.
func (d *ResumeData) Encode() (json.RawMessage, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	return b, nil
}
