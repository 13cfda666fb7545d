package parser

import (
	"strconv"
	"strings"

	"resume-builder/internal/model"
)

// Normalize converts a parser response into ResumeData. Providers disagree
// on key names and on whether lists hold strings or objects, so each
// section accepts several shapes. The document may be wrapped in "data".
func Normalize(raw map[string]interface{}) *Result {
	doc := raw
	if inner, ok := raw["data"].(map[string]interface{}); ok {
		doc = inner
	}

	d := model.Empty()
	d.PersonalInfo = personalInfo(doc)
	d.ProfessionalSummary = firstString(doc, "professionalSummary", "summary", "objective", "profile")

	for _, it := range firstList(doc, "education", "educations") {
		if e, ok := education(it); ok {
			d.Education = append(d.Education, e)
		}
	}
	for _, it := range firstList(doc, "experience", "workExperience", "work_experience", "work", "employment") {
		if e, ok := experience(it); ok {
			d.Experience = append(d.Experience, e)
		}
	}
	for _, it := range firstList(doc, "skills") {
		d.Skills = append(d.Skills, skills(it)...)
	}
	for _, it := range firstList(doc, "projects") {
		if p, ok := project(it); ok {
			d.Projects = append(d.Projects, p)
		}
	}
	for _, it := range firstList(doc, "certifications", "certificates") {
		if c, ok := certification(it); ok {
			d.Certifications = append(d.Certifications, c)
		}
	}
	for _, it := range firstList(doc, "languages") {
		if l, ok := language(it); ok {
			d.Languages = append(d.Languages, l)
		}
	}

	extracted := map[string]bool{
		"personalInfo":        d.PersonalInfo.FullName != "" || d.PersonalInfo.Email != "",
		"professionalSummary": d.ProfessionalSummary != "",
		"education":           len(d.Education) > 0,
		"experience":          len(d.Experience) > 0,
		"skills":              len(d.Skills) > 0,
		"projects":            len(d.Projects) > 0,
		"certifications":      len(d.Certifications) > 0,
		"languages":           len(d.Languages) > 0,
	}

	confidence, ok := number(raw["confidence"])
	if !ok {
		confidence, ok = number(doc["confidence"])
	}
	if !ok {
		found := 0
		for _, v := range extracted {
			if v {
				found++
			}
		}
		confidence = float64(found) / float64(len(extracted))
	}
	if confidence > 1 {
		// Some providers report a percentage.
		confidence /= 100
	}

	return &Result{Data: d, Confidence: confidence, Extracted: extracted}
}

func personalInfo(doc map[string]interface{}) model.PersonalInfo {
	src := doc
	nested := false
	for _, k := range []string{"personalInfo", "personal_info", "contact", "basics"} {
		if m, ok := doc[k].(map[string]interface{}); ok {
			src, nested = m, true
			break
		}
	}
	p := model.PersonalInfo{
		FullName: firstString(src, "fullName", "full_name", "name"),
		Email:    firstString(src, "email", "emails"),
		Phone:    firstString(src, "phone", "phones", "mobile"),
		Location: firstString(src, "location", "address", "city"),
		LinkedIn: firstString(src, "linkedin", "linkedIn"),
		GitHub:   firstString(src, "github"),
		Website:  firstString(src, "website", "url", "portfolio"),
	}
	if p.FullName == "" {
		if nm, ok := src["name"].(map[string]interface{}); ok {
			p.FullName = strings.TrimSpace(firstString(nm, "first", "firstName") + " " + firstString(nm, "last", "lastName"))
		}
	}
	if p.FullName == "" && nested {
		p.FullName = firstString(doc, "fullName", "name")
	}
	return p
}

func education(it interface{}) (model.Education, bool) {
	switch v := it.(type) {
	case string:
		s := strings.TrimSpace(v)
		return model.Education{Institution: s}, s != ""
	case map[string]interface{}:
		e := model.Education{
			Institution: firstString(v, "institution", "school", "university", "organization"),
			Degree:      firstString(v, "degree", "qualification"),
			Field:       firstString(v, "field", "fieldOfStudy", "major"),
			StartDate:   firstString(v, "startDate", "start_date", "from"),
			EndDate:     firstString(v, "endDate", "end_date", "to", "graduationDate"),
			GPA:         firstString(v, "gpa", "grade", "score"),
			Description: firstString(v, "description"),
		}
		return e, e.Institution != "" || e.Degree != ""
	}
	return model.Education{}, false
}

func experience(it interface{}) (model.Experience, bool) {
	switch v := it.(type) {
	case string:
		s := strings.TrimSpace(v)
		return model.Experience{Description: s}, s != ""
	case map[string]interface{}:
		e := model.Experience{
			Company:      firstString(v, "company", "organization", "employer"),
			Position:     firstString(v, "position", "title", "role", "jobTitle"),
			Location:     firstString(v, "location"),
			StartDate:    firstString(v, "startDate", "start_date", "from"),
			EndDate:      firstString(v, "endDate", "end_date", "to"),
			Description:  firstString(v, "description", "summary"),
			Achievements: stringList(firstValue(v, "achievements", "highlights", "bullets", "responsibilities"), false),
		}
		if b, ok := v["current"].(bool); ok {
			e.Current = b
		} else if strings.EqualFold(e.EndDate, "present") || strings.EqualFold(e.EndDate, "current") {
			e.Current = true
			e.EndDate = ""
		}
		return e, e.Company != "" || e.Position != ""
	}
	return model.Experience{}, false
}

func skills(it interface{}) []model.Skill {
	switch v := it.(type) {
	case string:
		var out []model.Skill
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, model.Skill{Name: s})
			}
		}
		return out
	case map[string]interface{}:
		name := firstString(v, "name", "skill")
		if name == "" {
			return nil
		}
		return []model.Skill{{Name: name, Level: firstString(v, "level", "proficiency")}}
	}
	return nil
}

func project(it interface{}) (model.Project, bool) {
	switch v := it.(type) {
	case string:
		s := strings.TrimSpace(v)
		return model.Project{Name: s}, s != ""
	case map[string]interface{}:
		p := model.Project{
			Name:         firstString(v, "name", "title"),
			Description:  firstString(v, "description", "summary"),
			Technologies: stringList(firstValue(v, "technologies", "stack", "tools"), true),
			URL:          firstString(v, "url", "link"),
			StartDate:    firstString(v, "startDate", "start_date"),
			EndDate:      firstString(v, "endDate", "end_date"),
			Highlights:   stringList(firstValue(v, "highlights", "bullets"), false),
		}
		return p, p.Name != ""
	}
	return model.Project{}, false
}

func certification(it interface{}) (model.Certification, bool) {
	switch v := it.(type) {
	case string:
		s := strings.TrimSpace(v)
		return model.Certification{Name: s}, s != ""
	case map[string]interface{}:
		c := model.Certification{
			Name:         firstString(v, "name", "title"),
			Issuer:       firstString(v, "issuer", "authority", "organization"),
			Date:         firstString(v, "date", "issueDate"),
			URL:          firstString(v, "url"),
			CredentialID: firstString(v, "credentialId", "credential_id", "id"),
		}
		return c, c.Name != ""
	}
	return model.Certification{}, false
}

func language(it interface{}) (model.Language, bool) {
	switch v := it.(type) {
	case string:
		s := strings.TrimSpace(v)
		return model.Language{Name: s}, s != ""
	case map[string]interface{}:
		l := model.Language{
			Name:        firstString(v, "name", "language"),
			Proficiency: firstString(v, "proficiency", "level", "fluency"),
		}
		return l, l.Name != ""
	}
	return model.Language{}, false
}

func firstValue(m map[string]interface{}, keys ...string) interface{} {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

// firstString returns the first key holding text. Lists yield their first
// element and numbers are formatted.
func firstString(m map[string]interface{}, keys ...string) string {
	if m == nil {
		return ""
	}
	for _, k := range keys {
		if s := asString(m[k]); s != "" {
			return s
		}
	}
	return ""
}

func asString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case []interface{}:
		for _, it := range t {
			if s := asString(it); s != "" {
				return s
			}
		}
	}
	return ""
}

// firstList returns the first key holding a list; a lone object or string
// becomes a one-element list.
func firstList(m map[string]interface{}, keys ...string) []interface{} {
	v := firstValue(m, keys...)
	switch t := v.(type) {
	case []interface{}:
		return t
	case nil:
		return nil
	default:
		return []interface{}{t}
	}
}

// stringList accepts a list or a single string. A single string is split on
// commas only when splitCommas is set, which suits technology lists.
func stringList(v interface{}, splitCommas bool) []string {
	switch t := v.(type) {
	case string:
		if s := strings.TrimSpace(t); s != "" {
			if !splitCommas {
				return []string{s}
			}
			var out []string
			for _, p := range strings.Split(s, ",") {
				if p = strings.TrimSpace(p); p != "" {
					out = append(out, p)
				}
			}
			return out
		}
	case []interface{}:
		var out []string
		for _, it := range t {
			if s := asString(it); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func number(v interface{}) (float64, bool) {
	f, ok := v.(float64)
	return f, ok
}
