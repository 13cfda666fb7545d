package formatters

import (
	"context"
	"errors"
)

type ProjectsFormatter struct {
	chat     Chatter
	language string
}

func NewProjectsFormatter(chat Chatter, language string) *ProjectsFormatter {
	return &ProjectsFormatter{chat: chat, language: language}
}

// Format expects {"projects": [...]} and returns the same key.
func (pf *ProjectsFormatter) Format(ctx context.Context, payload map[string]interface{}) (map[string]interface{}, error) {
	instr := languageRule(pf.language) +
		"Return ONLY a single JSON object with the key 'projects': an array with exactly one object per input project, in the same order. " +
		"Keep name, url and technologies unchanged. Rewrite 'description' in 80-300 characters and 'highlights' as up to 3 impact bullets under 210 characters. " +
		"Do NOT include any other text."

	var out map[string]interface{}
	if err := pf.chat.ChatJSON(ctx, prompt("Format projects", payload, instr), &out); err != nil {
		return nil, err
	}
	entries, ok := out["projects"].([]interface{})
	if !ok {
		return nil, errors.New("ai-service returned no projects array")
	}
	clipBullets(entries, "highlights")
	return map[string]interface{}{"projects": entries}, nil
}
