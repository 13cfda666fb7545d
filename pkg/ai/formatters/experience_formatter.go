package formatters

import (
	"context"
	"errors"
)

const maxBulletLen = 210

type ExperienceFormatter struct {
	chat     Chatter
	language string
}

func NewExperienceFormatter(chat Chatter, language string) *ExperienceFormatter {
	return &ExperienceFormatter{chat: chat, language: language}
}

// Format expects {"experience": [...]} and returns the same key with
// rewritten descriptions and achievements, one entry per input entry.
func (ef *ExperienceFormatter) Format(ctx context.Context, payload map[string]interface{}) (map[string]interface{}, error) {
	instr := languageRule(ef.language) +
		"Return ONLY a single JSON object with the key 'experience': an array with exactly one object per input entry, in the same order. " +
		"Keep company, position and dates unchanged. Rewrite 'description' as one sentence and 'achievements' as 2-4 action-verb bullets, each under 210 characters. " +
		"Do not invent metrics that are not in the input. Do NOT include any other text."

	var out map[string]interface{}
	if err := ef.chat.ChatJSON(ctx, prompt("Format experience", payload, instr), &out); err != nil {
		return nil, err
	}
	entries, ok := out["experience"].([]interface{})
	if !ok {
		return nil, errors.New("ai-service returned no experience array")
	}
	clipBullets(entries, "achievements")
	return map[string]interface{}{"experience": entries}, nil
}

// clipBullets trims every string in entries[i][key] to maxBulletLen.
func clipBullets(entries []interface{}, key string) {
	for _, e := range entries {
		m, ok := e.(map[string]interface{})
		if !ok {
			continue
		}
		list, ok := m[key].([]interface{})
		if !ok {
			continue
		}
		for i, b := range list {
			if s, ok := b.(string); ok {
				list[i] = clip(s, maxBulletLen)
			}
		}
	}
}
