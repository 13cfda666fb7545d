package formatters

import (
	"context"
	"errors"
)

const maxSummaryLen = 600

type SummaryFormatter struct {
	chat     Chatter
	language string
}

func NewSummaryFormatter(chat Chatter, language string) *SummaryFormatter {
	return &SummaryFormatter{chat: chat, language: language}
}

// Format expects the current summary plus supporting sections in payload
// and returns {"professionalSummary": "..."}.
func (sf *SummaryFormatter) Format(ctx context.Context, payload map[string]interface{}) (map[string]interface{}, error) {
	instr := languageRule(sf.language) +
		"Return ONLY a single JSON object with the key 'professionalSummary'. " +
		"Rewrite the candidate's professional summary in 2-4 sentences (150-450 characters), first person implied, no pronouns. " +
		"Use only facts present in the payload; do not invent employers, degrees or numbers. Do NOT include any other text."

	var out map[string]interface{}
	if err := sf.chat.ChatJSON(ctx, prompt("Polish professional summary", payload, instr), &out); err != nil {
		return nil, err
	}

	s, _ := out["professionalSummary"].(string)
	if s == "" {
		s, _ = out["summary"].(string)
	}
	if s == "" {
		return nil, errors.New("ai-service returned no summary")
	}
	return map[string]interface{}{"professionalSummary": clip(s, maxSummaryLen)}, nil
}
