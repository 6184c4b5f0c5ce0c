package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// placeholderRE matches placeholder tokens in prompt and answer text for
// the preservation check.
var placeholderRE = regexp.MustCompile(`\[\[[A-Z_]+\d+\]\]`)

// answerObjectRE extracts a flat JSON object carrying an "answer" key from
// otherwise non-JSON model output.
var answerObjectRE = regexp.MustCompile(`\{[^{}]*"answer"[^{}]*\}`)

// BuildSystemPrompt returns the system message that forbids the model from
// altering placeholder tokens.
func BuildSystemPrompt() string {
	return "You are a privacy-safe assistant. You are given text containing placeholders " +
		"like [[PERSON_1]], [[EMAIL_1]], [[PHONE_1]]. You must NOT modify or remove these placeholders. " +
		"Output EXACTLY a JSON object with a single key 'answer' whose value is the textual reply " +
		"and which contains placeholders verbatim wherever appropriate. " +
		"If you cannot answer, return {\"answer\":\"REFUSE\"}. " +
		"Do NOT change, translate, expand, paraphrase, or remove placeholders of the form [[TYPE_n]]. " +
		"Keep them exactly as-is in your answer."
}

// RetrySystemPrompt strengthens the instruction for a second attempt after
// the first reply failed parsing or dropped placeholders.
func RetrySystemPrompt() string {
	return BuildSystemPrompt() + "\n\nCRITICAL: You MUST output valid JSON with 'answer' field. " +
		"You MUST preserve ALL placeholders like [[PERSON_1]] exactly as they appear. " +
		"Do NOT paraphrase or remove them."
}

// BuildUserPrompt assembles the user message from sanitized text and the
// detected context category.
func BuildUserPrompt(sanitized, category string) string {
	cat := strings.ToLower(strings.TrimSpace(category))
	if cat == "" {
		cat = "general"
	}
	return fmt.Sprintf("Context category: %s.\nSanitized input: %s\n\n", cat, sanitized) +
		"Write a helpful, safety-focused answer. Use placeholders exactly as they appear in the input. " +
		"Output valid JSON ONLY with an 'answer' field containing your response."
}

// ParseAnswer extracts the "answer" field from model output. It first strips
// a markdown code fence if present, then falls back to locating a flat JSON
// object anywhere in the text. Returns ok=false when no answer can be found.
func ParseAnswer(raw string) (string, bool) {
	if raw == "" {
		return "", false
	}

	cleaned := strings.TrimSpace(raw)
	if strings.HasPrefix(cleaned, "```") {
		cleaned = stripFence(cleaned)
	}

	if answer, ok := decodeAnswer(cleaned); ok {
		return answer, true
	}

	if m := answerObjectRE.FindString(raw); m != "" {
		if answer, ok := decodeAnswer(m); ok {
			return answer, true
		}
	}
	return "", false
}

// PlaceholdersPreserved reports whether answer retains placeholder tokens
// from the sanitized prompt. An answer with no placeholders passes only when
// the prompt carried none either.
func PlaceholdersPreserved(answer, sanitized string) bool {
	if len(placeholderRE.FindAllString(answer, -1)) > 0 {
		return true
	}
	return len(placeholderRE.FindAllString(sanitized, -1)) == 0
}

func decodeAnswer(s string) (string, bool) {
	var parsed map[string]json.RawMessage
	if err := json.Unmarshal([]byte(s), &parsed); err != nil {
		return "", false
	}
	rawAnswer, ok := parsed["answer"]
	if !ok {
		return "", false
	}
	var answer string
	if err := json.Unmarshal(rawAnswer, &answer); err != nil {
		return "", false
	}
	return answer, true
}

// stripFence removes the outermost markdown code fence, tolerating a
// language tag on the opening line.
func stripFence(s string) string {
	lines := strings.Split(s, "\n")
	var body []string
	inside := false
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			if inside {
				break
			}
			inside = true
			continue
		}
		if inside {
			body = append(body, line)
		}
	}
	return strings.Join(body, "\n")
}
