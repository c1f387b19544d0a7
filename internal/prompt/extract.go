package prompt

import "strings"

// ExtractAnswer isolates the model's answer from raw generated text. Exactly one rule applies,
// checked in order:
//  1. text after the last "Answer:" marker, trimmed
//  2. text after an echoed prompt, trimmed
//  3. the last three lines, when raw has more than five lines
//  4. raw unchanged
func ExtractAnswer(raw, prompt string) string {
	if i := strings.LastIndex(raw, AnswerMarker); i >= 0 {
		return strings.TrimSpace(raw[i+len(AnswerMarker):])
	}
	if prompt != "" && strings.HasPrefix(raw, prompt) {
		return strings.TrimSpace(raw[len(prompt):])
	}
	if lines := strings.Split(raw, "\n"); len(lines) > 5 {
		return strings.TrimSpace(strings.Join(lines[len(lines)-3:], "\n"))
	}
	return raw
}
