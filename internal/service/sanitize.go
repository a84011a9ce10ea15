package service

import (
	"regexp"
	"strings"
)

// MaxPromptRunes is the longest free text ever placed into an instruction.
const MaxPromptRunes = 200

var (
	fencedBlock   = regexp.MustCompile("(?s)```.*?```")
	markdownLink  = regexp.MustCompile(`\[.*?\]\(.*?\)`)
	roleIndicator = regexp.MustCompile(`(?i)\b(system|assistant|user):`)
	injectionRune = strings.NewReplacer("<", "", ">", "", `"`, "", "'", "", "`", "", "{", "", "}", "")
)

// SanitizePrompt strips prompt-injection material from user text before it is
// embedded in an instruction. Fenced blocks go first since the backtick
// removal would otherwise break them open.
func SanitizePrompt(s string) string {
	s = strings.TrimSpace(s)
	s = fencedBlock.ReplaceAllString(s, "")
	s = markdownLink.ReplaceAllString(s, "")
	s = injectionRune.Replace(s)
	s = roleIndicator.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)

	r := []rune(s)
	if len(r) > MaxPromptRunes {
		s = strings.TrimSpace(string(r[:MaxPromptRunes]))
	}
	return s
}
