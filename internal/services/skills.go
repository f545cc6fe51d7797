package services

import (
	"regexp"
	"sort"
	"strings"
)

// commonSkills is the v1 keyword vocabulary. Small on purpose; detection is
// whole-word matching against normalized text, not semantic extraction.
var commonSkills = []string{
	"python", "java", "javascript", "typescript", "sql", "html", "css",
	"react", "node", "fastapi", "flask", "django", "git", "github",
	"docker", "aws", "rest", "api", "postgresql", "mongodb",
	"pytest", "unit testing", "oop", "data structures", "algorithms",
}

var (
	nonSkillChars = regexp.MustCompile(`[^a-z0-9+\s\-]`)
	whitespace    = regexp.MustCompile(`\s+`)

	// skillPatterns is built once; vocabulary terms may contain regex
	// metacharacters ("+", for example) and must be escaped.
	skillPatterns = buildSkillPatterns(commonSkills)
)

type skillPattern struct {
	term    string
	pattern *regexp.Regexp
}

func buildSkillPatterns(vocabulary []string) []skillPattern {
	patterns := make([]skillPattern, 0, len(vocabulary))
	for _, term := range vocabulary {
		re := regexp.MustCompile(`\b` + regexp.QuoteMeta(term) + `\b`)
		patterns = append(patterns, skillPattern{term: term, pattern: re})
	}
	return patterns
}

// NormalizeText lowercases, strips everything outside [a-z0-9+- ] and
// collapses whitespace runs.
func NormalizeText(text string) string {
	text = strings.ToLower(text)
	text = nonSkillChars.ReplaceAllString(text, " ")
	text = whitespace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// ExtractSkills returns the vocabulary terms present in text as whole
// words/phrases, sorted ascending. An empty result is valid.
func ExtractSkills(text string) []string {
	normalized := NormalizeText(text)

	var found []string
	for _, sp := range skillPatterns {
		if sp.pattern.MatchString(normalized) {
			found = append(found, sp.term)
		}
	}

	sort.Strings(found)
	return found
}
