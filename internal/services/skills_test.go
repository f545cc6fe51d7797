package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeText(t *testing.T) {
	assert.Equal(t, "python react", NormalizeText("  Python, React!  "))
	assert.Equal(t, "c++ and co-op", NormalizeText("C++ and co-op"))
	assert.Equal(t, "one two three", NormalizeText("one\t two \n three"))
	assert.Equal(t, "", NormalizeText("!!! ???"))
}

func TestExtractSkillsCaseInsensitive(t *testing.T) {
	skills := ExtractSkills("Experienced in PYTHON and Docker")

	assert.Contains(t, skills, "python")
	assert.Contains(t, skills, "docker")
}

func TestExtractSkillsWordBoundary(t *testing.T) {
	// "pythonic" must not count as "python".
	skills := ExtractSkills("writes pythonic code with javascripting flair")
	assert.NotContains(t, skills, "python")
	assert.NotContains(t, skills, "javascript")

	skills = ExtractSkills("writes Python and JavaScript")
	assert.Contains(t, skills, "python")
	assert.Contains(t, skills, "javascript")
}

func TestExtractSkillsPhrases(t *testing.T) {
	skills := ExtractSkills("strong unit testing and data structures background")

	assert.Contains(t, skills, "unit testing")
	assert.Contains(t, skills, "data structures")
}

func TestExtractSkillsPunctuationSeparated(t *testing.T) {
	skills := ExtractSkills("Python, SQL; Docker/AWS.")

	assert.ElementsMatch(t, []string{"aws", "docker", "python", "sql"}, skills)
}

func TestExtractSkillsEmptyInput(t *testing.T) {
	assert.Empty(t, ExtractSkills(""))
	assert.Empty(t, ExtractSkills("nothing recognizable here"))
}

func TestExtractSkillsSorted(t *testing.T) {
	skills := ExtractSkills("sql python aws docker")

	assert.Equal(t, []string{"aws", "docker", "python", "sql"}, skills)
}
