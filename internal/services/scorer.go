package services

import (
	"math"
	"sort"

	"github.com/samber/lo"

	"resumeai/resume-service/internal/models"
)

// ScoreResume compares the skill sets detected in a resume and a job
// description and returns a deterministic percentage match. It never fails:
// empty inputs yield a zero score with empty skill lists.
func ScoreResume(resumeText, jobText string) *models.ScoreResult {
	resumeSkills := ExtractSkills(resumeText)
	jobSkills := ExtractSkills(jobText)

	matched := lo.Intersect(jobSkills, resumeSkills)
	missing := lo.Without(jobSkills, resumeSkills...)
	sort.Strings(matched)
	sort.Strings(missing)

	// A job description with zero detected skills scores 0, not 100.
	skillsScore := 0
	if len(jobSkills) > 0 {
		skillsScore = int(math.Round(float64(len(matched)) / float64(len(jobSkills)) * 100))
	}

	// v1: overall is the single skills factor. Additional weighted
	// sub-scores slot in here as a weighted sum, not a replacement.
	overallScore := skillsScore

	return &models.ScoreResult{
		OverallScore:  overallScore,
		SkillsMatch:   skillsScore,
		MatchedSkills: matched,
		MissingSkills: missing,
		Notes:         "v1 keyword-based scoring (deterministic).",
	}
}
