package models

type MatchRequest struct {
	JobDescription string `json:"job_description" validate:"required"`
	ResumeText     string `json:"resume_text" validate:"required"`
}

type ChatRequest struct {
	Message string `json:"message" validate:"required"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}

// Evaluation is the structured result the LLM is instructed to produce.
type Evaluation struct {
	MatchScore   float64  `json:"match_score"`
	Summary      string   `json:"summary"`
	Strengths    []string `json:"strengths"`
	Gaps         []string `json:"gaps"`
	Improvements []string `json:"improvements"`
}

type EvaluationResponse struct {
	Evaluation *Evaluation `json:"evaluation"`
	// ResumePreview carries the first 800 characters of extracted text.
	// Diagnostic aid only, set on the PDF endpoint.
	ResumePreview string `json:"resume_preview,omitempty"`
}

// ScoreResult is the deterministic keyword-overlap score.
type ScoreResult struct {
	OverallScore  int      `json:"overall_score"`
	SkillsMatch   int      `json:"skills_match"`
	MatchedSkills []string `json:"matched_skills"`
	MissingSkills []string `json:"missing_skills"`
	Notes         string   `json:"notes"`
}

type ErrorResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message,omitempty"`
	RetryAfter int    `json:"retry_after,omitempty"`
}
