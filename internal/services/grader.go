package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"resumeai/resume-service/internal/models"
)

const gradingSystemPrompt = `You are an expert recruiter and resume reviewer.
Given a job description and a resume, evaluate how well they match.
Respond ONLY in valid JSON with this exact schema:

{
  "match_score": number,            // 0-100
  "summary": string,               // short summary
  "strengths": [string, ...],      // 3-5 bullet points
  "gaps": [string, ...],           // 3-5 bullet points
  "improvements": [string, ...]    // concrete suggestions
}
`

type GraderService interface {
	GradeResume(ctx context.Context, jobDescription, resumeText string) (*models.Evaluation, error)
}

type graderService struct {
	completion     CompletionService
	maxResumeChars int
}

func NewGraderService(completion CompletionService, maxResumeChars int) GraderService {
	return &graderService{
		completion:     completion,
		maxResumeChars: maxResumeChars,
	}
}

// GradeResume builds the two-message grading prompt, invokes the completion
// contract and validates the structured result. Resume length is checked
// before any network call is made.
func (g *graderService) GradeResume(ctx context.Context, jobDescription, resumeText string) (*models.Evaluation, error) {
	if jobDescription == "" {
		return nil, &ValidationError{Field: "job_description", Reason: "must not be empty"}
	}
	if resumeText == "" {
		return nil, &ValidationError{Field: "resume_text", Reason: "must not be empty"}
	}
	if len(resumeText) > g.maxResumeChars {
		return nil, &ValidationError{
			Field:  "resume_text",
			Reason: fmt.Sprintf("exceeds %d characters", g.maxResumeChars),
		}
	}

	messages := []ChatMessage{
		{Role: RoleSystem, Content: gradingSystemPrompt},
		{
			Role:    RoleUser,
			Content: fmt.Sprintf("JOB DESCRIPTION:\n%s\n\nRESUME:\n%s", jobDescription, resumeText),
		},
	}

	raw, err := g.completion.Complete(ctx, messages, CompletionOptions{
		Temperature: 0.3,
		JSONOutput:  true,
	})
	if err != nil {
		log.Printf("❌ Grading completion failed: %v", err)
		return nil, &UpstreamError{Cause: err}
	}

	evaluation, err := parseEvaluation(raw)
	if err != nil {
		log.Printf("❌ Failed to parse grading response: %v", err)
		return nil, err
	}

	return evaluation, nil
}

func parseEvaluation(raw string) (*models.Evaluation, error) {
	jsonStr := extractJSON(raw)

	var evaluation models.Evaluation
	if err := json.Unmarshal([]byte(jsonStr), &evaluation); err != nil {
		return nil, &MalformedResponseError{
			Reason:  fmt.Sprintf("invalid JSON: %v", err),
			Snippet: snippet(raw),
		}
	}

	if err := validateEvaluation(&evaluation); err != nil {
		return nil, &MalformedResponseError{
			Reason:  err.Error(),
			Snippet: snippet(raw),
		}
	}

	return &evaluation, nil
}

func validateEvaluation(e *models.Evaluation) error {
	if e.MatchScore < 0 || e.MatchScore > 100 {
		return fmt.Errorf("match_score %.1f outside [0,100]", e.MatchScore)
	}
	if strings.TrimSpace(e.Summary) == "" {
		return fmt.Errorf("summary is empty")
	}
	if len(e.Strengths) == 0 {
		return fmt.Errorf("strengths is empty")
	}
	if len(e.Gaps) == 0 {
		return fmt.Errorf("gaps is empty")
	}
	if e.Improvements == nil {
		return fmt.Errorf("improvements is missing")
	}
	return nil
}

// extractJSON pulls a JSON object or array out of text that may wrap it in
// markdown fences or prose.
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	startObj := strings.Index(text, "{")
	startArr := strings.Index(text, "[")
	endObj := strings.LastIndex(text, "}")
	endArr := strings.LastIndex(text, "]")

	if startObj != -1 && endObj != -1 && endObj > startObj {
		return text[startObj : endObj+1]
	} else if startArr != -1 && endArr != -1 && endArr > startArr {
		return text[startArr : endArr+1]
	}

	return text
}
