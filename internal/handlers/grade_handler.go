package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"resumeai/resume-service/internal/models"
	"resumeai/resume-service/internal/ratelimit"
	"resumeai/resume-service/internal/services"
)

type GradeHandler struct {
	grader      services.GraderService
	analytics   services.AnalyticsService
	maxFileSize int64
}

func NewGradeHandler(
	grader services.GraderService,
	analytics services.AnalyticsService,
	maxFileSize int64,
) *GradeHandler {
	return &GradeHandler{
		grader:      grader,
		analytics:   analytics,
		maxFileSize: maxFileSize,
	}
}

// HandleAnalyze handles POST /analyze: the deterministic keyword-overlap
// score, no LLM involved.
func (h *GradeHandler) HandleAnalyze(c *fiber.Ctx) error {
	var req models.MatchRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	result := services.ScoreResume(req.ResumeText, req.JobDescription)

	h.analytics.Track("resume_analysis", ratelimit.ClientIdentity(c))

	return c.JSON(result)
}

// HandleGradeResume handles POST /grade_resume: LLM-backed evaluation of
// plain resume text.
func (h *GradeHandler) HandleGradeResume(c *fiber.Ctx) error {
	var req models.MatchRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	evaluation, err := h.grader.GradeResume(c.UserContext(), req.JobDescription, req.ResumeText)
	if err != nil {
		return h.respondError(c, err)
	}

	h.analytics.Track("resume_grading", ratelimit.ClientIdentity(c))

	return c.JSON(models.EvaluationResponse{Evaluation: evaluation})
}

// HandleGradeResumePDF handles POST /grade_resume_pdf: multipart upload,
// text extraction, then the same LLM evaluation. Validation runs cheapest
// checks first and everything fails before the completion call is made.
func (h *GradeHandler) HandleGradeResumePDF(c *fiber.Ctx) error {
	jobDescription := c.FormValue("job_description")
	if jobDescription == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "job_description is required",
		})
	}

	file, err := c.FormFile("resume_pdf")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "resume_pdf file is required",
		})
	}

	pdfBytes, err := services.ReadPDFUpload(file, h.maxFileSize)
	if err != nil {
		return h.respondError(c, err)
	}

	resumeText, err := services.ExtractPDFText(pdfBytes)
	if err != nil {
		return h.respondError(c, err)
	}

	evaluation, err := h.grader.GradeResume(c.UserContext(), jobDescription, resumeText)
	if err != nil {
		return h.respondError(c, err)
	}

	h.analytics.Track("resume_grading_pdf", ratelimit.ClientIdentity(c))

	preview := resumeText
	if len(preview) > 800 {
		preview = preview[:800]
	}

	return c.JSON(models.EvaluationResponse{
		Evaluation:    evaluation,
		ResumePreview: preview,
	})
}

// respondError maps the service error taxonomy to HTTP statuses.
func (h *GradeHandler) respondError(c *fiber.Ctx, err error) error {
	var validationErr *services.ValidationError
	if errors.As(err, &validationErr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": validationErr.Error(),
		})
	}

	var tooLargeErr *services.FileTooLargeError
	if errors.As(err, &tooLargeErr) {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
			"error": tooLargeErr.Error(),
		})
	}

	var extractionErr *services.ExtractionError
	if errors.As(err, &extractionErr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": extractionErr.Error(),
		})
	}

	reqID, _ := c.Locals("requestid").(string)

	var malformedErr *services.MalformedResponseError
	if errors.As(err, &malformedErr) {
		log.Printf("❌ [%s] %v (payload: %s)", reqID, malformedErr, malformedErr.Snippet)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Model returned invalid JSON",
		})
	}

	var upstreamErr *services.UpstreamError
	if errors.As(err, &upstreamErr) {
		log.Printf("❌ [%s] %v", reqID, upstreamErr)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Completion provider error",
		})
	}

	log.Printf("❌ [%s] unexpected error: %v", reqID, err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Internal server error",
	})
}
