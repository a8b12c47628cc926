package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/lokesh-manneti/skillsync-ai-v2/api/http/presenter"
	"github.com/lokesh-manneti/skillsync-ai-v2/pkg/ai"
	"github.com/lokesh-manneti/skillsync-ai-v2/pkg/auth"
	"github.com/lokesh-manneti/skillsync-ai-v2/pkg/profile"
)

type ProfileHandler struct {
	useCase profile.UseCase
	users   auth.AuthUseCase
	// Limit uploaded file size read into memory (bytes)
	maxBytes int64
}

func NewProfileHandler(useCase profile.UseCase, users auth.AuthUseCase, maxBytes int64) *ProfileHandler {
	if maxBytes <= 0 {
		maxBytes = 15 << 20 // 15MB
	}
	return &ProfileHandler{useCase: useCase, users: users, maxBytes: maxBytes}
}

// Upload processes an uploaded PDF resume: extracts its text, generates the
// career analysis and creates or replaces the profile.
// @Summary Upload resume and generate career analysis
// @Tags    profile
// @Accept  multipart/form-data
// @Produce json
// @Param   target_role formData string true "target role"
// @Param   experience_level formData string true "experience level"
// @Param   file formData file true "resume (PDF)"
// @Security BearerAuth
// @Success 200 {object} profile.Profile
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 429 {object} presenter.ErrorResponse
// @Router  /profile/upload [post]
func (h *ProfileHandler) Upload(c *fiber.Ctx) error {
	targetRole := strings.TrimSpace(c.FormValue("target_role"))
	experienceLevel := strings.TrimSpace(c.FormValue("experience_level"))
	if targetRole == "" || experienceLevel == "" {
		return presenter.Error(c, http.StatusBadRequest, "target_role and experience_level are required")
	}

	fh, err := c.FormFile("file")
	if err != nil || fh == nil {
		return presenter.Error(c, http.StatusBadRequest, "file is required (pdf)")
	}
	if ct := fh.Header.Get("Content-Type"); ct != "application/pdf" {
		return presenter.Error(c, http.StatusBadRequest, "Only PDF files are supported")
	}
	file, err := fh.Open()
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "failed to open uploaded file")
	}
	defer file.Close()

	data, err := readAtMost(file, h.maxBytes)
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	}

	p, err := h.useCase.Upload(c.Context(), currentUserID(c), targetRole, experienceLevel, data)
	if err != nil {
		return profileError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, p)
}

// Me returns the caller's profile with the denormalized owner name and email.
// @Summary Current profile
// @Tags    profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /profile/me [get]
func (h *ProfileHandler) Me(c *fiber.Ctx) error {
	userID := currentUserID(c)
	p, err := h.useCase.Get(c.Context(), userID)
	if err != nil {
		return profileError(c, err)
	}

	fullName, email := "Unknown", "Unknown"
	if u, err := h.users.GetUser(c.Context(), userID); err == nil {
		fullName, email = u.FullName, u.Email
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{
		"id":                 p.ID.String(),
		"userId":             p.UserID.String(),
		"targetRole":         p.TargetRole,
		"experienceLevel":    p.ExperienceLevel,
		"resumeText":         p.ResumeText,
		"analysis":           p.Analysis,
		"dailyUploadCount":   p.DailyUploadCount,
		"dailyOptimizeCount": p.DailyOptimizeCount,
		"lastActivityDate":   p.LastActivityDate.Format("2006-01-02"),
		"updatedAt":          p.UpdatedAt,
		"fullName":           fullName,
		"email":              email,
	})
}

type roadmapToggleRequest struct {
	PhaseIndex int  `json:"phaseIndex"`
	ItemIndex  int  `json:"itemIndex"`
	Completed  bool `json:"completed"`
}

// ToggleRoadmapItem marks one roadmap action item done or not done.
// @Summary Toggle roadmap item
// @Tags    profile
// @Accept  json
// @Produce json
// @Param   input body roadmapToggleRequest true "item coordinates"
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /profile/roadmap/toggle [patch]
func (h *ProfileHandler) ToggleRoadmapItem(c *fiber.Ctx) error {
	var req roadmapToggleRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	roadmap, err := h.useCase.ToggleRoadmapItem(c.Context(), currentUserID(c), req.PhaseIndex, req.ItemIndex, req.Completed)
	if err != nil {
		return profileError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{
		"status":         "success",
		"updatedRoadmap": roadmap,
	})
}

// OptimizeResume rewrites the stored resume as LaTeX source for the target role.
// @Summary Optimize resume
// @Tags    profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 404 {object} presenter.ErrorResponse
// @Failure 429 {object} presenter.ErrorResponse
// @Failure 502 {object} presenter.ErrorResponse
// @Router  /profile/optimize_resume [post]
func (h *ProfileHandler) OptimizeResume(c *fiber.Ctx) error {
	content, err := h.useCase.OptimizeResume(c.Context(), currentUserID(c))
	if err != nil {
		return profileError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{
		"optimizedContent": content,
	})
}

// profileError maps domain errors onto the HTTP status taxonomy.
func profileError(c *fiber.Ctx, err error) error {
	var rl *profile.RateLimitError
	switch {
	case errors.As(err, &rl):
		return presenter.Error(c, http.StatusTooManyRequests, rl.Error())
	case errors.Is(err, profile.ErrNotFound):
		return presenter.Error(c, http.StatusNotFound, "Profile not found")
	case errors.Is(err, profile.ErrInvalidRoadmapIndex), errors.Is(err, profile.ErrMalformedRoadmap):
		return presenter.Error(c, http.StatusBadRequest, fmt.Sprintf("Invalid roadmap index or structure: %v", err))
	case errors.Is(err, profile.ErrResumeTooShort):
		return presenter.Error(c, http.StatusBadRequest, "Resume content is too short or unreadable.")
	case errors.Is(err, ai.ErrUpstream):
		return presenter.Error(c, http.StatusBadGateway, fmt.Sprintf("generation failed: %v", err))
	default:
		return presenter.Error(c, http.StatusInternalServerError, "internal error")
	}
}

// currentUserID reads the subject the JWT middleware stored in locals.
func currentUserID(c *fiber.Ctx) uuid.UUID {
	idStr, _ := c.Locals("userId").(string)
	id, _ := uuid.Parse(idStr)
	return id
}

func readAtMost(f multipart.File, max int64) ([]byte, error) {
	limited := io.LimitReader(f, max+1)
	b, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if int64(len(b)) > max {
		return nil, fmt.Errorf("file too large: limit is %d bytes", max)
	}
	return b, nil
}
