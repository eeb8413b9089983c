package server

import (
	"github.com/gofiber/fiber/v2"

	"sahkan/internal/models"
	"sahkan/internal/service"
)

// CreateGrade handles POST /api/grades
func (s *Server) CreateGrade(c *fiber.Ctx) error {
	var in service.GradeInput
	if err := c.BodyParser(&in); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	entry, err := s.gradeService.Create(c.Context(), currentUserID(c), in)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

// GetGrades handles GET /api/grades?workspaceId&mine&page&limit
func (s *Server) GetGrades(c *fiber.Ctx) error {
	workspaceID := c.Query("workspaceId")
	teacherID := ""
	if c.QueryBool("mine") {
		teacherID = currentUserID(c)
	}
	if workspaceID == "" && teacherID == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("workspaceId or mine=true is required"))
	}
	if workspaceID != "" {
		if err := s.requireWorkspaceMember(c, workspaceID); err != nil {
			return nil
		}
	}

	p := parsePagination(c, 20)
	entries, total, err := s.gradeService.List(c.Context(), workspaceID, teacherID, p.Page, p.Limit)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"grades": entries,
		"total":  total,
		"page":   p.Page,
		"limit":  p.Limit,
	})
}

// GetGrade handles GET /api/grades/:id
func (s *Server) GetGrade(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return nil
	}

	entry, getErr := s.gradeService.Get(c.Context(), id)
	if getErr != nil {
		return models.RespondWithAppError(c, getErr)
	}
	if err := s.requireWorkspaceMember(c, entry.WorkspaceID); err != nil {
		return nil
	}
	return c.JSON(entry)
}

// UpdateGrade handles PUT /api/grades/:id
func (s *Server) UpdateGrade(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return nil
	}

	var in service.GradeInput
	if err := c.BodyParser(&in); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	entry, updateErr := s.gradeService.Update(c.Context(), currentUserID(c), id, in)
	if updateErr != nil {
		return models.RespondWithAppError(c, updateErr)
	}
	return c.JSON(entry)
}

// DeleteGrade handles DELETE /api/grades/:id
func (s *Server) DeleteGrade(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return nil
	}

	if delErr := s.gradeService.Delete(c.Context(), currentUserID(c), id); delErr != nil {
		return models.RespondWithAppError(c, delErr)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
