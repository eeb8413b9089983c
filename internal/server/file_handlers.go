package server

import (
	"github.com/gofiber/fiber/v2"

	"sahkan/internal/models"
)

// UploadFile handles POST /api/workspaces/:id/files: stores the document in
// the drive and registers it for approval tracking under the drive's id.
func (s *Server) UploadFile(c *fiber.Ctx) error {
	workspaceID, err := requireParam(c, "id")
	if err != nil {
		return nil
	}
	if err := s.requireWorkspaceMember(c, workspaceID); err != nil {
		return nil
	}

	fileHeader, fhErr := c.FormFile("file")
	if fhErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("A file is required"))
	}

	src, openErr := fileHeader.Open()
	if openErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(openErr))
	}
	defer src.Close()

	meta, upErr := s.store.Upload(c.Context(), fileHeader.Filename, c.FormValue("description"),
		fileHeader.Header.Get("Content-Type"), src)
	if upErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(upErr))
	}

	file := &models.File{
		ID:          meta.ID,
		WorkspaceID: workspaceID,
		OwnerID:     currentUserID(c),
		Description: c.FormValue("description"),
	}
	if createErr := s.fileRepo.Create(c.Context(), file); createErr != nil {
		// Drive content is already stored; there is no compensation here.
		return models.RespondWithAppError(c, createErr)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"file":  file,
		"drive": meta,
	})
}

// GetWorkspaceFiles handles GET /api/workspaces/:id/files
func (s *Server) GetWorkspaceFiles(c *fiber.Ctx) error {
	workspaceID, err := requireParam(c, "id")
	if err != nil {
		return nil
	}
	if err := s.requireWorkspaceMember(c, workspaceID); err != nil {
		return nil
	}

	p := parsePagination(c, 20)
	files, total, listErr := s.fileRepo.ListByWorkspace(c.Context(), workspaceID, (p.Page-1)*p.Limit, p.Limit)
	if listErr != nil {
		return models.RespondWithAppError(c, listErr)
	}

	return c.JSON(fiber.Map{
		"files": files,
		"total": total,
		"page":  p.Page,
		"limit": p.Limit,
	})
}
