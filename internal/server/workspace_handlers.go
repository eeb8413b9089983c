package server

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"sahkan/internal/models"
)

// CreateWorkspace handles POST /api/workspaces
func (s *Server) CreateWorkspace(c *fiber.Ctx) error {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if strings.TrimSpace(req.Name) == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Workspace name is required"))
	}

	workspace := &models.Workspace{
		Name:    strings.TrimSpace(req.Name),
		OwnerID: currentUserID(c),
	}
	if err := s.workspaceRepo.Create(c.Context(), workspace); err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(workspace)
}

// GetMyWorkspaces handles GET /api/workspaces
func (s *Server) GetMyWorkspaces(c *fiber.Ctx) error {
	workspaces, err := s.workspaceRepo.ListForUser(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"workspaces": workspaces})
}

// GetWorkspace handles GET /api/workspaces/:id
func (s *Server) GetWorkspace(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return nil
	}
	if err := s.requireWorkspaceMember(c, id); err != nil {
		return nil
	}

	workspace, getErr := s.workspaceRepo.GetByID(c.Context(), id)
	if getErr != nil {
		return models.RespondWithAppError(c, getErr)
	}
	return c.JSON(workspace)
}

// GetWorkspaceMembers handles GET /api/workspaces/:id/members. The member
// list doubles as the candidate approver list for assignment.
func (s *Server) GetWorkspaceMembers(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return nil
	}
	if err := s.requireWorkspaceMember(c, id); err != nil {
		return nil
	}

	members, listErr := s.workspaceRepo.ListMembers(c.Context(), id)
	if listErr != nil {
		return models.RespondWithAppError(c, listErr)
	}
	return c.JSON(fiber.Map{"members": members})
}

// AddWorkspaceMember handles POST /api/workspaces/:id/members
func (s *Server) AddWorkspaceMember(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		UserID string `json:"userId"`
	}
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.UserID) == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("userId is required"))
	}

	workspace, getErr := s.workspaceRepo.GetByID(c.Context(), id)
	if getErr != nil {
		return models.RespondWithAppError(c, getErr)
	}
	if workspace.OwnerID != currentUserID(c) {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewUnauthorizedError("Only the workspace owner can add members"))
	}

	// The target user must exist; a foreign-key violation would surface
	// anyway but the explicit check gives a clean 404.
	if _, err := s.userRepo.GetByID(c.Context(), req.UserID); err != nil {
		return models.RespondWithAppError(c, err)
	}

	if err := s.workspaceRepo.AddMember(c.Context(), id, req.UserID); err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.SendStatus(fiber.StatusCreated)
}

// RemoveWorkspaceMember handles DELETE /api/workspaces/:id/members/:userId
func (s *Server) RemoveWorkspaceMember(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return nil
	}
	userID, err := requireParam(c, "userId")
	if err != nil {
		return nil
	}

	workspace, getErr := s.workspaceRepo.GetByID(c.Context(), id)
	if getErr != nil {
		return models.RespondWithAppError(c, getErr)
	}
	if workspace.OwnerID != currentUserID(c) {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewUnauthorizedError("Only the workspace owner can remove members"))
	}
	if userID == workspace.OwnerID {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("The owner cannot be removed from the workspace"))
	}

	if err := s.workspaceRepo.RemoveMember(c.Context(), id, userID); err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
