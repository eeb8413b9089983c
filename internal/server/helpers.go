package server

import (
	"context"
	"errors"
	"strings"

	"sahkan/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper.  Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// Pagination holds parsed page/limit query parameters.
type Pagination struct {
	Page  int
	Limit int
}

const maxPaginationLimit = 100

// parsePagination extracts page and limit query parameters with the given
// default limit. Pages are 1-based.
func parsePagination(c *fiber.Ctx, defaultLimit int) Pagination {
	limit := c.QueryInt("limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}

	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}

	return Pagination{
		Page:  page,
		Limit: limit,
	}
}

// requireParam extracts a non-empty route parameter. On failure it writes a
// 400 JSON response and returns errResponseWritten; callers should check:
// if err != nil { return nil }
func requireParam(c *fiber.Ctx, param string) (string, error) {
	value := strings.TrimSpace(c.Params(param))
	if value == "" {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+param))
		return "", errResponseWritten
	}
	return value, nil
}

// currentUserID reads the authenticated user id placed in locals by
// AuthRequired.
func currentUserID(c *fiber.Ctx) string {
	userID, _ := c.Locals("userID").(string)
	return userID
}

func (s *Server) isAdminByUserID(ctx context.Context, userID string) (bool, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Select("is_admin").First(&user, "id = ?", userID).Error; err != nil {
		return false, err
	}
	return user.IsAdmin, nil
}

// requireWorkspaceMember rejects callers that are neither a member of the
// workspace nor an admin. On rejection the response is already written and
// errResponseWritten is returned.
func (s *Server) requireWorkspaceMember(c *fiber.Ctx, workspaceID string) error {
	userID := currentUserID(c)

	member, err := s.workspaceRepo.IsMember(c.Context(), workspaceID, userID)
	if err != nil {
		_ = models.RespondWithAppError(c, err)
		return errResponseWritten
	}
	if member {
		return nil
	}

	admin, err := s.isAdminByUserID(c.Context(), userID)
	if err != nil {
		_ = models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
		return errResponseWritten
	}
	if !admin {
		_ = models.RespondWithError(c, fiber.StatusForbidden,
			models.NewUnauthorizedError("Workspace membership required"))
		return errResponseWritten
	}
	return nil
}
