package server

import (
	"github.com/gofiber/fiber/v2"

	"sahkan/internal/models"
)

// GetMyProfile handles GET /api/users/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	user, err := s.userRepo.GetByID(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(user)
}

// GetAllUsers handles GET /api/users (admin only)
func (s *Server) GetAllUsers(c *fiber.Ctx) error {
	p := parsePagination(c, 20)

	users, total, err := s.userRepo.List(c.Context(), (p.Page-1)*p.Limit, p.Limit)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"users": users,
		"total": total,
		"page":  p.Page,
		"limit": p.Limit,
	})
}

// GetMyNotifications handles GET /api/notifications
func (s *Server) GetMyNotifications(c *fiber.Ctx) error {
	p := parsePagination(c, 20)

	notifications, total, err := s.notificationRepo.ListForRecipient(c.Context(), currentUserID(c), (p.Page-1)*p.Limit, p.Limit)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"notifications": notifications,
		"total":         total,
		"page":          p.Page,
		"limit":         p.Limit,
	})
}
