package handler

import (
	"go-pantry-api/internal/repository"
	"go-pantry-api/pkg/logger"
	"go-pantry-api/pkg/response"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type LocationHandler struct {
	locations repository.LocationRepository
}

func NewLocationHandler(locations repository.LocationRepository) *LocationHandler {
	return &LocationHandler{locations: locations}
}

func (h *LocationHandler) GetLocations(c *fiber.Ctx) error {
	locations, err := h.locations.FindAll()
	if err != nil {
		logger.GetLogger().Error("failed to list locations", zap.Error(err))
		return response.Error(c, fiber.StatusInternalServerError, "Internal server error")
	}
	return response.Success(c, fiber.StatusOK, locations)
}
