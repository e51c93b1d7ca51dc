package handler

import (
	"errors"
	"strconv"

	"go-pantry-api/internal/repository"
	"go-pantry-api/internal/service"
	"go-pantry-api/pkg/logger"
	"go-pantry-api/pkg/response"
	"go-pantry-api/pkg/validator"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

type ItemHandler struct {
	service service.ItemService
}

func NewItemHandler(s service.ItemService) *ItemHandler {
	return &ItemHandler{service: s}
}

// parseID rejects everything that is not a positive integer.
func parseID(raw string) (uint, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}

// formField reads a form key presence-aware: nil when the key was not sent
// at all, a pointer (possibly to "") when it was.
func formField(args *fasthttp.Args, key string) *string {
	if !args.Has(key) {
		return nil
	}
	v := string(args.Peek(key))
	return &v
}

func (h *ItemHandler) GetItems(c *fiber.Ctx) error {
	items, err := h.service.ListItems()
	if err != nil {
		logger.GetLogger().Error("failed to list items", zap.Error(err))
		return response.Error(c, fiber.StatusInternalServerError, "Internal server error")
	}
	return response.Success(c, fiber.StatusOK, items)
}

func (h *ItemHandler) CreateItem(c *fiber.Ctx) error {
	args := c.Request().PostArgs()
	form := validator.ItemCreateForm{
		Name:           string(args.Peek("name")),
		Source:         formField(args, "source"),
		Category:       formField(args, "category"),
		Quantity:       formField(args, "quantity"),
		Unit:           formField(args, "unit"),
		UsedQuantity:   formField(args, "usedQuantity"),
		ProductionDate: formField(args, "productionDate"),
		ExpiryDate:     formField(args, "expiryDate"),
		LocationID:     formField(args, "locationId"),
		Price:          formField(args, "price"),
		ExtraInfo:      formField(args, "extraInfo"),
	}

	item, err := h.service.CreateItem(&form)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			return response.ValidationError(c, verr.Fields)
		}
		logger.GetLogger().Error("failed to create item", zap.Error(err))
		return response.Error(c, fiber.StatusInternalServerError, "Internal server error")
	}

	return response.Success(c, fiber.StatusCreated, item)
}

func (h *ItemHandler) UpdateItem(c *fiber.Ctx) error {
	id, err := parseID(c.Params("id"))
	if err != nil {
		return response.Error(c, fiber.StatusBadRequest, "Invalid item ID")
	}

	args := c.Request().PostArgs()
	form := validator.ItemUpdateForm{
		Name:           formField(args, "name"),
		Source:         formField(args, "source"),
		Category:       formField(args, "category"),
		Quantity:       formField(args, "quantity"),
		Unit:           formField(args, "unit"),
		UsedQuantity:   formField(args, "usedQuantity"),
		ProductionDate: formField(args, "productionDate"),
		ExpiryDate:     formField(args, "expiryDate"),
		LocationID:     formField(args, "locationId"),
		Price:          formField(args, "price"),
		ExtraInfo:      formField(args, "extraInfo"),
	}

	item, err := h.service.UpdateItem(id, &form)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			return response.ValidationError(c, verr.Fields)
		}
		if errors.Is(err, repository.ErrNotFound) {
			return response.Error(c, fiber.StatusNotFound, "Item not found")
		}
		logger.GetLogger().Error("failed to update item", zap.Uint("item_id", id), zap.Error(err))
		return response.Error(c, fiber.StatusInternalServerError, "Internal server error")
	}

	return response.Success(c, fiber.StatusOK, item)
}

func (h *ItemHandler) DeleteItem(c *fiber.Ctx) error {
	id, err := parseID(c.Params("id"))
	if err != nil {
		return response.Error(c, fiber.StatusBadRequest, "Invalid item ID")
	}

	if err := h.service.DeleteItem(id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.Error(c, fiber.StatusNotFound, "Item not found")
		}
		logger.GetLogger().Error("failed to delete item", zap.Uint("item_id", id), zap.Error(err))
		return response.Error(c, fiber.StatusInternalServerError, "Internal server error")
	}

	return response.Success(c, fiber.StatusOK, fiber.Map{"message": "Item deleted"})
}
