package service

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"go-pantry-api/internal/model"
	"go-pantry-api/internal/repository"
	"go-pantry-api/internal/ws"
	"go-pantry-api/pkg/logger"
	"go-pantry-api/pkg/validator"
	appmetrics "go-pantry-api/prometheus"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// ValidationError carries the field-level messages of a rejected payload.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "validation failed" }

type ItemService interface {
	ListItems() ([]model.Item, error)
	CreateItem(form *validator.ItemCreateForm) (*model.Item, error)
	UpdateItem(id uint, form *validator.ItemUpdateForm) (*model.Item, error)
	DeleteItem(id uint) error
}

type itemService struct {
	items repository.ItemRepository
	hub   *ws.Hub
}

func NewItemService(items repository.ItemRepository, hub *ws.Hub) ItemService {
	return &itemService{items: items, hub: hub}
}

func (s *itemService) ListItems() ([]model.Item, error) {
	items, err := s.items.FindAll()
	if err != nil {
		return nil, err
	}
	if items == nil {
		// an empty collection marshals as [], never null
		items = []model.Item{}
	}
	return items, nil
}

func (s *itemService) CreateItem(form *validator.ItemCreateForm) (*model.Item, error) {
	// 1. Validation gate: nothing partially invalid ever reaches storage
	if fields := form.Validate(); len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	// 2. Normalisasi fields
	item := model.Item{
		Name:           strings.TrimSpace(form.Name),
		Source:         trimToNull(form.Source),
		Category:       form.Category,
		Quantity:       toDecimal(form.Quantity),
		Unit:           trimToNull(form.Unit),
		UsedQuantity:   usedQuantityOrDefault(form.UsedQuantity),
		ProductionDate: toTime(form.ProductionDate),
		ExpiryDate:     toTime(form.ExpiryDate),
		LocationID:     toID(form.LocationID),
		Price:          toDecimal(form.Price),
	}
	if form.ExtraInfo != nil && *form.ExtraInfo != "" {
		// stored verbatim, no default imposed when absent
		item.ExtraInfo = datatypes.JSON([]byte(*form.ExtraInfo))
	}

	// 3. Simpan ke database, fetching back with associations
	created, err := s.items.Create(&item)
	if err != nil {
		return nil, err
	}

	appmetrics.ItemOperationsTotal.WithLabelValues("create").Inc()
	s.publish("item_created", created)
	return created, nil
}

func (s *itemService) UpdateItem(id uint, form *validator.ItemUpdateForm) (*model.Item, error) {
	if fields := form.Validate(); len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	// Only keys present in the payload make it into the update set; absent
	// fields are left untouched.
	updates := make(map[string]interface{})
	if form.Name != nil {
		updates["name"] = strings.TrimSpace(*form.Name)
	}
	if form.Source != nil {
		updates["source"] = trimToNull(form.Source)
	}
	if form.Category != nil {
		updates["category"] = trimToNull(form.Category)
	}
	if form.Quantity != nil {
		updates["quantity"] = toDecimal(form.Quantity)
	}
	if form.Unit != nil {
		updates["unit"] = trimToNull(form.Unit)
	}
	if form.UsedQuantity != nil {
		updates["used_quantity"] = usedQuantityOrDefault(form.UsedQuantity)
	}
	if form.ProductionDate != nil {
		updates["production_date"] = toTime(form.ProductionDate)
	}
	if form.ExpiryDate != nil {
		updates["expiry_date"] = toTime(form.ExpiryDate)
	}
	if form.LocationID != nil {
		updates["location_id"] = toID(form.LocationID)
	}
	if form.Price != nil {
		updates["price"] = toDecimal(form.Price)
	}
	if form.ExtraInfo != nil {
		if *form.ExtraInfo == "" {
			updates["extra_info"] = nil
		} else {
			updates["extra_info"] = datatypes.JSON([]byte(*form.ExtraInfo))
		}
	}

	updated, err := s.items.UpdateFields(id, updates)
	if err != nil {
		return nil, err
	}

	appmetrics.ItemOperationsTotal.WithLabelValues("update").Inc()
	s.publish("item_updated", updated)
	return updated, nil
}

func (s *itemService) DeleteItem(id uint) error {
	if err := s.items.Delete(id); err != nil {
		return err
	}

	appmetrics.ItemOperationsTotal.WithLabelValues("delete").Inc()
	s.publish("item_deleted", map[string]interface{}{"id": id})
	return nil
}

// publish broadcasts an inventory change to connected websocket clients.
func (s *itemService) publish(action string, data interface{}) {
	if s.hub == nil {
		return
	}
	go func() {
		payload := map[string]interface{}{
			"type":   "inventory_update",
			"action": action,
			"item":   data,
		}
		msg, err := json.Marshal(payload)
		if err != nil {
			logger.GetLogger().Error("failed to marshal broadcast payload",
				zap.String("action", action), zap.Error(err))
			return
		}
		s.hub.Broadcast <- msg
	}()
}

// trimToNull trims a present string and turns blank into NULL.
func trimToNull(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// The schema has already checked the patterns below, so the conversions
// cannot fail on validated input; blank means NULL.

func toDecimal(s *string) *model.Decimal {
	if s == nil || *s == "" {
		return nil
	}
	d, err := decimal.NewFromString(*s)
	if err != nil {
		return nil
	}
	wrapped := model.NewDecimal(d)
	return &wrapped
}

func toTime(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, err := validator.ParseDate(*s)
	if err != nil {
		return nil
	}
	return &t
}

func toID(s *string) *uint {
	if s == nil || *s == "" {
		return nil
	}
	n, err := strconv.Atoi(*s)
	if err != nil || n <= 0 {
		return nil
	}
	id := uint(n)
	return &id
}

func usedQuantityOrDefault(s *string) model.Decimal {
	if d := toDecimal(s); d != nil {
		return *d
	}
	// defaults to "0.0" when omitted on create
	return model.NewDecimal(decimal.New(0, -1))
}
