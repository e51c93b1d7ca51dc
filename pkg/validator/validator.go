package validator

import (
	"encoding/json"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Form fields arrive as raw strings; pointer fields are nil when the key was
// absent from the request body, so presence and value stay distinguishable.
// A present-but-blank value clears a nullable field, a nil pointer leaves it
// untouched. omitempty only covers the nil case; the format tags themselves
// admit blank, since HTML forms submit empty strings for unfilled inputs.

// ItemCreateForm is the create-request schema. Only name is required.
type ItemCreateForm struct {
	Name           string  `form:"name" validate:"notblank"`
	Source         *string `form:"source"`
	Category       *string `form:"category"`
	Quantity       *string `form:"quantity" validate:"omitempty,decimal3"`
	Unit           *string `form:"unit"`
	UsedQuantity   *string `form:"usedQuantity" validate:"omitempty,decimal3"`
	ProductionDate *string `form:"productionDate" validate:"omitempty,isodate"`
	ExpiryDate     *string `form:"expiryDate" validate:"omitempty,isodate"`
	LocationID     *string `form:"locationId" validate:"omitempty,positiveid"`
	Price          *string `form:"price" validate:"omitempty,decimal2"`
	ExtraInfo      *string `form:"extraInfo" validate:"omitempty,jsonvalue"`
}

// ItemUpdateForm is the partial schema: every field optional, same rules.
type ItemUpdateForm struct {
	Name           *string `form:"name"`
	Source         *string `form:"source"`
	Category       *string `form:"category"`
	Quantity       *string `form:"quantity" validate:"omitempty,decimal3"`
	Unit           *string `form:"unit"`
	UsedQuantity   *string `form:"usedQuantity" validate:"omitempty,decimal3"`
	ProductionDate *string `form:"productionDate" validate:"omitempty,isodate"`
	ExpiryDate     *string `form:"expiryDate" validate:"omitempty,isodate"`
	LocationID     *string `form:"locationId" validate:"omitempty,positiveid"`
	Price          *string `form:"price" validate:"omitempty,decimal2"`
	ExtraInfo      *string `form:"extraInfo" validate:"omitempty,jsonvalue"`
}

var (
	// quantity-style decimals allow up to 3 fraction digits, prices up to 2
	decimal3Pattern = regexp.MustCompile(`^\d+(\.\d{1,3})?$`)
	decimal2Pattern = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)
)

var validate = validator.New()

func init() {
	// Report wire field names instead of Go struct names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("form")
		if name == "" {
			return fld.Name
		}
		return name
	})

	validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	validate.RegisterValidation("decimal3", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || decimal3Pattern.MatchString(s)
	})
	validate.RegisterValidation("decimal2", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || decimal2Pattern.MatchString(s)
	})
	validate.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if s == "" {
			return true
		}
		_, err := ParseDate(s)
		return err == nil
	})
	validate.RegisterValidation("positiveid", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if s == "" {
			return true
		}
		n, err := strconv.Atoi(s)
		return err == nil && n > 0
	})
	validate.RegisterValidation("jsonvalue", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if s == "" {
			return true
		}
		var v interface{}
		if err := json.Unmarshal([]byte(s), &v); err != nil {
			return false
		}
		return ValidJSONValue(v)
	})
}

// ParseDate accepts RFC3339 timestamps and plain ISO calendar dates.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// ValidJSONValue walks an arbitrary decoded value and accepts exactly the
// recursive JSON shape: string | number | bool | null | array-of-self |
// string-keyed-map-of-self.
func ValidJSONValue(v interface{}) bool {
	switch val := v.(type) {
	case nil, string, bool, float64, json.Number:
		return true
	case []interface{}:
		for _, elem := range val {
			if !ValidJSONValue(elem) {
				return false
			}
		}
		return true
	case map[string]interface{}:
		for _, elem := range val {
			if !ValidJSONValue(elem) {
				return false
			}
		}
		return true
	}
	return false
}

func (f *ItemCreateForm) Validate() map[string]string {
	return ValidateStruct(f)
}

// Validate applies the partial rules. Format tags skip blank values (blank
// means "clear the field"), but a supplied name must still be non-empty.
func (f *ItemUpdateForm) Validate() map[string]string {
	fields := ValidateStruct(f)
	if f.Name != nil && strings.TrimSpace(*f.Name) == "" {
		if fields == nil {
			fields = make(map[string]string)
		}
		fields["name"] = messageForTag("notblank")
	}
	return fields
}

// ValidateStruct returns a field-name to message map, or nil when the value
// passes.
func ValidateStruct(data interface{}) map[string]string {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}
	fields := make(map[string]string)
	for _, fe := range err.(validator.ValidationErrors) {
		fields[fe.Field()] = messageForTag(fe.Tag())
	}
	return fields
}

func messageForTag(tag string) string {
	switch tag {
	case "required", "notblank":
		return "must not be empty"
	case "decimal3":
		return "must be a decimal number with up to 3 fraction digits"
	case "decimal2":
		return "must be a decimal number with up to 2 fraction digits"
	case "isodate":
		return "must be an ISO-8601 date"
	case "positiveid":
		return "must be a positive integer"
	case "jsonvalue":
		return "must be a valid JSON value"
	}
	return "is invalid"
}
