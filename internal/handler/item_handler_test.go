package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"testing"
	"time"

	"go-pantry-api/internal/model"
	"go-pantry-api/internal/repository"
	"go-pantry-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

// in-memory repo implementing repository.ItemRepository, newest first like
// the real one

type stubItemRepo struct {
	items  map[uint]*model.Item
	nextID uint
	clock  time.Time
	fail   error
}

func newStubItemRepo() *stubItemRepo {
	return &stubItemRepo{
		items:  make(map[uint]*model.Item),
		nextID: 1,
		clock:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (s *stubItemRepo) FindAll() ([]model.Item, error) {
	if s.fail != nil {
		return nil, s.fail
	}
	if len(s.items) == 0 {
		// GORM leaves the destination slice nil on zero rows
		return nil, nil
	}
	out := make([]model.Item, 0, len(s.items))
	for _, item := range s.items {
		out = append(out, *item)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *stubItemRepo) FindByID(id uint) (*model.Item, error) {
	item, ok := s.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *item
	return &cp, nil
}

func (s *stubItemRepo) Create(item *model.Item) (*model.Item, error) {
	if s.fail != nil {
		return nil, s.fail
	}
	item.ID = s.nextID
	s.nextID++
	s.clock = s.clock.Add(time.Minute)
	item.CreatedAt = s.clock
	cp := *item
	s.items[item.ID] = &cp
	return s.FindByID(item.ID)
}

func (s *stubItemRepo) UpdateFields(id uint, fields map[string]interface{}) (*model.Item, error) {
	item, ok := s.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if v, ok := fields["name"]; ok {
		item.Name = v.(string)
	}
	if v, ok := fields["price"]; ok {
		item.Price = v.(*model.Decimal)
	}
	if v, ok := fields["quantity"]; ok {
		item.Quantity = v.(*model.Decimal)
	}
	return s.FindByID(id)
}

func (s *stubItemRepo) Delete(id uint) error {
	if _, ok := s.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.items, id)
	return nil
}

func newTestApp(repo repository.ItemRepository) *fiber.App {
	app := fiber.New()
	h := NewItemHandler(service.NewItemService(repo, nil))

	items := app.Group("/api/v1/items")
	items.Get("/", h.GetItems)
	items.Post("/", h.CreateItem)
	items.Put("/:id", h.UpdateItem)
	items.Delete("/:id", h.DeleteItem)

	return app
}

type envelope struct {
	Success bool              `json:"success"`
	Data    json.RawMessage   `json:"data"`
	Error   string            `json:"error"`
	Fields  map[string]string `json:"fields"`
}

func doForm(t *testing.T, app *fiber.App, method, path string, form url.Values) (*http.Response, envelope) {
	t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("%s %s: decoding envelope: %v", method, path, err)
	}
	return resp, env
}

func TestCreateItemReturnsCreated(t *testing.T) {
	app := newTestApp(newStubItemRepo())

	resp, env := doForm(t, app, "POST", "/api/v1/items", url.Values{
		"name":     {"  Milk  "},
		"quantity": {"1.5"},
	})

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", resp.StatusCode, env.Error)
	}
	if !env.Success {
		t.Fatalf("expected success envelope, got %+v", env)
	}

	var item map[string]interface{}
	json.Unmarshal(env.Data, &item)
	if item["name"] != "Milk" {
		t.Errorf("expected trimmed name, got %v", item["name"])
	}
	if item["usedQuantity"] != "0.0" {
		t.Errorf("expected usedQuantity '0.0' on the wire, got %v", item["usedQuantity"])
	}
	if item["quantity"] != "1.5" {
		t.Errorf("expected quantity '1.5' on the wire, got %v", item["quantity"])
	}
}

func TestCreateItemBlankOptionalFormFields(t *testing.T) {
	// a browser form posts every input, blank when unfilled
	app := newTestApp(newStubItemRepo())

	resp, env := doForm(t, app, "POST", "/api/v1/items", url.Values{
		"name":           {"Milk"},
		"quantity":       {""},
		"price":          {""},
		"locationId":     {""},
		"productionDate": {""},
		"expiryDate":     {""},
		"source":         {""},
		"unit":           {""},
		"extraInfo":      {""},
	})

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s, fields=%v)", resp.StatusCode, env.Error, env.Fields)
	}

	var item map[string]interface{}
	json.Unmarshal(env.Data, &item)
	if item["quantity"] != nil || item["price"] != nil || item["locationId"] != nil {
		t.Errorf("blank optional fields should come back null, got %v", item)
	}
}

func TestListEmptyReturnsEmptyArray(t *testing.T) {
	app := newTestApp(newStubItemRepo())

	resp, env := doForm(t, app, "GET", "/api/v1/items", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if string(env.Data) != "[]" {
		t.Errorf(`expected "data":[] for an empty table, got %s`, env.Data)
	}
}

func TestCreateItemValidationFailure(t *testing.T) {
	app := newTestApp(newStubItemRepo())

	resp, env := doForm(t, app, "POST", "/api/v1/items", url.Values{
		"name":     {"Milk"},
		"quantity": {"12.3456"},
	})

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if env.Success {
		t.Error("expected failure envelope")
	}
	if env.Fields["quantity"] == "" {
		t.Errorf("expected a quantity field message, got %v", env.Fields)
	}
}

func TestExtraInfoRoundTripThroughList(t *testing.T) {
	app := newTestApp(newStubItemRepo())

	raw := `{"a":[1,"b",{"c":null}]}`
	resp, _ := doForm(t, app, "POST", "/api/v1/items", url.Values{
		"name":      {"Milk"},
		"extraInfo": {raw},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create failed with %d", resp.StatusCode)
	}

	_, env := doForm(t, app, "GET", "/api/v1/items", nil)
	var items []map[string]interface{}
	json.Unmarshal(env.Data, &items)
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}

	got, _ := json.Marshal(items[0]["extraInfo"])
	var want interface{}
	json.Unmarshal([]byte(raw), &want)
	wantJSON, _ := json.Marshal(want)
	if string(got) != string(wantJSON) {
		t.Errorf("extraInfo changed in round-trip: %s != %s", got, wantJSON)
	}
}

func TestListReturnsNewestFirst(t *testing.T) {
	app := newTestApp(newStubItemRepo())

	for _, name := range []string{"first", "second", "third"} {
		doForm(t, app, "POST", "/api/v1/items", url.Values{"name": {name}})
	}

	resp, env := doForm(t, app, "GET", "/api/v1/items", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var items []map[string]interface{}
	json.Unmarshal(env.Data, &items)
	want := []string{"third", "second", "first"}
	for i, item := range items {
		if item["name"] != want[i] {
			t.Errorf("position %d: expected %q, got %v", i, want[i], item["name"])
		}
	}
}

func TestListFailureIsGeneric(t *testing.T) {
	repo := newStubItemRepo()
	repo.fail = errors.New("connection refused: secret-db-host")
	app := newTestApp(repo)

	resp, env := doForm(t, app, "GET", "/api/v1/items", nil)
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
	if strings.Contains(env.Error, "secret-db-host") {
		t.Errorf("raw error leaked to the client: %q", env.Error)
	}
}

func TestUpdateItemPartialPayload(t *testing.T) {
	repo := newStubItemRepo()
	app := newTestApp(repo)

	doForm(t, app, "POST", "/api/v1/items", url.Values{
		"name":     {"Milk"},
		"quantity": {"1.000"},
	})

	resp, env := doForm(t, app, "PUT", "/api/v1/items/1", url.Values{
		"price": {"9.99"},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", resp.StatusCode, env.Error)
	}

	var item map[string]interface{}
	json.Unmarshal(env.Data, &item)
	if item["price"] != "9.99" {
		t.Errorf("expected updated price, got %v", item["price"])
	}
	if item["name"] != "Milk" || item["quantity"] != "1.000" {
		t.Errorf("fields absent from the payload changed: %v", item)
	}
}

func TestUpdateItemInvalidIDs(t *testing.T) {
	repo := newStubItemRepo()
	app := newTestApp(repo)

	doForm(t, app, "POST", "/api/v1/items", url.Values{"name": {"Milk"}})

	for _, id := range []string{"0", "-1", "abc"} {
		resp, env := doForm(t, app, "PUT", "/api/v1/items/"+id, url.Values{
			"price": {"9.99"},
		})
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("id %q: expected 400, got %d", id, resp.StatusCode)
		}
		if env.Success {
			t.Errorf("id %q: expected failure envelope", id)
		}
	}

	// the existing item stayed untouched
	_, env := doForm(t, app, "GET", "/api/v1/items", nil)
	var items []map[string]interface{}
	json.Unmarshal(env.Data, &items)
	if len(items) != 1 || items[0]["price"] != nil {
		t.Errorf("invalid-id requests must not reach persistence: %v", items)
	}
}

func TestUpdateItemNotFoundIsDistinctFrom500(t *testing.T) {
	app := newTestApp(newStubItemRepo())

	resp, env := doForm(t, app, "PUT", "/api/v1/items/999999", url.Values{
		"price": {"9.99"},
	})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	if !strings.Contains(env.Error, "not found") {
		t.Errorf("expected a not-found message, got %q", env.Error)
	}
}

func TestDeleteItem(t *testing.T) {
	app := newTestApp(newStubItemRepo())

	doForm(t, app, "POST", "/api/v1/items", url.Values{"name": {"Milk"}})

	resp, env := doForm(t, app, "DELETE", "/api/v1/items/1", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !env.Success {
		t.Errorf("expected success envelope, got %+v", env)
	}

	// deleting again is not idempotent
	resp, _ = doForm(t, app, "DELETE", "/api/v1/items/1", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("re-delete should 404, got %d", resp.StatusCode)
	}
}

func TestDeleteItemInvalidID(t *testing.T) {
	app := newTestApp(newStubItemRepo())

	resp, _ := doForm(t, app, "DELETE", "/api/v1/items/xyz", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}
