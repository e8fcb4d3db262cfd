package siteapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/labstack/echo/v4"
	"github.com/spicemart/spicesite/config"
	"github.com/spicemart/spicesite/internal/database"
	"github.com/spicemart/spicesite/internal/domain"
	"github.com/spicemart/spicesite/internal/notify"
	"github.com/spicemart/spicesite/internal/repository"
	"github.com/spicemart/spicesite/internal/webserver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type recordingNotifier struct {
	mu   sync.Mutex
	seen []domain.Inquiry
}

func (n *recordingNotifier) NotifyInquiry(inq domain.Inquiry) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.seen = append(n.seen, inq)
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.seen)
}

// failingSender simulates an SMTP transport error.
type failingSender struct {
	attempts chan struct{}
}

func (s *failingSender) Send(context.Context, notify.Message) error {
	s.attempts <- struct{}{}
	return errors.New("dial tcp: connection refused")
}

// brokenStore fails every call like an unreachable database.
type brokenStore struct{}

var errDown = &repository.StorageError{Op: "query", Err: errors.New("connection reset")}

func (brokenStore) ListProducts(context.Context) ([]domain.Product, error) { return nil, errDown }
func (brokenStore) GetProduct(context.Context, int64) (*domain.Product, error) {
	return nil, errDown
}
func (brokenStore) CreateProduct(context.Context, domain.ProductInput) (*domain.Product, error) {
	return nil, errDown
}
func (brokenStore) CreateInquiry(context.Context, domain.InquiryInput) (*domain.Inquiry, error) {
	return nil, errDown
}
func (brokenStore) CountProducts(context.Context) (int64, error)  { return 0, errDown }
func (brokenStore) CountInquiries(context.Context) (int64, error) { return 0, errDown }

type fixture struct {
	ws       *webserver.WebServer
	store    *repository.GormStore
	notifier *recordingNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.Open(config.DBConfig{Type: "sqlite", Name: ":memory:"}, "")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, false))
	t.Cleanup(func() { database.Close(db) })

	store := repository.NewGormStore(db)
	notifier := &recordingNotifier{}
	ws := webserver.NewWebServer(config.WebConfig{})
	New(store, notifier).Register(ws)
	return &fixture{ws: ws, store: store, notifier: notifier}
}

func do(ws *webserver.WebServer, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	ws.Echo().ServeHTTP(rec, req)
	return rec
}

func (f *fixture) addProduct(t *testing.T, name string) *domain.Product {
	t.Helper()
	p, err := f.store.CreateProduct(context.Background(), domain.ProductInput{
		Name:        name,
		Description: "Deep red color and mild taste.",
		Type:        "Whole Dried",
		SpiceLevel:  "Low",
		Image:       "/images/kashmiri.webp",
		Features:    []string{"Vibrant Color", "Low Heat"},
	})
	require.NoError(t, err)
	return p
}

func (f *fixture) inquiryCount(t *testing.T) int64 {
	t.Helper()
	n, err := f.store.CountInquiries(context.Background())
	require.NoError(t, err)
	return n
}

func TestListProducts(t *testing.T) {
	f := newFixture(t)

	rec := do(f.ws, http.MethodGet, "/api/products", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	f.addProduct(t, "Kashmiri Mirchi")
	f.addProduct(t, "Byadgi Mirchi")

	rec = do(f.ws, http.MethodGet, "/api/products", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var products []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
	require.Len(t, products, 2)
	assert.Equal(t, "Kashmiri Mirchi", products[0]["name"])
	assert.Equal(t, "Low", products[0]["spiceLevel"])
	assert.Equal(t, []interface{}{"Vibrant Color", "Low Heat"}, products[0]["features"])
}

func TestGetProduct(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "Kashmiri Mirchi")

	rec := do(f.ws, http.MethodGet, "/api/products/"+strconv.FormatInt(p.ID, 10), "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got domain.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, *p, got)
}

func TestGetProductNotFound(t *testing.T) {
	f := newFixture(t)

	rec := do(f.ws, http.MethodGet, "/api/products/999", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"Product not found"}`, rec.Body.String())
}

func TestGetProductInvalidID(t *testing.T) {
	f := newFixture(t)
	for _, id := range []string{"abc", "1.5", "12x"} {
		rec := do(f.ws, http.MethodGet, "/api/products/"+id, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, id)
		assert.JSONEq(t, `{"message":"Invalid product ID"}`, rec.Body.String(), id)
	}
}

func TestGetProductOutOfRangeIDIsNotFound(t *testing.T) {
	f := newFixture(t)
	for _, id := range []string{"0", "-1", "99999999999999999999"} {
		rec := do(f.ws, http.MethodGet, "/api/products/"+id, "")
		assert.Equal(t, http.StatusNotFound, rec.Code, id)
		assert.JSONEq(t, `{"message":"Product not found"}`, rec.Body.String(), id)
	}
}

func TestCreateInquiry(t *testing.T) {
	f := newFixture(t)
	before := time.Now().Add(-time.Second)

	rec := do(f.ws, http.MethodPost, "/api/inquiries",
		`{"name":"Ravi Traders","phone":"+91 98765 43210","message":"Need 500kg Teja Mirchi"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.GreaterOrEqual(t, body["id"], float64(1))
	assert.Equal(t, "Ravi Traders", body["name"])
	assert.Equal(t, "+91 98765 43210", body["phone"])
	assert.Equal(t, "Need 500kg Teja Mirchi", body["message"])

	createdAt, err := time.Parse(time.RFC3339Nano, body["createdAt"].(string))
	require.NoError(t, err)
	assert.True(t, createdAt.After(before))

	assert.Equal(t, int64(1), f.inquiryCount(t))
	assert.Equal(t, 1, f.notifier.count())
}

func TestCreateInquiryIgnoresClientAssignedFields(t *testing.T) {
	f := newFixture(t)

	rec := do(f.ws, http.MethodPost, "/api/inquiries",
		`{"id":500,"createdAt":"1999-01-01T00:00:00Z","name":"Ravi","phone":"123","extra":true}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var inq domain.Inquiry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &inq))
	assert.NotEqual(t, int64(500), inq.ID)
	assert.NotEqual(t, 1999, inq.CreatedAt.Year())
	assert.Nil(t, inq.Message)
	assert.NotContains(t, rec.Body.String(), "extra")
}

func TestCreateInquiryValidation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"missing name", `{"phone":"123"}`, "name is required"},
		{"empty name", `{"name":"","phone":"123"}`, "name is required"},
		{"missing phone", `{"name":"Ravi"}`, "phone is required"},
		{"blank phone", `{"name":"Ravi","phone":"  "}`, "phone is required"},
		{"numeric phone", `{"name":"Ravi","phone":123}`, "phone must be a string"},
		{"numeric message", `{"name":"Ravi","phone":"1","message":5}`, "message must be a string"},
		{"empty object", `{}`, "name is required"},
		{"null body", `null`, "name is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			rec := do(f.ws, http.MethodPost, "/api/inquiries", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.JSONEq(t, `{"message":"`+tt.message+`"}`, rec.Body.String())
			assert.Zero(t, f.inquiryCount(t))
			assert.Zero(t, f.notifier.count())
		})
	}
}

func TestCreateInquiryMalformedBody(t *testing.T) {
	f := newFixture(t)

	rec := do(f.ws, http.MethodPost, "/api/inquiries", `{"name":"Ravi",`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(f.ws, http.MethodPost, "/api/inquiries", `["Ravi","123"]`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/inquiries", strings.NewReader("name=Ravi&phone=123"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec = httptest.NewRecorder()
	f.ws.Echo().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"Unable to parse inquiry"}`, rec.Body.String())

	req = httptest.NewRequest(http.MethodPost, "/api/inquiries", strings.NewReader(`{"name":"Ravi","phone":"123"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMETextPlain)
	rec = httptest.NewRecorder()
	f.ws.Echo().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Zero(t, f.inquiryCount(t))
	assert.Zero(t, f.notifier.count())
}

func TestCreateInquiryJSONWithCharset(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/api/inquiries", strings.NewReader(`{"name":"Ravi","phone":"123"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSONCharsetUTF8)
	rec := httptest.NewRecorder()
	f.ws.Echo().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestCreateInquirySenderFailureStillCreated(t *testing.T) {
	db, err := database.Open(config.DBConfig{Type: "sqlite", Name: ":memory:"}, "")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, false))
	defer database.Close(db)

	sender := &failingSender{attempts: make(chan struct{}, 1)}
	notifier, err := notify.NewNotifier(sender, "ops@example.com", 1)
	require.NoError(t, err)
	defer notifier.Release(time.Second)

	ws := webserver.NewWebServer(config.WebConfig{})
	New(repository.NewGormStore(db), notifier).Register(ws)

	rec := do(ws, http.MethodPost, "/api/inquiries", `{"name":"Ravi Traders","phone":"+91 98765 43210"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	select {
	case <-sender.attempts:
	case <-time.After(2 * time.Second):
		t.Fatal("notification was never attempted")
	}
}

func TestCreateInquiryWithUnconfiguredMailer(t *testing.T) {
	db, err := database.Open(config.DBConfig{Type: "sqlite", Name: ":memory:"}, "")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, false))
	defer database.Close(db)

	notifier, err := notify.NewNotifier(notify.NewMailSender(config.MailConfig{}), "", 1)
	require.NoError(t, err)
	defer notifier.Release(time.Second)

	ws := webserver.NewWebServer(config.WebConfig{})
	New(repository.NewGormStore(db), notifier).Register(ws)

	rec := do(ws, http.MethodPost, "/api/inquiries", `{"name":"Ravi","phone":"123"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestStorageFailures(t *testing.T) {
	ws := webserver.NewWebServer(config.WebConfig{})
	notifier := &recordingNotifier{}
	New(brokenStore{}, notifier).Register(ws)

	rec := do(ws, http.MethodGet, "/api/products", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection reset")

	rec = do(ws, http.MethodGet, "/api/products/1", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = do(ws, http.MethodPost, "/api/inquiries", `{"name":"Ravi","phone":"123"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"message":"Failed to create inquiry"}`, rec.Body.String())
	assert.Zero(t, notifier.count())
}
