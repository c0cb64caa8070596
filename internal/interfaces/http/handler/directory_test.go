package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	directoryapp "github.com/facture/backend/internal/application/directory"
	"github.com/facture/backend/internal/domain/directory"
	"github.com/facture/backend/internal/domain/shared"
	"github.com/facture/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockClientRepository is a testify mock of directory.ClientRepository
type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) FindByID(ctx context.Context, id uuid.UUID) (*directory.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*directory.Client), args.Error(1)
}

func (m *MockClientRepository) FindAll(ctx context.Context, filter shared.Filter) ([]directory.Client, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]directory.Client), args.Get(1).(int64), args.Error(2)
}

func (m *MockClientRepository) Save(ctx context.Context, client *directory.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockManufacturerRepository is a testify mock of directory.ManufacturerRepository
type MockManufacturerRepository struct {
	mock.Mock
}

func (m *MockManufacturerRepository) Get(ctx context.Context) (*directory.Manufacturer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*directory.Manufacturer), args.Error(1)
}

func (m *MockManufacturerRepository) Upsert(ctx context.Context, manufacturer *directory.Manufacturer) error {
	args := m.Called(ctx, manufacturer)
	return args.Error(0)
}

var _ directory.ClientRepository = (*MockClientRepository)(nil)
var _ directory.ManufacturerRepository = (*MockManufacturerRepository)(nil)

func newDirectoryRouter(t *testing.T) (*gin.Engine, *MockClientRepository, *MockManufacturerRepository) {
	t.Helper()
	clients := new(MockClientRepository)
	manufacturers := new(MockManufacturerRepository)
	service := directoryapp.NewService(clients, manufacturers)
	h := NewDirectoryHandler(service)

	middleware.SetupValidator()
	router := gin.New()
	api := router.Group("/api/v1")
	h.RegisterRoutes(api)
	return router, clients, manufacturers
}

func mustNewClient(t *testing.T, party directory.Party) *directory.Client {
	t.Helper()
	client, err := directory.NewClient(party)
	require.NoError(t, err)
	return client
}

func TestDirectoryHandler_GetClient(t *testing.T) {
	t.Run("returns client", func(t *testing.T) {
		router, clients, _ := newDirectoryRouter(t)
		client := mustNewClient(t, directory.Party{Name: "SARL Ets Benali"})
		clients.On("FindByID", mock.Anything, client.ID).Return(client, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/v1/clients/"+client.ID.String(), nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Success bool                       `json:"success"`
			Data    directoryapp.PartyResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, "SARL Ets Benali", resp.Data.Name)
	})

	t.Run("returns 404 for missing client", func(t *testing.T) {
		router, clients, _ := newDirectoryRouter(t)
		missingID := uuid.New()
		clients.On("FindByID", mock.Anything, missingID).Return(nil, shared.ErrNotFound)

		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/v1/clients/"+missingID.String(), nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_NOT_FOUND")
	})

	t.Run("rejects malformed ID", func(t *testing.T) {
		router, clients, _ := newDirectoryRouter(t)

		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/v1/clients/not-a-uuid", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		clients.AssertNotCalled(t, "FindByID")
	})
}

func TestDirectoryHandler_CreateClient(t *testing.T) {
	t.Run("creates client", func(t *testing.T) {
		router, clients, _ := newDirectoryRouter(t)
		clients.On("Save", mock.Anything, mock.AnythingOfType("*directory.Client")).Return(nil)

		body := `{"name": "SARL Ets Benali", "phone": "0550 12 34 56"}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/api/v1/clients", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), "SARL Ets Benali")
	})

	t.Run("rejects missing name at the binding layer", func(t *testing.T) {
		router, clients, _ := newDirectoryRouter(t)

		body := `{"phone": "0550 12 34 56"}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/api/v1/clients", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		clients.AssertNotCalled(t, "Save")
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		router, _, _ := newDirectoryRouter(t)

		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/api/v1/clients", bytes.NewBufferString("{not json"))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDirectoryHandler_ListClients(t *testing.T) {
	router, clients, _ := newDirectoryRouter(t)
	stored := mustNewClient(t, directory.Party{Name: "SARL Ets Benali"})
	clients.On("FindAll", mock.Anything, mock.AnythingOfType("shared.Filter")).
		Return([]directory.Client{*stored}, int64(41), nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/clients?page=2&page_size=20", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool                         `json:"success"`
		Data    []directoryapp.PartyResponse `json:"data"`
		Meta    struct {
			Total      int64 `json:"total"`
			Page       int   `json:"page"`
			TotalPages int   `json:"total_pages"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 1)
	assert.Equal(t, int64(41), resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.Page)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}

func TestDirectoryHandler_UpdateClient(t *testing.T) {
	router, clients, _ := newDirectoryRouter(t)
	stored := mustNewClient(t, directory.Party{Name: "SARL Ets Benali", Phone: "0550 12 34 56"})
	clients.On("FindByID", mock.Anything, stored.ID).Return(stored, nil)
	clients.On("Save", mock.Anything, mock.AnythingOfType("*directory.Client")).Return(nil)

	body := `{"email": "contact@benali.dz"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/api/v1/clients/"+stored.ID.String(), bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "contact@benali.dz")
	// Untouched fields survive the partial update
	assert.Contains(t, w.Body.String(), "0550 12 34 56")
}

func TestDirectoryHandler_DeleteClient(t *testing.T) {
	t.Run("deletes existing client", func(t *testing.T) {
		router, clients, _ := newDirectoryRouter(t)
		stored := mustNewClient(t, directory.Party{Name: "SARL Ets Benali"})
		clients.On("FindByID", mock.Anything, stored.ID).Return(stored, nil)
		clients.On("Delete", mock.Anything, stored.ID).Return(nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest("DELETE", "/api/v1/clients/"+stored.ID.String(), nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("returns 404 for missing client", func(t *testing.T) {
		router, clients, _ := newDirectoryRouter(t)
		missingID := uuid.New()
		clients.On("FindByID", mock.Anything, missingID).Return(nil, shared.ErrNotFound)

		w := httptest.NewRecorder()
		req := httptest.NewRequest("DELETE", "/api/v1/clients/"+missingID.String(), nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestDirectoryHandler_Manufacturer(t *testing.T) {
	t.Run("GET returns 404 before first configuration", func(t *testing.T) {
		router, _, manufacturers := newDirectoryRouter(t)
		manufacturers.On("Get", mock.Anything).Return(nil, shared.ErrNotFound)

		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/v1/manufacturer", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("PUT creates the profile on first call", func(t *testing.T) {
		router, _, manufacturers := newDirectoryRouter(t)
		manufacturers.On("Get", mock.Anything).Return(nil, shared.ErrNotFound)
		manufacturers.On("Upsert", mock.Anything, mock.AnythingOfType("*directory.Manufacturer")).Return(nil)

		body := `{"name": "EURL Atlas Meubles", "tax_id": "099912345678901"}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest("PUT", "/api/v1/manufacturer", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "EURL Atlas Meubles")
	})

	t.Run("PUT without a name on first call fails validation", func(t *testing.T) {
		router, _, manufacturers := newDirectoryRouter(t)
		manufacturers.On("Get", mock.Anything).Return(nil, shared.ErrNotFound)

		body := `{"phone": "0550 12 34 56"}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest("PUT", "/api/v1/manufacturer", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_VALIDATION")
		manufacturers.AssertNotCalled(t, "Upsert")
	})
}
