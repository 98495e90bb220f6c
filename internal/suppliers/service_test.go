package suppliers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivy-monitoring/supplier-api/internal/platform/httpx"
	"github.com/ivy-monitoring/supplier-api/internal/store"
)

func newTestService(client store.Client) *Service {
	return NewService(NewRepository(client), nil, ServiceConfig{DetailsConcurrency: 5})
}

func TestGetReturnsMatchingRow(t *testing.T) {
	mem := newMemStore()
	mem.seed(tableSuppliers, store.Row{"id": 1, "business_name": "One"}, store.Row{"id": 2, "business_name": "Two"})
	svc := newTestService(mem)

	s, err := svc.Get(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), s.ID)
	assert.Equal(t, "Two", *s.BusinessName)
}

func TestGetMissingIsNotFound(t *testing.T) {
	svc := newTestService(newMemStore())

	_, err := svc.Get(context.Background(), 9)
	assert.ErrorIs(t, err, httpx.ErrNotFound)
	assert.Equal(t, "Supplier not found", httpx.Detail(err))
}

func TestListReturnsAllRows(t *testing.T) {
	mem := newMemStore()
	mem.seed(tableSuppliers, store.Row{"id": 1}, store.Row{"id": 2}, store.Row{"id": 3})
	svc := newTestService(mem)

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestProductsAndServicesEmpty(t *testing.T) {
	svc := newTestService(newMemStore())

	products, err := svc.Products(context.Background(), 5)
	require.NoError(t, err)
	assert.NotNil(t, products.Products)
	assert.Equal(t, 0, products.Count)

	services, err := svc.Services(context.Background(), 5)
	require.NoError(t, err)
	assert.NotNil(t, services.Services)
	assert.Equal(t, 0, services.Count)
}

func TestProductsFilterBySupplier(t *testing.T) {
	mem := newMemStore()
	mem.seed(tableProducts, store.Row{"id": 1, "supplier": 5}, store.Row{"id": 2, "supplier": 6}, store.Row{"id": 3, "supplier": 5})
	mem.seed(tablePackages, store.Row{"id": 10, "supplier": 5})
	svc := newTestService(mem)

	products, err := svc.Products(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, 2, products.Count)

	services, err := svc.Services(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, 1, services.Count)
}

func TestCreateIgnoresIDAndKeepsExtras(t *testing.T) {
	mem := newMemStore()
	svc := newTestService(mem)

	created, err := svc.Create(context.Background(), Fields{"id": 5, "business_name": "New", "instagram": "@new"})
	require.NoError(t, err)
	assert.Equal(t, int64(101), created.ID)
	assert.Equal(t, "New", *created.BusinessName)
	assert.Equal(t, "@new", created.Extra["instagram"])
}

func TestUpdateWritesProvidedFieldsOnly(t *testing.T) {
	mem := newMemStore()
	mem.seed(tableSuppliers, store.Row{"id": 3, "business_name": "Old", "email": "keep@x.y"})
	svc := newTestService(mem)

	updated, err := svc.Update(context.Background(), 3, Fields{"business_name": "New"})
	require.NoError(t, err)
	assert.Equal(t, "New", *updated.BusinessName)
	assert.Equal(t, "keep@x.y", *updated.Email)
}

func TestUpdateMissingIsNotFound(t *testing.T) {
	svc := newTestService(newMemStore())

	_, err := svc.Update(context.Background(), 3, Fields{"business_name": "New"})
	assert.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestUpdateWithoutFieldsReadsRow(t *testing.T) {
	mem := newMemStore()
	mem.seed(tableSuppliers, store.Row{"id": 3})
	svc := newTestService(mem)

	s, err := svc.Update(context.Background(), 3, Fields{"id": 4})
	require.NoError(t, err)
	assert.Equal(t, int64(3), s.ID)
	assert.Equal(t, 0, mem.callsTo(store.OpUpdate))
}

func TestUpdateStatus(t *testing.T) {
	mem := newMemStore()
	mem.seed(tableSuppliers, store.Row{"id": 3, "status": "draft", "business_name": "Keep"})
	svc := newTestService(mem)

	for _, status := range ValidStatuses {
		s, err := svc.UpdateStatus(context.Background(), 3, StatusUpdate{Status: status})
		require.NoError(t, err)
		assert.Equal(t, status, *s.Status)
		assert.Equal(t, "Keep", *s.BusinessName)
	}
}

func TestUpdateStatusRejectsUnknownValuesWithoutWriting(t *testing.T) {
	mem := newMemStore()
	mem.seed(tableSuppliers, store.Row{"id": 3, "status": "draft"})
	svc := newTestService(mem)

	for _, status := range []string{"", "archived", "ACTIVE", "active "} {
		_, err := svc.UpdateStatus(context.Background(), 3, StatusUpdate{Status: status})
		require.ErrorIs(t, err, httpx.ErrValidation, status)
		assert.Equal(t, "Invalid status. Must be one of: draft, pending, approved, active", httpx.Detail(err))
	}
	assert.Empty(t, mem.calls)
}

func TestUpdateStatusMissingSupplier(t *testing.T) {
	svc := newTestService(newMemStore())

	_, err := svc.UpdateStatus(context.Background(), 77, StatusUpdate{Status: StatusActive})
	assert.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestDelete(t *testing.T) {
	mem := newMemStore()
	mem.seed(tableSuppliers, store.Row{"id": 3})
	svc := newTestService(mem)

	require.NoError(t, svc.Delete(context.Background(), 3))
	assert.ErrorIs(t, svc.Delete(context.Background(), 3), httpx.ErrNotFound)
}

func TestStoreErrorsPropagate(t *testing.T) {
	mem := newMemStore()
	boom := &store.Error{Op: store.OpSelect, Table: tableSuppliers, Message: "connection reset"}
	mem.fail[tableSuppliers] = boom
	svc := newTestService(mem)

	_, err := svc.List(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.False(t, errors.Is(err, httpx.ErrNotFound))
}

func TestUnconfiguredStoreIsConfigurationError(t *testing.T) {
	svc := newTestService(store.Unconfigured())

	_, err := svc.List(context.Background())
	require.ErrorIs(t, err, httpx.ErrConfiguration)
	assert.Equal(t, "Supabase credentials not configured", httpx.Detail(err))

	_, err = svc.Products(context.Background(), 1)
	assert.ErrorIs(t, err, httpx.ErrConfiguration)

	err = svc.Delete(context.Background(), 1)
	assert.ErrorIs(t, err, httpx.ErrConfiguration)
}
