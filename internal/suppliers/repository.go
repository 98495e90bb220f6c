package suppliers

import (
	"context"
	"errors"
	"fmt"

	"github.com/ivy-monitoring/supplier-api/internal/platform/httpx"
	"github.com/ivy-monitoring/supplier-api/internal/store"
)

// Table names and foreign keys in the managed store.
const (
	tableSuppliers = "suppliers"
	tableProducts  = "products_created"
	tablePackages  = "packages"

	// Products and packages reference their supplier through this column.
	listForeignKey = "supplier"
	// Aspect tables reference their supplier through this column.
	aspectForeignKey = "supplierId"
)

var (
	errSupplierNotFound = httpx.Errorf(httpx.ErrNotFound, "Supplier not found")
	errNotConfigured    = httpx.Errorf(httpx.ErrConfiguration, "Supabase credentials not configured")
)

// Fields is a loosely typed set of supplier columns supplied by a caller.
type Fields map[string]any

type Repository interface {
	List(ctx context.Context) ([]Supplier, error)
	Get(ctx context.Context, id int64) (Supplier, error)
	Create(ctx context.Context, fields Fields) (Supplier, error)
	Update(ctx context.Context, id int64, fields Fields) (Supplier, error)
	Delete(ctx context.Context, id int64) error
	Products(ctx context.Context, supplierID int64) ([]store.Row, error)
	Packages(ctx context.Context, supplierID int64) ([]store.Row, error)
	Aspect(ctx context.Context, table string, supplierID int64) (store.Row, error)
}

type repository struct {
	client store.Client
}

func NewRepository(client store.Client) Repository {
	return &repository{client: client}
}

func (r *repository) List(ctx context.Context) ([]Supplier, error) {
	rows, err := r.client.Select(ctx, tableSuppliers, nil)
	if err != nil {
		return nil, storeError(err)
	}
	return suppliersFromRows(rows)
}

func (r *repository) Get(ctx context.Context, id int64) (Supplier, error) {
	f := store.Eq(colID, id)
	rows, err := r.client.Select(ctx, tableSuppliers, &f)
	if err != nil {
		return Supplier{}, storeError(err)
	}
	return first(rows)
}

func (r *repository) Create(ctx context.Context, fields Fields) (Supplier, error) {
	rows, err := r.client.Insert(ctx, tableSuppliers, store.Row(fields))
	if err != nil {
		return Supplier{}, storeError(err)
	}
	if len(rows) == 0 {
		return Supplier{}, fmt.Errorf("insert into %s returned no rows", tableSuppliers)
	}
	return supplierFromRow(rows[0])
}

func (r *repository) Update(ctx context.Context, id int64, fields Fields) (Supplier, error) {
	rows, err := r.client.Update(ctx, tableSuppliers, store.Row(fields), store.Eq(colID, id))
	if err != nil {
		return Supplier{}, storeError(err)
	}
	return first(rows)
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	rows, err := r.client.Delete(ctx, tableSuppliers, store.Eq(colID, id))
	if err != nil {
		return storeError(err)
	}
	if len(rows) == 0 {
		return errSupplierNotFound
	}
	return nil
}

func (r *repository) Products(ctx context.Context, supplierID int64) ([]store.Row, error) {
	return r.children(ctx, tableProducts, supplierID)
}

func (r *repository) Packages(ctx context.Context, supplierID int64) ([]store.Row, error) {
	return r.children(ctx, tablePackages, supplierID)
}

func (r *repository) children(ctx context.Context, table string, supplierID int64) ([]store.Row, error) {
	f := store.Eq(listForeignKey, supplierID)
	rows, err := r.client.Select(ctx, table, &f)
	if err != nil {
		return nil, storeError(err)
	}
	if rows == nil {
		rows = []store.Row{}
	}
	return rows, nil
}

// Aspect returns the first row of table belonging to the supplier, or nil.
func (r *repository) Aspect(ctx context.Context, table string, supplierID int64) (store.Row, error) {
	f := store.Eq(aspectForeignKey, supplierID)
	rows, err := r.client.Select(ctx, table, &f)
	if err != nil {
		return nil, storeError(err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func first(rows []store.Row) (Supplier, error) {
	if len(rows) == 0 {
		return Supplier{}, errSupplierNotFound
	}
	return supplierFromRow(rows[0])
}

func storeError(err error) error {
	if errors.Is(err, store.ErrNotConfigured) {
		return errNotConfigured
	}
	return err
}
