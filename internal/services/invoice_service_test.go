package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"

	"finboard/dashboard/internal/models"
)

// fakeInvoiceStore records writes and fails on demand.
type fakeInvoiceStore struct {
	inserted  []*models.Invoice
	updated   map[string]InvoiceFields
	deleted   []string
	failWith  error
	invoices  map[string]*models.Invoice
	listRows  []models.InvoiceRow
	listCount int64
}

func newFakeInvoiceStore() *fakeInvoiceStore {
	return &fakeInvoiceStore{
		updated:  make(map[string]InvoiceFields),
		invoices: make(map[string]*models.Invoice),
	}
}

func (f *fakeInvoiceStore) Insert(ctx context.Context, invoice *models.Invoice) error {
	if f.failWith != nil {
		return f.failWith
	}
	invoice.GenIDIfEmpty()
	f.inserted = append(f.inserted, invoice)
	f.invoices[invoice.ID] = invoice
	return nil
}

func (f *fakeInvoiceStore) Update(ctx context.Context, id string, fields InvoiceFields) error {
	if f.failWith != nil {
		return f.failWith
	}
	if _, ok := f.invoices[id]; !ok {
		return mongo.ErrNoDocuments
	}
	f.updated[id] = fields
	return nil
}

func (f *fakeInvoiceStore) Delete(ctx context.Context, id string) error {
	if f.failWith != nil {
		return f.failWith
	}
	if _, ok := f.invoices[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(f.invoices, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeInvoiceStore) FindByID(ctx context.Context, id string) (*models.Invoice, error) {
	inv, ok := f.invoices[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return inv, nil
}

func (f *fakeInvoiceStore) Filtered(ctx context.Context, query string, limit, offset int) ([]models.InvoiceRow, error) {
	return f.listRows, nil
}

func (f *fakeInvoiceStore) CountFiltered(ctx context.Context, query string) (int64, error) {
	return f.listCount, nil
}

func (f *fakeInvoiceStore) Latest(ctx context.Context, limit int) ([]models.InvoiceRow, error) {
	return f.listRows, nil
}

// countingInvalidator counts invalidation requests per path.
type countingInvalidator struct {
	calls   []string
	failure error
}

func (c *countingInvalidator) Invalidate(ctx context.Context, path string) error {
	c.calls = append(c.calls, path)
	return c.failure
}

func newTestInvoiceService(store IInvoiceStore, inv *countingInvalidator) *invoiceService {
	svc := NewInvoiceService(store, inv, 6).(*invoiceService)
	svc.now = func() time.Time {
		return time.Date(2024, time.March, 14, 15, 9, 26, 0, time.UTC)
	}
	return svc
}

func TestInvoiceService_Create_Success(t *testing.T) {
	store := newFakeInvoiceStore()
	invalidator := &countingInvalidator{}
	svc := newTestInvoiceService(store, invalidator)

	res := svc.Create(context.Background(), map[string]string{
		"customerId": "cust-1",
		"amount":     "50.5",
		"status":     "paid",
	})

	assert.Equal(t, OutcomeRedirect, res.Outcome)
	assert.Equal(t, "/dashboard/invoices", res.RedirectTo)
	assert.Empty(t, res.FieldErrors)

	if assert.Len(t, store.inserted, 1) {
		inv := store.inserted[0]
		assert.Equal(t, "cust-1", inv.CustomerID)
		assert.Equal(t, int64(5050), inv.Amount, "amount must be stored in minor units")
		assert.Equal(t, models.InvoiceStatusPaid, inv.Status)
		assert.Equal(t, "2024-03-14", inv.Date, "date is stamped as the current calendar day")
		assert.NotEmpty(t, inv.ID)
	}

	assert.Equal(t, []string{"/dashboard/invoices"}, invalidator.calls,
		"listing cache must be invalidated exactly once")
}

func TestInvoiceService_Create_ZeroAmount(t *testing.T) {
	store := newFakeInvoiceStore()
	invalidator := &countingInvalidator{}
	svc := newTestInvoiceService(store, invalidator)

	res := svc.Create(context.Background(), map[string]string{
		"customerId": "cust-1",
		"amount":     "0",
		"status":     "paid",
	})

	assert.Equal(t, OutcomeInvalid, res.Outcome)
	assert.Equal(t, "Missing Fields. Failed to Create Invoice.", res.Message)
	assert.Equal(t, []string{"Please enter an amount greater than $0."}, res.FieldErrors["amount"])
	assert.Empty(t, res.RedirectTo)
	assert.Empty(t, store.inserted, "no row may be inserted on validation failure")
	assert.Empty(t, invalidator.calls)
}

func TestInvoiceService_Create_AllFieldErrorsReported(t *testing.T) {
	store := newFakeInvoiceStore()
	invalidator := &countingInvalidator{}
	svc := newTestInvoiceService(store, invalidator)

	res := svc.Create(context.Background(), map[string]string{})

	assert.Equal(t, OutcomeInvalid, res.Outcome)
	assert.Len(t, res.FieldErrors, 3)
	assert.Empty(t, store.inserted)
}

func TestInvoiceService_Create_StoreError(t *testing.T) {
	store := newFakeInvoiceStore()
	store.failWith = errors.New("connection refused")
	invalidator := &countingInvalidator{}
	svc := newTestInvoiceService(store, invalidator)

	res := svc.Create(context.Background(), validForm())

	assert.Equal(t, OutcomeStoreError, res.Outcome)
	assert.Equal(t, "Database Error: Failed to Create Invoice.", res.Message)
	assert.Empty(t, res.RedirectTo, "no redirect on persistence failure")
	assert.Empty(t, res.FieldErrors)
	assert.Empty(t, invalidator.calls, "no invalidation on persistence failure")
}

func TestInvoiceService_Update_Success(t *testing.T) {
	store := newFakeInvoiceStore()
	store.invoices["inv-1"] = &models.Invoice{CustomerID: "cust-1", Amount: 100, Status: models.InvoiceStatusPending}
	invalidator := &countingInvalidator{}
	svc := newTestInvoiceService(store, invalidator)

	res := svc.Update(context.Background(), "inv-1", map[string]string{
		"customerId": "cust-2",
		"amount":     "12",
		"status":     "paid",
	})

	assert.Equal(t, OutcomeRedirect, res.Outcome)
	assert.Equal(t, "/dashboard/invoices", res.RedirectTo)
	assert.Equal(t, InvoiceFields{CustomerID: "cust-2", Amount: 1200, Status: models.InvoiceStatusPaid}, store.updated["inv-1"])
	assert.Equal(t, []string{"/dashboard/invoices"}, invalidator.calls)
}

func TestInvoiceService_Update_InvalidStatus(t *testing.T) {
	store := newFakeInvoiceStore()
	store.invoices["inv-1"] = &models.Invoice{CustomerID: "cust-1", Amount: 100, Status: models.InvoiceStatusPending}
	invalidator := &countingInvalidator{}
	svc := newTestInvoiceService(store, invalidator)

	form := validForm()
	form["status"] = "archived"
	res := svc.Update(context.Background(), "inv-1", form)

	assert.Equal(t, OutcomeInvalid, res.Outcome)
	assert.Equal(t, "Missing Fields. Failed to Update Invoice.", res.Message)
	assert.Equal(t, []string{"Please select an invoice status."}, res.FieldErrors["status"])
	assert.Empty(t, store.updated, "existing row must remain unchanged")
	assert.Empty(t, invalidator.calls)
}

func TestInvoiceService_Update_StoreError(t *testing.T) {
	store := newFakeInvoiceStore()
	invalidator := &countingInvalidator{}
	svc := newTestInvoiceService(store, invalidator)

	// Unknown id: the fake store reports no documents matched.
	res := svc.Update(context.Background(), "missing", validForm())

	assert.Equal(t, OutcomeStoreError, res.Outcome)
	assert.Equal(t, "Database Error: Failed to Update Invoice.", res.Message)
	assert.Empty(t, invalidator.calls)
}

func TestInvoiceService_Delete_Success(t *testing.T) {
	store := newFakeInvoiceStore()
	store.invoices["inv-1"] = &models.Invoice{CustomerID: "cust-1", Amount: 100, Status: models.InvoiceStatusPending}
	invalidator := &countingInvalidator{}
	svc := newTestInvoiceService(store, invalidator)

	res := svc.Delete(context.Background(), "inv-1")

	assert.Equal(t, OutcomeDeleted, res.Outcome)
	assert.Equal(t, "Deleted Invoice.", res.Message)
	assert.Empty(t, res.RedirectTo, "delete confirms without a redirect")
	assert.Equal(t, []string{"inv-1"}, store.deleted)
	assert.Equal(t, []string{"/dashboard/invoices"}, invalidator.calls)
}

func TestInvoiceService_Delete_NonExistent(t *testing.T) {
	store := newFakeInvoiceStore()
	invalidator := &countingInvalidator{}
	svc := newTestInvoiceService(store, invalidator)

	res := svc.Delete(context.Background(), "missing")

	assert.Equal(t, OutcomeStoreError, res.Outcome)
	assert.Equal(t, "Database Error: Failed to Delete Invoice.", res.Message)
	assert.Empty(t, store.deleted)
	assert.Empty(t, invalidator.calls, "failed delete performs no invalidation")
}

func TestInvoiceService_Create_InvalidationFailureDoesNotBlockRedirect(t *testing.T) {
	store := newFakeInvoiceStore()
	invalidator := &countingInvalidator{failure: errors.New("redis down")}
	svc := newTestInvoiceService(store, invalidator)

	res := svc.Create(context.Background(), validForm())

	// Invalidation is fire-and-forget: the redirect still happens.
	assert.Equal(t, OutcomeRedirect, res.Outcome)
	assert.Equal(t, "/dashboard/invoices", res.RedirectTo)
}

func TestInvoiceService_TotalPages(t *testing.T) {
	store := newFakeInvoiceStore()
	svc := newTestInvoiceService(store, &countingInvalidator{})

	cases := map[int64]int{0: 0, 1: 1, 6: 1, 7: 2, 13: 3}
	for count, want := range cases {
		store.listCount = count
		pages, err := svc.TotalPages(context.Background(), "")
		assert.NoError(t, err)
		assert.Equal(t, want, pages, "count=%d", count)
	}
}
