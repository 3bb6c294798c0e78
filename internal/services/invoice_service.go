package services

import (
	"context"
	"log"
	"time"

	"finboard/dashboard/internal/cache"
	"finboard/dashboard/internal/models"
)

// InvoicesPath is the listing view that mutations invalidate and redirect to.
const InvoicesPath = "/dashboard/invoices"

// IInvoiceService defines the invoice operations: the validated mutation
// pipeline (Create/Update/Delete) and the listing reads that feed the
// invoices table.
type IInvoiceService interface {
	Create(ctx context.Context, form map[string]string) Result
	Update(ctx context.Context, id string, form map[string]string) Result
	Delete(ctx context.Context, id string) Result
	FindByID(ctx context.Context, id string) (*models.Invoice, error)
	Filtered(ctx context.Context, query string, page int) ([]models.InvoiceRow, error)
	TotalPages(ctx context.Context, query string) (int, error)
}

// invoiceService implements IInvoiceService. It is stateless and reentrant:
// the store resolves write races with its own transaction semantics, and the
// invalidator is only ever asked to invalidate, never awaited.
type invoiceService struct {
	store        IInvoiceStore
	invalidator  cache.Invalidator
	itemsPerPage int
	now          func() time.Time // swapped out in tests
}

// NewInvoiceService creates a new InvoiceService.
func NewInvoiceService(store IInvoiceStore, invalidator cache.Invalidator, itemsPerPage int) IInvoiceService {
	return &invoiceService{
		store:        store,
		invalidator:  invalidator,
		itemsPerPage: itemsPerPage,
		now:          time.Now,
	}
}

// Create validates the form, persists a new invoice with the amount in minor
// units and today's date, invalidates the listing cache once, and tells the
// caller to redirect to the invoices listing.
func (s *invoiceService) Create(ctx context.Context, form map[string]string) Result {
	fields, errs := ValidateInvoiceForm(form)
	if len(errs) > 0 {
		return Result{
			Outcome:     OutcomeInvalid,
			Message:     "Missing Fields. Failed to Create Invoice.",
			FieldErrors: errs,
		}
	}

	now := s.now().UTC()
	invoice := &models.Invoice{
		CustomerID: fields.CustomerID,
		Amount:     fields.Amount,
		Status:     fields.Status,
		Date:       now.Format("2006-01-02"),
		CreatedAt:  now,
	}
	if err := s.store.Insert(ctx, invoice); err != nil {
		log.Printf("Failed to insert invoice: %v", err)
		return Result{Outcome: OutcomeStoreError, Message: "Database Error: Failed to Create Invoice."}
	}

	s.invalidateListing(ctx)
	return Result{Outcome: OutcomeRedirect, RedirectTo: InvoicesPath}
}

// Update validates the form and replaces the invoice's customer, amount and
// status. The id and date are immutable. On success it invalidates the
// listing cache once and redirects like Create.
func (s *invoiceService) Update(ctx context.Context, id string, form map[string]string) Result {
	fields, errs := ValidateInvoiceForm(form)
	if len(errs) > 0 {
		return Result{
			Outcome:     OutcomeInvalid,
			Message:     "Missing Fields. Failed to Update Invoice.",
			FieldErrors: errs,
		}
	}

	if err := s.store.Update(ctx, id, fields); err != nil {
		log.Printf("Failed to update invoice %s: %v", id, err)
		return Result{Outcome: OutcomeStoreError, Message: "Database Error: Failed to Update Invoice."}
	}

	s.invalidateListing(ctx)
	return Result{Outcome: OutcomeRedirect, RedirectTo: InvoicesPath}
}

// Delete removes the invoice. On success it invalidates the listing cache and
// returns a confirmation; the caller is already on the listing, so no
// redirect is issued. A failed delete performs no invalidation.
func (s *invoiceService) Delete(ctx context.Context, id string) Result {
	if err := s.store.Delete(ctx, id); err != nil {
		log.Printf("Failed to delete invoice %s: %v", id, err)
		return Result{Outcome: OutcomeStoreError, Message: "Database Error: Failed to Delete Invoice."}
	}

	s.invalidateListing(ctx)
	return Result{Outcome: OutcomeDeleted, Message: "Deleted Invoice."}
}

// invalidateListing requests invalidation of the invoices listing. It is
// fire-and-forget: a failed invalidation is logged, never surfaced, and never
// blocks the redirect.
func (s *invoiceService) invalidateListing(ctx context.Context) {
	if err := s.invalidator.Invalidate(ctx, InvoicesPath); err != nil {
		log.Printf("Failed to invalidate %s: %v", InvoicesPath, err)
	}
}

// FindByID fetches one invoice, e.g. for the edit form.
func (s *invoiceService) FindByID(ctx context.Context, id string) (*models.Invoice, error) {
	return s.store.FindByID(ctx, id)
}

// Filtered returns one page of the invoices listing for the given search
// query. Pages are 1-based.
func (s *invoiceService) Filtered(ctx context.Context, query string, page int) ([]models.InvoiceRow, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * s.itemsPerPage
	return s.store.Filtered(ctx, query, s.itemsPerPage, offset)
}

// TotalPages returns how many listing pages the query spans.
func (s *invoiceService) TotalPages(ctx context.Context, query string) (int, error) {
	count, err := s.store.CountFiltered(ctx, query)
	if err != nil {
		return 0, err
	}
	pages := int((count + int64(s.itemsPerPage) - 1) / int64(s.itemsPerPage))
	return pages, nil
}
