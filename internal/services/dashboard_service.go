package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"finboard/dashboard/internal/models"
)

const revenueCollection = "revenue"

// latestInvoiceCount is how many invoices the overview card shows.
const latestInvoiceCount = 5

// CardData holds the headline numbers for the dashboard overview.
// The sums are in minor currency units.
type CardData struct {
	NumberOfInvoices  int64 `json:"number_of_invoices"`
	NumberOfCustomers int64 `json:"number_of_customers"`
	TotalPaid         int64 `json:"total_paid"`
	TotalPending      int64 `json:"total_pending"`
}

// IDashboardService defines the read-only queries behind the overview page.
type IDashboardService interface {
	CardData(ctx context.Context) (*CardData, error)
	Revenue(ctx context.Context) ([]models.Revenue, error)
	LatestInvoices(ctx context.Context) ([]models.InvoiceRow, error)
}

// dashboardService implements IDashboardService.
type dashboardService struct {
	db           *mongo.Database
	invoiceStore IInvoiceStore
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(database *mongo.Database, invoiceStore IInvoiceStore) IDashboardService {
	return &dashboardService{db: database, invoiceStore: invoiceStore}
}

// CardData computes the invoice/customer counts and the paid/pending totals.
func (s *dashboardService) CardData(ctx context.Context) (*CardData, error) {
	data := &CardData{}
	var err error

	data.NumberOfInvoices, err = s.db.Collection(invoicesCollection).CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to count invoices: %w", err)
	}
	data.NumberOfCustomers, err = s.db.Collection(customersCollection).CountDocuments(ctx, bson.M{"deleted": false})
	if err != nil {
		return nil, fmt.Errorf("failed to count customers: %w", err)
	}

	pipeline := []bson.M{
		{"$group": bson.M{
			"_id":   "$status",
			"total": bson.M{"$sum": "$amount"},
		}},
	}
	cursor, err := s.db.Collection(invoicesCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to sum invoice amounts: %w", err)
	}
	defer cursor.Close(ctx)

	var totals []struct {
		Status models.InvoiceStatus `bson:"_id"`
		Total  int64                `bson:"total"`
	}
	if err = cursor.All(ctx, &totals); err != nil {
		return nil, fmt.Errorf("failed to decode invoice totals: %w", err)
	}
	for _, t := range totals {
		switch t.Status {
		case models.InvoiceStatusPaid:
			data.TotalPaid = t.Total
		case models.InvoiceStatusPending:
			data.TotalPending = t.Total
		}
	}
	return data, nil
}

// Revenue returns the monthly revenue series for the chart.
func (s *dashboardService) Revenue(ctx context.Context) ([]models.Revenue, error) {
	cursor, err := s.db.Collection(revenueCollection).Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to query revenue: %w", err)
	}
	defer cursor.Close(ctx)

	var revenue []models.Revenue
	if err = cursor.All(ctx, &revenue); err != nil {
		return nil, fmt.Errorf("failed to decode revenue: %w", err)
	}
	return revenue, nil
}

// LatestInvoices returns the most recent invoices with customer display data.
func (s *dashboardService) LatestInvoices(ctx context.Context) ([]models.InvoiceRow, error) {
	return s.invoiceStore.Latest(ctx, latestInvoiceCount)
}
