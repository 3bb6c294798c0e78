// Package seed loads the demo dataset: one login user, six customers,
// thirteen invoices and a year of revenue figures.
package seed

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"finboard/dashboard/internal/auth"
	"finboard/dashboard/internal/models"
)

const (
	usersCollection     = "users"
	customersCollection = "customers"
	invoicesCollection  = "invoices"
	revenueCollection   = "revenue"
)

type seedInvoice struct {
	customer int // index into the customers slice
	amount   int64
	status   models.InvoiceStatus
	date     string
}

// Run drops and repopulates the dashboard collections and ensures indexes.
// It is destructive and meant for development and demo environments only.
func Run(ctx context.Context, db *mongo.Database) error {
	for _, name := range []string{usersCollection, customersCollection, invoicesCollection, revenueCollection} {
		if err := db.Collection(name).Drop(ctx); err != nil {
			return fmt.Errorf("failed to drop %s: %w", name, err)
		}
	}

	if err := ensureIndexes(ctx, db); err != nil {
		return err
	}

	if err := seedUser(ctx, db); err != nil {
		return err
	}

	customers := []models.Customer{
		{Base: models.NewBase(), Name: "Evil Rabbit", Email: "evil@rabbit.com", ImageURL: "/customers/evil-rabbit.png"},
		{Base: models.NewBase(), Name: "Delba de Oliveira", Email: "delba@oliveira.com", ImageURL: "/customers/delba-de-oliveira.png"},
		{Base: models.NewBase(), Name: "Lee Robinson", Email: "lee@robinson.com", ImageURL: "/customers/lee-robinson.png"},
		{Base: models.NewBase(), Name: "Michael Novotny", Email: "michael@novotny.com", ImageURL: "/customers/michael-novotny.png"},
		{Base: models.NewBase(), Name: "Amy Burns", Email: "amy@burns.com", ImageURL: "/customers/amy-burns.png"},
		{Base: models.NewBase(), Name: "Balazs Orban", Email: "balazs@orban.com", ImageURL: "/customers/balazs-orban.png"},
	}
	customerDocs := make([]interface{}, len(customers))
	for i, c := range customers {
		customerDocs[i] = c
	}
	if _, err := db.Collection(customersCollection).InsertMany(ctx, customerDocs); err != nil {
		return fmt.Errorf("failed to seed customers: %w", err)
	}

	invoices := []seedInvoice{
		{0, 15795, models.InvoiceStatusPending, "2022-12-06"},
		{1, 20348, models.InvoiceStatusPending, "2022-11-14"},
		{4, 3040, models.InvoiceStatusPaid, "2022-10-29"},
		{3, 44800, models.InvoiceStatusPaid, "2023-09-10"},
		{5, 34577, models.InvoiceStatusPending, "2023-08-05"},
		{2, 54246, models.InvoiceStatusPending, "2023-07-16"},
		{0, 66600, models.InvoiceStatusPending, "2023-06-27"},
		{3, 32545, models.InvoiceStatusPaid, "2023-06-09"},
		{4, 1250, models.InvoiceStatusPaid, "2023-06-17"},
		{5, 8546, models.InvoiceStatusPaid, "2023-06-07"},
		{1, 500, models.InvoiceStatusPaid, "2023-08-19"},
		{5, 8945, models.InvoiceStatusPaid, "2023-06-03"},
		{2, 1000, models.InvoiceStatusPaid, "2022-06-05"},
	}
	invoiceDocs := make([]interface{}, len(invoices))
	for i, inv := range invoices {
		created, err := time.Parse("2006-01-02", inv.date)
		if err != nil {
			return fmt.Errorf("bad seed invoice date %q: %w", inv.date, err)
		}
		invoiceDocs[i] = models.Invoice{
			Base:       models.NewBase(),
			CustomerID: customers[inv.customer].ID,
			Amount:     inv.amount,
			Status:     inv.status,
			Date:       inv.date,
			CreatedAt:  created,
		}
	}
	if _, err := db.Collection(invoicesCollection).InsertMany(ctx, invoiceDocs); err != nil {
		return fmt.Errorf("failed to seed invoices: %w", err)
	}

	revenue := []models.Revenue{
		{Month: "Jan", Revenue: 2000},
		{Month: "Feb", Revenue: 1800},
		{Month: "Mar", Revenue: 2200},
		{Month: "Apr", Revenue: 2500},
		{Month: "May", Revenue: 2300},
		{Month: "Jun", Revenue: 3200},
		{Month: "Jul", Revenue: 3500},
		{Month: "Aug", Revenue: 3700},
		{Month: "Sep", Revenue: 2500},
		{Month: "Oct", Revenue: 2800},
		{Month: "Nov", Revenue: 3000},
		{Month: "Dec", Revenue: 4800},
	}
	revenueDocs := make([]interface{}, len(revenue))
	for i, r := range revenue {
		revenueDocs[i] = r
	}
	if _, err := db.Collection(revenueCollection).InsertMany(ctx, revenueDocs); err != nil {
		return fmt.Errorf("failed to seed revenue: %w", err)
	}

	log.Printf("Seeded %d customers, %d invoices, %d revenue months", len(customers), len(invoices), len(revenue))
	return nil
}

func seedUser(ctx context.Context, db *mongo.Database) error {
	hash, err := auth.HashPassword("123456")
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}
	user := models.User{
		Base:         models.NewBase(),
		Name:         "User",
		Email:        "user@nextmail.com",
		PasswordHash: hash,
	}
	if _, err := db.Collection(usersCollection).InsertOne(ctx, user); err != nil {
		return fmt.Errorf("failed to seed user: %w", err)
	}
	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create users email index: %w", err)
	}

	_, err = db.Collection(invoicesCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "customer_id", Value: 1}}},
		{Keys: bson.D{{Key: "date", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create invoice indexes: %w", err)
	}

	_, err = db.Collection(customersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create customers email index: %w", err)
	}
	return nil
}
