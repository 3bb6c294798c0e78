package services

import (
	"context"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"finboard/dashboard/internal/db"
	"finboard/dashboard/internal/models"
)

const (
	invoicesCollection  = "invoices"
	customersCollection = "customers"
)

// IInvoiceStore is the persistence collaborator of the invoice mutation
// pipeline. Implementations issue parameterized writes and must reject
// referentially-invalid customer IDs with a reportable error; the pipeline
// itself never re-verifies customer existence.
type IInvoiceStore interface {
	Insert(ctx context.Context, invoice *models.Invoice) error
	Update(ctx context.Context, id string, fields InvoiceFields) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*models.Invoice, error)
	Filtered(ctx context.Context, query string, limit, offset int) ([]models.InvoiceRow, error)
	CountFiltered(ctx context.Context, query string) (int64, error)
	Latest(ctx context.Context, limit int) ([]models.InvoiceRow, error)
}

// mongoInvoiceStore implements IInvoiceStore on MongoDB.
type mongoInvoiceStore struct {
	db *mongo.Database
}

// NewMongoInvoiceStore creates an IInvoiceStore backed by the given database.
func NewMongoInvoiceStore(database *mongo.Database) IInvoiceStore {
	return &mongoInvoiceStore{db: database}
}

// customerExists enforces the referential constraint on customer_id.
func (s *mongoInvoiceStore) customerExists(ctx context.Context, customerID string) error {
	count, err := s.db.Collection(customersCollection).CountDocuments(ctx,
		bson.M{"_id": customerID, "deleted": false})
	if err != nil {
		return fmt.Errorf("failed to look up customer %s: %w", customerID, err)
	}
	if count == 0 {
		return fmt.Errorf("customer %s does not exist", customerID)
	}
	return nil
}

// Insert stores a new invoice, assigning its ID. The ID is regenerated on
// each attempt so a duplicate key collision retries with a fresh one.
func (s *mongoInvoiceStore) Insert(ctx context.Context, invoice *models.Invoice) error {
	if err := s.customerExists(ctx, invoice.CustomerID); err != nil {
		return err
	}

	collection := s.db.Collection(invoicesCollection)
	operation := func() error {
		invoice.GenID()
		_, insertErr := collection.InsertOne(ctx, invoice)
		return insertErr
	}
	if err := db.Try(operation); err != nil {
		return fmt.Errorf("failed to insert invoice for customer %s: %w", invoice.CustomerID, err)
	}
	return nil
}

// Update replaces the mutable fields of an existing invoice. The id and date
// are never touched. Returns mongo.ErrNoDocuments if no invoice matched.
func (s *mongoInvoiceStore) Update(ctx context.Context, id string, fields InvoiceFields) error {
	if err := s.customerExists(ctx, fields.CustomerID); err != nil {
		return err
	}

	update := bson.M{"$set": bson.M{
		"customer_id": fields.CustomerID,
		"amount":      fields.Amount,
		"status":      fields.Status,
	}}
	result, err := s.db.Collection(invoicesCollection).UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("db error updating invoice %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete removes an invoice entirely (no soft delete). Returns
// mongo.ErrNoDocuments if the invoice did not exist.
func (s *mongoInvoiceStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.Collection(invoicesCollection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("db error deleting invoice %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// FindByID fetches a single invoice, e.g. to prefill the edit form.
func (s *mongoInvoiceStore) FindByID(ctx context.Context, id string) (*models.Invoice, error) {
	var invoice models.Invoice
	err := s.db.Collection(invoicesCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&invoice)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, mongo.ErrNoDocuments
		}
		return nil, fmt.Errorf("error finding invoice %s: %w", id, err)
	}
	return &invoice, nil
}

// searchMatch builds the $match stage for a free-text search over the joined
// invoice rows: customer name and email, status, date and the stringified
// amount, all case-insensitive.
func searchMatch(query string) bson.M {
	pattern := regexp.QuoteMeta(query)
	rx := primitive.Regex{Pattern: pattern, Options: "i"}
	return bson.M{"$or": bson.A{
		bson.M{"customer.name": rx},
		bson.M{"customer.email": rx},
		bson.M{"status": rx},
		bson.M{"date": rx},
		bson.M{"$expr": bson.M{"$regexMatch": bson.M{
			"input":   bson.M{"$toString": "$amount"},
			"regex":   pattern,
			"options": "i",
		}}},
	}}
}

// joinCustomerStages joins each invoice with its customer document.
func joinCustomerStages() []bson.M {
	return []bson.M{
		{"$lookup": bson.M{
			"from":         customersCollection,
			"localField":   "customer_id",
			"foreignField": "_id",
			"as":           "customer",
		}},
		{"$unwind": "$customer"},
	}
}

var invoiceRowProjection = bson.M{"$project": bson.M{
	"customer_id":    1,
	"amount":         1,
	"status":         1,
	"date":           1,
	"customer_name":  "$customer.name",
	"customer_email": "$customer.email",
	"image_url":      "$customer.image_url",
}}

// Filtered returns one page of the invoices listing, newest first, matching
// the free-text query (empty query matches everything).
func (s *mongoInvoiceStore) Filtered(ctx context.Context, query string, limit, offset int) ([]models.InvoiceRow, error) {
	pipeline := joinCustomerStages()
	if query != "" {
		pipeline = append(pipeline, bson.M{"$match": searchMatch(query)})
	}
	pipeline = append(pipeline,
		bson.M{"$sort": bson.M{"date": -1, "_id": 1}},
		bson.M{"$skip": offset},
		bson.M{"$limit": limit},
		invoiceRowProjection,
	)

	cursor, err := s.db.Collection(invoicesCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoices: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []models.InvoiceRow
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode invoices: %w", err)
	}
	return rows, nil
}

// CountFiltered returns how many invoices match the free-text query.
func (s *mongoInvoiceStore) CountFiltered(ctx context.Context, query string) (int64, error) {
	if query == "" {
		count, err := s.db.Collection(invoicesCollection).CountDocuments(ctx, bson.M{})
		if err != nil {
			return 0, fmt.Errorf("failed to count invoices: %w", err)
		}
		return count, nil
	}

	pipeline := joinCustomerStages()
	pipeline = append(pipeline,
		bson.M{"$match": searchMatch(query)},
		bson.M{"$count": "total"},
	)
	cursor, err := s.db.Collection(invoicesCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("failed to count invoices: %w", err)
	}
	defer cursor.Close(ctx)

	var result []struct {
		Total int64 `bson:"total"`
	}
	if err = cursor.All(ctx, &result); err != nil {
		return 0, fmt.Errorf("failed to decode invoice count: %w", err)
	}
	if len(result) == 0 {
		return 0, nil
	}
	return result[0].Total, nil
}

// Latest returns the most recent invoices joined with customer display data.
func (s *mongoInvoiceStore) Latest(ctx context.Context, limit int) ([]models.InvoiceRow, error) {
	pipeline := joinCustomerStages()
	pipeline = append(pipeline,
		bson.M{"$sort": bson.M{"date": -1, "created_at": -1}},
		bson.M{"$limit": limit},
		invoiceRowProjection,
	)

	cursor, err := s.db.Collection(invoicesCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest invoices: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []models.InvoiceRow
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode latest invoices: %w", err)
	}
	return rows, nil
}
