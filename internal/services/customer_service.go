package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"finboard/dashboard/internal/models"
)

// ICustomerService defines the interface for customer reads and the avatar
// URL write-back used by the image pipeline.
type ICustomerService interface {
	List(ctx context.Context) ([]models.CustomerField, error)
	Table(ctx context.Context, query string) ([]models.CustomerTableRow, error)
	FindByID(ctx context.Context, id string) (*models.Customer, error)
	SetAvatarURL(ctx context.Context, id, url string) error
}

// customerService implements ICustomerService.
type customerService struct {
	db *mongo.Database
}

// NewCustomerService creates a new CustomerService.
func NewCustomerService(database *mongo.Database) ICustomerService {
	return &customerService{db: database}
}

// List returns every customer's id and name, sorted by name, for the invoice
// form's customer dropdown.
func (s *customerService) List(ctx context.Context) ([]models.CustomerField, error) {
	collection := s.db.Collection(customersCollection)
	opts := options.Find().
		SetProjection(bson.M{"name": 1}).
		SetSort(bson.M{"name": 1})
	cursor, err := collection.Find(ctx, bson.M{"deleted": false}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	defer cursor.Close(ctx)

	var customers []models.CustomerField
	if err = cursor.All(ctx, &customers); err != nil {
		return nil, fmt.Errorf("failed to decode customers: %w", err)
	}
	return customers, nil
}

// Table returns customers matching the query with their invoice totals
// aggregated: invoice count plus pending and paid sums in minor units.
func (s *customerService) Table(ctx context.Context, query string) ([]models.CustomerTableRow, error) {
	match := bson.M{"deleted": false}
	if query != "" {
		rx := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
		match["$or"] = bson.A{bson.M{"name": rx}, bson.M{"email": rx}}
	}

	sumByStatus := func(status models.InvoiceStatus) bson.M {
		return bson.M{"$sum": bson.M{"$map": bson.M{
			"input": bson.M{"$filter": bson.M{
				"input": "$invoices",
				"as":    "inv",
				"cond":  bson.M{"$eq": bson.A{"$$inv.status", status}},
			}},
			"as": "inv",
			"in": "$$inv.amount",
		}}}
	}

	pipeline := []bson.M{
		{"$match": match},
		{"$lookup": bson.M{
			"from":         invoicesCollection,
			"localField":   "_id",
			"foreignField": "customer_id",
			"as":           "invoices",
		}},
		{"$project": bson.M{
			"name":           1,
			"email":          1,
			"image_url":      1,
			"total_invoices": bson.M{"$size": "$invoices"},
			"total_pending":  sumByStatus(models.InvoiceStatusPending),
			"total_paid":     sumByStatus(models.InvoiceStatusPaid),
		}},
		{"$sort": bson.M{"name": 1}},
	}

	cursor, err := s.db.Collection(customersCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to query customer table: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []models.CustomerTableRow
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode customer table: %w", err)
	}
	return rows, nil
}

// FindByID retrieves a single non-deleted customer.
func (s *customerService) FindByID(ctx context.Context, id string) (*models.Customer, error) {
	var customer models.Customer
	filter := bson.M{"_id": id, "deleted": false}
	err := s.db.Collection(customersCollection).FindOne(ctx, filter).Decode(&customer)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, mongo.ErrNoDocuments
		}
		return nil, fmt.Errorf("error finding customer %s: %w", id, err)
	}
	return &customer, nil
}

// SetAvatarURL stores the processed avatar's public URL on the customer.
func (s *customerService) SetAvatarURL(ctx context.Context, id, url string) error {
	result, err := s.db.Collection(customersCollection).UpdateOne(ctx,
		bson.M{"_id": id, "deleted": false},
		bson.M{"$set": bson.M{"image_url": url}})
	if err != nil {
		return fmt.Errorf("db error setting avatar for customer %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
