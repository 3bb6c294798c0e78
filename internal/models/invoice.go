package models

import (
	"time"
)

// InvoiceStatus is the closed set of invoice states. There is no transition
// order: an update may overwrite any valid status with any other.
type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "pending"
	InvoiceStatusPaid    InvoiceStatus = "paid"
)

// ValidInvoiceStatus reports whether s is one of the defined status labels.
func ValidInvoiceStatus(s string) bool {
	switch InvoiceStatus(s) {
	case InvoiceStatusPending, InvoiceStatusPaid:
		return true
	}
	return false
}

// Invoice represents a billing record shown on the dashboard.
// Amount is stored in minor currency units (cents) to avoid floating-point
// rounding. Date is the calendar day the invoice was created ("YYYY-MM-DD")
// and is never updated after creation.
type Invoice struct {
	Base       `bson:",inline"`
	CustomerID string        `bson:"customer_id" json:"customer_id"`
	Amount     int64         `bson:"amount" json:"amount"`
	Status     InvoiceStatus `bson:"status" json:"status"`
	Date       string        `bson:"date" json:"date"`
	CreatedAt  time.Time     `bson:"created_at" json:"created_at"`
}

// InvoiceRow is an invoice joined with its customer's display fields, as
// rendered in the invoices table and the latest-invoices card.
type InvoiceRow struct {
	ID            string        `bson:"_id" json:"id"`
	CustomerID    string        `bson:"customer_id" json:"customer_id"`
	Amount        int64         `bson:"amount" json:"amount"`
	Status        InvoiceStatus `bson:"status" json:"status"`
	Date          string        `bson:"date" json:"date"`
	CustomerName  string        `bson:"customer_name" json:"customer_name"`
	CustomerEmail string        `bson:"customer_email" json:"customer_email"`
	ImageURL      string        `bson:"image_url" json:"image_url"`
}
