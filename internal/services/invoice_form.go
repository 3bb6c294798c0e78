package services

import (
	"math"
	"strconv"
	"strings"

	"finboard/dashboard/internal/models"
)

// FieldErrors maps a form field name to the validation messages recorded
// against it.
type FieldErrors map[string][]string

// InvoiceFields is the validated, normalized output of an invoice form:
// the amount is already converted to minor currency units.
type InvoiceFields struct {
	CustomerID string
	Amount     int64 // minor units (cents)
	Status     models.InvoiceStatus
}

// ValidateInvoiceForm checks the raw form fields for an invoice create or
// update. All per-field checks run independently and their errors accumulate;
// a single bad field never hides the others. On success the returned
// FieldErrors is empty and InvoiceFields holds the normalized values.
func ValidateInvoiceForm(form map[string]string) (InvoiceFields, FieldErrors) {
	fields := InvoiceFields{}
	errs := FieldErrors{}

	customerID := strings.TrimSpace(form["customerId"])
	if customerID == "" {
		errs["customerId"] = append(errs["customerId"], "Please select a customer.")
	} else {
		fields.CustomerID = customerID
	}

	rawAmount := strings.TrimSpace(form["amount"])
	amount, err := strconv.ParseFloat(rawAmount, 64)
	// ParseFloat accepts "Inf" and values like 1e300 whose cents overflow
	// int64; those must fail validation, never reach the conversion.
	cents := math.Round(amount * 100)
	if err != nil || math.IsInf(amount, 0) || !(amount > 0) || cents >= math.MaxInt64 {
		errs["amount"] = append(errs["amount"], "Please enter an amount greater than $0.")
	} else {
		fields.Amount = int64(cents)
	}

	status := form["status"]
	if !models.ValidInvoiceStatus(status) {
		errs["status"] = append(errs["status"], "Please select an invoice status.")
	} else {
		fields.Status = models.InvoiceStatus(status)
	}

	return fields, errs
}
