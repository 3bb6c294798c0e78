package models

// Customer represents a billable customer.
type Customer struct {
	Base     `bson:",inline"`
	Name     string `bson:"name" json:"name"`
	Email    string `bson:"email" json:"email"`
	ImageURL string `bson:"image_url" json:"image_url"`
	Deleted  bool   `bson:"deleted" json:"-"`
}

// CustomerField is the minimal customer shape used by the invoice form's
// customer dropdown.
type CustomerField struct {
	ID   string `bson:"_id" json:"id"`
	Name string `bson:"name" json:"name"`
}

// CustomerTableRow is a customer with aggregated invoice totals for the
// customers table. Totals are in minor currency units.
type CustomerTableRow struct {
	ID            string `bson:"_id" json:"id"`
	Name          string `bson:"name" json:"name"`
	Email         string `bson:"email" json:"email"`
	ImageURL      string `bson:"image_url" json:"image_url"`
	TotalInvoices int64  `bson:"total_invoices" json:"total_invoices"`
	TotalPending  int64  `bson:"total_pending" json:"total_pending"`
	TotalPaid     int64  `bson:"total_paid" json:"total_paid"`
}
