package models

// Revenue is a single month's revenue figure for the dashboard chart.
// Month is a three-letter label ("Jan".."Dec"); Revenue is in whole dollars
// as provided by the bookkeeping import.
type Revenue struct {
	Month   string `bson:"month" json:"month"`
	Revenue int64  `bson:"revenue" json:"revenue"`
}
