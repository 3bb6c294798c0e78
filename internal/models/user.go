package models

// User represents a dashboard account holder.
type User struct {
	Base         `bson:",inline"`
	Name         string `bson:"name" json:"name"`
	Email        string `bson:"email" json:"email"`
	PasswordHash string `bson:"password" json:"-"` // Store hash, not plaintext
	Deleted      bool   `bson:"deleted" json:"-"`
}
