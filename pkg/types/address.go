package types

// Address is a flat billing-address view derived from a gateway card record.
// It is rebuilt on every retrieval and carries no behavior.
type Address struct {
	StreetLine1 string `json:"street_line1" bson:"street_line1"`
	StreetLine2 string `json:"street_line2,omitempty" bson:"street_line2,omitempty"`
	City        string `json:"city" bson:"city"`
	State       string `json:"state" bson:"state"`
	ZipCode     string `json:"zip_code" bson:"zip_code"`
}
