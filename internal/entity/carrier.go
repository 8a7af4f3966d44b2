package entity

// Carrier is a canonical insurance-carrier name plus the free-text variants
// seen in customer data. The catalog is administered out of band and read-only
// from the import pipeline's point of view.
type Carrier struct {
	ID      int64    `json:"id"`
	Name    string   `json:"name"`
	Aliases []string `json:"aliases"`
}
