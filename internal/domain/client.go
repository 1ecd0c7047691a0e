package domain

// ClientRecord is the single stored billing client used when generating
// invoices.
type ClientRecord struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	GSTNumber     string `json:"gst_number"`
	PlaceOfSupply string `json:"place_of_supply"`
}
