package domain

// Product is the catalog entry as the backend serializes it. The charge
// columns keep their spreadsheet-era JSON keys; renaming them breaks the
// wire contract.
type Product struct {
	Name               string  `json:"name"`
	Price              float64 `json:"price"`
	GSTRate            float64 `json:"gst_rate"`
	Stock              int     `json:"stock"`
	Category           string  `json:"category,omitempty"`
	InstallationCharge float64 `json:"Installation Charge"`
	ServiceCharge      float64 `json:"Service Charge"`
	ShippingCharge     float64 `json:"Shipping Charge"`
	HandlingFee        float64 `json:"Handling Fee"`
	TaxAmount          float64 `json:"price_tax_amount"`
	DiscountAmount     float64 `json:"price_discount_amount"`
	FinalPrice         float64 `json:"price_final_price"`
}

type StockLevel string

const (
	StockLevelIn  StockLevel = "in-stock"
	StockLevelLow StockLevel = "low-stock"
	StockLevelOut StockLevel = "out-of-stock"
)

// StockLevel buckets the stock count the way the dashboard filter does:
// more than 10 units is in stock, 1-10 is low, 0 is out.
func (p Product) StockLevel() StockLevel {
	switch {
	case p.Stock > 10:
		return StockLevelIn
	case p.Stock > 0:
		return StockLevelLow
	default:
		return StockLevelOut
	}
}
