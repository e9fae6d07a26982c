package usecase

// SaleCompletedMsg is published to RabbitMQ after a checkout commits. The
// marketing consumer turns it into a receipt notification.
type SaleCompletedMsg struct {
	SaleID        string `json:"sale_id"`
	CustomerID    string `json:"customer_id"`
	InvoiceNumber string `json:"invoice_number"`
	Total         string `json:"total"`
	PaymentMethod string `json:"payment_method"`
}

// StockReplenishedMsg arrives on the inventory Kafka topic when the
// warehouse restocks a product.
type StockReplenishedMsg struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}
