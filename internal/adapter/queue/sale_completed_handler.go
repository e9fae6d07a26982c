package queue

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Ismaelcs06/SmartSales-BackEnd/internal/domain"
	"github.com/Ismaelcs06/SmartSales-BackEnd/internal/usecase"
)

// SaleCompletedHandler turns a sale.completed event into a receipt
// notification for the buyer.
type SaleCompletedHandler struct {
	Marketing usecase.MarketingRepo
}

func NewSaleCompletedHandler(marketing usecase.MarketingRepo) *SaleCompletedHandler {
	return &SaleCompletedHandler{Marketing: marketing}
}

// HandleSaleCompleted is meant to be used with queue.JSONHandler[usecase.SaleCompletedMsg].
func (h *SaleCompletedHandler) HandleSaleCompleted(ctx context.Context, msg usecase.SaleCompletedMsg) error {
	n := &domain.Notification{
		ID:         uuid.NewString(),
		CustomerID: msg.CustomerID,
		Title:      "Purchase confirmed",
		Message:    "Your purchase " + msg.InvoiceNumber + " for " + msg.Total + " was completed.",
		Kind:       domain.NotificationReminder,
		SentAt:     time.Now().UTC(),
	}
	return h.Marketing.CreateNotification(ctx, n)
}
