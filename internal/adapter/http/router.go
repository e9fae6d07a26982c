package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Ismaelcs06/SmartSales-BackEnd/internal/adapter/http/middleware"
	"github.com/Ismaelcs06/SmartSales-BackEnd/internal/logging"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Checkout  *CheckoutHandler
	Cart      *CartHandler
	Catalog   *CatalogHandler
	Customer  *CustomerHandler
	Sales     *SalesHandler
	Marketing *MarketingHandler
	Report    *ReportHandler
	Audit     *AuditHandler
	Token     *TokenHandler
}

func NewRouter(h Handlers, authz *middleware.Authz, audit *middleware.AuditRecorder) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.MetricsMiddleware())

	l := logging.New("http")
	r.Use(middleware.Logging(l))
	r.Use(audit.Middleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})
	// Prometheus endpoint (scraped by Prometheus)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.POST("/v1/token", h.Token.IssueToken)

	v1 := r.Group("/v1")
	{
		v1.GET("/categories", authz.Require("catalog.read"), h.Catalog.ListCategories)
		v1.GET("/categories/:id", authz.Require("catalog.read"), h.Catalog.GetCategory)
		v1.POST("/categories", authz.Require("catalog.write"), h.Catalog.CreateCategory)
		v1.PUT("/categories/:id", authz.Require("catalog.write"), h.Catalog.UpdateCategory)
		v1.DELETE("/categories/:id", authz.Require("catalog.write"), h.Catalog.DeleteCategory)

		v1.GET("/products", authz.Require("catalog.read"), h.Catalog.ListProducts)
		v1.GET("/products/:id", authz.Require("catalog.read"), h.Catalog.GetProduct)
		v1.POST("/products", authz.Require("catalog.write"), h.Catalog.CreateProduct)
		v1.PUT("/products/:id", authz.Require("catalog.write"), h.Catalog.UpdateProduct)
		v1.DELETE("/products/:id", authz.Require("catalog.write"), h.Catalog.DeleteProduct)

		v1.GET("/customers", authz.Require("customers.read"), h.Customer.List)
		v1.GET("/customers/:id", authz.Require("customers.read"), h.Customer.Get)
		v1.POST("/customers", authz.Require("customers.write"), h.Customer.Create)
		v1.PUT("/customers/:id", authz.Require("customers.write"), h.Customer.Update)

		v1.GET("/cart/active", authz.Require("cart.write"), h.Cart.GetActive)
		v1.POST("/cart/items", authz.Require("cart.write"), h.Cart.AddItem)
		v1.POST("/cart/items/remove", authz.Require("cart.write"), h.Cart.RemoveItem)
		v1.POST("/cart/clear", authz.Require("cart.write"), h.Cart.Clear)

		v1.POST("/checkout", authz.Require("sales.checkout"), h.Checkout.Checkout)

		v1.GET("/sales", authz.Require("sales.read"), h.Sales.ListSales)
		v1.GET("/sales/:id", authz.Require("sales.read"), h.Sales.GetSale)
		v1.GET("/payments", authz.Require("sales.read"), h.Sales.ListPayments)
		v1.GET("/invoices", authz.Require("sales.read"), h.Sales.ListInvoices)

		v1.GET("/promotions", authz.Require("marketing.read"), h.Marketing.ListPromotions)
		v1.GET("/promotions/active", authz.Require("marketing.read"), h.Marketing.ListActivePromotions)
		v1.POST("/promotions", authz.Require("marketing.write"), h.Marketing.CreatePromotion)
		v1.POST("/promotions/:id/products", authz.Require("marketing.write"), h.Marketing.AttachProduct)

		v1.GET("/notifications", authz.Require("marketing.read"), h.Marketing.MyNotifications)
		v1.POST("/notifications", authz.Require("marketing.write"), h.Marketing.SendNotification)
		v1.POST("/notifications/:id/read", authz.Require("marketing.read"), h.Marketing.MarkNotificationRead)

		v1.GET("/reports/sales-per-day", authz.Require("reports.read"), h.Report.SalesPerDay)
		v1.POST("/reports/sales-per-day/export", authz.Require("reports.read"), h.Report.ExportSales)

		v1.GET("/audit/sessions", authz.Require("audit.read"), h.Audit.ListSessions)
		v1.GET("/audit/sessions/:id", authz.Require("audit.read"), h.Audit.GetSession)
	}

	return r
}
