package security

// In-memory API client registry (replace with DB/config later).
type Client struct {
	ID      string
	Secret  string
	Perms   []string // e.g. {"catalog.read","sales.checkout"}
	Enabled bool
}

var Clients = map[string]Client{
	"storefront-web": {
		ID:     "storefront-web",
		Secret: "storefront-secret",
		Perms: []string{
			"catalog.read", "cart.write", "sales.read", "sales.checkout",
			"marketing.read",
		},
		Enabled: true,
	},
	"backoffice-admin": {
		ID:     "backoffice-admin",
		Secret: "backoffice-secret",
		Perms: []string{
			"catalog.read", "catalog.write", "customers.read", "customers.write",
			"sales.read", "marketing.read", "marketing.write",
			"reports.read", "audit.read",
		},
		Enabled: true,
	},
	"svc-analytics": {
		ID:      "svc-analytics",
		Secret:  "ana-secret",
		Perms:   []string{"sales.read", "reports.read"},
		Enabled: true,
	},
}
