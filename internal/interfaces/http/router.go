package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/ledger-api/internal/application/billing"
	"github.com/jhoicas/ledger-api/internal/application/contact"
	"github.com/jhoicas/ledger-api/internal/application/creditnote"
	"github.com/jhoicas/ledger-api/internal/application/ledger"
	"github.com/jhoicas/ledger-api/internal/application/payment"
	"github.com/jhoicas/ledger-api/internal/application/usecase"
	"github.com/rs/zerolog"
)

// RouterDeps router dependencies.
type RouterDeps struct {
	TenantUC    *usecase.TenantUseCase
	ProductUC   *usecase.ProductUseCase
	Ledger      *ledger.Service
	Contacts    *contact.Service
	Invoices    *billing.Service
	Payments    *payment.Service
	CreditNotes *creditnote.Service
	JWTSecret   string
	Log         zerolog.Logger
}

// Router registers the API routes. Every route needs a Bearer token for an active
// tenant; writes additionally need the owner or accountant role.
func Router(app *fiber.App, deps RouterDeps) {
	v := NewValidator()
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret), RequireActiveTenant(deps.TenantUC))
	write := RequireRole(RoleOwner, RoleAccountant)
	ownerOnly := RequireRole(RoleOwner)

	tenantHandler := NewTenantHandler(deps.TenantUC, v, deps.Log)
	api.Get("/tenant", tenantHandler.Current)

	// Money accounts and transfers
	accounts := api.Group("/accounts")
	accountHandler := NewAccountHandler(deps.Ledger, v, deps.Log)
	accounts.Get("/", accountHandler.List)
	accounts.Post("/", write, accountHandler.Create)
	accounts.Get("/reconcile", accountHandler.Reconcile)
	accounts.Get("/:id", accountHandler.GetByID)
	accounts.Delete("/:id", ownerOnly, accountHandler.Delete)
	accounts.Post("/:id/adjust", write, accountHandler.Adjust)
	accounts.Get("/:id/movements", accountHandler.Movements)
	api.Post("/transfers", write, accountHandler.Transfer)

	// Contacts
	contacts := api.Group("/contacts")
	contactHandler := NewContactHandler(deps.Contacts, v, deps.Log)
	contacts.Get("/", contactHandler.List)
	contacts.Post("/", write, contactHandler.Create)
	contacts.Get("/:id", contactHandler.GetByID)

	// Products
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, v, deps.Log)
	products.Get("/", productHandler.List)
	products.Post("/", write, productHandler.Create)
	products.Get("/:id", productHandler.GetByID)

	// Invoices
	invoices := api.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.Invoices, v, deps.Log)
	invoices.Get("/", invoiceHandler.List)
	invoices.Post("/", write, invoiceHandler.Create)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Put("/:id", write, invoiceHandler.Update)
	invoices.Delete("/:id", write, invoiceHandler.Delete)
	invoices.Post("/:id/confirm", write, invoiceHandler.Confirm)
	invoices.Post("/:id/cancel", write, invoiceHandler.Cancel)

	// Payments
	payments := api.Group("/payments")
	paymentHandler := NewPaymentHandler(deps.Payments, v, deps.Log)
	payments.Get("/", paymentHandler.List)
	payments.Post("/", write, paymentHandler.Create)
	payments.Get("/:id", paymentHandler.GetByID)
	payments.Post("/:id/void", write, paymentHandler.Void)

	// Credit and debit notes
	notes := api.Group("/credit-notes")
	noteHandler := NewCreditNoteHandler(deps.CreditNotes, v, deps.Log)
	notes.Get("/", noteHandler.List)
	notes.Post("/", write, noteHandler.Create)
	notes.Get("/:id", noteHandler.GetByID)
	notes.Delete("/:id", write, noteHandler.Delete)
	notes.Post("/:id/issue", write, noteHandler.Issue)
	notes.Post("/:id/apply", write, noteHandler.Apply)
	notes.Post("/:id/cancel", write, noteHandler.Cancel)
}
