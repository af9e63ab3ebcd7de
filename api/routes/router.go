package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/retailpos-backend/api/controllers"
	"github.com/angelmondragon/retailpos-backend/api/middleware"
	authsvc "github.com/angelmondragon/retailpos-backend/internal/auth"
	"github.com/angelmondragon/retailpos-backend/internal/customers"
	"github.com/angelmondragon/retailpos-backend/internal/employees"
	"github.com/angelmondragon/retailpos-backend/internal/products"
	"github.com/angelmondragon/retailpos-backend/internal/sales"
	"github.com/angelmondragon/retailpos-backend/internal/stores"
	"github.com/angelmondragon/retailpos-backend/internal/suppliers"
	"github.com/angelmondragon/retailpos-backend/pkg/auth/session"
	"github.com/angelmondragon/retailpos-backend/pkg/config"
	"github.com/angelmondragon/retailpos-backend/pkg/db"
	"github.com/angelmondragon/retailpos-backend/pkg/enums"
	"github.com/angelmondragon/retailpos-backend/pkg/logger"
	"github.com/angelmondragon/retailpos-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	sessions session.AccessSessionChecker,
	authService authsvc.Service,
	storeService stores.Service,
	productService products.Service,
	customerService customers.Service,
	employeeService employees.Service,
	supplierService suppliers.Service,
	saleService sales.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.Live())
		r.Get("/ready", controllers.Ready(dbP, redisClient, logg))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", controllers.Register(authService, logg))
		r.Post("/login", controllers.Login(authService, logg))
		r.Post("/refresh", controllers.Refresh(authService, logg))
		r.Post("/logout", controllers.Logout(authService, cfg.JWT, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))

		r.Get("/auth/me", controllers.Me(authService, logg))

		// Registration happens before a store id is bound to the token.
		r.Post("/stores", controllers.RegisterStore(storeService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.StoreContext(logg))

			r.Route("/stores/me", func(r chi.Router) {
				r.Get("/", controllers.GetMyStore(storeService, logg))
				r.Put("/", controllers.UpdateMyStore(storeService, logg))
			})

			r.Route("/products", func(r chi.Router) {
				r.Get("/", controllers.ListProducts(productService, logg))
				r.Get("/alerts/low-stock", controllers.ListLowStock(productService, logg))
				r.Get("/{id}", controllers.GetProduct(productService, logg))
				r.Put("/{id}", controllers.UpdateProduct(productService, logg))

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRole(logg, enums.UserRoleStoreOwner))
					r.Post("/", controllers.CreateProduct(productService, logg))
					r.Delete("/{id}", controllers.DeleteProduct(productService, logg))
				})
			})

			r.Route("/customers", func(r chi.Router) {
				r.Post("/", controllers.CreateCustomer(customerService, logg))
				r.Get("/", controllers.ListCustomers(customerService, logg))
				r.Get("/search", controllers.SearchCustomers(customerService, logg))
				r.Get("/{id}", controllers.GetCustomer(customerService, logg))
				r.Put("/{id}", controllers.UpdateCustomer(customerService, logg))
				r.Delete("/{id}", controllers.DeleteCustomer(customerService, logg))
				r.Get("/{id}/history", controllers.CustomerHistory(customerService, logg))
				r.Post("/{id}/points", controllers.GrantPoints(customerService, logg))
				r.Post("/{id}/redeem", controllers.RedeemPoints(customerService, logg))
			})

			r.Route("/sales", func(r chi.Router) {
				r.Post("/", controllers.CreateSale(saleService, logg))
				r.Get("/", controllers.ListSales(saleService, logg))
				r.Get("/{id}", controllers.GetSale(saleService, logg))
				r.Delete("/{id}", controllers.DeleteSale(saleService, logg))
			})

			r.Route("/suppliers", func(r chi.Router) {
				r.Post("/", controllers.CreateSupplier(supplierService, logg))
				r.Get("/", controllers.ListSuppliers(supplierService, logg))
				r.Get("/{id}", controllers.GetSupplier(supplierService, logg))
				r.Put("/{id}", controllers.UpdateSupplier(supplierService, logg))
				r.Delete("/{id}", controllers.DeleteSupplier(supplierService, logg))
			})

			r.Route("/employees", func(r chi.Router) {
				r.Use(middleware.RequireRole(logg, enums.UserRoleStoreOwner))
				r.Post("/", controllers.CreateEmployee(employeeService, logg))
				r.Get("/", controllers.ListEmployees(employeeService, logg))
				r.Get("/role/{role}", controllers.ListEmployeesByRole(employeeService, logg))
				r.Get("/{id}", controllers.GetEmployee(employeeService, logg))
				r.Put("/{id}", controllers.UpdateEmployee(employeeService, logg))
				r.Delete("/{id}", controllers.DeleteEmployee(employeeService, logg))
			})
		})
	})

	return r
}
