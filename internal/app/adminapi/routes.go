package adminapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/magabrotheeeer/shop-admin/docs"
	"github.com/magabrotheeeer/shop-admin/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/shop-admin/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/shop-admin/internal/http/handlers/auth/verify"
	"github.com/magabrotheeeer/shop-admin/internal/http/handlers/health"
	productcreate "github.com/magabrotheeeer/shop-admin/internal/http/handlers/products/create"
	"github.com/magabrotheeeer/shop-admin/internal/http/handlers/products/form"
	productlist "github.com/magabrotheeeer/shop-admin/internal/http/handlers/products/list"
	productread "github.com/magabrotheeeer/shop-admin/internal/http/handlers/products/read"
	productremove "github.com/magabrotheeeer/shop-admin/internal/http/handlers/products/remove"
	productupdate "github.com/magabrotheeeer/shop-admin/internal/http/handlers/products/update"
	"github.com/magabrotheeeer/shop-admin/internal/http/handlers/upload/image"
	usercreate "github.com/magabrotheeeer/shop-admin/internal/http/handlers/users/create"
	userlist "github.com/magabrotheeeer/shop-admin/internal/http/handlers/users/list"
	userread "github.com/magabrotheeeer/shop-admin/internal/http/handlers/users/read"
	"github.com/magabrotheeeer/shop-admin/internal/http/handlers/users/register"
	userremove "github.com/magabrotheeeer/shop-admin/internal/http/handlers/users/remove"
	userupdate "github.com/magabrotheeeer/shop-admin/internal/http/handlers/users/update"
	"github.com/magabrotheeeer/shop-admin/internal/http/middlewarectx"
	"github.com/magabrotheeeer/shop-admin/internal/http/response"
	"github.com/magabrotheeeer/shop-admin/internal/lib/jwt"
	"github.com/magabrotheeeer/shop-admin/internal/lib/metrics"
	"github.com/magabrotheeeer/shop-admin/internal/lib/session"
	"github.com/magabrotheeeer/shop-admin/internal/models"
	authservice "github.com/magabrotheeeer/shop-admin/internal/services/auth"
	productservice "github.com/magabrotheeeer/shop-admin/internal/services/products"
	userservice "github.com/magabrotheeeer/shop-admin/internal/services/users"
)

// Deps собирает зависимости маршрутов.
type Deps struct {
	Logger    *slog.Logger
	Auth      *authservice.AuthService
	Users     *userservice.Service
	Products  *productservice.Service
	JWT       jwt.Maker
	Session   *session.Transport
	Metrics   *metrics.Metrics
	Gatherer  prometheus.Gatherer
	MaxUpload int64
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, d Deps) {
	log := d.Logger

	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		middlewarectx.Metrics(d.Metrics),
	)

	authenticate := middlewarectx.Authenticate(d.JWT, d.Session, log)
	adminOnly := middlewarectx.RequireRole(models.RoleAdmin, log)

	r.Get("/health", health.New(log).ServeHTTP)

	r.Route("/api", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/auth/login", login.New(log, d.Auth, d.Session).ServeHTTP)
		r.Post("/auth/logout", logout.New(log, d.Session).ServeHTTP)
		r.Get("/auth/verify", verify.New(log, d.Auth, d.Session).ServeHTTP)
		r.Post("/register", register.New(log, d.Users).ServeHTTP)

		// Чтение доступно любому вошедшему пользователю
		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Get("/users", userlist.New(log, d.Users).ServeHTTP)
			r.Get("/users/{id}", userread.New(log, d.Users).ServeHTTP)
			r.Get("/products", productlist.New(log, d.Products).ServeHTTP)
			r.Get("/products/{id}", productread.New(log, d.Products).ServeHTTP)
			r.Get("/admin/products", productlist.New(log, d.Products).ServeHTTP)
		})

		// Изменения только для администратора
		r.Group(func(r chi.Router) {
			r.Use(authenticate, adminOnly)
			r.Post("/users", usercreate.New(log, d.Users).ServeHTTP)
			r.Patch("/users/{id}", userupdate.New(log, d.Users).ServeHTTP)
			r.Delete("/users/{id}", userremove.New(log, d.Users).ServeHTTP)

			r.Get("/admin/users", userlist.New(log, d.Users).ServeHTTP)
			r.Delete("/admin/users/{id}", userremove.New(log, d.Users).ServeHTTP)
			r.Delete("/admin/products/{id}", productremove.New(log, d.Products).ServeHTTP)

			r.Post("/products", productcreate.New(log, d.Products, d.MaxUpload, form.FieldThumbnail).ServeHTTP)
			r.Patch("/products/{id}", productupdate.New(log, d.Products, d.MaxUpload).ServeHTTP)
			r.Delete("/products/{id}", productremove.New(log, d.Products).ServeHTTP)

			r.Post("/upload/image", image.New(log, d.Products, d.MaxUpload).ServeHTTP)
			r.Post("/upload/product", productcreate.New(log, d.Products, d.MaxUpload, image.FieldImage).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("not found"))
	})
}
