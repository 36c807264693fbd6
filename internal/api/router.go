package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/drivelog/drivelog-be/internal/api/handlers"
	"github.com/drivelog/drivelog-be/internal/auth"
	"github.com/drivelog/drivelog-be/internal/config"
	"github.com/drivelog/drivelog-be/internal/services"
	"github.com/drivelog/drivelog-be/internal/websocket"
)

// Services bundles everything the router needs to wire handlers.
type Services struct {
	Users        services.UserServiceProvider
	Vehicles     services.VehicleServiceProvider
	Fuels        services.FuelServiceProvider
	Records      services.ServiceRecordServiceProvider
	Reminders    services.ReminderServiceProvider
	ServiceTypes services.ServiceTypeServiceProvider
	Posts        services.PostServiceProvider
	Comments     services.CommentServiceProvider
	Events       services.EventServiceProvider
	APIKeys      services.APIKeyServiceProvider
}

// NewRouter creates and configures a new Chi router.
func NewRouter(cfg *config.Config, hub *websocket.Hub, svc Services) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Api-Key"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	userHandler := handlers.NewUserHandler(svc.Users)
	vehicleHandler := handlers.NewVehicleHandler(svc.Vehicles)
	fuelHandler := handlers.NewFuelHandler(svc.Fuels)
	recordHandler := handlers.NewServiceRecordHandler(svc.Records)
	reminderHandler := handlers.NewReminderHandler(svc.Reminders)
	typeHandler := handlers.NewServiceTypeHandler(svc.ServiceTypes)
	postHandler := handlers.NewPostHandler(svc.Posts)
	commentHandler := handlers.NewCommentHandler(svc.Comments)
	eventHandler := handlers.NewEventHandler(svc.Events)
	keyHandler := handlers.NewAPIKeyHandler(svc.APIKeys)
	wsHandler := handlers.NewWebSocketHandler(hub)

	// API versioning
	r.Route("/api/v1", func(r chi.Router) {
		// WebSocket connection endpoint for the activity feed
		r.Get("/ws", wsHandler.Serve)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", userHandler.Register)
			r.Post("/login", userHandler.Login)
		})

		// Everything below requires a valid JWT.
		r.Group(func(r chi.Router) {
			r.Use(auth.JWTMiddleware())

			r.Route("/user", func(r chi.Router) {
				r.Get("/", userHandler.GetMe)
				r.Put("/", userHandler.UpdateMe)
			})

			r.Route("/vehicles", func(r chi.Router) {
				r.Get("/", vehicleHandler.List)
				r.Post("/", vehicleHandler.Create)
				r.Route("/{vehicleID}", func(r chi.Router) {
					r.Get("/", vehicleHandler.Get)
					r.Put("/", vehicleHandler.Update)
					r.Delete("/", vehicleHandler.Delete)

					r.Route("/fuels", func(r chi.Router) {
						r.Get("/", fuelHandler.List)
						r.Post("/", fuelHandler.Create)
						r.Get("/{fuelID}", fuelHandler.Get)
						r.Put("/{fuelID}", fuelHandler.Update)
						r.Delete("/{fuelID}", fuelHandler.Delete)
					})

					r.Route("/services", func(r chi.Router) {
						r.Get("/", recordHandler.List)
						r.Post("/", recordHandler.Create)
						r.Get("/{recordID}", recordHandler.Get)
						r.Put("/{recordID}", recordHandler.Update)
						r.Delete("/{recordID}", recordHandler.Delete)
					})

					r.Route("/reminders", func(r chi.Router) {
						r.Get("/", reminderHandler.List)
						r.Post("/", reminderHandler.Create)
						r.Get("/{reminderID}", reminderHandler.Get)
						r.Put("/{reminderID}", reminderHandler.Update)
						r.Delete("/{reminderID}", reminderHandler.Delete)
					})
				})
			})

			// Catalog reads are open to any signed-in user.
			r.Get("/servicetypes", typeHandler.List)
			r.Get("/servicetypes/{typeID}", typeHandler.Get)

			r.Route("/posts", func(r chi.Router) {
				r.Get("/", postHandler.List)
				r.Post("/", postHandler.Create)
				r.Route("/{postID}", func(r chi.Router) {
					r.Get("/", postHandler.Get)
					r.Put("/", postHandler.Update)
					r.Delete("/", postHandler.Delete)

					r.Route("/comments", func(r chi.Router) {
						r.Get("/", commentHandler.List)
						r.Post("/", commentHandler.Create)
						r.Put("/{commentID}", commentHandler.Update)
						r.Delete("/{commentID}", commentHandler.Delete)
					})
				})
			})

			r.Route("/events", func(r chi.Router) {
				r.Get("/", eventHandler.List)
				r.Post("/", eventHandler.Create)
				r.Route("/{eventID}", func(r chi.Router) {
					r.Get("/", eventHandler.Get)
					r.Put("/", eventHandler.Update)
					r.Delete("/", eventHandler.Delete)

					r.Route("/confirmations", func(r chi.Router) {
						r.Get("/", eventHandler.ListConfirmations)
						r.Put("/", eventHandler.Confirm)
					})
				})
			})
		})

		// Catalog writes and key management require a service API key.
		r.Group(func(r chi.Router) {
			r.Use(auth.APIKeyMiddleware(svc.APIKeys))

			r.Post("/servicetypes", typeHandler.Create)
			r.Put("/servicetypes/{typeID}", typeHandler.Update)
			r.Delete("/servicetypes/{typeID}", typeHandler.Delete)

			r.Route("/apikeys", func(r chi.Router) {
				r.Get("/", keyHandler.List)
				r.Post("/", keyHandler.Create)
				r.Delete("/{keyID}", keyHandler.Revoke)
			})
		})
	})

	return r
}
