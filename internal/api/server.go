package api

import (
	"log"
	"net/http"

	"eventify/internal/cache"
	"eventify/internal/config"
	"eventify/internal/database"
	"eventify/internal/external"
	"eventify/internal/handlers"
	"eventify/internal/messaging"
	"eventify/internal/middleware"
	"eventify/internal/repository"
	"eventify/internal/search"
	"eventify/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	router   *gin.Engine
	config   *config.Config
	db       *database.DB
	nats     *messaging.NATSClient
	redis    *cache.RedisClient
	services *service.Services
	repos    *repository.Repositories
}

func NewServer(cfg *config.Config) *Server {
	gin.SetMode(cfg.GinMode)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.RunMigrations(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// NATS is best-effort: the API runs without it, workflow events are
	// simply not published
	var natsClient *messaging.NATSClient
	var publisher service.Publisher
	if nc, err := messaging.NewNATSClient(cfg.NATS); err != nil {
		log.Printf("NATS unavailable, workflow events disabled: %v", err)
	} else {
		natsClient = nc
		publisher = nc
	}

	var redisClient *cache.RedisClient
	if cfg.Redis.Enabled {
		if rc, err := cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password); err != nil {
			log.Printf("Redis unavailable, vendor cache disabled: %v", err)
		} else {
			redisClient = rc
		}
	}

	var vendorIndex service.VendorIndex
	if cfg.Elasticsearch.Enabled {
		if ec, err := search.NewElasticsearchClient(cfg.Elasticsearch); err != nil {
			log.Printf("Elasticsearch unavailable, vendor search disabled: %v", err)
		} else {
			vendorIndex = ec
		}
	}

	settlementClient := external.NewSettlementClient(cfg.Settlement)
	suggestionClient := external.NewSuggestionClient(cfg.Suggestions)

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, publisher, settlementClient, suggestionClient, redisClient, vendorIndex, cfg.JWTSecret)

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.Logger())
	router.Use(middleware.Metrics())

	server := &Server{
		router:   router,
		config:   cfg,
		db:       db,
		nats:     natsClient,
		redis:    redisClient,
		services: services,
		repos:    repos,
	}

	server.setupRoutes()

	return server
}

func (s *Server) setupRoutes() {
	h := handlers.NewHandlers(s.services)

	api := s.router.Group("/api")
	{
		// Public endpoints
		auth := api.Group("/auth")
		{
			auth.POST("/signup", h.Signup)
			auth.POST("/login", h.Login)
		}

		// Processor callback, authenticated by signature
		api.POST("/payments/webhook", h.PaymentWebhook)

		// Everything else requires a valid token
		authed := api.Group("")
		authed.Use(middleware.JWTAuth(s.config.JWTSecret))
		{
			authed.GET("/auth/me", h.Me)

			events := authed.Group("/events")
			{
				events.POST("", h.CreateEvent)
				events.GET("", h.ListEvents)
				events.GET("/managed", h.ListManagedEvents)
				events.GET("/payment-status", h.ListEventsWithPaymentStatus)
				events.GET("/:id", h.GetEvent)
				events.PUT("/:id", h.UpdateEvent)
				events.DELETE("/:id", h.DeleteEvent)
				events.POST("/:id/delegate", h.DelegateEvent)
				events.POST("/:id/respond", h.RespondDelegation)
				events.POST("/:id/verify", h.VerifyWork)
				events.GET("/:id/vendors", h.ListEventVendors)
				events.GET("/:id/payments", h.ListEventPayments)
				events.GET("/:id/payment-status", h.GetEventPaymentStatus)
			}

			authed.GET("/organizers", h.ListOrganizers)

			vendors := authed.Group("/vendors")
			{
				vendors.GET("", h.ListVendors)
				vendors.GET("/:id", h.GetVendor)
				vendors.POST("/:id/verify", h.VerifyVendorAccount)
				vendors.POST("/assign", h.AssignVendor)
				vendors.POST("/unassign", h.UnassignVendor)
				vendors.GET("/events", h.ListAssignedEvents)
				vendors.POST("/events/:id/complete", h.CompleteEvent)
			}

			payments := authed.Group("/payments")
			{
				payments.POST("/request", h.RequestPayment)
				payments.GET("/requests", h.ListPaymentRequests)
				payments.POST("/requests/:id/approve", h.ApprovePaymentRequest)
				payments.POST("/requests/:id/reject", h.RejectPaymentRequest)
				payments.POST("/organizer-request", h.RequestOrganizerPayment)
				payments.GET("/organizer-requests", h.ListOrganizerRequests)
				payments.POST("/organizer-requests/:id/reject", h.RejectOrganizerRequest)
				payments.POST("/create-intent", h.CreatePaymentIntent)
				payments.POST("/verify", h.VerifyPayment)
			}

			notifications := authed.Group("/notifications")
			{
				notifications.GET("", h.ListNotifications)
				notifications.POST("/:id/read", h.MarkNotificationRead)
				notifications.POST("/read-all", h.MarkAllNotificationsRead)
			}

			chat := authed.Group("/chat")
			{
				chat.POST("/messages", h.SendMessage)
				chat.GET("/events/:id/messages", h.ListThread)
				chat.GET("/conversations", h.ListConversations)
				chat.POST("/read", h.MarkThreadRead)
			}
		}
	}

	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "eventify-api",
		"version": "1.0.0",
	})
}

// Handler returns the router as an http.Handler for graceful shutdown wiring
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Cleanup() error {
	if s.nats != nil {
		if err := s.nats.Close(); err != nil {
			log.Printf("Error closing NATS connection: %v", err)
		}
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			log.Printf("Error closing Redis connection: %v", err)
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			log.Printf("Error closing database connection: %v", err)
			return err
		}
	}

	return nil
}
