package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"ecom-backend/internal/auth"
	"ecom-backend/internal/domain"
	"ecom-backend/internal/service"
	"ecom-backend/internal/storage"
)

// EventVerifier checks an inbound webhook payload against its signature header.
type EventVerifier interface {
	ConstructEvent(payload []byte, signatureHeader string) (domain.WebhookEvent, error)
}

// Config lists everything the HTTP layer depends on.
type Config struct {
	Users    service.UserService
	Orders   service.OrderService
	Payments service.PaymentService

	// Login authenticates email/password pairs; Gate authenticates session tokens.
	Login  auth.Strategy
	Gate   auth.Strategy
	Tokens *auth.TokenIssuer

	Webhooks EventVerifier
	Archive  storage.EventArchive

	CookieName      string
	CookieSecure    bool
	AllowAllOrigins bool
	AllowedOrigins  []string
	StaticDir       string
	Logger          *logrus.Logger
}

// Handler wires HTTP routes to domain services.
type Handler struct {
	cfg    Config
	logger *logrus.Logger
}

func NewHandler(cfg Config) *Handler {
	if cfg.CookieName == "" {
		cfg.CookieName = "jwt"
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	return &Handler{
		cfg:    cfg,
		logger: cfg.Logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	// Registered before any middleware so the handler sees the body exactly
	// as it arrived.
	router.POST("/webhook", h.handleWebhook)

	router.Use(corsMiddleware(h.cfg.AllowAllOrigins, h.cfg.AllowedOrigins))

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Server working")
	})
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": "ok"})
	})

	authGroup := router.Group("/auth")
	{
		authGroup.POST("/signup", h.signup)
		authGroup.POST("/login", h.login)
		authGroup.GET("/logout", h.logout)
		authGroup.GET("/check", h.requireAuth(), h.check)
	}

	protected := router.Group("/", h.requireAuth())
	{
		protected.GET("/users/own", h.ownProfile)

		protected.POST("/orders", h.createOrder)
		protected.GET("/orders", requireRole(domain.RoleAdmin), h.listOrders)
		protected.GET("/orders/own", h.listOwnOrders)
		protected.GET("/orders/:id", h.getOrder)

		protected.POST("/create-payment-intent", h.createPaymentIntent)

		protected.GET("/admin/webhook-events", requireRole(domain.RoleAdmin), h.listArchivedEvents)
	}

	router.NoRoute(h.serveStatic)
}

func corsMiddleware(allowAll bool, origins []string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(origins))
	for _, origin := range origins {
		allowed[strings.TrimRight(origin, "/")] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			if _, ok := allowed[origin]; !ok && !allowAll {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Not allowed by CORS"})
				return
			}
			header := c.Writer.Header()
			header.Set("Access-Control-Allow-Origin", origin)
			header.Add("Vary", "Origin")
			header.Set("Access-Control-Allow-Credentials", "true")
			header.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			header.Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
			header.Set("Access-Control-Expose-Headers", "X-Total-Count")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func (h *Handler) internalError(c *gin.Context, msg string, err error) {
	h.logger.WithError(err).WithField("path", c.FullPath()).Error(msg)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
