package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"rewards-service/internal/service"
	"rewards-service/internal/session"
	"rewards-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const sessionContextKey = "session"

// Handler contains HTTP handlers
type Handler struct {
	authService    *service.AuthService
	rewardsService *service.RewardsService
	sessions       session.Store
	cookieName     string
}

// NewHandler creates a new HTTP handler
func NewHandler(
	authService *service.AuthService,
	rewardsService *service.RewardsService,
	sessions session.Store,
	cookieName string,
) *Handler {
	return &Handler{
		authService:    authService,
		rewardsService: rewardsService,
		sessions:       sessions,
		cookieName:     cookieName,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.CustomRecovery(h.serverErrorPage))
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.SetHTMLTemplate(pageTemplates())
	router.NoRoute(h.notFoundPage)

	router.GET("/health", h.healthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/", h.index)
	router.GET("/register", h.registerPage)
	router.POST("/register", h.register)
	router.GET("/login", h.loginPage)
	router.POST("/login", h.login)

	protected := router.Group("/", h.requireSession())
	{
		protected.GET("/logout", h.logout)
		protected.GET("/dashboard", h.dashboard)
		protected.GET("/resources", h.resources)

		api := protected.Group("/api")
		{
			api.POST("/record-purchase", h.recordPurchase)
			api.GET("/purchases", h.listPurchases)
			api.POST("/redeem-points", h.redeemPoints)
			api.GET("/points-summary", h.pointsSummary)
			api.POST("/generate-statement", h.generateStatement)
			api.GET("/statements", h.listStatements)
		}
	}
}

// requireSession gates protected routes. Requests without a valid
// session are redirected to the login entry point, API routes included.
func (h *Handler) requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(h.cookieName)
		if err != nil || id == "" {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		sess, err := h.sessions.Get(c.Request.Context(), id)
		if err != nil {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		c.Set(sessionContextKey, sess)
		c.Next()
	}
}

func currentSession(c *gin.Context) *session.Session {
	return c.MustGet(sessionContextKey).(*session.Session)
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// index routes to the dashboard when logged in, otherwise to login
func (h *Handler) index(c *gin.Context) {
	if id, err := c.Cookie(h.cookieName); err == nil && id != "" {
		if _, err := h.sessions.Get(c.Request.Context(), id); err == nil {
			c.Redirect(http.StatusFound, "/dashboard")
			return
		}
	}
	c.Redirect(http.StatusFound, "/login")
}

// register handles business registration
func (h *Handler) register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	resp, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrEmailInUse) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Registration successful",
		"card_id": resp.CardID,
	})
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// login authenticates and opens a session
func (h *Handler) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	business, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}

	id, err := h.sessions.Create(c.Request.Context(), session.Session{
		BusinessID:   business.ID,
		BusinessName: business.BusinessName,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}

	c.SetCookie(h.cookieName, id, 0, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// logout clears the session and returns to login
func (h *Handler) logout(c *gin.Context) {
	if id, err := c.Cookie(h.cookieName); err == nil {
		_ = h.sessions.Delete(c.Request.Context(), id)
	}
	c.SetCookie(h.cookieName, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, "/login")
}

// recordPurchase handles purchase recording
func (h *Handler) recordPurchase(c *gin.Context) {
	var req service.RecordPurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	sess := currentSession(c)
	resp, err := h.rewardsService.RecordPurchase(c.Request.Context(), sess.BusinessID, &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record purchase"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":       true,
		"message":       "Purchase recorded successfully",
		"points_earned": resp.PointsEarned,
		"purchase_id":   resp.PurchaseID,
	})
}

// listPurchases returns all purchases for the session's business
func (h *Handler) listPurchases(c *gin.Context) {
	sess := currentSession(c)
	purchases, err := h.rewardsService.ListPurchases(c.Request.Context(), sess.BusinessID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list purchases"})
		return
	}
	c.JSON(http.StatusOK, purchases)
}

// redeemPoints converts points to credit
func (h *Handler) redeemPoints(c *gin.Context) {
	var req service.RedeemPointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	sess := currentSession(c)
	resp, err := h.rewardsService.RedeemPoints(c.Request.Context(), sess.BusinessID, &req)
	if err != nil {
		if errors.Is(err, service.ErrInsufficientPoints) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Insufficient points"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to redeem points"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"message":          "Points redeemed successfully",
		"amount_credited":  resp.AmountCredited,
		"remaining_points": resp.RemainingPoints,
	})
}

// pointsSummary returns the stored totals
func (h *Handler) pointsSummary(c *gin.Context) {
	sess := currentSession(c)
	summary, err := h.rewardsService.GetPointsSummary(c.Request.Context(), sess.BusinessID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load points summary"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// generateStatement creates a trailing-30-day statement
func (h *Handler) generateStatement(c *gin.Context) {
	sess := currentSession(c)
	statement, err := h.rewardsService.GenerateStatement(c.Request.Context(), sess.BusinessID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate statement"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":   true,
		"statement": statement,
	})
}

// listStatements returns all statements for the session's business
func (h *Handler) listStatements(c *gin.Context) {
	sess := currentSession(c)
	statements, err := h.rewardsService.ListStatements(c.Request.Context(), sess.BusinessID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list statements"})
		return
	}
	c.JSON(http.StatusOK, statements)
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
