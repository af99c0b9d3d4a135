package main

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SendSMSRequest is the contract the engine's gateway posts.
type SendSMSRequest struct {
	To       string `json:"to" binding:"required"`
	From     string `json:"from"`
	Body     string `json:"body" binding:"required"`
	ClinicID string `json:"clinic_id"`
}

type SendSMSResponse struct {
	MessageID string `json:"message_id"`
	Status    string `json:"status"`
	ErrorMsg  string `json:"error_message,omitempty"`
}

type HealthResponse struct {
	Status       string    `json:"status"`
	ProviderID   string    `json:"provider_id"`
	Timestamp    time.Time `json:"timestamp"`
	DeliveryRate float64   `json:"delivery_rate"`
}

// MockProvider simulates a carrier-grade SMS provider: randomized
// delivery outcomes, latency, and an async delivery-status callback to
// the engine's webhook.
type MockProvider struct {
	deliveryRate float64
	minDelay     time.Duration
	maxDelay     time.Duration
	callbackURL  string
	providerID   string
	rng          *rand.Rand
}

func NewMockProvider(deliveryRate float64, minDelay, maxDelay time.Duration, callbackURL string) *MockProvider {
	return &MockProvider{
		deliveryRate: deliveryRate,
		minDelay:     minDelay,
		maxDelay:     maxDelay,
		callbackURL:  callbackURL,
		providerID:   "MOCK_PROVIDER_" + uuid.New().String()[:8],
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (m *MockProvider) accept(req *SendSMSRequest) *SendSMSResponse {
	resp := &SendSMSResponse{
		MessageID: uuid.New().String(),
		Status:    "sent",
	}

	log.Info().
		Str("message_id", resp.MessageID).
		Str("to", req.To).
		Str("clinic_id", req.ClinicID).
		Msg("SMS accepted")

	// Deliver (or fail) in the background and report back.
	go m.simulateDelivery(resp.MessageID, req)

	return resp
}

func (m *MockProvider) simulateDelivery(messageID string, req *SendSMSRequest) {
	time.Sleep(m.randomDelay())

	status := "delivered"
	if !m.shouldSucceed() {
		status = "undelivered"
	}

	log.Info().
		Str("message_id", messageID).
		Str("to", req.To).
		Str("status", status).
		Msg("delivery simulated")

	if m.callbackURL == "" {
		return
	}

	form := url.Values{}
	form.Set("MessageSid", messageID)
	form.Set("MessageStatus", status)
	form.Set("To", req.To)
	form.Set("From", req.From)

	resp, err := http.PostForm(m.callbackURL, form)
	if err != nil {
		log.Warn().Err(err).Str("message_id", messageID).Msg("status callback failed")
		return
	}
	resp.Body.Close()
}

func (m *MockProvider) randomDelay() time.Duration {
	if m.maxDelay <= m.minDelay {
		return m.minDelay
	}
	delta := m.maxDelay - m.minDelay
	return m.minDelay + time.Duration(m.rng.Int63n(int64(delta)))
}

func (m *MockProvider) shouldSucceed() bool {
	return m.rng.Float64() < m.deliveryRate
}

type Handler struct {
	provider *MockProvider
	apiKey   string
}

func NewHandler(provider *MockProvider, apiKey string) *Handler {
	return &Handler{provider: provider, apiKey: apiKey}
}

func (h *Handler) authorized(c *gin.Context) bool {
	if h.apiKey == "" {
		return true
	}
	auth := c.GetHeader("Authorization")
	return strings.TrimPrefix(auth, "Bearer ") == h.apiKey
}

func (h *Handler) SendSMS(c *gin.Context) {
	if !h.authorized(c) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid api key"})
		return
	}

	var req SendSMSRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, h.provider.accept(&req))
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:       "healthy",
		ProviderID:   h.provider.providerID,
		Timestamp:    time.Now(),
		DeliveryRate: h.provider.deliveryRate,
	})
}

// UpdateConfig allows changing the delivery rate at runtime, for
// demoing failure handling.
func (h *Handler) UpdateConfig(c *gin.Context) {
	var config struct {
		DeliveryRate *float64 `json:"delivery_rate"`
	}

	if err := c.ShouldBindJSON(&config); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	if config.DeliveryRate != nil {
		if *config.DeliveryRate >= 0 && *config.DeliveryRate <= 1.0 {
			h.provider.deliveryRate = *config.DeliveryRate
			log.Info().Float64("rate", *config.DeliveryRate).Msg("Updated delivery rate")
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Configuration updated",
		"delivery_rate": h.provider.deliveryRate,
	})
}

func SetupRouter(handler *Handler) *gin.Engine {
	router := gin.Default()

	router.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)

		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", duration).
			Msg("Request processed")
	})

	v1 := router.Group("/api/v1")
	{
		v1.POST("/sms/send", handler.SendSMS)
		v1.GET("/health", handler.HealthCheck)
		v1.PUT("/config", handler.UpdateConfig)
	}

	router.GET("/health", handler.HealthCheck)

	return router
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	port := getEnv("PORT", "8081")
	apiKey := getEnv("API_KEY", "")
	callbackURL := getEnv("CALLBACK_URL", "")
	deliveryRate := getEnvFloat("DELIVERY_RATE", 1)
	minDelay := getEnvDuration("MIN_DELAY", 500*time.Millisecond)
	maxDelay := getEnvDuration("MAX_DELAY", 3*time.Second)

	log.Info().
		Str("port", port).
		Float64("delivery_rate", deliveryRate).
		Str("callback_url", callbackURL).
		Msg("Starting Mock SMS Provider")

	provider := NewMockProvider(deliveryRate, minDelay, maxDelay, callbackURL)
	handler := NewHandler(provider, apiKey)
	router := SetupRouter(handler)

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		var f float64
		if _, err := fmt.Sscanf(value, "%f", &f); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
