// Package httpapi exposes the pharmacy ledger over a JSON HTTP API.
package httpapi

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/darfe-e/greenFarmacy/domain"
	"github.com/darfe-e/greenFarmacy/ledger"
)

type Server struct {
	engine *gin.Engine
	ledger *ledger.Manager
	logger *slog.Logger
}

func NewServer(m *ledger.Manager, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	r := gin.New()
	r.Use(requestLogger(logger), gin.Recovery())
	s := &Server{engine: r, ledger: m, logger: logger}
	s.registerRoutes()
	return s
}

func (s *Server) Engine() *gin.Engine { return s.engine }

func (s *Server) registerRoutes() {
	v1 := s.engine.Group("/api/v1")
	{
		pharmacies := v1.Group("/pharmacies")
		pharmacies.POST("", s.createPharmacy)
		pharmacies.GET("", s.listPharmacies)
		pharmacies.GET("/:id", s.getPharmacy)
		pharmacies.DELETE("/:id", s.deletePharmacy)
		pharmacies.GET("/:id/stock", s.getStock)
		pharmacies.POST("/:id/stock", s.addStock)
		pharmacies.POST("/:id/stock/remove", s.removeStock)
		pharmacies.POST("/:id/supplies", s.supply)
		pharmacies.POST("/:id/write-offs", s.writeOff)
		pharmacies.GET("/:id/analogues/:product", s.availableAnalogues)

		products := v1.Group("/products")
		products.POST("", s.createProduct)
		products.GET("", s.listProducts)
		products.GET("/:id", s.getProduct)
		products.PUT("/:id", s.updateProduct)
		products.DELETE("/:id", s.deleteProduct)
		products.GET("/:id/availability", s.availability)
		products.GET("/:id/analogues", s.listAnalogues)
		products.POST("/:id/analogues", s.addAnalogue)
		products.DELETE("/:id/analogues/:analogue", s.removeAnalogue)

		v1.GET("/stock/find", s.findProduct)

		returns := v1.Group("/returns")
		returns.POST("", s.submitReturn)
		returns.GET("", s.listReturns)
		returns.GET("/:id", s.getReturn)
		returns.POST("/:id/approve", s.approveReturn)
		returns.POST("/:id/reject", s.rejectReturn)

		v1.GET("/movements", s.listMovements)
	}
}

func requestLogger(l *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		l.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}

func mapErrorToStatus(err error) int {
	switch {
	case domain.IsInvalidArgumentError(err):
		return http.StatusBadRequest
	case domain.IsNotFoundError(err):
		return http.StatusNotFound
	case domain.IsDuplicateIDError(err),
		domain.IsInsufficientQuantityError(err),
		domain.IsInvalidTransitionError(err),
		domain.IsInUseError(err):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	body := gin.H{"error": err.Error()}
	var iq *domain.InsufficientQuantityError
	if errors.As(err, &iq) {
		body["product_id"] = iq.ProductID
		body["requested"] = iq.Requested
		body["available"] = iq.Available
	}
	c.JSON(mapErrorToStatus(err), body)
}

func badJSON(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
}
