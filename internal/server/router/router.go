package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/oliveraq/internal/server/handlers"
)

// Handlers groups the HTTP adapters mounted by New.
type Handlers struct {
	Auth      *handlers.AuthHandler
	Calc      *handlers.CalcHandler
	Employees *handlers.EmployeeHandler
	Orders    *handlers.OrderHandler
	Stock     *handlers.StockHandler
	Quiz      *handlers.QuizHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.POST("/auth/login", h.Auth.Login)

	secured := api.Group("", h.Auth.RequireSession)
	secured.POST("/auth/logout", h.Auth.Logout)
	secured.POST("/auth/password", h.Auth.ChangePassword)

	secured.POST("/calc/invoice", h.Calc.Invoice)
	secured.POST("/calc/yield", h.Calc.Yield)

	employees := secured.Group("/employees")
	employees.GET("", h.Employees.List)
	employees.POST("", h.Employees.Create)
	employees.GET("/stats", h.Employees.Stats)
	employees.POST("/new", h.Employees.BeginAdd)
	employees.POST("/save", h.Employees.Save)
	employees.GET("/:ref", h.Employees.Get)
	employees.PUT("/:ref", h.Employees.Update)
	employees.DELETE("/:ref", h.Employees.Delete)
	employees.POST("/:ref/select", h.Employees.Select)
	employees.GET("/:ref/attestation", h.Employees.Attestation)

	orders := secured.Group("/orders/:kind")
	orders.GET("", h.Orders.List)
	orders.POST("", h.Orders.Create)
	orders.GET("/stats", h.Orders.Stats)
	orders.POST("/new", h.Orders.BeginAdd)
	orders.POST("/save", h.Orders.Save)
	orders.GET("/:ref", h.Orders.Get)
	orders.PUT("/:ref", h.Orders.Update)
	orders.DELETE("/:ref", h.Orders.Delete)
	orders.POST("/:ref/select", h.Orders.Select)
	orders.GET("/:ref/invoice", h.Orders.Invoice)

	stock := secured.Group("/stock")
	stock.GET("", h.Stock.List)
	stock.POST("", h.Stock.Create)
	stock.GET("/stats", h.Stock.Stats)
	stock.GET("/report", h.Stock.Report)
	stock.POST("/report/publish", h.Stock.Publish)
	stock.GET("/form", h.Stock.FormState)
	stock.POST("/form/new", h.Stock.FormNew)
	stock.POST("/form/edit/:ref", h.Stock.FormEdit)
	stock.POST("/form/type", h.Stock.FormType)
	stock.POST("/form/quantities", h.Stock.FormQuantities)
	stock.POST("/form/fields", h.Stock.FormFields)
	stock.POST("/form/save", h.Stock.FormSave)
	stock.GET("/:ref", h.Stock.Get)
	stock.PUT("/:ref", h.Stock.Update)
	stock.DELETE("/:ref", h.Stock.Delete)

	quiz := secured.Group("/quiz")
	quiz.GET("", h.Quiz.State)
	quiz.POST("/answer", h.Quiz.Answer)
	quiz.POST("/next", h.Quiz.Next)
	quiz.POST("/restart", h.Quiz.Restart)

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
