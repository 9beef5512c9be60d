package router

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/numrent/activate/internal/server/http/handlers"
	"github.com/numrent/activate/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware. Client
// actions live behind tenant auth; the webhook and operator console
// have their own schemes.
func Setup(facade handlers.BrokerFacade, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	orderHandler := handlers.NewOrderHandler(facade)
	rentHandler := handlers.NewRentHandler(facade)
	userHandler := handlers.NewUserHandler(facade, facade)
	adminHandler := handlers.NewAdminHandler(facade, facade, facade)

	api := engine.Group("/api")
	api.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
	api.POST("/admin/login", adminHandler.Login)
	api.POST("/rent/updateSmsRent", rentHandler.Webhook)

	client := api.Group("")
	client.Use(middleware.TenantAuth(facade))
	client.GET("/createOrder", orderHandler.Create)
	client.GET("/createMulti", orderHandler.CreateMulti)
	client.GET("/getOrder", orderHandler.Get)
	client.GET("/orders", orderHandler.List)
	client.GET("/closeOrder", orderHandler.Close)
	client.GET("/confirmOrder", orderHandler.Confirm)
	client.GET("/secondSms", orderHandler.Second)
	client.GET("/getCountries", userHandler.Countries)
	client.GET("/getUser", userHandler.Get)
	client.GET("/setService", userHandler.SetService)
	client.GET("/setLanguage", userHandler.SetLanguage)

	rent := client.Group("/rent")
	rent.GET("/services", rentHandler.Catalog)
	rent.GET("/create", rentHandler.Create)
	rent.GET("/get", rentHandler.Get)
	rent.GET("/list", rentHandler.List)
	rent.GET("/close", rentHandler.Close)
	rent.GET("/confirm", rentHandler.Confirm)
	rent.GET("/continuePrice", rentHandler.ContinuePrice)
	rent.GET("/continue", rentHandler.Continue)

	admin := api.Group("/admin")
	admin.Use(middleware.AdminRequired(facade))
	admin.POST("/bot", adminHandler.CreateBot)
	admin.GET("/bot/:publicKey", adminHandler.GetBot)
	admin.PUT("/bot", adminHandler.UpdateBot)
	admin.DELETE("/bot/:publicKey", adminHandler.DeleteBot)
	admin.POST("/syncCountries", adminHandler.SyncCountries)
	admin.POST("/updateFlags", adminHandler.UpdateFlags)
	admin.POST("/country/image", adminHandler.SetCountryImage)

	return engine
}
