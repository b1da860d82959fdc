package main

import (
	"github.com/gin-gonic/gin"

	"citizen-portal.backend/internal/domain/entities"
	"citizen-portal.backend/internal/domain/schemas"
	"citizen-portal.backend/internal/interfaces/http/handlers"
	"citizen-portal.backend/internal/interfaces/http/middleware"
)

type routeDeps struct {
	registry           *schemas.Registry
	applicationHandler *handlers.ApplicationHandler
	paymentHandler     *handlers.PaymentHandler
	assistHandler      *handlers.AssistHandler
	staffAuth          gin.HandlerFunc
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	idempotent := middleware.IdempotencyMiddleware()

	// One route family per application type
	for _, family := range d.registry.Families() {
		slug := family.Slug
		v1.POST("/submit-"+slug, idempotent, d.applicationHandler.Submit(slug))

		staff := v1.Group("", d.staffAuth)
		{
			staff.GET("/"+slug+"-fetch", d.applicationHandler.List(slug))
			staff.PUT("/employee_"+slug+"-fetch", d.applicationHandler.UpdateStatus(slug))
			staff.GET("/"+slug+"/:id", d.applicationHandler.Get(slug))
			staff.GET("/"+slug+"/:id/documents/:slot", d.applicationHandler.Document(slug))
		}
	}

	// Payment routes
	v1.POST("/create-payment-session", idempotent, d.paymentHandler.CreateSession(entities.ProductApplication))
	v1.POST("/create-payment-session-ca", idempotent, d.paymentHandler.CreateSession(entities.ProductCA))
	v1.POST("/create-payment-session-lawyer", idempotent, d.paymentHandler.CreateSession(entities.ProductLawyer))
	v1.POST("/success", d.paymentHandler.Verify)
	v1.POST("/lawyer-success", d.paymentHandler.Verify)
	v1.GET("/temp-data/:id", d.paymentHandler.TempData)
	v1.POST("/webhook", d.paymentHandler.Webhook)

	v1.POST("/download", handlers.Download)

	// Writing assistance
	v1.POST("/enhance-text", d.assistHandler.EnhanceText)
	v1.POST("/chat", d.assistHandler.Chat)
}
