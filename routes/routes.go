package routes

import (
	"net/http"

	"venuebook/handlers"
	"venuebook/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Venuebook"})
	})
}

// RegisterBookingRoutes sets up the endpoints for the booking flow.
func RegisterBookingRoutes(r *gin.Engine, bh *handlers.BookingHandler) {
	bookingGroup := r.Group("/api/booking")
	{
		bookingGroup.Use(middleware.JWTAuthMiddleware())
		bookingGroup.POST("/session", bh.InitiateSession)
		bookingGroup.GET("/session/:sessionID", bh.GetSession)
		bookingGroup.PUT("/session/:sessionID/items", bh.UpdateItems)
		bookingGroup.PUT("/session/:sessionID/dates", bh.UpdateDates)
		bookingGroup.PUT("/session/:sessionID/customer-type", bh.SetCustomerType)
		bookingGroup.POST("/session/:sessionID/confirm", bh.Confirm)
		bookingGroup.POST("/session/:sessionID/documents", bh.UploadDocument)
		bookingGroup.DELETE("/session/:sessionID", bh.CancelSession)
	}
}

// RegisterRoutes wires every route group onto the router.
func RegisterRoutes(r *gin.Engine, bh *handlers.BookingHandler) {
	RegisterHealthRoute(r)
	RegisterBookingRoutes(r, bh)
}
