package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"venuebook/backend"
	"venuebook/models"
	"venuebook/services/booking"
	"venuebook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes the booking flow service over HTTP.
type BookingHandler struct {
	Service booking.FlowService
	Logger  *zap.Logger
}

func NewBookingHandler(service booking.FlowService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Service: service, Logger: logger}
}

// InitiateSession starts a new booking flow for one facility.
func (h *BookingHandler) InitiateSession(c *gin.Context) {
	var input struct {
		FacilityID   int                 `json:"facilityId"`
		CustomerType models.CustomerType `json:"customerType"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	snap, err := h.Service.InitiateSession(c.Request.Context(), c.GetString("authToken"), c.GetString("userID"), input.FacilityID, input.CustomerType)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// GetSession returns the current reconciliation snapshot.
func (h *BookingHandler) GetSession(c *gin.Context) {
	snap, err := h.Service.GetSession(c.Param("sessionID"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// UpdateItems sets the quantity for one room or package.
func (h *BookingHandler) UpdateItems(c *gin.Context) {
	var input struct {
		Type     models.ItemType `json:"type"`
		ItemID   int             `json:"itemId"`
		Quantity int             `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	if input.Type != models.ItemTypeRoom && input.Type != models.ItemTypePackage {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "type must be \"room\" or \"package\"")
		return
	}

	snap, err := h.Service.UpdateItems(c.Param("sessionID"), input.Type, input.ItemID, input.Quantity)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// UpdateDates sets the start and/or end date of the stay.
func (h *BookingHandler) UpdateDates(c *gin.Context) {
	var input struct {
		StartDate string `json:"startDate"`
		EndDate   string `json:"endDate"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	start, err := parseOptionalDate(input.StartDate)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "startDate: "+err.Error())
		return
	}
	end, err := parseOptionalDate(input.EndDate)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "endDate: "+err.Error())
		return
	}

	snap, err := h.Service.UpdateDates(c.Param("sessionID"), start, end)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// SetCustomerType switches the pricing sector for the session.
func (h *BookingHandler) SetCustomerType(c *gin.Context) {
	var input struct {
		CustomerType models.CustomerType `json:"customerType"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	snap, err := h.Service.SetCustomerType(c.Param("sessionID"), input.CustomerType)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// Confirm submits the reservation.
func (h *BookingHandler) Confirm(c *gin.Context) {
	var input struct {
		UserDetails   models.UserDetails `json:"userDetails"`
		PaymentMethod string             `json:"paymentMethod"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	snap, err := h.Service.Confirm(c.Request.Context(), c.Param("sessionID"), input.UserDetails, input.PaymentMethod)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// UploadDocument forwards a reservation document to the backend. The form may
// target either a reservation or a payment; when neither id is given the
// session's own reservation is used.
func (h *BookingHandler) UploadDocument(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "missing document file")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	req := backend.UploadDocumentRequest{
		DocumentType: models.DocumentType(c.PostForm("documentType")),
		FileName:     fileHeader.Filename,
		File:         data,
	}
	if req.ReservationID, err = parseOptionalID(c.PostForm("reservationId")); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "reservationId must be numeric")
		return
	}
	if req.PaymentID, err = parseOptionalID(c.PostForm("paymentId")); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "paymentId must be numeric")
		return
	}

	if err := h.Service.UploadDocument(c.Request.Context(), c.Param("sessionID"), req); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"uploaded": true})
}

// CancelSession abandons the booking flow.
func (h *BookingHandler) CancelSession(c *gin.Context) {
	if err := h.Service.CancelSession(c.Param("sessionID")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cancelled": true})
}

// respondError maps service errors to HTTP status codes.
func (h *BookingHandler) respondError(c *gin.Context, err error) {
	var vErr *booking.ValidationError
	var apiErr *backend.APIError
	var subErr *booking.SubmissionError

	switch {
	case errors.As(err, &vErr):
		utils.JSONError(c, http.StatusBadRequest, "validation failed", vErr.Error())
	case errors.Is(err, booking.ErrSessionNotFound):
		utils.JSONError(c, http.StatusNotFound, "booking session not found or expired", "")
	case errors.Is(err, booking.ErrNotReady), errors.Is(err, booking.ErrAlreadySubmitted):
		utils.JSONError(c, http.StatusConflict, err.Error(), "")
	case errors.As(err, &subErr):
		utils.JSONError(c, http.StatusBadGateway, "reservation submission failed", subErr.Error())
	case errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized:
		utils.JSONError(c, http.StatusUnauthorized, "backend rejected credentials", "")
	default:
		h.Logger.Error("booking flow request failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "internal error", err.Error())
	}
}

// parseOptionalID parses a numeric form value, treating absence as zero.
func parseOptionalID(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

// parseOptionalDate accepts RFC 3339 and the shorter picker formats.
func parseOptionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, errors.New("unrecognized date format")
}
