package handler

import (
	"embed"
	"encoding/base64"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"upipay/internal/domain"
	"upipay/internal/logger"
	"upipay/internal/service"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses the embedded HTML templates.
func Templates() (*template.Template, error) {
	return template.ParseFS(templateFS, "templates/*.html")
}

// PaymentHandler handles HTTP requests for payment intents.
type PaymentHandler struct {
	paymentService *service.PaymentService
	log            *logger.Logger
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentService *service.PaymentService, log *logger.Logger) *PaymentHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &PaymentHandler{paymentService: paymentService, log: log}
}

// PaymentResponse is the HTTP response for payment intent lookups.
type PaymentResponse struct {
	ID           int64     `json:"id"`
	OrderID      string    `json:"order_id"`
	Amount       string    `json:"amount"`
	Currency     string    `json:"currency"`
	PayeeVPA     string    `json:"payee_vpa"`
	PaymentURI   string    `json:"payment_uri"`
	UTRReference *string   `json:"utr_reference"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

func toPaymentResponse(p *domain.PaymentIntent) PaymentResponse {
	return PaymentResponse{
		ID:           p.ID,
		OrderID:      p.OrderID,
		Amount:       p.Amount.StringFixed(2),
		Currency:     domain.CurrencyINR,
		PayeeVPA:     p.PayeeVPA,
		PaymentURI:   p.PaymentURI,
		UTRReference: p.UTRReference,
		Status:       string(p.Status),
		CreatedAt:    p.CreatedAt,
	}
}

// PaymentPage handles GET /
// Every call issues a new payment intent.
func (h *PaymentHandler) PaymentPage(c *gin.Context) {
	ctx := c.Request.Context()

	intent, err := h.paymentService.CreatePaymentIntent(ctx)
	if err != nil {
		h.log.Error(ctx, "failed to create payment intent", err)
		respondError(c, err)
		return
	}

	// upi:// and data: URLs are built server side; html/template would otherwise blank them.
	var qr template.URL
	if png, err := service.EncodeQR(intent.PaymentURI, service.DefaultQRSize); err != nil {
		h.log.Error(h.log.WithField(ctx, "order_id", intent.OrderID), "failed to render qr code", err)
	} else {
		qr = template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png))
	}

	c.HTML(http.StatusOK, "payment.html", gin.H{
		"OrderID":        intent.OrderID,
		"Amount":         intent.Amount.StringFixed(2),
		"PaymentURI":     template.URL(intent.PaymentURI),
		"PaymentURIText": intent.PaymentURI,
		"QRCode":         qr,
	})
}

// SubmitPayment handles POST /submit-payment
// Both form fields must be present; empty values are accepted. The client is
// redirected to / whether or not the order exists.
func (h *PaymentHandler) SubmitPayment(c *gin.Context) {
	orderID, hasOrderID := c.GetPostForm("order_id")
	utr, hasUTR := c.GetPostForm("utr")

	var missing []string
	if !hasOrderID {
		missing = append(missing, "order_id")
	}
	if !hasUTR {
		missing = append(missing, "utr")
	}
	if len(missing) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "missing form fields",
			"missing": missing,
		})
		return
	}

	if _, err := h.paymentService.SubmitUTR(c.Request.Context(), orderID, utr); err != nil {
		h.log.Error(c.Request.Context(), "failed to submit utr", err)
		respondError(c, err)
		return
	}

	c.Redirect(http.StatusSeeOther, "/")
}

// GetPayment handles GET /v1/payments/:order_id
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	intent, err := h.paymentService.GetPaymentIntent(c.Request.Context(), c.Param("order_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toPaymentResponse(intent))
}

// GetQRCode handles GET /v1/payments/:order_id/qr.png
func (h *PaymentHandler) GetQRCode(c *gin.Context) {
	size := service.DefaultQRSize
	if raw := c.Query("size"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "size must be an integer"})
			return
		}
		size = parsed
	}

	png, err := h.paymentService.QRCode(c.Request.Context(), c.Param("order_id"), size)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}
