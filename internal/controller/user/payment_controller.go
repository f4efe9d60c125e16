package user

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Learnhub/internal/controller"
	"github.com/lshigami/Learnhub/internal/dto"
	"github.com/lshigami/Learnhub/internal/gateway"
	"github.com/lshigami/Learnhub/internal/middleware"
	"github.com/lshigami/Learnhub/internal/service"
	"github.com/rs/zerolog/log"
)

// maxWebhookBody bounds the webhook payload read into memory.
const maxWebhookBody = 1 << 20

type PaymentController struct {
	checkoutService service.CheckoutService
	webhookService  service.WebhookService
}

func NewPaymentController(cs service.CheckoutService, ws service.WebhookService) *PaymentController {
	return &PaymentController{checkoutService: cs, webhookService: ws}
}

// Checkout godoc
// @Summary Start a course checkout
// @Description Creates a hosted checkout session priced from the course record. Free courses enroll immediately.
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param checkout body dto.CheckoutRequestDTO true "Course to buy"
// @Success 201 {object} dto.CheckoutResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Missing courseId or already enrolled"
// @Failure 401 {object} dto.ErrorResponse "Not authenticated"
// @Failure 404 {object} dto.ErrorResponse "Course not found or inactive"
// @Failure 502 {object} dto.ErrorResponse "Payment provider unavailable"
// @Router /payments/checkout [post]
func (c *PaymentController) Checkout(ctx *gin.Context) {
	var req dto.CheckoutRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.BindError(ctx, err)
		return
	}
	resp, err := c.checkoutService.CreateCheckout(ctx.Request.Context(), middleware.CallerFrom(ctx), req.CourseID)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to create checkout session")
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// Webhook godoc
// @Summary Payment provider webhook
// @Description Verifies the Stripe-Signature header and reconciles the event. Redelivered events are acknowledged without side effects.
// @Tags Payments
// @Accept json
// @Produce json
// @Param Stripe-Signature header string true "t=<unix>,v1=<hex>"
// @Success 200 {object} dto.WebhookAckDTO
// @Failure 400 {object} dto.ErrorResponse "Bad signature or payload"
// @Failure 500 {object} dto.ErrorResponse "Processing failed, provider should retry"
// @Router /payments/webhook [post]
func (c *PaymentController) Webhook(ctx *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(ctx.Request.Body, maxWebhookBody))
	if err != nil {
		log.Warn().Err(err).Msg("Webhook: failed to read body")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}
	ack, err := c.webhookService.HandleEvent(ctx.Request.Context(), payload, ctx.GetHeader(gateway.SignatureHeader))
	if err != nil {
		controller.RespondError(ctx, err, "Webhook processing failed")
		return
	}
	ctx.JSON(http.StatusOK, ack)
}
