package handlers

import (
	"log"

	"qwiik/internal/models"
	"qwiik/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CheckoutHandler handles HTTP requests for the checkout wizard and the
// payment gateway's redirect callbacks.
type CheckoutHandler struct {
	checkoutService *services.CheckoutService
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(checkoutService *services.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
	}
}

// RegisterRoutes registers the checkout routes with the Fiber app.
func (h *CheckoutHandler) RegisterRoutes(router fiber.Router) {
	checkoutRoutes := router.Group("/checkout")
	checkoutRoutes.Post("/", h.HandleStartCheckout)
	checkoutRoutes.Get("/:id", h.HandleGetSession)
	checkoutRoutes.Post("/:id/address", h.HandleSubmitAddress)
	checkoutRoutes.Post("/:id/payment", h.HandleCreatePayment)
	checkoutRoutes.Post("/:id/cancel", h.HandleCancelPayment)
}

// RegisterCallbackRoutes registers the gateway redirect endpoints. These live
// outside the API group because the payment provider calls them directly.
func (h *CheckoutHandler) RegisterCallbackRoutes(app fiber.Router) {
	app.Get("/payment/success", h.HandlePaymentSuccess)
}

// HandleStartCheckout opens a checkout session for the current cart.
func (h *CheckoutHandler) HandleStartCheckout(c *fiber.Ctx) error {
	owner, err := cartOwner(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Cart owner could not be determined",
			"error":   err.Error(),
		})
	}

	session, err := h.checkoutService.StartSession(owner)
	if err != nil {
		log.Printf("Error starting checkout for %s: %v", owner.ID, err)
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(session)
}

// HandleGetSession returns the current state of a checkout session.
func (h *CheckoutHandler) HandleGetSession(c *fiber.Ctx) error {
	session, err := h.checkoutService.Session(c.Params("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(session)
}

// SubmitAddressRequest represents the request body for the address step.
type SubmitAddressRequest struct {
	Address       models.Address `json:"address"`
	NotifyChannel string         `json:"notify_channel"`
	NotifyContact string         `json:"notify_contact"`
}

// HandleSubmitAddress validates and records the delivery address, advancing
// the session to the payment step on success.
func (h *CheckoutHandler) HandleSubmitAddress(c *fiber.Ctx) error {
	var req SubmitAddressRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing address request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	session, err := h.checkoutService.SubmitAddress(c.Params("id"), req.Address, req.NotifyChannel, req.NotifyContact)
	if err != nil {
		log.Printf("Error submitting address for checkout %s: %v", c.Params("id"), err)
		return serviceError(c, err)
	}

	return c.JSON(session)
}

// HandleCreatePayment asks the payment collaborator for a hosted session and
// returns its redirect URL.
func (h *CheckoutHandler) HandleCreatePayment(c *fiber.Ctx) error {
	session, err := h.checkoutService.CreatePaymentSession(c.Context(), c.Params("id"))
	if err != nil {
		log.Printf("Error creating payment session for checkout %s: %v", c.Params("id"), err)
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"session_id": session.PaymentSessionID,
		"url":        session.PaymentURL,
		"order_id":   session.OrderID,
	})
}

// HandleCancelPayment steps the session back from payment to the address
// step at the user's request.
func (h *CheckoutHandler) HandleCancelPayment(c *fiber.Ctx) error {
	session, err := h.checkoutService.CancelPayment(c.Params("id"))
	if err != nil {
		log.Printf("Error cancelling payment for checkout %s: %v", c.Params("id"), err)
		return serviceError(c, err)
	}
	return c.JSON(session)
}

// HandlePaymentSuccess is the gateway's success redirect target. It carries
// the provider session id and order id as query parameters; the order is
// completed and the cart cleared only here, after provider confirmation.
func (h *CheckoutHandler) HandlePaymentSuccess(c *fiber.Ctx) error {
	checkoutID := c.Query("checkout_id")
	providerSessionID := c.Query("session_id")
	orderID := c.Query("order_id")

	if providerSessionID == "" || orderID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "session_id and order_id query parameters are required",
		})
	}

	order, err := h.checkoutService.CompleteByProviderSession(checkoutID, providerSessionID, orderID)
	if err != nil {
		log.Printf("Error completing payment for order %s: %v", orderID, err)
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Payment confirmed, thank you for your order",
		"order":   order,
	})
}
