package handlers

import (
	"errors"

	"qwiik/internal/services"

	"github.com/gofiber/fiber/v2"
)

// guestIDHeader identifies the device-scoped guest cart when no account is
// authenticated.
const guestIDHeader = "X-Guest-ID"

// cartOwner resolves whose cart a request targets: the authenticated account
// when a valid token was presented, otherwise the guest device id header.
func cartOwner(c *fiber.Ctx) (services.CartOwner, error) {
	if userID, ok := c.Locals("user_id").(string); ok && userID != "" {
		return services.AccountOwner(userID), nil
	}
	if guestID := c.Get(guestIDHeader); guestID != "" {
		return services.GuestOwner(guestID), nil
	}
	return services.CartOwner{}, errors.New("no account token or " + guestIDHeader + " header present")
}

// serviceError converts a service error into the matching HTTP response.
func serviceError(c *fiber.Ctx, err error) error {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  verr.Fields,
		})
	}

	switch {
	case errors.Is(err, services.ErrInvalidQuantity),
		errors.Is(err, services.ErrEmptyCart),
		errors.Is(err, services.ErrInvalidTransition):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": err.Error(),
		})
	case errors.Is(err, services.ErrAuthenticationRequired):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Please log in to continue",
			"error":   err.Error(),
		})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": err.Error(),
		})
	case errors.Is(err, services.ErrPaymentSession):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"message": "Payment could not be processed, please try again",
			"error":   err.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Something went wrong, please try again",
			"error":   err.Error(),
		})
	}
}
