package services

import (
	"context"
	"fmt"
	"log"
	"sync"

	"qwiik/internal/models"
	"qwiik/internal/repositories"
	"qwiik/pkg/payment"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Checkout steps. The machine moves strictly forward, except for the
// explicit payment -> address transition on user cancel.
const (
	StepAddress      = "address"
	StepPayment      = "payment"
	StepConfirmation = "confirmation"
)

// PaymentProvider is the external payment collaborator. It owns session
// creation, card entry and the hosted payment page; the checkout service
// only sequences calls to it and interprets outcomes.
type PaymentProvider interface {
	CreateSession(ctx context.Context, req payment.SessionRequest) (*payment.Session, error)
}

// CheckoutSession tracks one pass through the checkout wizard. It is created
// when a user enters checkout with a non-empty cart and discarded on
// completion; re-entering checkout afterwards starts a brand-new session.
type CheckoutSession struct {
	ID            string          `json:"id"`
	Owner         CartOwner       `json:"-"`
	Step          string          `json:"step"`
	Address       models.Address  `json:"address"`
	NotifyChannel string          `json:"notify_channel"`
	NotifyContact string          `json:"notify_contact"`
	Items         []models.CartItem `json:"items"`

	// PaymentSessionID is set once the payment collaborator has confirmed
	// session creation and is immutable for the rest of the attempt.
	PaymentSessionID string `json:"payment_session_id,omitempty"`
	PaymentURL       string `json:"payment_url,omitempty"`
	OrderID          string `json:"order_id,omitempty"`
}

// CheckoutService drives the 3-step checkout wizard: address capture,
// payment and confirmation. It coordinates the cart store, the payment
// collaborator and the order store, and owns the one subtle ordering
// guarantee: the cart is cleared only after the collaborator has confirmed
// order completion.
type CheckoutService struct {
	cart        *CartService
	orderRepo   repositories.OrderRepository
	profileRepo repositories.ProfileRepository
	payments    PaymentProvider
	notifier    *NotificationService
	validate    *validator.Validate
	baseURL     string

	sessions map[string]*CheckoutSession
	mu       sync.Mutex
}

// NewCheckoutService creates a new CheckoutService.
func NewCheckoutService(
	cart *CartService,
	orderRepo repositories.OrderRepository,
	profileRepo repositories.ProfileRepository,
	payments PaymentProvider,
	notifier *NotificationService,
	baseURL string,
) *CheckoutService {
	return &CheckoutService{
		cart:        cart,
		orderRepo:   orderRepo,
		profileRepo: profileRepo,
		payments:    payments,
		notifier:    notifier,
		validate:    validator.New(),
		baseURL:     baseURL,
		sessions:    make(map[string]*CheckoutSession),
	}
}

// StartSession opens a new checkout session for an owner with a non-empty
// cart. A saved delivery address is prefilled for authenticated users.
func (s *CheckoutService) StartSession(owner CartOwner) (*CheckoutSession, error) {
	items, err := s.cart.Items(owner)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	session := &CheckoutSession{
		ID:    uuid.New().String(),
		Owner: owner,
		Step:  StepAddress,
	}

	if owner.Authenticated && s.profileRepo != nil {
		profile, err := s.profileRepo.Get(owner.ID)
		if err != nil {
			log.Printf("Failed to load profile for checkout prefill: %v", err)
		} else if profile != nil {
			session.Address = profile.Address
		}
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	return copySession(session), nil
}

// Session returns a snapshot of an existing checkout session.
func (s *CheckoutService) Session(sessionID string) (*CheckoutSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: checkout session %s", ErrNotFound, sessionID)
	}
	return copySession(session), nil
}

// SubmitAddress validates the delivery address and notification preference
// and, on success, advances the session to the payment step. On validation
// failure a field-level error is returned and the step does not advance.
// The address is persisted to the profile so a later visit can prefill it,
// and the cart is snapshotted into line items for the payment collaborator.
func (s *CheckoutService) SubmitAddress(sessionID string, address models.Address, notifyChannel, notifyContact string) (*CheckoutSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: checkout session %s", ErrNotFound, sessionID)
	}
	if session.Step != StepAddress {
		return nil, fmt.Errorf("%w: cannot submit address at step %s", ErrInvalidTransition, session.Step)
	}

	if verr := s.validateAddress(address, notifyChannel, notifyContact); verr != nil {
		return nil, verr
	}

	// Snapshot the cart for the payment collaborator: product id, name,
	// image, unit price and quantity at this moment.
	items, err := s.cart.Items(session.Owner)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		delete(s.sessions, sessionID)
		return nil, ErrEmptyCart
	}

	session.Address = address
	session.NotifyChannel = notifyChannel
	session.NotifyContact = notifyContact
	session.Items = items
	session.Step = StepPayment

	if session.Owner.Authenticated && s.profileRepo != nil {
		profile := &models.Profile{UserID: session.Owner.ID, Address: address}
		if err := s.profileRepo.Save(profile); err != nil {
			// Prefill is a convenience; a failed save must not block checkout.
			log.Printf("Failed to save delivery address for prefill: %v", err)
		}
	}

	return copySession(session), nil
}

// CreatePaymentSession asks the payment collaborator for a hosted session
// covering the snapshotted line items and persists a pending order tied to
// it, so the success redirect can carry the order id. Calling it again for
// the same checkout session returns the already-confirmed payment session
// unchanged.
func (s *CheckoutService) CreatePaymentSession(ctx context.Context, sessionID string) (*CheckoutSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: checkout session %s", ErrNotFound, sessionID)
	}
	if session.Step != StepPayment {
		return nil, fmt.Errorf("%w: cannot create payment session at step %s", ErrInvalidTransition, session.Step)
	}
	if session.PaymentSessionID != "" {
		// Immutable once set; hand back the confirmed session.
		return copySession(session), nil
	}

	order := buildOrder(session)

	req := payment.SessionRequest{
		LineItems:  toLineItems(session.Items),
		SuccessURL: fmt.Sprintf("%s/payment/success?order_id=%s&checkout_id=%s&session_id={CHECKOUT_SESSION_ID}", s.baseURL, order.ID, session.ID),
		CancelURL:  fmt.Sprintf("%s/checkout/cancel?checkout_id=%s", s.baseURL, session.ID),
		Metadata: map[string]string{
			"order_id":    order.ID,
			"checkout_id": session.ID,
			"city":        session.Address.City,
			"street":      session.Address.Street,
			"postal_code": session.Address.PostalCode,
		},
	}

	providerSession, err := s.payments.CreateSession(ctx, req)
	if err != nil {
		// No order is persisted for a failed attempt; a retry starts fresh.
		return nil, fmt.Errorf("%w: %v", ErrPaymentSession, err)
	}

	// Persist the pending order with the provider session recorded, so the
	// success redirect can be reconciled against it.
	order.PaymentSessionID = providerSession.SessionID
	if err := s.orderRepo.Create(order); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	session.PaymentSessionID = providerSession.SessionID
	session.PaymentURL = providerSession.URL
	session.OrderID = order.ID

	return copySession(session), nil
}

// CancelPayment steps the session back from payment to address capture and
// cancels the pending order, if one was created. The next payment attempt
// gets a fresh order and provider session.
func (s *CheckoutService) CancelPayment(sessionID string) (*CheckoutSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: checkout session %s", ErrNotFound, sessionID)
	}
	if session.Step != StepPayment {
		return nil, fmt.Errorf("%w: cannot cancel payment at step %s", ErrInvalidTransition, session.Step)
	}

	if session.OrderID != "" {
		if err := s.orderRepo.UpdateStatus(session.OrderID, models.OrderStatusCancelled); err != nil {
			log.Printf("Failed to cancel order %s: %v", session.OrderID, err)
		}
	}

	session.Step = StepAddress
	session.PaymentSessionID = ""
	session.PaymentURL = ""
	session.OrderID = ""
	session.Items = nil

	return copySession(session), nil
}

// CompletePayment handles the provider's success confirmation. The order is
// marked completed first; only then is the cart cleared — a premature clear
// would lose the user's lines if payment actually failed. The confirmation
// notification is fire-and-forget. The session ends at the confirmation
// step and is discarded.
func (s *CheckoutService) CompletePayment(sessionID, providerSessionID string) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: checkout session %s", ErrNotFound, sessionID)
	}
	if session.Step != StepPayment {
		return nil, fmt.Errorf("%w: cannot complete payment at step %s", ErrInvalidTransition, session.Step)
	}
	if session.PaymentSessionID == "" || session.PaymentSessionID != providerSessionID {
		return nil, fmt.Errorf("%w: provider session %s does not match", ErrPaymentSession, providerSessionID)
	}

	if err := s.orderRepo.UpdateStatus(session.OrderID, models.OrderStatusCompleted); err != nil {
		// Completion failed: the cart stays intact and the user can retry.
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if err := s.cart.Clear(session.Owner); err != nil {
		// The order is already completed; log and carry on.
		log.Printf("Failed to clear cart after order %s completed: %v", session.OrderID, err)
	}

	order, err := s.orderRepo.GetByID(session.OrderID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if s.notifier != nil {
		s.notifier.SendOrderConfirmation(order, session.NotifyChannel, session.NotifyContact)
	}

	session.Step = StepConfirmation
	delete(s.sessions, sessionID)

	return order, nil
}

// CompleteByProviderSession resolves the checkout session behind a success
// redirect and completes it. The gateway sends back the provider session id
// and the order id; the checkout id is looked up from the provider session
// when the redirect did not carry it.
func (s *CheckoutService) CompleteByProviderSession(checkoutID, providerSessionID, orderID string) (*models.Order, error) {
	s.mu.Lock()
	if checkoutID == "" {
		for id, session := range s.sessions {
			if session.PaymentSessionID == providerSessionID {
				checkoutID = id
				break
			}
		}
	}
	session, ok := s.sessions[checkoutID]
	if !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: no checkout session for payment session %s", ErrNotFound, providerSessionID)
	}
	if orderID != "" && session.OrderID != orderID {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: order %s does not belong to this checkout", ErrPaymentSession, orderID)
	}
	s.mu.Unlock()

	return s.CompletePayment(checkoutID, providerSessionID)
}

// validateAddress checks the delivery address and the notification contact
// against the chosen channel, collecting field-level errors.
func (s *CheckoutService) validateAddress(address models.Address, notifyChannel, notifyContact string) error {
	fields := make(map[string]string)

	if err := s.validate.Struct(address); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			for _, e := range validationErrors {
				fields[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
			}
		} else {
			fields["Address"] = err.Error()
		}
	}

	switch notifyChannel {
	case models.NotifyChannelEmail:
		if err := s.validate.Var(notifyContact, "required,email"); err != nil {
			fields["NotifyContact"] = "a valid email address is required"
		}
	case models.NotifyChannelSMS:
		if err := s.validate.Var(notifyContact, "required,min=6"); err != nil {
			fields["NotifyContact"] = "a valid phone number is required"
		}
	default:
		fields["NotifyChannel"] = "notification channel must be email or sms"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func buildOrder(session *CheckoutSession) *models.Order {
	order := &models.Order{
		ID:              uuid.New().String(),
		UserID:          session.Owner.ID,
		Status:          models.OrderStatusPending,
		DeliveryAddress: session.Address,
		NotifyChannel:   session.NotifyChannel,
		NotifyContact:   session.NotifyContact,
	}
	for _, item := range session.Items {
		order.Items = append(order.Items, models.OrderItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.UnitPrice,
		})
		order.TotalAmount = order.TotalAmount.Add(item.Subtotal())
	}
	return order
}

func toLineItems(items []models.CartItem) []payment.LineItem {
	lineItems := make([]payment.LineItem, 0, len(items))
	for _, item := range items {
		lineItems = append(lineItems, payment.LineItem{
			Name:       item.ProductName,
			Image:      item.Image,
			UnitAmount: item.UnitPrice.Shift(2).Round(0).IntPart(), // minor units
			Quantity:   item.Quantity,
		})
	}
	return lineItems
}

func copySession(session *CheckoutSession) *CheckoutSession {
	clone := *session
	clone.Items = append([]models.CartItem(nil), session.Items...)
	return &clone
}
