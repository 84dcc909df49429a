package service

import (
	"regexp"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	eventModel "eventku_backend/internals/features/events/model"
	"eventku_backend/internals/features/payments/gateway"
	"eventku_backend/internals/features/payments/model"
	userModel "eventku_backend/internals/features/users/model"
)

/* =======================================================================
   Checkout decision helpers (transaction-independent)
======================================================================= */

// ReuseDecision is the phase-1 verdict over the loaded unpaid payments.
type ReuseDecision struct {
	// Reusable is true when every unpaid payment shares exactly one fresh
	// ACTIVE checkout generation.
	Reusable bool
	// ExternalID/Link identify the reusable generation when Reusable.
	ExternalID string
	Link       string
	// InvalidateIDs are the ACTIVE external checkout ids superseded by a
	// new generation (empty when Reusable).
	InvalidateIDs []string
}

// EvaluateReuse applies the reuse rule: all unpaid payments carry an ACTIVE
// checkout, those checkouts share a single external id, and the oldest row of
// that generation is younger than the freshness window. The caller still has
// to confirm no outside payment references the same external id.
func EvaluateReuse(unpaid []model.Payment, now time.Time, window time.Duration) ReuseDecision {
	var decision ReuseDecision

	allHaveActive := true
	externalIDs := make(map[string]struct{})
	var oldest *model.PaymentCheckout
	var link string

	for i := range unpaid {
		active := unpaid[i].ActiveCheckouts()
		if len(active) == 0 {
			allHaveActive = false
			continue
		}
		for j := range active {
			c := &active[j]
			externalIDs[c.PaymentCheckoutCheckoutID] = struct{}{}
			if oldest == nil || c.CreatedAt.Before(oldest.CreatedAt) {
				oldest = c
			}
			link = c.PaymentCheckoutLink
		}
	}

	for id := range externalIDs {
		decision.InvalidateIDs = append(decision.InvalidateIDs, id)
	}

	if allHaveActive && len(externalIDs) == 1 && oldest != nil && oldest.FresherThan(window, now) {
		decision.Reusable = true
		decision.ExternalID = decision.InvalidateIDs[0]
		decision.Link = link
		decision.InvalidateIDs = nil
	}
	return decision
}

var nonDigits = regexp.MustCompile(`\D`)

// SplitCellphone extracts the area code and local number from a Brazilian
// cellphone, stripping a leading country code when present.
func SplitCellphone(cellphone string) (area, number string, err error) {
	digits := nonDigits.ReplaceAllString(cellphone, "")
	digits = strings.TrimPrefix(digits, "55")
	if len(digits) < 10 {
		return "", "", fiber.NewError(fiber.StatusBadRequest, "Invalid cellphone number")
	}
	return digits[:2], digits[2:], nil
}

// CheckoutLine is one unpaid seat priced for the gateway cart.
type CheckoutLine struct {
	RoleID      uuid.UUID
	Description string
	Price       int
	Discount    float64 // fraction of Price, 0 when no discount applies
}

// NewCheckoutLine prices a seat from its role and optional discount.
func NewCheckoutLine(seat *eventModel.EventUserRole) CheckoutLine {
	line := CheckoutLine{}
	if seat.Role != nil {
		line.RoleID = seat.Role.RoleID
		line.Description = seat.Role.RoleDescription
		line.Price = seat.Role.RolePrice
	}
	if seat.Discount != nil {
		line.Discount = seat.Discount.DiscountPercentage
	}
	return line
}

// CartTotal sums the undiscounted line prices (whole currency units).
func CartTotal(lines []CheckoutLine) int {
	total := 0
	for _, l := range lines {
		total += l.Price
	}
	return total
}

// BuildCheckoutRequest prepares the gateway payload for a new checkout
// generation. The reference id is freshly generated: it is the idempotency
// token correlating gateway charges back to these payments.
func BuildCheckoutRequest(user *userModel.User, event *eventModel.Event, lines []CheckoutLine, backendURL, frontendURL string, now time.Time) (*gateway.CreateCheckoutRequest, error) {
	area, number, err := SplitCellphone(user.UserCellphone)
	if err != nil {
		return nil, err
	}

	var items []gateway.Item
	discountCents := 0
	for _, l := range lines {
		if l.Price <= 0 {
			continue
		}
		items = append(items, gateway.Item{
			ReferenceID: l.RoleID.String(),
			Name:        "Ticket " + event.EventName + " - " + l.Description,
			Description: l.Description,
			Quantity:    1,
			UnitAmount:  l.Price * 100,
		})
		discountCents += int(l.Discount * float64(l.Price) * 100)
	}
	if len(items) == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "No tickets found for payment")
	}

	eventURL := frontendURL + "/events/" + event.EventID.String()
	return &gateway.CreateCheckoutRequest{
		ReferenceID:        uuid.NewString(),
		SoftDescriptor:     event.EventName,
		ExpirationDate:     now.Add(time.Hour).Format(time.RFC3339),
		CustomerModifiable: false,
		Customer: gateway.Customer{
			Name:  user.UserFullName,
			Email: user.UserEmail,
			TaxID: user.UserCPF,
			Phone: gateway.Phone{Country: "55", Area: area, Number: number},
		},
		Items:          items,
		DiscountAmount: discountCents,
		PaymentMethods: []gateway.PaymentMethod{
			{Type: "CREDIT_CARD"},
			{Type: "DEBIT_CARD"},
			{Type: "BOLETO"},
			{Type: "PIX"},
		},
		PaymentNotificationURLs: []string{backendURL + "/webhooks/pagbank/payments"},
		NotificationURLs:        []string{backendURL + "/webhooks/pagbank/checkouts"},
		RedirectURL:             eventURL,
		ReturnURL:               eventURL,
	}, nil
}
