package service

import (
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	eventModel "eventku_backend/internals/features/events/model"
	"eventku_backend/internals/features/payments/model"
	userModel "eventku_backend/internals/features/users/model"
)

func paymentWithCheckout(externalID, status string, createdAt time.Time) model.Payment {
	return model.Payment{
		PaymentID:     uuid.New(),
		PaymentStatus: model.PaymentStatusWaiting,
		Checkouts: []model.PaymentCheckout{{
			PaymentCheckoutCheckoutID: externalID,
			PaymentCheckoutLink:       "https://pay.example/" + externalID,
			PaymentCheckoutStatus:     status,
			CreatedAt:                 createdAt,
		}},
	}
}

func TestEvaluateReuse(t *testing.T) {
	now := time.Now()
	window := time.Hour

	t.Run("single fresh generation is reusable", func(t *testing.T) {
		unpaid := []model.Payment{
			paymentWithCheckout("CHK-1", model.CheckoutStatusActive, now.Add(-10*time.Minute)),
			paymentWithCheckout("CHK-1", model.CheckoutStatusActive, now.Add(-10*time.Minute)),
		}
		d := EvaluateReuse(unpaid, now, window)
		assert.True(t, d.Reusable)
		assert.Equal(t, "CHK-1", d.ExternalID)
		assert.Equal(t, "https://pay.example/CHK-1", d.Link)
		assert.Empty(t, d.InvalidateIDs)
	})

	t.Run("payment without active checkout blocks reuse", func(t *testing.T) {
		unpaid := []model.Payment{
			paymentWithCheckout("CHK-1", model.CheckoutStatusActive, now.Add(-10*time.Minute)),
			{PaymentID: uuid.New(), PaymentStatus: model.PaymentStatusWaiting},
		}
		d := EvaluateReuse(unpaid, now, window)
		assert.False(t, d.Reusable)
		assert.Equal(t, []string{"CHK-1"}, d.InvalidateIDs)
	})

	t.Run("two external ids block reuse and both are superseded", func(t *testing.T) {
		unpaid := []model.Payment{
			paymentWithCheckout("CHK-1", model.CheckoutStatusActive, now.Add(-10*time.Minute)),
			paymentWithCheckout("CHK-2", model.CheckoutStatusActive, now.Add(-5*time.Minute)),
		}
		d := EvaluateReuse(unpaid, now, window)
		assert.False(t, d.Reusable)
		assert.ElementsMatch(t, []string{"CHK-1", "CHK-2"}, d.InvalidateIDs)
	})

	t.Run("stale generation is not reusable", func(t *testing.T) {
		unpaid := []model.Payment{
			paymentWithCheckout("CHK-1", model.CheckoutStatusActive, now.Add(-2*time.Hour)),
		}
		d := EvaluateReuse(unpaid, now, window)
		assert.False(t, d.Reusable)
		assert.Equal(t, []string{"CHK-1"}, d.InvalidateIDs)
	})

	t.Run("oldest row of the generation decides freshness", func(t *testing.T) {
		unpaid := []model.Payment{
			paymentWithCheckout("CHK-1", model.CheckoutStatusActive, now.Add(-90*time.Minute)),
			paymentWithCheckout("CHK-1", model.CheckoutStatusActive, now.Add(-5*time.Minute)),
		}
		d := EvaluateReuse(unpaid, now, window)
		assert.False(t, d.Reusable)
	})

	t.Run("inactive checkouts are ignored", func(t *testing.T) {
		unpaid := []model.Payment{
			paymentWithCheckout("CHK-OLD", model.CheckoutStatusInactive, now.Add(-10*time.Minute)),
		}
		d := EvaluateReuse(unpaid, now, window)
		assert.False(t, d.Reusable)
		assert.Empty(t, d.InvalidateIDs)
	})
}

func TestSplitCellphone(t *testing.T) {
	cases := []struct {
		in     string
		area   string
		number string
		ok     bool
	}{
		{"+55 (11) 98888-7777", "11", "988887777", true},
		{"11988887777", "11", "988887777", true},
		{"5511988887777", "11", "988887777", true},
		{"21 3333-4444", "21", "33334444", true},
		{"1234", "", "", false},
		{"", "", "", false},
	}
	for _, tc := range cases {
		area, number, err := SplitCellphone(tc.in)
		if !tc.ok {
			assert.Error(t, err, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.area, area, tc.in)
		assert.Equal(t, tc.number, number, tc.in)
	}
}

func TestNewCheckoutLineAndCartTotal(t *testing.T) {
	r := eventModel.RoleRegistration{
		RoleID:          uuid.New(),
		RoleDescription: "Staff",
		RolePrice:       200,
	}
	seat := eventModel.EventUserRole{
		Role:     &r,
		Discount: &eventModel.Discount{DiscountPercentage: 0.25},
	}

	line := NewCheckoutLine(&seat)
	assert.Equal(t, r.RoleID, line.RoleID)
	assert.Equal(t, "Staff", line.Description)
	assert.Equal(t, 200, line.Price)
	assert.Equal(t, 0.25, line.Discount)

	assert.Equal(t, 350, CartTotal([]CheckoutLine{line, {Price: 150}}))
	assert.Equal(t, 0, CartTotal(nil))
}

func TestBuildCheckoutRequest(t *testing.T) {
	now := time.Now()
	user := &userModel.User{
		UserID:        uuid.New(),
		UserFullName:  "Maria Silva",
		UserEmail:     "maria@example.com",
		UserCPF:       "12345678901",
		UserCellphone: "+55 11 98888-7777",
	}
	event := &eventModel.Event{
		EventID:   uuid.New(),
		EventName: "Conf 2026",
	}

	t.Run("prices in cents, free lines skipped", func(t *testing.T) {
		lines := []CheckoutLine{
			{RoleID: uuid.New(), Description: "Staff", Price: 200, Discount: 0.5},
			{RoleID: uuid.New(), Description: "Volunteer", Price: 0},
		}
		req, err := BuildCheckoutRequest(user, event, lines, "https://api.example", "https://app.example", now)
		require.NoError(t, err)

		require.Len(t, req.Items, 1)
		assert.Equal(t, 20000, req.Items[0].UnitAmount)
		assert.Equal(t, 1, req.Items[0].Quantity)
		assert.Equal(t, 10000, req.DiscountAmount)

		assert.NotEmpty(t, req.ReferenceID)
		_, err = uuid.Parse(req.ReferenceID)
		assert.NoError(t, err)

		assert.Equal(t, "12345678901", req.Customer.TaxID)
		assert.Equal(t, "55", req.Customer.Phone.Country)
		assert.Equal(t, "11", req.Customer.Phone.Area)
		assert.Equal(t, "988887777", req.Customer.Phone.Number)

		assert.Equal(t, []string{"https://api.example/webhooks/pagbank/payments"}, req.PaymentNotificationURLs)
		assert.Equal(t, []string{"https://api.example/webhooks/pagbank/checkouts"}, req.NotificationURLs)
		assert.Equal(t, "https://app.example/events/"+event.EventID.String(), req.RedirectURL)
		assert.Equal(t, req.RedirectURL, req.ReturnURL)

		exp, err := time.Parse(time.RFC3339, req.ExpirationDate)
		require.NoError(t, err)
		assert.WithinDuration(t, now.Add(time.Hour), exp, time.Second)
	})

	t.Run("two fresh references never collide", func(t *testing.T) {
		lines := []CheckoutLine{{RoleID: uuid.New(), Description: "Staff", Price: 100}}
		a, err := BuildCheckoutRequest(user, event, lines, "https://api.example", "https://app.example", now)
		require.NoError(t, err)
		b, err := BuildCheckoutRequest(user, event, lines, "https://api.example", "https://app.example", now)
		require.NoError(t, err)
		assert.NotEqual(t, a.ReferenceID, b.ReferenceID)
	})

	t.Run("cart of only free lines is rejected", func(t *testing.T) {
		lines := []CheckoutLine{{RoleID: uuid.New(), Price: 0}}
		_, err := BuildCheckoutRequest(user, event, lines, "https://api.example", "https://app.example", now)
		require.Error(t, err)
		fe, ok := err.(*fiber.Error)
		require.True(t, ok)
		assert.Equal(t, fiber.StatusBadRequest, fe.Code)
	})

	t.Run("invalid cellphone is rejected before the gateway", func(t *testing.T) {
		bad := *user
		bad.UserCellphone = "123"
		lines := []CheckoutLine{{RoleID: uuid.New(), Price: 100}}
		_, err := BuildCheckoutRequest(&bad, event, lines, "https://api.example", "https://app.example", now)
		require.Error(t, err)
	})
}
