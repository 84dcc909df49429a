package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventku_backend/internals/features/payments/gateway"
	"eventku_backend/internals/features/payments/model"
)

func TestMapChargeStatus(t *testing.T) {
	cases := map[string]string{
		"PAID":        model.PaymentStatusPaid,
		"paid":        model.PaymentStatusPaid,
		"IN_ANALYSIS": model.PaymentStatusInAnalysis,
		"AUTHORIZED":  model.PaymentStatusInAnalysis,
		"DECLINED":    model.PaymentStatusDeclined,
		"CANCELED":    model.PaymentStatusCanceled,
		"REFUNDED":    model.PaymentStatusRefunded,
		"WAITING":     model.PaymentStatusWaiting,
		// unknown values degrade to the pending state
		"SOMETHING_NEW": model.PaymentStatusWaiting,
		"":              model.PaymentStatusWaiting,
	}
	for in, want := range cases {
		assert.Equal(t, want, MapChargeStatus(in), "status %q", in)
	}
}

func TestMapChargeMethod(t *testing.T) {
	cases := map[string]string{
		"PIX":         model.PaymentMethodPix,
		"pix":         model.PaymentMethodPix,
		"CREDIT_CARD": model.PaymentMethodCreditCard,
		"DEBIT_CARD":  model.PaymentMethodDebitCard,
		"BOLETO":      model.PaymentMethodBoleto,
		"CASH":        model.PaymentMethodCash,
		"VOUCHER":     model.PaymentMethodOther,
		"":            model.PaymentMethodOther,
	}
	for in, want := range cases {
		assert.Equal(t, want, MapChargeMethod(in), "method %q", in)
	}
}

func TestMapCheckoutStatus(t *testing.T) {
	cases := map[string]string{
		"ACTIVE":   model.CheckoutStatusActive,
		"CREATED":  model.CheckoutStatusActive,
		"EXPIRED":  model.CheckoutStatusExpired,
		"CANCELED": model.CheckoutStatusCanceled,
		"WHATEVER": model.CheckoutStatusInactive,
	}
	for in, want := range cases {
		assert.Equal(t, want, MapCheckoutStatus(in), "status %q", in)
	}
}

func TestSettlementAllowed(t *testing.T) {
	t.Run("pending payments accept any outcome", func(t *testing.T) {
		for _, current := range []string{
			model.PaymentStatusWaiting,
			model.PaymentStatusInAnalysis,
			model.PaymentStatusDeclined,
			model.PaymentStatusCanceled,
		} {
			assert.True(t, SettlementAllowed(current), "status %q", current)
		}
	})

	t.Run("paid is terminal", func(t *testing.T) {
		// Covers both the duplicate PAID replay and a late WAITING or
		// IN_ANALYSIS notification: once settled nothing automated may
		// write, whatever the incoming status is.
		assert.False(t, SettlementAllowed(model.PaymentStatusPaid))
	})
}

func TestRefundAllowed(t *testing.T) {
	assert.True(t, RefundAllowed(model.PaymentStatusPaid))

	for _, current := range []string{
		model.PaymentStatusWaiting,
		model.PaymentStatusInAnalysis,
		model.PaymentStatusDeclined,
		model.PaymentStatusCanceled,
		// a second refund of the same payment is rejected
		model.PaymentStatusRefunded,
	} {
		assert.False(t, RefundAllowed(current), "status %q", current)
	}
}

func TestManualTransitionAllowed(t *testing.T) {
	t.Run("paid accepts only a refund", func(t *testing.T) {
		assert.True(t, ManualTransitionAllowed(model.PaymentStatusPaid, model.PaymentStatusRefunded))
		assert.False(t, ManualTransitionAllowed(model.PaymentStatusPaid, model.PaymentStatusWaiting))
		assert.False(t, ManualTransitionAllowed(model.PaymentStatusPaid, model.PaymentStatusPaid))
		assert.False(t, ManualTransitionAllowed(model.PaymentStatusPaid, model.PaymentStatusCanceled))
	})

	t.Run("unsettled payments accept any override", func(t *testing.T) {
		for _, current := range []string{
			model.PaymentStatusWaiting,
			model.PaymentStatusInAnalysis,
			model.PaymentStatusDeclined,
		} {
			assert.True(t, ManualTransitionAllowed(current, model.PaymentStatusPaid), "from %q", current)
			assert.True(t, ManualTransitionAllowed(current, model.PaymentStatusCanceled), "from %q", current)
		}
	})
}

func TestSelectCharge(t *testing.T) {
	base := time.Now()

	t.Run("empty list yields nil", func(t *testing.T) {
		assert.Nil(t, SelectCharge(nil))
	})

	t.Run("paid charge wins over newer ones", func(t *testing.T) {
		charges := []gateway.Charge{
			{ID: "C1", Status: "PAID", CreatedAt: base.Add(-2 * time.Hour)},
			{ID: "C2", Status: "DECLINED", CreatedAt: base},
		}
		got := SelectCharge(charges)
		require.NotNil(t, got)
		assert.Equal(t, "C1", got.ID)
	})

	t.Run("without paid the most recent wins", func(t *testing.T) {
		charges := []gateway.Charge{
			{ID: "C1", Status: "DECLINED", CreatedAt: base.Add(-2 * time.Hour)},
			{ID: "C2", Status: "WAITING", CreatedAt: base},
			{ID: "C3", Status: "DECLINED", CreatedAt: base.Add(-time.Hour)},
		}
		got := SelectCharge(charges)
		require.NotNil(t, got)
		assert.Equal(t, "C2", got.ID)
	})
}

func TestChargePayload(t *testing.T) {
	c := &gateway.Charge{
		ID:          "CHAR-1",
		ReferenceID: "REF-1",
		Status:      "PAID",
		CreatedAt:   time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		Amount:      gateway.ChargeAmount{Value: 15000, Currency: "BRL"},
		PaymentMethod: gateway.ChargePaymentMethod{
			Type: "PIX",
		},
	}

	payload := ChargePayload(c)
	assert.Equal(t, "CHAR-1", payload["id"])
	assert.Equal(t, "PAID", payload["status"])

	method, ok := payload["payment_method"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "PIX", method["type"])
}

func TestNewestReference(t *testing.T) {
	base := time.Now()

	t.Run("no checkouts means no reference", func(t *testing.T) {
		p := model.Payment{}
		assert.Equal(t, "", newestReference(&p))
	})

	t.Run("active generation beats newer inactive one", func(t *testing.T) {
		p := model.Payment{Checkouts: []model.PaymentCheckout{
			{PaymentCheckoutReferenceID: "REF-OLD", PaymentCheckoutStatus: model.CheckoutStatusActive, CreatedAt: base.Add(-time.Hour)},
			{PaymentCheckoutReferenceID: "REF-NEW", PaymentCheckoutStatus: model.CheckoutStatusInactive, CreatedAt: base},
		}}
		assert.Equal(t, "REF-OLD", newestReference(&p))
	})

	t.Run("newest row wins within the same state", func(t *testing.T) {
		p := model.Payment{Checkouts: []model.PaymentCheckout{
			{PaymentCheckoutReferenceID: "REF-1", PaymentCheckoutStatus: model.CheckoutStatusInactive, CreatedAt: base.Add(-time.Hour)},
			{PaymentCheckoutReferenceID: "REF-2", PaymentCheckoutStatus: model.CheckoutStatusInactive, CreatedAt: base},
		}}
		assert.Equal(t, "REF-2", newestReference(&p))
	})
}
