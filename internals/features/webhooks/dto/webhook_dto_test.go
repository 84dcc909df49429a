package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentWebhookShapes(t *testing.T) {
	t.Run("charges array", func(t *testing.T) {
		var w PaymentWebhook
		require.NoError(t, json.Unmarshal([]byte(`{
			"charges": [
				{"id": "C1", "reference_id": "REF-1", "status": "PAID",
				 "created_at": "2026-08-01T12:00:00Z",
				 "payment_method": {"type": "PIX"}}
			]
		}`), &w))

		charges := w.AllCharges()
		require.Len(t, charges, 1)
		assert.Equal(t, "C1", charges[0].ID)
		assert.Equal(t, "REF-1", charges[0].ReferenceID)
	})

	t.Run("flat single charge", func(t *testing.T) {
		var w PaymentWebhook
		require.NoError(t, json.Unmarshal([]byte(`{
			"id": "C2", "reference_id": "REF-2", "status": "DECLINED",
			"created_at": "2026-08-01T12:00:00Z",
			"payment_method": {"type": "CREDIT_CARD"}
		}`), &w))

		charges := w.AllCharges()
		require.Len(t, charges, 1)
		assert.Equal(t, "C2", charges[0].ID)
		assert.Equal(t, "CREDIT_CARD", charges[0].PaymentMethod.Type)
	})

	t.Run("empty body has no charges", func(t *testing.T) {
		var w PaymentWebhook
		require.NoError(t, json.Unmarshal([]byte(`{}`), &w))
		assert.Nil(t, w.AllCharges())
	})
}
