package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCheckout(t *testing.T) {
	var gotAuth, gotPath string
	var gotBody CreateCheckoutRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{
			"id": "CHK-123",
			"reference_id": "` + gotBody.ReferenceID + `",
			"status": "ACTIVE",
			"links": [
				{"rel": "SELF", "href": "https://api.example/checkouts/CHK-123"},
				{"rel": "PAY", "href": "https://pay.example/CHK-123"}
			]
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret-token")
	out, err := c.CreateCheckout(context.Background(), &CreateCheckoutRequest{
		ReferenceID: "REF-1",
		Items:       []Item{{ReferenceID: "R1", Name: "Ticket", Quantity: 1, UnitAmount: 10000}},
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer secret-token", gotAuth)
	assert.Equal(t, "/checkouts", gotPath)
	assert.Equal(t, "REF-1", gotBody.ReferenceID)

	assert.Equal(t, "CHK-123", out.ID)
	assert.Equal(t, "https://pay.example/CHK-123", out.PayLink())
}

func TestPayLinkMissing(t *testing.T) {
	r := CheckoutResponse{Links: []Link{{Rel: "SELF", Href: "x"}}}
	assert.Equal(t, "", r.PayLink())
}

func TestListCharges(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/charges", r.URL.Path)
		assert.Equal(t, "REF-1", r.URL.Query().Get("reference_id"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"charges": [
			{"id": "CHAR-1", "reference_id": "REF-1", "status": "PAID",
			 "created_at": "2026-08-01T12:00:00Z",
			 "payment_method": {"type": "PIX"}}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok")
	charges, err := c.ListCharges(context.Background(), "REF-1")
	require.NoError(t, err)
	require.Len(t, charges, 1)
	assert.Equal(t, "CHAR-1", charges[0].ID)
	assert.Equal(t, "PIX", charges[0].PaymentMethod.Type)
}

func TestListChargesNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error_messages": [
			{"code": "resource_not_found", "description": "no charges for reference"}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok")
	_, err := c.ListCharges(context.Background(), "REF-MISSING")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "resource_not_found", apiErr.Code)
}

func TestInactivateCheckout(t *testing.T) {
	var gotPath, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok")
	require.NoError(t, c.InactivateCheckout(context.Background(), "CHK-123"))
	assert.Equal(t, "/checkouts/CHK-123/inactivate", gotPath)
	assert.Equal(t, http.MethodPost, gotMethod)
}

func TestServerErrorKeepsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error_messages": [{"code": "invalid_parameter", "description": "items required"}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok")
	_, err := c.GetCheckout(context.Background(), "CHK-1")
	require.Error(t, err)
	assert.False(t, IsNotFound(err))

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, "invalid_parameter", apiErr.Code)
	assert.Contains(t, apiErr.Body, "items required")
}

func TestNetworkErrorIsBadGateway(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", "tok")
	_, err := c.GetCheckout(context.Background(), "CHK-1")
	require.Error(t, err)
	assert.False(t, IsNotFound(err))
}
