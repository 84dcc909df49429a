package gateway

import "time"

/* ===================== Checkout ===================== */

type Phone struct {
	Country string `json:"country"`
	Area    string `json:"area"`
	Number  string `json:"number"`
}

type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	TaxID string `json:"tax_id"`
	Phone Phone  `json:"phone"`
}

type Item struct {
	ReferenceID string `json:"reference_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Quantity    int    `json:"quantity"`
	// UnitAmount is in cents.
	UnitAmount int `json:"unit_amount"`
}

type PaymentMethod struct {
	Type string `json:"type"`
}

type CreateCheckoutRequest struct {
	ReferenceID             string          `json:"reference_id"`
	SoftDescriptor          string          `json:"soft_descriptor,omitempty"`
	ExpirationDate          string          `json:"expiration_date,omitempty"`
	Customer                Customer        `json:"customer"`
	CustomerModifiable      bool            `json:"customer_modifiable"`
	Items                   []Item          `json:"items"`
	DiscountAmount          int             `json:"discount_amount,omitempty"`
	PaymentMethods          []PaymentMethod `json:"payment_methods"`
	NotificationURLs        []string        `json:"notification_urls,omitempty"`
	PaymentNotificationURLs []string        `json:"payment_notification_urls,omitempty"`
	RedirectURL             string          `json:"redirect_url,omitempty"`
	ReturnURL               string          `json:"return_url,omitempty"`
}

type Link struct {
	Rel   string `json:"rel"`
	Href  string `json:"href"`
	Media string `json:"media,omitempty"`
	Type  string `json:"type,omitempty"`
}

type CheckoutResponse struct {
	ID          string `json:"id"`
	ReferenceID string `json:"reference_id"`
	Status      string `json:"status"`
	Links       []Link `json:"links"`
}

// PayLink returns the customer-facing payment URL, empty when absent.
func (r *CheckoutResponse) PayLink() string {
	for _, l := range r.Links {
		if l.Rel == "PAY" {
			return l.Href
		}
	}
	return ""
}

/* ===================== Charges ===================== */

type ChargeHolder struct {
	Name  string `json:"name"`
	TaxID string `json:"tax_id"`
}

type ChargePaymentMethod struct {
	Type   string        `json:"type"`
	Holder *ChargeHolder `json:"holder,omitempty"`
}

type ChargeAmount struct {
	Value    int    `json:"value"`
	Currency string `json:"currency"`
}

type Charge struct {
	ID            string              `json:"id"`
	ReferenceID   string              `json:"reference_id"`
	Status        string              `json:"status"`
	CreatedAt     time.Time           `json:"created_at"`
	PaidAt        *time.Time          `json:"paid_at,omitempty"`
	Description   string              `json:"description,omitempty"`
	Amount        ChargeAmount        `json:"amount"`
	PaymentMethod ChargePaymentMethod `json:"payment_method"`
}

type chargeList struct {
	Charges []Charge `json:"charges"`
}

/* ===================== Errors ===================== */

type apiErrorMessage struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type apiErrorBody struct {
	ErrorMessages []apiErrorMessage `json:"error_messages"`
}
