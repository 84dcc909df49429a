package model

/* ===================== Enums (string) ===================== */
/* Aligned with the PostgreSQL enums payment_status, payment_method,
   payment_received, checkout_status. */

const (
	PaymentStatusWaiting    = "WAITING"
	PaymentStatusInAnalysis = "IN_ANALYSIS"
	PaymentStatusPaid       = "PAID"
	PaymentStatusDeclined   = "DECLINED"
	PaymentStatusCanceled   = "CANCELED"
	PaymentStatusRefunded   = "REFUNDED"
)

const (
	PaymentMethodPix        = "PIX"
	PaymentMethodCreditCard = "CREDIT_CARD"
	PaymentMethodDebitCard  = "DEBIT_CARD"
	PaymentMethodBoleto     = "BOLETO"
	PaymentMethodCash       = "CASH"
	PaymentMethodOther      = "OTHER"
)

const (
	PaymentReceivedSystem   = "SYSTEM"
	PaymentReceivedExternal = "EXTERNAL"
)

const (
	CheckoutStatusActive   = "ACTIVE"
	CheckoutStatusInactive = "INACTIVE"
	CheckoutStatusExpired  = "EXPIRED"
	CheckoutStatusCanceled = "CANCELED"
)

// ValidPaymentStatus guards manual overrides coming from the admin surface.
func ValidPaymentStatus(s string) bool {
	switch s {
	case PaymentStatusWaiting, PaymentStatusInAnalysis, PaymentStatusPaid,
		PaymentStatusDeclined, PaymentStatusCanceled, PaymentStatusRefunded:
		return true
	default:
		return false
	}
}

func ValidPaymentMethod(s string) bool {
	switch s {
	case PaymentMethodPix, PaymentMethodCreditCard, PaymentMethodDebitCard,
		PaymentMethodBoleto, PaymentMethodCash, PaymentMethodOther:
		return true
	default:
		return false
	}
}
