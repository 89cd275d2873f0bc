package payments

// Error is a payment-path failure class. Call sites wrap it with detail via
// fmt.Errorf("%w: ...") and callers match it with errors.Is.
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	ErrConfiguration     Error = "payments: configuration missing"
	ErrInvalidInput      Error = "payments: invalid input"
	ErrSignatureInvalid  Error = "payments: webhook signature invalid"
	ErrPersistence       Error = "payments: ledger write failed"
	ErrPromotionLookup   Error = "payments: promotion code lookup failed"
	ErrRefundLinkageMiss Error = "payments: no checkout session for payment intent"
	ErrUnusableOrder     Error = "payments: session does not yield a usable order"
)
