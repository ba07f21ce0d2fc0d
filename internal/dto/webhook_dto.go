package dto

// CheckoutEvent is the payment-provider webhook envelope. Only
// checkout.session.completed is acted on; other event types are acknowledged
// and ignored.
type CheckoutEvent struct {
	ID   string            `json:"id"`
	Type string            `json:"type"`
	Data CheckoutEventData `json:"data"`
}

type CheckoutEventData struct {
	Object CheckoutSession `json:"object"`
}

type CheckoutSession struct {
	ID            string            `json:"id"`
	PaymentIntent string            `json:"payment_intent"`
	AmountTotal   int               `json:"amount_total"`
	Currency      string            `json:"currency"`
	Metadata      map[string]string `json:"metadata"`
}
