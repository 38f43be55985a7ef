package types

// SuccessEnvelope wraps every successful API payload under a "data" key, so
// clients never branch on the shape of the top-level document.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the client-facing error body: a stable machine code, a message
// safe to show a shopper, and optional structured details (cart rejection
// reasons, the blocking order status).
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope mirrors SuccessEnvelope for failures.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
