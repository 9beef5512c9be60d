package dto

// Envelope is the uniform reply shape. Business failures travel inside
// it with result=false; HTTP status stays 200 so thin bot clients never
// have to branch on transport errors.
type Envelope struct {
	Result  bool   `json:"result"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// OK wraps a payload in a successful envelope.
func OK(data any) Envelope {
	return Envelope{Result: true, Data: data}
}

// Fail wraps a business rejection.
func Fail(message string) Envelope {
	return Envelope{Result: false, Message: message}
}
