package model

import "encoding/json"

// OrderStatus describes the activation lifecycle. Values follow the
// upstream status numbering so persisted rows read the same as provider
// replies.
type OrderStatus int

const (
	OrderStatusOK        OrderStatus = 2
	OrderStatusWaitRetry OrderStatus = 3
	OrderStatusWaitCode  OrderStatus = 4
	OrderStatusCancel    OrderStatus = 8
	OrderStatusFinish    OrderStatus = 10
)

// Terminal reports whether the status admits no further transitions.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCancel || s == OrderStatusFinish
}

func (s OrderStatus) String() string {
	switch s {
	case OrderStatusOK:
		return "OK"
	case OrderStatusWaitRetry:
		return "WAIT_RETRY"
	case OrderStatusWaitCode:
		return "WAIT_CODE"
	case OrderStatusCancel:
		return "CANCEL"
	case OrderStatusFinish:
		return "FINISH"
	}
	return "UNKNOWN"
}

// Order is a single-use activation purchased from the upstream provider.
// OrgID is the provider's activation id and the external identity of the
// row. PriceStart and PriceFinal are minor currency units frozen at
// creation; PriceFinal is the only amount ever moved on the wallet.
type Order struct {
	ID         int64
	BotID      int64
	UserID     int64
	CountryID  int64
	Service    string
	OrgID      int64
	Phone      string
	Codes      *string
	IsCreated  bool
	Status     OrderStatus
	StartTime  int64
	EndTime    int64
	Operator   *string
	PriceStart int64
	PriceFinal int64
}

// HasCodes reports whether a usable SMS payload was captured. It is the
// branch condition for refund eligibility on cancel.
func (o *Order) HasCodes() bool {
	return o.Codes != nil && *o.Codes != "" && *o.Codes != "[]" && *o.Codes != "[ ]" && *o.Codes != `""`
}

// EncodeCodes serializes a captured SMS code the way rows store it: a
// single-element JSON list.
func EncodeCodes(code string) string {
	raw, _ := json.Marshal([]string{code})
	return string(raw)
}
