package model

// RentOrder is a time-boxed number lease. It shares the order status
// vocabulary with activations but may collect multiple SMS payloads over
// its lifetime, delivered out-of-band by the provider webhook.
type RentOrder struct {
	ID         int64
	BotID      int64
	UserID     int64
	CountryID  int64
	Service    string
	OrgID      int64
	Phone      string
	Codes      *string
	CodesID    *int64
	CodesDate  *int64
	Status     OrderStatus
	StartTime  int64
	EndTime    int64
	Operator   *string
	PriceStart int64
	PriceFinal int64
}

// HasCodes reports whether the lease received at least one SMS.
func (r *RentOrder) HasCodes() bool {
	return r.Codes != nil && *r.Codes != "" && *r.Codes != "[]" && *r.Codes != "[ ]" && *r.Codes != `""`
}
