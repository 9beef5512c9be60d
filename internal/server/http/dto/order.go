package dto

import (
	"encoding/json"

	"github.com/numrent/activate/internal/domain/model"
)

// OrderResponse is the wire shape of an activation order. Codes are
// decoded from the stored JSON list; prices are minor currency units.
type OrderResponse struct {
	ID        int64    `json:"id"`
	Service   string   `json:"service"`
	Phone     string   `json:"phone"`
	Country   int64    `json:"country"`
	Status    int      `json:"status"`
	Codes     []string `json:"codes"`
	StartTime int64    `json:"start_time"`
	EndTime   int64    `json:"end_time"`
	Price     int64    `json:"price"`
	Operator  string   `json:"operator,omitempty"`
}

func decodeCodes(raw *string) []string {
	if raw == nil || *raw == "" {
		return []string{}
	}
	var list []string
	if err := json.Unmarshal([]byte(*raw), &list); err != nil {
		return []string{}
	}
	return list
}

// NewOrderResponse maps a domain order onto the wire shape.
func NewOrderResponse(o *model.Order) OrderResponse {
	resp := OrderResponse{
		ID:        o.OrgID,
		Service:   o.Service,
		Phone:     o.Phone,
		Country:   o.CountryID,
		Status:    int(o.Status),
		Codes:     decodeCodes(o.Codes),
		StartTime: o.StartTime,
		EndTime:   o.EndTime,
		Price:     o.PriceFinal,
	}
	if o.Operator != nil {
		resp.Operator = *o.Operator
	}
	return resp
}

// NewOrderList maps a slice of domain orders.
func NewOrderList(orders []model.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, NewOrderResponse(&orders[i]))
	}
	return out
}
