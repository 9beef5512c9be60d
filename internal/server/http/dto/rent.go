package dto

import "github.com/numrent/activate/internal/domain/model"

// RentResponse is the wire shape of a rental lease.
type RentResponse struct {
	ID        int64    `json:"id"`
	Service   string   `json:"service"`
	Phone     string   `json:"phone"`
	Country   int64    `json:"country"`
	Status    int      `json:"status"`
	Codes     []string `json:"codes"`
	StartTime int64    `json:"start_time"`
	EndTime   int64    `json:"end_time"`
	Price     int64    `json:"price"`
}

// NewRentResponse maps a domain rent onto the wire shape.
func NewRentResponse(r *model.RentOrder) RentResponse {
	return RentResponse{
		ID:        r.OrgID,
		Service:   r.Service,
		Phone:     r.Phone,
		Country:   r.CountryID,
		Status:    int(r.Status),
		Codes:     decodeCodes(r.Codes),
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
		Price:     r.PriceFinal,
	}
}

// NewRentList maps a slice of domain rents.
func NewRentList(rents []model.RentOrder) []RentResponse {
	out := make([]RentResponse, 0, len(rents))
	for i := range rents {
		out = append(out, NewRentResponse(&rents[i]))
	}
	return out
}

// RentCatalogResponse lists services rentable in a country with final
// per-tenant prices.
type RentCatalogResponse struct {
	Countries []int64          `json:"countries"`
	Services  map[string]int64 `json:"services"`
}

// RentWebhookRequest is the payload the upstream pushes when a rental
// number receives an SMS.
type RentWebhookRequest struct {
	RentID int64 `json:"rentId"`
	SMS    struct {
		Text  string `json:"text"`
		Date  string `json:"date"`
		SMSID int64  `json:"smsId"`
	} `json:"sms"`
}
