package dto

import "github.com/numrent/activate/internal/domain/model"

// UserResponse combines the local profile with the wallet balance.
type UserResponse struct {
	TelegramID int64  `json:"telegram_id"`
	Service    string `json:"service"`
	Language   string `json:"language"`
	Money      int64  `json:"money"`
}

// NewUserResponse maps profile and balance onto the wire shape.
func NewUserResponse(u *model.User, money int64) UserResponse {
	return UserResponse{
		TelegramID: u.TelegramID,
		Service:    u.Service,
		Language:   u.Language,
		Money:      money,
	}
}

// CountryResponse is a catalog entry.
type CountryResponse struct {
	ID     int64  `json:"id"`
	NameRu string `json:"name_ru"`
	NameEn string `json:"name_en"`
	Image  string `json:"image"`
}

// NewCountryList maps catalog rows onto the wire shape.
func NewCountryList(countries []model.Country) []CountryResponse {
	out := make([]CountryResponse, 0, len(countries))
	for _, c := range countries {
		out = append(out, CountryResponse{
			ID:     c.OrgID,
			NameRu: c.NameRu,
			NameEn: c.NameEn,
			Image:  c.Image,
		})
	}
	return out
}
