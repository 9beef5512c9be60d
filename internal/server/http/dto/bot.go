package dto

import "github.com/numrent/activate/internal/domain/model"

// BotRequest carries tenant settings for create and update.
type BotRequest struct {
	PublicKey    string `json:"public_key" binding:"required"`
	PrivateKey   string `json:"private_key"`
	APIKey       string `json:"api_key"`
	ResourceLink string `json:"resource_link"`
	Percent      int    `json:"percent"`
	CategoryID   int64  `json:"category_id"`
	Black        string `json:"black"`
	Retail       bool   `json:"retail"`
}

// Model converts the request into a domain tenant.
func (r BotRequest) Model() *model.Bot {
	bot := &model.Bot{
		PublicKey:    r.PublicKey,
		PrivateKey:   r.PrivateKey,
		APIKey:       r.APIKey,
		ResourceLink: r.ResourceLink,
		Percent:      r.Percent,
		CategoryID:   r.CategoryID,
		Retail:       r.Retail,
	}
	if r.Black != "" {
		black := r.Black
		bot.Black = &black
	}
	return bot
}

// BotResponse is the wire shape of tenant settings. The private key is
// never echoed back.
type BotResponse struct {
	ID           int64  `json:"id"`
	PublicKey    string `json:"public_key"`
	APIKey       string `json:"api_key"`
	ResourceLink string `json:"resource_link"`
	Percent      int    `json:"percent"`
	CategoryID   int64  `json:"category_id"`
	Black        string `json:"black"`
	Retail       bool   `json:"retail"`
}

// NewBotResponse maps a domain tenant onto the wire shape.
func NewBotResponse(b *model.Bot) BotResponse {
	resp := BotResponse{
		ID:           b.ID,
		PublicKey:    b.PublicKey,
		APIKey:       b.APIKey,
		ResourceLink: b.ResourceLink,
		Percent:      b.Percent,
		CategoryID:   b.CategoryID,
		Retail:       b.Retail,
	}
	if b.Black != nil {
		resp.Black = *b.Black
	}
	return resp
}

// AdminLoginRequest carries the operator password.
type AdminLoginRequest struct {
	Password string `json:"password" binding:"required"`
}

// AdminLoginResponse returns the issued session token.
type AdminLoginResponse struct {
	Token string `json:"token"`
}
