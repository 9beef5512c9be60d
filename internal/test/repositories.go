package test

import (
	"context"
	"sync"

	domainErrors "github.com/numrent/activate/internal/domain/errors"
	"github.com/numrent/activate/internal/domain/model"
)

// BotRepositoryStub is an in-memory tenant store.
type BotRepositoryStub struct {
	mu     sync.Mutex
	bots   map[string]*model.Bot
	nextID int64
}

func NewBotRepositoryStub() *BotRepositoryStub {
	return &BotRepositoryStub{bots: make(map[string]*model.Bot)}
}

func (s *BotRepositoryStub) Create(_ context.Context, bot *model.Bot) (*model.Bot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bots[bot.PublicKey]; ok {
		return nil, domainErrors.ErrAlreadyExists
	}
	s.nextID++
	clone := *bot
	clone.ID = s.nextID
	s.bots[bot.PublicKey] = &clone
	out := clone
	return &out, nil
}

func (s *BotRepositoryStub) GetByID(_ context.Context, id int64) (*model.Bot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, bot := range s.bots {
		if bot.ID == id {
			out := *bot
			return &out, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

func (s *BotRepositoryStub) GetByPublicKey(_ context.Context, publicKey string) (*model.Bot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bot, ok := s.bots[publicKey]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	out := *bot
	return &out, nil
}

func (s *BotRepositoryStub) Update(_ context.Context, bot *model.Bot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bots[bot.PublicKey]; !ok {
		return domainErrors.ErrNotFound
	}
	clone := *bot
	s.bots[bot.PublicKey] = &clone
	return nil
}

func (s *BotRepositoryStub) Delete(_ context.Context, publicKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bots[publicKey]; !ok {
		return domainErrors.ErrNotFound
	}
	delete(s.bots, publicKey)
	return nil
}

// UserRepositoryStub is an in-memory end-user store.
type UserRepositoryStub struct {
	mu     sync.Mutex
	users  map[int64]*model.User
	nextID int64
}

func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{users: make(map[int64]*model.User)}
}

func (s *UserRepositoryStub) GetOrCreate(_ context.Context, telegramID int64) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user, ok := s.users[telegramID]; ok {
		out := *user
		return &out, nil
	}
	s.nextID++
	user := &model.User{ID: s.nextID, TelegramID: telegramID}
	s.users[telegramID] = user
	out := *user
	return &out, nil
}

func (s *UserRepositoryStub) GetByTelegramID(_ context.Context, telegramID int64) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[telegramID]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	out := *user
	return &out, nil
}

func (s *UserRepositoryStub) SetService(_ context.Context, telegramID int64, service string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[telegramID]
	if !ok {
		return domainErrors.ErrNotFound
	}
	user.Service = service
	return nil
}

func (s *UserRepositoryStub) SetLanguage(_ context.Context, telegramID int64, language string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[telegramID]
	if !ok {
		return domainErrors.ErrNotFound
	}
	user.Language = language
	return nil
}

// CountryRepositoryStub serves a fixed catalog.
type CountryRepositoryStub struct {
	mu        sync.Mutex
	Catalog   []model.Country
	ImageSets map[int64]string
}

func (s *CountryRepositoryStub) GetByOrgID(_ context.Context, orgID int64) (*model.Country, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.Catalog {
		if c.OrgID == orgID {
			out := c
			return &out, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

func (s *CountryRepositoryStub) List(_ context.Context) ([]model.Country, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Country, len(s.Catalog))
	copy(out, s.Catalog)
	return out, nil
}

func (s *CountryRepositoryStub) Upsert(_ context.Context, country *model.Country) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.Catalog {
		if s.Catalog[i].OrgID == country.OrgID {
			s.Catalog[i].NameRu = country.NameRu
			s.Catalog[i].NameEn = country.NameEn
			return nil
		}
	}
	row := *country
	row.ID = int64(len(s.Catalog) + 1)
	s.Catalog = append(s.Catalog, row)
	return nil
}

func (s *CountryRepositoryStub) UpdateImage(_ context.Context, orgID int64, image string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ImageSets == nil {
		s.ImageSets = make(map[int64]string)
	}
	s.ImageSets[orgID] = image
	for i := range s.Catalog {
		if s.Catalog[i].OrgID == orgID {
			s.Catalog[i].Image = image
			return nil
		}
	}
	return domainErrors.ErrNotFound
}

// OrderRepositoryStub is an in-memory activation order store with the
// same lock-and-mutate contract as the real repository.
type OrderRepositoryStub struct {
	mu     sync.Mutex
	rows   map[int64]*model.Order
	nextID int64
}

func NewOrderRepositoryStub() *OrderRepositoryStub {
	return &OrderRepositoryStub{rows: make(map[int64]*model.Order)}
}

func (s *OrderRepositoryStub) Create(_ context.Context, order *model.Order) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	clone := *order
	clone.ID = s.nextID
	s.rows[clone.OrgID] = &clone
	out := clone
	return &out, nil
}

func (s *OrderRepositoryStub) GetByOrgID(_ context.Context, orgID int64) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[orgID]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	out := *row
	return &out, nil
}

func (s *OrderRepositoryStub) ListByUser(_ context.Context, botID, userID int64) ([]model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Order
	for _, row := range s.rows {
		if row.BotID == botID && row.UserID == userID {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (s *OrderRepositoryStub) Mutate(_ context.Context, orgID int64, fn func(*model.Order) (bool, error)) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[orgID]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	work := *row
	save, err := fn(&work)
	if err != nil {
		return nil, err
	}
	if save {
		*row = work
	}
	out := *row
	return &out, nil
}

func (s *OrderRepositoryStub) ForceCancelWaiting(_ context.Context, orgID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if row, ok := s.rows[orgID]; ok && row.Status == model.OrderStatusWaitCode {
		row.Status = model.OrderStatusCancel
		return true, nil
	}
	return false, nil
}

func (s *OrderRepositoryStub) SelectExpired(_ context.Context, now int64, limit int) ([]model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Order
	for _, row := range s.rows {
		if !row.Status.Terminal() && row.EndTime <= now && len(out) < limit {
			out = append(out, *row)
		}
	}
	return out, nil
}

// RentRepositoryStub mirrors OrderRepositoryStub for rental rows.
type RentRepositoryStub struct {
	mu     sync.Mutex
	rows   map[int64]*model.RentOrder
	nextID int64
}

func NewRentRepositoryStub() *RentRepositoryStub {
	return &RentRepositoryStub{rows: make(map[int64]*model.RentOrder)}
}

func (s *RentRepositoryStub) Create(_ context.Context, rent *model.RentOrder) (*model.RentOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	clone := *rent
	clone.ID = s.nextID
	s.rows[clone.OrgID] = &clone
	out := clone
	return &out, nil
}

func (s *RentRepositoryStub) GetByOrgID(_ context.Context, orgID int64) (*model.RentOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[orgID]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	out := *row
	return &out, nil
}

func (s *RentRepositoryStub) ListByUser(_ context.Context, botID, userID int64) ([]model.RentOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.RentOrder
	for _, row := range s.rows {
		if row.BotID == botID && row.UserID == userID {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (s *RentRepositoryStub) Mutate(_ context.Context, orgID int64, fn func(*model.RentOrder) (bool, error)) (*model.RentOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[orgID]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	work := *row
	save, err := fn(&work)
	if err != nil {
		return nil, err
	}
	if save {
		*row = work
	}
	out := *row
	return &out, nil
}

func (s *RentRepositoryStub) UpdateCodes(_ context.Context, orgID int64, codes string, codesID, codesDate int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[orgID]
	if !ok {
		return domainErrors.ErrNotFound
	}
	row.Codes = &codes
	row.CodesID = &codesID
	row.CodesDate = &codesDate
	return nil
}

func (s *RentRepositoryStub) ExtendEndTime(_ context.Context, orgID int64, endTime int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[orgID]
	if !ok {
		return domainErrors.ErrNotFound
	}
	row.EndTime = endTime
	return nil
}

func (s *RentRepositoryStub) SelectExpired(_ context.Context, now int64, limit int) ([]model.RentOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.RentOrder
	for _, row := range s.rows {
		if !row.Status.Terminal() && row.EndTime <= now && len(out) < limit {
			out = append(out, *row)
		}
	}
	return out, nil
}
