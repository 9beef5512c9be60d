package test

import (
	"context"
	"time"

	"github.com/numrent/activate/internal/adapter/provider"
	"github.com/numrent/activate/internal/adapter/wallet"
)

// ProviderClientStub satisfies the upstream client with fixture data.
type ProviderClientStub struct {
	Reservation *provider.Reservation
	Status      provider.StatusCode
	Active      []provider.ActiveActivation
	Catalog     *provider.RentCatalog
	RentPhone   *provider.RentPhone
}

func (s *ProviderClientStub) GetNumber(_ context.Context, _ provider.Tenant, service string, _ int64) (*provider.Reservation, error) {
	if s.Reservation != nil {
		out := *s.Reservation
		return &out, nil
	}
	return &provider.Reservation{ActivationID: 500, Phone: "79001112233", Cost: 1.0, Service: service}, nil
}

func (s *ProviderClientStub) GetMultiServiceNumber(_ context.Context, _ provider.Tenant, services []string, _ int64) ([]provider.Reservation, error) {
	out := make([]provider.Reservation, 0, len(services))
	for i, svc := range services {
		out = append(out, provider.Reservation{ActivationID: 500 + int64(i), Phone: "79001112233", Service: svc})
	}
	return out, nil
}

func (s *ProviderClientStub) SetStatus(_ context.Context, _ provider.Tenant, _ int64, _ provider.Access) error {
	return nil
}

func (s *ProviderClientStub) GetStatus(_ context.Context, _ provider.Tenant, _ int64) (provider.StatusCode, error) {
	return s.Status, nil
}

func (s *ProviderClientStub) GetActiveActivations(_ context.Context, _ provider.Tenant) ([]provider.ActiveActivation, error) {
	return s.Active, nil
}

func (s *ProviderClientStub) GetCountries(_ context.Context, _ provider.Tenant) ([]provider.CountryInfo, error) {
	return []provider.CountryInfo{{ID: 0, NameRu: "Россия", NameEn: "Russia"}}, nil
}

func (s *ProviderClientStub) GetRentServicesAndCountries(_ context.Context, _ provider.Tenant, _ int64, _ int) (*provider.RentCatalog, error) {
	if s.Catalog != nil {
		return s.Catalog, nil
	}
	return &provider.RentCatalog{Countries: []int64{0}, Services: map[string]provider.RentService{"tg": {Cost: 1.0}}}, nil
}

func (s *ProviderClientStub) GetRentNumber(_ context.Context, _ provider.Tenant, _ string, _ int64, _ int, _ string) (*provider.RentPhone, error) {
	if s.RentPhone != nil {
		out := *s.RentPhone
		return &out, nil
	}
	return &provider.RentPhone{ID: 900, Number: "79005556677", EndDate: time.Now().Add(4 * time.Hour)}, nil
}

func (s *ProviderClientStub) SetRentStatus(_ context.Context, _ provider.Tenant, _ int64, _ provider.RentAccess) error {
	return nil
}

func (s *ProviderClientStub) GetContinueRentPrice(_ context.Context, _ provider.Tenant, _ int64, _ int) (float64, error) {
	return 0.5, nil
}

func (s *ProviderClientStub) ContinueRentNumber(_ context.Context, _ provider.Tenant, rentID int64, _ int) (*provider.RentPhone, error) {
	return &provider.RentPhone{ID: rentID, EndDate: time.Now().Add(8 * time.Hour)}, nil
}

// WalletClientStub satisfies the wallet client with fixture data.
type WalletClientStub struct {
	Money int64
}

func (s *WalletClientStub) CheckUser(_ context.Context, telegramID int64, secretKey string, _ wallet.Keys) (*wallet.UserData, error) {
	return &wallet.UserData{TelegramID: telegramID, SecretKey: secretKey, Money: s.Money}, nil
}

func (s *WalletClientStub) GetUser(_ context.Context, telegramID int64, _ wallet.Keys) (*wallet.UserData, error) {
	return &wallet.UserData{TelegramID: telegramID, Money: s.Money}, nil
}

func (s *WalletClientStub) SubtractBalance(_ context.Context, _ wallet.Keys, _ *wallet.UserData, _ int64, _ string) error {
	return nil
}

func (s *WalletClientStub) AddBalance(_ context.Context, _ wallet.Keys, _ *wallet.UserData, _ int64, _ string) error {
	return nil
}

func (s *WalletClientStub) CreateOrder(_ context.Context, _ wallet.Keys, _ *wallet.UserData, _, _ int64, _ string) (*wallet.OrderRef, error) {
	return &wallet.OrderRef{OrderID: 1}, nil
}
