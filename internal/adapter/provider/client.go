package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Access codes accepted by the upstream setStatus action.
type Access int

const (
	AccessReady      Access = 1
	AccessRetryGet   Access = 3
	AccessActivation Access = 6
	AccessCancel     Access = 8
)

// Rental status codes accepted by setRentStatus.
type RentAccess int

const (
	RentAccessFinish RentAccess = 1
	RentAccessCancel RentAccess = 2
)

// StatusCode is the closed set of upstream activation states reported by
// getStatus. It carries state only; SMS content travels exclusively via
// GetActiveActivations.
type StatusCode int

const (
	StatusWaitCode StatusCode = iota
	StatusWaitRetry
	StatusOK
	StatusCancel
	StatusFinish
)

func (s StatusCode) String() string {
	switch s {
	case StatusWaitCode:
		return "STATUS_WAIT_CODE"
	case StatusWaitRetry:
		return "STATUS_WAIT_RETRY"
	case StatusOK:
		return "STATUS_OK"
	case StatusCancel:
		return "STATUS_CANCEL"
	case StatusFinish:
		return "STATUS_FINISH"
	}
	return "STATUS_UNKNOWN"
}

// Tenant carries the per-tenant upstream credentials threaded through
// every call. BaseURL may be empty, in which case the client default is
// used.
type Tenant struct {
	APIKey  string
	BaseURL string
}

// Reservation is a freshly leased activation number.
type Reservation struct {
	ActivationID int64
	Phone        string
	Cost         float64
	Operator     string
	Service      string
	CreatedAt    time.Time
}

// ActiveActivation is one live activation as reported by the upstream,
// including any received SMS payload.
type ActiveActivation struct {
	ActivationID int64
	ServiceCode  string
	Phone        string
	Cost         float64
	SMSCode      string
	SMSText      string
}

// RentService is a rentable service catalog entry.
type RentService struct {
	Cost       float64
	RetailCost float64
	Total      int
}

// RentCatalog lists rentable countries and services for one country.
type RentCatalog struct {
	Countries []int64
	Services  map[string]RentService
}

// RentPhone is a leased rental number.
type RentPhone struct {
	ID      int64
	Number  string
	EndDate time.Time
}

// CountryInfo is an upstream country catalog entry.
type CountryInfo struct {
	ID     int64
	NameRu string
	NameEn string
}

// Client exposes typed operations over the upstream action API.
type Client interface {
	GetNumber(ctx context.Context, t Tenant, service string, country int64) (*Reservation, error)
	GetMultiServiceNumber(ctx context.Context, t Tenant, services []string, country int64) ([]Reservation, error)
	SetStatus(ctx context.Context, t Tenant, activationID int64, access Access) error
	GetStatus(ctx context.Context, t Tenant, activationID int64) (StatusCode, error)
	GetActiveActivations(ctx context.Context, t Tenant) ([]ActiveActivation, error)
	GetCountries(ctx context.Context, t Tenant) ([]CountryInfo, error)

	GetRentServicesAndCountries(ctx context.Context, t Tenant, country int64, hours int) (*RentCatalog, error)
	GetRentNumber(ctx context.Context, t Tenant, service string, country int64, hours int, webhookURL string) (*RentPhone, error)
	SetRentStatus(ctx context.Context, t Tenant, rentID int64, access RentAccess) error
	GetContinueRentPrice(ctx context.Context, t Tenant, rentID int64, hours int) (float64, error)
	ContinueRentNumber(ctx context.Context, t Tenant, rentID int64, hours int) (*RentPhone, error)
}

// HTTPClient implements Client over the single-endpoint action protocol.
type HTTPClient struct {
	defaultURL *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// NewHTTPClient creates the upstream client with a default endpoint used
// for tenants without their own resource link.
func NewHTTPClient(defaultURL string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(defaultURL)
	if err != nil {
		return nil, fmt.Errorf("parse provider url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("provider url must be absolute")
	}
	return &HTTPClient{
		defaultURL: parsed,
		logger:     logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

func (c *HTTPClient) endpoint(t Tenant) string {
	if t.BaseURL != "" {
		return t.BaseURL
	}
	return c.defaultURL.String()
}

func (c *HTTPClient) do(ctx context.Context, method string, t Tenant, action string, params url.Values) ([]byte, error) {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", t.APIKey)
	params.Set("action", action)

	var req *http.Request
	var err error
	if method == http.MethodGet {
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(t)+"?"+params.Encode(), nil)
	} else {
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(t), strings.NewReader(params.Encode()))
		if req != nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
	}
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Error("provider request failed",
			slog.String("action", action),
			slog.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("provider http status %s", resp.Status)
	}
	return body, nil
}

// payload classifies a raw reply, returning it only when it is not a
// known rejection token.
func payload(raw []byte) ([]byte, error) {
	if perr := classify(raw); perr != nil {
		return nil, perr
	}
	return raw, nil
}

type numberWire struct {
	ActivationID       flexInt64  `json:"activationId"`
	PhoneNumber        flexString `json:"phoneNumber"`
	ActivationCost     flexFloat  `json:"activationCost"`
	ActivationTime     string     `json:"activationTime"`
	ActivationOperator flexString `json:"activationOperator"`
}

// GetNumber reserves a single-service activation number.
func (c *HTTPClient) GetNumber(ctx context.Context, t Tenant, service string, country int64) (*Reservation, error) {
	params := url.Values{
		"service": {service},
		"forward": {"0"},
		"ref":     {"WEB"},
		"country": {strconv.FormatInt(country, 10)},
	}
	raw, err := c.do(ctx, http.MethodPost, t, "getNumberV2", params)
	if err != nil {
		return nil, err
	}
	if raw, err = payload(raw); err != nil {
		return nil, err
	}

	var wire numberWire
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("decode getNumberV2 reply: %w", err)
	}

	createdAt := time.Now()
	if wire.ActivationTime != "" {
		if ts, err := time.Parse("2006-01-02 15:04:05", wire.ActivationTime); err == nil {
			createdAt = ts
		}
	}

	return &Reservation{
		ActivationID: int64(wire.ActivationID),
		Phone:        string(wire.PhoneNumber),
		Cost:         float64(wire.ActivationCost),
		Operator:     string(wire.ActivationOperator),
		Service:      service,
		CreatedAt:    createdAt,
	}, nil
}

// GetMultiServiceNumber reserves one number shared by several services.
// The upstream may return fewer reservations than requested.
func (c *HTTPClient) GetMultiServiceNumber(ctx context.Context, t Tenant, services []string, country int64) ([]Reservation, error) {
	params := url.Values{
		"multiService": {strings.Join(services, ",")},
		"forward":      {"0"},
		"ref":          {"WEB"},
		"country":      {strconv.FormatInt(country, 10)},
	}
	raw, err := c.do(ctx, http.MethodPost, t, "getMultiServiceNumber", params)
	if err != nil {
		return nil, err
	}
	if raw, err = payload(raw); err != nil {
		return nil, err
	}

	var wire []struct {
		Activation flexInt64  `json:"activation"`
		Phone      flexString `json:"phone"`
		Service    flexString `json:"service"`
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("decode getMultiServiceNumber reply: %w", err)
	}

	reservations := make([]Reservation, 0, len(wire))
	for _, w := range wire {
		reservations = append(reservations, Reservation{
			ActivationID: int64(w.Activation),
			Phone:        string(w.Phone),
			Service:      string(w.Service),
			CreatedAt:    time.Now(),
		})
	}
	return reservations, nil
}

// SetStatus pushes an activation state transition upstream.
func (c *HTTPClient) SetStatus(ctx context.Context, t Tenant, activationID int64, access Access) error {
	params := url.Values{
		"id":     {strconv.FormatInt(activationID, 10)},
		"status": {strconv.Itoa(int(access))},
	}
	raw, err := c.do(ctx, http.MethodPost, t, "setStatus", params)
	if err != nil {
		return err
	}
	_, err = payload(raw)
	return err
}

// GetStatus polls the current upstream activation state.
func (c *HTTPClient) GetStatus(ctx context.Context, t Tenant, activationID int64) (StatusCode, error) {
	params := url.Values{"id": {strconv.FormatInt(activationID, 10)}}
	raw, err := c.do(ctx, http.MethodGet, t, "getStatus", params)
	if err != nil {
		return 0, err
	}
	if raw, err = payload(raw); err != nil {
		return 0, err
	}

	token := strings.TrimSpace(string(raw))
	if i := strings.IndexByte(token, ':'); i > 0 {
		token = token[:i]
	}
	switch token {
	case "STATUS_WAIT_CODE":
		return StatusWaitCode, nil
	case "STATUS_WAIT_RETRY", "STATUS_WAIT_RESEND":
		return StatusWaitRetry, nil
	case "STATUS_OK":
		return StatusOK, nil
	case "STATUS_CANCEL":
		return StatusCancel, nil
	case "STATUS_FINISH":
		return StatusFinish, nil
	}
	c.logger.Error("provider returned unknown status", slog.String("token", token))
	return 0, fmt.Errorf("%w: %s", ErrUnexpectedStatus, token)
}

// GetActiveActivations lists live activations with their SMS payloads.
// This is the only call that carries SMS content.
func (c *HTTPClient) GetActiveActivations(ctx context.Context, t Tenant) ([]ActiveActivation, error) {
	raw, err := c.do(ctx, http.MethodGet, t, "getActiveActivations", nil)
	if err != nil {
		return nil, err
	}
	if raw, err = payload(raw); err != nil {
		// An empty activation list is reported as an error token.
		var perr *Error
		if errors.As(err, &perr) && strings.HasPrefix(perr.Raw, "NO_ACTIVATIONS") {
			return nil, nil
		}
		return nil, err
	}

	var wire struct {
		ActiveActivations []struct {
			ActivationID   flexInt64  `json:"activationId"`
			ServiceCode    flexString `json:"serviceCode"`
			PhoneNumber    flexString `json:"phoneNumber"`
			ActivationCost flexFloat  `json:"activationCost"`
			SMSCode        flexString `json:"smsCode"`
			SMSText        flexString `json:"smsText"`
		} `json:"activeActivations"`
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("decode getActiveActivations reply: %w", err)
	}

	activations := make([]ActiveActivation, 0, len(wire.ActiveActivations))
	for _, w := range wire.ActiveActivations {
		activations = append(activations, ActiveActivation{
			ActivationID: int64(w.ActivationID),
			ServiceCode:  string(w.ServiceCode),
			Phone:        string(w.PhoneNumber),
			Cost:         float64(w.ActivationCost),
			SMSCode:      string(w.SMSCode),
			SMSText:      string(w.SMSText),
		})
	}
	return activations, nil
}

// GetCountries fetches the upstream country catalog.
func (c *HTTPClient) GetCountries(ctx context.Context, t Tenant) ([]CountryInfo, error) {
	raw, err := c.do(ctx, http.MethodGet, t, "getCountries", nil)
	if err != nil {
		return nil, err
	}
	if raw, err = payload(raw); err != nil {
		return nil, err
	}

	var wire map[string]struct {
		ID  flexInt64  `json:"id"`
		Rus flexString `json:"rus"`
		Eng flexString `json:"eng"`
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("decode getCountries reply: %w", err)
	}

	countries := make([]CountryInfo, 0, len(wire))
	for _, w := range wire {
		countries = append(countries, CountryInfo{
			ID:     int64(w.ID),
			NameRu: string(w.Rus),
			NameEn: string(w.Eng),
		})
	}
	return countries, nil
}

// GetRentServicesAndCountries fetches the rental catalog for a country.
func (c *HTTPClient) GetRentServicesAndCountries(ctx context.Context, t Tenant, country int64, hours int) (*RentCatalog, error) {
	params := url.Values{
		"country":   {strconv.FormatInt(country, 10)},
		"rent_time": {strconv.Itoa(hours)},
		"operator":  {"any"},
	}
	raw, err := c.do(ctx, http.MethodPost, t, "getRentServicesAndCountries", params)
	if err != nil {
		return nil, err
	}
	if raw, err = payload(raw); err != nil {
		return nil, err
	}

	var wire struct {
		Countries map[string]flexInt64 `json:"countries"`
		Services  map[string]struct {
			Cost       flexFloat `json:"cost"`
			RetailCost flexFloat `json:"retail_cost"`
			Quant      struct {
				Total flexInt64 `json:"total"`
			} `json:"quant"`
		} `json:"services"`
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("decode getRentServicesAndCountries reply: %w", err)
	}

	catalog := &RentCatalog{Services: make(map[string]RentService, len(wire.Services))}
	for _, id := range wire.Countries {
		catalog.Countries = append(catalog.Countries, int64(id))
	}
	for name, svc := range wire.Services {
		catalog.Services[name] = RentService{
			Cost:       float64(svc.Cost),
			RetailCost: float64(svc.RetailCost),
			Total:      int(svc.Quant.Total),
		}
	}
	return catalog, nil
}

type rentPhoneWire struct {
	Phone struct {
		ID      flexInt64  `json:"id"`
		Number  flexString `json:"number"`
		EndDate string     `json:"endDate"`
	} `json:"phone"`
}

func (w rentPhoneWire) toRentPhone() *RentPhone {
	end, err := time.Parse("2006-01-02T15:04:05", w.Phone.EndDate)
	if err != nil {
		end = time.Time{}
	}
	return &RentPhone{
		ID:      int64(w.Phone.ID),
		Number:  string(w.Phone.Number),
		EndDate: end,
	}
}

// GetRentNumber leases a rental number. The webhook URL receives SMS
// payloads for the lease out-of-band.
func (c *HTTPClient) GetRentNumber(ctx context.Context, t Tenant, service string, country int64, hours int, webhookURL string) (*RentPhone, error) {
	params := url.Values{
		"service":   {service},
		"country":   {strconv.FormatInt(country, 10)},
		"rent_time": {strconv.Itoa(hours)},
		"operator":  {"any"},
		"url":       {webhookURL},
	}
	raw, err := c.do(ctx, http.MethodPost, t, "getRentNumber", params)
	if err != nil {
		return nil, err
	}
	if raw, err = payload(raw); err != nil {
		return nil, err
	}

	var wire rentPhoneWire
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("decode getRentNumber reply: %w", err)
	}
	return wire.toRentPhone(), nil
}

// SetRentStatus finishes or cancels a rental lease.
func (c *HTTPClient) SetRentStatus(ctx context.Context, t Tenant, rentID int64, access RentAccess) error {
	params := url.Values{
		"id":     {strconv.FormatInt(rentID, 10)},
		"status": {strconv.Itoa(int(access))},
	}
	raw, err := c.do(ctx, http.MethodPost, t, "setRentStatus", params)
	if err != nil {
		return err
	}
	_, err = payload(raw)
	return err
}

// GetContinueRentPrice quotes extending a rental lease.
func (c *HTTPClient) GetContinueRentPrice(ctx context.Context, t Tenant, rentID int64, hours int) (float64, error) {
	params := url.Values{
		"id":        {strconv.FormatInt(rentID, 10)},
		"rent_time": {strconv.Itoa(hours)},
	}
	raw, err := c.do(ctx, http.MethodPost, t, "getContinueRentPriceNumber", params)
	if err != nil {
		return 0, err
	}
	if raw, err = payload(raw); err != nil {
		return 0, err
	}

	var wire struct {
		Price flexFloat `json:"price"`
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		return 0, fmt.Errorf("decode getContinueRentPriceNumber reply: %w", err)
	}
	return float64(wire.Price), nil
}

// ContinueRentNumber extends a rental lease after payment.
func (c *HTTPClient) ContinueRentNumber(ctx context.Context, t Tenant, rentID int64, hours int) (*RentPhone, error) {
	params := url.Values{
		"id":        {strconv.FormatInt(rentID, 10)},
		"rent_time": {strconv.Itoa(hours)},
	}
	raw, err := c.do(ctx, http.MethodPost, t, "continueRentNumber", params)
	if err != nil {
		return nil, err
	}
	if raw, err = payload(raw); err != nil {
		return nil, err
	}

	var wire rentPhoneWire
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("decode continueRentNumber reply: %w", err)
	}
	return wire.toRentPhone(), nil
}
