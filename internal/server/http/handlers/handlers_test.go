package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/numrent/activate/internal/adapter/wallet"
	domainErrors "github.com/numrent/activate/internal/domain/errors"
	"github.com/numrent/activate/internal/domain/model"
	"github.com/numrent/activate/internal/server/http/dto"
	"github.com/numrent/activate/internal/server/http/middleware"
	testhelpers "github.com/numrent/activate/internal/test"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func withIdentity(c *gin.Context) {
	c.Set(middleware.BotContextKey, testhelpers.DefaultBot())
	c.Set(middleware.WalletUserContextKey, testhelpers.DefaultWalletUser())
}

func performRequest(t *testing.T, method, path, target string, handler gin.HandlerFunc, setup func(*gin.Context), body []byte) *httptest.ResponseRecorder {
	t.Helper()
	router := gin.New()
	router.Handle(method, path, func(c *gin.Context) {
		if setup != nil {
			setup(c)
		}
		handler(c)
	})

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, resp *httptest.ResponseRecorder) dto.Envelope {
	t.Helper()
	var env dto.Envelope
	if err := json.Unmarshal(resp.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (%s)", err, resp.Body.String())
	}
	return env
}

func decodeData(t *testing.T, env dto.Envelope, out any) {
	t.Helper()
	raw, err := json.Marshal(env.Data)
	if err != nil {
		t.Fatalf("remarshal data: %v", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		t.Fatalf("decode data: %v", err)
	}
}

func TestCurrentBotAndUser(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if CurrentBot(c) != nil || CurrentUser(c) != nil {
		t.Fatal("expected nil identity on empty context")
	}
	withIdentity(c)
	if CurrentBot(c).PublicKey != "pub" || CurrentUser(c).TelegramID != 42 {
		t.Fatal("unexpected identity")
	}
}

func TestOrderCreate(t *testing.T) {
	handler := NewOrderHandler(&testhelpers.BrokerFacadeStub{})
	resp := performRequest(t, http.MethodGet, "/createOrder", "/createOrder?service=tg&country=0", handler.Create, withIdentity, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	env := decodeEnvelope(t, resp)
	if !env.Result {
		t.Fatalf("expected success, got %q", env.Message)
	}
	var order dto.OrderResponse
	decodeData(t, env, &order)
	if order.ID != 500 || order.Service != "tg" || order.Price != 110 {
		t.Fatalf("unexpected order payload: %+v", order)
	}
}

func TestOrderCreateRequiresService(t *testing.T) {
	handler := NewOrderHandler(&testhelpers.BrokerFacadeStub{})
	resp := performRequest(t, http.MethodGet, "/createOrder", "/createOrder", handler.Create, withIdentity, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if env := decodeEnvelope(t, resp); env.Result {
		t.Fatal("expected business failure")
	}
}

func TestOrderCreateInsufficientFunds(t *testing.T) {
	stub := &testhelpers.BrokerFacadeStub{
		CreateOrderFn: func(context.Context, *model.Bot, *wallet.UserData, string, int64) (*model.Order, error) {
			return nil, domainErrors.ErrInsufficientFunds
		},
	}
	handler := NewOrderHandler(stub)
	resp := performRequest(t, http.MethodGet, "/createOrder", "/createOrder?service=tg", handler.Create, withIdentity, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("business failure must stay 200, got %d", resp.Code)
	}
	env := decodeEnvelope(t, resp)
	if env.Result || env.Message != "insufficient funds" {
		t.Fatalf("unexpected envelope: %+v", env)
	}
}

func TestOrderCreateInfrastructureFault(t *testing.T) {
	stub := &testhelpers.BrokerFacadeStub{
		CreateOrderFn: func(context.Context, *model.Bot, *wallet.UserData, string, int64) (*model.Order, error) {
			return nil, io.ErrUnexpectedEOF
		},
	}
	handler := NewOrderHandler(stub)
	resp := performRequest(t, http.MethodGet, "/createOrder", "/createOrder?service=tg", handler.Create, withIdentity, nil)
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
}

func TestOrderGetRequiresID(t *testing.T) {
	handler := NewOrderHandler(&testhelpers.BrokerFacadeStub{})
	resp := performRequest(t, http.MethodGet, "/getOrder", "/getOrder", handler.Get, withIdentity, nil)
	if env := decodeEnvelope(t, resp); env.Result {
		t.Fatal("expected business failure without id")
	}
}

func TestOrderGetPollsUpstream(t *testing.T) {
	var polled int64
	stub := &testhelpers.BrokerFacadeStub{
		PollOrderFn: func(_ context.Context, _ *model.Bot, _ *wallet.UserData, orgID int64) (*model.Order, error) {
			polled = orgID
			order := testhelpers.DefaultOrder()
			order.OrgID = orgID
			codes := model.EncodeCodes("482913")
			order.Codes = &codes
			order.Status = model.OrderStatusOK
			return order, nil
		},
	}
	handler := NewOrderHandler(stub)
	resp := performRequest(t, http.MethodGet, "/getOrder", "/getOrder?id=500", handler.Get, withIdentity, nil)
	if polled != 500 {
		t.Fatalf("expected poll of 500, got %d", polled)
	}
	var order dto.OrderResponse
	decodeData(t, decodeEnvelope(t, resp), &order)
	if order.ID != 500 || len(order.Codes) != 1 || order.Codes[0] != "482913" {
		t.Fatalf("unexpected order payload: %+v", order)
	}
	if order.Status != int(model.OrderStatusOK) {
		t.Fatalf("unexpected status: %d", order.Status)
	}
}

func TestOrderCreateMultiParsesServices(t *testing.T) {
	var got []string
	stub := &testhelpers.BrokerFacadeStub{
		CreateMultiFn: func(_ context.Context, _ *model.Bot, _ *wallet.UserData, services []string, _ int64) ([]model.Order, error) {
			got = services
			return []model.Order{*testhelpers.DefaultOrder()}, nil
		},
	}
	handler := NewOrderHandler(stub)
	resp := performRequest(t, http.MethodGet, "/createMulti", "/createMulti?services=tg,%20wa,", handler.CreateMulti, withIdentity, nil)
	if env := decodeEnvelope(t, resp); !env.Result {
		t.Fatalf("expected success, got %q", env.Message)
	}
	if len(got) != 2 || got[0] != "tg" || got[1] != "wa" {
		t.Fatalf("unexpected services: %v", got)
	}
}

func TestOrderCreateMultiRequiresServices(t *testing.T) {
	handler := NewOrderHandler(&testhelpers.BrokerFacadeStub{})
	resp := performRequest(t, http.MethodGet, "/createMulti", "/createMulti?services=,%20,", handler.CreateMulti, withIdentity, nil)
	if env := decodeEnvelope(t, resp); env.Result {
		t.Fatal("expected business failure")
	}
}

func TestOrderClose(t *testing.T) {
	var closed int64
	stub := &testhelpers.BrokerFacadeStub{
		CloseOrderFn: func(_ context.Context, _ *model.Bot, _ *wallet.UserData, orgID int64) (*model.Order, error) {
			closed = orgID
			order := testhelpers.DefaultOrder()
			order.OrgID = orgID
			order.Status = model.OrderStatusCancel
			return order, nil
		},
	}
	handler := NewOrderHandler(stub)
	resp := performRequest(t, http.MethodGet, "/closeOrder", "/closeOrder?id=500", handler.Close, withIdentity, nil)
	if closed != 500 {
		t.Fatalf("expected close of 500, got %d", closed)
	}
	var order dto.OrderResponse
	decodeData(t, decodeEnvelope(t, resp), &order)
	if order.Status != int(model.OrderStatusCancel) {
		t.Fatalf("unexpected status: %d", order.Status)
	}
}

func TestOrderCloseRejectsDelivered(t *testing.T) {
	stub := &testhelpers.BrokerFacadeStub{
		CloseOrderFn: func(context.Context, *model.Bot, *wallet.UserData, int64) (*model.Order, error) {
			return nil, domainErrors.ErrInvalidTransition
		},
	}
	handler := NewOrderHandler(stub)
	resp := performRequest(t, http.MethodGet, "/closeOrder", "/closeOrder?id=500", handler.Close, withIdentity, nil)
	env := decodeEnvelope(t, resp)
	if env.Result || env.Message != "order state does not allow this" {
		t.Fatalf("unexpected envelope: %+v", env)
	}
}

func TestOrderConfirmAndSecond(t *testing.T) {
	handler := NewOrderHandler(&testhelpers.BrokerFacadeStub{})

	resp := performRequest(t, http.MethodGet, "/confirmOrder", "/confirmOrder?id=500", handler.Confirm, withIdentity, nil)
	var order dto.OrderResponse
	decodeData(t, decodeEnvelope(t, resp), &order)
	if order.Status != int(model.OrderStatusFinish) {
		t.Fatalf("unexpected confirm status: %d", order.Status)
	}

	resp = performRequest(t, http.MethodGet, "/secondSms", "/secondSms?id=500", handler.Second, withIdentity, nil)
	decodeData(t, decodeEnvelope(t, resp), &order)
	if order.Status != int(model.OrderStatusWaitRetry) {
		t.Fatalf("unexpected second status: %d", order.Status)
	}
}

func TestRentCatalog(t *testing.T) {
	handler := NewRentHandler(&testhelpers.BrokerFacadeStub{})
	resp := performRequest(t, http.MethodGet, "/rent/services", "/rent/services?country=0&hours=4", handler.Catalog, withIdentity, nil)
	env := decodeEnvelope(t, resp)
	if !env.Result {
		t.Fatalf("expected success, got %q", env.Message)
	}
	var catalog dto.RentCatalogResponse
	decodeData(t, env, &catalog)
	if catalog.Services["tg"] != 110 {
		t.Fatalf("unexpected catalog: %+v", catalog)
	}
}

func TestRentCreateDefaultsHours(t *testing.T) {
	var gotHours int
	stub := &testhelpers.BrokerFacadeStub{
		CreateRentFn: func(_ context.Context, _ *model.Bot, _ *wallet.UserData, service string, _ int64, hours int) (*model.RentOrder, error) {
			gotHours = hours
			rent := testhelpers.DefaultRent()
			rent.Service = service
			return rent, nil
		},
	}
	handler := NewRentHandler(stub)
	resp := performRequest(t, http.MethodGet, "/rent/create", "/rent/create?service=tg", handler.Create, withIdentity, nil)
	if env := decodeEnvelope(t, resp); !env.Result {
		t.Fatalf("expected success, got %q", env.Message)
	}
	if gotHours != defaultRentHours {
		t.Fatalf("expected default hours %d, got %d", defaultRentHours, gotHours)
	}
}

func TestRentContinuePrice(t *testing.T) {
	handler := NewRentHandler(&testhelpers.BrokerFacadeStub{})
	resp := performRequest(t, http.MethodGet, "/rent/continuePrice", "/rent/continuePrice?id=900&hours=2", handler.ContinuePrice, withIdentity, nil)
	env := decodeEnvelope(t, resp)
	if !env.Result {
		t.Fatalf("expected success, got %q", env.Message)
	}
	var payload struct {
		Price int64 `json:"price"`
	}
	decodeData(t, env, &payload)
	if payload.Price != 55 {
		t.Fatalf("unexpected price: %d", payload.Price)
	}
}

func TestRentWebhook(t *testing.T) {
	var gotRent, gotSMS int64
	var gotText string
	var gotDate time.Time
	stub := &testhelpers.BrokerFacadeStub{
		UpdateRentFn: func(_ context.Context, rentID int64, text string, smsID int64, date time.Time) error {
			gotRent, gotText, gotSMS, gotDate = rentID, text, smsID, date
			return nil
		},
	}
	handler := NewRentHandler(stub)
	body := []byte(`{"rentId":900,"sms":{"text":"your code is 482913","date":"2026-08-29 10:30:00","smsId":31}}`)
	resp := performRequest(t, http.MethodPost, "/rent/updateSmsRent", "/rent/updateSmsRent", handler.Webhook, nil, body)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if gotRent != 900 || gotSMS != 31 || gotText != "your code is 482913" {
		t.Fatalf("unexpected webhook values: %d %d %q", gotRent, gotSMS, gotText)
	}
	if gotDate.Hour() != 10 || gotDate.Minute() != 30 {
		t.Fatalf("unexpected parsed date: %v", gotDate)
	}
}

func TestRentWebhookRejectsBadPayload(t *testing.T) {
	handler := NewRentHandler(&testhelpers.BrokerFacadeStub{})

	resp := performRequest(t, http.MethodPost, "/rent/updateSmsRent", "/rent/updateSmsRent", handler.Webhook, nil, []byte(`{"sms":{}}`))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 on zero rentId, got %d", resp.Code)
	}

	resp = performRequest(t, http.MethodPost, "/rent/updateSmsRent", "/rent/updateSmsRent", handler.Webhook, nil, []byte(`not json`))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 on bad JSON, got %d", resp.Code)
	}
}

func TestRentWebhookToleratesBadDate(t *testing.T) {
	var gotDate time.Time
	stub := &testhelpers.BrokerFacadeStub{
		UpdateRentFn: func(_ context.Context, _ int64, _ string, _ int64, date time.Time) error {
			gotDate = date
			return nil
		},
	}
	handler := NewRentHandler(stub)
	body := []byte(`{"rentId":900,"sms":{"text":"hi","date":"yesterday","smsId":1}}`)
	resp := performRequest(t, http.MethodPost, "/rent/updateSmsRent", "/rent/updateSmsRent", handler.Webhook, nil, body)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if gotDate.IsZero() {
		t.Fatal("expected fallback date")
	}
}

func TestUserGetMergesWalletBalance(t *testing.T) {
	stub := &testhelpers.BrokerFacadeStub{}
	handler := NewUserHandler(stub, stub)
	resp := performRequest(t, http.MethodGet, "/getUser", "/getUser", handler.Get, withIdentity, nil)
	var user dto.UserResponse
	decodeData(t, decodeEnvelope(t, resp), &user)
	if user.TelegramID != 42 || user.Money != 1000 {
		t.Fatalf("unexpected user payload: %+v", user)
	}
}

func TestUserSetService(t *testing.T) {
	var gotID int64
	var gotService string
	stub := &testhelpers.BrokerFacadeStub{
		SetServiceFn: func(_ context.Context, telegramID int64, service string) error {
			gotID, gotService = telegramID, service
			return nil
		},
	}
	handler := NewUserHandler(stub, stub)
	resp := performRequest(t, http.MethodGet, "/setService", "/setService?service=wa", handler.SetService, withIdentity, nil)
	if env := decodeEnvelope(t, resp); !env.Result {
		t.Fatalf("expected success, got %q", env.Message)
	}
	if gotID != 42 || gotService != "wa" {
		t.Fatalf("unexpected call: %d %q", gotID, gotService)
	}

	resp = performRequest(t, http.MethodGet, "/setService", "/setService", handler.SetService, withIdentity, nil)
	if env := decodeEnvelope(t, resp); env.Result {
		t.Fatal("expected business failure without service")
	}
}

func TestUserCountries(t *testing.T) {
	stub := &testhelpers.BrokerFacadeStub{}
	handler := NewUserHandler(stub, stub)
	resp := performRequest(t, http.MethodGet, "/getCountries", "/getCountries", handler.Countries, withIdentity, nil)
	var countries []dto.CountryResponse
	decodeData(t, decodeEnvelope(t, resp), &countries)
	if len(countries) != 1 || countries[0].NameEn != "Russia" {
		t.Fatalf("unexpected countries: %+v", countries)
	}
}

func TestAdminLogin(t *testing.T) {
	stub := &testhelpers.BrokerFacadeStub{}
	handler := NewAdminHandler(stub, stub, stub)
	body, _ := json.Marshal(dto.AdminLoginRequest{Password: "hunter2"})
	resp := performRequest(t, http.MethodPost, "/admin/login", "/admin/login", handler.Login, nil, body)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var login dto.AdminLoginResponse
	decodeData(t, decodeEnvelope(t, resp), &login)
	if login.Token != "admin-token" {
		t.Fatalf("unexpected token: %q", login.Token)
	}
}

func TestAdminLoginRejectsBadPassword(t *testing.T) {
	stub := &testhelpers.BrokerFacadeStub{
		AdminLoginFn: func(string) (string, error) { return "", domainErrors.ErrInvalidCredentials },
	}
	handler := NewAdminHandler(stub, stub, stub)
	body, _ := json.Marshal(dto.AdminLoginRequest{Password: "wrong"})
	resp := performRequest(t, http.MethodPost, "/admin/login", "/admin/login", handler.Login, nil, body)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestAdminLoginRejectsEmptyBody(t *testing.T) {
	stub := &testhelpers.BrokerFacadeStub{}
	handler := NewAdminHandler(stub, stub, stub)
	resp := performRequest(t, http.MethodPost, "/admin/login", "/admin/login", handler.Login, nil, []byte(`{}`))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestAdminCreateBot(t *testing.T) {
	stub := &testhelpers.BrokerFacadeStub{}
	handler := NewAdminHandler(stub, stub, stub)
	body, _ := json.Marshal(dto.BotRequest{PublicKey: "pub2", PrivateKey: "priv2", APIKey: "key", Percent: 15})
	resp := performRequest(t, http.MethodPost, "/admin/bot", "/admin/bot", handler.CreateBot, nil, body)
	env := decodeEnvelope(t, resp)
	if !env.Result {
		t.Fatalf("expected success, got %q", env.Message)
	}
	var bot dto.BotResponse
	decodeData(t, env, &bot)
	if bot.PublicKey != "pub2" || bot.Percent != 15 {
		t.Fatalf("unexpected bot payload: %+v", bot)
	}
	if bytes.Contains(resp.Body.Bytes(), []byte("priv2")) {
		t.Fatal("private key must not be echoed")
	}
}

func TestAdminCreateBotDuplicate(t *testing.T) {
	stub := &testhelpers.BrokerFacadeStub{
		CreateBotFn: func(context.Context, *model.Bot) (*model.Bot, error) {
			return nil, domainErrors.ErrAlreadyExists
		},
	}
	handler := NewAdminHandler(stub, stub, stub)
	body, _ := json.Marshal(dto.BotRequest{PublicKey: "pub2"})
	resp := performRequest(t, http.MethodPost, "/admin/bot", "/admin/bot", handler.CreateBot, nil, body)
	if env := decodeEnvelope(t, resp); env.Result {
		t.Fatal("expected business failure")
	}
}

func TestAdminUpdateBotPreservesID(t *testing.T) {
	var saved *model.Bot
	stub := &testhelpers.BrokerFacadeStub{
		GetBotFn: func(context.Context, string) (*model.Bot, error) {
			bot := testhelpers.DefaultBot()
			bot.ID = 7
			return bot, nil
		},
		UpdateBotFn: func(_ context.Context, bot *model.Bot) error {
			saved = bot
			return nil
		},
	}
	handler := NewAdminHandler(stub, stub, stub)
	body, _ := json.Marshal(dto.BotRequest{PublicKey: "pub", Percent: 25})
	resp := performRequest(t, http.MethodPut, "/admin/bot", "/admin/bot", handler.UpdateBot, nil, body)
	if env := decodeEnvelope(t, resp); !env.Result {
		t.Fatalf("expected success, got %q", env.Message)
	}
	if saved == nil || saved.ID != 7 || saved.Percent != 25 {
		t.Fatalf("unexpected saved bot: %+v", saved)
	}
}

func TestAdminSyncCountries(t *testing.T) {
	var gotBot *model.Bot
	stub := &testhelpers.BrokerFacadeStub{
		SyncCountriesFn: func(_ context.Context, bot *model.Bot) (int, error) {
			gotBot = bot
			return 5, nil
		},
	}
	handler := NewAdminHandler(stub, stub, stub)
	resp := performRequest(t, http.MethodPost, "/admin/syncCountries", "/admin/syncCountries?public_key=pub", handler.SyncCountries, nil, nil)
	env := decodeEnvelope(t, resp)
	if !env.Result {
		t.Fatalf("expected success, got %q", env.Message)
	}
	if gotBot == nil || gotBot.PublicKey != "pub" {
		t.Fatalf("unexpected tenant: %+v", gotBot)
	}

	resp = performRequest(t, http.MethodPost, "/admin/syncCountries", "/admin/syncCountries", handler.SyncCountries, nil, nil)
	if env := decodeEnvelope(t, resp); env.Result {
		t.Fatal("expected business failure without public_key")
	}
}

func TestAdminUpdateFlags(t *testing.T) {
	var gotBase string
	stub := &testhelpers.BrokerFacadeStub{
		UpdateFlagsFn: func(_ context.Context, baseURL string) (int, error) {
			gotBase = baseURL
			return 3, nil
		},
	}
	handler := NewAdminHandler(stub, stub, stub)
	resp := performRequest(t, http.MethodPost, "/admin/updateFlags", "/admin/updateFlags?base_url=https://flags.example", handler.UpdateFlags, nil, nil)
	env := decodeEnvelope(t, resp)
	if !env.Result {
		t.Fatalf("expected success, got %q", env.Message)
	}
	if gotBase != "https://flags.example" {
		t.Fatalf("unexpected base url: %q", gotBase)
	}

	resp = performRequest(t, http.MethodPost, "/admin/updateFlags", "/admin/updateFlags", handler.UpdateFlags, nil, nil)
	if env := decodeEnvelope(t, resp); env.Result {
		t.Fatal("expected business failure without base_url")
	}
}
