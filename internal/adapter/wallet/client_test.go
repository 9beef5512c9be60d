package wallet

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewHTTPClient(srv.URL, slog.New(slog.NewTextHandler(testWriter{t}, nil)))
	if err != nil {
		t.Fatalf("NewHTTPClient: %v", err)
	}
	c.policy.Backoff = time.Millisecond
	return c
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}

func TestCheckUserParsesAccount(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/user/check-secret" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("id"); got != "42" {
			t.Errorf("id = %s", got)
		}
		w.Write([]byte(`{"result":true,"message":"","data":{"user":{"telegram_id":42},"money":15000,"secret_user_key":"sk"}}`))
	})

	user, err := c.CheckUser(context.Background(), 42, "sk", Keys{PublicKey: "pub", PrivateKey: "priv"})
	if err != nil {
		t.Fatalf("CheckUser: %v", err)
	}
	if user.TelegramID != 42 || user.Money != 15000 || user.SecretKey != "sk" {
		t.Errorf("unexpected user: %+v", user)
	}
}

func TestCheckUserBusinessRejection(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":false,"message":"Secret key is invalid"}`))
	})

	_, err := c.CheckUser(context.Background(), 42, "bad", Keys{})
	var werr *Error
	if !errors.As(err, &werr) {
		t.Fatalf("want *wallet.Error, got %v", err)
	}
	if werr.Message != "Secret key is invalid" {
		t.Errorf("message = %q", werr.Message)
	}
}

func TestSubtractBalanceRetriesServerError(t *testing.T) {
	var calls int
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm: %v", err)
		}
		if got := r.PostForm.Get("amount"); got != "110" {
			t.Errorf("amount = %s", got)
		}
		w.Write([]byte(`{"result":true,"message":"ok"}`))
	})

	user := &UserData{TelegramID: 42, SecretKey: "sk", Money: 15000}
	if err := c.SubtractBalance(context.Background(), Keys{}, user, 110, "activation"); err != nil {
		t.Fatalf("SubtractBalance: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestSubtractBalanceNoRetryOnClientError(t *testing.T) {
	var calls int
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusForbidden)
	})

	err := c.SubtractBalance(context.Background(), Keys{}, &UserData{TelegramID: 42}, 110, "activation")
	if err == nil {
		t.Fatal("want error")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestSubtractBalanceNoRetryOnRejection(t *testing.T) {
	var calls int
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"result":false,"message":"not enough money"}`))
	})

	err := c.SubtractBalance(context.Background(), Keys{}, &UserData{TelegramID: 42}, 110, "activation")
	var werr *Error
	if !errors.As(err, &werr) {
		t.Fatalf("want *wallet.Error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestCreateOrderReturnsLedgerRef(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/shop/order-create" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`{"result":true,"message":"","data":{"order_id":777}}`))
	})

	ref, err := c.CreateOrder(context.Background(), Keys{}, &UserData{TelegramID: 42, SecretKey: "sk"}, 3, 110, "activation +79001234567")
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if ref.OrderID != 777 {
		t.Errorf("order id = %d", ref.OrderID)
	}
}
