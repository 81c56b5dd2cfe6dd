package payment

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/hostelhub/server/internal/apperr"
)

func TestVerifySignature(t *testing.T) {
	const secret = "shhh"

	sig := Sign(secret, "order_1", "pay_1")
	if !VerifySignature(secret, "order_1", "pay_1", sig) {
		t.Error("valid signature rejected")
	}
	if VerifySignature(secret, "order_1", "pay_1", sig+"00") {
		t.Error("tampered signature accepted")
	}
	if VerifySignature(secret, "order_2", "pay_1", sig) {
		t.Error("signature accepted for the wrong order")
	}
	if VerifySignature("other-secret", "order_1", "pay_1", sig) {
		t.Error("signature accepted under the wrong secret")
	}
}

func TestCreateOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/orders" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if _, _, ok := r.BasicAuth(); !ok {
			t.Error("missing basic auth")
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"order_123","receipt":"rcpt_456"}`))
	}))
	defer srv.Close()

	g := NewHTTPGateway(srv.URL, "key", "secret", slog.Default())

	order, err := g.CreateOrder(context.Background(), 500, "INR", "HST-ABC123")
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if order.OrderID != "order_123" || order.ReceiptToken != "rcpt_456" {
		t.Errorf("unexpected order: %+v", order)
	}
	if order.Amount != 500 || order.Currency != "INR" {
		t.Errorf("amount/currency not carried: %+v", order)
	}
}

func TestCreateOrderRetriesOnce(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"id":"order_retry","receipt":"rcpt_retry"}`))
	}))
	defer srv.Close()

	g := NewHTTPGateway(srv.URL, "key", "secret", slog.Default())

	order, err := g.CreateOrder(context.Background(), 100, "INR", "ref")
	if err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if order.OrderID != "order_retry" {
		t.Errorf("unexpected order id %q", order.OrderID)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("provider called %d times, want 2", got)
	}
}

func TestCreateOrderGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	g := NewHTTPGateway(srv.URL, "key", "secret", slog.Default())

	_, err := g.CreateOrder(context.Background(), 100, "INR", "ref")
	if !apperr.IsKind(err, apperr.Gateway) {
		t.Fatalf("expected Gateway error, got %v", err)
	}
}

func TestCreateOrderClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	g := NewHTTPGateway(srv.URL, "key", "secret", slog.Default())

	if _, err := g.CreateOrder(context.Background(), 100, "INR", "ref"); err == nil {
		t.Fatal("expected error")
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("provider called %d times, want 1", got)
	}
}
