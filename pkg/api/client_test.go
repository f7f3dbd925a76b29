package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"chapkhane/internal/pricing"
	"chapkhane/internal/shop"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestQuoteSendsSpecAndToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/quote" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("authorization: got %q", got)
		}
		var spec pricing.OrderSpec
		if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
			t.Errorf("decode spec: %v", err)
		}
		if spec.Quantity != 100 {
			t.Errorf("quantity: got %d", spec.Quantity)
		}
		w.Write([]byte(`{"currency":"IRT","quantity":100,"final_total":"114000"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "secret", nil)
	q, err := c.Quote(context.Background(), pricing.OrderSpec{PaperSize: "a4", Quantity: 100})
	if err != nil {
		t.Fatalf("Quote failed: %v", err)
	}
	if !q.FinalTotal.Equal(decimal.NewFromInt(114000)) {
		t.Errorf("final total: got %s", q.FinalTotal)
	}
}

func TestErrorResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			t.Error("empty token must not send an Authorization header")
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_specification","field":"material","message":"is not in the catalog"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "", nil).Quote(context.Background(), pricing.OrderSpec{})
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest || apiErr.Field != "material" {
		t.Errorf("unexpected error: %+v", apiErr)
	}
}

func TestCreateAndGetOrder(t *testing.T) {
	id := uuid.MustParse("3f2b8c1e-0000-4000-8000-000000000001")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/orders":
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(shop.Order{ID: id, Status: shop.StatusNew})
		case r.Method == http.MethodGet && r.URL.Path == "/api/orders/"+id.String():
			json.NewEncoder(w).Encode(shop.Order{ID: id, Status: shop.StatusProcessing})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", nil)
	order, err := c.CreateOrder(context.Background(), shop.OrderRequest{})
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	if order.ID != id {
		t.Errorf("id: got %s", order.ID)
	}

	order, err = c.GetOrder(context.Background(), id)
	if err != nil {
		t.Fatalf("GetOrder failed: %v", err)
	}
	if order.Status != shop.StatusProcessing {
		t.Errorf("status: got %s", order.Status)
	}

	if _, err := c.GetCatalog(context.Background()); err == nil {
		t.Error("expected error for missing route")
	}
}
