package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/smartpark-rw/sims-backend/internal/ledger"
	pkgerrors "github.com/smartpark-rw/sims-backend/pkg/errors"
)

type stubLedgerService struct {
	recordInFn  func(ctx context.Context, req ledger.RecordStockInRequest) (*ledger.StockInDTO, error)
	listInFn    func(ctx context.Context) ([]ledger.StockInDTO, error)
	recordOutFn func(ctx context.Context, req ledger.RecordStockOutRequest) (*ledger.StockOutDTO, error)
	listOutFn   func(ctx context.Context) ([]ledger.StockOutDTO, error)
	amendFn     func(ctx context.Context, id uuid.UUID, req ledger.AmendStockOutRequest) (*ledger.StockOutDTO, error)
	deleteFn    func(ctx context.Context, id uuid.UUID) error
}

func (s stubLedgerService) RecordStockIn(ctx context.Context, req ledger.RecordStockInRequest) (*ledger.StockInDTO, error) {
	if s.recordInFn != nil {
		return s.recordInFn(ctx, req)
	}
	return &ledger.StockInDTO{}, nil
}

func (s stubLedgerService) ListStockIns(ctx context.Context) ([]ledger.StockInDTO, error) {
	if s.listInFn != nil {
		return s.listInFn(ctx)
	}
	return nil, nil
}

func (s stubLedgerService) RecordStockOut(ctx context.Context, req ledger.RecordStockOutRequest) (*ledger.StockOutDTO, error) {
	if s.recordOutFn != nil {
		return s.recordOutFn(ctx, req)
	}
	return &ledger.StockOutDTO{}, nil
}

func (s stubLedgerService) ListStockOuts(ctx context.Context) ([]ledger.StockOutDTO, error) {
	if s.listOutFn != nil {
		return s.listOutFn(ctx)
	}
	return nil, nil
}

func (s stubLedgerService) AmendStockOut(ctx context.Context, id uuid.UUID, req ledger.AmendStockOutRequest) (*ledger.StockOutDTO, error) {
	if s.amendFn != nil {
		return s.amendFn(ctx, id, req)
	}
	return &ledger.StockOutDTO{}, nil
}

func (s stubLedgerService) DeleteStockOut(ctx context.Context, id uuid.UUID) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, id)
	}
	return nil
}

func withStockOutID(req *http.Request, id string) *http.Request {
	ctx := chi.NewRouteContext()
	ctx.URLParams.Add("stockOutId", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, ctx))
}

func TestRecordStockOut(t *testing.T) {
	partID := uuid.New()
	svc := stubLedgerService{
		recordOutFn: func(ctx context.Context, req ledger.RecordStockOutRequest) (*ledger.StockOutDTO, error) {
			if req.SparePartID != partID {
				t.Fatalf("unexpected part id %s", req.SparePartID)
			}
			if req.Quantity != 4 {
				t.Fatalf("unexpected quantity %d", req.Quantity)
			}
			return &ledger.StockOutDTO{
				ID:          uuid.New(),
				SparePartID: req.SparePartID,
				Quantity:    req.Quantity,
				UnitPrice:   req.UnitPrice,
				TotalPrice:  req.UnitPrice.Mul(decimal.NewFromInt(int64(req.Quantity))),
			}, nil
		},
	}

	body := `{"sparePartId":"` + partID.String() + `","quantity":4,"unitPrice":"25.00"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	resp := httptest.NewRecorder()
	RecordStockOut(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Success bool              `json:"success"`
		Message string            `json:"message"`
		Data    ledger.StockOutDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !envelope.Success || envelope.Message != "Stock out entry created successfully" {
		t.Fatalf("unexpected envelope %+v", envelope)
	}
	if !envelope.Data.TotalPrice.Equal(decimal.RequireFromString("100.00")) {
		t.Fatalf("unexpected total price %s", envelope.Data.TotalPrice)
	}
}

func TestRecordStockOutInsufficientStock(t *testing.T) {
	svc := stubLedgerService{
		recordOutFn: func(ctx context.Context, req ledger.RecordStockOutRequest) (*ledger.StockOutDTO, error) {
			return nil, pkgerrors.InsufficientStock(3)
		},
	}

	body := `{"sparePartId":"` + uuid.NewString() + `","quantity":10,"unitPrice":"25.00"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	resp := httptest.NewRecorder()
	RecordStockOut(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	var envelope struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Success || envelope.Message != "Insufficient stock. Available quantity: 3" {
		t.Fatalf("unexpected envelope %+v", envelope)
	}
}

func TestRecordStockOutRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"sparePartId":"`+uuid.NewString()+`","quantity":1,"bogus":true}`))
	resp := httptest.NewRecorder()
	RecordStockOut(stubLedgerService{}, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAmendStockOut(t *testing.T) {
	entryID := uuid.New()
	newQty := 8
	svc := stubLedgerService{
		amendFn: func(ctx context.Context, id uuid.UUID, req ledger.AmendStockOutRequest) (*ledger.StockOutDTO, error) {
			if id != entryID {
				t.Fatalf("unexpected id %s", id)
			}
			if req.Quantity == nil || *req.Quantity != newQty {
				t.Fatalf("unexpected quantity %v", req.Quantity)
			}
			return &ledger.StockOutDTO{ID: id, Quantity: newQty}, nil
		},
	}

	req := withStockOutID(httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"quantity":8}`)), entryID.String())
	resp := httptest.NewRecorder()
	AmendStockOut(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Message string             `json:"message"`
		Data    ledger.StockOutDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Message != "Stock out entry updated successfully" || envelope.Data.Quantity != newQty {
		t.Fatalf("unexpected envelope %+v", envelope)
	}
}

func TestAmendStockOutInvalidID(t *testing.T) {
	req := withStockOutID(httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"quantity":8}`)), "not-a-uuid")
	resp := httptest.NewRecorder()
	AmendStockOut(stubLedgerService{}, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Message != "valid stock out ID is required" {
		t.Fatalf("unexpected message %q", envelope.Message)
	}
}

func TestDeleteStockOut(t *testing.T) {
	entryID := uuid.New()
	var deleted uuid.UUID
	svc := stubLedgerService{
		deleteFn: func(ctx context.Context, id uuid.UUID) error {
			deleted = id
			return nil
		},
	}

	req := withStockOutID(httptest.NewRequest(http.MethodDelete, "/", nil), entryID.String())
	resp := httptest.NewRecorder()
	DeleteStockOut(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if deleted != entryID {
		t.Fatalf("expected delete for %s got %s", entryID, deleted)
	}
	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Message != "Stock out entry deleted successfully" {
		t.Fatalf("unexpected message %q", envelope.Message)
	}
}

func TestDeleteStockOutNotFound(t *testing.T) {
	svc := stubLedgerService{
		deleteFn: func(ctx context.Context, id uuid.UUID) error {
			return pkgerrors.New(pkgerrors.CodeNotFound, "stock out entry not found")
		},
	}

	req := withStockOutID(httptest.NewRequest(http.MethodDelete, "/", nil), uuid.NewString())
	resp := httptest.NewRecorder()
	DeleteStockOut(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}
