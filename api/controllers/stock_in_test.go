package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/smartpark-rw/sims-backend/internal/ledger"
)

func TestRecordStockIn(t *testing.T) {
	partID := uuid.New()
	svc := stubLedgerService{
		recordInFn: func(ctx context.Context, req ledger.RecordStockInRequest) (*ledger.StockInDTO, error) {
			if req.SparePartID != partID || req.Quantity != 5 {
				t.Fatalf("unexpected request %+v", req)
			}
			return &ledger.StockInDTO{ID: uuid.New(), SparePartID: partID, Quantity: 5}, nil
		},
	}

	body := `{"sparePartId":"` + partID.String() + `","quantity":5}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	resp := httptest.NewRecorder()
	RecordStockIn(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Message string            `json:"message"`
		Data    ledger.StockInDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Message != "Stock in entry created successfully" || envelope.Data.Quantity != 5 {
		t.Fatalf("unexpected envelope %+v", envelope)
	}
}

func TestRecordStockInMissingQuantity(t *testing.T) {
	body := `{"sparePartId":"` + uuid.NewString() + `"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	resp := httptest.NewRecorder()
	RecordStockIn(stubLedgerService{}, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestListStockIns(t *testing.T) {
	now := time.Now().UTC()
	svc := stubLedgerService{
		listInFn: func(ctx context.Context) ([]ledger.StockInDTO, error) {
			return []ledger.StockInDTO{
				{ID: uuid.New(), Quantity: 5, Date: now, SparePart: ledger.PartSummary{Name: "BrakePad", Category: "Brakes"}},
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp := httptest.NewRecorder()
	ListStockIns(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Data []ledger.StockInDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data) != 1 || envelope.Data[0].SparePart.Name != "BrakePad" {
		t.Fatalf("unexpected payload %+v", envelope.Data)
	}
}
