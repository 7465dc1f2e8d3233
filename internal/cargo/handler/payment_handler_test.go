package handler

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/bbaku36/TUTUYU-Frontend/internal/cargo/testutil"
)

func TestPaymentEndpoint(t *testing.T) {
	r, db := setupCargoAPI(t)
	seed := testutil.SeedShipment(t, db, "PM100", "", 20000, 0)

	w := testutil.DoRequest(r, "POST", "/payments", map[string]interface{}{
		"shipment_id": seed.ID,
		"amount":      20000,
	}, "")
	if w.Code != 201 {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	body := testutil.ParseResponse(w)

	shipment := body["shipment"].(map[string]interface{})
	if shipment["balance"].(float64) != 0 {
		t.Errorf("balance = %v, want 0", shipment["balance"])
	}
	if shipment["status"] != "paid" {
		t.Errorf("status = %v, want paid", shipment["status"])
	}

	ledger := body["payments"].([]interface{})
	if len(ledger) != 1 {
		t.Fatalf("payments len = %d, want 1", len(ledger))
	}
	entry := ledger[0].(map[string]interface{})
	if entry["method"] != "cash" {
		t.Errorf("method = %v, want cash default", entry["method"])
	}
}

func TestPaymentEndpointRejectsZeroAmount(t *testing.T) {
	r, db := setupCargoAPI(t)
	seed := testutil.SeedShipment(t, db, "PM101", "", 20000, 0)

	w := testutil.DoRequest(r, "POST", "/payments", map[string]interface{}{
		"shipment_id": seed.ID,
		"amount":      0,
	}, "")
	if w.Code != 400 {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	body := testutil.ParseResponse(w)
	if body["message"] != "Төлбөрийн дүн > 0 байх ёстой" {
		t.Errorf("message = %v", body["message"])
	}
}

func TestListShipmentPayments(t *testing.T) {
	r, db := setupCargoAPI(t)
	seed := testutil.SeedShipment(t, db, "PM102", "", 20000, 0)

	for _, amount := range []int{5000, 7000} {
		w := testutil.DoRequest(r, "POST", "/payments", map[string]interface{}{
			"shipment_id": seed.ID,
			"amount":      amount,
			"method":      "card",
		}, "")
		if w.Code != 201 {
			t.Fatalf("payment status = %d", w.Code)
		}
	}

	w := testutil.DoRequest(r, "GET", fmt.Sprintf("/shipments/%d/payments", seed.ID), nil, "")
	if w.Code != 200 {
		t.Fatalf("status = %d", w.Code)
	}
	var ledger []map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &ledger); err != nil {
		t.Fatalf("parse body: %v", err)
	}
	if len(ledger) != 2 {
		t.Fatalf("ledger len = %d, want 2", len(ledger))
	}
	// Newest first.
	if ledger[0]["amount"].(float64) != 7000 {
		t.Errorf("first entry amount = %v, want 7000", ledger[0]["amount"])
	}
}
