package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bbaku36/TUTUYU-Frontend/internal/cargo/entity"
	"github.com/bbaku36/TUTUYU-Frontend/internal/cargo/repository"
	"github.com/bbaku36/TUTUYU-Frontend/internal/cargo/service"
	"github.com/bbaku36/TUTUYU-Frontend/internal/cargo/testutil"
	"github.com/bbaku36/TUTUYU-Frontend/internal/events"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newServices(t *testing.T) (*service.Services, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	svcs := service.NewServices(db, repos, testutil.PinSecret, events.Nop{}, nil, 0, zap.NewNop())
	return svcs, db
}

func int64Ptr(v int64) *int64 { return &v }
func strPtr(v string) *string { return &v }

func TestCreateShipmentDefaults(t *testing.T) {
	svcs, _ := newServices(t)

	shipment, err := svcs.Shipment.Create(context.Background(), &service.CreateShipmentRequest{
		Barcode: "  OL123  ",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if shipment.Barcode != "OL123" {
		t.Errorf("barcode = %q, want trimmed OL123", shipment.Barcode)
	}
	if shipment.Quantity != 1 {
		t.Errorf("quantity = %d, want default 1", shipment.Quantity)
	}
	if shipment.Status != entity.StatusReceived {
		t.Errorf("status = %q, want received", shipment.Status)
	}
	if shipment.Location != entity.LocationWarehouse {
		t.Errorf("location = %q, want warehouse", shipment.Location)
	}
	if shipment.DeliveryStatus != entity.DeliveryWarehouse {
		t.Errorf("delivery_status = %q, want warehouse", shipment.DeliveryStatus)
	}
	if shipment.ArrivalDate == nil {
		t.Fatal("arrival_date should default to today")
	}
	today := entity.NewDateOnly(time.Now())
	if !shipment.ArrivalDate.Time().Equal(today.Time()) {
		t.Errorf("arrival_date = %v, want today", shipment.ArrivalDate.Time())
	}
}

func TestCreateShipmentRequiresBarcode(t *testing.T) {
	svcs, _ := newServices(t)

	_, err := svcs.Shipment.Create(context.Background(), &service.CreateShipmentRequest{Barcode: "   "})
	var validation *service.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestCreateShipmentBalance(t *testing.T) {
	svcs, _ := newServices(t)

	shipment, err := svcs.Shipment.Create(context.Background(), &service.CreateShipmentRequest{
		Barcode:    "OL200",
		Price:      int64Ptr(20000),
		PaidAmount: int64Ptr(5000),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if shipment.Balance != 15000 {
		t.Errorf("balance = %d, want 15000", shipment.Balance)
	}
	if shipment.Settled() {
		t.Error("shipment with open balance should not be settled")
	}
}

func TestCreateShipmentDeliveryLocation(t *testing.T) {
	svcs, _ := newServices(t)

	shipment, err := svcs.Shipment.Create(context.Background(), &service.CreateShipmentRequest{
		Barcode:  "OL201",
		Location: "Delivery",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if shipment.Location != entity.LocationDelivery {
		t.Errorf("location = %q, want lowercased delivery", shipment.Location)
	}
	if shipment.DeliveryStatus != entity.DeliveryOngoing {
		t.Errorf("delivery_status = %q, want delivery", shipment.DeliveryStatus)
	}
}

func TestFullUpdateRecomputesBalance(t *testing.T) {
	svcs, db := newServices(t)
	seed := testutil.SeedShipment(t, db, "OL300", "", 20000, 0)

	updated, err := svcs.Shipment.FullUpdate(context.Background(), seed.ID, &service.UpdateShipmentRequest{
		PaidAmount: int64Ptr(8000),
	}, service.AuthContext{})
	if err != nil {
		t.Fatalf("FullUpdate: %v", err)
	}
	if updated.Balance != 12000 {
		t.Errorf("balance = %d, want 12000", updated.Balance)
	}
}

func TestFullUpdatePinGate(t *testing.T) {
	svcs, db := newServices(t)
	seed := testutil.SeedShipment(t, db, "OL301", "99110022", 10000, 0)
	ctx := context.Background()

	// First attempt without a PIN provisions one and is rejected.
	_, err := svcs.Shipment.FullUpdate(ctx, seed.ID, &service.UpdateShipmentRequest{
		Location: strPtr("delivery"),
	}, service.AuthContext{})
	var pinErr *service.PinRequiredError
	if !errors.As(err, &pinErr) {
		t.Fatalf("expected PinRequiredError, got %v", err)
	}
	if !pinErr.PinCreated {
		t.Error("first rejection should report the pin was just created")
	}

	// Staff reads the PIN out to the customer.
	issued, err := svcs.Pin.EnsurePin(ctx, "99110022", true)
	if err != nil {
		t.Fatalf("EnsurePin: %v", err)
	}

	// Wrong PIN still rejected, without re-creating.
	wrong := "0000"
	if issued.Pin == wrong {
		wrong = "0001"
	}
	_, err = svcs.Shipment.FullUpdate(ctx, seed.ID, &service.UpdateShipmentRequest{
		Location: strPtr("delivery"),
		Pin:      strPtr(wrong),
	}, service.AuthContext{})
	if !errors.As(err, &pinErr) {
		t.Fatalf("expected PinRequiredError for wrong pin, got %v", err)
	}
	if pinErr.PinCreated {
		t.Error("second rejection should not report creation")
	}

	// Correct PIN moves the parcel out for delivery.
	updated, err := svcs.Shipment.FullUpdate(ctx, seed.ID, &service.UpdateShipmentRequest{
		Location: strPtr("delivery"),
		Pin:      strPtr(issued.Pin),
	}, service.AuthContext{})
	if err != nil {
		t.Fatalf("FullUpdate with pin: %v", err)
	}
	if updated.Location != entity.LocationDelivery {
		t.Errorf("location = %q, want delivery", updated.Location)
	}
	if updated.DeliveryStatus != entity.DeliveryOngoing {
		t.Errorf("delivery_status = %q, want delivery", updated.DeliveryStatus)
	}
}

func TestFullUpdateBypassStillProvisionsPin(t *testing.T) {
	svcs, db := newServices(t)
	seed := testutil.SeedShipment(t, db, "OL302", "94041111", 10000, 0)
	ctx := context.Background()

	updated, err := svcs.Shipment.FullUpdate(ctx, seed.ID, &service.UpdateShipmentRequest{
		Location: strPtr("delivery"),
	}, service.AuthContext{Admin: true, BypassPin: true})
	if err != nil {
		t.Fatalf("FullUpdate with bypass: %v", err)
	}
	if updated.DeliveryStatus != entity.DeliveryOngoing {
		t.Errorf("delivery_status = %q, want delivery", updated.DeliveryStatus)
	}

	res, err := svcs.Pin.EnsurePin(ctx, "94041111", true)
	if err != nil {
		t.Fatalf("EnsurePin: %v", err)
	}
	if res.Created {
		t.Error("bypass update should have provisioned the pin already")
	}
}

func TestFullUpdateDeliveryNeedsPhone(t *testing.T) {
	svcs, db := newServices(t)
	seed := testutil.SeedShipment(t, db, "OL303", "", 10000, 0)

	_, err := svcs.Shipment.FullUpdate(context.Background(), seed.ID, &service.UpdateShipmentRequest{
		Location: strPtr("delivery"),
	}, service.AuthContext{})
	var validation *service.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestFullUpdateLeavingDeliveryResetsDeliveryStatus(t *testing.T) {
	svcs, db := newServices(t)
	seed := testutil.SeedShipment(t, db, "OL304", "", 10000, 0)
	db.Model(seed).Updates(map[string]interface{}{
		"location":        entity.LocationDelivery,
		"delivery_status": entity.DeliveryOngoing,
	})

	updated, err := svcs.Shipment.FullUpdate(context.Background(), seed.ID, &service.UpdateShipmentRequest{
		Location: strPtr("warehouse"),
	}, service.AuthContext{})
	if err != nil {
		t.Fatalf("FullUpdate: %v", err)
	}
	if updated.DeliveryStatus != entity.DeliveryWarehouse {
		t.Errorf("delivery_status = %q, want warehouse", updated.DeliveryStatus)
	}
}

func TestFullUpdateNotFound(t *testing.T) {
	svcs, _ := newServices(t)
	_, err := svcs.Shipment.FullUpdate(context.Background(), 9999, &service.UpdateShipmentRequest{}, service.AuthContext{})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStatusPatchDeliveredAtWrittenOnce(t *testing.T) {
	svcs, db := newServices(t)
	seed := testutil.SeedShipment(t, db, "OL400", "", 10000, 0)
	ctx := context.Background()

	first, err := svcs.Shipment.StatusPatch(ctx, seed.ID, &service.StatusPatchRequest{
		DeliveryStatus: strPtr(entity.DeliveryDelivered),
	})
	if err != nil {
		t.Fatalf("StatusPatch: %v", err)
	}
	if first.DeliveredAt == nil {
		t.Fatal("delivered_at should be set on delivery")
	}

	second, err := svcs.Shipment.StatusPatch(ctx, seed.ID, &service.StatusPatchRequest{
		DeliveryStatus: strPtr(entity.DeliveryDelivered),
	})
	if err != nil {
		t.Fatalf("StatusPatch again: %v", err)
	}
	if !second.DeliveredAt.Equal(*first.DeliveredAt) {
		t.Errorf("delivered_at changed on repeat: %v vs %v", first.DeliveredAt, second.DeliveredAt)
	}

	canceled, err := svcs.Shipment.StatusPatch(ctx, seed.ID, &service.StatusPatchRequest{
		DeliveryStatus: strPtr(entity.DeliveryCanceled),
	})
	if err != nil {
		t.Fatalf("StatusPatch cancel: %v", err)
	}
	if canceled.DeliveredAt != nil {
		t.Error("delivered_at should clear when delivery is canceled")
	}
}

func TestStatusPatchPendingResetsPayment(t *testing.T) {
	svcs, db := newServices(t)
	seed := testutil.SeedShipment(t, db, "OL401", "", 10000, 10000)
	db.Model(seed).Update("status", entity.StatusPaid)

	updated, err := svcs.Shipment.StatusPatch(context.Background(), seed.ID, &service.StatusPatchRequest{
		Status: strPtr(entity.StatusPending),
	})
	if err != nil {
		t.Fatalf("StatusPatch: %v", err)
	}
	if updated.PaidAmount != 0 {
		t.Errorf("paid_amount = %d, want 0", updated.PaidAmount)
	}
	if updated.Balance != 10000 {
		t.Errorf("balance = %d, want full price 10000", updated.Balance)
	}
}

func TestBatchPayAllAndUnpayAll(t *testing.T) {
	svcs, db := newServices(t)
	a := testutil.SeedShipment(t, db, "OL500", "", 20000, 0)
	b := testutil.SeedShipment(t, db, "OL501", "", 15000, 5000)
	ctx := context.Background()
	ids := []uint{a.ID, b.ID}

	count, err := svcs.Shipment.Batch(ctx, &service.BatchRequest{Action: service.BatchPayAll, IDs: ids})
	if err != nil {
		t.Fatalf("Batch payAll: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}

	for _, id := range ids {
		row, err := svcs.Shipment.Get(ctx, id)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if row.PaidAmount != row.Price || row.Balance != 0 || row.Status != entity.StatusPaid {
			t.Errorf("shipment %d not settled: paid=%d price=%d balance=%d status=%s",
				id, row.PaidAmount, row.Price, row.Balance, row.Status)
		}
	}

	if _, err := svcs.Shipment.Batch(ctx, &service.BatchRequest{Action: service.BatchUnpayAll, IDs: ids}); err != nil {
		t.Fatalf("Batch unpayAll: %v", err)
	}
	for _, id := range ids {
		row, err := svcs.Shipment.Get(ctx, id)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if row.PaidAmount != 0 || row.Balance != row.Price {
			t.Errorf("shipment %d not reset: paid=%d balance=%d price=%d", id, row.PaidAmount, row.Balance, row.Price)
		}
		if row.Status != entity.StatusPending || row.Location != entity.LocationWarehouse {
			t.Errorf("shipment %d state: status=%s location=%s", id, row.Status, row.Location)
		}
	}
}

func TestBatchDeleteRemovesLedger(t *testing.T) {
	svcs, db := newServices(t)
	seed := testutil.SeedShipment(t, db, "OL502", "", 20000, 0)
	ctx := context.Background()

	if _, _, err := svcs.Payment.AddPayment(ctx, seed.ID, 5000, "cash"); err != nil {
		t.Fatalf("AddPayment: %v", err)
	}

	if _, err := svcs.Shipment.Batch(ctx, &service.BatchRequest{Action: service.BatchDelete, IDs: []uint{seed.ID}}); err != nil {
		t.Fatalf("Batch delete: %v", err)
	}

	if _, err := svcs.Shipment.Get(ctx, seed.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	var orphaned int64
	db.Model(&entity.Payment{}).Where("shipment_id = ?", seed.ID).Count(&orphaned)
	if orphaned != 0 {
		t.Errorf("payments left behind: %d", orphaned)
	}
}

func TestBatchUpdateWhitelistsColumns(t *testing.T) {
	svcs, db := newServices(t)
	seed := testutil.SeedShipment(t, db, "OL503", "", 20000, 0)
	ctx := context.Background()

	_, err := svcs.Shipment.Batch(ctx, &service.BatchRequest{
		Action: service.BatchUpdate,
		IDs:    []uint{seed.ID},
		Updates: map[string]string{
			"courier":          "smuggled",
			"delivery_address": "Хан-Уул дүүрэг",
			"delivery_note":    "орцны код 1234",
		},
	})
	if err != nil {
		t.Fatalf("Batch update: %v", err)
	}

	row, err := svcs.Shipment.Get(ctx, seed.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if row.Notes != "Хан-Уул дүүрэг" {
		t.Errorf("notes = %q, want the delivery address", row.Notes)
	}
	if row.DeliveryNote != "орцны код 1234" {
		t.Errorf("delivery_note = %q", row.DeliveryNote)
	}
	if row.Courier != "" {
		t.Errorf("courier should not be batch-updatable, got %q", row.Courier)
	}
}

func TestBatchRejectsEmptyAndUnknown(t *testing.T) {
	svcs, _ := newServices(t)
	ctx := context.Background()

	var validation *service.ValidationError
	_, err := svcs.Shipment.Batch(ctx, &service.BatchRequest{Action: service.BatchPayAll})
	if !errors.As(err, &validation) {
		t.Fatalf("empty ids: expected ValidationError, got %v", err)
	}
	_, err = svcs.Shipment.Batch(ctx, &service.BatchRequest{Action: "explode", IDs: []uint{1}})
	if !errors.As(err, &validation) {
		t.Fatalf("unknown action: expected ValidationError, got %v", err)
	}
}

func TestListAttachesPins(t *testing.T) {
	svcs, db := newServices(t)
	testutil.SeedShipment(t, db, "OL600", "99887711", 10000, 0)
	testutil.SeedShipment(t, db, "OL601", "", 10000, 0)

	rows, total, err := svcs.Shipment.List(context.Background(), repository.ShipmentFilters{}, 1, 20)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 2 {
		t.Errorf("total = %d, want 2", total)
	}
	for _, row := range rows {
		if row.Phone != "" && len(row.PinPlain) != 4 {
			t.Errorf("shipment %s with phone should carry a pin, got %q", row.Barcode, row.PinPlain)
		}
		if row.Phone == "" && row.PinPlain != "" {
			t.Errorf("shipment %s without phone should not carry a pin", row.Barcode)
		}
	}
}

func TestListFiltersAndPagination(t *testing.T) {
	svcs, db := newServices(t)
	for _, barcode := range []string{"AA100", "AA101", "BB200"} {
		testutil.SeedShipment(t, db, barcode, "", 1000, 0)
	}
	ctx := context.Background()

	rows, total, err := svcs.Shipment.List(ctx, repository.ShipmentFilters{Barcode: "aa1"}, 1, 20)
	if err != nil {
		t.Fatalf("List filtered: %v", err)
	}
	if total != 2 || len(rows) != 2 {
		t.Errorf("barcode filter: total=%d len=%d, want 2/2", total, len(rows))
	}

	rows, total, err = svcs.Shipment.List(ctx, repository.ShipmentFilters{}, 2, 2)
	if err != nil {
		t.Fatalf("List paged: %v", err)
	}
	if total != 3 || len(rows) != 1 {
		t.Errorf("page 2 of 2: total=%d len=%d, want 3/1", total, len(rows))
	}
}

func TestArchiveSettled(t *testing.T) {
	svcs, db := newServices(t)
	ctx := context.Background()

	old := testutil.SeedShipment(t, db, "OL700", "", 10000, 10000)
	db.Model(old).Updates(map[string]interface{}{
		"delivery_status": entity.DeliveryDelivered,
		"balance":         0,
		"arrival_date":    "2024-01-15",
	})

	// Recent, delivered, settled: inside the retention window, stays put.
	recent := testutil.SeedShipment(t, db, "OL701", "", 10000, 10000)
	db.Model(recent).Updates(map[string]interface{}{
		"delivery_status": entity.DeliveryDelivered,
		"balance":         0,
	})

	// Old but unpaid: never auto-archived.
	unpaid := testutil.SeedShipment(t, db, "OL702", "", 10000, 0)
	db.Model(unpaid).Updates(map[string]interface{}{
		"delivery_status": entity.DeliveryDelivered,
		"arrival_date":    "2024-01-15",
	})

	n, err := svcs.Shipment.ArchiveSettled(ctx, 30)
	if err != nil {
		t.Fatalf("ArchiveSettled: %v", err)
	}
	if n != 1 {
		t.Errorf("archived %d rows, want 1", n)
	}

	row, _ := svcs.Shipment.Get(ctx, old.ID)
	if row.Status != entity.StatusArchived {
		t.Errorf("old settled shipment status = %q, want archived", row.Status)
	}
	row, _ = svcs.Shipment.Get(ctx, recent.ID)
	if row.Status == entity.StatusArchived {
		t.Error("recent shipment should not be archived")
	}
	row, _ = svcs.Shipment.Get(ctx, unpaid.ID)
	if row.Status == entity.StatusArchived {
		t.Error("unpaid shipment should not be archived")
	}
}
