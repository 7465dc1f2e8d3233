package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/bbaku36/TUTUYU-Frontend/internal/cargo/entity"
	"github.com/bbaku36/TUTUYU-Frontend/internal/cargo/repository"
	"github.com/bbaku36/TUTUYU-Frontend/internal/events"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Customer-facing messages stay in Mongolian; detail for operators goes to
// the log instead.
const (
	msgBarcodeRequired = "Бар код заавал"
	msgPinCreated      = "4 оронтой хүргэлтийн PIN үүсгэлээ. 99205050 дугаарт залгаж лавлана уу."
	msgPinInvalid      = "Хүргэлтийн PIN шаардлагатай (буруу байна)."
	msgPhoneRequired   = "Phone required for delivery"
)

// ShipmentService is the reconciliation engine: every mutation goes through
// here so status, delivery_status, location, paid_amount and balance cannot
// drift apart. Read-modify-write operations run in one transaction with a row
// lock where the dialect supports it.
type ShipmentService struct {
	db        *gorm.DB
	shipments *repository.ShipmentRepository
	pins      *PinService
	publisher events.Publisher
	logger    *zap.Logger
}

func NewShipmentService(db *gorm.DB, shipments *repository.ShipmentRepository, pins *PinService, publisher events.Publisher, logger *zap.Logger) *ShipmentService {
	return &ShipmentService{db: db, shipments: shipments, pins: pins, publisher: publisher, logger: logger}
}

// CreateShipmentRequest carries intake fields. Omitted numerics fall back to
// the intake defaults.
type CreateShipmentRequest struct {
	Barcode        string     `json:"barcode"`
	Phone          string     `json:"phone"`
	CustomerName   string     `json:"customer_name"`
	Quantity       *int       `json:"quantity"`
	Weight         *float64   `json:"weight"`
	Price          *int64     `json:"price"`
	PaidAmount     *int64     `json:"paid_amount"`
	Status         string     `json:"status"`
	DeliveryStatus string     `json:"delivery_status"`
	Location       string     `json:"location"`
	ArrivalDate    string     `json:"arrival_date"`
	Notes          string     `json:"notes"`
	DeliveryNote   string     `json:"delivery_note"`
	Courier        string     `json:"courier"`
	DeliveredAt    *time.Time `json:"delivered_at"`
}

// UpdateShipmentRequest is a shallow overlay: only non-nil fields replace the
// stored value. Pin/DeliveryPin carry the customer PIN for delivery requests.
type UpdateShipmentRequest struct {
	Barcode        *string  `json:"barcode"`
	Phone          *string  `json:"phone"`
	CustomerName   *string  `json:"customer_name"`
	Quantity       *int     `json:"quantity"`
	Weight         *float64 `json:"weight"`
	Price          *int64   `json:"price"`
	PaidAmount     *int64   `json:"paid_amount"`
	Status         *string  `json:"status"`
	DeliveryStatus *string  `json:"delivery_status"`
	Location       *string  `json:"location"`
	ArrivalDate    *string  `json:"arrival_date"`
	Notes          *string  `json:"notes"`
	DeliveryNote   *string  `json:"delivery_note"`
	Courier        *string  `json:"courier"`
	Pin            *string  `json:"pin"`
	DeliveryPin    *string  `json:"delivery_pin"`
}

// StatusPatchRequest patches the status triple; omitted fields keep their
// stored values.
type StatusPatchRequest struct {
	Status         *string `json:"status"`
	Location       *string `json:"location"`
	DeliveryStatus *string `json:"delivery_status"`
}

// BatchRequest applies one uniform action to a set of shipments.
type BatchRequest struct {
	Action  string            `json:"action"`
	IDs     []uint            `json:"ids"`
	Updates map[string]string `json:"updates"`
}

func deliveryStatusFor(location string) string {
	if location == entity.LocationDelivery {
		return entity.DeliveryOngoing
	}
	return entity.DeliveryWarehouse
}

func parseArrivalDate(s string) *entity.DateOnly {
	if s == "" {
		return nil
	}
	var d entity.DateOnly
	if err := (&d).Scan(s); err != nil {
		return nil
	}
	return &d
}

// Create performs intake. Barcode is mandatory; everything else defaults.
func (s *ShipmentService) Create(ctx context.Context, req *CreateShipmentRequest) (*entity.Shipment, error) {
	barcode := strings.TrimSpace(req.Barcode)
	if barcode == "" {
		return nil, NewValidationError(msgBarcodeRequired)
	}

	quantity := 1
	if req.Quantity != nil && *req.Quantity != 0 {
		quantity = *req.Quantity
	}
	var weight float64
	if req.Weight != nil {
		weight = *req.Weight
	}
	var price, paid int64
	if req.Price != nil {
		price = *req.Price
	}
	if req.PaidAmount != nil {
		paid = *req.PaidAmount
	}

	status := req.Status
	if status == "" {
		status = entity.StatusReceived
	}
	location := strings.ToLower(strings.TrimSpace(req.Location))
	if location == "" {
		location = entity.LocationWarehouse
	}
	deliveryStatus := req.DeliveryStatus
	if deliveryStatus == "" {
		deliveryStatus = deliveryStatusFor(location)
	}

	arrival := parseArrivalDate(req.ArrivalDate)
	if arrival == nil {
		today := entity.NewDateOnly(time.Now())
		arrival = &today
	}

	shipment := &entity.Shipment{
		Barcode:        barcode,
		Phone:          strings.TrimSpace(req.Phone),
		CustomerName:   strings.TrimSpace(req.CustomerName),
		Quantity:       quantity,
		Weight:         weight,
		Price:          price,
		PaidAmount:     paid,
		Balance:        price - paid,
		Status:         status,
		DeliveryStatus: deliveryStatus,
		Location:       location,
		ArrivalDate:    arrival,
		Notes:          req.Notes,
		DeliveryNote:   req.DeliveryNote,
		Courier:        req.Courier,
		DeliveredAt:    req.DeliveredAt,
	}

	if err := s.shipments.Create(ctx, shipment); err != nil {
		return nil, err
	}
	s.publish(ctx, events.TypeCreated, shipment)
	return shipment, nil
}

// FullUpdate merges the request over the stored row, recomputes the balance
// and enforces the delivery PIN gate. Moving a parcel to delivery requires a
// verified customer PIN unless the caller holds the admin bypass; even then a
// PIN is provisioned so the customer can be reached later.
func (s *ShipmentService) FullUpdate(ctx context.Context, id uint, req *UpdateShipmentRequest, auth AuthContext) (*entity.Shipment, error) {
	var updated *entity.Shipment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		shipments := s.shipments.WithTx(tx)
		existing, err := shipments.FindByIDLocked(ctx, id)
		if err != nil {
			return err
		}

		merged := *existing
		if req.Barcode != nil {
			merged.Barcode = *req.Barcode
		}
		if req.Phone != nil {
			merged.Phone = *req.Phone
		}
		if req.CustomerName != nil {
			merged.CustomerName = *req.CustomerName
		}
		if req.Quantity != nil {
			merged.Quantity = *req.Quantity
		}
		if req.Weight != nil {
			merged.Weight = *req.Weight
		}
		if req.Price != nil {
			merged.Price = *req.Price
		}
		if req.PaidAmount != nil {
			merged.PaidAmount = *req.PaidAmount
		}
		if req.Status != nil {
			merged.Status = *req.Status
		}
		if req.DeliveryStatus != nil {
			merged.DeliveryStatus = *req.DeliveryStatus
		}
		if req.Location != nil {
			merged.Location = *req.Location
		}
		if req.Notes != nil {
			merged.Notes = *req.Notes
		}
		if req.DeliveryNote != nil {
			merged.DeliveryNote = *req.DeliveryNote
		}
		if req.Courier != nil {
			merged.Courier = *req.Courier
		}
		if req.ArrivalDate != nil {
			if d := parseArrivalDate(*req.ArrivalDate); d != nil {
				merged.ArrivalDate = d
			}
		}

		if merged.Quantity == 0 {
			merged.Quantity = 1
		}
		merged.Balance = merged.Price - merged.PaidAmount

		if normalized := NormalizePhone(merged.Phone); normalized != "" {
			merged.Phone = normalized
		}
		merged.Location = strings.ToLower(strings.TrimSpace(merged.Location))

		wantsDelivery := merged.Location == entity.LocationDelivery
		if wantsDelivery {
			if merged.DeliveryStatus == "" {
				merged.DeliveryStatus = entity.DeliveryOngoing
			}
		} else {
			merged.DeliveryStatus = entity.DeliveryWarehouse
		}

		if wantsDelivery && !auth.BypassPin {
			phone := merged.Phone
			if phone == "" {
				return NewValidationError(msgPhoneRequired)
			}

			ensured, err := s.pins.EnsurePin(ctx, phone, false)
			if err != nil {
				return err
			}
			candidate := ""
			if req.Pin != nil {
				candidate = *req.Pin
			} else if req.DeliveryPin != nil {
				candidate = *req.DeliveryPin
			}
			ok, err := s.pins.VerifyPin(ctx, phone, candidate)
			if err != nil {
				return err
			}
			if !ok {
				msg := msgPinInvalid
				if ensured.Created {
					msg = msgPinCreated
				}
				return &PinRequiredError{PinCreated: ensured.Created, Message: msg}
			}
		} else if wantsDelivery && auth.BypassPin && merged.Phone != "" {
			// Bypass still provisions a PIN so the customer can self-serve later.
			if _, err := s.pins.EnsurePin(ctx, merged.Phone, false); err != nil {
				return err
			}
		}

		if err := shipments.Update(ctx, &merged); err != nil {
			return err
		}
		updated = &merged
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.TypeStatusChanged, updated)
	return updated, nil
}

// StatusPatch updates the status triple. delivered_at is written once on the
// first transition to delivered and cleared when delivery is canceled or the
// parcel goes back to pending. A pending status resets the payment state to
// the full price.
func (s *ShipmentService) StatusPatch(ctx context.Context, id uint, req *StatusPatchRequest) (*entity.Shipment, error) {
	var updated *entity.Shipment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		shipments := s.shipments.WithTx(tx)
		existing, err := shipments.FindByIDLocked(ctx, id)
		if err != nil {
			return err
		}

		status := existing.Status
		if req.Status != nil && *req.Status != "" {
			status = *req.Status
		}
		location := existing.Location
		if req.Location != nil && *req.Location != "" {
			location = *req.Location
		}
		location = strings.ToLower(strings.TrimSpace(location))
		if location == "" {
			location = entity.LocationWarehouse
		}
		deliveryStatus := existing.DeliveryStatus
		if req.DeliveryStatus != nil && *req.DeliveryStatus != "" {
			deliveryStatus = *req.DeliveryStatus
		}
		if deliveryStatus == "" {
			deliveryStatus = deliveryStatusFor(location)
		}

		deliveredAt := existing.DeliveredAt
		switch deliveryStatus {
		case entity.DeliveryDelivered:
			if deliveredAt == nil {
				now := time.Now()
				deliveredAt = &now
			}
		case entity.DeliveryCanceled, entity.StatusPending:
			deliveredAt = nil
		}

		// A pending status is a full un-payment: the balance snaps back to the
		// declared price instead of being recomputed from paid_amount.
		paid := existing.PaidAmount
		balance := existing.Balance
		if status == entity.StatusPending {
			paid = 0
			balance = existing.Price
		}

		merged := *existing
		merged.Status = status
		merged.Location = location
		merged.DeliveryStatus = deliveryStatus
		merged.DeliveredAt = deliveredAt
		merged.PaidAmount = paid
		merged.Balance = balance

		if err := shipments.Update(ctx, &merged); err != nil {
			return err
		}
		updated = &merged
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.TypeStatusChanged, updated)
	return updated, nil
}

// Batch action names accepted by the contract.
const (
	BatchDelete   = "delete"
	BatchPayAll   = "payAll"
	BatchUnpayAll = "unpayAll"
	BatchArchive  = "archive"
	BatchUpdate   = "update"
)

// batchUpdateColumns whitelists the uniform-update fields and maps them onto
// columns. delivery_address lands in notes, which doubles as the address.
var batchUpdateColumns = map[string]string{
	"status":           "status",
	"delivery_status":  "delivery_status",
	"location":         "location",
	"delivery_address": "notes",
	"delivery_note":    "delivery_note",
}

// Batch runs one set-based transformation across the given ids and returns
// the number of targeted rows.
func (s *ShipmentService) Batch(ctx context.Context, req *BatchRequest) (int, error) {
	if len(req.IDs) == 0 {
		return 0, NewValidationError("No IDs provided")
	}

	switch req.Action {
	case BatchDelete:
		if err := s.shipments.BatchDelete(ctx, req.IDs); err != nil {
			return 0, err
		}
	case BatchPayAll:
		if err := s.shipments.BatchPayAll(ctx, req.IDs); err != nil {
			return 0, err
		}
	case BatchUnpayAll:
		if err := s.shipments.BatchUnpayAll(ctx, req.IDs); err != nil {
			return 0, err
		}
	case BatchArchive:
		if err := s.shipments.BatchArchive(ctx, req.IDs); err != nil {
			return 0, err
		}
		for _, id := range req.IDs {
			s.publish(ctx, events.TypeArchived, &entity.Shipment{ID: id, Status: entity.StatusArchived})
		}
	case BatchUpdate:
		fields := make(map[string]interface{})
		for key, val := range req.Updates {
			if col, ok := batchUpdateColumns[key]; ok {
				fields[col] = val
			}
		}
		if err := s.shipments.BatchUpdate(ctx, req.IDs, fields); err != nil {
			return 0, err
		}
	default:
		return 0, NewValidationError("Invalid batch action")
	}

	return len(req.IDs), nil
}

// List returns a filtered page. Rows with a phone but no PIN get one lazily
// provisioned so the back office always has something to read out to the
// customer.
func (s *ShipmentService) List(ctx context.Context, f repository.ShipmentFilters, page, limit int) ([]entity.Shipment, int64, error) {
	rows, total, err := s.shipments.FindAll(ctx, f, page, limit)
	if err != nil {
		return nil, 0, err
	}
	for i := range rows {
		s.attachPin(ctx, &rows[i])
	}
	return rows, total, nil
}

func (s *ShipmentService) Get(ctx context.Context, id uint) (*entity.Shipment, error) {
	shipment, err := s.shipments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.attachPin(ctx, shipment)
	return shipment, nil
}

func (s *ShipmentService) attachPin(ctx context.Context, shipment *entity.Shipment) {
	if shipment.Phone == "" {
		return
	}
	res, err := s.pins.EnsurePin(ctx, shipment.Phone, true)
	if err != nil {
		s.logger.Warn("ensure pin failed", zap.Uint("shipment_id", shipment.ID), zap.Error(err))
		return
	}
	shipment.PinPlain = res.Pin
}

// ArchiveSettled archives delivered, fully paid shipments older than the
// retention window. Runs from the cron worker and the maintenance endpoint.
func (s *ShipmentService) ArchiveSettled(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		retentionDays = 30
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	n, err := s.shipments.ArchiveSettled(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("archived settled shipments", zap.Int64("count", n), zap.Int("retention_days", retentionDays))
	}
	return n, nil
}

// publish is best effort: a broker outage must never fail a mutation.
func (s *ShipmentService) publish(ctx context.Context, eventType string, shipment *entity.Shipment) {
	if shipment == nil {
		return
	}
	evt := events.ShipmentEvent{
		Type:           eventType,
		ShipmentID:     shipment.ID,
		Status:         shipment.Status,
		DeliveryStatus: shipment.DeliveryStatus,
		Location:       shipment.Location,
		Balance:        shipment.Balance,
		At:             time.Now(),
	}
	key := strconv.FormatUint(uint64(shipment.ID), 10)
	if err := s.publisher.Publish(ctx, key, evt); err != nil {
		s.logger.Warn("publish shipment event failed", zap.String("type", eventType), zap.Error(err))
	}
}
