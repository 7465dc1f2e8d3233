package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bbaku36/TUTUYU-Frontend/internal/cargo/entity"
	"gorm.io/gorm"
)

// ShipmentRepository owns all shipment table access.
type ShipmentRepository struct {
	db *gorm.DB
}

func NewShipmentRepository(db *gorm.DB) *ShipmentRepository {
	return &ShipmentRepository{db: db}
}

// WithTx returns a copy bound to the given transaction.
func (r *ShipmentRepository) WithTx(tx *gorm.DB) *ShipmentRepository {
	return &ShipmentRepository{db: tx}
}

// ShipmentFilters are the supported listing filters. Phone, Barcode and
// Search match substrings case-insensitively; Status and Location are exact.
type ShipmentFilters struct {
	Phone    string
	Barcode  string
	Status   string
	Location string
	DateFrom string
	DateTo   string
	Search   string
}

func contains(v string) string {
	return "%" + strings.ToLower(v) + "%"
}

func (r *ShipmentRepository) applyFilters(q *gorm.DB, f ShipmentFilters) *gorm.DB {
	if f.Phone != "" {
		q = q.Where("LOWER(phone) LIKE ?", contains(f.Phone))
	}
	if f.Barcode != "" {
		q = q.Where("LOWER(barcode) LIKE ?", contains(f.Barcode))
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Location != "" {
		q = q.Where("location = ?", f.Location)
	}
	if f.DateFrom != "" {
		q = q.Where("arrival_date >= ?", f.DateFrom)
	}
	if f.DateTo != "" {
		q = q.Where("arrival_date <= ?", f.DateTo)
	}
	if f.Search != "" {
		s := contains(f.Search)
		q = q.Where("LOWER(phone) LIKE ? OR LOWER(barcode) LIKE ? OR LOWER(COALESCE(notes,'')) LIKE ?", s, s, s)
	}
	return q
}

// FindAll returns one page of shipments plus the unpaginated total.
// Ordering is arrival_date descending with nulls last, then id descending so
// same-date rows come back newest-inserted first.
func (r *ShipmentRepository) FindAll(ctx context.Context, f ShipmentFilters, page, limit int) ([]entity.Shipment, int64, error) {
	var rows []entity.Shipment
	var total int64

	base := r.applyFilters(r.db.WithContext(ctx).Model(&entity.Shipment{}), f)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := base.
		Order("arrival_date DESC NULLS LAST").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&rows).Error
	return rows, total, err
}

func (r *ShipmentRepository) FindByID(ctx context.Context, id uint) (*entity.Shipment, error) {
	var s entity.Shipment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// FindByIDLocked loads a row under a FOR UPDATE lock (postgres) for
// read-modify-write sequences.
func (r *ShipmentRepository) FindByIDLocked(ctx context.Context, id uint) (*entity.Shipment, error) {
	var s entity.Shipment
	err := forUpdate(r.db.WithContext(ctx)).Where("id = ?", id).First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *ShipmentRepository) Create(ctx context.Context, s *entity.Shipment) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *ShipmentRepository) Update(ctx context.Context, s *entity.Shipment) error {
	return r.db.WithContext(ctx).Save(s).Error
}

// BatchDelete hard-removes shipments and their payment ledger rows in one
// transaction. Payments are removed explicitly so behavior does not depend on
// the dialect honoring the FK cascade.
func (r *ShipmentRepository) BatchDelete(ctx context.Context, ids []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("shipment_id IN ?", ids).Delete(&entity.Payment{}).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", ids).Delete(&entity.Shipment{}).Error
	})
}

// BatchPayAll settles every listed shipment in a single statement.
func (r *ShipmentRepository) BatchPayAll(ctx context.Context, ids []uint) error {
	return r.db.WithContext(ctx).Model(&entity.Shipment{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{
			"paid_amount": gorm.Expr("price"),
			"balance":     0,
			"status":      entity.StatusPaid,
		}).Error
}

// BatchUnpayAll reverses payment state and returns parcels to the warehouse.
func (r *ShipmentRepository) BatchUnpayAll(ctx context.Context, ids []uint) error {
	return r.db.WithContext(ctx).Model(&entity.Shipment{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{
			"paid_amount":     0,
			"balance":         gorm.Expr("price"),
			"status":          entity.StatusPending,
			"location":        entity.LocationWarehouse,
			"delivery_status": "",
		}).Error
}

func (r *ShipmentRepository) BatchArchive(ctx context.Context, ids []uint) error {
	return r.db.WithContext(ctx).Model(&entity.Shipment{}).
		Where("id IN ?", ids).
		Update("status", entity.StatusArchived).Error
}

// BatchUpdate applies an already-whitelisted column set uniformly.
func (r *ShipmentRepository) BatchUpdate(ctx context.Context, ids []uint, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&entity.Shipment{}).
		Where("id IN ?", ids).
		Updates(fields).Error
}

// ArchiveSettled marks delivered, fully paid shipments older than the cutoff
// as archived. Returns the number of rows touched.
func (r *ShipmentRepository) ArchiveSettled(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&entity.Shipment{}).
		Where("status <> ?", entity.StatusArchived).
		Where("delivery_status = ?", entity.DeliveryDelivered).
		Where("balance <= 0").
		Where("arrival_date < ?", cutoff.Format("2006-01-02")).
		Update("status", entity.StatusArchived)
	return res.RowsAffected, res.Error
}

// StatsTotals is the aggregate row for the summary endpoint.
type StatsTotals struct {
	Count   int64 `json:"count"`
	Price   int64 `json:"price"`
	Balance int64 `json:"balance"`
}

func (r *ShipmentRepository) StatsSummary(ctx context.Context) (*StatsTotals, map[string]int64, error) {
	var totals StatsTotals
	err := r.db.WithContext(ctx).Model(&entity.Shipment{}).
		Select("COUNT(*) AS count, COALESCE(SUM(price),0) AS price, COALESCE(SUM(balance),0) AS balance").
		Scan(&totals).Error
	if err != nil {
		return nil, nil, err
	}

	var rows []struct {
		Status string
		Count  int64
	}
	err = r.db.WithContext(ctx).Model(&entity.Shipment{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, nil, err
	}

	byStatus := make(map[string]int64, len(rows))
	for _, row := range rows {
		byStatus[row.Status] = row.Count
	}
	return &totals, byStatus, nil
}

// Ping exercises the underlying connection for the liveness probe.
func (r *ShipmentRepository) Ping(ctx context.Context) error {
	return r.db.WithContext(ctx).Exec("SELECT 1").Error
}
