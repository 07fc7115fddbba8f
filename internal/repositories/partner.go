package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"happy-tails/internal/models"
)

// PartnerRepository handles vendor and event manager records. Both are
// created together with the backing user account.
type PartnerRepository struct {
	db *sql.DB
}

// NewPartnerRepository creates a new partner repository
func NewPartnerRepository(db *sql.DB) *PartnerRepository {
	return &PartnerRepository{db: db}
}

const (
	vendorColumns  = `id, user_id, store_name, owner_name, email, phone, address, gst_number, status, created_at, updated_at`
	managerColumns = `id, user_id, name, email, phone, organization, status, created_at, updated_at`
)

func scanVendor(row rowScanner) (*models.Vendor, error) {
	v := &models.Vendor{}
	err := row.Scan(&v.ID, &v.UserID, &v.StoreName, &v.OwnerName, &v.Email, &v.Phone, &v.Address, &v.GSTNumber, &v.Status, &v.CreatedAt, &v.UpdatedAt)
	return v, err
}

func scanManager(row rowScanner) (*models.EventManager, error) {
	m := &models.EventManager{}
	err := row.Scan(&m.ID, &m.UserID, &m.Name, &m.Email, &m.Phone, &m.Organization, &m.Status, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

// CreateVendor creates the user account and the vendor record
func (r *PartnerRepository) CreateVendor(ctx context.Context, user *models.User, vendor *models.Vendor) (*models.Vendor, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertUser(ctx, tx, user); err != nil {
		return nil, err
	}

	now := time.Now()
	created, err := scanVendor(tx.QueryRowContext(ctx, `
		INSERT INTO vendors (user_id, store_name, owner_name, email, phone, address, gst_number, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+vendorColumns,
		user.ID, vendor.StoreName, vendor.OwnerName, vendor.Email, vendor.Phone, vendor.Address, vendor.GSTNumber, vendor.Status, now, now,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create vendor: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit vendor creation: %w", err)
	}
	return created, nil
}

// CreateEventManager creates the user account and the event manager record
func (r *PartnerRepository) CreateEventManager(ctx context.Context, user *models.User, manager *models.EventManager) (*models.EventManager, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertUser(ctx, tx, user); err != nil {
		return nil, err
	}

	now := time.Now()
	created, err := scanManager(tx.QueryRowContext(ctx, `
		INSERT INTO event_managers (user_id, name, email, phone, organization, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+managerColumns,
		user.ID, manager.Name, manager.Email, manager.Phone, manager.Organization, manager.Status, now, now,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create event manager: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit event manager creation: %w", err)
	}
	return created, nil
}

// GetVendor retrieves a vendor by ID
func (r *PartnerRepository) GetVendor(ctx context.Context, id int) (*models.Vendor, error) {
	vendor, err := scanVendor(r.db.QueryRowContext(ctx, `SELECT `+vendorColumns+` FROM vendors WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrVendorNotFound
		}
		return nil, fmt.Errorf("failed to get vendor: %w", err)
	}
	return vendor, nil
}

// GetEventManager retrieves an event manager by ID
func (r *PartnerRepository) GetEventManager(ctx context.Context, id int) (*models.EventManager, error) {
	manager, err := scanManager(r.db.QueryRowContext(ctx, `SELECT `+managerColumns+` FROM event_managers WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrManagerNotFound
		}
		return nil, fmt.Errorf("failed to get event manager: %w", err)
	}
	return manager, nil
}

// ListVendors returns vendors, newest first
func (r *PartnerRepository) ListVendors(ctx context.Context, limit, offset int) ([]models.Vendor, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `SELECT `+vendorColumns+` FROM vendors ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list vendors: %w", err)
	}
	defer rows.Close()

	vendors := []models.Vendor{}
	for rows.Next() {
		v, err := scanVendor(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vendor: %w", err)
		}
		vendors = append(vendors, *v)
	}
	return vendors, rows.Err()
}

// ListEventManagers returns event managers, newest first
func (r *PartnerRepository) ListEventManagers(ctx context.Context, limit, offset int) ([]models.EventManager, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `SELECT `+managerColumns+` FROM event_managers ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list event managers: %w", err)
	}
	defer rows.Close()

	managers := []models.EventManager{}
	for rows.Next() {
		m, err := scanManager(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event manager: %w", err)
		}
		managers = append(managers, *m)
	}
	return managers, rows.Err()
}

// UpdateVendor applies a partner update to a vendor. Name maps to the store name.
func (r *PartnerRepository) UpdateVendor(ctx context.Context, id int, req *models.PartnerUpdateRequest) (*models.Vendor, error) {
	if err := r.update(ctx, "vendors", "store_name", id, req, models.ErrVendorNotFound); err != nil {
		return nil, err
	}
	return r.GetVendor(ctx, id)
}

// UpdateEventManager applies a partner update to an event manager
func (r *PartnerRepository) UpdateEventManager(ctx context.Context, id int, req *models.PartnerUpdateRequest) (*models.EventManager, error) {
	if err := r.update(ctx, "event_managers", "name", id, req, models.ErrManagerNotFound); err != nil {
		return nil, err
	}
	return r.GetEventManager(ctx, id)
}

func (r *PartnerRepository) update(ctx context.Context, table, nameColumn string, id int, req *models.PartnerUpdateRequest, notFound error) error {
	if err := req.Validate(); err != nil {
		return models.NewValidationError("partner", err.Error())
	}

	set := newSetBuilder()
	setField(set, nameColumn, req.Name)
	setField(set, "phone", req.Phone)
	setField(set, "status", req.Status)
	if set.empty() {
		return nil
	}
	set.addValue("updated_at", time.Now())

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d", table, set.clause(), set.next())
	result, err := r.db.ExecContext(ctx, query, append(set.args, id)...)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", table, err)
	}
	return expectRow(result, notFound)
}

// DeleteVendor removes a vendor record. The user account is kept.
func (r *PartnerRepository) DeleteVendor(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM vendors WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete vendor: %w", err)
	}
	return expectRow(result, models.ErrVendorNotFound)
}

// DeleteEventManager removes an event manager record
func (r *PartnerRepository) DeleteEventManager(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM event_managers WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete event manager: %w", err)
	}
	return expectRow(result, models.ErrManagerNotFound)
}
