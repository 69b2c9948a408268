// Package database provides database operations for the claims engine.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"healthcare-claims-engine/internal/models"
)

const invoiceColumns = `id, claim_id, patient_id, total_amount, payment_status, hospital_id, created_at`

// InvoiceRepository handles invoice database operations.
type InvoiceRepository struct {
	db *DB
}

// NewInvoiceRepository creates a new invoice repository.
func NewInvoiceRepository(db *DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// GetByClaimID retrieves the invoice referencing a claim, if any.
func (r *InvoiceRepository) GetByClaimID(ctx context.Context, claimID string) (*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE claim_id = $1`

	invoice, err := scanInvoice(r.db.QueryRowContext(ctx, query, claimID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invoice by claim: %w", err)
	}
	return invoice, nil
}

// CreateWithItems inserts an invoice and its line items in a single
// transaction. A partial failure rolls back the whole invoice.
func (r *InvoiceRepository) CreateWithItems(ctx context.Context, invoice *models.InvoiceCreate, items []models.InvoiceItemCreate) (*models.Invoice, error) {
	var created *models.Invoice

	err := r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `
			INSERT INTO invoices (id, claim_id, patient_id, total_amount, payment_status, hospital_id, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING `+invoiceColumns,
			uuid.New().String(),
			invoice.ClaimID,
			invoice.PatientID,
			invoice.TotalAmount,
			string(invoice.PaymentStatus),
			invoice.HospitalID,
			time.Now().UTC(),
		)

		inv, err := scanInvoice(row)
		if err != nil {
			if isUniqueViolation(err) {
				return models.Conflict("Invoice already exists for this claim")
			}
			return fmt.Errorf("failed to insert invoice: %w", err)
		}

		for _, item := range items {
			itemType := item.ItemType
			if itemType == "" {
				itemType = models.ItemTypeOther
			}
			_, err := tx.Exec(ctx, `
				INSERT INTO invoice_items (id, invoice_id, description, amount, item_type)
				VALUES ($1, $2, $3, $4, $5)`,
				uuid.New().String(),
				inv.ID,
				item.Description,
				item.Amount,
				string(itemType),
			)
			if err != nil {
				return fmt.Errorf("failed to insert invoice item: %w", err)
			}
		}

		created = inv
		return nil
	})

	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetItems retrieves the line items of an invoice.
func (r *InvoiceRepository) GetItems(ctx context.Context, invoiceID string) ([]*models.InvoiceItem, error) {
	query := `SELECT id, invoice_id, description, amount, item_type FROM invoice_items WHERE invoice_id = $1 ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoice items: %w", err)
	}
	defer rows.Close()

	var items []*models.InvoiceItem
	for rows.Next() {
		var item models.InvoiceItem
		var itemType string
		if err := rows.Scan(&item.ID, &item.InvoiceID, &item.Description, &item.Amount, &itemType); err != nil {
			return nil, fmt.Errorf("failed to scan invoice item: %w", err)
		}
		item.ItemType = models.ItemType(itemType)
		items = append(items, &item)
	}

	return items, rows.Err()
}

// GetAll retrieves every invoice, oldest first.
func (r *InvoiceRepository) GetAll(ctx context.Context) ([]*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoices: %w", err)
	}
	defer rows.Close()

	var invoices []*models.Invoice
	for rows.Next() {
		invoice, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		invoices = append(invoices, invoice)
	}

	return invoices, rows.Err()
}

// scanInvoice reads one invoice row from a pgx.Row or pgx.Rows.
func scanInvoice(row pgx.Row) (*models.Invoice, error) {
	var invoice models.Invoice
	var status string

	err := row.Scan(
		&invoice.ID,
		&invoice.ClaimID,
		&invoice.PatientID,
		&invoice.TotalAmount,
		&status,
		&invoice.HospitalID,
		&invoice.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	invoice.PaymentStatus = models.PaymentStatus(status)
	return &invoice, nil
}
