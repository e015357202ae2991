package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/hotel-room-booking/internal/model"
)

// PaymentRepo provides data access to the payments table.  Payments
// reference bookings by their external reference string, not their
// numeric id.
type PaymentRepo struct {
	db *sql.DB
}

// NewPaymentRepo returns a new PaymentRepo bound to the provided database.
func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

const paymentCols = `id, booking_reference, amount, method, status, transaction_id, created_at, updated_at`

func scanPayment(row interface{ Scan(...any) error }) (*model.Payment, error) {
	var (
		p     model.Payment
		txnID sql.NullString
	)
	if err := row.Scan(&p.ID, &p.BookingRef, &p.Amount, &p.Method, &p.Status,
		&txnID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if txnID.Valid {
		v := txnID.String
		p.TransactionID = &v
	}
	return &p, nil
}

// Create inserts a payment row and reads it back so DB-assigned fields
// are populated.
func (r *PaymentRepo) Create(ctx context.Context, p *model.Payment) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO payments (booking_reference, amount, method, status) VALUES (?, ?, ?, ?)`,
		p.BookingRef, p.Amount, p.Method, p.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)

	created, err := scanPayment(r.db.QueryRowContext(ctx,
		`SELECT `+paymentCols+` FROM payments WHERE id = ?`, p.ID))
	if err != nil {
		return err
	}
	p.CreatedAt = created.CreatedAt
	p.UpdatedAt = created.UpdatedAt
	return nil
}

// GetByBookingRef returns the most recent payment recorded against the
// booking reference, or ErrPaymentNotFound when none exists.  FAILED
// attempts may pile up; the newest row is the one that matters for the
// one-non-FAILED-payment invariant.
func (r *PaymentRepo) GetByBookingRef(ctx context.Context, ref string) (*model.Payment, error) {
	p, err := scanPayment(r.db.QueryRowContext(ctx,
		`SELECT `+paymentCols+` FROM payments WHERE booking_reference = ? ORDER BY id DESC LIMIT 1`, ref))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return p, nil
}

// GetActiveByBookingRef returns the booking's newest non-FAILED payment,
// or ErrPaymentNotFound.
func (r *PaymentRepo) GetActiveByBookingRef(ctx context.Context, ref string) (*model.Payment, error) {
	p, err := scanPayment(r.db.QueryRowContext(ctx,
		`SELECT `+paymentCols+` FROM payments
		 WHERE booking_reference = ? AND status <> 'FAILED'
		 ORDER BY id DESC LIMIT 1`, ref))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return p, nil
}

// UpdateStatus sets a payment's status and, when non-nil, its provider
// transaction id.  Returns false when the payment does not exist.
func (r *PaymentRepo) UpdateStatus(ctx context.Context, paymentID uint64, status model.PaymentStatus, transactionID *string) (bool, error) {
	var (
		res sql.Result
		err error
	)
	if transactionID != nil {
		res, err = r.db.ExecContext(ctx,
			`UPDATE payments SET status = ?, transaction_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
			status, *transactionID, paymentID)
	} else {
		res, err = r.db.ExecContext(ctx,
			`UPDATE payments SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
			status, paymentID)
	}
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
