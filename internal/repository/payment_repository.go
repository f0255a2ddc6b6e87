package repository

import (
	"context"
	"errors"

	"github.com/gethired/gethired/internal/database"
	"github.com/gethired/gethired/internal/domain/payment"
)

var (
	ErrCheckoutNotFound = errors.New("checkout session not found")
	ErrInvoiceNotFound  = errors.New("invoice not found")
)

type PaymentRepository interface {
	GetCheckoutSession(ctx context.Context, id string) (payment.CheckoutSession, error)
	GetInvoice(ctx context.Context, id string) (payment.Invoice, error)
}

type PostgresPaymentRepository struct {
	db database.DB
}

func NewPostgresPaymentRepository(db database.DB) *PostgresPaymentRepository {
	return &PostgresPaymentRepository{db: db}
}

func (r *PostgresPaymentRepository) GetCheckoutSession(ctx context.Context, id string) (payment.CheckoutSession, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, user_id, status, amount_cent, currency, credits_for, created_at
		 FROM checkout_sessions WHERE id = $1`, id)

	var s payment.CheckoutSession
	err := row.Scan(&s.ID, &s.UserID, &s.Status, &s.AmountCent, &s.Currency, &s.CreditsFor, &s.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return payment.CheckoutSession{}, ErrCheckoutNotFound
		}
		return payment.CheckoutSession{}, err
	}
	return s, nil
}

func (r *PostgresPaymentRepository) GetInvoice(ctx context.Context, id string) (payment.Invoice, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, user_id, session_id, amount_cent, currency, pdf_url, issued_at
		 FROM invoices WHERE id = $1`, id)

	var inv payment.Invoice
	err := row.Scan(&inv.ID, &inv.UserID, &inv.SessionID, &inv.AmountCent, &inv.Currency, &inv.PDFURL, &inv.IssuedAt)
	if err != nil {
		if isNoRows(err) {
			return payment.Invoice{}, ErrInvoiceNotFound
		}
		return payment.Invoice{}, err
	}
	return inv, nil
}
