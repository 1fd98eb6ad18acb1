package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pedrosantos-tech/crypto-shipping-app/internal/domain"
)

const labelColumns = `
id, user_id,
from_name, from_company, from_street1, from_street2, from_city, from_state, from_zip, from_phone, from_email,
to_name, to_company, to_street1, to_street2, to_city, to_state, to_zip, to_phone, to_email,
weight, service, cost, tracking_number, status, COALESCE(pdf_url, ''), created_at`

// LabelRepository persists shipping labels. Addresses are flattened into
// from_*/to_* column groups.
type LabelRepository struct {
	pool *pgxpool.Pool
}

func NewLabelRepository(pool *pgxpool.Pool) *LabelRepository {
	return &LabelRepository{pool: pool}
}

func (r *LabelRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *LabelRepository) InsertLabel(ctx context.Context, label domain.ShippingLabel) error {
	const stmt = `
INSERT INTO labels (
	id, user_id,
	from_name, from_company, from_street1, from_street2, from_city, from_state, from_zip, from_phone, from_email,
	to_name, to_company, to_street1, to_street2, to_city, to_state, to_zip, to_phone, to_email,
	weight, service, cost, tracking_number, status, created_at
) VALUES (
	$1, $2,
	$3, $4, $5, $6, $7, $8, $9, $10, $11,
	$12, $13, $14, $15, $16, $17, $18, $19, $20,
	$21, $22, $23, $24, $25, $26
)`

	_, err := r.exec(ctx, stmt,
		label.ID, label.UserID,
		label.From.Name, label.From.Company, label.From.Street1, label.From.Street2,
		label.From.City, label.From.State, label.From.Zip, label.From.Phone, label.From.Email,
		label.To.Name, label.To.Company, label.To.Street1, label.To.Street2,
		label.To.City, label.To.State, label.To.Zip, label.To.Phone, label.To.Email,
		label.Weight, label.Service, label.Cost, label.TrackingNumber, label.Status, label.CreatedAt,
	)
	if err != nil {
		if uniqueConstraint(err) == "labels_tracking_number_key" {
			return domain.ErrTrackingClash
		}
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("insert label: %w", err)
	}
	return nil
}

func (r *LabelRepository) GetLabel(ctx context.Context, labelID string) (domain.ShippingLabel, error) {
	query := `SELECT ` + labelColumns + ` FROM labels WHERE id = $1`
	return r.scanLabel(r.queryRow(ctx, query, labelID))
}

func (r *LabelRepository) GetLabelForUpdate(ctx context.Context, labelID string) (domain.ShippingLabel, error) {
	query := `SELECT ` + labelColumns + ` FROM labels WHERE id = $1 FOR UPDATE`
	return r.scanLabel(r.queryRow(ctx, query, labelID))
}

func (r *LabelRepository) UpdateLabelStatus(ctx context.Context, labelID string, status domain.LabelStatus) error {
	const stmt = `UPDATE labels SET status = $2 WHERE id = $1`

	tag, err := r.exec(ctx, stmt, labelID, status)
	if err != nil {
		return fmt.Errorf("update label status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrLabelNotFound
	}
	return nil
}

func (r *LabelRepository) UpdateLabelPDFURL(ctx context.Context, labelID, url string) error {
	const stmt = `UPDATE labels SET pdf_url = $2 WHERE id = $1`

	tag, err := r.exec(ctx, stmt, labelID, url)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("update label pdf url: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrLabelNotFound
	}
	return nil
}

func (r *LabelRepository) ListLabelsByUser(ctx context.Context, userID string) ([]domain.ShippingLabel, error) {
	query := `SELECT ` + labelColumns + ` FROM labels WHERE user_id = $1 ORDER BY created_at DESC, id DESC`

	rows, err := r.query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list labels: %w", err)
	}
	defer rows.Close()

	var labels []domain.ShippingLabel
	for rows.Next() {
		label, err := r.scanLabelValues(rows)
		if err != nil {
			return nil, fmt.Errorf("scan label: %w", err)
		}
		labels = append(labels, label)
	}
	if rows.Err() != nil {
		if isInvalidUUID(rows.Err()) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("iterate labels: %w", rows.Err())
	}
	return labels, nil
}

func (r *LabelRepository) scanLabel(row pgx.Row) (domain.ShippingLabel, error) {
	label, err := r.scanLabelValues(row)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ShippingLabel{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.ShippingLabel{}, domain.ErrLabelNotFound
		}
		return domain.ShippingLabel{}, fmt.Errorf("get label: %w", err)
	}
	return label, nil
}

func (r *LabelRepository) scanLabelValues(row pgx.Row) (domain.ShippingLabel, error) {
	var l domain.ShippingLabel
	err := row.Scan(
		&l.ID, &l.UserID,
		&l.From.Name, &l.From.Company, &l.From.Street1, &l.From.Street2,
		&l.From.City, &l.From.State, &l.From.Zip, &l.From.Phone, &l.From.Email,
		&l.To.Name, &l.To.Company, &l.To.Street1, &l.To.Street2,
		&l.To.City, &l.To.State, &l.To.Zip, &l.To.Phone, &l.To.Email,
		&l.Weight, &l.Service, &l.Cost, &l.TrackingNumber, &l.Status, &l.PDFURL, &l.CreatedAt,
	)
	if err != nil {
		return domain.ShippingLabel{}, err
	}
	return l, nil
}

func (r *LabelRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *LabelRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}

func (r *LabelRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}
