package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/pedrosantos-tech/crypto-shipping-app/internal/domain"
)

// LedgerRepository persists users and their transaction history. Balance
// mutations are expected to run inside WithTx with the user row locked via
// GetUserForUpdate.
type LedgerRepository struct {
	pool *pgxpool.Pool
}

func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

func (r *LedgerRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *LedgerRepository) CreateUser(ctx context.Context, user domain.User) error {
	const stmt = `
INSERT INTO users (id, email, balance, role, created_at)
VALUES ($1, $2, $3, $4, $5)`

	_, err := r.exec(ctx, stmt, user.ID, user.Email, user.Balance, user.Role, user.CreatedAt)
	if err != nil {
		if uniqueConstraint(err) == "users_email_key" {
			return domain.ErrEmailTaken
		}
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *LedgerRepository) GetUser(ctx context.Context, userID string) (domain.User, error) {
	const query = `SELECT id, email, balance, role, created_at FROM users WHERE id = $1`
	return r.scanUser(r.queryRow(ctx, query, userID))
}

func (r *LedgerRepository) GetUserForUpdate(ctx context.Context, userID string) (domain.User, error) {
	const query = `SELECT id, email, balance, role, created_at FROM users WHERE id = $1 FOR UPDATE`
	return r.scanUser(r.queryRow(ctx, query, userID))
}

func (r *LedgerRepository) scanUser(row pgx.Row) (domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Email, &u.Balance, &u.Role, &u.CreatedAt)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.User{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.User{}, domain.ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (r *LedgerRepository) UpdateBalance(ctx context.Context, userID string, balance decimal.Decimal) error {
	const stmt = `UPDATE users SET balance = $2 WHERE id = $1`

	tag, err := r.exec(ctx, stmt, userID, balance)
	if err != nil {
		// balance >= 0 check: the service already refuses overdrafts, the
		// constraint is the storage-level backstop.
		if isCheckViolation(err) {
			return domain.ErrInsufficientFunds
		}
		return fmt.Errorf("update balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *LedgerRepository) InsertTransaction(ctx context.Context, tx domain.Transaction) error {
	const stmt = `
INSERT INTO transactions (id, user_id, amount, currency, status, type, date)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.exec(ctx, stmt, tx.ID, tx.UserID, tx.Amount, tx.Currency, tx.Status, tx.Type, tx.Date)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (r *LedgerRepository) GetTransactionForUpdate(ctx context.Context, transactionID string) (domain.Transaction, error) {
	const query = `
SELECT id, user_id, amount, currency, status, type, date
FROM transactions
WHERE id = $1
FOR UPDATE`

	var tx domain.Transaction
	err := r.queryRow(ctx, query, transactionID).
		Scan(&tx.ID, &tx.UserID, &tx.Amount, &tx.Currency, &tx.Status, &tx.Type, &tx.Date)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Transaction{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Transaction{}, domain.ErrTransactionNotFound
		}
		return domain.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return tx, nil
}

func (r *LedgerRepository) SetTransactionStatus(ctx context.Context, transactionID string, status domain.TransactionStatus) error {
	const stmt = `UPDATE transactions SET status = $2 WHERE id = $1`

	tag, err := r.exec(ctx, stmt, transactionID, status)
	if err != nil {
		return fmt.Errorf("set transaction status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

func (r *LedgerRepository) ListTransactionsByUser(ctx context.Context, userID string) ([]domain.Transaction, error) {
	const query = `
SELECT id, user_id, amount, currency, status, type, date
FROM transactions
WHERE user_id = $1
ORDER BY date DESC, id DESC`

	rows, err := r.query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txs []domain.Transaction
	for rows.Next() {
		var tx domain.Transaction
		if err := rows.Scan(&tx.ID, &tx.UserID, &tx.Amount, &tx.Currency, &tx.Status, &tx.Type, &tx.Date); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	if rows.Err() != nil {
		if isInvalidUUID(rows.Err()) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("iterate transactions: %w", rows.Err())
	}
	return txs, nil
}

func (r *LedgerRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *LedgerRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}

func (r *LedgerRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}
