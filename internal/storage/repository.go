// Package storage is the SQLite implementation of the store ports. All
// timestamps are stored as unix nanoseconds so ordering and the half-open
// month window comparisons are exact.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"dompet/internal/core"
	"dompet/internal/store"
)

type Repository struct {
	db *sql.DB

	// now supplies store-assigned creation timestamps; replaced in tests.
	now func() time.Time
}

var _ store.Store = (*Repository)(nil)

func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db, now: time.Now}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *Repository) ListRange(ctx context.Context, owner uuid.UUID, start, end time.Time) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, amount_cents, kind, category, description, created_at
		FROM transactions
		WHERE user_id = ? AND created_at >= ? AND created_at < ?`,
		owner.String(), start.UTC().UnixNano(), end.UTC().UnixNano())
	if err != nil {
		return nil, store.Fail("list transactions by range", err)
	}
	defer rows.Close()

	return scanTransactions(rows, "list transactions by range")
}

func (r *Repository) ListPage(ctx context.Context, owner uuid.UUID, page, pageSize int) ([]core.Transaction, error) {
	if page < 0 || pageSize < 1 {
		return nil, store.Fail("list transactions by page", fmt.Errorf("invalid page %d or page size %d", page, pageSize))
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, amount_cents, kind, category, description, created_at
		FROM transactions
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`,
		owner.String(), pageSize, page*pageSize)
	if err != nil {
		return nil, store.Fail("list transactions by page", err)
	}
	defer rows.Close()

	return scanTransactions(rows, "list transactions by page")
}

func (r *Repository) InsertTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	tx.CreatedAt = r.now().UTC()
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO transactions (user_id, amount_cents, kind, category, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id`,
		tx.OwnerID.String(), tx.Amount.Cents, string(tx.Kind), tx.Category,
		tx.Description, tx.CreatedAt.UnixNano()).Scan(&tx.ID)
	if err != nil {
		return core.Transaction{}, store.Fail("insert transaction", err)
	}

	slog.InfoContext(ctx, "Transaction recorded",
		"id", tx.ID,
		"kind", string(tx.Kind),
		"category", tx.Category,
		"amount_cents", tx.Amount.Cents)
	return tx, nil
}

// GetTransaction loads one transaction by id regardless of owner; the
// export worker uses it to resolve queued messages.
func (r *Repository) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, amount_cents, kind, category, description, created_at
		FROM transactions
		WHERE id = ?`, id)

	tx, err := scanTransaction(row)
	if err != nil {
		return core.Transaction{}, store.Fail("get transaction", err)
	}
	return tx, nil
}

func (r *Repository) ListBudgets(ctx context.Context, owner uuid.UUID, year int, month time.Month) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, category, amount_cents, year, month
		FROM budgets
		WHERE user_id = ? AND year = ? AND month = ?
		ORDER BY id`,
		owner.String(), year, int(month))
	if err != nil {
		return nil, store.Fail("list budgets", err)
	}
	defer rows.Close()

	var budgets []core.Budget
	for rows.Next() {
		var (
			b       core.Budget
			ownerID string
			m       int
		)
		if err := rows.Scan(&b.ID, &ownerID, &b.Category, &b.Amount.Cents, &b.Year, &m); err != nil {
			return nil, store.Fail("list budgets", err)
		}
		if b.OwnerID, err = uuid.Parse(ownerID); err != nil {
			return nil, store.Fail("list budgets", err)
		}
		b.Month = time.Month(m)
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, store.Fail("list budgets", err)
	}
	return budgets, nil
}

func (r *Repository) UpsertBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO budgets (user_id, category, amount_cents, year, month)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id, category, year, month)
		DO UPDATE SET amount_cents = excluded.amount_cents
		RETURNING id`,
		b.OwnerID.String(), b.Category, b.Amount.Cents, b.Year, int(b.Month)).Scan(&b.ID)
	if err != nil {
		return core.Budget{}, store.Fail("upsert budget", err)
	}

	slog.InfoContext(ctx, "Budget set",
		"id", b.ID,
		"category", b.Category,
		"year", b.Year,
		"month", int(b.Month),
		"amount_cents", b.Amount.Cents)
	return b, nil
}

func (r *Repository) ListGoals(ctx context.Context, owner uuid.UUID) ([]core.SavingGoal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, name, target_cents, current_cents, created_at
		FROM savings_goals
		WHERE user_id = ?
		ORDER BY created_at, id`,
		owner.String())
	if err != nil {
		return nil, store.Fail("list goals", err)
	}
	defer rows.Close()

	var goals []core.SavingGoal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, store.Fail("list goals", err)
		}
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, store.Fail("list goals", err)
	}
	return goals, nil
}

func (r *Repository) CreateGoal(ctx context.Context, g core.SavingGoal) (core.SavingGoal, error) {
	g.CurrentAmount = core.Money{}
	g.CreatedAt = r.now().UTC()
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO savings_goals (user_id, name, target_cents, current_cents, created_at)
		VALUES (?, ?, ?, 0, ?)
		RETURNING id`,
		g.OwnerID.String(), g.Name, g.TargetAmount.Cents, g.CreatedAt.UnixNano()).Scan(&g.ID)
	if err != nil {
		return core.SavingGoal{}, store.Fail("create goal", err)
	}

	slog.InfoContext(ctx, "Saving goal created",
		"id", g.ID,
		"name", g.Name,
		"target_cents", g.TargetAmount.Cents)
	return g, nil
}

func (r *Repository) GetGoal(ctx context.Context, goalID int64, owner uuid.UUID) (core.SavingGoal, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, target_cents, current_cents, created_at
		FROM savings_goals
		WHERE id = ? AND user_id = ?`,
		goalID, owner.String())

	g, err := scanGoal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.SavingGoal{}, store.ErrGoalNotFound
	}
	if err != nil {
		return core.SavingGoal{}, store.Fail("get goal", err)
	}
	return g, nil
}

// AddContribution is the single atomic increment the contribution operation
// is specified as: the new total is computed inside the store, never on the
// client, so concurrent contributions cannot lose updates.
func (r *Repository) AddContribution(ctx context.Context, goalID int64, owner uuid.UUID, amount core.Money) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE savings_goals
		SET current_cents = current_cents + ?
		WHERE id = ? AND user_id = ?`,
		amount.Cents, goalID, owner.String())
	if err != nil {
		return store.Fail("add contribution", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return store.Fail("add contribution", err)
	}
	if affected == 0 {
		return store.ErrGoalNotFound
	}

	slog.InfoContext(ctx, "Contribution recorded",
		"goal_id", goalID,
		"amount_cents", amount.Cents)
	return nil
}

// ListUnexported returns up to limit transactions the export worker has not
// mirrored to the external ledger yet, oldest first.
func (r *Repository) ListUnexported(ctx context.Context, limit int) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, amount_cents, kind, category, description, created_at
		FROM transactions
		WHERE exported = 0
		ORDER BY created_at, id
		LIMIT ?`, limit)
	if err != nil {
		return nil, store.Fail("list unexported transactions", err)
	}
	defer rows.Close()

	return scanTransactions(rows, "list unexported transactions")
}

func (r *Repository) MarkExported(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `
		UPDATE transactions SET exported = 1 WHERE id = ?`, id); err != nil {
		return store.Fail("mark transaction exported", err)
	}
	return nil
}

// IsExported reports whether the transaction has been mirrored already.
func (r *Repository) IsExported(ctx context.Context, id int64) (bool, error) {
	var exported int
	err := r.db.QueryRowContext(ctx, `
		SELECT exported FROM transactions WHERE id = ?`, id).Scan(&exported)
	if err != nil {
		return false, store.Fail("check transaction exported", err)
	}
	return exported != 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		tx      core.Transaction
		ownerID string
		kind    string
		created int64
	)
	if err := row.Scan(&tx.ID, &ownerID, &tx.Amount.Cents, &kind, &tx.Category, &tx.Description, &created); err != nil {
		return core.Transaction{}, err
	}
	owner, err := uuid.Parse(ownerID)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse owner id: %w", err)
	}
	tx.OwnerID = owner
	tx.Kind = core.TransactionKind(kind)
	tx.CreatedAt = time.Unix(0, created).UTC()
	return tx, nil
}

func scanTransactions(rows *sql.Rows, op string) ([]core.Transaction, error) {
	var txs []core.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, store.Fail(op, err)
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, store.Fail(op, err)
	}
	return txs, nil
}

func scanGoal(row rowScanner) (core.SavingGoal, error) {
	var (
		g       core.SavingGoal
		ownerID string
		created int64
	)
	if err := row.Scan(&g.ID, &ownerID, &g.Name, &g.TargetAmount.Cents, &g.CurrentAmount.Cents, &created); err != nil {
		return core.SavingGoal{}, err
	}
	owner, err := uuid.Parse(ownerID)
	if err != nil {
		return core.SavingGoal{}, fmt.Errorf("parse owner id: %w", err)
	}
	g.OwnerID = owner
	g.CreatedAt = time.Unix(0, created).UTC()
	return g, nil
}
