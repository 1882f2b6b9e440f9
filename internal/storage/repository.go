// Package storage persists ledger entries, recurring templates and saved
// break-even projections in SQLite.
//
// Dates are stored as ISO day strings and amounts as decimal strings, so the
// exact values that entered the system come back out unchanged.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"financeiro/internal/core"
	"financeiro/internal/engine"
)

const dateLayout = "2006-01-02"

type SQLiteRepository struct {
	db *sql.DB
}

// PendingSyncEntry is the minimal payload the sync queue needs.
type PendingSyncEntry struct {
	ID        string
	CreatedAt time.Time
}

// Projection is a saved break-even scenario with its computed result.
type Projection struct {
	ID        string                 `json:"id"`
	Name      string                 `json:"name"`
	Inputs    engine.BreakEvenInputs `json:"inputs"`
	Result    engine.BreakEvenResult `json:"result"`
	CreatedAt time.Time              `json:"createdAt"`
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
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

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreateEntry inserts a ledger entry with sync status pending.
func (r *SQLiteRepository) CreateEntry(ctx context.Context, e core.LedgerEntry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO ledger_entries (id, kind, entry_date, amount, category, counterparty_ref, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, string(e.Kind), e.Date.Format(dateLayout), e.Amount.String(),
		e.Category, e.CounterpartyRef, e.Notes)
	if err != nil {
		return fmt.Errorf("create ledger entry: %w", err)
	}

	slog.InfoContext(ctx, "Ledger entry saved",
		"id", e.ID,
		"kind", e.Kind,
		"category", e.Category,
		"amount", e.Amount.String(),
		"date", e.Date.Format(dateLayout))

	return nil
}

// GetEntry retrieves a single non-deleted entry by ID.
func (r *SQLiteRepository) GetEntry(ctx context.Context, id string) (core.LedgerEntry, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, kind, entry_date, amount, category, counterparty_ref, notes
		FROM ledger_entries
		WHERE id = ? AND deleted_at IS NULL`, id)

	e, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.LedgerEntry{}, core.ErrEntryNotFound
		}
		return core.LedgerEntry{}, fmt.Errorf("get ledger entry: %w", err)
	}
	return e, nil
}

// SoftDeleteEntry marks an entry deleted without dropping the row, so the
// sheet mirror can still find and remove it.
func (r *SQLiteRepository) SoftDeleteEntry(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE ledger_entries
		SET deleted_at = datetime('now'), updated_at = datetime('now')
		WHERE id = ? AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("soft delete ledger entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("soft delete rows affected: %w", err)
	}
	if affected == 0 {
		return core.ErrEntryNotFound
	}

	slog.InfoContext(ctx, "Ledger entry soft deleted", "id", id)
	return nil
}

// ListEntries returns all non-deleted entries ordered by date ascending.
// This is the snapshot the calculation engine consumes.
func (r *SQLiteRepository) ListEntries(ctx context.Context) ([]core.LedgerEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, kind, entry_date, amount, category, counterparty_ref, notes
		FROM ledger_entries
		WHERE deleted_at IS NULL
		ORDER BY entry_date ASC, created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()

	return collectEntries(rows)
}

// ListEntriesByRange returns non-deleted entries inside the closed date
// interval, ordered by date ascending.
func (r *SQLiteRepository) ListEntriesByRange(ctx context.Context, start, end core.Date) ([]core.LedgerEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, kind, entry_date, amount, category, counterparty_ref, notes
		FROM ledger_entries
		WHERE deleted_at IS NULL AND entry_date >= ? AND entry_date <= ?
		ORDER BY entry_date ASC, created_at ASC`,
		start.Format(dateLayout), end.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("list ledger entries by range: %w", err)
	}
	defer rows.Close()

	return collectEntries(rows)
}

// GetPendingSyncEntries returns entries awaiting the sheet mirror, oldest
// first.
func (r *SQLiteRepository) GetPendingSyncEntries(ctx context.Context, limit int) ([]PendingSyncEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, created_at
		FROM ledger_entries
		WHERE sync_status = 'pending' AND deleted_at IS NULL
		ORDER BY created_at ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("get pending sync entries: %w", err)
	}
	defer rows.Close()

	var out []PendingSyncEntry
	for rows.Next() {
		var p PendingSyncEntry
		var createdAt string
		if err := rows.Scan(&p.ID, &createdAt); err != nil {
			return nil, fmt.Errorf("scan pending sync entry: %w", err)
		}
		p.CreatedAt, _ = time.Parse("2006-01-02 15:04:05", createdAt)
		out = append(out, p)
	}
	return out, rows.Err()
}

// MarkSynced marks an entry as mirrored to the spreadsheet.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `
		UPDATE ledger_entries SET sync_status = 'synced', updated_at = datetime('now')
		WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark entry synced: %w", err)
	}
	slog.InfoContext(ctx, "Ledger entry marked as synced", "id", id)
	return nil
}

// MarkSyncError flags an entry whose mirroring failed.
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `
		UPDATE ledger_entries SET sync_status = 'error', updated_at = datetime('now')
		WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark entry sync error: %w", err)
	}
	slog.WarnContext(ctx, "Ledger entry marked with sync error", "id", id)
	return nil
}

// CreateRecurrentEntry stores a recurring template and returns its ID.
func (r *SQLiteRepository) CreateRecurrentEntry(ctx context.Context, re core.RecurrentEntry) (int64, error) {
	var endDate any
	if !re.EndDate.IsZero() {
		endDate = re.EndDate.Format(dateLayout)
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO recurrent_entries (kind, start_date, end_date, every, amount, category, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		string(re.Kind), re.StartDate.Format(dateLayout), endDate,
		string(re.Every), re.Amount.String(), re.Category, re.Notes)
	if err != nil {
		return 0, fmt.Errorf("create recurrent entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("recurrent entry id: %w", err)
	}
	return id, nil
}

// GetActiveRecurrentEntries returns templates whose window covers now.
func (r *SQLiteRepository) GetActiveRecurrentEntries(ctx context.Context, now time.Time) ([]core.RecurrentEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, kind, start_date, end_date, every, amount, category, notes
		FROM recurrent_entries
		WHERE active = 1
		  AND start_date <= ?
		  AND (end_date IS NULL OR end_date >= ?)
		ORDER BY id ASC`,
		now.Format(dateLayout), now.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("get active recurrent entries: %w", err)
	}
	defer rows.Close()

	var out []core.RecurrentEntry
	for rows.Next() {
		re, err := scanRecurrent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, re)
	}
	return out, rows.Err()
}

// GetRecurrentLastExecution returns the template's last expansion time, zero
// when it never ran.
func (r *SQLiteRepository) GetRecurrentLastExecution(ctx context.Context, id int64) (time.Time, error) {
	var last sql.NullString
	err := r.db.QueryRowContext(ctx, `
		SELECT last_execution_date FROM recurrent_entries WHERE id = ?`, id).Scan(&last)
	if err != nil {
		return time.Time{}, fmt.Errorf("get recurrent last execution: %w", err)
	}
	if !last.Valid || last.String == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, last.String)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse last execution date: %w", err)
	}
	return t, nil
}

// UpdateRecurrentLastExecution records that the template was expanded.
func (r *SQLiteRepository) UpdateRecurrentLastExecution(ctx context.Context, id int64, when time.Time) error {
	if _, err := r.db.ExecContext(ctx, `
		UPDATE recurrent_entries SET last_execution_date = ? WHERE id = ?`,
		when.Format(dateLayout), id); err != nil {
		return fmt.Errorf("update recurrent last execution: %w", err)
	}
	return nil
}

// SaveProjection persists a named break-even scenario and its result.
func (r *SQLiteRepository) SaveProjection(ctx context.Context, p Projection) error {
	inputs, err := json.Marshal(p.Inputs)
	if err != nil {
		return fmt.Errorf("marshal projection inputs: %w", err)
	}
	result, err := json.Marshal(p.Result)
	if err != nil {
		return fmt.Errorf("marshal projection result: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO breakeven_projections (id, name, inputs_json, result_json)
		VALUES (?, ?, ?, ?)`,
		p.ID, p.Name, string(inputs), string(result)); err != nil {
		return fmt.Errorf("save projection: %w", err)
	}

	slog.InfoContext(ctx, "Break-even projection saved", "id", p.ID, "name", p.Name)
	return nil
}

// ListProjections returns saved projections, most recent first.
func (r *SQLiteRepository) ListProjections(ctx context.Context) ([]Projection, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, inputs_json, result_json, created_at
		FROM breakeven_projections
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list projections: %w", err)
	}
	defer rows.Close()

	var out []Projection
	for rows.Next() {
		var p Projection
		var inputs, result, createdAt string
		if err := rows.Scan(&p.ID, &p.Name, &inputs, &result, &createdAt); err != nil {
			return nil, fmt.Errorf("scan projection: %w", err)
		}
		if err := json.Unmarshal([]byte(inputs), &p.Inputs); err != nil {
			return nil, fmt.Errorf("unmarshal projection inputs: %w", err)
		}
		if err := json.Unmarshal([]byte(result), &p.Result); err != nil {
			return nil, fmt.Errorf("unmarshal projection result: %w", err)
		}
		p.CreatedAt, _ = time.Parse("2006-01-02 15:04:05", createdAt)
		out = append(out, p)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (core.LedgerEntry, error) {
	var e core.LedgerEntry
	var kind, entryDate, amount string
	if err := row.Scan(&e.ID, &kind, &entryDate, &amount, &e.Category, &e.CounterpartyRef, &e.Notes); err != nil {
		return core.LedgerEntry{}, err
	}

	e.Kind = core.Kind(kind)

	date, err := time.Parse(dateLayout, entryDate)
	if err != nil {
		return core.LedgerEntry{}, fmt.Errorf("parse entry date %q: %w", entryDate, err)
	}
	e.Date = core.DateOf(date)

	e.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return core.LedgerEntry{}, fmt.Errorf("parse entry amount %q: %w", amount, err)
	}
	return e, nil
}

func scanRecurrent(rows *sql.Rows) (core.RecurrentEntry, error) {
	var re core.RecurrentEntry
	var kind, startDate, every, amount string
	var endDate sql.NullString
	if err := rows.Scan(&re.ID, &kind, &startDate, &endDate, &every, &amount, &re.Category, &re.Notes); err != nil {
		return core.RecurrentEntry{}, fmt.Errorf("scan recurrent entry: %w", err)
	}

	re.Kind = core.Kind(kind)
	re.Every = core.RepetitionType(every)

	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return core.RecurrentEntry{}, fmt.Errorf("parse start date %q: %w", startDate, err)
	}
	re.StartDate = core.DateOf(start)

	if endDate.Valid && endDate.String != "" {
		end, err := time.Parse(dateLayout, endDate.String)
		if err != nil {
			return core.RecurrentEntry{}, fmt.Errorf("parse end date %q: %w", endDate.String, err)
		}
		re.EndDate = core.DateOf(end)
	}

	re.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return core.RecurrentEntry{}, fmt.Errorf("parse recurrent amount %q: %w", amount, err)
	}
	return re, nil
}

func collectEntries(rows *sql.Rows) ([]core.LedgerEntry, error) {
	var out []core.LedgerEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
