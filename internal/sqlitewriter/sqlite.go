package sqlitewriter

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"legoio/internal/casestudy"
	"legoio/internal/exporter"
)

// Writer holds an open SQLite database a case study is exported into.
type Writer struct {
	db   *sql.DB
	path string
}

// Open creates the database file (and its parent directory) if needed and
// returns a writer bound to it.
func Open(path string) (*Writer, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return &Writer{db: db, path: path}, nil
}

// Close closes the underlying database.
func (w *Writer) Close() error {
	return w.db.Close()
}

// Export writes the case study and its run parameters into the database at
// path in one shot.
func Export(ctx context.Context, cs *casestudy.CaseStudy, path, runID string, params map[string]string) error {
	w, err := Open(path)
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.WriteCaseStudy(ctx, cs); err != nil {
		return err
	}
	return w.WriteRunParameters(ctx, runID, params)
}

// WriteCaseStudy stores every core table in long format under its canonical
// name, the three rp transition matrices as (rp_from, rp_to, value) tables,
// and the scaling factors. Tables that already exist are replaced.
func (w *Writer) WriteCaseStudy(ctx context.Context, cs *casestudy.CaseStudy) error {
	files := exporter.CoreTables(cs)
	for _, f := range files {
		if err := w.writeTable(ctx, f); err != nil {
			return fmt.Errorf("writing %s: %w", f.Name, err)
		}
	}

	matrices := []struct {
		name string
		m    *casestudy.TransitionMatrix
	}{
		{"rpTransitionMatrixAbsolute", cs.RPTransitionAbsolute},
		{"rpTransitionMatrixRelativeTo", cs.RPTransitionRelativeTo},
		{"rpTransitionMatrixRelativeFrom", cs.RPTransitionRelativeFrom},
	}
	for _, matrix := range matrices {
		if err := w.writeMatrix(ctx, matrix.name, matrix.m); err != nil {
			return fmt.Errorf("writing %s: %w", matrix.name, err)
		}
	}

	if err := w.writeScalingFactors(ctx, cs); err != nil {
		return fmt.Errorf("writing scaling_factors: %w", err)
	}

	slog.Info("Case study written to SQLite",
		slog.String("path", w.path),
		slog.Int("table_count", len(files)))
	return nil
}

// WriteRunParameters stores the run identity and free-form key/value pairs
// in the run_parameters table. The run_id and created_at rows are always
// written; params may be nil.
func (w *Writer) WriteRunParameters(ctx context.Context, runID string, params map[string]string) error {
	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS run_parameters`); err != nil {
		return fmt.Errorf("failed to drop run_parameters: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `CREATE TABLE run_parameters (parameter TEXT PRIMARY KEY, value TEXT)`); err != nil {
		return fmt.Errorf("failed to create run_parameters: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO run_parameters (parameter, value) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	if _, err := stmt.ExecContext(ctx, "run_id", runID); err != nil {
		return fmt.Errorf("failed to insert run_id: %w", err)
	}
	if _, err := stmt.ExecContext(ctx, "created_at", time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("failed to insert created_at: %w", err)
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if _, err := stmt.ExecContext(ctx, k, params[k]); err != nil {
			return fmt.Errorf("failed to insert %s: %w", k, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	slog.Info("Run parameters written to SQLite",
		slog.String("path", w.path),
		slog.String("run_id", runID),
		slog.Int("parameter_count", len(params)))
	return nil
}

// writeTable replaces the named table with the rendered records. Columns are
// created without a type so each cell keeps the storage class it binds as.
func (w *Writer) writeTable(ctx context.Context, f exporter.TableFile) error {
	cols := make([]string, len(f.Headers))
	for i, h := range f.Headers {
		cols[i] = quoteIdent(h)
	}
	name := quoteIdent(f.Name)

	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+name); err != nil {
		return fmt.Errorf("failed to drop table: %w", err)
	}
	create := fmt.Sprintf("CREATE TABLE %s (%s)", name, strings.Join(cols, ", "))
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		name, strings.Join(cols, ", "), placeholders(len(cols)))
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range f.Records {
		args := make([]any, len(rec))
		for j, cell := range rec {
			args[j] = bindCell(cell)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("failed to insert record %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// writeMatrix stores a transition matrix as one (rp_from, rp_to, value) row
// per entry. A nil matrix (empty hour index) writes nothing.
func (w *Writer) writeMatrix(ctx context.Context, name string, m *casestudy.TransitionMatrix) error {
	if m == nil {
		return nil
	}

	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qname := quoteIdent(name)
	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+qname); err != nil {
		return fmt.Errorf("failed to drop table: %w", err)
	}
	create := fmt.Sprintf("CREATE TABLE %s (rp_from TEXT, rp_to TEXT, value REAL)", qname)
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		fmt.Sprintf("INSERT INTO %s (rp_from, rp_to, value) VALUES (?, ?, ?)", qname))
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	rps := m.RPs()
	for i, from := range rps {
		for j, to := range rps {
			if _, err := stmt.ExecContext(ctx, from, to, bindFloat(m.At(i, j))); err != nil {
				return fmt.Errorf("failed to insert %s->%s: %w", from, to, err)
			}
		}
	}

	return tx.Commit()
}

func (w *Writer) writeScalingFactors(ctx context.Context, cs *casestudy.CaseStudy) error {
	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS scaling_factors`); err != nil {
		return fmt.Errorf("failed to drop scaling_factors: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `CREATE TABLE scaling_factors (factor TEXT PRIMARY KEY, value REAL)`); err != nil {
		return fmt.Errorf("failed to create scaling_factors: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO scaling_factors (factor, value) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	factors := []struct {
		name  string
		value float64
	}{
		{"power", cs.PowerScalingFactor},
		{"cost", cs.CostScalingFactor},
		{"angle_to_rad", cs.AngleScalingFactor},
		{"reactive_power", cs.ReactiveScalingFactor},
	}
	for _, f := range factors {
		if _, err := stmt.ExecContext(ctx, f.name, f.value); err != nil {
			return fmt.Errorf("failed to insert %s: %w", f.name, err)
		}
	}

	return tx.Commit()
}

// bindCell maps a rendered cell onto its storage class: empty cells become
// NULL, numeric cells REAL, everything else TEXT.
func bindCell(cell string) any {
	if cell == "" {
		return nil
	}
	if v, err := strconv.ParseFloat(cell, 64); err == nil {
		return v
	}
	return cell
}

// bindFloat maps NaN onto NULL so normalized matrices with empty rows or
// columns round-trip.
func bindFloat(v float64) any {
	if math.IsNaN(v) {
		return nil
	}
	return v
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
