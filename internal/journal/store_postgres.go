// Copyright (c) 2026 Folio. All rights reserved.
// Author: minh.lehoang.dev@gmail.com

package journal

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lehoangminh/folio/internal/platform/database/schema"
	"github.com/lehoangminh/folio/internal/platform/dberr"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// selectColumns is the shared column list for full-record scans.
func selectColumns() string {
	t := schema.Journal
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s",
		t.ID, t.Title, t.Slug, t.Description, t.Edition, t.Volume, t.Number, t.Year,
		t.ISSN, t.PDFURL, t.PDFFileName, t.PDFSize, t.PageCount, t.ViewCount,
		t.CreatedAt, t.UpdatedAt,
	)
}

func scanJournal(row interface{ Scan(dest ...any) error }) (*Journal, error) {
	j := &Journal{}
	err := row.Scan(
		&j.ID, &j.Title, &j.Slug, &j.Description, &j.Edition, &j.Volume, &j.Number,
		&j.Year, &j.ISSN, &j.PDFURL, &j.PDFFileName, &j.PDFSize, &j.PageCount,
		&j.ViewCount, &j.CreatedAt, &j.UpdatedAt,
	)
	return j, err
}

func (repository *PostgresRepository) List(context context.Context, f Filter, limit, offset int) ([]*Journal, int, error) {
	t := schema.Journal

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE TRUE`, selectColumns(), t.Table)
	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s WHERE TRUE`, t.Table)

	args := []any{}
	countArgs := []any{}

	if f.Query != "" {
		searchTerm := "%" + f.Query + "%"
		clause := fmt.Sprintf(
			` AND (%s ILIKE $%d OR %s ILIKE $%d OR %s ILIKE $%d OR %s ILIKE $%d OR %s ILIKE $%d OR %s ILIKE $%d)`,
			t.Title, len(args)+1, t.Volume, len(args)+1, t.Number, len(args)+1,
			t.Year, len(args)+1, t.Description, len(args)+1, t.ISSN, len(args)+1,
		)
		query += clause
		countQuery += clause
		args = append(args, searchTerm)
		countArgs = append(countArgs, searchTerm)
	}

	if f.Year != "" {
		clause := fmt.Sprintf(` AND %s = $%d`, t.Year, len(args)+1)
		query += clause
		countQuery += clause
		args = append(args, f.Year)
		countArgs = append(countArgs, f.Year)
	}

	if f.Edition != "" {
		clause := fmt.Sprintf(` AND %s = $%d`, t.Edition, len(args)+1)
		query += clause
		countQuery += clause
		args = append(args, string(f.Edition))
		countArgs = append(countArgs, string(f.Edition))
	}

	// Newest issues first: creation time, then bibliographic recency.
	query += fmt.Sprintf(" ORDER BY %s DESC, %s DESC, %s DESC, %s DESC",
		t.CreatedAt, t.Year, t.Volume, t.Number,
	)
	query += " LIMIT $" + strconv.Itoa(len(args)+1) + " OFFSET $" + strconv.Itoa(len(args)+2)
	args = append(args, limit, offset)

	var total int
	if err := repository.db.QueryRow(context, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_journals")
	}

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_journals")
	}
	defer rows.Close()

	var journals []*Journal
	for rows.Next() {
		j, err := scanJournal(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_journal")
		}
		journals = append(journals, j)
	}

	return journals, total, nil
}

func (repository *PostgresRepository) Get(context context.Context, id string) (*Journal, error) {
	t := schema.Journal
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, selectColumns(), t.Table, t.ID)

	j, err := scanJournal(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "get_journal")
	}
	return j, nil
}

func (repository *PostgresRepository) GetBySlug(context context.Context, slug string) (*Journal, error) {
	t := schema.Journal
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, selectColumns(), t.Table, t.Slug)

	j, err := scanJournal(repository.db.QueryRow(context, query, slug))
	if err != nil {
		return nil, dberr.Wrap(err, "get_journal_by_slug")
	}
	return j, nil
}

func (repository *PostgresRepository) Create(context context.Context, j *Journal) error {
	t := schema.Journal
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, 0, NOW(), NOW())
		RETURNING %s, %s
	`,
		t.Table, t.ID, t.Title, t.Slug, t.Description, t.Edition, t.Volume, t.Number,
		t.Year, t.ISSN, t.PDFURL, t.PDFFileName, t.PDFSize, t.PageCount, t.ViewCount,
		t.CreatedAt, t.UpdatedAt,
		t.CreatedAt, t.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		j.ID, j.Title, j.Slug, j.Description, string(j.Edition), j.Volume, j.Number,
		j.Year, j.ISSN, j.PDFURL, j.PDFFileName, j.PDFSize, j.PageCount,
	).Scan(&j.CreatedAt, &j.UpdatedAt)

	return dberr.Wrap(err, "create_journal")
}

func (repository *PostgresRepository) Update(context context.Context, j *Journal) error {
	t := schema.Journal
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8, %s = $9,
		    %s = $10, %s = $11, %s = $12, %s = $13, %s = NOW()
		WHERE %s = $1
		RETURNING %s
	`,
		t.Table, t.Title, t.Slug, t.Description, t.Edition, t.Volume, t.Number, t.Year,
		t.ISSN, t.PDFURL, t.PDFFileName, t.PDFSize, t.PageCount, t.UpdatedAt,
		t.ID, t.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		j.ID, j.Title, j.Slug, j.Description, string(j.Edition), j.Volume, j.Number,
		j.Year, j.ISSN, j.PDFURL, j.PDFFileName, j.PDFSize, j.PageCount,
	).Scan(&j.UpdatedAt)

	return dberr.Wrap(err, "update_journal")
}

func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	t := schema.Journal
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, t.Table, t.ID)

	cmd, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_journal")
	}

	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) IncrementViewCount(context context.Context, id string) error {
	t := schema.Journal
	query := fmt.Sprintf(`UPDATE %s SET %s = %s + 1 WHERE %s = $1`,
		t.Table, t.ViewCount, t.ViewCount, t.ID,
	)

	cmd, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "increment_view_count")
	}

	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}
