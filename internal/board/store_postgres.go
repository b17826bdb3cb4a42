// Copyright (c) 2026 Folio. All rights reserved.
// Author: minh.lehoang.dev@gmail.com

package board

import (
	"context"
	"encoding/json"
	"fmt"

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

func memberColumns() string {
	t := schema.BoardMember
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s",
		t.ID, t.Name, t.Position, t.Affiliation, t.Email, t.Phone, t.PhotoURL,
		t.BioContentType, t.BioText, t.BioItems, t.Sections, t.DisplayOrder,
		t.IsActive, t.CreatedAt, t.UpdatedAt,
	)
}

// scanMember reassembles the bio union and JSON arrays from their columns.
func scanMember(row interface{ Scan(dest ...any) error }) (*Member, error) {
	m := &Member{}
	var bioType, bioText string
	var bioItemsRaw, sectionsRaw []byte

	err := row.Scan(
		&m.ID, &m.Name, &m.Position, &m.Affiliation, &m.Email, &m.Phone, &m.PhotoURL,
		&bioType, &bioText, &bioItemsRaw, &sectionsRaw, &m.DisplayOrder,
		&m.IsActive, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	switch ContentType(bioType) {
	case ContentText:
		m.Bio = Content{Type: ContentText, Text: bioText}
	case ContentList:
		var items []string
		if len(bioItemsRaw) > 0 {
			if err := json.Unmarshal(bioItemsRaw, &items); err != nil {
				return nil, fmt.Errorf("board: corrupt bio items for member %s: %w", m.ID, err)
			}
		}
		m.Bio = Content{Type: ContentList, Items: items}
	}

	if len(sectionsRaw) > 0 {
		if err := json.Unmarshal(sectionsRaw, &m.Sections); err != nil {
			return nil, fmt.Errorf("board: corrupt sections for member %s: %w", m.ID, err)
		}
	}

	return m, nil
}

// bioColumns splits the union into its storage columns.
func bioColumns(c Content) (string, string, []byte, error) {
	switch c.Type {
	case ContentText:
		return string(ContentText), c.Text, []byte("[]"), nil
	case ContentList:
		items := c.Items
		if items == nil {
			items = []string{}
		}
		raw, err := json.Marshal(items)
		if err != nil {
			return "", "", nil, err
		}
		return string(ContentList), "", raw, nil
	default:
		return "", "", []byte("[]"), nil
	}
}

func (repository *PostgresRepository) List(context context.Context, activeOnly bool) ([]*Member, error) {
	t := schema.BoardMember

	query := fmt.Sprintf(`SELECT %s FROM %s`, memberColumns(), t.Table)
	if activeOnly {
		query += fmt.Sprintf(` WHERE %s = TRUE`, t.IsActive)
	}
	query += fmt.Sprintf(` ORDER BY %s ASC, %s ASC`, t.DisplayOrder, t.Name)

	rows, err := repository.db.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_board_members")
	}
	defer rows.Close()

	var members []*Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_board_member")
		}
		members = append(members, m)
	}

	return members, nil
}

func (repository *PostgresRepository) Get(context context.Context, id string) (*Member, error) {
	t := schema.BoardMember
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, memberColumns(), t.Table, t.ID)

	m, err := scanMember(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "get_board_member")
	}
	return m, nil
}

func (repository *PostgresRepository) Create(context context.Context, m *Member) error {
	t := schema.BoardMember

	bioType, bioText, bioItems, err := bioColumns(m.Bio)
	if err != nil {
		return dberr.Wrap(err, "encode_board_member")
	}

	sections := m.Sections
	if sections == nil {
		sections = []Section{}
	}
	sectionsRaw, err := json.Marshal(sections)
	if err != nil {
		return dberr.Wrap(err, "encode_board_member")
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
		RETURNING %s, %s
	`,
		t.Table, t.ID, t.Name, t.Position, t.Affiliation, t.Email, t.Phone, t.PhotoURL,
		t.BioContentType, t.BioText, t.BioItems, t.Sections, t.DisplayOrder,
		t.IsActive, t.CreatedAt, t.UpdatedAt,
		t.CreatedAt, t.UpdatedAt,
	)

	err = repository.db.QueryRow(context, query,
		m.ID, m.Name, string(m.Position), m.Affiliation, m.Email, m.Phone, m.PhotoURL,
		bioType, bioText, bioItems, sectionsRaw, m.DisplayOrder, m.IsActive,
	).Scan(&m.CreatedAt, &m.UpdatedAt)

	return dberr.Wrap(err, "create_board_member")
}

func (repository *PostgresRepository) Update(context context.Context, m *Member) error {
	t := schema.BoardMember

	bioType, bioText, bioItems, err := bioColumns(m.Bio)
	if err != nil {
		return dberr.Wrap(err, "encode_board_member")
	}

	sections := m.Sections
	if sections == nil {
		sections = []Section{}
	}
	sectionsRaw, err := json.Marshal(sections)
	if err != nil {
		return dberr.Wrap(err, "encode_board_member")
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8,
		    %s = $9, %s = $10, %s = $11, %s = $12, %s = $13, %s = NOW()
		WHERE %s = $1
		RETURNING %s
	`,
		t.Table, t.Name, t.Position, t.Affiliation, t.Email, t.Phone, t.PhotoURL,
		t.BioContentType, t.BioText, t.BioItems, t.Sections, t.DisplayOrder,
		t.IsActive, t.UpdatedAt,
		t.ID, t.UpdatedAt,
	)

	err = repository.db.QueryRow(context, query,
		m.ID, m.Name, string(m.Position), m.Affiliation, m.Email, m.Phone, m.PhotoURL,
		bioType, bioText, bioItems, sectionsRaw, m.DisplayOrder, m.IsActive,
	).Scan(&m.UpdatedAt)

	return dberr.Wrap(err, "update_board_member")
}

func (repository *PostgresRepository) Deactivate(context context.Context, id string) error {
	t := schema.BoardMember
	query := fmt.Sprintf(`UPDATE %s SET %s = FALSE, %s = NOW() WHERE %s = $1`,
		t.Table, t.IsActive, t.UpdatedAt, t.ID,
	)

	cmd, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "deactivate_board_member")
	}

	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) MaxDisplayOrder(context context.Context, position Position) (int, error) {
	t := schema.BoardMember
	query := fmt.Sprintf(`SELECT COALESCE(MAX(%s), 0) FROM %s WHERE %s = $1`,
		t.DisplayOrder, t.Table, t.Position,
	)

	var max int
	if err := repository.db.QueryRow(context, query, string(position)).Scan(&max); err != nil {
		return 0, dberr.Wrap(err, "max_display_order")
	}
	return max, nil
}
