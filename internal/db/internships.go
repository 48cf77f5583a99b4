package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/internradar/internal/types"
	"golang.org/x/sync/errgroup"
)

// Internship pagination bounds
const (
	DefaultInternshipPageSize = 20
	MaxInternshipPageSize     = 100
)

const internshipColumns = `id, title, company, description, tags, tech_stack, location,
	stipend, duration, apply_link, is_active, created_at, updated_at`

func scanInternship(row pgx.Row) (*types.InternshipListing, error) {
	var l types.InternshipListing
	if err := row.Scan(&l.ID, &l.Title, &l.Company, &l.Description, &l.Tags, &l.TechStack, &l.Location,
		&l.Stipend, &l.Duration, &l.ApplyLink, &l.IsActive, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	return &l, nil
}

func collectInternships(rows pgx.Rows) ([]types.InternshipListing, error) {
	defer rows.Close()

	listings := []types.InternshipListing{}
	for rows.Next() {
		l, err := scanInternship(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan internship: %w", err)
		}
		listings = append(listings, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate internships: %w", err)
	}
	return listings, nil
}

// CreateInternship inserts a listing and returns the stored row.
func (db *DB) CreateInternship(ctx context.Context, req *types.CreateInternshipRequest) (*types.InternshipListing, error) {
	l, err := insertInternship(ctx, db.pool, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create internship: %w", err)
	}
	return l, nil
}

// CreateInternships inserts listings in a single transaction and returns how many were stored.
func (db *DB) CreateInternships(ctx context.Context, reqs []types.CreateInternshipRequest) (int, error) {
	created := 0
	err := pgx.BeginFunc(ctx, db.pool, func(tx pgx.Tx) error {
		for i := range reqs {
			if _, err := insertInternship(ctx, tx, &reqs[i]); err != nil {
				return fmt.Errorf("listing %d (%s): %w", i, reqs[i].Title, err)
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create internships: %w", err)
	}
	return created, nil
}

type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func insertInternship(ctx context.Context, q queryRower, req *types.CreateInternshipRequest) (*types.InternshipListing, error) {
	return scanInternship(q.QueryRow(ctx,
		`INSERT INTO internships (title, company, description, tags, tech_stack, location, stipend, duration, apply_link)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING `+internshipColumns,
		req.Title, req.Company, req.Description, nonNil(req.Tags), nonNil(req.TechStack),
		req.Location, req.Stipend, req.Duration, req.ApplyLink,
	))
}

// GetInternship retrieves a listing by ID. Returns nil, nil if not found.
func (db *DB) GetInternship(ctx context.Context, id uuid.UUID) (*types.InternshipListing, error) {
	l, err := scanInternship(db.pool.QueryRow(ctx,
		`SELECT `+internshipColumns+` FROM internships WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get internship: %w", err)
	}
	return l, nil
}

// ListActiveInternships returns every active listing, newest first.
func (db *DB) ListActiveInternships(ctx context.Context) ([]types.InternshipListing, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+internshipColumns+` FROM internships
		 WHERE is_active = TRUE
		 ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list active internships: %w", err)
	}
	return collectInternships(rows)
}

// buildInternshipFilter turns filters into a WHERE clause over active listings.
func buildInternshipFilter(filters types.InternshipFilters) (string, []interface{}) {
	conditions := []string{"is_active = TRUE"}
	var args []interface{}
	argNum := 1

	if search := strings.TrimSpace(filters.Search); search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(title ILIKE $%d OR company ILIKE $%d OR description ILIKE $%d)", argNum, argNum, argNum))
		args = append(args, containsPattern(search))
		argNum++
	}
	if tags := nonBlank(filters.Tags); len(tags) > 0 {
		conditions = append(conditions, fmt.Sprintf("tags && $%d::text[]", argNum))
		args = append(args, tags)
		argNum++
	}
	if tech := nonBlank(filters.TechStack); len(tech) > 0 {
		conditions = append(conditions, fmt.Sprintf("tech_stack && $%d::text[]", argNum))
		args = append(args, tech)
		argNum++
	}
	if location := strings.TrimSpace(filters.Location); location != "" {
		conditions = append(conditions, fmt.Sprintf("location ILIKE $%d", argNum))
		args = append(args, containsPattern(location))
	}

	return " WHERE " + strings.Join(conditions, " AND "), args
}

// ListInternships returns one page of active listings matching filters,
// newest first, together with the total match count.
func (db *DB) ListInternships(ctx context.Context, filters types.InternshipFilters) ([]types.InternshipListing, int, error) {
	filters.Page, filters.Limit = pageBounds(filters.Page, filters.Limit, DefaultInternshipPageSize, MaxInternshipPageSize)
	where, args := buildInternshipFilter(filters)

	var listings []types.InternshipListing
	var total int

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		query := fmt.Sprintf(`SELECT %s FROM internships%s ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d`,
			internshipColumns, where, len(args)+1, len(args)+2)
		pageArgs := append(append([]interface{}{}, args...), filters.Limit, filters.Offset())

		rows, err := db.pool.Query(gctx, query, pageArgs...)
		if err != nil {
			return fmt.Errorf("failed to list internships: %w", err)
		}
		listings, err = collectInternships(rows)
		return err
	})
	g.Go(func() error {
		if err := db.pool.QueryRow(gctx, `SELECT COUNT(*) FROM internships`+where, args...).Scan(&total); err != nil {
			return fmt.Errorf("failed to count internships: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	return listings, total, nil
}

// InternshipFilterOptions returns the sorted distinct tags, tech stacks and
// locations across active listings.
func (db *DB) InternshipFilterOptions(ctx context.Context) (*types.FilterOptions, error) {
	opts := &types.FilterOptions{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		opts.Tags, err = db.distinctValues(gctx,
			`SELECT DISTINCT unnest(tags) AS v FROM internships WHERE is_active = TRUE ORDER BY v`)
		return err
	})
	g.Go(func() error {
		var err error
		opts.TechStacks, err = db.distinctValues(gctx,
			`SELECT DISTINCT unnest(tech_stack) AS v FROM internships WHERE is_active = TRUE ORDER BY v`)
		return err
	})
	g.Go(func() error {
		var err error
		opts.Locations, err = db.distinctValues(gctx,
			`SELECT DISTINCT location AS v FROM internships WHERE is_active = TRUE ORDER BY v`)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return opts, nil
}

func (db *DB) distinctValues(ctx context.Context, query string) ([]string, error) {
	rows, err := db.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load filter options: %w", err)
	}
	values, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan filter options: %w", err)
	}
	return values, nil
}

// SetInternshipActive toggles whether a listing is shown and ranked.
// Returns false if the listing does not exist.
func (db *DB) SetInternshipActive(ctx context.Context, id uuid.UUID, active bool) (bool, error) {
	tag, err := db.pool.Exec(ctx,
		`UPDATE internships SET is_active = $1, updated_at = NOW() WHERE id = $2`, active, id)
	if err != nil {
		return false, fmt.Errorf("failed to update internship: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func nonBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
