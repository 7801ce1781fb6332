package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/entradahq/entrada/internal/database"
	"github.com/entradahq/entrada/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EventRepository struct {
	pool *pgxpool.Pool
}

func NewEventRepository(db *database.DB) *EventRepository {
	return &EventRepository{pool: db.Pool}
}

const eventColumns = `id, title, category, city, venue, starts_at, ends_at, price_usd, available_tickets, banner_url, description`

func scanEventRow(scanner rowScanner) (*models.Event, error) {
	var event models.Event
	var bannerURL, description *string

	err := scanner.Scan(
		&event.ID, &event.Title, &event.Category, &event.City, &event.Venue,
		&event.Start, &event.End, &event.PriceUSD, &event.AvailableTickets,
		&bannerURL, &description,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	if bannerURL != nil {
		event.BannerURL = *bannerURL
	}
	if description != nil {
		event.Description = *description
	}

	return &event, nil
}

func scanEventRows(rows pgx.Rows) ([]*models.Event, error) {
	defer rows.Close()

	events := make([]*models.Event, 0)

	for rows.Next() {
		event, err := scanEventRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return events, nil
}

// List returns events matching the filter, soonest first. Query matches
// title or venue, case-insensitively. "All" / "Any" sentinel values are
// treated as no filter.
func (r *EventRepository) List(ctx context.Context, filter models.EventFilter) ([]*models.Event, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + eventColumns + ` FROM events WHERE 1=1`)

	args := []interface{}{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if q := strings.TrimSpace(filter.Query); q != "" {
		p := arg("%" + strings.ToLower(q) + "%")
		sb.WriteString(` AND (LOWER(title) LIKE ` + p + ` OR LOWER(venue) LIKE ` + p + `)`)
	}
	if filter.Category != "" && filter.Category != "All" {
		sb.WriteString(` AND category = ` + arg(filter.Category))
	}
	if filter.City != "" && filter.City != "Any" {
		sb.WriteString(` AND city = ` + arg(filter.City))
	}
	if filter.Date != nil {
		sb.WriteString(` AND starts_at::date = ` + arg(*filter.Date) + `::date`)
	}

	sb.WriteString(` ORDER BY starts_at ASC`)

	rows, err := r.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}

	return scanEventRows(rows)
}

func (r *EventRepository) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	return scanEventRow(r.pool.QueryRow(ctx, query, id))
}

// ListSimilar returns up to limit events sharing the category, excluding
// the event itself, soonest first.
func (r *EventRepository) ListSimilar(ctx context.Context, category string, excludeID int64, limit int) ([]*models.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events WHERE category = $1 AND id != $2
		ORDER BY starts_at ASC LIMIT $3
	`

	rows, err := r.pool.Query(ctx, query, category, excludeID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query similar events: %w", err)
	}

	return scanEventRows(rows)
}

func (r *EventRepository) Create(ctx context.Context, event *models.Event) (*models.Event, error) {
	query := `
		INSERT INTO events (title, category, city, venue, starts_at, ends_at, price_usd, available_tickets, banner_url, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + eventColumns

	var bannerURL, description *string
	if event.BannerURL != "" {
		bannerURL = &event.BannerURL
	}
	if event.Description != "" {
		description = &event.Description
	}

	return scanEventRow(r.pool.QueryRow(ctx, query,
		event.Title, event.Category, event.City, event.Venue,
		event.Start, event.End, event.PriceUSD, event.AvailableTickets,
		bannerURL, description,
	))
}
