package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/snaplink-io/snaplink/internal/shortener"
)

const pgUniqueViolation = "23505"

const linkColumns = `
	id, user_id, original_url, lookup_key, alias, title, description, tags,
	total_clicks, is_active, expiration_type, expiration_date,
	expiration_clicks, clicks_remaining, last_accessed_at, created_at
`

// PostgresStore is a PostgreSQL implementation of shortener.Repository.
//
// The code/alias namespace is one column (lookup_key) with a unique
// index; the database rejects duplicate keys, which makes it the
// authority for concurrent allocation races. Counter updates are single
// UPDATE statements so concurrent clicks never lose increments.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed repository.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (p *PostgresStore) CreateLink(ctx context.Context, link *shortener.ShortLink) error {
	query := `
		INSERT INTO short_links (` + linkColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err := p.pool.Exec(ctx, query,
		link.ID,
		link.UserID,
		link.OriginalURL,
		link.Code,
		nullableString(link.Alias),
		nullableString(link.Title),
		nullableString(link.Description),
		link.Tags,
		link.TotalClicks,
		link.IsActive,
		string(link.ExpirationType),
		link.ExpirationDate,
		link.ExpirationClicks,
		link.ClicksRemaining,
		link.LastAccessedAt,
		link.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return shortener.ErrDuplicateKey
		}

		return err
	}

	return nil
}

func (p *PostgresStore) LinkByKey(ctx context.Context, key string) (*shortener.ShortLink, error) {
	query := `SELECT ` + linkColumns + ` FROM short_links WHERE lookup_key = $1`

	return p.scanLink(p.pool.QueryRow(ctx, query, key))
}

func (p *PostgresStore) LinkByID(ctx context.Context, id string) (*shortener.ShortLink, error) {
	query := `SELECT ` + linkColumns + ` FROM short_links WHERE id = $1`

	return p.scanLink(p.pool.QueryRow(ctx, query, id))
}

func (p *PostgresStore) KeyExists(ctx context.Context, key string) (bool, error) {
	var exists bool

	err := p.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM short_links WHERE lookup_key = $1)`, key,
	).Scan(&exists)
	if err != nil {
		return false, err
	}

	return exists, nil
}

func (p *PostgresStore) LinkByUserAndURL(ctx context.Context, userID, normalizedURL string) (*shortener.ShortLink, error) {
	query := `SELECT ` + linkColumns + ` FROM short_links WHERE user_id = $1 AND original_url = $2`

	return p.scanLink(p.pool.QueryRow(ctx, query, userID, normalizedURL))
}

func (p *PostgresStore) ListLinks(ctx context.Context, q shortener.ListQuery) (*shortener.ListResult, error) {
	page, pageSize := clampPaging(q.Page, q.PageSize)

	where := []string{"user_id = $1"}
	args := []any{q.UserID}

	if q.Search != "" {
		args = append(args, "%"+q.Search+"%")
		n := len(args)
		where = append(where, fmt.Sprintf(
			"(original_url ILIKE $%d OR title ILIKE $%d OR lookup_key ILIKE $%d OR alias ILIKE $%d)",
			n, n, n, n,
		))
	}

	if len(q.Tags) > 0 {
		args = append(args, q.Tags)
		where = append(where, fmt.Sprintf("tags && $%d", len(args)))
	}

	cond := strings.Join(where, " AND ")

	var total int64
	if err := p.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM short_links WHERE `+cond, args...,
	).Scan(&total); err != nil {
		return nil, err
	}

	args = append(args, pageSize, (page-1)*pageSize)
	query := fmt.Sprintf(
		`SELECT %s FROM short_links WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		linkColumns, cond, len(args)-1, len(args),
	)

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*shortener.ShortLink, 0, pageSize)

	for rows.Next() {
		link, err := p.scanLink(rows)
		if err != nil {
			return nil, err
		}

		items = append(items, link)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	pageCount := int((total + int64(pageSize) - 1) / int64(pageSize))

	return &shortener.ListResult{
		Items:     items,
		Total:     total,
		Page:      page,
		PageCount: pageCount,
	}, nil
}

func (p *PostgresStore) UpdateLink(ctx context.Context, link *shortener.ShortLink) error {
	query := `
		UPDATE short_links
		SET title = $2, description = $3, is_active = $4, tags = $5,
		    expiration_type = $6, expiration_date = $7,
		    expiration_clicks = $8, clicks_remaining = $9
		WHERE id = $1
	`

	tag, err := p.pool.Exec(ctx, query,
		link.ID,
		nullableString(link.Title),
		nullableString(link.Description),
		link.IsActive,
		link.Tags,
		string(link.ExpirationType),
		link.ExpirationDate,
		link.ExpirationClicks,
		link.ClicksRemaining,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return shortener.ErrNotFound
	}

	return nil
}

func (p *PostgresStore) DeleteLink(ctx context.Context, id string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM short_links WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return shortener.ErrNotFound
	}

	return nil
}

func (p *PostgresStore) TopLinks(ctx context.Context, userID string, n int) ([]*shortener.ShortLink, error) {
	query := `SELECT ` + linkColumns + `
		FROM short_links WHERE user_id = $1
		ORDER BY total_clicks DESC, created_at DESC LIMIT $2`

	rows, err := p.pool.Query(ctx, query, userID, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	links := make([]*shortener.ShortLink, 0, n)

	for rows.Next() {
		link, err := p.scanLink(rows)
		if err != nil {
			return nil, err
		}

		links = append(links, link)
	}

	return links, rows.Err()
}

func (p *PostgresStore) CountLinks(ctx context.Context, userID string) (int64, error) {
	var count int64

	err := p.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM short_links WHERE user_id = $1`, userID,
	).Scan(&count)

	return count, err
}

// ApplyClick performs the full per-link click mutation in one statement,
// so concurrent clicks serialize at the row level and never lose updates.
func (p *PostgresStore) ApplyClick(ctx context.Context, linkID string, now time.Time) (*shortener.ShortLink, error) {
	query := `
		UPDATE short_links
		SET total_clicks = total_clicks + 1,
		    clicks_remaining = CASE
		        WHEN expiration_type = 'clicks' AND clicks_remaining IS NOT NULL
		        THEN GREATEST(clicks_remaining - 1, 0)
		        ELSE clicks_remaining
		    END,
		    last_accessed_at = $2
		WHERE id = $1
		RETURNING ` + linkColumns

	return p.scanLink(p.pool.QueryRow(ctx, query, linkID, now))
}

func (p *PostgresStore) AppendClick(ctx context.Context, event *shortener.ClickEvent) error {
	query := `
		INSERT INTO click_events (
			id, link_id, user_id, ip_address, country, city, device,
			browser, os, referrer, user_agent, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := p.pool.Exec(ctx, query,
		event.ID,
		event.LinkID,
		event.UserID,
		nullableString(event.IPAddress),
		event.Country,
		event.City,
		string(event.Device),
		event.Browser,
		event.OS,
		nullableString(event.Referrer),
		nullableString(event.UserAgent),
		event.CreatedAt,
	)

	return err
}

func (p *PostgresStore) ClicksByLink(ctx context.Context, linkID string) ([]*shortener.ClickEvent, error) {
	query := `
		SELECT id, link_id, user_id, ip_address, country, city, device,
		       browser, os, referrer, user_agent, created_at
		FROM click_events
		WHERE link_id = $1
		ORDER BY created_at
	`

	rows, err := p.pool.Query(ctx, query, linkID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*shortener.ClickEvent

	for rows.Next() {
		var (
			e                       shortener.ClickEvent
			device                  string
			ip, referrer, userAgent *string
		)

		err = rows.Scan(&e.ID, &e.LinkID, &e.UserID, &ip, &e.Country, &e.City,
			&device, &e.Browser, &e.OS, &referrer, &userAgent, &e.CreatedAt)
		if err != nil {
			return nil, err
		}

		e.Device = shortener.DeviceType(device)
		e.IPAddress = derefString(ip)
		e.Referrer = derefString(referrer)
		e.UserAgent = derefString(userAgent)

		events = append(events, &e)
	}

	return events, rows.Err()
}

func (p *PostgresStore) DeleteClicks(ctx context.Context, linkID string) error {
	_, err := p.pool.Exec(ctx, `DELETE FROM click_events WHERE link_id = $1`, linkID)

	return err
}

func (p *PostgresStore) CountClicks(ctx context.Context, userID string) (int64, error) {
	var count int64

	err := p.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM click_events WHERE user_id = $1`, userID,
	).Scan(&count)

	return count, err
}

func (p *PostgresStore) CountClicksSince(ctx context.Context, userID string, since time.Time) (int64, error) {
	var count int64

	err := p.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM click_events WHERE user_id = $1 AND created_at >= $2`,
		userID, since,
	).Scan(&count)

	return count, err
}

// AdjustUserLinks upserts the counter row and applies the delta floored
// at zero, all server-side.
func (p *PostgresStore) AdjustUserLinks(ctx context.Context, userID string, delta int64) error {
	query := `
		INSERT INTO users (id, total_links, total_clicks, is_active)
		VALUES ($1, GREATEST($2, 0), 0, TRUE)
		ON CONFLICT (id) DO UPDATE
		SET total_links = GREATEST(users.total_links + $2, 0)
	`

	_, err := p.pool.Exec(ctx, query, userID, delta)

	return err
}

func (p *PostgresStore) AdjustUserClicks(ctx context.Context, userID string, delta int64) error {
	query := `
		INSERT INTO users (id, total_links, total_clicks, is_active)
		VALUES ($1, 0, GREATEST($2, 0), TRUE)
		ON CONFLICT (id) DO UPDATE
		SET total_clicks = GREATEST(users.total_clicks + $2, 0)
	`

	_, err := p.pool.Exec(ctx, query, userID, delta)

	return err
}

func (p *PostgresStore) SetUserCounters(ctx context.Context, userID string, links, clicks int64) error {
	query := `
		INSERT INTO users (id, total_links, total_clicks, is_active)
		VALUES ($1, $2, $3, TRUE)
		ON CONFLICT (id) DO UPDATE
		SET total_links = $2, total_clicks = $3
	`

	_, err := p.pool.Exec(ctx, query, userID, links, clicks)

	return err
}

func (p *PostgresStore) UserByID(ctx context.Context, userID string) (*shortener.User, error) {
	query := `
		SELECT id, COALESCE(name, ''), COALESCE(email, ''), total_links,
		       total_clicks, is_premium, is_admin, is_active, created_at
		FROM users WHERE id = $1
	`

	var user shortener.User

	err := p.pool.QueryRow(ctx, query, userID).Scan(
		&user.ID, &user.Name, &user.Email, &user.TotalLinks,
		&user.TotalClicks, &user.IsPremium, &user.IsAdmin,
		&user.IsActive, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shortener.ErrNotFound
		}

		return nil, err
	}

	return &user, nil
}

func (p *PostgresStore) scanLink(row pgx.Row) (*shortener.ShortLink, error) {
	var (
		link                      shortener.ShortLink
		alias, title, description *string
		expirationType            string
	)

	err := row.Scan(
		&link.ID,
		&link.UserID,
		&link.OriginalURL,
		&link.Code,
		&alias,
		&title,
		&description,
		&link.Tags,
		&link.TotalClicks,
		&link.IsActive,
		&expirationType,
		&link.ExpirationDate,
		&link.ExpirationClicks,
		&link.ClicksRemaining,
		&link.LastAccessedAt,
		&link.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shortener.ErrNotFound
		}

		return nil, err
	}

	link.Alias = derefString(alias)
	link.Title = derefString(title)
	link.Description = derefString(description)
	link.ExpirationType = shortener.ExpirationType(expirationType)

	return &link, nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}

// Compile-time check.
var _ shortener.Repository = (*PostgresStore)(nil)
