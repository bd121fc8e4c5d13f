package sink

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sjsage522/livehsworker/internal/schedule"
	"sjsage522/livehsworker/logger"
	"sjsage522/livehsworker/pkg/errors"
)

// PostgresSink implements Sink using PostgreSQL
type PostgresSink struct {
	pool *pgxpool.Pool
	now  func() time.Time
	log  *logger.Logger
}

// NewPostgresSink connects to the DSN and checks the server is reachable.
// Caller must call Close when done.
func NewPostgresSink(ctx context.Context, dsn string) (*PostgresSink, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, errors.NewSink("postgres", "pgxpool.New", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.NewSink("postgres", "ping", err)
	}
	return &PostgresSink{
		pool: pool,
		now:  time.Now,
		log:  logger.ForSink("postgres"),
	}, nil
}

// Close closes the connection pool
func (p *PostgresSink) Close() error {
	p.pool.Close()
	return nil
}

// Persist writes the run row and every record inside one transaction
func (p *PostgresSink) Persist(ctx context.Context, runID string, records []schedule.Record) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return errors.NewSink("postgres", "begin", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO crawl_runs (run_id, run_time, total) VALUES ($1, $2, $3)`,
		runID, p.now(), len(records),
	)
	if err != nil {
		return errors.NewSink("postgres", "insert crawl_runs", err)
	}

	batch := &pgx.Batch{}
	for idx, r := range records {
		batch.Queue(
			`INSERT INTO schedule_items
			   (run_id, idx, fingerprint, date, day, channel, channel_type, category, time, product, product_link)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			runID, idx, string(schedule.Fingerprint(r)),
			r.Date(), r.Day(), r.Channel(), string(r.ChannelType()), r.Category(), r.Time(), r.Product(), r.Link(),
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return errors.NewSink("postgres", "insert schedule_items", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.NewSink("postgres", "commit", err)
	}

	p.log.Info().Str("run_id", runID).Int("total", len(records)).Msg("Persisted crawl run")
	return nil
}

// Filter holds optional equality predicates for ListSchedules.
// Empty fields are ignored.
type Filter struct {
	RunID    string
	Category string
	Channel  string
	Date     string
	Limit    int
}

// ScheduleRow is one persisted schedule record
type ScheduleRow struct {
	RunID       string
	Date        string
	Day         string
	Channel     string
	ChannelType string
	Category    string
	Time        string
	Product     string
	ProductLink string
}

// ListSchedules returns persisted records matching the filter
func (p *PostgresSink) ListSchedules(ctx context.Context, f Filter) ([]ScheduleRow, error) {
	query, args := buildListQuery(f)
	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ListSchedules: %w", err)
	}
	defer rows.Close()

	var out []ScheduleRow
	for rows.Next() {
		var r ScheduleRow
		if err := rows.Scan(&r.RunID, &r.Date, &r.Day, &r.Channel, &r.ChannelType, &r.Category, &r.Time, &r.Product, &r.ProductLink); err != nil {
			return nil, fmt.Errorf("ListSchedules scan: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func buildListQuery(f Filter) (string, []any) {
	var where []string
	var args []any
	add := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		where = append(where, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	add("run_id", f.RunID)
	add("category", f.Category)
	add("channel", f.Channel)
	add("date", f.Date)

	query := `SELECT run_id, date, day, channel, channel_type, category, time, product, product_link FROM schedule_items`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY date, time, channel, run_id"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	return query, args
}
