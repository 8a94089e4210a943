package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hamed0406/sentinel/internal/domain"
	"github.com/hamed0406/sentinel/internal/repo"
)

var _ repo.TargetStore = (*Store)(nil)
var _ repo.OutcomeStore = (*Store)(nil)

type Store struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	p, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("pgxpool: %w", err)
	}
	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := p.Ping(pctx); err != nil {
		p.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return &Store{pool: p}, nil
}

func (s *Store) Close() { s.pool.Close() }

// ---- TargetStore ----

func (s *Store) Add(ctx context.Context, t *domain.Target) error {
	if t.ID == "" {
		t.ID = domain.TargetID(time.Now().UTC().Format("20060102T150405.000000000"))
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO targets (id, name, kind, address, expected_digest, expected_ports, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)
		 ON CONFLICT (id) DO NOTHING`,
		string(t.ID), t.Name, string(t.Kind), t.Address, t.ExpectedDigest, t.ExpectedPorts, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert target: %w", err)
	}
	return nil
}

func (s *Store) List(ctx context.Context) ([]domain.Target, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, kind, address, expected_digest, expected_ports, created_at
		 FROM targets ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list targets: %w", err)
	}
	defer rows.Close()

	var out []domain.Target
	for rows.Next() {
		var t domain.Target
		if err := rows.Scan(&t.ID, &t.Name, &t.Kind, &t.Address,
			&t.ExpectedDigest, &t.ExpectedPorts, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan target: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) GetByID(ctx context.Context, id domain.TargetID) (*domain.Target, error) {
	var t domain.Target
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, kind, address, expected_digest, expected_ports, created_at
		 FROM targets WHERE id=$1`, string(id)).
		Scan(&t.ID, &t.Name, &t.Kind, &t.Address, &t.ExpectedDigest, &t.ExpectedPorts, &t.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get target: %w", err)
	}
	return &t, nil
}

// ---- OutcomeStore ----

func (s *Store) Append(ctx context.Context, o *domain.Outcome) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO outcomes (target_id, status, latency_ms, packet_loss, message, produced_at)
		 VALUES ($1,$2,$3,$4,$5,$6)`,
		string(o.TargetID), string(o.Status), o.LatencyMS, o.PacketLoss, o.Message, o.ProducedAt)
	if err != nil {
		return fmt.Errorf("insert outcome: %w", err)
	}
	return nil
}

func (s *Store) LastByTarget(ctx context.Context, id domain.TargetID) (*domain.Outcome, error) {
	out, err := s.ListByTarget(ctx, id, 1)
	if err != nil || len(out) == 0 {
		return nil, err
	}
	return &out[0], nil
}

func (s *Store) ListByTarget(ctx context.Context, id domain.TargetID, limit int) ([]domain.Outcome, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx,
		`SELECT target_id, status, latency_ms, packet_loss, message, produced_at
		 FROM outcomes WHERE target_id=$1 ORDER BY produced_at DESC LIMIT $2`,
		string(id), limit)
	if err != nil {
		return nil, fmt.Errorf("list outcomes: %w", err)
	}
	defer rows.Close()

	var out []domain.Outcome
	for rows.Next() {
		var o domain.Outcome
		if err := rows.Scan(&o.TargetID, &o.Status, &o.LatencyMS,
			&o.PacketLoss, &o.Message, &o.ProducedAt); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (s *Store) AverageLatency(ctx context.Context, id domain.TargetID, window time.Duration) (*float64, error) {
	cutoff := time.Now().UTC().Add(-window)
	var avg *float64
	err := s.pool.QueryRow(ctx,
		`SELECT AVG(latency_ms) FROM outcomes
		 WHERE target_id=$1 AND produced_at >= $2 AND latency_ms IS NOT NULL`,
		string(id), cutoff).Scan(&avg)
	if err != nil {
		return nil, fmt.Errorf("average latency: %w", err)
	}
	return avg, nil
}
