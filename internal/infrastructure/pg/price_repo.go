package pg

import (
	"context"
	"encoding/json"
	"fmt"

	"goldprice/internal/application"
	"goldprice/internal/domain"
	"goldprice/internal/infrastructure/logx"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// PriceRepo mirrors appended batches into Postgres, one snapshot row per batch
// and one jsonb row per record.
type PriceRepo struct {
	db   *DB
	uow  *UnitOfWork
	zone string
}

var _ application.PriceMirror = (*PriceRepo)(nil)

func NewPriceRepo(db *DB, zone string) *PriceRepo {
	return &PriceRepo{db: db, uow: &UnitOfWork{Pool: db.Pool}, zone: zone}
}

func (r *PriceRepo) Mirror(ctx context.Context, date string, batch domain.Batch) error {
	day, err := domain.ParseDate(date)
	if err != nil {
		return err
	}
	id := uuid.NewString()
	log := logx.L().With(
		zap.String("repo", "gold_price"),
		zap.String("operation", "Mirror"),
		zap.String("snapshot_id", id),
		zap.String("date", date),
		zap.Int("records", len(batch)),
	)

	err = r.uow.Do(ctx, func(ctx context.Context) error {
		c := conn(ctx, r.db.Pool)
		const insSnapshot = `
        INSERT INTO gold_price_snapshots(id, snapshot_date, zone)
        VALUES ($1::uuid, $2, $3)`
		if _, err := c.Exec(ctx, insSnapshot, id, day, r.zone); err != nil {
			return fmt.Errorf("insert snapshot: %w", err)
		}

		const insRow = `
        INSERT INTO gold_price_rows(snapshot_id, position, fields, record)
        VALUES ($1::uuid, $2, $3, $4::jsonb)`
		b := &pgx.Batch{}
		for i, rec := range batch {
			doc, err := json.Marshal(rec)
			if err != nil {
				return fmt.Errorf("encode record %d: %w", i, err)
			}
			b.Queue(insRow, id, i, rec.Keys(), string(doc))
		}
		res := c.SendBatch(ctx, b)
		for i := 0; i < b.Len(); i++ {
			if _, err := res.Exec(); err != nil {
				_ = res.Close()
				return fmt.Errorf("insert row %d: %w", i, err)
			}
		}
		return res.Close()
	})
	if err != nil {
		log.Error("sql.exec_failed", zap.Error(err))
		return err
	}
	log.Info("sql.exec_success")
	return nil
}
