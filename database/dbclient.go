package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"f0oster/regwatch/document"
	"f0oster/regwatch/versioning"
)

// DBClient is the Postgres-backed document store and change record sink.
type DBClient struct {
	pool *pgxpool.Pool
}

func NewDBClient(pool *pgxpool.Pool) *DBClient {
	return &DBClient{pool: pool}
}

func (r *DBClient) ListVersions(ctx context.Context, documentID string) ([]document.Version, error) {
	rows, err := r.pool.Query(ctx, ListVersions, documentID)
	if err != nil {
		return nil, fmt.Errorf("list versions query failed: %w", err)
	}
	versions, err := pgx.CollectRows(rows, scanVersion)
	if err != nil {
		return nil, fmt.Errorf("scan versions for %s: %w", documentID, err)
	}
	return versions, nil
}

func (r *DBClient) ListDocuments(ctx context.Context, filter document.Filter) ([]document.Version, error) {
	rows, err := r.pool.Query(ctx, ListDocuments, filter.SourceID, timestamptz(filter.Start), timestamptz(filter.End))
	if err != nil {
		return nil, fmt.Errorf("list documents query failed: %w", err)
	}
	versions, err := pgx.CollectRows(rows, scanVersion)
	if err != nil {
		return nil, fmt.Errorf("scan documents: %w", err)
	}
	return versions, nil
}

// InsertVersion appends a version. A zero Version number is assigned the next
// number for the document.
func (r *DBClient) InsertVersion(ctx context.Context, v document.Version) error {
	v = document.Normalize(v)
	metadataJSON, err := json.Marshal(v.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	tx, err := r.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer r.RollbackTx(ctx, tx) // no-op once committed

	if v.Version == 0 {
		if err := tx.QueryRow(ctx, NextVersionNumber, v.DocumentID).Scan(&v.Version); err != nil {
			return fmt.Errorf("next version number for %s: %w", v.DocumentID, err)
		}
	}

	tag, err := tx.Exec(ctx, InsertVersion,
		uuidToPgtype(uuid.New()),
		v.DocumentID,
		v.SourceID,
		v.Version,
		v.Title,
		v.Content,
		metadataJSON,
		v.Category,
		v.DeviceClasses,
		string(v.Status),
		v.OriginalDate,
	)
	if err != nil {
		return fmt.Errorf("insert version query failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s at %s", ErrDuplicateVersion, v.DocumentID, v.OriginalDate.Format("2006-01-02"))
	}
	return r.CommitTx(ctx, tx)
}

// SaveChangeRecords writes records in one transaction; records already stored are skipped.
func (r *DBClient) SaveChangeRecords(ctx context.Context, records []versioning.ChangeRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer r.RollbackTx(ctx, tx)

	for _, rec := range records {
		summaryJSON, err := json.Marshal(rec.ChangesSummary)
		if err != nil {
			return fmt.Errorf("marshal summary for %s: %w", rec.ID, err)
		}
		_, err = tx.Exec(ctx, InsertChangeRecord,
			uuidToPgtype(rec.ID),
			rec.DocumentID,
			rec.DocumentTitle,
			rec.SourceID,
			string(rec.ChangeType),
			rec.PreviousVersion.Version,
			rec.CurrentVersion.Version,
			rec.CurrentVersion.OriginalDate,
			summaryJSON,
			string(rec.ImpactAssessment),
			rec.AffectedSections,
			rec.AffectedStakeholders,
			rec.Confidence,
			rec.DetectedAt,
		)
		if err != nil {
			return fmt.Errorf("insert change record %s: %w", rec.ID, err)
		}
	}
	return r.CommitTx(ctx, tx)
}

func (r *DBClient) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction failed: %w", err)
	}
	return tx, nil
}

func (r *DBClient) CommitTx(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction failed: %w", err)
	}
	return nil
}

func (r *DBClient) RollbackTx(ctx context.Context, tx pgx.Tx) error {
	// Rollback returns an error if transaction is already committed/rolled back
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return err
	}
	return nil
}

func scanVersion(row pgx.CollectableRow) (document.Version, error) {
	var vr versionRow
	err := row.Scan(
		&vr.DocumentID,
		&vr.SourceID,
		&vr.Version,
		&vr.Title,
		&vr.Content,
		&vr.Metadata,
		&vr.Category,
		&vr.DeviceClasses,
		&vr.Status,
		&vr.OriginalDate,
	)
	if err != nil {
		return document.Version{}, err
	}
	return vr.toVersion(), nil
}

// toVersion converts a row; unreadable metadata is treated as empty.
func (vr versionRow) toVersion() document.Version {
	var md document.Metadata
	if len(vr.Metadata) > 0 {
		_ = json.Unmarshal(vr.Metadata, &md)
	}
	return document.Normalize(document.Version{
		DocumentID:    vr.DocumentID,
		SourceID:      vr.SourceID,
		Title:         vr.Title,
		Content:       vr.Content,
		Metadata:      md,
		Category:      vr.Category,
		DeviceClasses: vr.DeviceClasses,
		Status:        document.Status(vr.Status),
		OriginalDate:  vr.OriginalDate,
		Version:       int(vr.Version),
	})
}

// Helper functions for pgtype conversion

func uuidToPgtype(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}

func timestamptz(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: *t, Valid: true}
}
