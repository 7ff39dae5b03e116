package pgdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
	"github.com/prodseal/go-backend/internal/domain"
	"github.com/prodseal/go-backend/internal/repository/pgdb/converter"
	"github.com/prodseal/go-backend/pkg/e"
	"github.com/prodseal/go-backend/pkg/tr"
)

// CompletionJobRepo реализует репозиторий заданий завершения поверх PostgreSQL.
// Переходы статусов выполняются условными UPDATE с проверкой rows affected:
// арбитром гонок между драйверами очереди выступает сама БД.
type CompletionJobRepo struct {
	pool *pgxpool.Pool
	conv converter.CompletionJobConverter
}

func NewCompletionJobRepo(pool *pgxpool.Pool, conv converter.CompletionJobConverter) *CompletionJobRepo {
	return &CompletionJobRepo{
		pool: pool,
		conv: conv,
	}
}

const jobColumns = `id, product_id, status, attempts, last_error, created_at, updated_at`

// CreateOrReuse возвращает нетерминальное задание продукта, создавая его при
// отсутствии. FAILED-задание возрождается в PENDING с сохранением attempts.
// Частичный уникальный индекс по product_id исключает второе активное задание
// при гонке постановщиков.
func (c *CompletionJobRepo) CreateOrReuse(ctx context.Context, productID int64) (*domain.CompletionJob, bool, error) {
	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("%s: failed to begin transaction: %w", whereami.WhereAmI(), err)
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		}
	}()

	txCtx := tr.CtxWithTx(ctx, tx)

	job, reused, err := c.createOrReuseTx(txCtx, productID)
	if err != nil {
		return nil, false, err
	}

	// Будим поллер, чтобы PENDING-задание не ждало следующего тика.
	if _, err = tx.Exec(ctx, "NOTIFY completion_pending;"); err != nil {
		return nil, false, e.Wrap(whereami.WhereAmI(), err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, false, fmt.Errorf("%s: failed to commit transaction: %w", whereami.WhereAmI(), err)
	}

	return job, reused, nil
}

func (c *CompletionJobRepo) createOrReuseTx(ctx context.Context, productID int64) (*domain.CompletionJob, bool, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, false, e.Wrap(whereami.WhereAmI(), err)
	}

	// Существующее активное задание переиспользуем как есть.
	query := `
		SELECT ` + jobColumns + `
		FROM completion_jobs
		WHERE product_id = $1 AND status IN ($2, $3)
	`

	model, err := scanJob(tx.QueryRow(ctx, query, productID, domain.JobStatusPending, domain.JobStatusProcessing))
	if err == nil {
		return c.conv.ToEntity(model), true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, e.Wrap(whereami.WhereAmI(), err)
	}

	// Последнее FAILED-задание возрождаем в PENDING: история попыток остаётся.
	query = `
		UPDATE completion_jobs
		SET status = $1, last_error = NULL, updated_at = NOW()
		WHERE id = (
			SELECT id FROM completion_jobs
			WHERE product_id = $2 AND status = $3
			ORDER BY created_at DESC
			LIMIT 1
		)
		RETURNING ` + jobColumns

	model, err = scanJob(tx.QueryRow(ctx, query, domain.JobStatusPending, productID, domain.JobStatusFailed))
	if err == nil {
		return c.conv.ToEntity(model), true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, e.Wrap(whereami.WhereAmI(), err)
	}

	query = `
		INSERT INTO completion_jobs (product_id, status)
		VALUES ($1, $2)
		RETURNING ` + jobColumns

	model, err = scanJob(tx.QueryRow(ctx, query, productID, domain.JobStatusPending))
	if err != nil {
		if postgresDuplicate(err) {
			// Гонка с другим постановщиком: его задание уже активно.
			query = `
				SELECT ` + jobColumns + `
				FROM completion_jobs
				WHERE product_id = $1 AND status IN ($2, $3)
			`

			model, err = scanJob(tx.QueryRow(ctx, query, productID, domain.JobStatusPending, domain.JobStatusProcessing))
			if err != nil {
				return nil, false, e.Wrap(whereami.WhereAmI(), err)
			}

			return c.conv.ToEntity(model), true, nil
		}

		return nil, false, fmt.Errorf("%s: failed to insert completion job: %w", whereami.WhereAmI(), err)
	}

	return c.conv.ToEntity(model), false, nil
}

// GetByID возвращает задание или nil, если задание не найдено.
func (c *CompletionJobRepo) GetByID(ctx context.Context, id string) (*domain.CompletionJob, error) {
	query := `
		SELECT ` + jobColumns + `
		FROM completion_jobs
		WHERE id = $1
	`

	model, err := scanJob(c.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return c.conv.ToEntity(model), nil
}

// Claim атомарно переводит PENDING -> PROCESSING.
// Возвращает false, если задание уже захвачено или завершено.
func (c *CompletionJobRepo) Claim(ctx context.Context, id string) (bool, error) {
	query := `
		UPDATE completion_jobs
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`

	result, err := c.pool.Exec(ctx, query, domain.JobStatusProcessing, id, domain.JobStatusPending)
	if err != nil {
		return false, fmt.Errorf("%s: failed to claim job %s: %w", whereami.WhereAmI(), id, err)
	}

	return result.RowsAffected() == 1, nil
}

func (c *CompletionJobRepo) MarkDone(ctx context.Context, id string) error {
	query := `
		UPDATE completion_jobs
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`

	result, err := c.pool.Exec(ctx, query, domain.JobStatusDone, id, domain.JobStatusProcessing)
	if err != nil {
		return fmt.Errorf("%s: failed to mark job %s as done: %w", whereami.WhereAmI(), id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("%s: job %s is not in processing", whereami.WhereAmI(), id)
	}

	return nil
}

// MarkFailed переводит задание в FAILED, увеличивает attempts и сохраняет
// причину для диагностики.
func (c *CompletionJobRepo) MarkFailed(ctx context.Context, id string, cause string) error {
	query := `
		UPDATE completion_jobs
		SET status = $1, attempts = attempts + 1, last_error = $2, updated_at = NOW()
		WHERE id = $3 AND status = $4
	`

	result, err := c.pool.Exec(ctx, query, domain.JobStatusFailed, cause, id, domain.JobStatusProcessing)
	if err != nil {
		return fmt.Errorf("%s: failed to mark job %s as failed: %w", whereami.WhereAmI(), id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("%s: job %s is not in processing", whereami.WhereAmI(), id)
	}

	return nil
}

// ListOldestPending возвращает старейшие PENDING-задания без захвата.
// Захват остаётся за ProcessJob: список только кандидаты.
func (c *CompletionJobRepo) ListOldestPending(ctx context.Context, limit int) ([]*domain.CompletionJob, error) {
	query := `
		SELECT ` + jobColumns + `
		FROM completion_jobs
		WHERE status = $1
		ORDER BY created_at
		LIMIT $2
	`

	rows, err := c.pool.Query(ctx, query, domain.JobStatusPending, limit)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	var models []*converter.CompletionJobModel
	for rows.Next() {
		var model converter.CompletionJobModel
		if err := rows.Scan(
			&model.ID, &model.ProductID, &model.Status, &model.Attempts,
			&model.LastError, &model.CreatedAt, &model.UpdatedAt,
		); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		models = append(models, &model)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iterator error: %w", whereami.WhereAmI(), err)
	}

	return c.conv.ToArrEntity(models), nil
}

func scanJob(row pgx.Row) (*converter.CompletionJobModel, error) {
	var model converter.CompletionJobModel
	err := row.Scan(
		&model.ID, &model.ProductID, &model.Status, &model.Attempts,
		&model.LastError, &model.CreatedAt, &model.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &model, nil
}
