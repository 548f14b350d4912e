package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ClinicBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/psqlbuilder"
)

// KeyBookingPolicy ключ записи с политикой бронирования
const KeyBookingPolicy = "booking_policy"

// Repository репозиторий настроек клиники (таблица clinic_settings: key -> JSONB)
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория настроек
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetBookingPolicy возвращает сырой JSON политики бронирования или nil, если запись отсутствует
func (r *Repository) GetBookingPolicy(ctx context.Context) ([]byte, error) {
	return r.get(ctx, "GetBookingPolicy", KeyBookingPolicy)
}

// SaveBookingPolicy сохраняет JSON политики бронирования (upsert)
func (r *Repository) SaveBookingPolicy(ctx context.Context, raw []byte) error {
	return r.save(ctx, "SaveBookingPolicy", KeyBookingPolicy, raw)
}

func (r *Repository) get(ctx context.Context, method, key string) ([]byte, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("value").
		From("clinic_settings").
		Where(squirrel.Eq{"key": key}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, method, err)
	}

	var value []byte
	err = executor.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan value: %v", ErrScanRow, method, err)
	}

	return value, nil
}

func (r *Repository) save(ctx context.Context, method, key string, raw []byte) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("clinic_settings").
		Columns("key", "value").
		Values(key, string(raw)).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: %s - build upsert query: %v", ErrBuildQuery, method, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: %s - execute upsert: %v", ErrExecQuery, method, err)
	}

	return nil
}
