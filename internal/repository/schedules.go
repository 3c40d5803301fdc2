package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/fitstudio/coach-scheduler/backend/internal/domain"
)

func (r *Repository) GetSchedulesByDateRange(startDate, endDate string) ([]domain.Schedule, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, date_str, coach_id, store_id, shift_id, shift_name, extended, created_at
		FROM schedules
		WHERE date_str >= $1 AND date_str <= $2
		ORDER BY date_str, store_id, shift_id
	`

	rows, err := r.dbpool.QueryContext(ctx, query, startDate, endDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var schedules []domain.Schedule
	for rows.Next() {
		var s domain.Schedule
		dst := []any{&s.ID, &s.DateStr, &s.CoachID, &s.StoreID, &s.ShiftID, &s.ShiftName, &s.Extended, &s.CreatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		schedules = append(schedules, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return schedules, nil
}

func (r *Repository) CreateSchedules(schedules []domain.Schedule) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := insertSchedules(ctx, tx, schedules); err != nil {
		return err
	}

	return tx.Commit()
}

// ReplaceSchedules 在一个事务里先删除日期范围内的旧排班再写入新排班，
// 避免出现新旧混杂的中间状态
func (r *Repository) ReplaceSchedules(startDate, endDate string, schedules []domain.Schedule) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	deleteQuery := `DELETE FROM schedules WHERE date_str >= $1 AND date_str <= $2`
	if _, err := tx.ExecContext(ctx, deleteQuery, startDate, endDate); err != nil {
		return err
	}

	if err := insertSchedules(ctx, tx, schedules); err != nil {
		return err
	}

	return tx.Commit()
}

func insertSchedules(ctx context.Context, tx *sql.Tx, schedules []domain.Schedule) error {
	query := `
		INSERT INTO schedules (id, date_str, coach_id, store_id, shift_id, shift_name, extended)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	for _, s := range schedules {
		args := []any{s.ID, s.DateStr, s.CoachID, s.StoreID, s.ShiftID, s.ShiftName, s.Extended}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repository) DeleteSchedulesByDateRange(startDate, endDate string) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	result, err := r.dbpool.ExecContext(ctx, `DELETE FROM schedules WHERE date_str >= $1 AND date_str <= $2`, startDate, endDate)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

func (r *Repository) DeleteSchedule(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	result, err := r.dbpool.ExecContext(ctx, `DELETE FROM schedules WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
