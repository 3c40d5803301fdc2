package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/fitstudio/coach-scheduler/backend/internal/domain"
)

// scanWeekSchedule 将数据库中的 jsonb 可用性数据解析并归一化。
// 旧版数据中的 canWorkMorning / canWorkEvening 字段在这里统一转换成
// 班次 ID，排班核心不需要再关心新旧格式。
func scanWeekSchedule(raw []byte) (*domain.Availability, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var rawSchedule map[string]map[string]bool
	if err := json.Unmarshal(raw, &rawSchedule); err != nil {
		return nil, err
	}

	ws, err := domain.NormalizeWeekSchedule(rawSchedule)
	if err != nil {
		return nil, err
	}
	if ws == nil {
		return nil, nil
	}

	return &domain.Availability{WeekSchedule: ws}, nil
}

func marshalWeekSchedule(availability *domain.Availability) (any, error) {
	if availability == nil || len(availability.WeekSchedule) == 0 {
		return nil, nil
	}
	return json.Marshal(availability.WeekSchedule)
}

// GetAllCoaches 返回所有未归档的教练及其门店关联
func (r *Repository) GetAllCoaches() ([]*domain.Coach, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT
			c.id,
			c.name,
			c.color,
			c.avatar,
			c.email,
			c.employment_type,
			c.week_schedule,
			c.created_at,
			c.version,
			cs.store_id,
			cs.is_primary
		FROM coaches c
		LEFT JOIN coach_stores cs ON c.id = cs.coach_id
		WHERE c.archived = FALSE
		ORDER BY c.created_at, c.id
	`

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var coaches []*domain.Coach
	coachesMap := make(map[string]*domain.Coach)

	for rows.Next() {
		var row struct {
			ID             string
			Name           string
			Color          string
			Avatar         string
			Email          sql.NullString
			EmploymentType string
			WeekSchedule   []byte
			CreatedAt      time.Time
			Version        int32

			StoreID   sql.NullString
			IsPrimary sql.NullBool
		}

		dst := []any{
			&row.ID,
			&row.Name,
			&row.Color,
			&row.Avatar,
			&row.Email,
			&row.EmploymentType,
			&row.WeekSchedule,
			&row.CreatedAt,
			&row.Version,
			&row.StoreID,
			&row.IsPrimary,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		coach, exists := coachesMap[row.ID]
		if !exists {
			availability, err := scanWeekSchedule(row.WeekSchedule)
			if err != nil {
				return nil, err
			}

			coach = &domain.Coach{
				ID:             row.ID,
				Name:           row.Name,
				Color:          row.Color,
				Avatar:         row.Avatar,
				Email:          row.Email.String,
				EmploymentType: domain.EmploymentType(row.EmploymentType),
				Availability:   availability,
				CreatedAt:      row.CreatedAt,
				Version:        row.Version,
			}
			coachesMap[row.ID] = coach
			coaches = append(coaches, coach)
		}

		if row.StoreID.Valid {
			coach.Stores = append(coach.Stores, domain.CoachStore{
				StoreID:   row.StoreID.String,
				IsPrimary: row.IsPrimary.Bool,
			})
		}
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return coaches, nil
}

func (r *Repository) GetCoachByID(id string) (*domain.Coach, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT name, color, avatar, email, employment_type, week_schedule, archived, created_at, version
		FROM coaches WHERE id = $1
	`

	coach := &domain.Coach{ID: id}
	var email sql.NullString
	var weekSchedule []byte

	dst := []any{&coach.Name, &coach.Color, &coach.Avatar, &email, &coach.EmploymentType, &weekSchedule, &coach.Archived, &coach.CreatedAt, &coach.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}
	coach.Email = email.String

	availability, err := scanWeekSchedule(weekSchedule)
	if err != nil {
		return nil, err
	}
	coach.Availability = availability

	storesQuery := `SELECT store_id, is_primary FROM coach_stores WHERE coach_id = $1`
	rows, err := r.dbpool.QueryContext(ctx, storesQuery, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var cs domain.CoachStore
		if err := rows.Scan(&cs.StoreID, &cs.IsPrimary); err != nil {
			return nil, err
		}
		coach.Stores = append(coach.Stores, cs)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return coach, nil
}

func (r *Repository) CreateCoach(coach *domain.Coach) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	weekSchedule, err := marshalWeekSchedule(coach.Availability)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO coaches (name, color, avatar, email, employment_type, week_schedule)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, version
	`

	args := []any{coach.Name, coach.Color, coach.Avatar, coach.Email, coach.EmploymentType, weekSchedule}
	return r.dbpool.QueryRowContext(ctx, query, args...).Scan(&coach.ID, &coach.CreatedAt, &coach.Version)
}

func (r *Repository) UpdateCoach(coach *domain.Coach) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	weekSchedule, err := marshalWeekSchedule(coach.Availability)
	if err != nil {
		return err
	}

	query := `
		UPDATE coaches
		SET
			name = $1,
			color = $2,
			avatar = $3,
			email = $4,
			employment_type = $5,
			week_schedule = $6,
			version = version + 1
		WHERE id = $7 AND version = $8
		RETURNING created_at, version
	`

	args := []any{coach.Name, coach.Color, coach.Avatar, coach.Email, coach.EmploymentType, weekSchedule, coach.ID, coach.Version}
	return r.dbpool.QueryRowContext(ctx, query, args...).Scan(&coach.CreatedAt, &coach.Version)
}

// ArchiveCoach 软删除教练，历史排班记录保持不动
func (r *Repository) ArchiveCoach(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	result, err := r.dbpool.ExecContext(ctx, `UPDATE coaches SET archived = TRUE, version = version + 1 WHERE id = $1`, id)
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

// SetCoachStores 全量替换教练的门店关联
func (r *Repository) SetCoachStores(coachID string, stores []domain.CoachStore) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM coach_stores WHERE coach_id = $1`, coachID); err != nil {
		return err
	}

	query := `INSERT INTO coach_stores (coach_id, store_id, is_primary) VALUES ($1, $2, $3)`
	for _, cs := range stores {
		if _, err := tx.ExecContext(ctx, query, coachID, cs.StoreID, cs.IsPrimary); err != nil {
			return err
		}
	}

	return tx.Commit()
}
