package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/fitstudio/coach-scheduler/backend/internal/domain"
)

func (r *Repository) GetAllStores() ([]*domain.Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, name, shifts, archived, created_at, version
		FROM stores
		WHERE archived = FALSE
		ORDER BY created_at, id
	`

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stores []*domain.Store
	for rows.Next() {
		store := &domain.Store{}
		var shifts []byte

		dst := []any{&store.ID, &store.Name, &shifts, &store.Archived, &store.CreatedAt, &store.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		if len(shifts) > 0 {
			if err := json.Unmarshal(shifts, &store.Shifts); err != nil {
				return nil, err
			}
		}

		stores = append(stores, store)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stores, nil
}

func (r *Repository) GetStoreByID(id string) (*domain.Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `SELECT name, shifts, archived, created_at, version FROM stores WHERE id = $1`

	store := &domain.Store{ID: id}
	var shifts []byte

	dst := []any{&store.Name, &shifts, &store.Archived, &store.CreatedAt, &store.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	if len(shifts) > 0 {
		if err := json.Unmarshal(shifts, &store.Shifts); err != nil {
			return nil, err
		}
	}

	return store, nil
}

func (r *Repository) CreateStore(store *domain.Store) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	shifts, err := json.Marshal(store.Shifts)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO stores (name, shifts)
		VALUES ($1, $2)
		RETURNING id, created_at, version
	`

	return r.dbpool.QueryRowContext(ctx, query, store.Name, shifts).Scan(&store.ID, &store.CreatedAt, &store.Version)
}

func (r *Repository) UpdateStore(store *domain.Store) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	shifts, err := json.Marshal(store.Shifts)
	if err != nil {
		return err
	}

	query := `
		UPDATE stores
		SET name = $1, shifts = $2, version = version + 1
		WHERE id = $3 AND version = $4
		RETURNING created_at, version
	`

	args := []any{store.Name, shifts, store.ID, store.Version}
	return r.dbpool.QueryRowContext(ctx, query, args...).Scan(&store.CreatedAt, &store.Version)
}

// ArchiveStore 软删除门店，后续的排班生成会跳过它
func (r *Repository) ArchiveStore(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	result, err := r.dbpool.ExecContext(ctx, `UPDATE stores SET archived = TRUE, version = version + 1 WHERE id = $1`, id)
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
