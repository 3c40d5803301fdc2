package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fitstudio/coach-scheduler/backend/internal/domain"
)

func (h *Handler) GetAllCoaches(w http.ResponseWriter, r *http.Request) {
	coaches, err := h.repository.GetAllCoaches()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取教练列表成功", coaches)
}

func (h *Handler) GetCoach(w http.ResponseWriter, r *http.Request) {
	coach := r.Context().Value(CoachInfoCtx).(*domain.Coach)
	h.successResponse(w, r, "获取教练信息成功", coach)
}

func (h *Handler) CreateCoach(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name           string                     `json:"name" validate:"required"`
		Color          string                     `json:"color"`
		Avatar         string                     `json:"avatar"`
		Email          string                     `json:"email" validate:"omitempty,email"`
		EmploymentType string                     `json:"employmentType" validate:"required,oneof=FULL_TIME PART_TIME"`
		WeekSchedule   map[string]map[string]bool `json:"weekSchedule"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 可用性配置在入库前就归一化，排班核心不需要再处理旧格式
	weekSchedule, err := domain.NormalizeWeekSchedule(req.WeekSchedule)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	coach := &domain.Coach{
		Name:           req.Name,
		Color:          req.Color,
		Avatar:         req.Avatar,
		Email:          req.Email,
		EmploymentType: domain.EmploymentType(req.EmploymentType),
	}
	if weekSchedule != nil {
		coach.Availability = &domain.Availability{WeekSchedule: weekSchedule}
	}

	if err := h.repository.CreateCoach(coach); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "coaches_email_key":
			h.badRequest(w, r, errors.New("邮箱已存在"))
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "教练创建成功", coach)
}

func (h *Handler) UpdateCoach(w http.ResponseWriter, r *http.Request) {
	coach := r.Context().Value(CoachInfoCtx).(*domain.Coach)

	var req struct {
		Name           *string                    `json:"name" validate:"omitempty,min=1"`
		Color          *string                    `json:"color"`
		Avatar         *string                    `json:"avatar"`
		Email          *string                    `json:"email" validate:"omitempty,email"`
		EmploymentType *string                    `json:"employmentType" validate:"omitempty,oneof=FULL_TIME PART_TIME"`
		WeekSchedule   map[string]map[string]bool `json:"weekSchedule"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.Name != nil {
		coach.Name = *req.Name
	}
	if req.Color != nil {
		coach.Color = *req.Color
	}
	if req.Avatar != nil {
		coach.Avatar = *req.Avatar
	}
	if req.Email != nil {
		coach.Email = *req.Email
	}
	if req.EmploymentType != nil {
		coach.EmploymentType = domain.EmploymentType(*req.EmploymentType)
	}
	if req.WeekSchedule != nil {
		weekSchedule, err := domain.NormalizeWeekSchedule(req.WeekSchedule)
		if err != nil {
			h.badRequest(w, r, err)
			return
		}
		coach.Availability = &domain.Availability{WeekSchedule: weekSchedule}
	}

	if err := h.repository.UpdateCoach(coach); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "教练信息已被他人修改，请刷新后重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "教练信息更新成功", coach)
}

func (h *Handler) ArchiveCoach(w http.ResponseWriter, r *http.Request) {
	coach := r.Context().Value(CoachInfoCtx).(*domain.Coach)

	if err := h.repository.ArchiveCoach(coach.ID); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "教练不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "教练已归档", nil)
}

func (h *Handler) SetCoachStores(w http.ResponseWriter, r *http.Request) {
	coach := r.Context().Value(CoachInfoCtx).(*domain.Coach)

	var req struct {
		Stores []struct {
			StoreID   string `json:"storeID" validate:"required"`
			IsPrimary bool   `json:"isPrimary"`
		} `json:"stores" validate:"dive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 只要有门店关联，就必须恰好有一个主门店
	stores := make([]domain.CoachStore, 0, len(req.Stores))
	primaryCount := 0
	for _, s := range req.Stores {
		if s.IsPrimary {
			primaryCount++
		}
		stores = append(stores, domain.CoachStore{StoreID: s.StoreID, IsPrimary: s.IsPrimary})
	}
	if len(stores) > 0 && primaryCount != 1 {
		h.badRequest(w, r, errors.New("必须恰好指定一个主门店"))
		return
	}

	if err := h.repository.SetCoachStores(coach.ID, stores); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "coach_stores_store_id_fkey":
			h.badRequest(w, r, errors.New("关联的门店不存在"))
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	coach.Stores = stores
	h.successResponse(w, r, "教练门店关联更新成功", coach)
}
