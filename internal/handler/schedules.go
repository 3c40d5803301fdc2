package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/fitstudio/coach-scheduler/backend/internal/domain"
	"github.com/fitstudio/coach-scheduler/backend/internal/scheduler"
	"github.com/fitstudio/coach-scheduler/backend/internal/utils"
)

func (h *Handler) GetSchedules(w http.ResponseWriter, r *http.Request) {
	startDate := r.URL.Query().Get("startDate")
	endDate := r.URL.Query().Get("endDate")

	if _, err := utils.ValidateDateRange(startDate, endDate); err != nil {
		h.badRequest(w, r, err)
		return
	}

	schedules, err := h.repository.GetSchedulesByDateRange(startDate, endDate)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取排班记录成功", schedules)
}

type scheduleEntry struct {
	DateStr   string `json:"dateStr" validate:"required"`
	CoachID   string `json:"coachID" validate:"required"`
	StoreID   string `json:"storeID" validate:"required"`
	ShiftID   string `json:"shiftID" validate:"required"`
	ShiftName string `json:"shiftName" validate:"required"`
	Extended  bool   `json:"extended"`
}

func buildSchedules(entries []scheduleEntry) ([]domain.Schedule, error) {
	schedules := make([]domain.Schedule, 0, len(entries))
	for _, e := range entries {
		if _, err := time.Parse("2006-01-02", e.DateStr); err != nil {
			return nil, fmt.Errorf("日期 %q 不符合 YYYY-MM-DD 格式", e.DateStr)
		}
		schedules = append(schedules, domain.Schedule{
			ID:        uuid.NewString(),
			DateStr:   e.DateStr,
			CoachID:   e.CoachID,
			StoreID:   e.StoreID,
			ShiftID:   e.ShiftID,
			ShiftName: e.ShiftName,
			Extended:  e.Extended,
		})
	}
	return schedules, nil
}

func (h *Handler) CreateSchedules(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Schedules []scheduleEntry `json:"schedules" validate:"required,min=1,dive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	schedules, err := buildSchedules(req.Schedules)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.CreateSchedules(schedules); err != nil {
		h.scheduleWriteError(w, r, err)
		return
	}

	h.successResponse(w, r, "排班记录创建成功", schedules)
}

func (h *Handler) DeleteSchedulesByRange(w http.ResponseWriter, r *http.Request) {
	startDate := r.URL.Query().Get("startDate")
	endDate := r.URL.Query().Get("endDate")

	if _, err := utils.ValidateDateRange(startDate, endDate); err != nil {
		h.badRequest(w, r, err)
		return
	}

	deleted, err := h.repository.DeleteSchedulesByDateRange(startDate, endDate)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "排班记录删除成功", map[string]int64{"deleted": deleted})
}

func (h *Handler) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.repository.DeleteSchedule(id); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "排班记录不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "排班记录删除成功", nil)
}

// scheduleLockKey 生成和替换共用同一把日期范围锁，
// 同一个范围同一时间只允许一次写入
func scheduleLockKey(startDate, endDate string) string {
	return fmt.Sprintf("schedule_lock_%s_%s", startDate, endDate)
}

func (h *Handler) acquireScheduleLock(r *http.Request, lockKey string) (bool, error) {
	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(h.config.Redis.OperationTimeout)*time.Second)
	defer cancel()

	return h.redisClient.SetNX(ctx, lockKey, 1, time.Duration(h.config.Generation.LockExpiration)*time.Second).Result()
}

func (h *Handler) releaseScheduleLock(r *http.Request, lockKey string) {
	if err := h.redisClient.Del(context.Background(), lockKey).Err(); err != nil {
		h.logInternalServerError(r, fmt.Errorf("释放排班锁失败: %w", err))
	}
}

// ReplaceSchedules 在一个事务里替换日期范围内的排班，
// 成功后给受影响的教练发送排班通知邮件
func (h *Handler) ReplaceSchedules(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StartDate string          `json:"startDate" validate:"required"`
		EndDate   string          `json:"endDate" validate:"required"`
		Schedules []scheduleEntry `json:"schedules" validate:"dive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if _, err := utils.ValidateDateRange(req.StartDate, req.EndDate); err != nil {
		h.badRequest(w, r, err)
		return
	}

	schedules, err := buildSchedules(req.Schedules)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	for _, s := range schedules {
		if s.DateStr < req.StartDate || s.DateStr > req.EndDate {
			h.badRequest(w, r, fmt.Errorf("排班日期 %s 超出替换范围", s.DateStr))
			return
		}
	}

	lockKey := scheduleLockKey(req.StartDate, req.EndDate)
	acquired, err := h.acquireScheduleLock(r, lockKey)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if !acquired {
		h.errorResponse(w, r, "该日期范围的排班正在写入中，请稍后再试")
		return
	}
	defer h.releaseScheduleLock(r, lockKey)

	if err := h.repository.ReplaceSchedules(req.StartDate, req.EndDate, schedules); err != nil {
		h.scheduleWriteError(w, r, err)
		return
	}

	// 通知邮件发送失败不影响替换结果，只记录日志
	if err := h.publishScheduleMails(req.StartDate, req.EndDate, schedules); err != nil {
		h.logInternalServerError(r, err)
	}

	h.successResponse(w, r, "排班发布成功", schedules)
}

func (h *Handler) scheduleWriteError(w http.ResponseWriter, r *http.Request, err error) {
	var pgErr *pgconn.PgError
	switch {
	case errors.As(err, &pgErr):
		switch pgErr.ConstraintName {
		case "schedules_coach_id_fkey":
			h.badRequest(w, r, errors.New("排班中的教练不存在"))
		case "schedules_store_id_fkey":
			h.badRequest(w, r, errors.New("排班中的门店不存在"))
		case "schedules_date_str_store_id_shift_id_coach_id_key":
			h.badRequest(w, r, errors.New("存在重复的排班记录"))
		default:
			h.internalServerError(w, r, err)
		}
	default:
		h.internalServerError(w, r, err)
	}
}

func (h *Handler) publishScheduleMails(startDate, endDate string, schedules []domain.Schedule) error {
	coaches, err := h.repository.GetAllCoaches()
	if err != nil {
		return err
	}
	stores, err := h.repository.GetAllStores()
	if err != nil {
		return err
	}

	coachesByID := make(map[string]*domain.Coach)
	for _, c := range coaches {
		coachesByID[c.ID] = c
	}
	storesByID := make(map[string]*domain.Store)
	for _, s := range stores {
		storesByID[s.ID] = s
	}

	// 按教练汇总各自的班次
	itemsByCoach := make(map[string][]domain.ScheduleMailItem)
	for _, s := range schedules {
		item := domain.ScheduleMailItem{
			DateStr:   s.DateStr,
			ShiftName: s.ShiftName,
		}
		if store, ok := storesByID[s.StoreID]; ok {
			item.StoreName = store.Name
			if shift := store.FindShift(s.ShiftID); shift != nil {
				item.Start = shift.Start
				item.End = shift.End
			}
		}
		itemsByCoach[s.CoachID] = append(itemsByCoach[s.CoachID], item)
	}

	for coachID, items := range itemsByCoach {
		coach, ok := coachesByID[coachID]
		if !ok || coach.Email == "" {
			continue
		}

		mailMessage := domain.MailMessage{
			Type: "schedule_published",
			To:   coach.Email,
			Data: domain.SchedulePublishedMailData{
				CoachName: coach.Name,
				StartDate: startDate,
				EndDate:   endDate,
				Items:     items,
			},
		}

		mailData, err := json.Marshal(mailMessage)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
		err = h.mailChannel.PublishWithContext(
			ctx,
			"",
			"email_queue",
			true,
			false,
			amqp.Publishing{
				ContentType: "application/json",
				Body:        mailData,
			},
		)
		cancel()
		if err != nil {
			return err
		}
	}

	return nil
}

func (h *Handler) GenerateSchedules(w http.ResponseWriter, r *http.Request) {
	var req struct {
		WeekStart string `json:"weekStart" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	start, err := time.Parse("2006-01-02", req.WeekStart)
	if err != nil {
		h.badRequest(w, r, fmt.Errorf("周起始日期 %q 不符合 YYYY-MM-DD 格式", req.WeekStart))
		return
	}

	// 任意一天都会展开成它所在的周一开始的完整一周
	weekDays := scheduler.WeekDays(start)

	// 和 ReplaceSchedules 共用同一把范围锁，生成期间同一周不允许替换
	lockKey := scheduleLockKey(weekDays[0], weekDays[6])
	acquired, err := h.acquireScheduleLock(r, lockKey)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if !acquired {
		h.errorResponse(w, r, "该周的排班正在生成中，请稍后再试")
		return
	}
	defer h.releaseScheduleLock(r, lockKey)

	coaches, err := h.repository.GetAllCoaches()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	stores, err := h.repository.GetAllStores()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	generator, err := scheduler.New(coaches, stores, weekDays)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	result := generator.Generate()

	h.successResponse(w, r, "排班生成成功", result)
}

func (h *Handler) GetScheduleStats(w http.ResponseWriter, r *http.Request) {
	startDate := r.URL.Query().Get("startDate")
	endDate := r.URL.Query().Get("endDate")

	dateRange, err := utils.ValidateDateRange(startDate, endDate)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	coaches, err := h.repository.GetAllCoaches()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	stores, err := h.repository.GetAllStores()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	schedules, err := h.repository.GetSchedulesByDateRange(startDate, endDate)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	stats, err := scheduler.ComputeStats(coaches, schedules, stores, dateRange)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取工时统计成功", stats)
}
