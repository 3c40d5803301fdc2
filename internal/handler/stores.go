package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/fitstudio/coach-scheduler/backend/internal/domain"
	"github.com/fitstudio/coach-scheduler/backend/internal/utils"
)

func (h *Handler) GetAllStores(w http.ResponseWriter, r *http.Request) {
	stores, err := h.repository.GetAllStores()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取门店列表成功", stores)
}

func (h *Handler) GetStore(w http.ResponseWriter, r *http.Request) {
	store := r.Context().Value(StoreInfoCtx).(*domain.Store)
	h.successResponse(w, r, "获取门店信息成功", store)
}

func (h *Handler) CreateStore(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name   string         `json:"name" validate:"required"`
		Shifts []domain.Shift `json:"shifts" validate:"required,min=1"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := utils.ValidateShifts(req.Shifts); err != nil {
		h.badRequest(w, r, err)
		return
	}

	store := &domain.Store{
		Name:   req.Name,
		Shifts: req.Shifts,
	}

	if err := h.repository.CreateStore(store); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "门店创建成功", store)
}

func (h *Handler) UpdateStore(w http.ResponseWriter, r *http.Request) {
	store := r.Context().Value(StoreInfoCtx).(*domain.Store)

	var req struct {
		Name   *string        `json:"name" validate:"omitempty,min=1"`
		Shifts []domain.Shift `json:"shifts" validate:"omitempty,min=1"`
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
		store.Name = *req.Name
	}
	if req.Shifts != nil {
		if err := utils.ValidateShifts(req.Shifts); err != nil {
			h.badRequest(w, r, err)
			return
		}
		store.Shifts = req.Shifts
	}

	if err := h.repository.UpdateStore(store); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "门店信息已被他人修改，请刷新后重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "门店信息更新成功", store)
}

func (h *Handler) ArchiveStore(w http.ResponseWriter, r *http.Request) {
	store := r.Context().Value(StoreInfoCtx).(*domain.Store)

	if err := h.repository.ArchiveStore(store.ID); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "门店不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "门店已归档", nil)
}
