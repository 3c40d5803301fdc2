package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/fitstudio/coach-scheduler/backend/internal/config"
	"github.com/fitstudio/coach-scheduler/backend/internal/repository"
)

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  *repository.Repository
	translator  ut.Translator
	mailChannel *amqp.Channel
	redisClient *redis.Client

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, mailCh *amqp.Channel, rdb *redis.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:    validate,
		config:      cfg,
		repository:  repo,
		translator:  trans,
		mailChannel: mailCh,
		redisClient: rdb,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// 认证相关
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
	})

	// 以下 API 必须要在登录后才允许调用
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Route("/coaches", func(r chi.Router) {
			r.Get("/", h.GetAllCoaches)
			r.Post("/", h.CreateCoach)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.coachInfo)
				r.Get("/", h.GetCoach)
				r.Patch("/", h.UpdateCoach)
				r.Delete("/", h.ArchiveCoach)
				r.Put("/stores", h.SetCoachStores)
			})
		})

		r.Route("/stores", func(r chi.Router) {
			r.Get("/", h.GetAllStores)
			r.Post("/", h.CreateStore)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.storeInfo)
				r.Get("/", h.GetStore)
				r.Patch("/", h.UpdateStore)
				r.Delete("/", h.ArchiveStore)
			})
		})

		r.Route("/schedules", func(r chi.Router) {
			r.Get("/", h.GetSchedules)
			r.Post("/", h.CreateSchedules)
			r.Delete("/", h.DeleteSchedulesByRange)
			r.Delete("/{id}", h.DeleteSchedule)
			r.Post("/replace", h.ReplaceSchedules)
			r.Post("/generate", h.GenerateSchedules)
			r.Get("/stats", h.GetScheduleStats)
		})
	})
}
