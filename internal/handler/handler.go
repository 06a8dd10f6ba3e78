package handler

import (
	"context"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/worker-roster/backend/internal/config"
	"github.com/sysu-ecnc-dev/worker-roster/backend/internal/domain"
)

// WorkerDirectory 由 service.Directory 实现
type WorkerDirectory interface {
	Create(ctx context.Context, name string) (int64, error)
	Update(ctx context.Context, id int64, name string) error
	List(ctx context.Context) ([]*domain.Worker, error)
	Delete(ctx context.Context, id int64) error
}

// ShiftLedger 由 service.Ledger 实现
type ShiftLedger interface {
	AddShift(ctx context.Context, workerID int64, shiftStart int) (*domain.Shift, error)
	UpdateShift(ctx context.Context, id int64, shiftDate string, shiftStart int) (*domain.Shift, error)
	List(ctx context.Context) ([]*domain.Shift, error)
	GetByWorker(ctx context.Context, workerID int64) (*domain.WorkerShifts, error)
	ListWithWorkers(ctx context.Context) ([]*domain.WorkerShifts, error)
	Delete(ctx context.Context, id int64) error
}

// EventPublisher 由 notify.Publisher 实现，为 nil 时不发布事件
type EventPublisher interface {
	Publish(ctx context.Context, event domain.RosterEvent) error
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	translator  ut.Translator
	directory   WorkerDirectory
	ledger      ShiftLedger
	pinger      Pinger
	publisher   EventPublisher
	redisClient *redis.Client

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, directory WorkerDirectory, ledger ShiftLedger, pinger Pinger, publisher EventPublisher, rdb *redis.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	// 校验错误信息中使用 json 字段名
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	en := en.New()
	uni := ut.New(en, en)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:    validate,
		config:      cfg,
		translator:  trans,
		directory:   directory,
		ledger:      ledger,
		pinger:      pinger,
		publisher:   publisher,
		redisClient: rdb,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	h.Mux.Get("/healthz", h.Health)

	h.Mux.Route("/workers", func(r chi.Router) {
		r.Get("/", h.GetAllWorkers)

		// 写操作需要限流
		r.Group(func(r chi.Router) {
			r.Use(h.rateLimit)
			r.Post("/create", h.CreateWorker)
			r.With(h.pathID("id")).Put("/update/{id}", h.UpdateWorker)
			r.With(h.pathID("id")).Delete("/delete/{id}", h.DeleteWorker)
		})
	})

	h.Mux.Route("/shifts", func(r chi.Router) {
		r.Get("/", h.GetAllShifts)
		r.With(h.pathID("idWorker")).Get("/{idWorker}", h.GetWorkerShifts)

		r.Group(func(r chi.Router) {
			r.Use(h.rateLimit)
			r.With(h.pathID("idWorker")).Post("/add/{idWorker}", h.AddShift)
			r.With(h.pathID("id")).Put("/update/{id}", h.UpdateShift)
			r.With(h.pathID("id")).Delete("/delete/{id}", h.DeleteShift)
		})
	})

	h.Mux.Get("/shiftsWithWorkers", h.GetShiftsWithWorkers)
}
