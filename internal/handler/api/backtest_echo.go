package api

import (
	"errors"
	"strconv"

	"Backcast/internal/domain/models"
	domrepo "Backcast/internal/domain/repository"
	"Backcast/internal/services/engine"
	"Backcast/internal/usecase"
	xhttp "Backcast/pkg/http"
	applogger "Backcast/pkg/logger"
	"Backcast/pkg/queue"

	"github.com/labstack/echo/v4"
)

// BacktestHandler exposes the backtesting API over Echo.
type BacktestHandler struct {
	logger  *applogger.Logger
	bt      *usecase.BacktestUseCase
	history *usecase.HistoryUseCase
	store   domrepo.RunStore
	jobs    queue.QueueService
}

func NewBacktestHandler(
	logger *applogger.Logger,
	bt *usecase.BacktestUseCase,
	history *usecase.HistoryUseCase,
	store domrepo.RunStore,
	jobs queue.QueueService,
) *BacktestHandler {
	return &BacktestHandler{logger: logger, bt: bt, history: history, store: store, jobs: jobs}
}

func (h *BacktestHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/backtest", h.Run)
	g.POST("/backtest/async", h.RunAsync)
	g.GET("/backtest/:id", h.GetRun)
	g.GET("/backtests", h.ListRuns)
	g.GET("/presets", h.Presets)
	g.GET("/history", h.History)
	g.GET("/debug/logs", h.DebugLogs)
}

// Run executes a backtest synchronously and returns the full run.
func (h *BacktestHandler) Run(c echo.Context) error {
	req := &models.BacktestRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if err := req.Validate(); err != nil {
		return xhttp.BadRequestResponse(c, err.Error())
	}

	run, err := h.bt.Execute(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, models.ErrInsufficientHistory) {
			return xhttp.BadRequestResponse(c, err.Error())
		}
		h.logger.Error("backtest usecase error", applogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, run)
}

// RunAsync enqueues a backtest job and returns immediately.
func (h *BacktestHandler) RunAsync(c echo.Context) error {
	req := &models.BacktestRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if err := req.Validate(); err != nil {
		return xhttp.BadRequestResponse(c, err.Error())
	}
	if h.jobs == nil {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("async queue is not configured"))
	}

	payload := usecase.BacktestJobPayload{Symbol: req.Symbol, Days: req.Days, Preset: req.Preset}
	if err := h.jobs.PublishMessage(c.Request().Context(), usecase.BacktestJobType, payload); err != nil {
		h.logger.Error("enqueue backtest error", applogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.DataResponse(c, 202, map[string]interface{}{
		"status": "queued",
		"job":    payload,
	})
}

func (h *BacktestHandler) GetRun(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return xhttp.BadRequestResponse(c, "id is required")
	}

	run, err := h.store.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, domrepo.ErrRunNotFound) {
			return xhttp.NotFoundResponse(c, err.Error())
		}
		h.logger.Error("get run error", applogger.String("run_id", id), applogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, run)
}

func (h *BacktestHandler) ListRuns(c echo.Context) error {
	req := &models.ListRunsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	runs, err := h.store.List(c.Request().Context(), req.Symbol, req.Limit)
	if err != nil {
		h.logger.Error("list runs error", applogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.ListResponse(c, runs, int64(len(runs)))
}

// Presets returns the scoring preset catalog so clients can show the knobs.
func (h *BacktestHandler) Presets(c echo.Context) error {
	return xhttp.SuccessResponse(c, engine.Presets())
}

// History returns the merged price/sentiment series a backtest would run on.
func (h *BacktestHandler) History(c echo.Context) error {
	req := &models.HistoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	series, err := h.history.Series(c.Request().Context(), req.Symbol, req.Days)
	if err != nil {
		if errors.Is(err, models.ErrInsufficientHistory) {
			return xhttp.BadRequestResponse(c, err.Error())
		}
		h.logger.Error("history usecase error", applogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, series)
}

// DebugLogs returns recently aggregated log entries for quick inspection.
func (h *BacktestHandler) DebugLogs(c echo.Context) error {
	limit := 100
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 1000 {
			return xhttp.BadRequestResponse(c, "limit must be 1-1000")
		}
		limit = n
	}
	return xhttp.SuccessResponse(c, h.logger.Recent(limit))
}
