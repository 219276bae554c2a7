package todo

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"todo_api/internal/logging"
)

// Pinger is satisfied by relational backends; the health probe uses it.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HandlerConfig struct {
	Version        string
	Environment    string
	AllowedOrigins []string
	// Database is nil for the in-memory backend.
	Database Pinger
}

type Handler struct {
	manager *Manager
	logger  *slog.Logger
	cfg     HandlerConfig
}

func NewHandler(manager *Manager, logger *slog.Logger, cfg HandlerConfig) *Handler {
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}
	return &Handler{
		manager: manager,
		logger:  logger,
		cfg:     cfg,
	}
}

func (h *Handler) Routes() http.Handler {
	// 注册路由与中间件
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   h.cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: !allowsAnyOrigin(h.cfg.AllowedOrigins),
		MaxAge:           300,
	}))
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger(h.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/", h.handleRoot)
	r.Get("/health", h.handleHealth)

	r.Route("/api/todos", func(r chi.Router) {
		r.Get("/", h.handleListTodos)
		r.Post("/", h.handleCreateTodo)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.handleGetTodo)
			r.Put("/", h.handleUpdateTodo)
			r.Delete("/", h.handleDeleteTodo)
		})
	})

	return r
}

func (h *Handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"message":     "TODO API is running",
		"version":     h.cfg.Version,
		"environment": h.cfg.Environment,
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	// 健康检查，关系型存储额外探测数据库连通性
	response := map[string]string{"status": "healthy"}
	if h.cfg.Database != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.cfg.Database.Ping(ctx); err != nil {
			h.logger.WarnContext(r.Context(), "database ping failed", "error", err)
			response["database"] = "disconnected"
		} else {
			response["database"] = "connected"
		}
	}
	h.writeJSON(w, http.StatusOK, response)
}

func (h *Handler) handleListTodos(w http.ResponseWriter, r *http.Request) {
	// 列表查询
	items, err := h.manager.ListTodos(r.Context())
	if err != nil {
		h.writeManagerError(w, err, "failed to load todos")
		return
	}
	h.writeJSON(w, http.StatusOK, items)
}

func (h *Handler) handleGetTodo(w http.ResponseWriter, r *http.Request) {
	// 单条查询
	id, err := readIDParam(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	todo, err := h.manager.GetTodo(r.Context(), id)
	if err != nil {
		h.writeManagerError(w, err, "failed to load todo")
		return
	}
	h.writeJSON(w, http.StatusOK, todo)
}

func (h *Handler) handleCreateTodo(w http.ResponseWriter, r *http.Request) {
	// 创建资源
	var input createTodoRequest
	if err := h.decodeJSON(w, r, &input); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	todo, err := h.manager.CreateTodo(r.Context(), input.toInput())
	if err != nil {
		h.writeManagerError(w, err, "failed to create todo")
		return
	}
	h.writeJSON(w, http.StatusCreated, todo)
}

func (h *Handler) handleUpdateTodo(w http.ResponseWriter, r *http.Request) {
	// 更新资源（支持部分字段）
	id, err := readIDParam(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var input updateTodoRequest
	if err := h.decodeJSON(w, r, &input); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	todo, err := h.manager.UpdateTodo(r.Context(), id, input.toInput())
	if err != nil {
		h.writeManagerError(w, err, "failed to update todo")
		return
	}
	h.writeJSON(w, http.StatusOK, todo)
}

func (h *Handler) handleDeleteTodo(w http.ResponseWriter, r *http.Request) {
	// 删除资源
	id, err := readIDParam(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.manager.DeleteTodo(r.Context(), id); err != nil {
		h.writeManagerError(w, err, "failed to delete todo")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "Todo deleted successfully"})
}

func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	// 限制请求体大小并严格解析 JSON
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("body must contain a single JSON object")
	}
	return nil
}

// writeManagerError 将业务错误映射为 HTTP 状态码
func (h *Handler) writeManagerError(w http.ResponseWriter, err error, fallback string) {
	var (
		validationErr  *ValidationError
		notFoundErr    *NotFoundError
		unavailableErr *BackendUnavailableError
	)
	switch {
	case errors.As(err, &validationErr):
		h.writeError(w, validationErr.StatusCode(), validationErr.Error())
	case errors.As(err, &notFoundErr):
		h.writeError(w, notFoundErr.StatusCode(), "Todo not found")
	case errors.As(err, &unavailableErr):
		h.writeError(w, unavailableErr.StatusCode(), "storage backend unavailable")
	default:
		h.logger.Error(fallback, "error", err)
		h.writeError(w, http.StatusInternalServerError, fallback)
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	// 统一 JSON 响应输出
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("json encode error", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	// 错误响应包装
	h.writeJSON(w, status, map[string]string{"error": message})
}

// allowsAnyOrigin 通配来源不能与凭证同时下发，浏览器会拒绝
func allowsAnyOrigin(origins []string) bool {
	for _, origin := range origins {
		if origin == "*" {
			return true
		}
	}
	return false
}

func readIDParam(r *http.Request) (int64, error) {
	// 解析并校验路径参数
	idParam := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil || id < 1 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}
