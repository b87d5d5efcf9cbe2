// Package api - HTTP-поверхность оболочки: состояние сессии, перезапуск,
// журнал кадров, health и Prometheus метрики.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/annel0/arena-core/internal/game"
	"github.com/annel0/arena-core/internal/logging"
	"github.com/annel0/arena-core/internal/metrics"
	"github.com/annel0/arena-core/internal/middleware"
	"github.com/annel0/arena-core/internal/snapshot"
)

// Session - операции игровой сессии, доступные по HTTP
type Session interface {
	View() game.View
	Restart()
	LatestFrame() (*snapshot.Arena, error)
	FrameSnapshot(frame uint64) (*snapshot.Arena, error)
}

// Config содержит зависимости REST сервера
type Config struct {
	Addr    string                  // адрес для запуска сервера
	Session Session                 // игровая сессия
	Metrics *metrics.Sim            // метрики симуляции, отдаются на /metrics
	Sampler *metrics.ProcessSampler // показатели процесса для /health; может быть nil
}

// GenericResponse представляет общий ответ API
type GenericResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// Server - REST API сервер
type Server struct {
	router  *gin.Engine
	http    *http.Server
	session Session
	metrics *metrics.Sim
	sampler *metrics.ProcessSampler
	started time.Time
	log     *logging.Logger
}

// NewServer создаёт сервер и настраивает маршруты
func NewServer(cfg Config) (*Server, error) {
	if cfg.Session == nil {
		return nil, errors.New("api: не задана игровая сессия")
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8088"
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.New("arena")
	}

	gin.SetMode(gin.ReleaseMode)

	router := gin.New()        // без стандартного logger/recovery
	router.Use(gin.Recovery()) // добавим только recovery
	router.Use(otelgin.Middleware("arena_api"))
	router.Use(middleware.NewRequestLogger().Handler())

	promMw, err := middleware.NewPrometheusMiddleware("arena_api", cfg.Metrics.Registry())
	if err != nil {
		return nil, err
	}
	router.Use(promMw.Handler())

	s := &Server{
		router:  router,
		session: cfg.Session,
		metrics: cfg.Metrics,
		sampler: cfg.Sampler,
		started: time.Now(),
		log:     logging.GetServerLogger(),
	}
	s.http = &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)
	s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	api := s.router.Group("/api")
	{
		api.GET("/session", s.handleSession)
		api.POST("/session/restart", s.handleRestart)
		api.GET("/frames/latest", s.handleLatestFrame)
		api.GET("/frames/:frame", s.handleFrame)
	}
}

// Handler возвращает http.Handler сервера
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start запускает сервер и блокируется до Shutdown
func (s *Server) Start() error {
	s.log.Info("REST API слушает %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown останавливает сервер, дожидаясь активных запросов
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// handleHealth проверка состояния сервера
func (s *Server) handleHealth(c *gin.Context) {
	body := gin.H{
		"status": "ok",
		"time":   time.Now().Unix(),
		"uptime": metrics.FormatUptime(time.Since(s.started)),
	}
	if s.sampler != nil {
		stats, err := s.sampler.Sample()
		if err != nil {
			s.log.Debug("health: %v", err)
		}
		body["process"] = stats
	}
	c.JSON(http.StatusOK, body)
}

// handleSession возвращает сводку текущей сессии
func (s *Server) handleSession(c *gin.Context) {
	c.JSON(http.StatusOK, GenericResponse{Success: true, Data: s.session.View()})
}

// handleRestart пересоздаёт сессию
func (s *Server) handleRestart(c *gin.Context) {
	s.session.Restart()
	view := s.session.View()
	s.log.Info("session restarted via API: %s", view.SessionID)
	c.JSON(http.StatusOK, GenericResponse{Success: true, Message: "сессия перезапущена", Data: view})
}

// handleLatestFrame отдаёт последний записанный кадр
func (s *Server) handleLatestFrame(c *gin.Context) {
	arena, err := s.session.LatestFrame()
	if err != nil {
		s.log.Warn("latest frame: %v", err)
		c.JSON(http.StatusInternalServerError, GenericResponse{Message: "ошибка чтения журнала"})
		return
	}
	c.JSON(http.StatusOK, GenericResponse{Success: true, Data: arena})
}

// handleFrame отдаёт кадр из журнала
func (s *Server) handleFrame(c *gin.Context) {
	frame, err := strconv.ParseUint(c.Param("frame"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, GenericResponse{Message: "номер кадра должен быть целым числом"})
		return
	}

	arena, err := s.session.FrameSnapshot(frame)
	switch {
	case errors.Is(err, snapshot.ErrNotFound):
		c.JSON(http.StatusNotFound, GenericResponse{Message: "кадра нет в журнале"})
	case err != nil:
		s.log.Warn("frame %d: %v", frame, err)
		c.JSON(http.StatusInternalServerError, GenericResponse{Message: "ошибка чтения журнала"})
	default:
		c.JSON(http.StatusOK, GenericResponse{Success: true, Data: arena})
	}
}
