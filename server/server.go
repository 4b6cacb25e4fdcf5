// Package server 通过 HTTP 发布变换器报告, 表格与波形.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"dcdc"
	"dcdc/charts"
	"dcdc/export"
	"dcdc/figure"
	"dcdc/types"
)

// Config 服务参数
type Config struct {
	Addr       string        // 监听地址
	Converters []dcdc.Named  // 已计算的变换器
	Figure     figure.Config // 图片参数
	Log        *logrus.Logger
}

// Server HTTP 服务, 只读访问已计算的模型, 每个请求重新渲染
type Server struct {
	router  *chi.Mux
	server  *http.Server
	log     *logrus.Entry
	convs   []dcdc.Named
	reports []*dcdc.Report
	figure  figure.Config
}

// New 构造服务并注册路由
func New(cfg Config) (*Server, error) {
	reports, err := dcdc.Pair(cfg.Converters)
	if err != nil {
		return nil, err
	}
	logger := cfg.Log
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	s := &Server{
		router:  chi.NewRouter(),
		log:     logger.WithField("component", "server"),
		convs:   cfg.Converters,
		reports: reports,
		figure:  cfg.Figure,
	}
	s.setupMiddleware()
	s.setupRoutes()
	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

// Handler 路由
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(60 * time.Second))
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)
	s.router.Route("/converters", func(r chi.Router) {
		r.Get("/", s.handleConverters)
		r.Route("/{name}", func(r chi.Router) {
			r.Get("/report", s.handleReport)
			r.Get("/export", s.handleExport)
			r.Get("/waveform/{quantity}/{signal}", s.handleWaveform)
		})
	})
	s.router.Route("/reports/{family}", func(r chi.Router) {
		r.Get("/table", s.handleTable)
		r.Get("/chart", s.handleChart)
		r.Get("/plot/{quantity}", s.handlePlot)
	})
}

// Start 开始监听
func (s *Server) Start() error {
	s.log.WithField("addr", s.server.Addr).Info("启动网页服务")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "网页服务异常退出")
	}
	return nil
}

// Shutdown 停止服务
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("停止网页服务")
	return s.server.Shutdown(ctx)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"bytes":      ww.BytesWritten(),
			"duration":   time.Since(start),
			"request_id": middleware.GetReqID(r.Context()),
		}).Debug("HTTP 请求")
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, map[string]string{"status": "ok"})
}

// converterInfo 变换器列表项
type converterInfo struct {
	Name      string       `json:"name"`
	Converter string       `json:"converter"`
	Family    types.Family `json:"family"`
	Mode      types.Mode   `json:"mode"`
}

func (s *Server) handleConverters(w http.ResponseWriter, _ *http.Request) {
	list := make([]converterInfo, len(s.convs))
	for i, c := range s.convs {
		list[i] = converterInfo{Name: c.Label, Converter: c.Name(), Family: c.Family(), Mode: c.Mode()}
	}
	s.writeJSON(w, list)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	c, ok := s.converter(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := c.Report(w); err != nil {
		s.writeError(w, err)
	}
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	c, ok := s.converter(w, r)
	if !ok {
		return
	}
	name := r.URL.Query().Get("format")
	if name == "" {
		name = string(export.JSON)
	}
	enc, err := export.ParseEncoding(name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if enc == export.MsgPack {
		w.Header().Set("Content-Type", "application/msgpack")
	} else {
		w.Header().Set("Content-Type", "application/json")
	}
	if err := export.Encode(w, enc, c.Converter); err != nil {
		s.writeError(w, err)
	}
}

func (s *Server) handleWaveform(w http.ResponseWriter, r *http.Request) {
	c, ok := s.converter(w, r)
	if !ok {
		return
	}
	q, err := types.ParseQuantity(chi.URLParam(r, "quantity"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	sig, err := types.ParseSignal(chi.URLParam(r, "signal"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	wave, err := c.Waveform(q, sig)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, wave)
}

func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.report(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := rep.Tabulate(w); err != nil {
		s.writeError(w, err)
	}
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.report(w, r)
	if !ok {
		return
	}
	(&charts.Charts{Reports: []*dcdc.Report{rep}}).Handler(w, r)
}

// handlePlot 默认输出网页, format=png 或 svg 时输出图片
func (s *Server) handlePlot(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.report(w, r)
	if !ok {
		return
	}
	q, err := types.ParseQuantity(chi.URLParam(r, "quantity"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	name := r.URL.Query().Get("format")
	if name == "" || strings.EqualFold(name, "html") {
		(&charts.Charts{Reports: []*dcdc.Report{rep}, Quantities: []types.Quantity{q}}).Handler(w, r)
		return
	}
	format, err := figure.ParseFormat(name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	panels, err := rep.Plot(q)
	if err != nil {
		s.writeError(w, err)
		return
	}
	cfg := s.figure
	cfg.Format = format
	if format == figure.SVG {
		w.Header().Set("Content-Type", "image/svg+xml")
	} else {
		w.Header().Set("Content-Type", "image/png")
	}
	if err := figure.Render(w, panels, cfg); err != nil {
		s.writeError(w, err)
	}
}

// converter 按名称查找变换器, 名称可为描述文件中的名称或 "BUCK CCM" 形式
func (s *Server) converter(w http.ResponseWriter, r *http.Request) (dcdc.Named, bool) {
	name := chi.URLParam(r, "name")
	for _, c := range s.convs {
		if strings.EqualFold(c.Label, name) || strings.EqualFold(c.Name(), name) {
			return c, true
		}
	}
	http.Error(w, "未找到变换器: "+name, http.StatusNotFound)
	return dcdc.Named{}, false
}

// report 按拓扑查找第一组 CCM/DCM 对比
func (s *Server) report(w http.ResponseWriter, r *http.Request) (*dcdc.Report, bool) {
	family, err := types.ParseFamily(chi.URLParam(r, "family"))
	if err != nil {
		s.writeError(w, err)
		return nil, false
	}
	for _, rep := range s.reports {
		if rep.Family() == family {
			return rep, true
		}
	}
	http.Error(w, "没有 "+family.String()+" 的 CCM/DCM 对比", http.StatusNotFound)
	return nil, false
}

func (s *Server) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.WithError(err).Error("JSON 编码失败")
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, types.ErrUnknownQuantity), errors.Is(err, types.ErrInvalidSpecification):
		status = http.StatusBadRequest
	case errors.Is(err, types.ErrUnsizedComponent), errors.Is(err, types.ErrModeMismatch):
		status = http.StatusConflict
	}
	s.log.WithError(err).Warn("请求处理失败")
	http.Error(w, err.Error(), status)
}
