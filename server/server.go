package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/hupe1980/agentnet/logging"
	"github.com/hupe1980/agentnet/service"
)

// Options configures a Server.
type Options struct {
	// AllowOrigins lists the CORS origins. Empty allows every origin.
	AllowOrigins []string
	// NetworksDir is the root for relative save/load file paths. Paths
	// leaving it are rejected. Empty uses the working directory.
	NetworksDir string
	// ShutdownTimeout bounds graceful shutdown in Run.
	ShutdownTimeout time.Duration
	Logger          logging.Logger
}

// Server is the HTTP front end of a service.
type Server struct {
	svc    *service.Service
	opts   Options
	engine *gin.Engine
}

// New builds the router for svc.
func New(svc *service.Service, optFns ...func(o *Options)) *Server {
	opts := Options{
		ShutdownTimeout: 10 * time.Second,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	s := &Server{svc: svc, opts: opts}
	s.engine = s.router()

	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		s.opts.Logger.Info("server.start", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()

	s.opts.Logger.Info("server.shutdown", "addr", addr)

	return srv.Shutdown(shutdownCtx)
}

func (s *Server) router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	cfg := cors.DefaultConfig()
	if len(s.opts.AllowOrigins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = s.opts.AllowOrigins
	}
	r.Use(cors.New(cfg))

	r.GET("/", s.index)
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	r.GET("/agents", s.catalogue)
	r.GET("/agents/types", s.agentTypes)
	r.GET("/tasks/types", s.taskTypes)
	r.GET("/agents/params", s.agentParams)
	r.GET("/tasks/params", s.taskParams)

	r.POST("/execute", s.execute)

	networks := r.Group("/networks")
	networks.GET("", s.listNetworks)
	networks.POST("", s.createNetwork)
	networks.GET("/:id", s.getNetwork)
	networks.PUT("/:id", s.updateNetwork)
	networks.DELETE("/:id", s.deleteNetwork)
	networks.POST("/:id/save", s.saveNetwork)
	networks.POST("/:id/load", s.loadNetwork)
	networks.POST("/:id/run", s.runNetwork)
	networks.GET("/:id/order", s.order)
	networks.GET("/:id/runs", s.listRuns)
	networks.GET("/:id/runs/:run_id", s.getRun)

	return r
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		s.opts.Logger.Info(
			"server.request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}

// routes is listed by the index handler.
var routes = []string{
	"/networks [GET, POST]",
	"/networks/<network_id> [GET, PUT, DELETE]",
	"/networks/<network_id>/save [POST]",
	"/networks/<network_id>/load [POST]",
	"/networks/<network_id>/run [POST]",
	"/networks/<network_id>/order [GET]",
	"/networks/<network_id>/runs [GET]",
	"/networks/<network_id>/runs/<run_id> [GET]",
	"/agents [GET]",
	"/agents/types [GET]",
	"/tasks/types [GET]",
	"/agents/params [GET]",
	"/tasks/params [GET]",
	"/execute [POST]",
}

func (s *Server) index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "API is running", "available_routes": routes})
}
