package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"tasktrack/internal/config"
	v1 "tasktrack/internal/delivery/http/v1"
	"tasktrack/internal/services"
)

func MustListenAndServeHTTP() {
	cfg := config.Global()
	if cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	httpCfg := cfg.HTTP

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	registerRoutes(router)

	server := &http.Server{
		Addr:    net.JoinHostPort(httpCfg.Host, httpCfg.Port),
		Handler: router,
	}

	go func() {
		globalLogger.Info().
			Str("host", httpCfg.Host).
			Str("port", httpCfg.Port).
			Msg("setting up http server")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			globalLogger.Error().
				Err(err).
				Msg("failed to listen and serve http")
			panic(err)
		}
	}()

	// Wait for the interrupt signal to gracefully
	// shut down the server with a timeout of 5 seconds.
	quit := make(chan os.Signal, 1)
	// kill (no params) by default sends syscall.SIGTERM
	// kill -2 is syscall.SIGINT
	// kill -9 is syscall.SIGKILL but can't be caught, so don't need to add it
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	globalLogger.Info().
		Msg("shutting down http server")

	ctx, cancel := context.WithTimeout(context.Background(), httpCfg.ShutdownTimeout)
	defer cancel()

	err := server.Shutdown(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to shutdown http server")
		panic(err)
	}
	globalLogger.Info().Msg("shut down http server")
}

func registerRoutes(router gin.IRouter) {
	jwtCfg := config.Global().JWT

	authService := services.NewAuthService(
		globalLogger,
		globalPostgresPool,
		jwtCfg.Issuer,
		[]byte(jwtCfg.SigningKey),
		jwtCfg.AccessTokenTTL,
		jwtCfg.RefreshTokenTTL,
	)
	sessionService := services.NewSessionService(globalLogger, globalPostgresPool)
	taskService := services.NewTaskService(globalLogger, globalPostgresPool)
	summaryService := services.NewSummaryService(globalLogger, globalPostgresPool)

	handler := v1.New(
		globalLogger,
		authService,
		sessionService,
		taskService,
		summaryService,
	)

	router.POST("/signup", handler.HandleSignup)
	router.POST("/login", handler.HandleLogin)
	router.POST("/refresh", handler.HandleRefresh)
	router.GET("/logout", handler.HandleAuthMiddleware, handler.HandleLogout)

	router.GET("/", handler.HandleAuthMiddleware, handler.HandleDashboard)
	router.GET("/chart", handler.HandleAuthMiddleware, handler.HandleChart)
	router.GET("/report/weekly", handler.HandleAuthMiddleware, handler.HandleWeeklyReport)

	taskRouter := router.Group("/task", handler.HandleAuthMiddleware)
	taskRouter.POST("/create", handler.HandleCreateTask)
	taskRouter.POST("/:id/update", handler.HandleUpdateTask)
	taskRouter.GET("/:id/delete", handler.HandleDeleteTask)
	taskRouter.GET("/:id/start", handler.HandleStartTask)
	taskRouter.GET("/:id/end", handler.HandleEndTask)
	taskRouter.GET("/:id/complete", handler.HandleCompleteTask)

	summaryRouter := router.Group("/summary", handler.HandleAuthMiddleware)
	summaryRouter.GET("/daily", handler.HandleDailyHours)
	summaryRouter.GET("/weekly", handler.HandleWeeklyHours)
	summaryRouter.GET("/daily_tasks", handler.HandleDailyTasks)
	summaryRouter.GET("/weekly_tasks", handler.HandleWeeklyTasks)

	apiRouter := router.Group("/api", handler.HandleAuthMiddleware)
	apiRouter.GET("/tasks", handler.HandleListTasksAPI)
	apiRouter.PUT("/tasks/:id", handler.HandleUpdateTaskAPI)
}
