package bootstrap

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	app "github.com/mohammadpnp/graph-user-import/internal/application/user"
	"github.com/mohammadpnp/graph-user-import/internal/config"
	infrafile "github.com/mohammadpnp/graph-user-import/internal/infrastructure/file"
	httpecho "github.com/mohammadpnp/graph-user-import/internal/interfaces/http/echo"
)

const healthCheckTimeout = 2 * time.Second

func NewHTTPServer(db *Database, cfg config.Config, logger *zap.SugaredLogger) *echo.Echo {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	server := echo.New()
	server.HideBanner = true
	server.HidePort = true

	server.Use(middleware.Recover())
	server.Use(middleware.RequestID())
	server.Use(middleware.BodyLimit(cfg.Server.BodyLimit))
	server.Use(requestLogger(logger))

	source := infrafile.NewLocalSource(cfg.Import.BaseDir)
	importUsers := app.NewImportUsersFromJSON(source, db.ImportStore(), logger)
	importHandler := httpecho.NewImportHandler(importUsers, cfg.Import.SkipInvalid())

	userQueryRepo := db.QueryRepository()
	getUserByID := app.NewGetUserByID(userQueryRepo)
	searchUsers := app.NewSearchUsers(userQueryRepo)
	userHandler := httpecho.NewUserHandler(getUserByID, searchUsers)

	httpecho.RegisterRoutes(server, importHandler, userHandler)

	server.GET("/healthz", func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), healthCheckTimeout)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			logger.Warnw("health check failed", "error", err)
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	return server
}

func requestLogger(logger *zap.SugaredLogger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"request_id", v.RequestID,
			}
			if v.Error != nil {
				logger.Errorw("request failed", append(fields, "error", v.Error)...)
				return nil
			}
			logger.Infow("request", fields...)
			return nil
		},
	})
}
