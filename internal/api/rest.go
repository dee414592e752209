package api

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/hbomb79/Reel/internal/api/medias"
	"github.com/hbomb79/Reel/internal/api/settings"
	"github.com/hbomb79/Reel/internal/http/websocket"
	"github.com/hbomb79/Reel/pkg/logger"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

var log = logger.Get("API")

type (
	RestConfig struct {
		HostAddr string `yaml:"host_address" env:"API_HOST_ADDR" env-default:"0.0.0.0:8080"`
	}

	controller interface {
		SetRoutes(*echo.Group)
	}

	// Service represents a union of all the controller service requirements,
	// satisfied by the import registry.
	Service interface {
		medias.Service
		settings.Service
	}

	// The RestGateway is a thin-wrapper around the Echo HTTP router. It's sole responsbility
	// is to create the routes Reel exposes, and to manage ongoing web socket connections
	// and the activity pushed to them.
	RestGateway struct {
		*broadcaster
		config             *RestConfig
		ec                 *echo.Echo
		socket             *websocket.SocketHub
		mediaController    controller
		settingsController controller
	}
)

// NewRestGateway constructs the Echo router and populates it with all the
// routes defined by the various controllers.
func NewRestGateway(config *RestConfig, service Service) *RestGateway {
	ec := echo.New()
	ec.OnAddRouteHandler = func(host string, route echo.Route, handler echo.HandlerFunc, middleware []echo.MiddlewareFunc) {
		log.Emit(logger.DEBUG, "Registered new route %s %s\n", route.Method, route.Path)
	}
	ec.HidePort = true
	ec.HideBanner = true

	validate := validator.New()
	socket := websocket.New()
	gateway := &RestGateway{
		broadcaster:        newBroadcaster(socket, service),
		config:             config,
		ec:                 ec,
		socket:             socket,
		mediaController:    medias.New(validate, service),
		settingsController: settings.New(validate, service),
	}

	socket.WithConnectionCallback(gateway.connectionPayload)

	ec.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} ${method} ${uri} -> ${status} (${latency_human})\n",
	}))
	ec.Use(middleware.Recover())
	ec.Pre(middleware.AddTrailingSlash())

	ec.GET("/api/reel/v1/activity/ws/", func(ec echo.Context) error {
		gateway.socket.UpgradeToSocket(ec.Response(), ec.Request())
		return nil
	})

	media := ec.Group("/api/reel/v1/media")
	gateway.mediaController.SetRoutes(media)

	proxySettings := ec.Group("/api/reel/v1/proxy-settings")
	gateway.settingsController.SetRoutes(proxySettings)

	return gateway
}

// ServeHTTP allows the gateway to be served by any http.Server (or
// httptest.Server), bypassing the listener owned by Run.
func (gateway *RestGateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	gateway.ec.ServeHTTP(w, r)
}

func (gateway *RestGateway) Run(parentCtx context.Context) error {
	ctx, ctxCancel := context.WithCancelCause(parentCtx)
	wg := &sync.WaitGroup{}

	// Start echo router
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Emit(logger.INFO, "Listening on %s\n", gateway.config.HostAddr)
		if err := gateway.ec.Start(gateway.config.HostAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			ctxCancel(err)
		}
	}()

	// Start thread to listen for context cancellation
	go func(ec *echo.Echo) {
		<-ctx.Done()
		ec.Close()
	}(gateway.ec)

	// Start websocket
	wg.Add(1)
	go func() {
		defer wg.Done()
		gateway.socket.Start(ctx)
	}()

	wg.Wait()

	// Return cancellation cause if any, otherwise nil as parent context
	// cancellation is not an error case we should report.
	if cause := context.Cause(ctx); cause != ctx.Err() {
		return cause
	}

	return nil
}
