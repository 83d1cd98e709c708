package service

import (
	"fmt"
	"log/slog"

	echo "github.com/labstack/echo/v4"
	"github.com/srs-rtc/signal-server/pkg/protocol"
	"github.com/srs-rtc/signal-server/pkg/variables"
	"go.uber.org/fx"
	"golang.org/x/sync/errgroup"
)

type httpServer_Params struct {
	fx.In

	Controllers []protocol.HttpResolvable `group:"http.controller"`
	Logger      *slog.Logger
}

func httpErrorHandler(e *echo.Echo, logger *slog.Logger) func(err error, c echo.Context) {
	return func(err error, c echo.Context) {
		logger.Error(err.Error(), slog.String("request", fmt.Sprintf("%+v", c.Request())))
		e.DefaultHTTPErrorHandler(err, c)
	}
}

func httpServer(params httpServer_Params) error {
	router := echo.New()
	router.HTTPErrorHandler = httpErrorHandler(router, params.Logger)

	for _, controller := range params.Controllers {
		if err := controller.Resolve(router); err != nil {
			return err
		}
	}

	var g errgroup.Group

	g.Go(func() error {
		return router.Start(fmt.Sprintf(":%s", variables.Env(variables.HTTP_PORT_NAME, variables.HTTP_PORT_DEFAULT)))
	})

	certPath := variables.Env(variables.TLS_CERT_PATH_NAME, "")
	keyPath := variables.Env(variables.TLS_KEY_PATH_NAME, "")
	if certPath != "" && keyPath != "" {
		g.Go(func() error {
			return router.StartTLS(
				fmt.Sprintf(":%s", variables.Env(variables.HTTPS_PORT_NAME, variables.HTTPS_PORT_DEFAULT)),
				certPath, keyPath,
			)
		})
	} else {
		params.Logger.Warn("tls material not configured, https listener disabled")
	}

	return g.Wait()
}

var HttpModule = fx.Module("http", fx.Invoke(httpServer))
