package protocol

import (
	echo "github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type HttpRouter = *echo.Echo

// HttpResolvable is a controller that knows how to register its own routes
// on the shared router.
type HttpResolvable interface {
	Resolve(HttpRouter) error
}

const httpControllerGroup = `group:"http.controller"`

// AsHttpController annotates a controller constructor into the http
// controller group, where the http service module collects and resolves all
// of them at startup.
func AsHttpController(constructor any) any {
	return fx.Annotate(
		constructor,
		fx.As(new(HttpResolvable)),
		fx.ResultTags(httpControllerGroup),
	)
}
