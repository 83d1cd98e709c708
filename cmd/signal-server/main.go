package main

import (
	"github.com/srs-rtc/signal-server/internal/identity"
	"github.com/srs-rtc/signal-server/internal/signal"
	"github.com/srs-rtc/signal-server/pkg/protocol"
	"github.com/srs-rtc/signal-server/pkg/service"
	"go.uber.org/fx"
)

func main() {
	fx.New(
		fx.Provide(
			fx.Annotate(
				identity.NewIdentityService,
				fx.As(new(identity.UserLookup)),
			),

			signal.NewNotifier,
			signal.NewCallService,

			protocol.AsHttpController(signal.NewSignalController),
		),

		service.LoggerModule,
		service.DatabaseModule,
		service.HttpModule,
	).Run()
}
