package components

import (
	"waitdesk/internal/handler"
	"waitdesk/internal/handler/api"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAppointmentHandler,
		api.NewQueueHandler,
		api.NewServiceHandler,
	),
	fx.Invoke(handler.NewRouter),
)
