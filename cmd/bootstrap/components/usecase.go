package components

import (
	"waitdesk/internal/pkg/clock"
	"waitdesk/internal/pkg/config"
	"waitdesk/internal/usecase/commands"
	"waitdesk/internal/usecase/queries"
	"waitdesk/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseCommandsModule,
	usecaseQueriesModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		func(uow shared.UnitOfWork, clk clock.Clock, cfg config.Config, inv commands.AvailabilityInvalidator) commands.BookingCommands {
			return commands.NewBookingInteractor(uow, clk, cfg.Booking, inv)
		},
		commands.NewQueueInteractor,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewAvailabilityService,
		queries.NewAppointmentService,
		func(store queries.QueueReadStore, cfg config.Config) queries.QueueQueries {
			return queries.NewQueueService(store, cfg.Queue.WaitPerPositionMin)
		},
	),
)
