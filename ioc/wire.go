//go:build wireinject

package ioc

import (
	"github.com/ecodeclub/tably/internal/cart"
	"github.com/ecodeclub/tably/internal/catalog"
	"github.com/ecodeclub/tably/internal/notification"
	"github.com/ecodeclub/tably/internal/offline"
	"github.com/ecodeclub/tably/internal/order"
	"github.com/ecodeclub/tably/internal/payment"
	"github.com/ecodeclub/tably/internal/realtime"
	"github.com/google/wire"
)

var BaseSet = wire.NewSet(InitDB, InitCache, InitRedis)

func InitApp() (*App, error) {
	wire.Build(wire.Struct(new(App), "*"),
		BaseSet,
		InitMQ,
		InitSession,
		InitGovernor,
		catalog.InitModule,
		cart.InitModule,
		payment.InitModule,
		order.InitModule,
		realtime.InitModule,
		offline.InitModule,
		notification.InitModule,
		wire.FieldsOf(new(*catalog.Module), "AdminHdl"),
		wire.FieldsOf(new(*cart.Module), "Hdl"),
		wire.FieldsOf(new(*order.Module), "Hdl", "AdminHdl", "CloseJob"),
		wire.FieldsOf(new(*payment.Module), "Hdl", "WalletHdl", "SyncJob"),
		wire.FieldsOf(new(*realtime.Module), "Hdl"),
		wire.FieldsOf(new(*offline.Module), "Svc"),
		initGinxServer,
		InitAdminServer,
		initCronJobs,
		initConsumers)
	return new(App), nil
}

func initConsumers(orderModule *order.Module,
	realtimeModule *realtime.Module,
	notificationModule *notification.Module) []Consumer {
	return []Consumer{
		orderModule.Consumer,
		realtimeModule.Consumer,
		notificationModule.Consumer,
	}
}
