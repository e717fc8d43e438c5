//go:build wireinject

package main

import (
	"context"

	"csv2coam/ioc"
	"csv2coam/pkg/server"
	"github.com/google/wire"
)

func InitApp(ctx context.Context) (*server.HTTPServer, func(), error) {
	panic(wire.Build(
		ioc.InitConfig,
		ioc.InitLogger,
		ioc.InitAppService,
		ioc.InitConvertHandler,
		ioc.InitGinEngine,
		ioc.InitScheduler,
		server.NewHTTPServer,
	))
}
