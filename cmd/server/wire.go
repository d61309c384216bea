//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final binary.

package main

import (
	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"

	"github.com/iWorld-y/crowd_voice/internal/biz"
	"github.com/iWorld-y/crowd_voice/internal/conf"
	"github.com/iWorld-y/crowd_voice/internal/data"
	"github.com/iWorld-y/crowd_voice/internal/server"
	"github.com/iWorld-y/crowd_voice/internal/service"
)

// wireApp init kratos application.
func wireApp(*conf.Server, *conf.LLM, *conf.Image, *conf.Analysis, *conf.Fetch, log.Logger) (*kratos.App, func(), error) {
	panic(wire.Build(server.ProviderSet, data.ProviderSet, biz.ProviderSet, service.ProviderSet, newApp))
}
