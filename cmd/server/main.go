package main

import (
	"flag"
	"os"

	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/config"
	"github.com/go-kratos/kratos/v2/config/env"
	"github.com/go-kratos/kratos/v2/config/file"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport/http"

	"github.com/iWorld-y/crowd_voice/internal/conf"
	"github.com/iWorld-y/crowd_voice/pkg/logger"
)

// go build -ldflags "-X main.Version=x.y.z"
var (
	// Name 是服务的名称
	Name string = "crowd_voice"
	// Version 是服务的版本号
	Version string
	// flagconf 是配置文件的路径命令行参数
	flagconf string

	id, _ = os.Hostname()
)

func init() {
	flag.StringVar(&flagconf, "conf", "configs/config.yaml", "config path, eg: -conf config.yaml")
}

func newApp(logger log.Logger, hs *http.Server) *kratos.App {
	return kratos.New(
		kratos.ID(id),
		kratos.Name(Name),
		kratos.Version(Version),
		kratos.Metadata(map[string]string{}),
		kratos.Logger(logger),
		kratos.Server(hs),
	)
}

func main() {
	flag.Parse()

	// 文件为主，环境变量用于注入密钥（配置中以 ${LLM_API_KEY} 引用）
	c := config.New(
		config.WithSource(
			file.NewSource(flagconf),
			env.NewSource(),
		),
	)
	defer c.Close()

	if err := c.Load(); err != nil {
		panic(err)
	}

	var bc conf.Bootstrap
	if err := c.Scan(&bc); err != nil {
		panic(err)
	}

	level, file := "info", ""
	if bc.Log != nil {
		level, file = bc.Log.Level, bc.Log.File
	}
	if err := logger.InitLogger(level, file); err != nil {
		logger.Log.Errorf("初始化日志失败: %v", err)
		_ = logger.InitLogger("info", "") // 降级处理
	}

	// kratos 组件与业务代码共用同一个 logrus 实例
	kl := log.With(logger.NewKratosLogger(logger.Log),
		"service.id", id,
		"service.name", Name,
		"service.version", Version,
	)

	app, cleanup, err := wireApp(bc.Server, bc.Llm, bc.Image, bc.Analysis, bc.Fetch, kl)
	if err != nil {
		panic(err)
	}
	defer cleanup()

	logger.Log.Infof("%s 启动", Name)
	if err := app.Run(); err != nil {
		panic(err)
	}
}
