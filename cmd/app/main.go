package main

import (
	"github.com/Valex-Destigos/TooDoo/config"
	"github.com/Valex-Destigos/TooDoo/di"
	"github.com/Valex-Destigos/TooDoo/shared/logger"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	http := di.InitializeService()
	http.Serve()
}
