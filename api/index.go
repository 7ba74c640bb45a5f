package handler

import (
	"net/http"

	"github.com/Valex-Destigos/TooDoo/config"
	"github.com/Valex-Destigos/TooDoo/di"
	"github.com/Valex-Destigos/TooDoo/shared/logger"
)

func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	server := di.InitializeService()
	server.Handler().ServeHTTP(w, r)
}
