package handler

import (
	"net/http"
	"stayops/config"
	"stayops/di"
	"stayops/shared/logger"
	"sync"
)

var (
	service     http.Handler
	serviceOnce sync.Once
)

// Handler serves one request on a serverless runtime. Warm invocations reuse the wired service
// and its connection pools.
func Handler(w http.ResponseWriter, r *http.Request) {
	serviceOnce.Do(func() {
		cfg := config.Get()

		logger.InitLogger()
		logger.SetLogLevel(cfg)

		service = di.InitializeService()
	})

	r.RequestURI = r.URL.String()

	service.ServeHTTP(w, r)
}
