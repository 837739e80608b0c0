package controllers

import (
	"net/http"

	"github.com/priceless-app/priceless-backend/api/responses"
	"github.com/priceless-app/priceless-backend/pkg/config"
	"github.com/priceless-app/priceless-backend/pkg/db"
	"github.com/priceless-app/priceless-backend/pkg/redis"
)

// Health reports liveness plus the state of the API's dependencies. A
// degraded dependency flips its field but not the HTTP status; the process
// is still serving.
func Health(cfg *config.Config, database db.Pinger, cache redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Priceless-Env", cfg.App.Env)

		status := map[string]string{"status": "ok", "database": "ok"}
		if database == nil || database.Ping(r.Context()) != nil {
			status["database"] = "unreachable"
		}
		if cache != nil {
			status["redis"] = "ok"
			if cache.Ping(r.Context()) != nil {
				status["redis"] = "unreachable"
			}
		}

		responses.WriteSuccess(w, status)
	}
}
