package schedule

import (
	"encoding/json"
	"errors"
	"net/http"

	coreschedule "github.com/haocluo92/well-scheduler/core/schedule"
	"github.com/haocluo92/well-scheduler/core/schedule/runlog"
)

// ResultProvider yields the most recent scheduling result.
type ResultProvider interface {
	LastResult() (*coreschedule.Result, error)
}

// NewCurrentHandler exposes the latest schedule via GET /api/schedule/current.
// Before the first completed run it responds with 404.
func NewCurrentHandler(p ResultProvider, fracLagDays int, token string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !authorized(r, token) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		res, err := p.LastResult()
		if err != nil {
			if errors.Is(err, coreschedule.ErrNotScheduled) {
				http.Error(w, "no completed run", http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(runlog.FromResult(res, fracLagDays))
	})
}
