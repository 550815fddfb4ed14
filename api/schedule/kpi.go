package schedule

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/haocluo92/well-scheduler/core/kpi"
	coreschedule "github.com/haocluo92/well-scheduler/core/schedule"
)

// NewKPIHandler exposes run statistics via GET /api/schedule/kpis.
func NewKPIHandler(p ResultProvider, token string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
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
		_ = json.NewEncoder(w).Encode(kpi.FromResult(res))
	})
}
