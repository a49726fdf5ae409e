package health

import (
	"inventory_server/lib"
	"net/http"

	"github.com/MonkyMars/gecho"
)

type healthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// GetHealth is the liveness probe. It does not look at the products service
// or the watcher.
func (hrm *HealthRoutesManager) GetHealth(w http.ResponseWriter, r *http.Request) {
	lib.WriteJSON(w, http.StatusOK, healthResponse{
		Status:  "success",
		Message: "Inventory service is running",
	})
}

func (hrm *HealthRoutesManager) GetServerHealth(w http.ResponseWriter, r *http.Request) {
	healthStatus := hrm.healthService.GetServerHealthStatus()
	gecho.Success(w,
		gecho.WithData(healthStatus),
		gecho.Send(),
	)
}

func (hrm *HealthRoutesManager) GetWatcherHealth(w http.ResponseWriter, r *http.Request) {
	watcherStatus := hrm.healthService.GetWatcherHealthStatus()
	if !watcherStatus.Healthy() {
		gecho.ServiceUnavailable(w,
			gecho.WithMessage("Change feed watcher is not running"),
			gecho.WithData(watcherStatus),
			gecho.Send(),
		)
		return
	}
	gecho.Success(w,
		gecho.WithData(watcherStatus),
		gecho.Send(),
	)
}
