package controllers

import (
	"bikeprice/internal/services"
	"fmt"
	json "github.com/goccy/go-json"
	"net/http"
	"time"
)

type HealthController struct {
	service   services.PricingServiceInterface
	startTime time.Time
}

type healthResponse struct {
	Status          string  `json:"status"`
	Uptime          string  `json:"uptime"`
	UptimeSeconds   float64 `json:"uptime_seconds"`
	Cities          int     `json:"cities"`
	SnapshotVersion uint64  `json:"snapshot_version"`
	GeneratedAt     string  `json:"generated_at,omitempty"`
	SnapshotAge     string  `json:"snapshot_age,omitempty"`
}

// Health answers "ok" once a snapshot is loaded and "empty" before that. Both
// are 200: an empty process can still regenerate.
func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(hc.startTime)
	resp := healthResponse{
		Status:          "ok",
		Uptime:          formatDuration(uptime),
		UptimeSeconds:   uptime.Seconds(),
		Cities:          len(hc.service.Current()),
		SnapshotVersion: hc.service.Version(),
	}
	if resp.Cities == 0 {
		resp.Status = "empty"
	}
	if at := hc.service.GeneratedAt(); !at.IsZero() {
		resp.GeneratedAt = at.UTC().Format(time.RFC3339)
		resp.SnapshotAge = formatDuration(time.Since(at))
	}

	gson, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(service services.PricingServiceInterface) *HealthController {
	return &HealthController{
		service:   service,
		startTime: time.Now(),
	}
}
