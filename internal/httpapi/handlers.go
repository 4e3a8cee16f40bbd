package httpapi

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"wordrush/internal/registry"
)

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(struct {
		Status    string    `json:"status"`
		Timestamp time.Time `json:"timestamp"`
	}{Status: "ok", Timestamp: time.Now()})
}

// Stats reports live room and player counts, for debugging dashboards.
func Stats(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reply := make(chan registry.StatsReply, 1)
		reg.Inbox() <- registry.Stats{Reply: reply}
		stats := <-reply

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(struct {
			ActiveRooms   int `json:"activeRooms"`
			ActivePlayers int `json:"activePlayers"`
		}{ActiveRooms: stats.Rooms, ActivePlayers: stats.Players})
	}
}

// SPA serves the built frontend from dir, falling back to index.html for
// client-side routes.
func SPA(dir string) http.HandlerFunc {
	fs := http.FileServer(http.Dir(dir))
	return func(w http.ResponseWriter, r *http.Request) {
		path := filepath.Join(dir, filepath.Clean("/"+r.URL.Path))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			fs.ServeHTTP(w, r)
			return
		}
		http.ServeFile(w, r, filepath.Join(dir, "index.html"))
	}
}
