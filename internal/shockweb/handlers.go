package shockweb

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/shock.report/internal/monitoring"
	"github.com/banshee-data/shock.report/internal/shockdata"
)

// processResponse summarises a successful upload for the page script.
type processResponse struct {
	UploadID   string   `json:"upload_id"`
	Rows       int      `json:"rows"`
	Columns    []string `json:"columns"`
	WindowRows int      `json:"window_rows"`
	Start      float64  `json:"start"`
	End        float64  `json:"end"`
}

// handleProcess accepts a browser upload and parses it into the current
// Table. Form fields:
//
//	contents (required) - "<metadata>,<base64 text>" payload from FileReader
//	start, end (optional) - window bounds in seconds
//
// Parse failures come back as a 400 with a descriptive error body; the page
// shows the message and keeps whatever table was loaded before.
func (ws *WebServer) handleProcess(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		ws.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, ws.tuning.GetMaxUploadBytes())
	if err := r.ParseForm(); err != nil {
		ws.writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("failed to read upload form: %v", err))
		return
	}

	contents := r.FormValue("contents")
	if contents == "" {
		ws.writeJSONError(w, http.StatusBadRequest, "missing 'contents' field")
		return
	}

	table, err := shockdata.ParseWithOptions(contents, shockdata.Options{
		Channels:       ws.tuning.GetChannelCount(),
		SampleInterval: ws.tuning.GetSampleInterval(),
	})
	if err != nil {
		monitoring.Logf("rejected upload: %v", err)
		ws.writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("parse upload: %v", err))
		return
	}

	u := &upload{
		ID:       uuid.NewString(),
		Table:    table,
		Received: time.Now(),
	}
	ws.setLatest(u)
	monitoring.Logf("accepted upload %s: %d rows, %d channels", u.ID, table.Rows(), table.Channels())

	start, end := ws.windowBounds(r.FormValue("start"), r.FormValue("end"))
	resp := processResponse{
		UploadID:   u.ID,
		Rows:       table.Rows(),
		Columns:    table.Columns(),
		WindowRows: table.Window(start, end).Rows(),
		Start:      start,
		End:        end,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// handleLatest returns a JSON summary of the current upload, if any.
func (ws *WebServer) handleLatest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		ws.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	u := ws.latestUpload()
	if u == nil {
		ws.writeJSONError(w, http.StatusNotFound, "no upload processed yet")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"upload_id": u.ID,
		"received":  u.Received.Format(time.RFC3339Nano),
		"rows":      u.Table.Rows(),
		"channels":  u.Table.Channels(),
		"columns":   u.Table.Columns(),
		"duration":  float64(u.Table.Rows()) * u.Table.SampleInterval,
	})
}

// handleVelocities returns the windowed velocity columns in long form:
// (time, channel, velocity) triples, the shape the histogram view consumes.
// The undefined first-row velocity is reported as null, not zero.
// Query params:
//   - start, end (optional; seconds)
func (ws *WebServer) handleVelocities(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		ws.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	u := ws.latestUpload()
	if u == nil {
		ws.writeJSONError(w, http.StatusNotFound, "no upload processed yet")
		return
	}

	start, end := ws.windowBounds(r.URL.Query().Get("start"), r.URL.Query().Get("end"))
	melted := u.Table.Window(start, end).Melt()

	type meltedRow struct {
		Time     float64  `json:"time"`
		Channel  string   `json:"channel"`
		Velocity *float64 `json:"velocity"`
	}
	rows := make([]meltedRow, len(melted))
	for i, m := range melted {
		row := meltedRow{Time: m.Time, Channel: m.Channel}
		if !math.IsNaN(m.Velocity) {
			v := m.Velocity
			row.Velocity = &v
		}
		rows[i] = row
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"upload_id": u.ID,
		"start":     start,
		"end":       end,
		"rows":      rows,
	})
}

// windowBounds parses optional start/end strings, falling back to 0 and the
// configured default window. Values that fail to parse keep the fallback; a
// backwards window is passed through as-is and simply selects no rows.
func (ws *WebServer) windowBounds(startStr, endStr string) (float64, float64) {
	start := 0.0
	end := ws.tuning.GetDefaultWindowSeconds()
	if startStr != "" {
		if v, err := strconv.ParseFloat(startStr, 64); err == nil {
			start = v
		}
	}
	if endStr != "" {
		if v, err := strconv.ParseFloat(endStr, 64); err == nil {
			end = v
		}
	}
	return start, end
}
