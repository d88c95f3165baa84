package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/fitassess/internal/app"
	"github.com/ayusman/fitassess/internal/assessment"
	"github.com/ayusman/fitassess/internal/exercise"
	"github.com/ayusman/fitassess/internal/store"
)

func TestAPI_AssessmentWorkflow(t *testing.T) {
	tmpDir := t.TempDir()
	st, err := store.New(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	defer st.Close()

	a, err := app.New(app.Config{
		Steps:      []assessment.Step{{Kind: exercise.KindSquats}, {Kind: exercise.KindPlank, Target: 45}},
		ResultsCSV: filepath.Join(tmpDir, "results.csv"),
		Store:      st,
		PluginDir:  filepath.Join(tmpDir, "plugins"),
	})
	if err != nil {
		t.Fatalf("app.New: %v", err)
	}

	srv := New(Config{Store: st, Controller: a, LiveInterval: 20 * time.Millisecond})
	defer srv.Close()
	ts := httptest.NewServer(srv)
	defer ts.Close()
	client := ts.Client()

	// 1. Start the first exercise, then move to the plank
	for i := 0; i < 2; i++ {
		resp, err := client.Post(ts.URL+"/api/assessment/next", "application/json", nil)
		if err != nil {
			t.Fatalf("POST next: %v", err)
		}
		resp.Body.Close()
	}

	var status app.Status
	resp, _ := client.Get(ts.URL + "/api/assessment")
	json.NewDecoder(resp.Body).Decode(&status)
	resp.Body.Close()
	if status.Current != "Plank" || !status.Last {
		t.Errorf("status = %+v, want Plank as last exercise", status)
	}
	if status.Exercises[1].IdealTime != 45 {
		t.Errorf("plank target = %v, want 45", status.Exercises[1].IdealTime)
	}

	// 2. Save
	resp, err = client.Post(ts.URL+"/api/assessment/save", "application/json", nil)
	if err != nil {
		t.Fatalf("POST save: %v", err)
	}
	var saved app.SaveResult
	json.NewDecoder(resp.Body).Decode(&saved)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || saved.SessionID == "" {
		t.Fatalf("save status %d, result %+v", resp.StatusCode, saved)
	}

	// 3. The session shows up in the history
	resp, _ = client.Get(ts.URL + "/api/sessions/" + saved.SessionID)
	var sess struct {
		ID      string `json:"id"`
		Results []struct {
			Exercise string `json:"exercise"`
		} `json:"results"`
	}
	json.NewDecoder(resp.Body).Decode(&sess)
	resp.Body.Close()
	if sess.ID != saved.SessionID || len(sess.Results) != 2 || sess.Results[1].Exercise != "Plank" {
		t.Errorf("unexpected session %+v", sess)
	}

	// 4. Live status over the WebSocket
	conn, _, err := websocket.DefaultDialer.DialContext(context.Background(),
		"ws"+strings.TrimPrefix(ts.URL, "http")+"/api/live", nil)
	if err != nil {
		t.Fatalf("dial live: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var live struct {
		Status app.Status `json:"status"`
	}
	if err := conn.ReadJSON(&live); err != nil {
		t.Fatalf("read live: %v", err)
	}
	if live.Status.Total != 2 || live.Status.Index != 1 {
		t.Errorf("live status = %+v", live.Status)
	}
}
