package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/ayusman/fitassess/internal/app"
	"github.com/ayusman/fitassess/internal/assessment"
	"github.com/ayusman/fitassess/internal/results"
	"github.com/ayusman/fitassess/internal/store"
)

type fakeController struct {
	index int
	total int
	saves int
	save  app.SaveResult
}

func (f *fakeController) Status() app.Status {
	return app.Status{Status: assessment.Status{Index: f.index, Total: f.total}}
}

func (f *fakeController) Next() (bool, app.Status) {
	if f.index >= f.total-1 {
		return false, f.Status()
	}
	f.index++
	return true, f.Status()
}

func (f *fakeController) Save(ctx context.Context) app.SaveResult {
	f.saves++
	return f.save
}

func do(t *testing.T, h http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestAssessmentHandler(t *testing.T) {
	ctl := &fakeController{index: 0, total: 2}
	h := NewAssessmentHandler(ctl)

	t.Run("status", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/assessment")
		if rec.Code != http.StatusOK {
			t.Fatalf("status %d", rec.Code)
		}
		var st app.Status
		if err := json.NewDecoder(rec.Body).Decode(&st); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if st.Total != 2 || st.Index != 0 {
			t.Errorf("unexpected status %+v", st)
		}
	})

	t.Run("next", func(t *testing.T) {
		for i, want := range []bool{true, false} {
			rec := do(t, h, http.MethodPost, "/api/assessment/next")
			var resp nextResponse
			json.NewDecoder(rec.Body).Decode(&resp)
			if resp.Advanced != want {
				t.Errorf("call %d advanced = %v, want %v", i, resp.Advanced, want)
			}
			if resp.Status.Index != 1 {
				t.Errorf("call %d index = %d, want 1", i, resp.Status.Index)
			}
		}
	})

	t.Run("save", func(t *testing.T) {
		ctl.save = app.SaveResult{CSV: results.Outcome{OK: true, Message: "Results saved to x.csv"}, Overall: 42}
		rec := do(t, h, http.MethodPost, "/api/assessment/save")
		if rec.Code != http.StatusOK {
			t.Fatalf("status %d", rec.Code)
		}
		var res app.SaveResult
		json.NewDecoder(rec.Body).Decode(&res)
		if res.Overall != 42 || !res.CSV.OK {
			t.Errorf("unexpected save result %+v", res)
		}
		if ctl.saves != 1 {
			t.Errorf("Save called %d times, want 1", ctl.saves)
		}
	})

	t.Run("failed save is a server error", func(t *testing.T) {
		ctl.save = app.SaveResult{CSV: results.Outcome{Message: "Save failed: disk full"}}
		if rec := do(t, h, http.MethodPost, "/api/assessment/save"); rec.Code != http.StatusInternalServerError {
			t.Errorf("status %d, want 500", rec.Code)
		}
	})

	tests := []struct {
		method, path string
		want         int
	}{
		{http.MethodPost, "/api/assessment", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/assessment/next", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/assessment/save", http.StatusMethodNotAllowed},
		{http.MethodPost, "/api/assessment/reset", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			if rec := do(t, h, tt.method, tt.path); rec.Code != tt.want {
				t.Errorf("status %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSessionHandler(t *testing.T) {
	s := newTestStore(t)
	created := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)
	sess := &store.Session{ID: "s1", UserHeightCm: 180, OverallScore: 64.2, CreatedAt: created}
	if err := s.Sessions().Create(sess); err != nil {
		t.Fatal(err)
	}
	recs := []results.Record{{Timestamp: created, Exercise: "Squats", Component: "STRENGTH", Reps: 10, Score: 66.7}}
	if err := s.Results().AddAll("s1", recs); err != nil {
		t.Fatal(err)
	}

	h := NewSessionHandler(s)

	t.Run("list", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/sessions")
		if rec.Code != http.StatusOK {
			t.Fatalf("status %d", rec.Code)
		}
		var resp listSessionsResponse
		json.NewDecoder(rec.Body).Decode(&resp)
		if len(resp.Sessions) != 1 || resp.Sessions[0].ID != "s1" {
			t.Fatalf("unexpected list %+v", resp)
		}
		if resp.Sessions[0].CreatedAt != "2026-02-03T04:05:06Z" {
			t.Errorf("created_at = %q", resp.Sessions[0].CreatedAt)
		}
		if resp.Sessions[0].Results != nil {
			t.Error("list should not embed results")
		}
	})

	t.Run("get", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/sessions/s1")
		if rec.Code != http.StatusOK {
			t.Fatalf("status %d", rec.Code)
		}
		var resp sessionResponse
		json.NewDecoder(rec.Body).Decode(&resp)
		if resp.OverallScore != 64.2 || len(resp.Results) != 1 || resp.Results[0].Reps != 10 {
			t.Errorf("unexpected session %+v", resp)
		}
	})

	t.Run("missing", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/sessions/nope")
		if rec.Code != http.StatusNotFound {
			t.Errorf("status %d, want 404", rec.Code)
		}
		var e errorResponse
		json.NewDecoder(rec.Body).Decode(&e)
		if e.Error != "Session not found" {
			t.Errorf("error = %q", e.Error)
		}
	})

	t.Run("method not allowed", func(t *testing.T) {
		if rec := do(t, h, http.MethodPost, "/api/sessions"); rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("status %d, want 405", rec.Code)
		}
	})

	t.Run("delete", func(t *testing.T) {
		if rec := do(t, h, http.MethodDelete, "/api/sessions/s1"); rec.Code != http.StatusNoContent {
			t.Fatalf("status %d, want 204", rec.Code)
		}
		if rec := do(t, h, http.MethodDelete, "/api/sessions/s1"); rec.Code != http.StatusNotFound {
			t.Errorf("second delete status %d, want 404", rec.Code)
		}
	})
}
