package main

import (
	"testing"

	"github.com/ayusman/fitassess/internal/plugin"
	"github.com/ayusman/fitassess/internal/results"
)

func TestMessage(t *testing.T) {
	tests := []struct {
		name      string
		req       plugin.Request
		wantTitle string
		wantBody  string
	}{
		{
			name: "picks best exercise",
			req: plugin.Request{
				Session: &plugin.Session{OverallScore: 72.34},
				Records: []results.Record{
					{Exercise: "Squats", Score: 80},
					{Exercise: "Plank", Score: 91.5},
					{Exercise: "Push-ups", Score: 45},
				},
			},
			wantTitle: "Fitness assessment: 72.3/100",
			wantBody:  "3 exercises, best: Plank (91.5)",
		},
		{
			name:      "no records",
			req:       plugin.Request{Session: &plugin.Session{}},
			wantTitle: "Fitness assessment: 0.0/100",
			wantBody:  "No exercises recorded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, body := message(tt.req)
			if title != tt.wantTitle {
				t.Errorf("title = %q, want %q", title, tt.wantTitle)
			}
			if body != tt.wantBody {
				t.Errorf("body = %q, want %q", body, tt.wantBody)
			}
		})
	}
}
