package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/ayusman/fitassess/internal/app"
)

// Controller is the part of the running application the API drives.
type Controller interface {
	Status() app.Status
	Next() (bool, app.Status)
	Save(ctx context.Context) app.SaveResult
}

// AssessmentHandler serves /api/assessment and its actions.
type AssessmentHandler struct {
	ctl Controller
}

// NewAssessmentHandler creates an AssessmentHandler for ctl.
func NewAssessmentHandler(ctl Controller) *AssessmentHandler {
	return &AssessmentHandler{ctl: ctl}
}

type nextResponse struct {
	Advanced bool       `json:"advanced"`
	Status   app.Status `json:"status"`
}

// ServeHTTP routes:
//
//	GET  /api/assessment
//	POST /api/assessment/next
//	POST /api/assessment/save
func (h *AssessmentHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	action := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/assessment"), "/")

	switch action {
	case "":
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		writeJSON(w, http.StatusOK, h.ctl.Status())

	case "next":
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		ok, st := h.ctl.Next()
		writeJSON(w, http.StatusOK, nextResponse{Advanced: ok, Status: st})

	case "save":
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		res := h.ctl.Save(r.Context())
		status := http.StatusOK
		if res.StoreErr != "" || (res.CSV.Message != "" && !res.CSV.OK) {
			status = http.StatusInternalServerError
		}
		writeJSON(w, status, res)

	default:
		writeError(w, http.StatusNotFound, "Unknown assessment action")
	}
}
