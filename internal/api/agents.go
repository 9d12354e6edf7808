package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/abhisek/adapted/internal/orchestrator"
)

func (s *Server) submitTask(w http.ResponseWriter, r *http.Request) {
	var req orchestrator.SubmitRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.orch.SubmitTask(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) generateTasks(w http.ResponseWriter, r *http.Request) {
	var req orchestrator.GenerateRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.orch.GenerateTasks(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	res, err := s.orch.Dashboard(r.Context(), mux.Vars(r)["user_id"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// profile creates unseen users by default; ?create=false turns the lookup
// read-only and answers 404 instead.
func (s *Server) profile(w http.ResponseWriter, r *http.Request) {
	lookup := s.orch.Profile
	if r.URL.Query().Get("create") == "false" {
		lookup = s.orch.LookupProfile
	}
	res, err := lookup(r.Context(), mux.Vars(r)["user_id"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) assignTasks(w http.ResponseWriter, r *http.Request) {
	var req orchestrator.AssignRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.orch.AssignTasks(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) teacherReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res, err := s.orch.TeacherReport(r.Context(), orchestrator.ReportRequest{
		ClassID:    q.Get("class_id"),
		ReportType: q.Get("report_type"),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
