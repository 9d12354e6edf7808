package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/abhisek/adapted/internal/assistant"
	"github.com/abhisek/adapted/internal/docs"
	"github.com/abhisek/adapted/internal/orchestrator"
)

type messageBody struct {
	Message string `json:"message"`
}

type hintRequest struct {
	TaskText     string `json:"task_text" validate:"required"`
	StudentLevel string `json:"student_level"`
}

type motivationRequest struct {
	Topic       string `json:"topic" validate:"required"`
	StudentName string `json:"student_name"`
	Deadline    string `json:"deadline"`
}

type documentRequest struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
}

type documentResult struct {
	Status string `json:"status"`
	ID     string `json:"id"`
	Title  string `json:"title"`
}

func (s *Server) chat(w http.ResponseWriter, r *http.Request) {
	var req assistant.ChatRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.assistant.Chat(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) hint(w http.ResponseWriter, r *http.Request) {
	var req hintRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageBody{
		Message: s.assistant.Hint(r.Context(), req.TaskText, req.StudentLevel),
	})
}

func (s *Server) motivation(w http.ResponseWriter, r *http.Request) {
	var req motivationRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageBody{
		Message: s.assistant.Motivation(r.Context(), req.Topic, req.StudentName, req.Deadline),
	})
}

func (s *Server) uploadDocument(w http.ResponseWriter, r *http.Request) {
	var req documentRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	doc, err := s.assistant.AddDocument(r.Context(), req.Title, req.Content, "text")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, documentResult{Status: "ok", ID: doc.ID, Title: doc.Title})
}

// uploadPDF accepts a multipart "file" field holding a PDF. The optional
// "title" field or query parameter overrides the file name as title.
func (s *Server) uploadPDF(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		s.writeError(w, r, &orchestrator.ValidationError{Field: "file", Reason: "multipart form expected"})
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, r, &orchestrator.ValidationError{Field: "file", Reason: "is required"})
		return
	}
	defer file.Close()

	if !docs.IsPDF(header.Filename) {
		s.writeError(w, r, &orchestrator.ValidationError{Field: "file", Reason: "PDF file expected"})
		return
	}

	text, err := docs.ExtractText(file, header.Size)
	if err != nil {
		if errors.Is(err, docs.ErrNoText) || errors.Is(err, docs.ErrMalformed) {
			s.writeError(w, r, &orchestrator.ValidationError{Field: "file", Reason: err.Error()})
			return
		}
		s.writeError(w, r, err)
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	if title == "" {
		title = header.Filename
	}
	doc, err := s.assistant.AddDocument(r.Context(), title, text, "pdf")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, documentResult{Status: "ok", ID: doc.ID, Title: doc.Title})
}

// chatSocket serves chat over a websocket: every JSON ChatRequest read gets
// one ChatResponse (or error object) back until the client closes.
func (s *Server) chatSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()
	conn.SetReadLimit(wsReadLimit)

	ctx := r.Context()
	for {
		var req assistant.ChatRequest
		if err := conn.ReadJSON(&req); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug("websocket read", zap.Error(err))
			}
			return
		}

		var out any
		if err := orchestrator.Validate(req); err != nil {
			out = errorBody{Error: err.Error()}
		} else if res, err := s.assistant.Chat(ctx, req); err != nil {
			s.logger.Error("websocket chat", zap.Error(err))
			out = errorBody{Error: http.StatusText(http.StatusInternalServerError)}
		} else {
			out = res
		}

		if err := conn.WriteJSON(out); err != nil {
			s.logger.Debug("websocket write", zap.Error(err))
			return
		}
	}
}
