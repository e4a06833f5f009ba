package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"goldprice/internal/application"
	"goldprice/internal/domain"
	"goldprice/internal/infrastructure/logx"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Server struct {
	svc  *application.GoldPriceService
	ping func(ctx context.Context) error
}

func NewServer(svc *application.GoldPriceService) *Server { return &Server{svc: svc} }

// SetReadyCheck installs the probe used by /readyz.
func (s *Server) SetReadyCheck(fn func(ctx context.Context) error) { s.ping = fn }

type datesResponse struct {
	Dates []string `json:"dates"`
}

type snapshotResponse struct {
	Date    string          `json:"date"`
	Records []domain.Record `json:"records"`
}

type latestResponse struct {
	Date         string          `json:"date"`
	Records      []domain.Record `json:"records"`
	PreviousDate string          `json:"previous_date,omitempty"`
	Changes      []domain.Change `json:"changes"`
}

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (s *Server) ListDates(w http.ResponseWriter, r *http.Request) {
	dates, err := s.svc.Dates(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if dates == nil {
		dates = []string{}
	}
	writeJSON(w, http.StatusOK, datesResponse{Dates: dates})
}

func (s *Server) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	sn, err := s.svc.Snapshot(r.Context(), chi.URLParam(r, "date"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshotResponse{Date: sn.Date, Records: sn.Records})
}

func (s *Server) GetLatest(w http.ResponseWriter, r *http.Request) {
	l, err := s.svc.Latest(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	resp := latestResponse{
		Date:    l.Current.Date,
		Records: l.Current.Records,
		Changes: l.Changes,
	}
	if l.Previous != nil {
		resp.PreviousDate = l.Previous.Date
	}
	if resp.Changes == nil {
		resp.Changes = []domain.Change{}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, application.ErrNotFound):
		writeError(w, http.StatusNotFound, http.StatusText(http.StatusNotFound))
	case errors.Is(err, application.ErrBadRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		logx.WithFields(r.Context()).Error("request_failed", zap.String("path", r.URL.Path), zap.Error(err))
		writeError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}
}

// writeJSON encodes before writing the status so an encoding failure still
// yields a 500.
func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		logx.L().Error("encode_response", zap.Error(err))
		status = http.StatusInternalServerError
		buf.Reset()
		buf.WriteString(`{"code":500,"message":"Internal Server Error"}` + "\n")
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Code: status, Message: msg})
}
