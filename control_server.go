// control_server.go - HTTP control surface

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const controlShutdownTimeout = 5 * time.Second

// ControlServer exposes session status and controls over HTTP. Predictions
// posted to /prediction go to the RemotePredictor mailbox; the inference loop
// remains the queue's only producer.
type ControlServer struct {
	session   *Session
	remote    *RemotePredictor // nil when another predictor is active
	predictor string
	router    *chi.Mux
	logger    *log.Logger
}

func NewControlServer(session *Session, remote *RemotePredictor, predictorName string, logger *log.Logger) *ControlServer {
	if logger == nil {
		logger = newDiscardLogger()
	}
	s := &ControlServer{
		session:   session,
		remote:    remote,
		predictor: predictorName,
		router:    chi.NewRouter(),
		logger:    logger,
	}
	s.setupRoutes()
	return s
}

func (s *ControlServer) setupRoutes() {
	r := s.router

	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  s.logger.StandardLog(log.StandardLogOptions{ForceLevel: log.DebugLevel}),
		NoColor: true,
	}))
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Get("/status", s.handleStatus)
	r.Post("/clear", s.handleClear)
	r.Post("/prediction", s.handlePrediction)
	r.Put("/volume", s.handleVolume)
	r.Put("/balance", s.handleBalance)

	r.Get("/program", s.handleProgram)
	r.Put("/beat", s.handleBeat)
	r.Put("/base", s.handleBase)
	r.Put("/isochronic", s.handleIsochronic)
	r.Put("/background", s.handleBackground)
	r.Post("/load", s.handleLoad)
}

func (s *ControlServer) Handler() http.Handler { return s.router }

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *ControlServer) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("control server listen: %w", err)
	}
	return s.Serve(ctx, ln)
}

func (s *ControlServer) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), controlShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("control server shutdown", "err", err)
		}
	}()

	s.logger.Info("control server listening", "addr", ln.Addr().String())
	if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("control server: %w", err)
	}
	<-done
	return nil
}

type statusResponse struct {
	Program       string  `json:"program"`
	PeriodIndex   int     `json:"period_index"`
	PeriodCount   int     `json:"period_count"`
	PeriodElapsed float64 `json:"period_elapsed"`
	PeriodLength  float64 `json:"period_length"`
	BeatFreq      float64 `json:"beat_freq"`
	Band          string  `json:"band"`
	Fade          float64 `json:"fade"`
	AIDriven      bool    `json:"ai_driven"`
	Predictor     string  `json:"predictor"`
	Volume        float64 `json:"volume"`
	Balance       float64 `json:"balance"`
	BalanceLabel  string  `json:"balance_label"`
	RenderedSec   float64 `json:"rendered_sec"`
}

type valueRequest struct {
	Value *float64 `json:"value"`
}

type leadResponse struct {
	Beat          float64 `json:"beat"`
	Base          float64 `json:"base"`
	Isochronic    bool    `json:"isochronic"`
	Background    string  `json:"background"`
	BackgroundVol float64 `json:"background_volume"`
}

type backgroundRequest struct {
	Kind   string   `json:"kind"`
	Volume *float64 `json:"volume"`
}

type loadRequest struct {
	Path string `json:"path"`
}

func (s *ControlServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte("ok"))
}

func (s *ControlServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	st := s.session.Status()
	writeJSON(w, http.StatusOK, statusResponse{
		Program:       st.ProgramName,
		PeriodIndex:   st.PeriodIndex,
		PeriodCount:   st.PeriodCount,
		PeriodElapsed: st.PeriodElapsed,
		PeriodLength:  st.PeriodLength,
		BeatFreq:      st.BeatFreq,
		Band:          BeatBand(st.BeatFreq),
		Fade:          st.Fade,
		AIDriven:      st.AIDriven,
		Predictor:     s.predictor,
		Volume:        st.Volume,
		Balance:       st.Balance,
		BalanceLabel:  BalanceLabel(st.Balance),
		RenderedSec:   st.RenderedSec,
	})
}

func (s *ControlServer) handleClear(w http.ResponseWriter, r *http.Request) {
	s.session.ClearAI()
	w.WriteHeader(http.StatusNoContent)
}

func (s *ControlServer) handlePrediction(w http.ResponseWriter, r *http.Request) {
	if s.remote == nil {
		http.Error(w, "remote predictions are not enabled", http.StatusConflict)
		return
	}
	var pred EEGStatePrediction
	if err := json.NewDecoder(r.Body).Decode(&pred); err != nil {
		http.Error(w, "invalid prediction: "+err.Error(), http.StatusBadRequest)
		return
	}
	if !isFinite(pred.TargetBeatFreq) || !isFinite(pred.Confidence) || pred.Confidence < 0 || pred.Confidence > 1 {
		http.Error(w, "target_beat_freq must be finite and confidence within [0,1]", http.StatusBadRequest)
		return
	}
	s.remote.Submit(pred)
	w.WriteHeader(http.StatusAccepted)
}

func (s *ControlServer) handleVolume(w http.ResponseWriter, r *http.Request) {
	v, ok := decodeValue(w, r)
	if !ok {
		return
	}
	s.session.SetVolume(v)
	writeJSON(w, http.StatusOK, map[string]float64{"value": s.session.Synth().VolumeMultiplier()})
}

func (s *ControlServer) handleBalance(w http.ResponseWriter, r *http.Request) {
	v, ok := decodeValue(w, r)
	if !ok {
		return
	}
	s.session.SetBalance(v)
	writeJSON(w, http.StatusOK, map[string]float64{"value": s.session.Synth().Balance()})
}

func decodeValue(w http.ResponseWriter, r *http.Request) (float64, bool) {
	var req valueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Value == nil || !isFinite(*req.Value) {
		http.Error(w, `body must be {"value": <number>}`, http.StatusBadRequest)
		return 0, false
	}
	return *req.Value, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *ControlServer) handleProgram(w http.ResponseWriter, r *http.Request) {
	lead, ok := s.session.Lead()
	if !ok {
		http.Error(w, ErrNoLeadVoice.Error(), http.StatusConflict)
		return
	}
	writeLead(w, lead)
}

func (s *ControlServer) handleBeat(w http.ResponseWriter, r *http.Request) {
	v, ok := decodeValue(w, r)
	if !ok {
		return
	}
	s.replyEdit(w)(s.session.SetBeat(v))
}

func (s *ControlServer) handleBase(w http.ResponseWriter, r *http.Request) {
	v, ok := decodeValue(w, r)
	if !ok {
		return
	}
	s.replyEdit(w)(s.session.SetBase(v))
}

func (s *ControlServer) handleIsochronic(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Enabled *bool `json:"enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Enabled == nil {
		http.Error(w, `body must be {"enabled": <bool>}`, http.StatusBadRequest)
		return
	}
	s.replyEdit(w)(s.session.SetIsochronic(*req.Enabled))
}

func (s *ControlServer) handleBackground(w http.ResponseWriter, r *http.Request) {
	var req backgroundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid background: "+err.Error(), http.StatusBadRequest)
		return
	}
	kind, err := ParseBackgroundKind(req.Kind)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	lead, ok := s.session.Lead()
	if !ok {
		http.Error(w, ErrNoLeadVoice.Error(), http.StatusConflict)
		return
	}
	vol := lead.BackgroundVol
	if req.Volume != nil {
		vol = *req.Volume
	}
	s.replyEdit(w)(s.session.SetBackground(kind, vol))
}

func (s *ControlServer) handleLoad(w http.ResponseWriter, r *http.Request) {
	var req loadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Path == "" {
		http.Error(w, `body must be {"path": "<schedule file>"}`, http.StatusBadRequest)
		return
	}
	p, err := s.session.LoadProgramFile(req.Path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	case err != nil:
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.logger.Info("program loaded", "path", req.Path, "periods", len(p.Periods))
	writeJSON(w, http.StatusOK, map[string]any{
		"program": p.Name,
		"periods": len(p.Periods),
		"seconds": p.TotalSeconds(),
	})
}

// replyEdit writes the lead voice after an edit, or the edit's error.
func (s *ControlServer) replyEdit(w http.ResponseWriter) func(LeadVoice, error) {
	return func(lead LeadVoice, err error) {
		switch {
		case errors.Is(err, ErrNoLeadVoice):
			http.Error(w, err.Error(), http.StatusConflict)
		case err != nil:
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			writeLead(w, lead)
		}
	}
}

func writeLead(w http.ResponseWriter, lead LeadVoice) {
	writeJSON(w, http.StatusOK, leadResponse{
		Beat:          lead.Beat,
		Base:          lead.Base,
		Isochronic:    lead.Isochronic,
		Background:    lead.Background.String(),
		BackgroundVol: lead.BackgroundVol,
	})
}
