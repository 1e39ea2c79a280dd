package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newTestServer(remote *RemotePredictor) (*ControlServer, *Session) {
	session := NewSession(SynthConfig{}, ControllerConfig{})
	session.SetProgram(singleVoiceProgram(6, 200, 60))
	name := "none"
	if remote != nil {
		name = remote.Name()
	}
	return NewControlServer(session, remote, name, nil), session
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestControlServer_HealthAndStatus(t *testing.T) {
	srv, session := newTestServer(nil)
	h := srv.Handler()

	rec := doRequest(t, h, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Errorf("health = %d %q", rec.Code, rec.Body.String())
	}

	buf := session.NewBuffer()
	session.Render(buf)
	rec = doRequest(t, h, http.MethodGet, "/status", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status code = %d", rec.Code)
	}
	var st statusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &st); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if st.Program != "test" || st.BeatFreq != 6 || st.Band != "theta" || st.Predictor != "none" {
		t.Errorf("status = %+v", st)
	}
	if st.BalanceLabel != "Center" || st.RenderedSec <= 0 {
		t.Errorf("status = %+v", st)
	}
}

func TestControlServer_VolumeAndBalance(t *testing.T) {
	tests := []struct {
		path     string
		body     string
		wantCode int
		want     float64
	}{
		{"/volume", `{"value": 0.5}`, http.StatusOK, 0.5},
		{"/volume", `{"value": 9}`, http.StatusOK, VOLUME_MULT_MAX},
		{"/volume", `{}`, http.StatusBadRequest, 0},
		{"/volume", `not json`, http.StatusBadRequest, 0},
		{"/balance", `{"value": -0.25}`, http.StatusOK, -0.25},
		{"/balance", `{"value": -3}`, http.StatusOK, -1},
	}
	for _, tt := range tests {
		t.Run(tt.path+" "+tt.body, func(t *testing.T) {
			srv, _ := newTestServer(nil)
			rec := doRequest(t, srv.Handler(), http.MethodPut, tt.path, tt.body)
			if rec.Code != tt.wantCode {
				t.Fatalf("code = %d, want %d (%s)", rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantCode != http.StatusOK {
				return
			}
			var resp map[string]float64
			json.Unmarshal(rec.Body.Bytes(), &resp)
			if resp["value"] != tt.want {
				t.Errorf("value = %v, want %v", resp["value"], tt.want)
			}
		})
	}
}

func TestControlServer_Prediction(t *testing.T) {
	remote := NewRemotePredictor()
	srv, _ := newTestServer(remote)
	h := srv.Handler()

	tests := []struct {
		body     string
		wantCode int
	}{
		{`{"state":"relaxed","target_beat_freq":10,"confidence":0.8}`, http.StatusAccepted},
		{`{"target_beat_freq":10,"confidence":1.5}`, http.StatusBadRequest},
		{`{"target_beat_freq":`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		rec := doRequest(t, h, http.MethodPost, "/prediction", tt.body)
		if rec.Code != tt.wantCode {
			t.Errorf("POST %s = %d, want %d", tt.body, rec.Code, tt.wantCode)
		}
	}
	if remote.Received() != 1 {
		t.Errorf("Received = %d, want 1", remote.Received())
	}
	pred, ok := remote.Predict(nil, 0)
	if !ok || pred.State != EEGRelaxed || pred.TargetBeatFreq != 10 {
		t.Errorf("mailbox = %+v, %v", pred, ok)
	}
}

func TestControlServer_PredictionDisabled(t *testing.T) {
	srv, _ := newTestServer(nil)
	rec := doRequest(t, srv.Handler(), http.MethodPost, "/prediction", `{"confidence":0.5}`)
	if rec.Code != http.StatusConflict {
		t.Errorf("code = %d, want 409", rec.Code)
	}
}

func TestControlServer_Clear(t *testing.T) {
	srv, session := newTestServer(nil)
	session.Queue().Push(EEGStatePrediction{TargetBeatFreq: 20, Confidence: 0.9})
	buf := session.NewBuffer()
	session.Render(buf)

	rec := doRequest(t, srv.Handler(), http.MethodPost, "/clear", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("code = %d", rec.Code)
	}
	if session.Controller().IsAIDriven() {
		t.Error("still AI driven after /clear")
	}
}

func TestControlServer_ProgramEdits(t *testing.T) {
	tests := []struct {
		method   string
		path     string
		body     string
		wantCode int
		want     leadResponse
	}{
		{http.MethodPut, "/beat", `{"value": 10}`, http.StatusOK,
			leadResponse{Beat: 10, Base: 200, Background: "none"}},
		{http.MethodPut, "/beat", `{"value": 45}`, http.StatusBadRequest, leadResponse{}},
		{http.MethodPut, "/base", `{"value": 220}`, http.StatusOK,
			leadResponse{Beat: 6, Base: 220, Background: "none"}},
		{http.MethodPut, "/base", `{"value": 900}`, http.StatusBadRequest, leadResponse{}},
		{http.MethodPut, "/isochronic", `{"enabled": true}`, http.StatusOK,
			leadResponse{Beat: 6, Base: 200, Isochronic: true, Background: "none"}},
		{http.MethodPut, "/isochronic", `{}`, http.StatusBadRequest, leadResponse{}},
		{http.MethodPut, "/background", `{"kind": "pink", "volume": 0.1}`, http.StatusOK,
			leadResponse{Beat: 6, Base: 200, Background: "pink", BackgroundVol: 0.1}},
		{http.MethodPut, "/background", `{"kind": "brown"}`, http.StatusBadRequest, leadResponse{}},
		{http.MethodPut, "/background", `{"kind": "white", "volume": 2}`, http.StatusBadRequest, leadResponse{}},
		{http.MethodGet, "/program", "", http.StatusOK,
			leadResponse{Beat: 6, Base: 200, Background: "none"}},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path+" "+tt.body, func(t *testing.T) {
			srv, session := newTestServer(nil)
			rec := doRequest(t, srv.Handler(), tt.method, tt.path, tt.body)
			if rec.Code != tt.wantCode {
				t.Fatalf("code = %d, want %d (%s)", rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantCode != http.StatusOK {
				return
			}
			var got leadResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got != tt.want {
				t.Errorf("lead = %+v, want %+v", got, tt.want)
			}

			session.Render(session.NewBuffer())
			per, _ := session.Synth().CurrentPeriod()
			if v := per.Voices[0]; v.FreqStart != tt.want.Beat || v.Pitch != tt.want.Base || v.Isochronic != tt.want.Isochronic {
				t.Errorf("rendering voice %+v, want %+v", v, tt.want)
			}
		})
	}
}

func TestControlServer_Load(t *testing.T) {
	srv, session := newTestServer(nil)
	dir := t.TempDir()
	path := filepath.Join(dir, "focus.yaml")
	if err := os.WriteFile(path, []byte(yamlSample), 0o644); err != nil {
		t.Fatal(err)
	}
	bad := filepath.Join(dir, "bad.txt")
	if err := os.WriteFile(bad, []byte("# nothing here\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		body     string
		wantCode int
	}{
		{fmt.Sprintf(`{"path": %q}`, path), http.StatusOK},
		{fmt.Sprintf(`{"path": %q}`, filepath.Join(dir, "missing.yaml")), http.StatusNotFound},
		{fmt.Sprintf(`{"path": %q}`, bad), http.StatusBadRequest},
		{`{}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		rec := doRequest(t, srv.Handler(), http.MethodPost, "/load", tt.body)
		if rec.Code != tt.wantCode {
			t.Errorf("POST /load %s = %d, want %d (%s)", tt.body, rec.Code, tt.wantCode, rec.Body.String())
		}
	}

	session.Render(session.NewBuffer())
	if st := session.Status(); st.ProgramName != "Focus" || st.PeriodCount != 2 {
		t.Errorf("status after load = %+v", st)
	}
}

func TestControlServer_MethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(nil)
	rec := doRequest(t, srv.Handler(), http.MethodDelete, "/volume", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("code = %d, want 405", rec.Code)
	}
}

func TestControlServer_ServeShutsDown(t *testing.T) {
	srv, _ := newTestServer(nil)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get(fmt.Sprintf("http://%s/health", ln.Addr()))
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != "ok" {
		t.Errorf("body = %q", body)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve = %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
