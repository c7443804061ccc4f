package server

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	predictplot "github.com/aouyang1/go-predictplot"
	"github.com/aouyang1/go-predictplot/method"
	"github.com/aouyang1/go-predictplot/series"
	"github.com/aouyang1/go-predictplot/store"
)

type stubEntries struct {
	entries []store.Entry
	err     error
}

func (s stubEntries) Entries(context.Context) ([]store.Entry, error) {
	return s.entries, s.err
}

func newTestRouter(t *testing.T, opt *predictplot.Options, entries EntryLister) (*mux.Router, *SessionManager) {
	t.Helper()
	sessions, err := NewSessionManager(opt, nil)
	require.Nil(t, err)

	r := mux.NewRouter()
	NewHandler(sessions, entries).RegisterRoutes(r)
	return r, sessions
}

func doRequest(r http.Handler, verb, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(verb, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var res T
	require.Nil(t, json.NewDecoder(w.Body).Decode(&res))
	return res
}

func TestHealthEndpoint(t *testing.T) {
	r, _ := newTestRouter(t, nil, nil)

	w := doRequest(r, "GET", "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, map[string]string{"status": "ok"}, decode[map[string]string](t, w))
}

func TestMethodsEndpoint(t *testing.T) {
	r, _ := newTestRouter(t, nil, nil)

	w := doRequest(r, "GET", "/api/methods", "")
	require.Equal(t, http.StatusOK, w.Code)
	res := decode[map[string][]string](t, w)
	assert.Equal(t, []string{
		"Bayesian Inference",
		"Moving Average",
		"Exponential Smoothing",
		"Polynomial Regression",
	}, res["methods"])
}

func TestEntriesEndpoint(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	testData := map[string]struct {
		entries  EntryLister
		code     int
		expected []store.Entry
	}{
		"no store": {
			code:     http.StatusOK,
			expected: []store.Entry{},
		},
		"empty store": {
			entries:  stubEntries{},
			code:     http.StatusOK,
			expected: []store.Entry{},
		},
		"entries": {
			entries: stubEntries{entries: []store.Entry{
				{ID: 1, EntryNumber: 1, Value: 2.5, Timestamp: ts},
			}},
			code: http.StatusOK,
			expected: []store.Entry{
				{ID: 1, EntryNumber: 1, Value: 2.5, Timestamp: ts},
			},
		},
		"store failure": {
			entries: stubEntries{err: errors.New("connection refused")},
			code:    http.StatusInternalServerError,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			r, _ := newTestRouter(t, nil, td.entries)
			w := doRequest(r, "GET", "/api/entries", "")
			require.Equal(t, td.code, w.Code)
			if td.code != http.StatusOK {
				return
			}
			assert.Equal(t, td.expected, decode[[]store.Entry](t, w))
		})
	}
}

func TestSessionLifecycle(t *testing.T) {
	r, sessions := newTestRouter(t, nil, nil)

	w := doRequest(r, "POST", "/api/sessions", "")
	require.Equal(t, http.StatusCreated, w.Code)
	state := decode[SessionState](t, w)
	require.NotEmpty(t, state.ID)
	assert.Equal(t, method.Names(), state.Methods)
	assert.True(t, state.Consented)
	assert.Equal(t, 0, state.Dataset.Len())

	w = doRequest(r, "GET", "/api/sessions", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.ElementsMatch(t, []string{DefaultSessionID, state.ID}, decode[map[string][]string](t, w)["sessions"])

	base := "/api/sessions/" + state.ID
	for _, v := range []string{"1", "2", "3"} {
		w = doRequest(r, "POST", base+"/points", `{"value": `+v+`}`)
		require.Equal(t, http.StatusCreated, w.Code)
	}
	added := decode[AddPointResponse](t, w)
	assert.Equal(t, series.Observation{Index: 3, Value: 3}, added.Observation)
	assert.Equal(t, 3+4*predictplot.DefaultHorizon, added.Dataset.Len())

	w = doRequest(r, "PUT", base+"/selection", `{"methods": ["Polynomial Regression", "Moving Average"]}`)
	require.Equal(t, http.StatusOK, w.Code)
	state = decode[SessionState](t, w)
	assert.Equal(t, []string{"Moving Average", "Polynomial Regression"}, state.Methods)
	assert.Equal(t,
		[]string{predictplot.LabelUserInput, "Moving Average", "Polynomial Regression"},
		state.Dataset.SeriesLabels(),
	)

	w = doRequest(r, "GET", base, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, state, decode[SessionState](t, w))

	w = doRequest(r, "POST", base+"/reset", "")
	require.Equal(t, http.StatusOK, w.Code)
	state = decode[SessionState](t, w)
	assert.Equal(t, 0, state.Dataset.Len())

	w = doRequest(r, "POST", base+"/points", `{"value": 7.5}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 1, decode[AddPointResponse](t, w).Observation.Index)

	w = doRequest(r, "DELETE", base, "")
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(r, "GET", base, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	sessions.Wait()
}

func TestAddPointErrors(t *testing.T) {
	testData := map[string]struct {
		path string
		body string
		code int
	}{
		"unknown session": {
			path: "/api/sessions/missing/points",
			body: `{"value": 1}`,
			code: http.StatusNotFound,
		},
		"bad json": {
			path: "/api/sessions/default/points",
			body: `{"value": `,
			code: http.StatusBadRequest,
		},
		"missing value": {
			path: "/api/sessions/default/points",
			body: `{}`,
			code: http.StatusBadRequest,
		},
		"string value": {
			path: "/api/sessions/default/points",
			body: `{"value": "abc"}`,
			code: http.StatusBadRequest,
		},
		"unknown field": {
			path: "/api/sessions/default/points",
			body: `{"value": 1, "extra": true}`,
			code: http.StatusBadRequest,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			r, sessions := newTestRouter(t, nil, nil)
			w := doRequest(r, "POST", td.path, td.body)
			assert.Equal(t, td.code, w.Code)
			assert.Contains(t, decode[map[string]string](t, w), "error")

			s, err := sessions.Get(DefaultSessionID)
			require.Nil(t, err)
			assert.Equal(t, 0, s.Series().Len())
		})
	}
}

func TestSelectionErrors(t *testing.T) {
	r, sessions := newTestRouter(t, nil, nil)

	w := doRequest(r, "PUT", "/api/sessions/default/selection", `{"methods": ["ARIMA"]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(r, "PUT", "/api/sessions/default/selection", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(r, "PUT", "/api/sessions/missing/selection", `{"methods": []}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	s, err := sessions.Get(DefaultSessionID)
	require.Nil(t, err)
	assert.Equal(t, method.SelectAll(), s.Selection())

	w = doRequest(r, "PUT", "/api/sessions/default/selection", `{"methods": []}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{}, decode[SessionState](t, w).Methods)
}

func TestConsentGate(t *testing.T) {
	opt := predictplot.NewDefaultOptions()
	opt.RequireConsent = true
	r, _ := newTestRouter(t, opt, nil)

	w := doRequest(r, "POST", "/api/sessions/default/points", `{"value": 1}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// chart and selection are available before consent
	w = doRequest(r, "PUT", "/api/sessions/default/selection", `{"methods": ["Moving Average"]}`)
	assert.Equal(t, http.StatusOK, w.Code)
	w = doRequest(r, "GET", "/api/sessions/default/chart", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(r, "POST", "/api/sessions/default/consent", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[SessionState](t, w).Consented)

	w = doRequest(r, "POST", "/api/sessions/default/points", `{"value": 1}`)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestDeleteDefaultSession(t *testing.T) {
	r, _ := newTestRouter(t, nil, nil)

	w := doRequest(r, "DELETE", "/api/sessions/default", "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doRequest(r, "DELETE", "/api/sessions/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestChartEndpoint(t *testing.T) {
	r, _ := newTestRouter(t, nil, nil)
	for _, v := range []string{"4", "8", "6"} {
		w := doRequest(r, "POST", "/api/sessions/default/points", `{"value": `+v+`}`)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := doRequest(r, "GET", "/api/sessions/default/chart", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), predictplot.ChartTitle)
	assert.Contains(t, w.Body.String(), "Bayesian Inference")

	w = doRequest(r, "GET", "/api/sessions/missing/chart", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExportEndpoint(t *testing.T) {
	r, _ := newTestRouter(t, nil, nil)
	w := doRequest(r, "POST", "/api/sessions/default/points", `{"value": 2}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(r, "GET", "/api/sessions/default/export.xlsx", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, exportContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "dataset.xlsx")
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")))
}

func TestStreamEndpoint(t *testing.T) {
	sessions, err := NewSessionManager(nil, nil)
	require.Nil(t, err)
	srv := New("127.0.0.1:0", sessions, nil)

	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/sessions/default"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Nil(t, err)
	defer conn.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	require.Nil(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var ds predictplot.ChartDataset
	require.Nil(t, conn.ReadJSON(&ds))
	assert.Equal(t, 0, ds.Len())

	s, err := sessions.Get(DefaultSessionID)
	require.Nil(t, err)
	_, err = s.AddPoint(5.0)
	require.Nil(t, err)

	require.Nil(t, conn.ReadJSON(&ds))
	assert.Equal(t, []int{1}, ds.X)
	assert.Equal(t, []float64{5.0}, ds.Y)
	assert.Equal(t, []string{predictplot.LabelUserInput}, ds.Labels)

	_, _, err = websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws/sessions/missing", nil)
	assert.ErrorIs(t, err, websocket.ErrBadHandshake)
}
