package http

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/onclick"
	"github.com/aretw0/onclick/pkg/action"
	"github.com/aretw0/onclick/pkg/adapters/memory"
	"github.com/aretw0/onclick/pkg/domain"
	"github.com/aretw0/onclick/pkg/observability"
	"github.com/aretw0/onclick/pkg/registry"
	"github.com/aretw0/onclick/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	handler http.Handler
	manager *session.Manager
	button  domain.ObjectID
	broken  domain.ObjectID
	events  *Events
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	reg := registry.NewRegistry()
	registry.RegisterBuiltins(reg)

	events := NewEvents(16)
	promReg := prometheus.NewRegistry()
	app, err := onclick.New(
		onclick.WithInterpreter(reg),
		onclick.WithLifecycleHooks(events.Hooks()),
		onclick.WithMetrics(observability.NewMetrics(observability.WithRegisterer(promReg))),
	)
	require.NoError(t, err)

	f := &fixture{events: events}
	f.button = app.Spawn(action.New().Command("add clicks"))
	f.broken = app.Spawn(action.New().Command("nope"))

	f.manager = session.NewManager(memory.NewStore())
	f.manager.Register("lobby", app)
	f.handler = NewHandler(f.manager, WithEvents(events), WithGatherer(promReg))
	return f
}

func (f *fixture) do(t *testing.T, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rr := httptest.NewRecorder()
	f.handler.ServeHTTP(rr, req)
	return rr
}

func TestGetHealth(t *testing.T) {
	f := newFixture(t)
	rr := f.do(t, http.MethodGet, "/health")

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
}

func TestGetInfo(t *testing.T) {
	f := newFixture(t)
	rr := f.do(t, http.MethodGet, "/info")

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "onclick-http", resp["app"])
	assert.Equal(t, onclick.Version, resp["version"])
}

func TestPressTickVars(t *testing.T) {
	f := newFixture(t)

	rr := f.do(t, http.MethodPost, "/worlds/lobby/objects/"+f.button.String()+"/press")
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = f.do(t, http.MethodPost, "/worlds/lobby/tick")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = f.do(t, http.MethodGet, "/worlds/lobby/vars")
	require.Equal(t, http.StatusOK, rr.Code)
	var vars map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &vars))
	assert.Equal(t, float64(1), vars["clicks"])

	rr = f.do(t, http.MethodGet, "/worlds/lobby/objects")
	require.Equal(t, http.StatusOK, rr.Code)
	var objects []ObjectView
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &objects))
	require.Len(t, objects, 2)
	assert.Equal(t, "obj#1", objects[0].ID)
	assert.Equal(t, "pressed", objects[0].Interaction)
	assert.Equal(t, []string{"delegated"}, objects[0].Queue)
}

func TestSaveLoad(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodPost, "/worlds/lobby/load").Code)

	f.do(t, http.MethodPost, "/worlds/lobby/objects/1/press")
	f.do(t, http.MethodPost, "/worlds/lobby/tick")
	assert.Equal(t, http.StatusNoContent, f.do(t, http.MethodPost, "/worlds/lobby/save").Code)
	assert.Equal(t, http.StatusNoContent, f.do(t, http.MethodPost, "/worlds/lobby/load").Code)

	ids, err := f.manager.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"lobby"}, ids)
}

func TestErrors(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodPost, "/worlds/nowhere/tick").Code)
	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodPost, "/worlds/lobby/objects/99/press").Code)
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPost, "/worlds/lobby/objects/abc/press").Code)
	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodPost, "/worlds/lobby/objects/1/smash").Code)

	f.do(t, http.MethodPost, "/worlds/lobby/objects/"+f.broken.String()+"/press")
	rr := f.do(t, http.MethodPost, "/worlds/lobby/tick")
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Contains(t, rr.Body.String(), "unknown command")
}

func TestListWorldsAndMetrics(t *testing.T) {
	f := newFixture(t)

	rr := f.do(t, http.MethodGet, "/worlds/")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `["lobby"]`, rr.Body.String())

	f.do(t, http.MethodPost, "/worlds/lobby/objects/1/press")
	f.do(t, http.MethodPost, "/worlds/lobby/tick")

	rr = f.do(t, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "onclick_slot_invocations_total")
}

func TestSubscribeEvents(t *testing.T) {
	f := newFixture(t)
	srv := httptest.NewServer(f.handler)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := bufio.NewScanner(resp.Body)
	require.True(t, lines.Scan())
	assert.Equal(t, "event: ping", lines.Text())

	f.do(t, http.MethodPost, "/worlds/lobby/objects/1/press")
	f.do(t, http.MethodPost, "/worlds/lobby/tick")

	for lines.Scan() {
		if strings.Contains(lines.Text(), `"type":"dispatch_end"`) {
			return
		}
	}
	t.Fatal("dispatch_end event not received")
}
