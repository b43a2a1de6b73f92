package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"spacetime-server/internal/event"
	"spacetime-server/internal/shared/errors"
	"spacetime-server/internal/space"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type spaceJournal struct{ nodes []space.Node }

func (j *spaceJournal) Insert(_ context.Context, n space.Node) error {
	j.nodes = append(j.nodes, n)
	return nil
}

func (j *spaceJournal) ListFrom(_ context.Context, from space.ID) ([]space.Node, error) {
	if int(from) >= len(j.nodes) {
		return nil, nil
	}
	return j.nodes[from:], nil
}

type memStore struct{ events []event.Event }

func (m *memStore) Insert(_ context.Context, e event.Event) error {
	m.events = append(m.events, e)
	return nil
}

func (m *memStore) Get(_ context.Context, id uuid.UUID) (event.Event, error) {
	for _, e := range m.events {
		if e.ID == id {
			return e, nil
		}
	}
	return event.Event{}, errors.NotFoundf("event %s not found", id)
}

func (m *memStore) ListInSpaces(_ context.Context, ids []space.ID) ([]event.Event, error) {
	out := []event.Event{}
	for _, e := range m.events {
		for _, id := range ids {
			if e.SpaceID == id {
				out = append(out, e)
			}
		}
	}
	return out, nil
}

func newTestMux(t *testing.T) *http.ServeMux {
	t.Helper()
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	spaces := space.NewService(&spaceJournal{}, nil, "Paradox Space", logger)
	require.NoError(t, spaces.Bootstrap(ctx))
	_, err := spaces.Create(ctx, space.NoParent, space.KindUniverse, "Alpha")
	require.NoError(t, err)
	_, err = spaces.Create(ctx, space.NoParent, space.KindUniverse, "Beta")
	require.NoError(t, err)

	h := NewEventHandler(event.NewService(&memStore{}, spaces, logger))
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/events", h.ListEvents)
	mux.HandleFunc("POST /api/events", h.CreateEvent)
	mux.HandleFunc("/api/events/{id}", h.GetEvent)
	return mux
}

func TestEventHandler_CreateAndList(t *testing.T) {
	mux := newTestMux(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/events",
		strings.NewReader(`{"space_id":1,"title":"Big bang","at":"-13800000000-01-01"}`)))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "-13800000000-01-01T00:00:00Z", created["at"])
	id := created["id"].(string)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/events/"+id, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"title":"Big bang"`)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/events?within=1", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Big bang")

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/events?within=2", nil))
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestEventHandler_Errors(t *testing.T) {
	mux := newTestMux(t)

	cases := []struct {
		method, path, body string
		code               int
	}{
		{http.MethodGet, "/api/events?within=x", "", http.StatusBadRequest},
		{http.MethodGet, "/api/events?within=9", "", http.StatusNotFound},
		{http.MethodGet, "/api/events/not-a-uuid", "", http.StatusBadRequest},
		{http.MethodGet, "/api/events/" + uuid.NewString(), "", http.StatusNotFound},
		{http.MethodPost, "/api/events", `{"space_id":1,"title":"x","at":"soon"}`, http.StatusBadRequest},
		{http.MethodPost, "/api/events", `{"space_id":7,"title":"x","at":"2000-01-01"}`, http.StatusNotFound},
		{http.MethodPost, "/api/events", `[`, http.StatusBadRequest},
		{http.MethodPut, "/api/events", ``, http.StatusMethodNotAllowed},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		var body io.Reader
		if tc.body != "" {
			body = strings.NewReader(tc.body)
		}
		mux.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, body))
		assert.Equal(t, tc.code, rec.Code, "%s %s: %s", tc.method, tc.path, rec.Body.String())
	}
}
