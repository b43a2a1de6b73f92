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

	"spacetime-server/internal/shared/errors"
	"spacetime-server/internal/shared/response"
	"spacetime-server/internal/space"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sliceJournal struct {
	nodes []space.Node
}

func (j *sliceJournal) Insert(_ context.Context, n space.Node) error {
	if int(n.ID) != len(j.nodes) {
		return errors.Conflictf("space %d already exists", n.ID)
	}
	j.nodes = append(j.nodes, n)
	return nil
}

func (j *sliceJournal) ListFrom(_ context.Context, from space.ID) ([]space.Node, error) {
	if int(from) >= len(j.nodes) {
		return nil, nil
	}
	return j.nodes[from:], nil
}

func newTestMux(t *testing.T) *http.ServeMux {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := space.NewService(&sliceJournal{}, nil, "Paradox Space", logger)
	require.NoError(t, svc.Bootstrap(context.Background()))

	h := NewSpaceHandler(svc)
	mux := http.NewServeMux()
	mux.HandleFunc("/api/spaces", h.CreateSpace)
	mux.HandleFunc("/api/spaces/kinds", h.GetKinds)
	mux.HandleFunc("/api/spaces/{id}", h.GetSpace)
	mux.HandleFunc("/api/spaces/{id}/children", h.GetChildren)
	mux.HandleFunc("/api/spaces/{id}/ancestors", h.GetAncestors)
	mux.HandleFunc("/api/spaces/{id}/ancestors/{kind}", h.FindAncestor)
	mux.HandleFunc("/api/spaces/{id}/relation/{other}", h.GetRelation)
	return mux
}

func do(t *testing.T, mux http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(method, path, reader))
	return rec
}

func create(t *testing.T, mux http.Handler, body string) space.Node {
	t.Helper()
	rec := do(t, mux, http.MethodPost, "/api/spaces", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var node space.Node
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &node))
	return node
}

func TestSpaceHandler_Flow(t *testing.T) {
	mux := newTestMux(t)

	universe := create(t, mux, `{"kind":"universe","name":"Alpha"}`)
	assert.Equal(t, space.RootID, universe.Parent)
	planet := create(t, mux, `{"kind":"planet","name":"Earth","parent_id":1}`)
	hood := create(t, mux, `{"kind":"neighborhood","name":"Suburbs","parent_id":2}`)
	home := create(t, mux, `{"kind":"home","name":"John's house","parent_id":3}`)
	room := create(t, mux, `{"kind":"room","name":"Bedroom","parent_id":4}`)
	assert.Equal(t, []space.ID{1, 2, 3, 4, 5}, []space.ID{universe.ID, planet.ID, hood.ID, home.ID, room.ID})

	rec := do(t, mux, http.MethodGet, "/api/spaces/5", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":5,"parent_id":4,"kind":"room","name":"Bedroom"}`, rec.Body.String())

	rec = do(t, mux, http.MethodGet, "/api/spaces/5/ancestors", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var chain []space.Node
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &chain))
	require.Len(t, chain, 6)
	assert.Equal(t, space.RootID, chain[5].ID)

	rec = do(t, mux, http.MethodGet, "/api/spaces/5/ancestors/building", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"John's house"`)

	rec = do(t, mux, http.MethodGet, "/api/spaces/5/ancestors/hive", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, mux, http.MethodGet, "/api/spaces/5/relation/1", "")
	assert.JSONEq(t, `{"space_id":5,"other_id":1,"subspace":true,"superspace":false}`, rec.Body.String())

	rec = do(t, mux, http.MethodGet, "/api/spaces/3/children", "")
	assert.JSONEq(t, `[{"id":4,"parent_id":3,"kind":"home","name":"John's house"}]`, rec.Body.String())

	rec = do(t, mux, http.MethodGet, "/api/spaces/5/children", "")
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestSpaceHandler_CreateErrors(t *testing.T) {
	mux := newTestMux(t)

	cases := []struct {
		name string
		body string
		code int
	}{
		{"room outside building", `{"kind":"room","name":"Field"}`, http.StatusBadRequest},
		{"unknown kind", `{"kind":"galaxy","name":"Milky Way"}`, http.StatusBadRequest},
		{"missing kind", `{"name":"Nothing"}`, http.StatusBadRequest},
		{"blank name", `{"kind":"universe","name":" "}`, http.StatusBadRequest},
		{"unknown parent", `{"kind":"universe","name":"Lost","parent_id":40}`, http.StatusNotFound},
		{"bad json", `{`, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, mux, http.MethodPost, "/api/spaces", tc.body)
			assert.Equal(t, tc.code, rec.Code, rec.Body.String())

			var body response.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tc.code, body.Code)
		})
	}

	rec := do(t, mux, http.MethodPost, "/api/spaces", `{"kind":"room","name":"Field"}`)
	assert.Contains(t, rec.Body.String(), "a room must be inside a building")
}

func TestSpaceHandler_BadRequests(t *testing.T) {
	mux := newTestMux(t)

	assert.Equal(t, http.StatusBadRequest, do(t, mux, http.MethodGet, "/api/spaces/abc", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, mux, http.MethodGet, "/api/spaces/-1", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, mux, http.MethodGet, "/api/spaces/99", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, mux, http.MethodGet, "/api/spaces/0/ancestors/galaxy", "").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(t, mux, http.MethodDelete, "/api/spaces/0", "").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(t, mux, http.MethodGet, "/api/spaces", "").Code)
}

func TestSpaceHandler_Kinds(t *testing.T) {
	mux := newTestMux(t)

	rec := do(t, mux, http.MethodGet, "/api/spaces/kinds", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `{"kind":"room","base":"space","requires":"building"}`)
}
