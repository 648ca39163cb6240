package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/devconnector-api/internal/domain/entity"
	"github.com/oksasatya/devconnector-api/pkg/helpers"
)

type recorded struct {
	method string
	path   string
	body   string
}

type recorder struct {
	mu    sync.Mutex
	calls []recorded
}

func (r *recorder) all() []recorded {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]recorded(nil), r.calls...)
}

func newFakeES(t *testing.T, handle func(w http.ResponseWriter, r *http.Request)) (*ProfileIndex, *recorder) {
	t.Helper()
	rec := &recorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		rec.mu.Lock()
		rec.calls = append(rec.calls, recorded{method: r.Method, path: r.URL.Path, body: string(b)})
		rec.mu.Unlock()
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handle(w, r)
	}))
	t.Cleanup(srv.Close)

	es, err := helpers.NewESClient([]string{srv.URL}, "", "")
	require.NoError(t, err)
	return NewProfileIndex(es, "profiles"), rec
}

func TestProfileIndex_Index(t *testing.T) {
	idx, calls := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"result":"created"}`)
	})

	err := idx.Index(context.Background(), entity.ProfileSummary{UserID: "u1", Name: "Ann", Skills: []string{"Go"}})
	require.NoError(t, err)
	all := calls.all()
	require.Len(t, all, 1)
	got := all[0]
	assert.Equal(t, http.MethodPut, got.method)
	assert.Equal(t, "/profiles/_doc/u1", got.path)
	assert.Contains(t, got.body, `"skills":["Go"]`)
}

func TestProfileIndex_SearchDecodesHits(t *testing.T) {
	idx, calls := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"hits":{"hits":[
			{"_id":"u1","_source":{"user_id":"u1","name":"Ann","status":"Developer","skills":["Go","Rust"]}},
			{"_id":"u2","_source":{"name":"Bob","skills":[]}}
		]}}`)
	})

	hits, err := idx.Search(context.Background(), "go", 5)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "Ann", hits[0].Name)
	assert.Equal(t, []string{"Go", "Rust"}, hits[0].Skills)
	assert.Equal(t, "u2", hits[1].UserID)

	all := calls.all()
	require.Len(t, all, 1)
	assert.True(t, strings.HasSuffix(all[0].path, "/_search"))
	var q map[string]any
	require.NoError(t, json.Unmarshal([]byte(all[0].body), &q))
	assert.EqualValues(t, 5, q["size"])
}

func TestProfileIndex_RemoveIgnoresMissing(t *testing.T) {
	idx, _ := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"result":"not_found"}`)
	})
	assert.NoError(t, idx.Remove(context.Background(), "u1"))
}

func TestProfileIndex_SearchError(t *testing.T) {
	idx, _ := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error":"boom"}`)
	})
	_, err := idx.Search(context.Background(), "go", 5)
	assert.Error(t, err)
}
