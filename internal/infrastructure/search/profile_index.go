// Package search keeps a secondary Elasticsearch index of profiles.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/devconnector-api/internal/domain/entity"
	"github.com/oksasatya/devconnector-api/internal/domain/repository"
)

const requestTimeout = 3 * time.Second

// ProfileIndex implements repository.ProfileSearch on one ES index.
type ProfileIndex struct {
	es    *elasticsearch.Client
	index string
}

func NewProfileIndex(es *elasticsearch.Client, index string) *ProfileIndex {
	return &ProfileIndex{es: es, index: index}
}

// EnsureIndex creates the index with its mapping when it does not exist.
func (p *ProfileIndex) EnsureIndex(ctx context.Context) error {
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := p.es.Indices.Exists([]string{p.index}, p.es.Indices.Exists.WithContext(c))
	if err != nil {
		return err
	}
	_ = res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}
	mapping := `{"mappings":{"properties":{
		"user_id":{"type":"keyword"},
		"name":{"type":"text"},
		"avatar":{"type":"keyword","index":false},
		"status":{"type":"text"},
		"company":{"type":"text"},
		"location":{"type":"text"},
		"skills":{"type":"text","fields":{"raw":{"type":"keyword"}}}
	}}}`
	res, err = p.es.Indices.Create(p.index,
		p.es.Indices.Create.WithContext(c),
		p.es.Indices.Create.WithBody(strings.NewReader(mapping)))
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es create index %s: %s", p.index, res.Status())
	}
	return nil
}

func (p *ProfileIndex) Index(ctx context.Context, doc entity.ProfileSummary) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: p.index, DocumentID: doc.UserID, Body: bytes.NewReader(b), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, p.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es index %s: %s", doc.UserID, res.Status())
	}
	return nil
}

// Remove deletes the user's document. A missing document is not an error.
func (p *ProfileIndex) Remove(ctx context.Context, userID string) error {
	req := esapi.DeleteRequest{Index: p.index, DocumentID: userID}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, p.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("es delete %s: %s", userID, res.Status())
	}
	return nil
}

// Search runs a multi_match over name, skills, status, company and location.
func (p *ProfileIndex) Search(ctx context.Context, q string, size int) ([]entity.ProfileSummary, error) {
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     q,
				"fields":    []string{"name^2", "skills^2", "status", "company", "location"},
				"fuzziness": "AUTO",
			},
		},
		"size": size,
	}
	b, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := p.es.Search(p.es.Search.WithContext(c), p.es.Search.WithIndex(p.index), p.es.Search.WithBody(bytes.NewReader(b)))
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = res.Body.Close()
	}()
	if res.IsError() {
		return nil, fmt.Errorf("es search: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string                `json:"_id"`
				Source entity.ProfileSummary `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]entity.ProfileSummary, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		if h.Source.UserID == "" {
			h.Source.UserID = h.ID
		}
		out = append(out, h.Source)
	}
	return out, nil
}

var _ repository.ProfileSearch = (*ProfileIndex)(nil)
