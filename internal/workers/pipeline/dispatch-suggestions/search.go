// internal/workers/pipeline/dispatch-suggestions/search.go
package dispatchsuggestions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"dining-concierge/internal/models"
)

var ErrSearchQueryFailed = errors.New("SEARCH_QUERY_FAILED")

// Searcher runs a full-text query and returns hits in index order.
type Searcher interface {
	Search(ctx context.Context, term string) ([]models.SearchHit, error)
}

type ElasticsearchSearcher struct {
	client  *elasticsearch.Client
	index   string
	idField string
	size    int
}

func NewElasticsearchSearcher(client *elasticsearch.Client, cfg *Config) *ElasticsearchSearcher {
	return &ElasticsearchSearcher{
		client:  client,
		index:   cfg.Index,
		idField: cfg.IDField,
		size:    cfg.SearchSize,
	}
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source map[string]interface{} `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// Search sends q=<term>. Hits without the id field are dropped.
func (s *ElasticsearchSearcher) Search(ctx context.Context, term string) ([]models.SearchHit, error) {
	opts := []func(*esapi.SearchRequest){
		s.client.Search.WithContext(ctx),
		s.client.Search.WithQuery(term),
		s.client.Search.WithSize(s.size),
	}
	if s.index != "" {
		opts = append(opts, s.client.Search.WithIndex(s.index))
	}

	res, err := s.client.Search(opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchQueryFailed, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("%w: %s", ErrSearchQueryFailed, res.Status())
	}

	var body searchResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrSearchQueryFailed, err)
	}

	hits := make([]models.SearchHit, 0, len(body.Hits.Hits))
	for _, hit := range body.Hits.Hits {
		id, ok := businessID(hit.Source[s.idField])
		if !ok {
			continue
		}
		hits = append(hits, models.SearchHit{BusinessID: id})
	}
	return hits, nil
}

func businessID(v interface{}) (string, bool) {
	switch id := v.(type) {
	case string:
		return id, id != ""
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64), true
	default:
		return "", false
	}
}
