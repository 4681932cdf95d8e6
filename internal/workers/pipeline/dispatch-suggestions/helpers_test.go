package dispatchsuggestions

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	awsclient "dining-concierge/internal/common/aws"
	"dining-concierge/internal/common/aws/awstest"
	"dining-concierge/internal/common/config"
	"dining-concierge/internal/common/logger"
	"dining-concierge/internal/common/observability"
	"dining-concierge/internal/models"
)

const testQueueURL = "https://sqs.us-east-1.amazonaws.com/000000000000/DiningConciergeQueue"

func createTestConfig() *Config {
	return &Config{
		Endpoints: config.PipelineConfig{
			QueueEndpoint:  testQueueURL,
			SearchEndpoint: "http://localhost:9200",
			StoreTableName: "yelp-restaurants",
			NotifyTarget:   "arn:aws:sns:us-east-1:000000000000:suggestions",
		},
		Index:      "restaurants",
		IDField:    "BusinessID",
		SearchSize: MaxSuggestions,
		Subject:    "Restaurant Suggestions",
		TimeZone:   time.UTC,
		Timeout:    5 * time.Second,
	}
}

func createTestLogger(t *testing.T) logger.Logger {
	return logger.NewZapAdapter(zaptest.NewLogger(t))
}

// scenarioAttributes is a complete work item as the enqueuer writes it.
func scenarioAttributes() map[string]string {
	return map[string]string{
		"Location":       "New York",
		"Cuisine":        "italian",
		"DiningDate":     "2030-01-01",
		"DiningTime":     "19:00",
		"NumberOfPeople": "4",
		"Email":          "a@b.com",
	}
}

// ==========================
// Fake Elasticsearch
// ==========================

type fakeSearchIndex struct {
	mu      sync.Mutex
	status  int
	ids     []string
	queries []string
	sizes   []string
}

func (f *fakeSearchIndex) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")

	f.queries = append(f.queries, r.URL.Query().Get("q"))
	f.sizes = append(f.sizes, r.URL.Query().Get("size"))

	if f.status != 0 && f.status != http.StatusOK {
		w.WriteHeader(f.status)
		fmt.Fprint(w, `{"error":{"type":"index_not_found_exception"},"status":404}`)
		return
	}

	hits := make([]map[string]interface{}, 0, len(f.ids))
	for _, id := range f.ids {
		hits = append(hits, map[string]interface{}{
			"_index":  "restaurants",
			"_source": map[string]interface{}{"BusinessID": id, "Cuisine": "italian"},
		})
	}
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"took": 1,
		"hits": map[string]interface{}{
			"total": map[string]interface{}{"value": len(hits)},
			"hits":  hits,
		},
	})
}

func newFakeSearch(t *testing.T, index *fakeSearchIndex) *ElasticsearchSearcher {
	t.Helper()
	srv := httptest.NewServer(index)
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:    []string{srv.URL},
		DisableRetry: true,
	})
	require.NoError(t, err)
	return NewElasticsearchSearcher(client, createTestConfig())
}

// ==========================
// Mock Implementations
// ==========================

type fakeStore struct {
	mu      sync.Mutex
	details map[string]models.RestaurantDetail
	errs    map[string]error
	lookups []string
}

func (f *fakeStore) Lookup(_ context.Context, businessID string) (*models.RestaurantDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups = append(f.lookups, businessID)
	if err, ok := f.errs[businessID]; ok {
		return nil, err
	}
	detail, ok := f.details[businessID]
	if !ok {
		return nil, ErrRestaurantNotFound
	}
	return &detail, nil
}

type MockSNSService struct {
	PublishFunc func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
	mu          sync.Mutex
	published   []*sns.PublishInput
}

func (m *MockSNSService) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	m.mu.Lock()
	m.published = append(m.published, params)
	m.mu.Unlock()
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, params, optFns...)
	}
	return &sns.PublishOutput{}, nil
}

type MockSESService struct {
	SendEmailFunc func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
	mu            sync.Mutex
	sent          []*ses.SendEmailInput
}

func (m *MockSESService) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	m.mu.Lock()
	m.sent = append(m.sent, params)
	m.mu.Unlock()
	if m.SendEmailFunc != nil {
		return m.SendEmailFunc(ctx, params, optFns...)
	}
	return &ses.SendEmailOutput{}, nil
}

// testPipeline wires a Worker to in-memory collaborators.
type testPipeline struct {
	sqs    *awstest.FakeSQS
	index  *fakeSearchIndex
	store  *fakeStore
	sns    *MockSNSService
	worker *Worker
}

func newTestPipeline(t *testing.T) *testPipeline {
	t.Helper()
	cfg := createTestConfig()
	p := &testPipeline{
		sqs:   awstest.NewFakeSQS(testQueueURL),
		index: &fakeSearchIndex{},
		store: &fakeStore{details: map[string]models.RestaurantDetail{}, errs: map[string]error{}},
		sns:   &MockSNSService{},
	}
	queue := awsclient.NewWorkQueue(p.sqs, config.QueueConfig{URL: testQueueURL})
	p.worker = NewWorker(
		cfg,
		queue,
		newFakeSearch(t, p.index),
		p.store,
		NewSNSNotifier(p.sns, cfg.Endpoints.NotifyTarget),
		observability.NewNoop(),
		createTestLogger(t),
	)
	return p
}

func (p *testPipeline) addRestaurant(id, name, address string) {
	p.store.details[id] = models.RestaurantDetail{BusinessID: id, Name: name, Address: address}
}
