// Package storage provides the Elasticsearch archive for analysis results.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	es "github.com/elastic/go-elasticsearch/v8"

	"github.com/jonesrussell/analyzer/internal/domain"
	"github.com/jonesrussell/analyzer/internal/elasticsearch/mappings"
)

// DefaultArchiveIndex is the index archived results are written to when no
// index is configured.
const DefaultArchiveIndex = "analysis_results"

// ArchivedAnalysis is the document shape stored in the archive index.
type ArchivedAnalysis struct {
	ID               string    `json:"id"`
	ContentType      string    `json:"content_type"`
	CredibilityScore float64   `json:"credibility_score"`
	Analysis         string    `json:"analysis"`
	Flags            []string  `json:"flags"`
	Sources          []string  `json:"sources"`
	Sentiment        string    `json:"sentiment"`
	KeyTerms         []string  `json:"key_terms"`
	Simplified       bool      `json:"simplified"`
	BasicAnalysis    bool      `json:"basic_analysis"`
	ArchivedAt       time.Time `json:"archived_at"`
}

// ElasticsearchArchive stores full analysis results in Elasticsearch for
// later search.
type ElasticsearchArchive struct {
	client *es.Client
	index  string
}

// NewElasticsearchArchive creates a new Elasticsearch archive instance.
func NewElasticsearchArchive(client *es.Client, index string) *ElasticsearchArchive {
	if index == "" {
		index = DefaultArchiveIndex
	}
	return &ElasticsearchArchive{
		client: client,
		index:  index,
	}
}

// EnsureIndex creates the archive index with its mapping if it doesn't
// exist yet.
func (s *ElasticsearchArchive) EnsureIndex(ctx context.Context) error {
	res, err := s.client.Indices.Exists(
		[]string{s.index},
		s.client.Indices.Exists.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to check index existence: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}

	mapping, err := mappings.NewAnalysisResultsMapping().GetJSON()
	if err != nil {
		return fmt.Errorf("failed to build index mapping: %w", err)
	}

	createRes, err := s.client.Indices.Create(
		s.index,
		s.client.Indices.Create.WithContext(ctx),
		s.client.Indices.Create.WithBody(strings.NewReader(mapping)),
	)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	defer createRes.Body.Close()

	if createRes.IsError() {
		return fmt.Errorf("error creating index: %s", createRes.String())
	}

	return nil
}

// ArchiveResult indexes one analysis result under the given document ID.
func (s *ElasticsearchArchive) ArchiveResult(ctx context.Context, id string, result *domain.AnalysisResult) error {
	doc := toArchiveDocument(id, result)

	docBytes, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	res, err := s.client.Index(
		s.index,
		bytes.NewReader(docBytes),
		s.client.Index.WithContext(ctx),
		s.client.Index.WithDocumentID(id),
	)
	if err != nil {
		return fmt.Errorf("failed to index document: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error indexing document: %s", res.String())
	}

	return nil
}

// Search runs a full-text match over archived analysis text, newest first.
func (s *ElasticsearchArchive) Search(ctx context.Context, term string, size int) ([]*ArchivedAnalysis, error) {
	if size <= 0 {
		size = 10
	}

	query := map[string]interface{}{
		"query": map[string]interface{}{
			"match": map[string]interface{}{
				"analysis": term,
			},
		},
		"size": size,
		"sort": []map[string]interface{}{
			{
				"archived_at": map[string]interface{}{
					"order": "desc",
				},
			},
		},
	}

	queryBytes, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query: %w", err)
	}

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.index),
		s.client.Search.WithBody(bytes.NewReader(queryBytes)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("error searching: %s", res.String())
	}

	var searchResult struct {
		Hits struct {
			Hits []struct {
				ID     string           `json:"_id"`
				Source ArchivedAnalysis `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}

	if err := json.NewDecoder(res.Body).Decode(&searchResult); err != nil {
		return nil, fmt.Errorf("error decoding response: %w", err)
	}

	docs := make([]*ArchivedAnalysis, 0, len(searchResult.Hits.Hits))
	for _, hit := range searchResult.Hits.Hits {
		doc := hit.Source
		if doc.ID == "" {
			doc.ID = hit.ID
		}
		docs = append(docs, &doc)
	}

	return docs, nil
}

// TestConnection tests the connection to Elasticsearch.
func (s *ElasticsearchArchive) TestConnection(ctx context.Context) error {
	res, err := s.client.Info(s.client.Info.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to connect to Elasticsearch: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error response from Elasticsearch: %s", res.String())
	}

	return nil
}

func toArchiveDocument(id string, result *domain.AnalysisResult) *ArchivedAnalysis {
	doc := &ArchivedAnalysis{
		ID:               id,
		ContentType:      result.Type,
		CredibilityScore: result.CredibilityScore,
		Analysis:         result.Analysis,
		Flags:            result.Flags.RaisedFlags(),
		Sentiment:        "N/A",
		Sources:          []string{},
		KeyTerms:         []string{},
		Simplified:       result.Simplified,
		BasicAnalysis:    result.BasicAnalysis,
		ArchivedAt:       time.Now().UTC(),
	}
	if result.Sources != nil {
		doc.Sources = result.Sources
	}
	if result.Details != nil {
		doc.Sentiment = result.Details.Sentiment
		if result.Details.KeyTerms != nil {
			doc.KeyTerms = result.Details.KeyTerms
		}
	}
	return doc
}
