package market

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/models"
)

const defaultCompLimit = 25

// ElasticCompSource discovers comparable properties from an
// Elasticsearch index keyed by location and property type.
type ElasticCompSource struct {
	client *elasticsearch.Client
	index  string
}

func NewElasticCompSource(client *elasticsearch.Client, index string) *ElasticCompSource {
	return &ElasticCompSource{client: client, index: index}
}

type compHit struct {
	Source models.CompProperty `json:"_source"`
}

type compSearchResponse struct {
	Hits struct {
		Hits []compHit `json:"hits"`
	} `json:"hits"`
}

// FindComps returns up to defaultCompLimit competitors in the same
// location, excluding the property itself.
func (s *ElasticCompSource) FindComps(ctx context.Context, property models.CompProperty) ([]models.CompProperty, error) {
	query := map[string]interface{}{
		"size": defaultCompLimit,
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": []map[string]interface{}{
					{"match": map[string]interface{}{"location": property.Location}},
				},
				"should": []map[string]interface{}{
					{"term": map[string]interface{}{"propertyType": property.PropertyType}},
				},
				"must_not": []map[string]interface{}{
					{"term": map[string]interface{}{"id": property.ID}},
				},
			},
		},
	}

	var body bytes.Buffer
	if err := json.NewEncoder(&body).Encode(query); err != nil {
		return nil, fmt.Errorf("failed to encode comp query: %w", err)
	}

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.index),
		s.client.Search.WithBody(&body),
	)
	if err != nil {
		return nil, fmt.Errorf("comp search failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("comp search error: %s", res.Status())
	}

	var parsed compSearchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode comp search response: %w", err)
	}

	comps := make([]models.CompProperty, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		comps = append(comps, hit.Source)
	}
	return comps, nil
}
