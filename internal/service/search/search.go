package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/elastic/go-elasticsearch/v8"

	"family_album/internal/models"
)

// MediaDoc is the search projection of a media item kept in the index.
type MediaDoc struct {
	ID           string `json:"id"`
	OriginalName string `json:"original_name"`
	Type         string `json:"type"`
	MimeType     string `json:"mime_type"`
	UploaderName string `json:"uploader_name"`
	CreatedAt    string `json:"created_at"`
}

func DocFromMedia(media *models.Media, uploaderName string) MediaDoc {
	return MediaDoc{
		ID:           media.ID,
		OriginalName: media.OriginalName,
		Type:         media.Type,
		MimeType:     media.MimeType,
		UploaderName: uploaderName,
		CreatedAt:    media.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func Index(ctx context.Context, es *elasticsearch.Client, index string, doc MediaDoc) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("search: marshal failed: %w", err)
	}

	res, err := es.Index(
		index,
		bytes.NewReader(data),
		es.Index.WithDocumentID(doc.ID),
		es.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("search: index failed: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("search: index failed: %s", res.Status())
	}
	return nil
}

func Delete(ctx context.Context, es *elasticsearch.Client, index, id string) error {
	res, err := es.Delete(index, id, es.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("search: delete failed: %w", err)
	}
	defer res.Body.Close()
	// 404 is fine: the document may never have been indexed.
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("search: delete failed: %s", res.Status())
	}
	return nil
}

func Search(ctx context.Context, es *elasticsearch.Client, index, query string, from, size int) (int64, []MediaDoc, error) {
	body := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     query,
				"fields":    []string{"original_name^2", "uploader_name"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("search: encode failed: %w", err)
	}

	res, err := es.Search(
		es.Search.WithContext(ctx),
		es.Search.WithIndex(index),
		es.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: query failed: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		msg, _ := io.ReadAll(res.Body)
		return 0, nil, fmt.Errorf("search: query failed: %s %s", res.Status(), msg)
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source MediaDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, err
	}

	docs := make([]MediaDoc, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		docs[i] = hit.Source
	}
	return r.Hits.Total.Value, docs, nil
}
