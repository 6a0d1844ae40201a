package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/elastic/go-elasticsearch/v9/esapi"
)

type BlogDocument struct {
	ID      uint   `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Author  string `json:"author,omitempty"`
}

// Index keeps a full text index of blogs. Search returns matching blog ids
// ordered by relevance.
type Index interface {
	IndexBlog(ctx context.Context, doc BlogDocument) error
	DeleteBlog(ctx context.Context, id uint) error
	SearchBlogs(ctx context.Context, query string, from, size int) (int64, []uint, error)
}

type Options struct {
	URL       string
	User      string
	Password  string
	Index     string
	Transport http.RoundTripper
}

type Elastic struct {
	es    *elasticsearch.Client
	index string
}

const blogMapping = `{
  "mappings": {
    "properties": {
      "id":      {"type": "long"},
      "title":   {"type": "text"},
      "content": {"type": "text"},
      "author":  {"type": "keyword"}
    }
  }
}`

func NewElastic(o Options) (*Elastic, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{o.URL},
		Username:  o.User,
		Password:  o.Password,
		Transport: o.Transport,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}
	return &Elastic{es: client, index: o.Index}, nil
}

func (e *Elastic) EnsureIndex(ctx context.Context) error {
	res, err := e.es.Indices.Exists([]string{e.index}, e.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("index exists: %w", err)
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}

	res, err = e.es.Indices.Create(e.index,
		e.es.Indices.Create.WithContext(ctx),
		e.es.Indices.Create.WithBody(strings.NewReader(blogMapping)),
	)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	return responseError("create index", res)
}

func (e *Elastic) IndexBlog(ctx context.Context, doc BlogDocument) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	res, err := e.es.Index(e.index, bytes.NewReader(body),
		e.es.Index.WithContext(ctx),
		e.es.Index.WithDocumentID(strconv.FormatUint(uint64(doc.ID), 10)),
		e.es.Index.WithRefresh("true"),
	)
	if err != nil {
		return fmt.Errorf("index blog %d: %w", doc.ID, err)
	}
	return responseError("index blog", res)
}

func (e *Elastic) DeleteBlog(ctx context.Context, id uint) error {
	res, err := e.es.Delete(e.index, strconv.FormatUint(uint64(id), 10),
		e.es.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("delete blog %d: %w", id, err)
	}
	if res.StatusCode == http.StatusNotFound {
		res.Body.Close()
		return nil
	}
	return responseError("delete blog", res)
}

func (e *Elastic) SearchBlogs(ctx context.Context, query string, from, size int) (int64, []uint, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"title^2", "content"},
				"fuzziness": "AUTO",
			},
		},
		"from":    from,
		"size":    size,
		"_source": []string{"id"},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, err
	}

	res, err := e.es.Search(
		e.es.Search.WithContext(ctx),
		e.es.Search.WithIndex(e.index),
		e.es.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search blogs: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("search blogs: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source BlogDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("decode search response: %w", err)
	}

	ids := make([]uint, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		ids = append(ids, hit.Source.ID)
	}
	return r.Hits.Total.Value, ids, nil
}

func responseError(op string, res *esapi.Response) error {
	defer res.Body.Close()
	if !res.IsError() {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil
	}
	msg, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
	return fmt.Errorf("%s: %s: %s", op, res.Status(), strings.TrimSpace(string(msg)))
}
