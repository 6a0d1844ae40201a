package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Skotchmaster/content_backend/internal/db/dbtest"
	"github.com/Skotchmaster/content_backend/internal/events"
	"github.com/Skotchmaster/content_backend/internal/hash"
	"github.com/Skotchmaster/content_backend/internal/repo"
	"github.com/Skotchmaster/content_backend/internal/search"
	"github.com/Skotchmaster/content_backend/internal/tokens"
)

var testSecret = []byte("service-test-secret")

type recordedEvent struct {
	Topic string
	Key   string
	Event events.Event
}

type fakePublisher struct {
	mu     sync.Mutex
	events []recordedEvent
	err    error
}

func (f *fakePublisher) PublishEvent(_ context.Context, topic, key string, ev events.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, recordedEvent{Topic: topic, Key: key, Event: ev})
	return nil
}

func (f *fakePublisher) Close() error { return nil }

func (f *fakePublisher) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e.Event.Type)
	}
	return out
}

type fakeImages struct {
	mu      sync.Mutex
	saved   map[string][]byte
	deleted []string
	err     error
}

func newFakeImages() *fakeImages {
	return &fakeImages{saved: map[string][]byte{}}
}

func (f *fakeImages) Save(_ context.Context, key, _ string, data []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.saved[key] = data
	return "http://cdn.test/" + key, nil
}

func (f *fakeImages) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.saved, key)
	f.deleted = append(f.deleted, key)
	return nil
}

type fakeIndex struct {
	docs      map[uint]search.BlogDocument
	hits      []uint
	searchErr error
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{docs: map[uint]search.BlogDocument{}}
}

func (f *fakeIndex) IndexBlog(_ context.Context, doc search.BlogDocument) error {
	f.docs[doc.ID] = doc
	return nil
}

func (f *fakeIndex) DeleteBlog(_ context.Context, id uint) error {
	delete(f.docs, id)
	return nil
}

func (f *fakeIndex) SearchBlogs(_ context.Context, _ string, _, _ int) (int64, []uint, error) {
	if f.searchErr != nil {
		return 0, nil, f.searchErr
	}
	return int64(len(f.hits)), f.hits, nil
}

var errIndexDown = errors.New("index unavailable")

type fixture struct {
	repo   *repo.GormRepo
	auth   *AuthService
	events *fakePublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	codec, err := tokens.NewCodec(testSecret, "HS256", 30*time.Minute)
	require.NoError(t, err)

	r := &repo.GormRepo{DB: dbtest.New(t)}
	pub := &fakePublisher{}
	return &fixture{
		repo:   r,
		events: pub,
		auth: &AuthService{
			Repo:   r,
			Hasher: hash.New(bcrypt.MinCost),
			Codec:  codec,
			Events: pub,
		},
	}
}
