package service

import (
	"context"
	"sync"

	"webhook-inbox-go/internal/model"
	"webhook-inbox-go/internal/repository"
)

// fakeStore keeps messages in memory and records the calls it receives
type fakeStore struct {
	mu        sync.Mutex
	messages  map[string]model.Message
	InsertErr error
	ListFunc  func(ctx context.Context, filter repository.ListFilter, limit, offset int) ([]model.Message, int64, error)
	StatsFunc func(ctx context.Context) (*model.Stats, error)

	inserts    int
	lastFilter repository.ListFilter
	lastLimit  int
	lastOffset int
}

func newFakeStore() *fakeStore {
	return &fakeStore{messages: make(map[string]model.Message)}
}

func (f *fakeStore) Insert(ctx context.Context, msg *model.Message) (repository.InsertResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.inserts++
	if f.InsertErr != nil {
		return 0, f.InsertErr
	}
	if _, ok := f.messages[msg.MessageID]; ok {
		return repository.Duplicate, nil
	}
	f.messages[msg.MessageID] = *msg
	return repository.Created, nil
}

func (f *fakeStore) List(ctx context.Context, filter repository.ListFilter, limit, offset int) ([]model.Message, int64, error) {
	f.mu.Lock()
	f.lastFilter, f.lastLimit, f.lastOffset = filter, limit, offset
	f.mu.Unlock()

	if f.ListFunc != nil {
		return f.ListFunc(ctx, filter, limit, offset)
	}
	return []model.Message{}, 0, nil
}

func (f *fakeStore) Stats(ctx context.Context) (*model.Stats, error) {
	if f.StatsFunc != nil {
		return f.StatsFunc(ctx)
	}
	return &model.Stats{TopSenders: []model.SenderCount{}}, nil
}
