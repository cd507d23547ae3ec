package service

import (
	"context"

	"webhook-inbox-go/internal/model"
	"webhook-inbox-go/internal/repository"
)

const (
	DefaultLimit = 50
	MinLimit     = 1
	MaxLimit     = 100
)

// MessageReader serves listing and statistics queries
type MessageReader interface {
	List(ctx context.Context, filter repository.ListFilter, limit, offset int) ([]model.Message, int64, error)
	Stats(ctx context.Context) (*model.Stats, error)
}

// ListParams are the caller's paging and filter options. Nil Limit and
// Offset take the defaults; empty filters do not constrain.
type ListParams struct {
	Limit  *int
	Offset *int
	From   string
	Since  string
	Query  string
}

// ListResult is one page of messages plus the total number of matches
type ListResult struct {
	Data   []model.Message
	Total  int64
	Limit  int
	Offset int
}

// Querier reads stored messages
type Querier interface {
	List(ctx context.Context, params ListParams) (*ListResult, error)
	Stats(ctx context.Context) (*model.Stats, error)
}

// QueryService clamps paging and delegates to the store
type QueryService struct {
	store MessageReader
}

func NewQueryService(store MessageReader) *QueryService {
	return &QueryService{store: store}
}

// List returns the requested page. Limit is clamped to [1,100], offset to >= 0.
func (s *QueryService) List(ctx context.Context, params ListParams) (*ListResult, error) {
	limit := DefaultLimit
	if params.Limit != nil {
		limit = clamp(*params.Limit, MinLimit, MaxLimit)
	}
	offset := 0
	if params.Offset != nil && *params.Offset > 0 {
		offset = *params.Offset
	}

	filter := repository.ListFilter{
		From:  params.From,
		Since: params.Since,
		Query: params.Query,
	}
	rows, total, err := s.store.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, err
	}

	return &ListResult{Data: rows, Total: total, Limit: limit, Offset: offset}, nil
}

func (s *QueryService) Stats(ctx context.Context) (*model.Stats, error) {
	return s.store.Stats(ctx)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
