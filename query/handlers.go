package query

import (
	"context"

	"github.com/goliatone/go-disputes/core"
)

type StatusReader interface {
	Status(ctx context.Context) (core.StatusReport, error)
}

type StatusQuery struct {
	reader StatusReader
}

func NewStatusQuery(reader StatusReader) *StatusQuery {
	return &StatusQuery{reader: reader}
}

func (q *StatusQuery) Query(ctx context.Context, _ StatusMessage) (core.StatusReport, error) {
	if q == nil || q.reader == nil {
		return core.StatusReport{}, queryDependencyError("query: status reader is required")
	}
	return q.reader.Status(ctx)
}
