package query

import (
	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-disputes/core"
)

var (
	_ gocmd.Querier[StatusMessage, core.StatusReport] = (*StatusQuery)(nil)
)
