package disputes

import (
	"fmt"

	disputescommand "github.com/goliatone/go-disputes/command"
	disputesquery "github.com/goliatone/go-disputes/query"
)

// CommandQueryService is the surface the facade wraps. *core.Service
// satisfies it.
type CommandQueryService interface {
	disputescommand.WebhookService
	disputesquery.StatusReader
}

type Commands struct {
	ProcessWebhook *disputescommand.ProcessWebhookCommand
}

type Queries struct {
	Status *disputesquery.StatusQuery
}

// Facade bundles the command and query handlers over one service so
// embedding applications wire a single value into their dispatcher.
type Facade struct {
	service  CommandQueryService
	commands Commands
	queries  Queries
}

func NewFacade(service CommandQueryService) (*Facade, error) {
	if service == nil {
		return nil, fmt.Errorf("disputes: command/query service is required")
	}

	facade := &Facade{service: service}
	facade.commands = Commands{
		ProcessWebhook: disputescommand.NewProcessWebhookCommand(service),
	}
	facade.queries = Queries{
		Status: disputesquery.NewStatusQuery(service),
	}

	return facade, nil
}

func (f *Facade) Commands() Commands {
	if f == nil {
		return Commands{}
	}
	return f.commands
}

func (f *Facade) Queries() Queries {
	if f == nil {
		return Queries{}
	}
	return f.queries
}

func (f *Facade) Service() CommandQueryService {
	if f == nil {
		return nil
	}
	return f.service
}
