package query

const (
	TypeStatus = "disputes.query.status"
)

// StatusMessage requests the service status report. It carries no
// parameters; the reporting window is always total/today/this-month.
type StatusMessage struct{}

func (StatusMessage) Type() string { return TypeStatus }

func (StatusMessage) Validate() error { return nil }
