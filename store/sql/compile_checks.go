package sqlstore

import "github.com/goliatone/go-disputes/core"

var (
	_ core.RecordStore                = (*RecordStore)(nil)
	_ core.RecordStore                = (*CachedRecordStore)(nil)
	_ core.NotificationDispatchLedger = (*NotificationDispatchStore)(nil)
	_ core.StoreProvider              = (*RepositoryFactory)(nil)
	_ core.RepositoryStoreFactory     = (*RepositoryFactory)(nil)
)
