// Package core contains canonical disputes domain contracts, entities, and
// orchestration logic. Adapters (webhook verification, commerce gateways,
// stores, notification sinks, transport) must depend on this package; core
// must not depend on provider-specific or transport-specific adapters.
package core
