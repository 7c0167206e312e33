// Package constants holds configuration values shared across layers.
package constants

// Store drivers accepted by store.driver.
const (
	StoreDriverFirestore = "firestore"
	StoreDriverPostgres  = "postgres"
	StoreDriverMemory    = "memory"
)

// Pub/Sub providers accepted by pubsub.provider.
const (
	PubSubProviderLocal  = "local"
	PubSubProviderGoogle = "google"
)

// DefaultLoginRedirect is where the client is sent after a successful login.
const DefaultLoginRedirect = "/dashboard.html"

// DefaultBcryptCost is the fixed work factor used when none is configured.
const DefaultBcryptCost = 10

// EventTypeUserRegistered tags registration events on the wire.
const EventTypeUserRegistered = "user.registered"
