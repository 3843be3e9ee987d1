package storage

import "autotube/internal/ports"

// Provider is the storage contract used by the API, the job service and the renderer.
// It is an alias to ports.StorageProvider to keep call-sites simple.
type Provider = ports.StorageProvider
