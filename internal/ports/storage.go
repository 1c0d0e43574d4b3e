package ports

import "context"

// StoragePort fetches objects from a remote bucket. Remote paths always use
// forward slashes. Implementations do not retry.
type StoragePort interface {
	Fetch(ctx context.Context, bucket string, remote string, local string) error
}
