package royaltix

import "context"

// Service defines the main interface for the royaltix library
type Service interface {
	// CreateAsset runs the full creation pipeline: validate configuration,
	// generate or accept content, register it as an IP asset, persist the
	// record. On generation or registration failure the returned result
	// still carries any content produced so far.
	CreateAsset(ctx context.Context, req CreateAssetRequest) (*CreateAssetResult, error)

	// ListAssets returns the full collection in append order.
	ListAssets(ctx context.Context) ([]*ContentRecord, error)

	// GetAsset returns the record with the given content id, or
	// ErrRecordNotFound.
	GetAsset(ctx context.Context, id string) (*ContentRecord, error)

	// DownloadAsset returns the raw content of a record prepared for
	// attachment delivery.
	DownloadAsset(ctx context.Context, id string) (*Download, error)

	// Purchase validates that the asset exists and returns a mock
	// acknowledgment.
	Purchase(ctx context.Context, req PurchaseRequest) (*PurchaseResult, error)

	// Wipe deletes the entire collection.
	Wipe(ctx context.Context) error
}
