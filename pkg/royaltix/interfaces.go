package royaltix

import "context"

// ImageGenerator produces a base64-encoded image from a text prompt.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// TextGenerator produces a text completion from a prompt.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// RegisterAssetRequest carries everything the registration provider needs to
// mint an ownership record for a piece of content.
type RegisterAssetRequest struct {
	Name        string
	Description string
	ContentType ContentType
	// ImageBase64 is set for image assets; Text for text assets.
	ImageBase64 string
	Text        string
}

// Registrar registers content as an IP asset with an external provider and
// returns the resulting identifiers.
type Registrar interface {
	Register(ctx context.Context, req RegisterAssetRequest) (*Registration, error)
}

// PinResult is the outcome of pinning a payload to content-addressed
// storage. Degraded marks a locally synthesized placeholder identifier
// returned because the pinning service was unreachable or unconfigured.
type PinResult struct {
	CID      string
	Degraded bool
	Reason   string
}

// Pinner uploads payloads to a content-addressed storage service. Pinning
// never fails a request: outages degrade to placeholder identifiers flagged
// on the result.
type Pinner interface {
	PinJSON(ctx context.Context, doc any) PinResult
	PinFile(ctx context.Context, data []byte, name string) PinResult
}

// Store persists the content record collection.
//
// Append must be idempotent by ContentID so that a retried append after a
// half-observed failure cannot duplicate a row. List returns records in
// append order. GetByID returns ErrRecordNotFound on absence. Wipe is a
// no-op when no collection exists yet.
type Store interface {
	Append(ctx context.Context, record *ContentRecord) error
	List(ctx context.Context) ([]*ContentRecord, error)
	GetByID(ctx context.Context, id string) (*ContentRecord, error)
	Wipe(ctx context.Context) error
}
