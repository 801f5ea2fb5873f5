package royaltix

// Request/Response DTOs

// CreateAssetRequest contains parameters for creating and registering an asset.
//
// Prompt drives image generation, TextPrompt drives text generation.
// UploadedFile (base64) and TextContent carry user-supplied content in
// upload mode.
type CreateAssetRequest struct {
	Mode        CreationMode
	ContentType ContentType

	Prompt     string
	TextPrompt string

	UploadedFile string
	FileName     string
	TextContent  string

	Title         string
	Description   string
	Licensing     Licensing
	Collaborators []Collaborator
}

// CreateAssetResult is the outcome of a creation request. A non-nil result
// may accompany an error so callers can surface already-generated content
// even when registration or persistence failed.
type CreateAssetResult struct {
	ContentID   string
	IPID        string
	TxHash      string
	LicenseID   string
	Content     string
	ImageBase64 string
	Storage     StorageInfo
	Record      *ContentRecord
}

// PurchaseRequest contains parameters for a mock license purchase.
type PurchaseRequest struct {
	ContentID   string
	LicenseType string
	Price       float64
}

// PurchaseResult is the acknowledgment for a mock purchase. No payment is
// processed.
type PurchaseResult struct {
	OrderID     string
	ContentID   string
	LicenseType string
	DownloadURL string
}
