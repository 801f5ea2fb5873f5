package royaltix

import "time"

// ContentType is the kind of content an asset holds.
type ContentType string

// Content type constants (typed).
const (
	ContentTypeImage ContentType = "image"
	ContentTypeText  ContentType = "text"
)

// CreationMode describes how the content of an asset was produced.
type CreationMode string

// Creation mode constants (typed).
const (
	ModeGenerate CreationMode = "generate"
	ModeUpload   CreationMode = "upload"
)

// AssetStatus is the marketplace lifecycle state of a record.
type AssetStatus string

const (
	AssetStatusAvailable AssetStatus = "available"
)

// StorageState reports whether an asset's pinned content resolves to a real
// content-addressed identifier or to a locally synthesized placeholder.
type StorageState string

const (
	// StorageStored means every pin produced a real content identifier.
	StorageStored StorageState = "stored"
	// StorageDegraded means at least one pin fell back to a placeholder
	// identifier; the asset is registered but its content references may
	// not resolve.
	StorageDegraded StorageState = "degraded"
)

// Licensing holds the fixed price tiers attached to an asset. Prices are
// display values; they are not sent to the registration provider.
type Licensing struct {
	Personal   float64 `json:"personal"`
	Commercial float64 `json:"commercial"`
	Exclusive  float64 `json:"exclusive"`
}

// Collaborator is one entry of a royalty split.
type Collaborator struct {
	Address    string  `json:"address"`
	Percentage float64 `json:"percentage"`
}

// AssetMetadata is the descriptive document persisted with each record.
type AssetMetadata struct {
	Name          string         `json:"name"`
	Description   string         `json:"description"`
	ContentType   ContentType    `json:"contentType"`
	Mode          CreationMode   `json:"mode"`
	FullContent   string         `json:"fullContent"`
	ImageBase64   string         `json:"imageBase64,omitempty"`
	Licensing     Licensing      `json:"licensing"`
	Collaborators []Collaborator `json:"collaborators"`
	CreatedAt     time.Time      `json:"createdAt"`
}

// StorageInfo is the persisted pinning outcome for a record.
type StorageInfo struct {
	State  StorageState `json:"state"`
	Reason string       `json:"reason,omitempty"`
}

// ContentRecord is one row of the asset collection. Records are immutable
// once appended; there is no update or delete short of wiping the store.
type ContentRecord struct {
	ContentID        string        `json:"contentId"`
	IPID             string        `json:"ipId"`
	TxHash           string        `json:"txHash"`
	LicenseID        string        `json:"licenseId"`
	Metadata         AssetMetadata `json:"metadata"`
	GeneratedContent string        `json:"generatedContent"`
	Status           AssetStatus   `json:"status"`
	Storage          StorageInfo   `json:"storage"`
}

// Registration is the identifier set returned by a successful on-chain
// registration, plus the aggregated pinning outcome.
type Registration struct {
	IPID      string
	TxHash    string
	LicenseID string
	Storage   StorageInfo
}

// Download is the raw content of a record prepared for attachment delivery.
type Download struct {
	FileName    string
	ContentType string
	Data        []byte
}
