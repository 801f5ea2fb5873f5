// Package registry implements the IP registration adapter against a Story
// Protocol gateway.
//
// Registration is asymmetric on purpose: content and metadata pinning
// degrade to placeholder identifiers (the demo must never block on a
// storage outage), while the registration call itself is the value-bearing
// operation and fails loudly with no fallback.
package registry

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/royaltix/royaltix-ai/pkg/royaltix"
)

const defaultIPFSGateway = "https://ipfs.io/ipfs/"

// Client registers assets through a Story Protocol gateway.
type Client struct {
	gatewayURL   string
	privateKey   string
	nftContract  string
	revenueShare int
	ipfsGateway  string
	pinner       royaltix.Pinner
	httpClient   *http.Client
	logger       *slog.Logger
}

// Config options for the registration client
type Config struct {
	GatewayURL  string // Story gateway base URL (required)
	PrivateKey  string // Wallet key the gateway signs with (required)
	NFTContract string // SPG NFT contract address (required)
	// RevenueSharePercent is the commercial revenue share attached to the
	// minted license terms. The minting fee is always zero.
	RevenueSharePercent int
	IPFSGateway         string // Defaults to the public ipfs.io gateway
	Pinner              royaltix.Pinner
	HTTPClient          *http.Client
	Logger              *slog.Logger
}

// New creates a new registration client
func New(config Config) (*Client, error) {
	if config.GatewayURL == "" {
		return nil, errors.New("gateway url is required")
	}
	if config.PrivateKey == "" {
		return nil, errors.New("private key is required")
	}
	if config.NFTContract == "" {
		return nil, errors.New("nft contract address is required")
	}
	if config.Pinner == nil {
		return nil, errors.New("pinner is required")
	}
	if config.RevenueSharePercent < 0 || config.RevenueSharePercent > 100 {
		return nil, fmt.Errorf("revenue share must be between 0 and 100, got %d", config.RevenueSharePercent)
	}
	if config.IPFSGateway == "" {
		config.IPFSGateway = defaultIPFSGateway
	}
	if config.HTTPClient == nil {
		config.HTTPClient = http.DefaultClient
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	return &Client{
		gatewayURL:   strings.TrimRight(config.GatewayURL, "/"),
		privateKey:   config.PrivateKey,
		nftContract:  config.NFTContract,
		revenueShare: config.RevenueSharePercent,
		ipfsGateway:  config.IPFSGateway,
		pinner:       config.Pinner,
		httpClient:   config.HTTPClient,
		logger:       config.Logger,
	}, nil
}

// ipMetadataDoc follows the Story Protocol IP metadata standard.
type ipMetadataDoc struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Image       string       `json:"image"`
	ImageHash   string       `json:"imageHash"`
	MediaURL    string       `json:"mediaUrl"`
	MediaHash   string       `json:"mediaHash"`
	MediaType   string       `json:"mediaType"`
	Creators    []creatorDoc `json:"creators"`
}

type creatorDoc struct {
	Name                string `json:"name"`
	Address             string `json:"address"`
	Description         string `json:"description"`
	ContributionPercent int    `json:"contributionPercent"`
}

// nftMetadataDoc follows the ERC-721 metadata standard.
type nftMetadataDoc struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

type licenseTermsSpec struct {
	CommercialRevShare int `json:"commercialRevShare"`
	DefaultMintingFee  int `json:"defaultMintingFee"`
}

type registerRequest struct {
	Account         string           `json:"account"`
	SPGNFTContract  string           `json:"spgNftContract"`
	LicenseTerms    licenseTermsSpec `json:"licenseTerms"`
	IPMetadataURI   string           `json:"ipMetadataURI"`
	IPMetadataHash  string           `json:"ipMetadataHash"`
	NFTMetadataURI  string           `json:"nftMetadataURI"`
	NFTMetadataHash string           `json:"nftMetadataHash"`
}

type registerResponse struct {
	IPID           string   `json:"ipId"`
	TxHash         string   `json:"txHash"`
	TokenID        string   `json:"tokenId"`
	LicenseTermsID []string `json:"licenseTermsIds"`
}

// Register pins the content and its metadata documents, then submits the
// registration. Only the final call can fail; pinning outages are folded
// into the returned Storage info.
func (c *Client) Register(ctx context.Context, req royaltix.RegisterAssetRequest) (*royaltix.Registration, error) {
	var degraded []string

	contentPin := c.pinContent(ctx, req)
	if contentPin.Degraded {
		degraded = append(degraded, "content: "+contentPin.Reason)
	}
	contentURL := c.ipfsGateway + contentPin.CID
	contentHash := hashHex(primaryContent(req))

	ipDoc := ipMetadataDoc{
		Title:       req.Name,
		Description: req.Description,
		Image:       contentURL,
		ImageHash:   contentHash,
		MediaURL:    contentURL,
		MediaHash:   contentHash,
		MediaType:   mediaType(req.ContentType),
		Creators: []creatorDoc{
			{
				Name:                "RoyalTix AI User",
				Address:             "0x0000000000000000000000000000000000000000",
				Description:         "AI-generated content creator",
				ContributionPercent: 100,
			},
		},
	}
	nftDoc := nftMetadataDoc{
		Name:        req.Name,
		Description: req.Description,
		Image:       contentURL,
	}

	ipPin := c.pinner.PinJSON(ctx, ipDoc)
	if ipPin.Degraded {
		degraded = append(degraded, "ip metadata: "+ipPin.Reason)
	}
	nftPin := c.pinner.PinJSON(ctx, nftDoc)
	if nftPin.Degraded {
		degraded = append(degraded, "nft metadata: "+nftPin.Reason)
	}

	ipHash, err := docHash(ipDoc)
	if err != nil {
		return nil, &royaltix.RegistrationError{Stage: "metadata", Err: err}
	}
	nftHash, err := docHash(nftDoc)
	if err != nil {
		return nil, &royaltix.RegistrationError{Stage: "metadata", Err: err}
	}

	resp, err := c.submit(ctx, registerRequest{
		Account:         c.privateKey,
		SPGNFTContract:  c.nftContract,
		LicenseTerms:    licenseTermsSpec{CommercialRevShare: c.revenueShare, DefaultMintingFee: 0},
		IPMetadataURI:   c.ipfsGateway + ipPin.CID,
		IPMetadataHash:  "0x" + ipHash,
		NFTMetadataURI:  c.ipfsGateway + nftPin.CID,
		NFTMetadataHash: "0x" + nftHash,
	})
	if err != nil {
		return nil, err
	}

	licenseID := "auto-attached"
	if len(resp.LicenseTermsID) > 0 {
		licenseID = resp.LicenseTermsID[0]
	}

	storage := royaltix.StorageInfo{State: royaltix.StorageStored}
	if len(degraded) > 0 {
		storage = royaltix.StorageInfo{
			State:  royaltix.StorageDegraded,
			Reason: strings.Join(degraded, "; "),
		}
	}

	c.logger.Info("ip asset registered",
		"ip_id", resp.IPID, "tx_hash", resp.TxHash, "license_id", licenseID, "storage", storage.State)

	return &royaltix.Registration{
		IPID:      resp.IPID,
		TxHash:    resp.TxHash,
		LicenseID: licenseID,
		Storage:   storage,
	}, nil
}

func (c *Client) pinContent(ctx context.Context, req royaltix.RegisterAssetRequest) royaltix.PinResult {
	if req.ContentType == royaltix.ContentTypeImage {
		data, err := base64.StdEncoding.DecodeString(req.ImageBase64)
		if err != nil {
			// Pin the raw payload rather than dropping the asset content.
			data = []byte(req.ImageBase64)
		}
		return c.pinner.PinFile(ctx, data, "content.png")
	}
	return c.pinner.PinFile(ctx, []byte(req.Text), "content.txt")
}

func (c *Client) submit(ctx context.Context, payload registerRequest) (*registerResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &royaltix.RegistrationError{Stage: "register", Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.gatewayURL+"/ip-assets", bytes.NewReader(body))
	if err != nil {
		return nil, &royaltix.RegistrationError{Stage: "register", Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &royaltix.RegistrationError{Stage: "register", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &royaltix.RegistrationError{
			Stage: "register",
			Err:   fmt.Errorf("gateway returned %s: %s", resp.Status, strings.TrimSpace(string(detail))),
		}
	}

	var parsed registerResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, &royaltix.RegistrationError{Stage: "register", Err: err}
	}
	if parsed.IPID == "" || parsed.TxHash == "" {
		return nil, &royaltix.RegistrationError{
			Stage: "register",
			Err:   errors.New("gateway response missing ipId or txHash"),
		}
	}
	return &parsed, nil
}

func primaryContent(req royaltix.RegisterAssetRequest) []byte {
	if req.ContentType == royaltix.ContentTypeImage {
		return []byte(req.ImageBase64)
	}
	return []byte(req.Text)
}

func mediaType(t royaltix.ContentType) string {
	if t == royaltix.ContentTypeImage {
		return "image/png"
	}
	return "text/plain"
}

// docHash produces the deterministic hash of a metadata document used for
// on-chain integrity checks.
func docHash(doc any) (string, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode metadata document: %w", err)
	}
	return hashHex(data), nil
}

func hashHex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
