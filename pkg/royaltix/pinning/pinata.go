// Package pinning provides a Pinata-style content pinning client
// implementing royaltix.Pinner.
//
// Pinning is deliberately non-fatal: a creation request must never block on
// a storage outage. When the service is unreachable or unconfigured the
// client synthesizes a placeholder identifier and flags the result as
// degraded so readers can tell the reference will not resolve.
package pinning

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/royaltix/royaltix-ai/pkg/royaltix"
)

const defaultBaseURL = "https://api.pinata.cloud"

// Client pins payloads to a Pinata-compatible service.
type Client struct {
	jwt        string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Config options for the pinning client
type Config struct {
	JWT        string // Bearer token; empty leaves the client in degraded mode
	BaseURL    string // Defaults to the Pinata API
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// New creates a new pinning client. A client without a JWT is valid and
// degrades every pin.
func New(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	if config.HTTPClient == nil {
		config.HTTPClient = http.DefaultClient
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	return &Client{
		jwt:        config.JWT,
		baseURL:    config.BaseURL,
		httpClient: config.HTTPClient,
		logger:     config.Logger,
	}
}

type pinResponse struct {
	IpfsHash string `json:"IpfsHash"`
}

// PinJSON pins a JSON document and returns its content identifier.
func (c *Client) PinJSON(ctx context.Context, doc any) royaltix.PinResult {
	if c.jwt == "" {
		return c.degrade("QmMock", "pinning not configured")
	}

	payload, err := json.Marshal(map[string]any{"pinataContent": doc})
	if err != nil {
		return c.degrade("QmMock", fmt.Sprintf("encode document: %v", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/pinning/pinJSONToIPFS", bytes.NewReader(payload))
	if err != nil {
		return c.degrade("QmMock", err.Error())
	}
	req.Header.Set("Authorization", "Bearer "+c.jwt)
	req.Header.Set("Content-Type", "application/json")

	return c.send(req, "QmMock")
}

// PinFile pins raw bytes under the given file name.
func (c *Client) PinFile(ctx context.Context, data []byte, name string) royaltix.PinResult {
	if c.jwt == "" {
		return c.degrade("QmMockImg", "pinning not configured")
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", name)
	if err != nil {
		return c.degrade("QmMockImg", err.Error())
	}
	if _, err := part.Write(data); err != nil {
		return c.degrade("QmMockImg", err.Error())
	}
	if err := writer.Close(); err != nil {
		return c.degrade("QmMockImg", err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/pinning/pinFileToIPFS", &body)
	if err != nil {
		return c.degrade("QmMockImg", err.Error())
	}
	req.Header.Set("Authorization", "Bearer "+c.jwt)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return c.send(req, "QmMockImg")
}

func (c *Client) send(req *http.Request, mockPrefix string) royaltix.PinResult {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.degrade(mockPrefix, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return c.degrade(mockPrefix, fmt.Sprintf("unexpected status %s: %s", resp.Status, detail))
	}

	var parsed pinResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return c.degrade(mockPrefix, fmt.Sprintf("decode response: %v", err))
	}
	if parsed.IpfsHash == "" {
		return c.degrade(mockPrefix, "response carried no content identifier")
	}

	return royaltix.PinResult{CID: parsed.IpfsHash}
}

func (c *Client) degrade(prefix, reason string) royaltix.PinResult {
	cid := mockCID(prefix)
	c.logger.Warn("pinning degraded to placeholder identifier", "cid", cid, "reason", reason)
	return royaltix.PinResult{CID: cid, Degraded: true, Reason: reason}
}

// mockCID synthesizes a placeholder identifier in the shape the UI already
// renders, e.g. QmMock1700000000000x4f2a1.
func mockCID(prefix string) string {
	return prefix + strconv.FormatInt(time.Now().UnixMilli(), 10) + strconv.FormatInt(rand.Int63n(1<<30), 36)
}
