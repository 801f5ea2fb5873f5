package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/royaltix/royaltix-ai/pkg/royaltix"
)

// AssetHandler handles HTTP requests for IP assets
type AssetHandler struct {
	service royaltix.Service
}

// NewAssetHandler creates a new asset handler
func NewAssetHandler(service royaltix.Service) *AssetHandler {
	return &AssetHandler{service: service}
}

// Routes returns the routes for assets
func (h *AssetHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/assets", h.CreateAsset)
	r.Get("/assets", h.ListAssets)
	r.Get("/assets/{id}", h.GetAsset)
	r.Get("/download/{id}", h.DownloadAsset)
	r.Post("/purchase", h.Purchase)
	r.Post("/admin/wipe", h.WipeStore)

	return r
}

// CreateAssetRequest is the request body for creating and registering an asset
type CreateAssetRequest struct {
	Mode          string                  `json:"mode"`
	ContentType   string                  `json:"contentType"`
	Prompt        string                  `json:"prompt"`
	TextPrompt    string                  `json:"textPrompt"`
	TextContent   string                  `json:"textContent"`
	UploadedFile  string                  `json:"uploadedFile"`
	FileName      string                  `json:"fileName"`
	Title         string                  `json:"title"`
	Description   string                  `json:"description"`
	Licensing     royaltix.Licensing      `json:"licensing"`
	Collaborators []royaltix.Collaborator `json:"collaborators"`
}

// CreateAssetResponse is the response body for a successful creation
type CreateAssetResponse struct {
	Success     bool                 `json:"success"`
	ContentID   string               `json:"contentId"`
	IPID        string               `json:"ipId"`
	TxHash      string               `json:"txHash"`
	LicenseID   string               `json:"licenseId"`
	Content     string               `json:"content"`
	ImageBase64 string               `json:"imageBase64,omitempty"`
	Storage     royaltix.StorageInfo `json:"storage"`
	Message     string               `json:"message"`
}

// ErrorResponse is the error body shared by all endpoints. Content and
// ImageBase64 carry whatever was already produced before the failure, so the
// caller keeps a preview even when registration cannot proceed.
type ErrorResponse struct {
	Success     bool   `json:"success"`
	Error       string `json:"error"`
	Details     string `json:"details,omitempty"`
	Message     string `json:"message,omitempty"`
	Content     string `json:"content,omitempty"`
	ImageBase64 string `json:"imageBase64,omitempty"`
}

// CreateAsset runs the full creation pipeline
func (h *AssetHandler) CreateAsset(w http.ResponseWriter, r *http.Request) {
	var req CreateAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("failed to decode create request", "err", err)
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "invalid request body", Details: err.Error()})
		return
	}

	result, err := h.service.CreateAsset(r.Context(), royaltix.CreateAssetRequest{
		Mode:          normalizeMode(req.Mode),
		ContentType:   royaltix.ContentType(req.ContentType),
		Prompt:        req.Prompt,
		TextPrompt:    req.TextPrompt,
		TextContent:   req.TextContent,
		UploadedFile:  req.UploadedFile,
		FileName:      req.FileName,
		Title:         req.Title,
		Description:   req.Description,
		Licensing:     req.Licensing,
		Collaborators: req.Collaborators,
	})
	if err != nil {
		h.renderCreateError(w, r, result, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, CreateAssetResponse{
		Success:     true,
		ContentID:   result.ContentID,
		IPID:        result.IPID,
		TxHash:      result.TxHash,
		LicenseID:   result.LicenseID,
		Content:     result.Content,
		ImageBase64: result.ImageBase64,
		Storage:     result.Storage,
		Message:     fmt.Sprintf("%s registered as an IP asset", assetNoun(royaltix.ContentType(req.ContentType))),
	})
}

// ListAssetsResponse is the response body for the listing endpoint
type ListAssetsResponse struct {
	Items []*royaltix.ContentRecord `json:"items"`
}

// ListAssets returns the full collection
func (h *AssetHandler) ListAssets(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.ListAssets(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	if records == nil {
		records = []*royaltix.ContentRecord{}
	}
	render.JSON(w, r, ListAssetsResponse{Items: records})
}

// GetAsset returns a single record by content id
func (h *AssetHandler) GetAsset(w http.ResponseWriter, r *http.Request) {
	record, err := h.service.GetAsset(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	render.JSON(w, r, record)
}

// DownloadAsset returns the raw content of a record as an attachment
func (h *AssetHandler) DownloadAsset(w http.ResponseWriter, r *http.Request) {
	download, err := h.service.DownloadAsset(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", download.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", download.FileName))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(download.Data); err != nil {
		slog.Error("failed to write download body", "err", err)
	}
}

// PurchaseRequest is the request body for a mock purchase
type PurchaseRequest struct {
	ContentID   string  `json:"contentId"`
	LicenseType string  `json:"licenseType"`
	Price       float64 `json:"price"`
}

// PurchaseResponse is the acknowledgment for a mock purchase
type PurchaseResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	OrderID     string `json:"orderId"`
	ContentID   string `json:"contentId"`
	LicenseType string `json:"licenseType"`
	DownloadURL string `json:"downloadUrl"`
}

// Purchase validates the asset exists and acknowledges; no payment happens
func (h *AssetHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	var req PurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "invalid request body", Details: err.Error()})
		return
	}

	result, err := h.service.Purchase(r.Context(), royaltix.PurchaseRequest{
		ContentID:   req.ContentID,
		LicenseType: req.LicenseType,
		Price:       req.Price,
	})
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	render.JSON(w, r, PurchaseResponse{
		Success:     true,
		Message:     "Purchase successful",
		OrderID:     result.OrderID,
		ContentID:   result.ContentID,
		LicenseType: result.LicenseType,
		DownloadURL: result.DownloadURL,
	})
}

// WipeStore deletes the entire collection
func (h *AssetHandler) WipeStore(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Wipe(r.Context()); err != nil {
		h.renderError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]any{
		"success": true,
		"message": "store cleared",
	})
}

func (h *AssetHandler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	status, label, hint := classify(err)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "error", label, "err", err)
	}
	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: label, Details: err.Error(), Message: hint})
}

// renderCreateError additionally carries any partial content produced before
// the failure.
func (h *AssetHandler) renderCreateError(w http.ResponseWriter, r *http.Request, result *royaltix.CreateAssetResult, err error) {
	status, label, hint := classify(err)
	if status >= http.StatusInternalServerError {
		slog.Error("creation failed", "error", label, "err", err)
	}

	resp := ErrorResponse{Error: label, Details: err.Error(), Message: hint}
	if result != nil {
		resp.Content = result.Content
		resp.ImageBase64 = result.ImageBase64
	}
	render.Status(r, status)
	render.JSON(w, r, resp)
}

// classify maps the service error taxonomy to an HTTP status, a stable error
// label, and a remediation hint.
func classify(err error) (int, string, string) {
	var configErr *royaltix.ConfigError
	var generationErr *royaltix.GenerationError
	var registrationErr *royaltix.RegistrationError
	var storeErr *royaltix.StoreError

	switch {
	case errors.Is(err, royaltix.ErrRecordNotFound):
		return http.StatusNotFound, "content not found", ""
	case errors.Is(err, royaltix.ErrMissingContent):
		return http.StatusBadRequest, "missing content", "Provide the required content payload for the selected mode."
	case errors.Is(err, royaltix.ErrInvalidInput):
		return http.StatusBadRequest, "invalid input", "Check licensing prices and collaborator percentages."
	case errors.As(err, &configErr):
		return http.StatusInternalServerError, "configuration missing", configErr.Hint
	case errors.As(err, &generationErr):
		return http.StatusBadGateway, "generation failed", "Check the generation provider credentials and try again."
	case errors.As(err, &registrationErr):
		return http.StatusBadGateway, "registration failed", "Check the registration gateway setup; the generated content is included for retry."
	case errors.As(err, &storeErr):
		return http.StatusInternalServerError, "persistence failed", "The asset was registered but could not be saved locally."
	default:
		return http.StatusInternalServerError, "internal error", ""
	}
}

// normalizeMode accepts the UI's legacy "ai-generate" alias.
func normalizeMode(mode string) royaltix.CreationMode {
	if mode == "ai-generate" {
		return royaltix.ModeGenerate
	}
	return royaltix.CreationMode(mode)
}

func assetNoun(t royaltix.ContentType) string {
	if t == royaltix.ContentTypeImage {
		return "Image"
	}
	return "Text content"
}
