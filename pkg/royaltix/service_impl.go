package royaltix

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/sethvargo/go-retry"
)

// service implements the Service interface
type service struct {
	store     Store
	images    ImageGenerator
	texts     TextGenerator
	registrar Registrar
	logger    *slog.Logger

	persistAttempts uint64
	persistBackoff  time.Duration
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithStore sets the record store for the service
func WithStore(store Store) Option {
	return func(s *service) {
		s.store = store
	}
}

// WithImageGenerator sets the image generation provider
func WithImageGenerator(g ImageGenerator) Option {
	return func(s *service) {
		s.images = g
	}
}

// WithTextGenerator sets the text generation provider
func WithTextGenerator(g TextGenerator) Option {
	return func(s *service) {
		s.texts = g
	}
}

// WithRegistrar sets the IP registration provider
func WithRegistrar(r Registrar) Option {
	return func(s *service) {
		s.registrar = r
	}
}

// WithLogger sets the logger used for operational events
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		s.logger = logger
	}
}

// WithPersistRetry overrides the retry policy applied when persisting a
// record after a successful registration.
func WithPersistRetry(attempts uint64, backoff time.Duration) Option {
	return func(s *service) {
		s.persistAttempts = attempts
		s.persistBackoff = backoff
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{
		persistAttempts: 3,
		persistBackoff:  100 * time.Millisecond,
	}

	for _, option := range options {
		option(s)
	}

	if s.store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s, nil
}

// CreateAsset runs the creation pipeline. Step order matters: configuration
// is checked before any external call, registration comes before persistence
// because it produces the record identifiers, and persistence failures do
// not roll back the completed registration.
func (s *service) CreateAsset(ctx context.Context, req CreateAssetRequest) (*CreateAssetResult, error) {
	if err := s.preflight(req); err != nil {
		return nil, err
	}
	if err := ValidateInputs(req.Licensing, req.Collaborators); err != nil {
		return nil, err
	}

	gen, err := s.generate(ctx, req)
	if err != nil {
		return nil, err
	}

	result := &CreateAssetResult{
		Content:     gen.content,
		ImageBase64: gen.imageBase64,
	}

	metadata := buildMetadata(req, gen, time.Now().UTC())

	registration, err := s.registrar.Register(ctx, RegisterAssetRequest{
		Name:        metadata.Name,
		Description: metadata.Description,
		ContentType: req.ContentType,
		ImageBase64: gen.imageBase64,
		Text:        gen.content,
	})
	if err != nil {
		// The generated content still goes back to the caller so a retry
		// does not have to pay for generation again.
		return result, err
	}

	record := &ContentRecord{
		ContentID:        ulid.Make().String(),
		IPID:             registration.IPID,
		TxHash:           registration.TxHash,
		LicenseID:        registration.LicenseID,
		Metadata:         metadata,
		GeneratedContent: gen.content,
		Status:           AssetStatusAvailable,
		Storage:          registration.Storage,
	}

	result.ContentID = record.ContentID
	result.IPID = record.IPID
	result.TxHash = record.TxHash
	result.LicenseID = record.LicenseID
	result.Storage = record.Storage

	if err := s.persist(ctx, record); err != nil {
		// Registered on-chain but not visible locally; surface the ids so
		// the registration is not silently lost.
		s.logger.Error("record persistence failed after registration",
			"content_id", record.ContentID, "ip_id", record.IPID, "err", err)
		return result, err
	}

	result.Record = record
	return result, nil
}

// preflight fails fast on missing provider configuration, before any
// external call is made.
func (s *service) preflight(req CreateAssetRequest) error {
	if s.registrar == nil {
		return &ConfigError{
			Key:  "registration provider",
			Hint: "set ROYALTIX_STORY_PRIVATE_KEY and ROYALTIX_STORY_NFT_CONTRACT",
		}
	}
	if req.Mode == ModeGenerate {
		switch req.ContentType {
		case ContentTypeImage:
			if s.images == nil {
				return &ConfigError{
					Key:  "image generator",
					Hint: "set ROYALTIX_HF_TOKEN",
				}
			}
		case ContentTypeText:
			if s.texts == nil {
				return &ConfigError{
					Key:  "text generator",
					Hint: "set ROYALTIX_GROQ_API_KEY",
				}
			}
		}
	}
	return nil
}

// generate produces content per mode and type. Generation calls are
// single-attempt; upload mode only validates presence of the payload.
func (s *service) generate(ctx context.Context, req CreateAssetRequest) (generation, error) {
	switch req.Mode {
	case ModeGenerate:
		switch req.ContentType {
		case ContentTypeImage:
			imageBase64, err := s.images.GenerateImage(ctx, req.Prompt)
			if err != nil {
				return generation{}, err
			}
			return generation{
				content:            fmt.Sprintf("AI-generated image: %q", req.Prompt),
				imageBase64:        imageBase64,
				titleSource:        req.Prompt,
				defaultDescription: "AI-generated image: " + req.Prompt,
			}, nil
		case ContentTypeText:
			text, err := s.texts.GenerateText(ctx, req.TextPrompt)
			if err != nil {
				return generation{}, err
			}
			return generation{
				content:            text,
				titleSource:        req.TextPrompt,
				defaultDescription: "AI-generated text: " + req.TextPrompt,
			}, nil
		}
	case ModeUpload:
		switch req.ContentType {
		case ContentTypeImage:
			if req.UploadedFile == "" {
				return generation{}, fmt.Errorf("%w: select an image file to upload", ErrMissingContent)
			}
			return generation{
				content:            "Uploaded image: " + req.FileName,
				imageBase64:        req.UploadedFile,
				titleSource:        stripExtension(req.FileName),
				defaultDescription: "Uploaded image: " + req.FileName,
			}, nil
		case ContentTypeText:
			if req.TextContent == "" {
				return generation{}, fmt.Errorf("%w: provide text content to register", ErrMissingContent)
			}
			return generation{
				content:            req.TextContent,
				titleSource:        req.TextContent,
				defaultDescription: "User-provided text content",
			}, nil
		}
	}
	return generation{}, fmt.Errorf("%w: unknown mode %q / content type %q", ErrInvalidInput, req.Mode, req.ContentType)
}

// persist appends the record, retrying with capped exponential backoff.
// Append is idempotent by content id, so a retry after a half-observed
// failure cannot duplicate the row.
func (s *service) persist(ctx context.Context, record *ContentRecord) error {
	backoff := retry.WithMaxRetries(s.persistAttempts, retry.NewExponential(s.persistBackoff))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := s.store.Append(ctx, record); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
}

func (s *service) ListAssets(ctx context.Context) ([]*ContentRecord, error) {
	return s.store.List(ctx)
}

func (s *service) GetAsset(ctx context.Context, id string) (*ContentRecord, error) {
	return s.store.GetByID(ctx, id)
}

func (s *service) DownloadAsset(ctx context.Context, id string) (*Download, error) {
	record, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if record.Metadata.ContentType == ContentTypeImage && record.Metadata.ImageBase64 != "" {
		data, err := base64.StdEncoding.DecodeString(record.Metadata.ImageBase64)
		if err != nil {
			return nil, fmt.Errorf("decode stored image for %s: %w", id, err)
		}
		return &Download{
			FileName:    record.Metadata.Name + ".png",
			ContentType: "image/png",
			Data:        data,
		}, nil
	}

	return &Download{
		FileName:    record.Metadata.Name + ".txt",
		ContentType: "text/plain",
		Data:        []byte(record.GeneratedContent),
	}, nil
}

// Purchase is a mock: it verifies the asset exists and acknowledges. No
// payment is processed.
func (s *service) Purchase(ctx context.Context, req PurchaseRequest) (*PurchaseResult, error) {
	record, err := s.store.GetByID(ctx, req.ContentID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("mock purchase",
		"content_id", record.ContentID, "license_type", req.LicenseType, "price", req.Price)

	return &PurchaseResult{
		OrderID:     uuid.New().String(),
		ContentID:   record.ContentID,
		LicenseType: req.LicenseType,
		DownloadURL: "/api/download/" + record.ContentID,
	}, nil
}

func (s *service) Wipe(ctx context.Context) error {
	return s.store.Wipe(ctx)
}
