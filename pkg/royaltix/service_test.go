package royaltix_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/royaltix/royaltix-ai/pkg/royaltix"
	memorystore "github.com/royaltix/royaltix-ai/pkg/royaltix/store/memory"
)

type stubImages struct {
	calls  int
	result string
	err    error
}

func (s *stubImages) GenerateImage(ctx context.Context, prompt string) (string, error) {
	s.calls++
	return s.result, s.err
}

type stubTexts struct {
	calls  int
	result string
	err    error
}

func (s *stubTexts) GenerateText(ctx context.Context, prompt string) (string, error) {
	s.calls++
	return s.result, s.err
}

type stubRegistrar struct {
	calls        int
	registration *royaltix.Registration
	err          error
}

func (s *stubRegistrar) Register(ctx context.Context, req royaltix.RegisterAssetRequest) (*royaltix.Registration, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.registration, nil
}

// flakyStore fails the first failures appends, then delegates.
type flakyStore struct {
	*memorystore.Store
	failures int
	appends  int
}

func (s *flakyStore) Append(ctx context.Context, record *royaltix.ContentRecord) error {
	s.appends++
	if s.appends <= s.failures {
		return &royaltix.StoreError{Op: "append", Path: "test", Err: errors.New("disk full")}
	}
	return s.Store.Append(ctx, record)
}

func okRegistration() *royaltix.Registration {
	return &royaltix.Registration{
		IPID:      "0xipid",
		TxHash:    "0xtxhash",
		LicenseID: "42",
		Storage:   royaltix.StorageInfo{State: royaltix.StorageStored},
	}
}

func TestServiceCreation(t *testing.T) {
	tests := []struct {
		name        string
		options     []royaltix.Option
		expectError bool
	}{
		{
			name:        "no options should fail",
			options:     []royaltix.Option{},
			expectError: true,
		},
		{
			name: "with store should succeed",
			options: []royaltix.Option{
				royaltix.WithStore(memorystore.New()),
			},
			expectError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := royaltix.New(tt.options...)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, svc)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, svc)
			}
		})
	}
}

func TestCreateAsset_UploadText(t *testing.T) {
	store := memorystore.New()
	registrar := &stubRegistrar{registration: okRegistration()}

	svc, err := royaltix.New(
		royaltix.WithStore(store),
		royaltix.WithRegistrar(registrar),
	)
	require.NoError(t, err)

	result, err := svc.CreateAsset(context.Background(), royaltix.CreateAssetRequest{
		Mode:        royaltix.ModeUpload,
		ContentType: royaltix.ContentTypeText,
		TextContent: "hello",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, result.ContentID)
	assert.Equal(t, "0xipid", result.IPID)
	assert.Equal(t, "0xtxhash", result.TxHash)
	assert.Equal(t, "42", result.LicenseID)
	assert.Equal(t, "hello", result.Content)

	record, err := store.GetByID(context.Background(), result.ContentID)
	require.NoError(t, err)
	assert.Equal(t, "hello", record.GeneratedContent)
	assert.Equal(t, royaltix.AssetStatusAvailable, record.Status)
	assert.Equal(t, royaltix.ModeUpload, record.Metadata.Mode)
	assert.Equal(t, "hello", record.Metadata.Name) // title defaults to content prefix
}

func TestCreateAsset_GenerateImage(t *testing.T) {
	store := memorystore.New()
	images := &stubImages{result: "aGVsbG8="}
	registrar := &stubRegistrar{registration: okRegistration()}

	svc, err := royaltix.New(
		royaltix.WithStore(store),
		royaltix.WithImageGenerator(images),
		royaltix.WithRegistrar(registrar),
	)
	require.NoError(t, err)

	result, err := svc.CreateAsset(context.Background(), royaltix.CreateAssetRequest{
		Mode:        royaltix.ModeGenerate,
		ContentType: royaltix.ContentTypeImage,
		Prompt:      "a castle at dusk",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, images.calls)
	assert.Equal(t, 1, registrar.calls)
	assert.Equal(t, "aGVsbG8=", result.ImageBase64)
	assert.Contains(t, result.Content, "a castle at dusk")

	record, err := store.GetByID(context.Background(), result.ContentID)
	require.NoError(t, err)
	assert.Equal(t, "a castle at dusk", record.Metadata.Name)
	assert.Equal(t, "aGVsbG8=", record.Metadata.ImageBase64)
}

func TestCreateAsset_MissingConfiguration(t *testing.T) {
	tests := []struct {
		name    string
		options []royaltix.Option
		req     royaltix.CreateAssetRequest
	}{
		{
			name:    "no registrar",
			options: nil,
			req: royaltix.CreateAssetRequest{
				Mode:        royaltix.ModeUpload,
				ContentType: royaltix.ContentTypeText,
				TextContent: "hello",
			},
		},
		{
			name:    "no image generator",
			options: []royaltix.Option{royaltix.WithRegistrar(&stubRegistrar{registration: okRegistration()})},
			req: royaltix.CreateAssetRequest{
				Mode:        royaltix.ModeGenerate,
				ContentType: royaltix.ContentTypeImage,
				Prompt:      "a castle",
			},
		},
		{
			name:    "no text generator",
			options: []royaltix.Option{royaltix.WithRegistrar(&stubRegistrar{registration: okRegistration()})},
			req: royaltix.CreateAssetRequest{
				Mode:        royaltix.ModeGenerate,
				ContentType: royaltix.ContentTypeText,
				TextPrompt:  "a poem",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memorystore.New()
			svc, err := royaltix.New(append(tt.options, royaltix.WithStore(store))...)
			require.NoError(t, err)

			result, err := svc.CreateAsset(context.Background(), tt.req)
			assert.Nil(t, result)

			var configErr *royaltix.ConfigError
			require.ErrorAs(t, err, &configErr)
			assert.NotEmpty(t, configErr.Hint)

			// Config failures must not reach the store.
			records, err := store.List(context.Background())
			require.NoError(t, err)
			assert.Empty(t, records)
		})
	}
}

func TestCreateAsset_GenerationFailureStopsPipeline(t *testing.T) {
	store := memorystore.New()
	texts := &stubTexts{err: &royaltix.GenerationError{Provider: "groq", Err: royaltix.ErrEmptyResult}}
	registrar := &stubRegistrar{registration: okRegistration()}

	svc, err := royaltix.New(
		royaltix.WithStore(store),
		royaltix.WithTextGenerator(texts),
		royaltix.WithRegistrar(registrar),
	)
	require.NoError(t, err)

	_, err = svc.CreateAsset(context.Background(), royaltix.CreateAssetRequest{
		Mode:        royaltix.ModeGenerate,
		ContentType: royaltix.ContentTypeText,
		TextPrompt:  "a poem",
	})

	var generationErr *royaltix.GenerationError
	require.ErrorAs(t, err, &generationErr)
	assert.Equal(t, 1, texts.calls)
	assert.Equal(t, 0, registrar.calls)

	records, listErr := store.List(context.Background())
	require.NoError(t, listErr)
	assert.Empty(t, records)
}

func TestCreateAsset_RegistrationFailureKeepsContent(t *testing.T) {
	store := memorystore.New()
	texts := &stubTexts{result: "generated verse"}
	registrar := &stubRegistrar{err: &royaltix.RegistrationError{Stage: "register", Err: errors.New("insufficient funds")}}

	svc, err := royaltix.New(
		royaltix.WithStore(store),
		royaltix.WithTextGenerator(texts),
		royaltix.WithRegistrar(registrar),
	)
	require.NoError(t, err)

	result, err := svc.CreateAsset(context.Background(), royaltix.CreateAssetRequest{
		Mode:        royaltix.ModeGenerate,
		ContentType: royaltix.ContentTypeText,
		TextPrompt:  "a poem",
	})

	var registrationErr *royaltix.RegistrationError
	require.ErrorAs(t, err, &registrationErr)

	// The caller still gets the generated content for inspection.
	require.NotNil(t, result)
	assert.Equal(t, "generated verse", result.Content)
	assert.Empty(t, result.ContentID)

	// No orphaned record when registration fails.
	records, listErr := store.List(context.Background())
	require.NoError(t, listErr)
	assert.Empty(t, records)
}

func TestCreateAsset_MissingUploadPayload(t *testing.T) {
	tests := []struct {
		name string
		req  royaltix.CreateAssetRequest
	}{
		{
			name: "image without file",
			req:  royaltix.CreateAssetRequest{Mode: royaltix.ModeUpload, ContentType: royaltix.ContentTypeImage},
		},
		{
			name: "text without content",
			req:  royaltix.CreateAssetRequest{Mode: royaltix.ModeUpload, ContentType: royaltix.ContentTypeText},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registrar := &stubRegistrar{registration: okRegistration()}
			svc, err := royaltix.New(
				royaltix.WithStore(memorystore.New()),
				royaltix.WithRegistrar(registrar),
			)
			require.NoError(t, err)

			_, err = svc.CreateAsset(context.Background(), tt.req)
			assert.ErrorIs(t, err, royaltix.ErrMissingContent)
			assert.Equal(t, 0, registrar.calls)
		})
	}
}

func TestCreateAsset_InvalidInputs(t *testing.T) {
	registrar := &stubRegistrar{registration: okRegistration()}
	svc, err := royaltix.New(
		royaltix.WithStore(memorystore.New()),
		royaltix.WithRegistrar(registrar),
	)
	require.NoError(t, err)

	_, err = svc.CreateAsset(context.Background(), royaltix.CreateAssetRequest{
		Mode:        royaltix.ModeUpload,
		ContentType: royaltix.ContentTypeText,
		TextContent: "hello",
		Collaborators: []royaltix.Collaborator{
			{Address: "0xabc", Percentage: 60},
			{Address: "0xdef", Percentage: 60},
		},
	})
	assert.ErrorIs(t, err, royaltix.ErrInvalidInput)
	assert.Equal(t, 0, registrar.calls)
}

func TestCreateAsset_PersistRetries(t *testing.T) {
	store := &flakyStore{Store: memorystore.New(), failures: 2}
	registrar := &stubRegistrar{registration: okRegistration()}

	svc, err := royaltix.New(
		royaltix.WithStore(store),
		royaltix.WithRegistrar(registrar),
		royaltix.WithPersistRetry(3, time.Millisecond),
	)
	require.NoError(t, err)

	result, err := svc.CreateAsset(context.Background(), royaltix.CreateAssetRequest{
		Mode:        royaltix.ModeUpload,
		ContentType: royaltix.ContentTypeText,
		TextContent: "hello",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, store.appends)

	record, err := store.GetByID(context.Background(), result.ContentID)
	require.NoError(t, err)
	assert.Equal(t, "hello", record.GeneratedContent)
}

func TestCreateAsset_PersistExhaustionSurfacesIDs(t *testing.T) {
	store := &flakyStore{Store: memorystore.New(), failures: 100}
	registrar := &stubRegistrar{registration: okRegistration()}

	svc, err := royaltix.New(
		royaltix.WithStore(store),
		royaltix.WithRegistrar(registrar),
		royaltix.WithPersistRetry(2, time.Millisecond),
	)
	require.NoError(t, err)

	result, err := svc.CreateAsset(context.Background(), royaltix.CreateAssetRequest{
		Mode:        royaltix.ModeUpload,
		ContentType: royaltix.ContentTypeText,
		TextContent: "hello",
	})

	var storeErr *royaltix.StoreError
	require.ErrorAs(t, err, &storeErr)

	// The completed registration must not be silently lost.
	require.NotNil(t, result)
	assert.Equal(t, "0xipid", result.IPID)
	assert.Equal(t, "0xtxhash", result.TxHash)
}

func TestListingOrderAfterCreations(t *testing.T) {
	store := memorystore.New()
	registrar := &stubRegistrar{registration: okRegistration()}

	svc, err := royaltix.New(
		royaltix.WithStore(store),
		royaltix.WithRegistrar(registrar),
	)
	require.NoError(t, err)

	contents := []string{"first", "second", "third"}
	var ids []string
	for _, c := range contents {
		result, err := svc.CreateAsset(context.Background(), royaltix.CreateAssetRequest{
			Mode:        royaltix.ModeUpload,
			ContentType: royaltix.ContentTypeText,
			TextContent: c,
		})
		require.NoError(t, err)
		ids = append(ids, result.ContentID)
	}

	records, err := svc.ListAssets(context.Background())
	require.NoError(t, err)
	require.Len(t, records, len(contents))
	for i, record := range records {
		assert.Equal(t, ids[i], record.ContentID)
		assert.Equal(t, contents[i], record.GeneratedContent)
	}

	require.NoError(t, svc.Wipe(context.Background()))
	records, err = svc.ListAssets(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestDownloadAsset(t *testing.T) {
	store := memorystore.New()
	registrar := &stubRegistrar{registration: okRegistration()}

	svc, err := royaltix.New(
		royaltix.WithStore(store),
		royaltix.WithRegistrar(registrar),
	)
	require.NoError(t, err)

	text, err := svc.CreateAsset(context.Background(), royaltix.CreateAssetRequest{
		Mode:        royaltix.ModeUpload,
		ContentType: royaltix.ContentTypeText,
		TextContent: "downloadable",
		Title:       "My Text",
	})
	require.NoError(t, err)

	image, err := svc.CreateAsset(context.Background(), royaltix.CreateAssetRequest{
		Mode:         royaltix.ModeUpload,
		ContentType:  royaltix.ContentTypeImage,
		UploadedFile: "aGVsbG8=", // "hello"
		FileName:     "art.png",
	})
	require.NoError(t, err)

	download, err := svc.DownloadAsset(context.Background(), text.ContentID)
	require.NoError(t, err)
	assert.Equal(t, "My Text.txt", download.FileName)
	assert.Equal(t, "text/plain", download.ContentType)
	assert.Equal(t, []byte("downloadable"), download.Data)

	download, err = svc.DownloadAsset(context.Background(), image.ContentID)
	require.NoError(t, err)
	assert.Equal(t, "art.png.png", download.FileName)
	assert.Equal(t, "image/png", download.ContentType)
	assert.Equal(t, []byte("hello"), download.Data)

	_, err = svc.DownloadAsset(context.Background(), "missing")
	assert.ErrorIs(t, err, royaltix.ErrRecordNotFound)
}

func TestPurchase(t *testing.T) {
	store := memorystore.New()
	registrar := &stubRegistrar{registration: okRegistration()}

	svc, err := royaltix.New(
		royaltix.WithStore(store),
		royaltix.WithRegistrar(registrar),
	)
	require.NoError(t, err)

	created, err := svc.CreateAsset(context.Background(), royaltix.CreateAssetRequest{
		Mode:        royaltix.ModeUpload,
		ContentType: royaltix.ContentTypeText,
		TextContent: "for sale",
	})
	require.NoError(t, err)

	result, err := svc.Purchase(context.Background(), royaltix.PurchaseRequest{
		ContentID:   created.ContentID,
		LicenseType: "commercial",
		Price:       25,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.OrderID)
	assert.Equal(t, "commercial", result.LicenseType)
	assert.Equal(t, "/api/download/"+created.ContentID, result.DownloadURL)

	_, err = svc.Purchase(context.Background(), royaltix.PurchaseRequest{ContentID: "missing"})
	assert.ErrorIs(t, err, royaltix.ErrRecordNotFound)
}

func TestCreateAsset_DegradedStorageSurfacedOnRecord(t *testing.T) {
	store := memorystore.New()
	registrar := &stubRegistrar{registration: &royaltix.Registration{
		IPID:      "0xipid",
		TxHash:    "0xtxhash",
		LicenseID: "42",
		Storage: royaltix.StorageInfo{
			State:  royaltix.StorageDegraded,
			Reason: "content: pinning not configured",
		},
	}}

	svc, err := royaltix.New(
		royaltix.WithStore(store),
		royaltix.WithRegistrar(registrar),
	)
	require.NoError(t, err)

	result, err := svc.CreateAsset(context.Background(), royaltix.CreateAssetRequest{
		Mode:        royaltix.ModeUpload,
		ContentType: royaltix.ContentTypeText,
		TextContent: "hello",
	})
	require.NoError(t, err)
	assert.Equal(t, royaltix.StorageDegraded, result.Storage.State)

	record, err := store.GetByID(context.Background(), result.ContentID)
	require.NoError(t, err)
	assert.Equal(t, royaltix.StorageDegraded, record.Storage.State)
	assert.Contains(t, record.Storage.Reason, "pinning not configured")
}
