package settings

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/pdv/backend/internal/domain/settings"
	"github.com/pdv/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memoryRepository keeps the singletons in fields and counts saves
type memoryRepository struct {
	company *settings.CompanyInfo
	printer *settings.PrinterConfig
	scale   *settings.ScaleConfig
	saves   int
	err     error
}

func (r *memoryRepository) GetCompanyInfo(context.Context) (*settings.CompanyInfo, error) {
	if r.err != nil {
		return nil, r.err
	}
	if r.company == nil {
		return nil, shared.ErrNotFound
	}
	c := *r.company
	return &c, nil
}

func (r *memoryRepository) SaveCompanyInfo(_ context.Context, info *settings.CompanyInfo) error {
	info.UpdatedAt = time.Now()
	c := *info
	r.company = &c
	r.saves++
	return nil
}

func (r *memoryRepository) GetPrinterConfig(context.Context) (*settings.PrinterConfig, error) {
	if r.printer == nil {
		return nil, shared.ErrNotFound
	}
	p := *r.printer
	return &p, nil
}

func (r *memoryRepository) SavePrinterConfig(_ context.Context, cfg *settings.PrinterConfig) error {
	cfg.UpdatedAt = time.Now()
	p := *cfg
	r.printer = &p
	r.saves++
	return nil
}

func (r *memoryRepository) GetScaleConfig(context.Context) (*settings.ScaleConfig, error) {
	if r.scale == nil {
		return nil, shared.ErrNotFound
	}
	s := *r.scale
	return &s, nil
}

func (r *memoryRepository) SaveScaleConfig(_ context.Context, cfg *settings.ScaleConfig) error {
	cfg.UpdatedAt = time.Now()
	s := *cfg
	r.scale = &s
	r.saves++
	return nil
}

type fakeStorage struct {
	objects map[string][]byte
	deleted []string
	putErr  error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string][]byte)}
}

func (f *fakeStorage) PutObject(_ context.Context, key, _ string, body io.Reader, _ int64) error {
	if f.putErr != nil {
		return f.putErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.objects[key] = data
	return nil
}

func (f *fakeStorage) PresignGet(_ context.Context, key string) (string, error) {
	return "https://s3.example.com/pdv/" + key + "?X-Amz-Signature=abc", nil
}

func (f *fakeStorage) DeleteObject(_ context.Context, key string) error {
	delete(f.objects, key)
	f.deleted = append(f.deleted, key)
	return nil
}

func validCompanyRequest() CompanyInfoRequest {
	return CompanyInfoRequest{
		Name:          "Padaria Central LTDA",
		TradeName:     "Padaria Central",
		TaxID:         "12.345.678/0001-90",
		State:         "sp",
		ReceiptFooter: "Volte sempre",
	}
}

func TestService_CompanyInfo_DefaultsWhenMissing(t *testing.T) {
	svc := NewService(&memoryRepository{}, nil, 0, zap.NewNop())

	resp, err := svc.GetCompanyInfo(context.Background())

	require.NoError(t, err)
	assert.Equal(t, settings.DefaultCompanyInfo().Name, resp.Name)
	assert.Nil(t, resp.UpdatedAt)
	assert.Empty(t, resp.LogoURL)
}

func TestService_CompanyInfo_RepositoryError(t *testing.T) {
	svc := NewService(&memoryRepository{err: errors.New("db down")}, nil, 0, zap.NewNop())
	_, err := svc.GetCompanyInfo(context.Background())
	assert.EqualError(t, err, "db down")
}

func TestService_SaveCompanyInfo_UpsertsSingleRow(t *testing.T) {
	repo := &memoryRepository{}
	svc := NewService(repo, nil, 0, zap.NewNop())
	ctx := context.Background()

	change, err := svc.SaveCompanyInfo(ctx, validCompanyRequest())
	require.NoError(t, err)
	assert.Equal(t, "Minha Empresa", change.Before.Name)
	assert.Equal(t, "Padaria Central LTDA", change.After.Name)
	assert.Equal(t, "SP", change.After.State)
	assert.NotNil(t, change.After.UpdatedAt)

	req := validCompanyRequest()
	req.Name = "Padaria Central ME"
	change, err = svc.SaveCompanyInfo(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "Padaria Central LTDA", change.Before.Name)
	assert.Equal(t, "Padaria Central ME", repo.company.Name)
	assert.Equal(t, 2, repo.saves)
}

func TestService_SaveCompanyInfo_KeepsLogo(t *testing.T) {
	repo := &memoryRepository{company: &settings.CompanyInfo{Name: "Antiga", LogoKey: "company/logo-1.png"}}
	svc := NewService(repo, newFakeStorage(), 0, zap.NewNop())

	change, err := svc.SaveCompanyInfo(context.Background(), validCompanyRequest())

	require.NoError(t, err)
	assert.Equal(t, "company/logo-1.png", repo.company.LogoKey)
	assert.Contains(t, change.After.LogoURL, "company/logo-1.png")
}

func TestService_UploadLogo(t *testing.T) {
	repo := &memoryRepository{company: &settings.CompanyInfo{Name: "Padaria", LogoKey: "company/logo-old.png"}}
	store := newFakeStorage()
	store.objects["company/logo-old.png"] = []byte("old")
	svc := NewService(repo, store, 1024, zap.NewNop())

	png := []byte("\x89PNG\r\n\x1a\nfake")
	change, err := svc.UploadLogo(context.Background(), "image/png", int64(len(png)), bytes.NewReader(png))

	require.NoError(t, err)
	key := repo.company.LogoKey
	assert.True(t, strings.HasPrefix(key, "company/logo-"))
	assert.True(t, strings.HasSuffix(key, ".png"))
	assert.Equal(t, png, store.objects[key])
	assert.Equal(t, []string{"company/logo-old.png"}, store.deleted)
	assert.Equal(t, "company/logo-old.png", change.Before.LogoKey)
	assert.Contains(t, change.After.LogoURL, key)
}

func TestService_UploadLogo_Rejections(t *testing.T) {
	ctx := context.Background()

	_, err := NewService(&memoryRepository{}, nil, 0, zap.NewNop()).
		UploadLogo(ctx, "image/png", 10, strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrStorageDisabled)

	svc := NewService(&memoryRepository{}, newFakeStorage(), 16, zap.NewNop())

	_, err = svc.UploadLogo(ctx, "application/pdf", 10, strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrUnsupportedImage)

	_, err = svc.UploadLogo(ctx, "image/jpeg", 17, strings.NewReader(strings.Repeat("x", 17)))
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestService_UploadLogo_StorageFailure(t *testing.T) {
	repo := &memoryRepository{}
	store := newFakeStorage()
	store.putErr = errors.New("connection reset")
	svc := NewService(repo, store, 0, zap.NewNop())

	_, err := svc.UploadLogo(context.Background(), "image/webp", 4, strings.NewReader("RIFF"))

	require.Error(t, err)
	assert.Zero(t, repo.saves)
}

func TestService_PrinterConfig(t *testing.T) {
	repo := &memoryRepository{}
	svc := NewService(repo, nil, 0, zap.NewNop())
	ctx := context.Background()

	current, err := svc.GetPrinterConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, 80, current.PaperWidthMM)

	change, err := svc.SavePrinterConfig(ctx, PrinterConfigRequest{Enabled: true, PaperWidthMM: 58, Columns: 32, Copies: 2})
	require.NoError(t, err)
	assert.Equal(t, 80, change.Before.PaperWidthMM)
	assert.Equal(t, 58, change.After.PaperWidthMM)
	assert.Equal(t, 58, repo.printer.PaperWidthMM)

	_, err = svc.SavePrinterConfig(ctx, PrinterConfigRequest{PaperWidthMM: 80, Columns: 48, Copies: 9})
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_COPIES", domainErr.Code)
}

func TestService_ScaleConfig(t *testing.T) {
	repo := &memoryRepository{}
	svc := NewService(repo, nil, 0, zap.NewNop())
	ctx := context.Background()

	change, err := svc.SaveScaleConfig(ctx, ScaleConfigRequest{Enabled: true, Port: "/dev/ttyUSB0", BaudRate: 4800, WeightPrefix: "2"})
	require.NoError(t, err)
	assert.Equal(t, 9600, change.Before.BaudRate)
	assert.Equal(t, 4800, change.After.BaudRate)

	_, err = svc.SaveScaleConfig(ctx, ScaleConfigRequest{Enabled: true, BaudRate: 1234})
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_BAUD_RATE", domainErr.Code)

	got, err := svc.GetScaleConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyUSB0", got.Port)
}
