package service

import (
	"context"

	"jewelshop/internal/apperr"
	"jewelshop/internal/models"
	"jewelshop/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type catalogStore interface {
	ListJewelry(ctx context.Context) ([]models.Jewelry, error)
	GetJewelryByModel(ctx context.Context, modelNumber string) (*models.Jewelry, error)
	CreateJewelry(ctx context.Context, item *models.Jewelry) error
	UpdateJewelry(ctx context.Context, item *models.Jewelry) error
	DeleteJewelry(ctx context.Context, modelNumber string) error
}

var jewelryTypes = map[string]bool{
	models.JewelryTypeRing:     true,
	models.JewelryTypeNecklace: true,
	models.JewelryTypeBracelet: true,
	models.JewelryTypeEarring:  true,
	models.JewelryTypeWatch:    true,
}

// CatalogService handles jewelry catalog management. Stock is set when an
// item is created or edited by an admin; the only other mutation is the
// checkout debit.
type CatalogService struct {
	store  catalogStore
	logger *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(store catalogStore) *CatalogService {
	return &CatalogService{
		store:  store,
		logger: util.GetLogger(),
	}
}

// List retrieves all catalog items
func (s *CatalogService) List(ctx context.Context) ([]models.Jewelry, error) {
	return s.store.ListJewelry(ctx)
}

// GetByModel retrieves a catalog item by model number
func (s *CatalogService) GetByModel(ctx context.Context, modelNumber string) (*models.Jewelry, error) {
	return s.store.GetJewelryByModel(ctx, modelNumber)
}

// Create adds a new catalog item
func (s *CatalogService) Create(ctx context.Context, item *models.Jewelry, uploadedBy uuid.UUID) (*models.Jewelry, error) {
	if err := validateJewelry(item); err != nil {
		return nil, err
	}

	item.UploadedBy = uploadedBy
	if err := s.store.CreateJewelry(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("Jewelry created",
		zap.String("model_number", item.ModelNumber),
		zap.String("id", item.ID.String()))
	return item, nil
}

// Update edits a catalog item identified by model number
func (s *CatalogService) Update(ctx context.Context, item *models.Jewelry) (*models.Jewelry, error) {
	if err := validateJewelry(item); err != nil {
		return nil, err
	}

	if err := s.store.UpdateJewelry(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Delete removes a catalog item by model number
func (s *CatalogService) Delete(ctx context.Context, modelNumber string) error {
	return s.store.DeleteJewelry(ctx, modelNumber)
}

func validateJewelry(item *models.Jewelry) error {
	if item.ModelNumber == "" {
		return apperr.Validation("model number is required")
	}
	if item.Name == "" {
		return apperr.Validation("name is required")
	}
	if !jewelryTypes[item.Type] {
		return apperr.Validationf("unknown jewelry type: %s", item.Type)
	}
	if item.StockQuantity < 0 {
		return apperr.Validation("stock quantity must not be negative")
	}
	if item.Price.IsNegative() {
		return apperr.Validation("price must not be negative")
	}
	return nil
}
