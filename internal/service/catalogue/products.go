// Package catalogue реализует управление товарами и новостями.
package catalogue

import (
	"context"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/service/validation"
)

// ProductService управляет каталогом товаров.
type ProductService struct {
	validator *validation.Validator
	repo      domain.ProductRepository
	logger    *log.Entry
}

// NewProductService создаёт сервис каталога.
func NewProductService(validator *validation.Validator, repo domain.ProductRepository, logger *log.Entry) *ProductService {
	if logger == nil {
		logger = log.WithField("component", "product-service")
	}
	return &ProductService{validator: validator, repo: repo, logger: logger}
}

// Add создаёт товар.
func (s *ProductService) Add(ctx context.Context, idempotencyKey string, input domain.ProductInput) (domain.Product, error) {
	if err := s.validator.ValidateProductCreate(ctx, idempotencyKey, input); err != nil {
		return domain.Product{}, err
	}

	product, err := s.repo.Create(ctx, normalizeProduct(input))
	if err != nil {
		s.logger.WithError(err).Error("create product failed")
		return domain.Product{}, domain.Internal(fmt.Errorf("create product: %w", err))
	}

	s.logger.WithField("product_id", product.ID).Info("product created")
	return product, nil
}

// Update перезаписывает название, описание и цену товара.
func (s *ProductService) Update(ctx context.Context, idempotencyKey string, id int64, input domain.ProductInput) (domain.Product, error) {
	if err := s.validator.ValidateProductUpdate(ctx, idempotencyKey, id, input); err != nil {
		return domain.Product{}, err
	}

	product, err := s.repo.Update(ctx, id, normalizeProduct(input))
	if err != nil {
		return domain.Product{}, s.translate(err, id, "update")
	}
	return product, nil
}

// Delete удаляет товар и возвращает удалённую запись.
// Уже существующие позиции заказов сохраняют свой снимок имени и цены.
func (s *ProductService) Delete(ctx context.Context, idempotencyKey string, id int64) (domain.Product, error) {
	if err := s.validator.ValidateProductDelete(ctx, idempotencyKey, id); err != nil {
		return domain.Product{}, err
	}

	product, err := s.repo.Delete(ctx, id)
	if err != nil {
		return domain.Product{}, s.translate(err, id, "delete")
	}

	s.logger.WithField("product_id", id).Info("product deleted")
	return product, nil
}

// List возвращает страницу товаров; непустой search фильтрует по подстроке имени с учётом регистра.
func (s *ProductService) List(ctx context.Context, search string, pageNo, pageSize *int) ([]domain.Product, error) {
	if err := s.validator.ValidatePage(pageNo, pageSize); err != nil {
		return nil, err
	}
	page := domain.NewPageRequest(pageNo, pageSize)

	var (
		products []domain.Product
		err      error
	)
	if strings.TrimSpace(search) == "" {
		products, err = s.repo.List(ctx, page)
	} else {
		products, err = s.repo.SearchByName(ctx, search, page)
	}
	if err != nil {
		return nil, domain.Internal(fmt.Errorf("list products: %w", err))
	}
	return products, nil
}

func (s *ProductService) translate(err error, id int64, op string) error {
	if errors.Is(err, domain.ErrProductNotFound) {
		return domain.NewBusinessError(domain.KindProductNotFound, domain.MsgProductNotFound)
	}
	s.logger.WithError(err).WithField("product_id", id).Errorf("%s product failed", op)
	return domain.Internal(fmt.Errorf("%s product %d: %w", op, id, err))
}

func normalizeProduct(input domain.ProductInput) domain.ProductInput {
	return domain.ProductInput{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Price:       strings.TrimSpace(input.Price),
	}
}
