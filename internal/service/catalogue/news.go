package catalogue

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/service/validation"
)

// NewsService публикует и перечисляет новости.
type NewsService struct {
	validator *validation.Validator
	repo      domain.NewsRepository
	logger    *log.Entry
}

// NewNewsService создаёт сервис новостей.
func NewNewsService(validator *validation.Validator, repo domain.NewsRepository, logger *log.Entry) *NewsService {
	if logger == nil {
		logger = log.WithField("component", "news-service")
	}
	return &NewsService{validator: validator, repo: repo, logger: logger}
}

// Add публикует новость.
func (s *NewsService) Add(ctx context.Context, idempotencyKey string, input domain.NewsInput) (domain.News, error) {
	if err := s.validator.ValidateNewsCreate(ctx, idempotencyKey, input); err != nil {
		return domain.News{}, err
	}

	input.Title = strings.TrimSpace(input.Title)
	input.ExpiryDate = input.ExpiryDate.UTC()

	news, err := s.repo.Create(ctx, input)
	if err != nil {
		s.logger.WithError(err).Error("create news failed")
		return domain.News{}, domain.Internal(fmt.Errorf("create news: %w", err))
	}

	s.logger.WithField("news_id", news.ID).Info("news published")
	return news, nil
}

// List возвращает страницу новостей, упорядоченных по id.
func (s *NewsService) List(ctx context.Context, pageNo, pageSize *int) ([]domain.News, error) {
	if err := s.validator.ValidatePage(pageNo, pageSize); err != nil {
		return nil, err
	}

	news, err := s.repo.List(ctx, domain.NewPageRequest(pageNo, pageSize))
	if err != nil {
		return nil, domain.Internal(fmt.Errorf("list news: %w", err))
	}
	return news, nil
}
