package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

const idempotencyKeyHeader = "Idempotency-Key"

// OrderService: сценарии корзины.
type OrderService interface {
	Create(ctx context.Context, idempotencyKey string) (domain.Summary, error)
	AddProduct(ctx context.Context, idempotencyKey, orderID string, productID, count int64) (domain.Summary, error)
	Summarize(ctx context.Context, orderID string) (domain.Summary, error)
	Timeline(ctx context.Context, orderID string) ([]domain.TimelineEvent, error)
}

// ProductService: управление каталогом.
type ProductService interface {
	Add(ctx context.Context, idempotencyKey string, input domain.ProductInput) (domain.Product, error)
	Update(ctx context.Context, idempotencyKey string, id int64, input domain.ProductInput) (domain.Product, error)
	Delete(ctx context.Context, idempotencyKey string, id int64) (domain.Product, error)
	List(ctx context.Context, search string, pageNo, pageSize *int) ([]domain.Product, error)
}

// NewsService: публикация новостей.
type NewsService interface {
	Add(ctx context.Context, idempotencyKey string, input domain.NewsInput) (domain.News, error)
	List(ctx context.Context, pageNo, pageSize *int) ([]domain.News, error)
}

type handler struct {
	orders   OrderService
	products ProductService
	news     NewsService
	logger   *log.Entry
}

func (h *handler) createOrder(w http.ResponseWriter, r *http.Request) {
	summary, err := h.orders.Create(r.Context(), r.Header.Get(idempotencyKeyHeader))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCartResponse(summary))
}

func (h *handler) addProductToOrder(w http.ResponseWriter, r *http.Request) {
	var req addProductToOrderRequest
	if !decodeBody(w, r, &req) {
		return
	}

	summary, err := h.orders.AddProduct(r.Context(), r.Header.Get(idempotencyKeyHeader), chi.URLParam(r, "orderId"), req.ProductID, req.Count)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCartResponse(summary))
}

func (h *handler) orderSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.orders.Summarize(r.Context(), chi.URLParam(r, "orderId"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(summary))
}

func (h *handler) orderTimeline(w http.ResponseWriter, r *http.Request) {
	events, err := h.orders.Timeline(r.Context(), chi.URLParam(r, "orderId"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toTimelineResponse(events))
}

func (h *handler) addProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if !decodeBody(w, r, &req) {
		return
	}

	product, err := h.products.Add(r.Context(), r.Header.Get(idempotencyKeyHeader), req.toInput())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProductResponse(product))
}

func (h *handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productIDParam(w, r)
	if !ok {
		return
	}
	var req productRequest
	if !decodeBody(w, r, &req) {
		return
	}

	product, err := h.products.Update(r.Context(), r.Header.Get(idempotencyKeyHeader), id, req.toInput())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(product))
}

func (h *handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productIDParam(w, r)
	if !ok {
		return
	}

	product, err := h.products.Delete(r.Context(), r.Header.Get(idempotencyKeyHeader), id)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(product))
}

func (h *handler) listProducts(w http.ResponseWriter, r *http.Request) {
	pageNo, pageSize, ok := pageParams(w, r)
	if !ok {
		return
	}

	products, err := h.products.List(r.Context(), r.URL.Query().Get("searchParam"), pageNo, pageSize)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handler) addNews(w http.ResponseWriter, r *http.Request) {
	var req newsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	news, err := h.news.Add(r.Context(), r.Header.Get(idempotencyKeyHeader), domain.NewsInput{
		Title:       req.Title,
		Description: req.Description,
		ExpiryDate:  req.ExpiryDate,
	})
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, toNewsResponse(news))
}

func (h *handler) listNews(w http.ResponseWriter, r *http.Request) {
	pageNo, pageSize, ok := pageParams(w, r)
	if !ok {
		return
	}

	news, err := h.news.List(r.Context(), pageNo, pageSize)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	out := make([]newsResponse, 0, len(news))
	for _, n := range news {
		out = append(out, toNewsResponse(n))
	}
	writeJSON(w, http.StatusOK, out)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeInvalidRequest(w, domain.MsgInvalidRequestBody)
		return false
	}
	return true
}

// productIDParam разбирает {productId}; нечисловой идентификатор не может существовать.
func productIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "productId"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, domain.KindProductNotFound.Code(), domain.MsgProductNotFound)
		return 0, false
	}
	return id, true
}

// pageParams разбирает pageNo и pageSize; отсутствующий параметр остаётся nil.
func pageParams(w http.ResponseWriter, r *http.Request) (*int, *int, bool) {
	query := r.URL.Query()

	pageNo, ok := optionalInt(query.Get("pageNo"))
	if !ok {
		writeError(w, http.StatusBadRequest, domain.KindInvalidPagination.Code(), domain.MsgInvalidPageNo)
		return nil, nil, false
	}
	pageSize, ok := optionalInt(query.Get("pageSize"))
	if !ok {
		writeError(w, http.StatusBadRequest, domain.KindInvalidPagination.Code(), domain.MsgInvalidPageSize)
		return nil, nil, false
	}
	return pageNo, pageSize, true
}

func optionalInt(raw string) (*int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, false
	}
	return &v, true
}
