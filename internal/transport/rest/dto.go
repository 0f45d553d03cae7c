package rest

import (
	"time"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

type cartItemResponse struct {
	ProductID      int64  `json:"productId"`
	Name           string `json:"name"`
	Price          string `json:"price"`
	Count          int64  `json:"count"`
	TotalItemPrice string `json:"totalItemPrice"`
}

type cartResponse struct {
	OrderID     string             `json:"orderId"`
	CreatedDate time.Time          `json:"createdDate"`
	Items       []cartItemResponse `json:"items"`
	TotalPrice  string             `json:"totalPrice"`
}

func toCartResponse(s domain.Summary) cartResponse {
	items := make([]cartItemResponse, 0, len(s.Items))
	for _, item := range s.Items {
		items = append(items, cartItemResponse{
			ProductID:      item.ProductID,
			Name:           item.Name,
			Price:          item.Price,
			Count:          item.Count,
			TotalItemPrice: item.TotalPrice,
		})
	}
	return cartResponse{
		OrderID:     s.OrderID,
		CreatedDate: s.CreatedAt.UTC(),
		Items:       items,
		TotalPrice:  s.TotalPrice,
	}
}

type addProductToOrderRequest struct {
	ProductID int64 `json:"productId"`
	Count     int64 `json:"count"`
}

type timelineEventResponse struct {
	OrderID  string    `json:"orderId"`
	Type     string    `json:"type"`
	Reason   string    `json:"reason,omitempty"`
	Occurred time.Time `json:"occurred"`
}

func toTimelineResponse(events []domain.TimelineEvent) []timelineEventResponse {
	out := make([]timelineEventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, timelineEventResponse{
			OrderID:  e.OrderID,
			Type:     e.Type,
			Reason:   e.Reason,
			Occurred: e.Occurred.UTC(),
		})
	}
	return out
}

type productRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
}

func (r productRequest) toInput() domain.ProductInput {
	return domain.ProductInput{Name: r.Name, Description: r.Description, Price: r.Price}
}

type productResponse struct {
	ProductID   int64  `json:"productId"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
}

func toProductResponse(p domain.Product) productResponse {
	return productResponse{
		ProductID:   p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
	}
}

type newsRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ExpiryDate  time.Time `json:"expiryDate"`
}

type newsResponse struct {
	NewsID      int64     `json:"newsId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ExpiryDate  time.Time `json:"expiryDate"`
}

func toNewsResponse(n domain.News) newsResponse {
	return newsResponse{
		NewsID:      n.ID,
		Title:       n.Title,
		Description: n.Description,
		ExpiryDate:  n.ExpiryDate.UTC(),
	}
}
