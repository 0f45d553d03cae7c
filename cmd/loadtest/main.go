// Команда loadtest гоняет сценарии корзины против REST API витрины и печатает отчёт.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
)

const idempotencyHeader = "Idempotency-Key"

type loadMode string

const (
	modeCreate           loadMode = "create"
	modeCreateAdd        loadMode = "create-add"
	modeCreateAddSummary loadMode = "create-add-summary"
)

type config struct {
	baseURL          string
	total            int
	totalSet         bool
	duration         time.Duration
	concurrency      int
	timeout          time.Duration
	mode             loadMode
	itemsPerOrder    int
	price            string
	adminUser        string
	adminPassword    string
	customerUser     string
	customerPassword string
	outputPath       string
}

func parseConfig(args []string) (config, error) {
	var (
		cfg           config
		modeValue     string
		timeoutValue  string
		durationValue string
	)

	fs := flag.NewFlagSet("loadtest", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&cfg.baseURL, "url", "http://localhost:8080", "REST API base URL")
	fs.IntVar(&cfg.total, "total", 400, "total scenarios to execute in count mode; in duration mode only used when explicitly set")
	fs.StringVar(&durationValue, "duration", "0s", "optional time-based run duration (e.g. 10m)")
	fs.IntVar(&cfg.concurrency, "concurrency", 40, "number of concurrent workers")
	fs.StringVar(&timeoutValue, "timeout", "5s", "per-request timeout")
	fs.StringVar(&modeValue, "mode", string(modeCreateAddSummary), "load mode: create | create-add | create-add-summary")
	fs.IntVar(&cfg.itemsPerOrder, "items", 3, "add-to-order calls per scenario")
	fs.StringVar(&cfg.price, "price", "9.99", "price of the product created for the run")
	fs.StringVar(&cfg.adminUser, "admin-user", "admin", "ADMIN username")
	fs.StringVar(&cfg.adminPassword, "admin-password", "admin", "ADMIN password")
	fs.StringVar(&cfg.customerUser, "customer-user", "customer", "CUSTOMER username")
	fs.StringVar(&cfg.customerPassword, "customer-password", "customer", "CUSTOMER password")
	fs.StringVar(&cfg.outputPath, "output", "", "optional JSON report output file path")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	timeout, err := time.ParseDuration(strings.TrimSpace(timeoutValue))
	if err != nil {
		return cfg, fmt.Errorf("parse timeout: %w", err)
	}
	cfg.timeout = timeout

	duration, err := time.ParseDuration(strings.TrimSpace(durationValue))
	if err != nil {
		return cfg, fmt.Errorf("parse duration: %w", err)
	}
	cfg.duration = duration

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "total" {
			cfg.totalSet = true
		}
	})

	if cfg.mode, err = parseMode(modeValue); err != nil {
		return cfg, err
	}

	cfg.baseURL = strings.TrimRight(strings.TrimSpace(cfg.baseURL), "/")
	switch {
	case cfg.baseURL == "":
		return cfg, errors.New("url is required")
	case cfg.duration < 0:
		return cfg, errors.New("duration must be >= 0")
	case cfg.duration == 0 && cfg.total <= 0:
		return cfg, errors.New("total must be > 0 when duration is not set")
	case cfg.duration > 0 && cfg.totalSet && cfg.total <= 0:
		return cfg, errors.New("total must be > 0 when explicitly set with duration")
	case cfg.concurrency <= 0:
		return cfg, errors.New("concurrency must be > 0")
	case cfg.timeout <= 0:
		return cfg, errors.New("timeout must be > 0")
	case cfg.mode != modeCreate && cfg.itemsPerOrder <= 0:
		return cfg, errors.New("items must be > 0")
	}

	price, err := decimal.NewFromString(strings.TrimSpace(cfg.price))
	if err != nil || price.IsNegative() {
		return cfg, fmt.Errorf("price must be a non-negative decimal: %q", cfg.price)
	}
	cfg.price = price.String()

	return cfg, nil
}

func parseMode(value string) (loadMode, error) {
	switch mode := loadMode(strings.TrimSpace(value)); mode {
	case modeCreate, modeCreateAdd, modeCreateAddSummary:
		return mode, nil
	default:
		return "", fmt.Errorf("unsupported mode: %s", value)
	}
}

type cartItem struct {
	ProductID int64  `json:"productId"`
	Count     int64  `json:"count"`
	Price     string `json:"price"`
}

type cart struct {
	OrderID    string     `json:"orderId"`
	Items      []cartItem `json:"items"`
	TotalPrice string     `json:"totalPrice"`
}

type product struct {
	ProductID int64 `json:"productId"`
}

// shopClient ходит в REST API от имени администратора и покупателя.
type shopClient struct {
	admin    *resty.Client
	customer *resty.Client
	col      *collector
}

func newShopClient(cfg config, col *collector) *shopClient {
	newClient := func(user, password string) *resty.Client {
		return resty.New().
			SetBaseURL(cfg.baseURL).
			SetTimeout(cfg.timeout).
			SetBasicAuth(user, password).
			SetHeader("Accept", "application/json")
	}
	return &shopClient{
		admin:    newClient(cfg.adminUser, cfg.adminPassword),
		customer: newClient(cfg.customerUser, cfg.customerPassword),
		col:      col,
	}
}

// do выполняет запрос, учитывает его в отчёте и превращает не-2xx ответ в ошибку.
func (c *shopClient) do(method string, send func() (*resty.Response, error)) error {
	start := time.Now()
	resp, err := send()
	latency := time.Since(start)

	if err != nil {
		c.col.record(method, latency, "transport_error", false)
		return fmt.Errorf("%s: %w", method, err)
	}
	c.col.record(method, latency, strconv.Itoa(resp.StatusCode()), resp.IsSuccess())
	if !resp.IsSuccess() {
		return fmt.Errorf("%s: unexpected status %d: %s", method, resp.StatusCode(), strings.TrimSpace(resp.String()))
	}
	return nil
}

func (c *shopClient) createProduct(ctx context.Context, key, name, price string) (int64, error) {
	var out product
	err := c.do("AddProduct", func() (*resty.Response, error) {
		return c.admin.R().
			SetContext(ctx).
			SetHeader(idempotencyHeader, key).
			SetBody(map[string]string{"name": name, "description": "load test product", "price": price}).
			SetResult(&out).
			Post("/products/api/v1/add")
	})
	return out.ProductID, err
}

func (c *shopClient) createOrder(ctx context.Context, key string) (cart, error) {
	var out cart
	err := c.do("CreateOrder", func() (*resty.Response, error) {
		return c.customer.R().
			SetContext(ctx).
			SetHeader(idempotencyHeader, key).
			SetResult(&out).
			Post("/orders/api/v1/create")
	})
	return out, err
}

func (c *shopClient) addToOrder(ctx context.Context, key, orderID string, productID, count int64) (cart, error) {
	var out cart
	err := c.do("AddToOrder", func() (*resty.Response, error) {
		return c.customer.R().
			SetContext(ctx).
			SetHeader(idempotencyHeader, key).
			SetPathParam("orderId", orderID).
			SetBody(map[string]int64{"productId": productID, "count": count}).
			SetResult(&out).
			Put("/orders/api/v1/add/{orderId}")
	})
	return out, err
}

func (c *shopClient) summary(ctx context.Context, orderID string) (cart, error) {
	var out cart
	err := c.do("OrderSummary", func() (*resty.Response, error) {
		return c.customer.R().
			SetContext(ctx).
			SetPathParam("orderId", orderID).
			SetResult(&out).
			Get("/orders/api/v1/summary/{orderId}")
	})
	return out, err
}

// runScenario проходит сценарий корзины; index делает ключи идемпотентности уникальными в рамках прогона.
func runScenario(ctx context.Context, client *shopClient, cfg config, productID int64, index int, runID string) (err error) {
	start := time.Now()
	defer func() {
		status := "ok"
		if err != nil {
			status = "failed"
		}
		client.col.record(scenarioMethod, time.Since(start), status, err == nil)
	}()

	created, err := client.createOrder(ctx, fmt.Sprintf("lt-create-%s-%d", runID, index))
	if err != nil {
		return err
	}
	if created.OrderID == "" {
		return errors.New("create response returned empty order id")
	}
	if cfg.mode == modeCreate {
		return nil
	}

	for i := 0; i < cfg.itemsPerOrder; i++ {
		key := fmt.Sprintf("lt-add-%s-%d-%d", runID, index, i)
		if _, err := client.addToOrder(ctx, key, created.OrderID, productID, 1); err != nil {
			return err
		}
	}
	if cfg.mode == modeCreateAdd {
		return nil
	}

	summary, err := client.summary(ctx, created.OrderID)
	if err != nil {
		return err
	}
	return verifySummary(summary, cfg)
}

// verifySummary сверяет итог корзины с ожидаемым: все добавления одного товара сливаются в одну строку.
func verifySummary(summary cart, cfg config) error {
	if len(summary.Items) != 1 {
		return fmt.Errorf("expected 1 line item, got %d", len(summary.Items))
	}
	if summary.Items[0].Count != int64(cfg.itemsPerOrder) {
		return fmt.Errorf("expected count %d, got %d", cfg.itemsPerOrder, summary.Items[0].Count)
	}

	want := decimal.RequireFromString(cfg.price).Mul(decimal.NewFromInt(int64(cfg.itemsPerOrder)))
	got, err := decimal.NewFromString(summary.TotalPrice)
	if err != nil {
		return fmt.Errorf("parse total price %q: %w", summary.TotalPrice, err)
	}
	if !got.Equal(want) {
		return fmt.Errorf("expected total %s, got %s", want.StringFixed(2), summary.TotalPrice)
	}
	return nil
}

func dispatchJobs(jobs chan<- int, cfg config) {
	defer close(jobs)

	if cfg.duration <= 0 {
		for i := 0; i < cfg.total; i++ {
			jobs <- i
		}
		return
	}

	timer := time.NewTimer(cfg.duration)
	defer timer.Stop()

	for i := 0; ; i++ {
		if cfg.totalSet && i >= cfg.total {
			return
		}
		select {
		case <-timer.C:
			return
		case jobs <- i:
		}
	}
}

// execute прогоняет нагрузку и возвращает отчёт.
func execute(ctx context.Context, cfg config) (report, error) {
	startedAt := time.Now()
	runID := fmt.Sprintf("%d-%d", startedAt.UnixNano(), os.Getpid())
	col := newCollector()
	client := newShopClient(cfg, col)

	var productID int64
	if cfg.mode != modeCreate {
		id, err := client.createProduct(ctx, "lt-product-"+runID, "load-"+runID, cfg.price)
		if err != nil {
			return report{}, fmt.Errorf("prepare product: %w", err)
		}
		productID = id
	}

	jobs := make(chan int, cfg.concurrency*2)
	var wg sync.WaitGroup
	for w := 0; w < cfg.concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for index := range jobs {
				_ = runScenario(ctx, client, cfg, productID, index, runID)
			}
		}()
	}

	dispatchJobs(jobs, cfg)
	wg.Wait()

	return col.buildReport(startedAt, time.Since(startedAt)), nil
}

func main() {
	cfg, err := parseConfig(os.Args[1:])
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	result, err := execute(context.Background(), cfg)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "load test failed: %v\n", err)
		os.Exit(1)
	}

	printReport(os.Stdout, result, cfg)
	if cfg.outputPath != "" {
		if err := writeJSONReport(cfg.outputPath, result); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "failed to write report: %v\n", err)
			os.Exit(1)
		}
	}

	if result.FailedScenarios > 0 {
		os.Exit(1)
	}
}
