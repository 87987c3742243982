package ingest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/armazem-erp/armazem-erp/internal/invoices"
	"github.com/armazem-erp/armazem-erp/internal/orders"
	"github.com/armazem-erp/armazem-erp/internal/stock"
)

// Source names, also used as cache keys.
const (
	SourceProducts       = "products"
	SourceExternalOrders = "orders_external"
	SourceFactoryOrders  = "orders_factory"
	SourceInvoices       = "invoices"
)

// Sources holds the upstream endpoint per source.
type Sources struct {
	ProductsURL       string
	ExternalOrdersURL string
	FactoryOrdersURL  string
	InvoicesURL       string
}

// Snapshot is one full pull of every source. Collections are wholesale
// snapshots; a refresh replaces the previous one entirely.
type Snapshot struct {
	Products       []stock.Product
	ExternalOrders orders.RawTable
	FactoryOrders  orders.RawTable
	Invoices       []invoices.Invoice
	FetchedAt      time.Time
}

// Client pulls the four tabular sources. A nil cache disables read-through.
type Client struct {
	httpClient *http.Client
	sources    Sources
	cache      *SnapshotCache
	logger     *slog.Logger
}

// NewClient constructs Client.
func NewClient(httpClient *http.Client, sources Sources, cache *SnapshotCache, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{httpClient: httpClient, sources: sources, cache: cache, logger: logger}
}

// Fetch pulls all sources in parallel. With force set the cache is bypassed
// (and re-primed); otherwise cached payloads are served when present. Any
// whole-source transport failure fails the snapshot; schema problems inside
// a table are left for the normalizer.
func (c *Client) Fetch(ctx context.Context, force bool) (Snapshot, error) {
	var snap Snapshot
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		payload, err := c.payload(ctx, SourceProducts, c.sources.ProductsURL, force)
		if err != nil {
			return err
		}
		snap.Products, err = decodeProducts(payload)
		return err
	})
	g.Go(func() error {
		payload, err := c.payload(ctx, SourceExternalOrders, c.sources.ExternalOrdersURL, force)
		if err != nil {
			return err
		}
		snap.ExternalOrders, err = decodeOrderTable(payload)
		return err
	})
	g.Go(func() error {
		payload, err := c.payload(ctx, SourceFactoryOrders, c.sources.FactoryOrdersURL, force)
		if err != nil {
			return err
		}
		snap.FactoryOrders, err = decodeOrderTable(payload)
		return err
	})
	g.Go(func() error {
		payload, err := c.payload(ctx, SourceInvoices, c.sources.InvoicesURL, force)
		if err != nil {
			return err
		}
		snap.Invoices, err = decodeInvoices(payload)
		return err
	})

	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}
	snap.FetchedAt = time.Now().UTC()
	return snap, nil
}

// Prime fetches every source and stores the payloads in the cache without
// decoding; the worker's refresh job runs this.
func (c *Client) Prime(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for name, endpoint := range map[string]string{
		SourceProducts:       c.sources.ProductsURL,
		SourceExternalOrders: c.sources.ExternalOrdersURL,
		SourceFactoryOrders:  c.sources.FactoryOrdersURL,
		SourceInvoices:       c.sources.InvoicesURL,
	} {
		g.Go(func() error {
			_, err := c.payload(ctx, name, endpoint, true)
			return err
		})
	}
	return g.Wait()
}

func (c *Client) payload(ctx context.Context, source, endpoint string, force bool) ([]byte, error) {
	if !force {
		if payload, ok := c.cache.Get(ctx, source); ok {
			return payload, nil
		}
	}
	payload, err := c.download(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("ingest: fetch %s: %w", source, err)
	}
	if c.cache != nil {
		if err := c.cache.Set(ctx, source, payload); err != nil {
			c.logger.Warn("snapshot cache write failed",
				slog.String("source", source),
				slog.Any("error", err))
		}
	}
	return payload, nil
}

func (c *Client) download(ctx context.Context, endpoint string) ([]byte, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, err
	}
	// Cache-busting timestamp, same trick the upstream sheets expect.
	q := u.Query()
	q.Set("t", strconv.FormatInt(time.Now().UnixMilli(), 10))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
