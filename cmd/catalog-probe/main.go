// Command catalog-probe fetches every collection the storefront caches and
// prints a short summary. Useful for checking connectivity and credentials
// against a Catalog API deployment before pointing the storefront at it.
package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-faster/errors"

	"github.com/xenking/optika-storefront/internal/catalogapi"
	"github.com/xenking/optika-storefront/internal/domain/catalog"
)

func main() {
	var (
		baseURL string
		token   string
		limit   int
		timeout time.Duration
	)

	flag.StringVar(&baseURL, "url", "", "Catalog API base URL (or CATALOG_API_URL env)")
	flag.StringVar(&token, "token", "", "bearer token (or ADMIN_TOKEN / AUTH_TOKEN / TOKEN env)")
	flag.IntVar(&limit, "limit", 10, "products fetched per collection")
	flag.DurationVar(&timeout, "timeout", 10*time.Second, "per-request timeout")
	flag.Parse()

	if baseURL == "" {
		baseURL = os.Getenv("CATALOG_API_URL")
	}
	if baseURL == "" {
		slog.Error("catalog URL is required: set --url or CATALOG_API_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, baseURL, token, limit, timeout); err != nil {
		slog.Error("probe failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("probe completed successfully")
}

func run(ctx context.Context, baseURL, token string, limit int, timeout time.Duration) error {
	if token == "" {
		token = catalogapi.EnvToken()
	}

	client, err := catalogapi.NewClient(baseURL,
		catalogapi.WithTokenSource(catalogapi.StaticToken(token)),
		catalogapi.WithListLimit(limit),
		catalogapi.WithHTTPClient(&http.Client{Timeout: timeout}),
	)
	if err != nil {
		return errors.Wrap(err, "create client")
	}

	categories, err := client.NestedCategories(ctx)
	if err != nil {
		return errors.Wrap(err, "fetch categories")
	}
	slog.Info("categories", slog.Int("count", len(categories)))

	subcategories, err := client.ActiveSubcategories(ctx)
	if err != nil {
		return errors.Wrap(err, "fetch subcategories")
	}
	slog.Info("subcategories", slog.Int("count", len(subcategories)))

	for name, fetch := range map[string]func(context.Context) ([]catalog.Product, error){
		"latest_products": client.LatestProducts,
		"video_products":  client.VideoProducts,
		"photo_products":  client.PhotoProducts,
	} {
		products, err := fetch(ctx)
		if err != nil {
			return errors.Wrapf(err, "fetch %s", name)
		}

		active := len(catalog.ActiveOnly(products))
		slog.Info(name, slog.Int("count", len(products)), slog.Int("active", active))
	}

	brands, err := client.Brands(ctx, limit, 0)
	if err != nil {
		return errors.Wrap(err, "fetch brands")
	}
	slog.Info("brands",
		slog.Int("count", len(brands.Brands)),
		slog.Int("total", brands.Pagination.Total),
	)

	return nil
}
