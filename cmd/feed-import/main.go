// Command feed-import merges gzipped supplier product feeds into the
// catalog file the server embeds.
//
// Each feed is a gzip-compressed stream of one JSON product per line.
// Supplier feeds overlap and disagree; a product makes it into the catalog
// only when at least two suppliers carry its SKU, and the lowest offered
// price wins. Feeds run to tens of millions of lines, so membership across
// feeds is tested with per-feed bloom filters before exact confirmation.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"math/bits"
	"os"
	"os/signal"
	"path/filepath"
	"sort"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"
	"golang.org/x/sync/errgroup"

	"github.com/hydroflex/storefront/internal/catalog"
)

const (
	bloomCapacity = 50_000_000
	bloomFPR      = 0.001
	progressEvery = 5_000_000
)

// fileResult holds the candidate products one feed contributed in pass 2.
type fileResult struct {
	// mask maps SKU to a bitmask of feeds carrying it.
	mask map[string]uint
	// offers maps SKU to the cheapest offer seen in this feed.
	offers map[string]catalog.Product
}

func main() {
	var (
		dataDir  string
		outPath  string
		numFeeds int
	)

	flag.StringVar(&dataDir, "data-dir", "data", "directory containing feedN.gz supplier files")
	flag.StringVar(&outPath, "out", "products.json", "merged catalog output path")
	flag.IntVar(&numFeeds, "feeds", 3, "number of supplier feeds (feed1.gz .. feedN.gz)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, dataDir, outPath, numFeeds); err != nil {
		slog.Error("feed import failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("feed import completed successfully")
}

func run(ctx context.Context, dataDir, outPath string, numFeeds int) error {
	files := make([]string, numFeeds)
	for i := range numFeeds {
		files[i] = filepath.Join(dataDir, fmt.Sprintf("feed%d.gz", i+1))
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			return errors.Wrapf(err, "check file %s", f)
		}
	}

	// Pass 1: one bloom filter of SKUs per feed, built concurrently.
	slog.Info("pass 1: building SKU filters", slog.Int("feeds", numFeeds))

	filters, err := buildSKUFilters(ctx, files)
	if err != nil {
		return errors.Wrap(err, "build SKU filters")
	}

	// Pass 2: collect products whose SKU shows up in another feed.
	slog.Info("pass 2: collecting cross-listed products")

	products, err := mergeFeeds(ctx, files, filters)
	if err != nil {
		return errors.Wrap(err, "merge feeds")
	}

	slog.Info("cross-listed products found", slog.Int("count", len(products)))

	if err := writeCatalog(outPath, products); err != nil {
		return errors.Wrap(err, "write catalog")
	}
	return nil
}

func buildSKUFilters(ctx context.Context, files []string) ([]*bloom.BloomFilter, error) {
	filters := make([]*bloom.BloomFilter, len(files))

	g, ctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(buildFilterForFeed(ctx, i, f, filters))
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return filters, nil
}

func buildFilterForFeed(ctx context.Context, idx int, path string, filters []*bloom.BloomFilter) func() error {
	return func() error {
		filter := bloom.NewWithEstimates(bloomCapacity, bloomFPR)
		var count uint64

		if err := streamFeed(ctx, path, func(p catalog.Product) {
			filter.AddString(p.ID)
			count++
			if count%progressEvery == 0 {
				slog.Info("pass 1 progress",
					slog.Int("feed", idx+1),
					slog.Uint64("products", count),
				)
			}
		}); err != nil {
			return errors.Wrapf(err, "build filter for feed %d", idx+1)
		}

		slog.Info("pass 1 complete",
			slog.Int("feed", idx+1),
			slog.Uint64("total_products", count),
		)
		filters[idx] = filter
		return nil
	}
}

// mergeFeeds re-streams each feed, keeps offers whose SKU appears in some
// other feed's filter, and merges the per-feed results into the final
// product list. A SKU must be carried by 2+ feeds; within those, the
// cheapest offer wins.
func mergeFeeds(ctx context.Context, files []string, filters []*bloom.BloomFilter) ([]catalog.Product, error) {
	results := make([]fileResult, len(files))

	g, ctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(collectOffersInFeed(ctx, i, f, filters, results))
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := make(map[string]uint)
	best := make(map[string]catalog.Product)
	for _, r := range results {
		for sku, mask := range r.mask {
			merged[sku] |= mask
			offer := r.offers[sku]
			if cur, ok := best[sku]; !ok || offer.Price.LessThan(cur.Price) {
				best[sku] = offer
			}
		}
	}

	var products []catalog.Product
	for sku, mask := range merged {
		if bits.OnesCount(mask) >= 2 {
			products = append(products, best[sku])
		}
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products, nil
}

func collectOffersInFeed(
	ctx context.Context,
	idx int,
	path string,
	filters []*bloom.BloomFilter,
	results []fileResult,
) func() error {
	return func() error {
		res := fileResult{
			mask:   make(map[string]uint),
			offers: make(map[string]catalog.Product),
		}
		feedBit := uint(1) << uint(idx)
		var count uint64

		if err := streamFeed(ctx, path, func(p catalog.Product) {
			count++
			if count%progressEvery == 0 {
				slog.Info("pass 2 progress",
					slog.Int("feed", idx+1),
					slog.Uint64("products", count),
				)
			}

			// Only SKUs listed in some other feed can reach the 2-feed
			// threshold; the filter cuts the rest early.
			for j, f := range filters {
				if j == idx {
					continue
				}
				if f.TestString(p.ID) {
					res.mask[p.ID] |= feedBit
					if cur, ok := res.offers[p.ID]; !ok || p.Price.LessThan(cur.Price) {
						res.offers[p.ID] = p
					}
					break
				}
			}
		}); err != nil {
			return errors.Wrapf(err, "scan feed %d", idx+1)
		}

		slog.Info("pass 2 complete",
			slog.Int("feed", idx+1),
			slog.Uint64("total_products", count),
			slog.Int("candidates", len(res.mask)),
		)
		results[idx] = res
		return nil
	}
}

// streamFeed decompresses path and calls fn for every well-formed product
// line. Malformed lines and products failing validation are skipped, not
// fatal; supplier feeds are never fully clean.
func streamFeed(ctx context.Context, path string, fn func(p catalog.Product)) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer func() { _ = f.Close() }()

	gz, err := pgzip.NewReader(f)
	if err != nil {
		return errors.Wrapf(err, "create gzip reader for %s", path)
	}
	defer func() { _ = gz.Close() }()

	scanner := bufio.NewScanner(gz)
	scanner.Buffer(make([]byte, 0, 1<<16), 1<<20)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		var p catalog.Product
		if err := json.Unmarshal(scanner.Bytes(), &p); err != nil {
			continue
		}
		if p.ID == "" || p.Name == "" || !p.PriceUnit.Valid() || p.Price.IsNegative() {
			continue
		}
		fn(p)
	}

	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "scan %s", path)
	}
	return nil
}

func writeCatalog(path string, products []catalog.Product) error {
	slog.Info("writing catalog", slog.String("path", path), slog.Int("products", len(products)))

	out, err := json.MarshalIndent(products, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal products")
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return nil
}
