// Command feed-ingest converts raw product feed files into the embedded
// catalog fixture. Feeds are gzipped JSON lines, one product per line;
// files are processed in parallel, SKUs already seen in any feed are
// skipped via a bloom filter, and every surviving record passes full
// validation before it is written out.
package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	"github.com/klauspost/pgzip"
	"golang.org/x/sync/errgroup"

	domain "github.com/xenking/storefront/internal/domain/product"
	"github.com/xenking/storefront/internal/validate"
)

const (
	bloomCapacity = 10_000_000
	bloomFPR      = 0.001
	maxLineBytes  = 1 << 20
)

// fixtureProduct is the on-disk shape of one fixture record. Price is a
// json.Number so the emitted literal matches the validated decimal.
type fixtureProduct struct {
	ID             int64       `json:"id"`
	SKU            int64       `json:"sku"`
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	Price          json.Number `json:"price"`
	Installments   int         `json:"installments"`
	CurrencyID     string      `json:"currencyId"`
	CurrencyFormat string      `json:"currencyFormat"`
	AvailableSizes []string    `json:"availableSizes"`
	Style          string      `json:"style"`
	IsFreeShipping bool        `json:"isFreeShipping"`
}

type fixtureEnvelope struct {
	Data struct {
		Products []fixtureProduct `json:"products"`
	} `json:"data"`
}

// collector gathers validated products across feed workers. The bloom
// filter is not safe for concurrent use, so both it and the slice are
// guarded by one mutex.
type collector struct {
	mu       sync.Mutex
	seen     *bloom.BloomFilter
	products []fixtureProduct
	skipped  int
	invalid  int
}

func main() {
	var (
		feeds multiFlag
		out   string
	)
	flag.Var(&feeds, "feed", "gzipped JSONL feed file (repeatable)")
	flag.StringVar(&out, "out", "internal/catalog/fixture/products.json", "output fixture path")
	flag.Parse()

	if len(feeds) == 0 {
		slog.Error("at least one --feed file is required")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, feeds, out); err != nil {
		slog.Error("feed ingest failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	slog.Info("feed ingest completed successfully")
}

func run(ctx context.Context, feeds []string, out string) error {
	for _, f := range feeds {
		if _, err := os.Stat(f); err != nil {
			return errors.Wrapf(err, "check file %s", f)
		}
	}

	c := &collector{seen: bloom.NewWithEstimates(bloomCapacity, bloomFPR)}

	g, ctx := errgroup.WithContext(ctx)
	for _, feed := range feeds {
		g.Go(func() error {
			return ingestFile(ctx, feed, c)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	slog.Info("feeds processed",
		slog.Int("products", len(c.products)),
		slog.Int("duplicates", c.skipped),
		slog.Int("invalid", c.invalid),
	)
	return writeFixture(out, c.products)
}

func ingestFile(ctx context.Context, path string, c *collector) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	gz, err := pgzip.NewReader(f)
	if err != nil {
		return errors.Wrapf(err, "gunzip %s", path)
	}
	defer gz.Close()

	scanner := bufio.NewScanner(gz)
	scanner.Buffer(make([]byte, 64<<10), maxLineBytes)

	lines := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		lines++

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		dec := json.NewDecoder(bytes.NewReader(line))
		dec.UseNumber()
		var raw map[string]any
		if err := dec.Decode(&raw); err != nil {
			slog.Warn("skipping malformed line",
				slog.String("file", path), slog.Int("line", lines))
			continue
		}

		res := validate.Product(raw)
		c.add(res.Valid, res.Product)
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "scan %s", path)
	}

	slog.Info("feed processed", slog.String("file", path), slog.Int("lines", lines))
	return nil
}

func (c *collector) add(valid bool, p domain.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !valid {
		c.invalid++
		return
	}
	if c.seen.TestAndAdd([]byte(strconv.FormatInt(p.SKU, 10))) {
		c.skipped++
		return
	}
	c.products = append(c.products, fixtureProduct{
		ID:             p.ID,
		SKU:            p.SKU,
		Title:          p.Title,
		Description:    p.Description,
		Price:          json.Number(p.Price.String()),
		Installments:   p.Installments,
		CurrencyID:     p.CurrencyID,
		CurrencyFormat: p.CurrencyFormat,
		AvailableSizes: p.AvailableSizes,
		Style:          p.Style,
		IsFreeShipping: p.IsFreeShipping,
	})
}

func writeFixture(path string, products []fixtureProduct) error {
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })

	var env fixtureEnvelope
	env.Data.Products = products

	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal fixture")
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	slog.Info("fixture written", slog.String("path", path), slog.Int("products", len(products)))
	return nil
}

// multiFlag collects repeated string flags.
type multiFlag []string

func (m *multiFlag) String() string { return "" }

func (m *multiFlag) Set(v string) error {
	*m = append(*m, v)
	return nil
}
