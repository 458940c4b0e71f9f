package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"trendora/internal/domain"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

// CSVImporter reads catalog CSV exports and inserts/updates products.
// Expected headers: id,name,description,price,discountedPrice,discount,image,category.
// Only name and price are required; column order is free.
type CSVImporter struct {
	reader      *csv.Reader
	productRepo ProductWriter
	logger      zerolog.Logger
}

func NewCSVImporter(r io.Reader, repo ProductWriter, logger *zerolog.Logger) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	csvr.TrimLeadingSpace = true
	l := zerolog.Nop()
	if logger != nil {
		l = *logger
	}
	return &CSVImporter{reader: csvr, productRepo: repo, logger: l}
}

// Run parses CSV rows and upserts one product per row. Blank rows are
// skipped; the first invalid row aborts the import.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	for _, required := range []string{"name", "price"} {
		if _, ok := index[required]; !ok {
			return 0, fmt.Errorf("missing required column %q", required)
		}
	}

	imported := 0
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}
		line, _ := i.reader.FieldPos(0)

		p, err := parseRow(record, index)
		if err != nil {
			return imported, fmt.Errorf("line %d: %w", line, err)
		}
		if p == nil {
			continue
		}
		saved, err := i.productRepo.Upsert(ctx, *p)
		if err != nil {
			return imported, fmt.Errorf("line %d: upsert product %q: %w", line, p.Name, err)
		}
		i.logger.Debug().Int64("id", saved.ID).Str("name", saved.Name).Msg("imported product")
		imported++
	}
	return imported, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) (*domain.Product, error) {
	blank := true
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			blank = false
			break
		}
	}
	if blank {
		return nil, nil
	}

	p := &domain.Product{
		Name:        pick(record, index, "name"),
		Description: pick(record, index, "description"),
		Image:       pick(record, index, "image"),
		Category:    pick(record, index, "category"),
	}
	if p.Name == "" {
		return nil, errors.New("name required")
	}

	if raw := pick(record, index, "id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid id %q", raw)
		}
		p.ID = id
	}

	price, err := decimal.NewFromString(pick(record, index, "price"))
	if err != nil || !price.IsPositive() {
		return nil, fmt.Errorf("invalid price for %q", p.Name)
	}
	p.Price = price

	if raw := pick(record, index, "discountedPrice"); raw != "" {
		d, err := decimal.NewFromString(raw)
		if err != nil || d.IsNegative() || d.GreaterThan(price) {
			return nil, fmt.Errorf("invalid discountedPrice %q for %q", raw, p.Name)
		}
		if !d.IsZero() {
			p.DiscountedPrice = &d
		}
	}

	if raw := pick(record, index, "discount"); raw != "" {
		pct, err := strconv.Atoi(raw)
		if err != nil || pct < 0 || pct > 100 {
			return nil, fmt.Errorf("invalid discount %q for %q", raw, p.Name)
		}
		p.Discount = &pct
	}
	return p, nil
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
