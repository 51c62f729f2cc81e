// Package normalizer maps free-form record store fields onto catalog types.
// Every function here is pure and never fails: missing fields get defaults and
// values of an unexpected type are coerced leniently or zeroed.
package normalizer

import (
	"strings"
	"unicode"

	"storefront/internal/domain"
	"storefront/internal/recordstore"

	"github.com/spf13/cast"
)

// WhitespaceClass is an RE2 character class matching exactly the runes
// unicode.IsSpace reports, for use in record store formulas.
// RE2's \s alone omits \v, U+0085 and the Unicode separators.
const WhitespaceClass = `[\s\x{000B}\x{0085}\p{Z}]`

// Slugify lowercases name and replaces each whitespace run with a single hyphen.
// Leading and trailing whitespace is dropped. Uniqueness is not guaranteed.
func Slugify(name string) string {
	return strings.Join(strings.FieldsFunc(strings.ToLower(name), unicode.IsSpace), "-")
}

// NormalizeProduct maps a product record to a catalog entry
func NormalizeProduct(record recordstore.Record) *domain.Product {
	fields := record.Fields
	name := stringField(fields, FieldName)
	images := imageURLs(fields[FieldImages])

	return &domain.Product{
		ID:             record.ID,
		Name:           name,
		Slug:           Slugify(name),
		SKU:            stringField(fields, FieldSKU),
		Description:    description(fields),
		PriceRetail:    cast.ToFloat64(fields[FieldPriceRetail]),
		PriceWholesale: cast.ToFloat64(fields[FieldPriceWholesale]),
		Stock:          cast.ToInt(fields[FieldStock]),
		CategoryID:     firstLink(fields[FieldCategory]),
		BrandID:        firstLink(fields[FieldBrand]),
		Image:          images[0],
		Images:         images,
		Active:         cast.ToBool(fields[FieldActive]),
		CreatedAt:      record.CreatedTime,
	}
}

// NormalizeBrand maps a brand record
func NormalizeBrand(record recordstore.Record) *domain.Brand {
	name := stringField(record.Fields, FieldName)
	return &domain.Brand{
		ID:          record.ID,
		Name:        name,
		Slug:        Slugify(name),
		Description: description(record.Fields),
	}
}

// NormalizeCategory maps a category record
func NormalizeCategory(record recordstore.Record) *domain.Category {
	name := stringField(record.Fields, FieldName)
	return &domain.Category{
		ID:          record.ID,
		Name:        name,
		Slug:        Slugify(name),
		Description: description(record.Fields),
	}
}

func stringField(fields map[string]interface{}, key string) string {
	return cast.ToString(fields[key])
}

func description(fields map[string]interface{}) string {
	if d := stringField(fields, FieldDescription); d != "" {
		return d
	}
	return domain.DefaultDescription
}

// imageURLs accepts attachment objects ({"url": ...}) or plain strings and
// always returns at least one entry.
func imageURLs(raw interface{}) []string {
	var urls []string
	for _, item := range cast.ToSlice(raw) {
		switch v := item.(type) {
		case string:
			if v != "" {
				urls = append(urls, v)
			}
		case map[string]interface{}:
			if u := cast.ToString(v["url"]); u != "" {
				urls = append(urls, u)
			}
		}
	}
	if len(urls) == 0 {
		return []string{domain.PlaceholderImage}
	}
	return urls
}

// firstLink returns the first linked record id of a link field
func firstLink(raw interface{}) string {
	if s, ok := raw.(string); ok {
		return s
	}
	links := cast.ToStringSlice(raw)
	if len(links) == 0 {
		return ""
	}
	return links[0]
}
