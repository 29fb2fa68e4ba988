// Package catalog defines the storefront's view of the remote Catalog API:
// categories, subcategories, products, and brands.
//
// The upstream API is loose about scalar types: numeric identifiers arrive as
// numbers or strings, prices as numbers or decimal strings, active flags as
// booleans, 0/1, "1", or a "status" string. All of that is normalized exactly
// once, during JSON decoding, so downstream code only ever sees strict Go
// types.
package catalog

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// TypeBucket classifies products and subcategories into the three storefront
// sections.
type TypeBucket string

const (
	TypePhotography TypeBucket = "photography"
	TypeVideography TypeBucket = "videography"
	TypeBoth        TypeBucket = "both"
)

// ParseTypeBucket maps an upstream type value to a TypeBucket. Anything
// outside the closed set, including an empty value, maps to TypeBoth.
func ParseTypeBucket(s string) TypeBucket {
	switch TypeBucket(strings.ToLower(strings.TrimSpace(s))) {
	case TypePhotography:
		return TypePhotography
	case TypeVideography:
		return TypeVideography
	default:
		return TypeBoth
	}
}

// Valid reports whether b is one of the three known buckets.
func (b TypeBucket) Valid() bool {
	switch b {
	case TypePhotography, TypeVideography, TypeBoth:
		return true
	}
	return false
}

// ID is an entity identifier. The upstream API emits identifiers as JSON
// numbers or numeric strings interchangeably.
type ID int64

func (id *ID) UnmarshalJSON(data []byte) error {
	s := unquote(data)
	if s == "" || s == "null" {
		*id = 0
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return errors.Wrapf(err, "parse id %q", s)
	}
	*id = ID(n)
	return nil
}

func (id ID) String() string { return strconv.FormatInt(int64(id), 10) }

// Flag is a loose boolean. true, 1, "1", "true", "active", and "yes" decode
// to true; everything else (including null and absent) is false.
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	switch strings.ToLower(unquote(data)) {
	case "1", "true", "active", "yes":
		*f = true
	default:
		*f = false
	}
	return nil
}

// Money is a tolerant decimal amount. Numbers and numeric strings decode
// normally; null, empty, and non-numeric values decode to zero rather than
// failing the whole collection.
type Money struct {
	decimal.Decimal
}

func (m *Money) UnmarshalJSON(data []byte) error {
	s := unquote(data)
	if s == "" || s == "null" {
		m.Decimal = decimal.Decimal{}
		return nil
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		m.Decimal = decimal.Decimal{}
		return nil
	}
	m.Decimal = v
	return nil
}

// Number is a tolerant float64 with the same lenient rules as Money.
type Number float64

func (n *Number) UnmarshalJSON(data []byte) error {
	s := unquote(data)
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*n = 0
		return nil
	}
	*n = Number(v)
	return nil
}

// timeLayouts are tried in order when decoding upstream timestamps.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Time is a tolerant timestamp. Unparsable values decode to the zero time.
type Time struct {
	time.Time
}

func (t *Time) UnmarshalJSON(data []byte) error {
	s := unquote(data)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timeLayouts {
		if v, err := time.Parse(layout, s); err == nil {
			t.Time = v
			return nil
		}
	}
	t.Time = time.Time{}
	return nil
}

// ImageRef is an image reference that upstream encodes either as a bare URL
// string or as an object with an image_url (or url) field.
type ImageRef string

func (r *ImageRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*r = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return errors.Wrap(err, "decode image string")
		}
		*r = ImageRef(s)
		return nil
	}
	var obj struct {
		ImageURL string `json:"image_url"`
		URL      string `json:"url"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return errors.Wrap(err, "decode image object")
	}
	if obj.ImageURL != "" {
		*r = ImageRef(obj.ImageURL)
	} else {
		*r = ImageRef(obj.URL)
	}
	return nil
}

// Pagination describes the page window returned by list endpoints.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// unquote strips surrounding whitespace and one layer of double quotes from a
// raw JSON scalar.
func unquote(data []byte) string {
	s := strings.TrimSpace(string(data))
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	return strings.TrimSpace(s)
}
