package catalog

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// AddedBy is stamped on every imported item.
const AddedBy = "Admin"

// Item is one product catalog row as produced by the importer.
type Item struct {
	Name          string   `json:"name" parquet:"name"`
	Description   string   `json:"description" parquet:"description,optional"`
	Specification string   `json:"specification" parquet:"specification,optional"`
	SRP           *float64 `json:"srp" parquet:"srp,optional"`
	AddedBy       string   `json:"added_by" parquet:"added_by"`
}

var (
	nonPriceChars = regexp.MustCompile(`[^\d.]`)
	sizePattern   = regexp.MustCompile(`(?i)\d+(?:\.\d+)?\s*(?:g|kg|ml|l|oz|lb)`)
	packPattern   = regexp.MustCompile(`(?i)\d+\s*(?:pcs|pieces|pack|packs|sachet|sachets)`)
)

// CleanPrice strips currency symbols, commas and any other non-numeric
// characters from a raw price string and parses the remainder. An empty or
// missing price yields nil, never zero.
func CleanPrice(raw string) (*float64, error) {
	cleaned := nonPriceChars.ReplaceAllString(raw, "")
	if cleaned == "" {
		return nil, nil
	}

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse price %q: %w", raw, err)
	}
	return &v, nil
}

// ExtractSpecification derives a specification string from a product name by
// searching for a size/weight token and a pack-count token. Only the first
// match of each pattern is used.
func ExtractSpecification(name string) string {
	var specs []string

	if m := sizePattern.FindString(name); m != "" {
		specs = append(specs, m)
	}
	if m := packPattern.FindString(name); m != "" {
		specs = append(specs, m)
	}

	return strings.Join(specs, " ")
}
