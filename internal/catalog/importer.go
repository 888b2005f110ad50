package catalog

import (
	"context"
	"crypto/tls"
	"fmt"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// DefaultReportURL is the e-Presyo prevailing price report page.
const DefaultReportURL = "https://epresyo.dti.gov.ph/prevailingpricereport/"

// sampleSeed keeps the printed sample stable across runs.
const sampleSeed = 42

// Importer fetches the price report page and converts its table into catalog
// items.
type Importer struct {
	URL        string
	httpClient *http.Client
}

// NewImporter creates an importer for the given report URL. insecureTLS skips
// certificate validation; the upstream report server serves a broken chain,
// but validation stays on unless explicitly opted out.
func NewImporter(url string, insecureTLS bool) *Importer {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if insecureTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return &Importer{
		URL: url,
		httpClient: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

// Run fetches the report page and returns the imported items.
func (imp *Importer) Run(ctx context.Context) ([]Item, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imp.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build report request: %w", err)
	}

	resp, err := imp.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch report page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("report page returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse report page: %w", err)
	}

	rows, err := ParseReportTable(doc)
	if err != nil {
		return nil, err
	}

	return BuildItems(rows)
}

// ParseReportTable extracts header-keyed rows from the first table on the
// page. A missing table is an error; the run produces no output.
func ParseReportTable(doc *goquery.Document) ([]map[string]string, error) {
	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("no table found on the report page")
	}

	var headers []string
	table.Find("th").Each(func(_ int, th *goquery.Selection) {
		headers = append(headers, strings.TrimSpace(th.Text()))
	})

	var rows []map[string]string
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() == 0 {
			// header row
			return
		}

		row := make(map[string]string, len(headers))
		cells.Each(func(i int, td *goquery.Selection) {
			if i < len(headers) {
				row[headers[i]] = strings.TrimSpace(td.Text())
			}
		})
		rows = append(rows, row)
	})

	return rows, nil
}

// BuildItems applies the row validation rules: rows with an empty product
// name or a cleaned price of exactly zero are skipped.
func BuildItems(rows []map[string]string) ([]Item, error) {
	items := make([]Item, 0, len(rows))

	for _, row := range rows {
		name := strings.TrimSpace(row["Product Name"])
		if name == "" {
			continue
		}

		srp, err := CleanPrice(row["SRP"])
		if err != nil {
			return nil, err
		}
		if srp != nil && *srp == 0 {
			continue
		}

		items = append(items, Item{
			Name:          name,
			Description:   "",
			Specification: ExtractSpecification(name),
			SRP:           srp,
			AddedBy:       AddedBy,
		})
	}

	return items, nil
}

// Sample returns up to n items drawn with a fixed seed so repeated runs
// print the same sample.
func Sample(items []Item, n int) []Item {
	r := rand.New(rand.NewSource(sampleSeed))
	perm := r.Perm(len(items))

	if n > len(items) {
		n = len(items)
	}

	sampled := make([]Item, 0, n)
	for _, idx := range perm[:n] {
		sampled = append(sampled, items[idx])
	}
	return sampled
}
