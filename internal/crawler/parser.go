package crawler

import (
	"fmt"
	"io"
	"strings"

	"sjsage522/pricewatch/helpers"
	"sjsage522/pricewatch/logger"
	"sjsage522/pricewatch/pkg/errors"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
)

// DefaultMaxItems caps accepted candidates per source and cycle
const DefaultMaxItems = 5

// Parser applies a source's extractor to a listing page
type Parser struct {
	MaxItems int
}

// NewParser creates a parser accepting at most maxItems candidates per page
func NewParser(maxItems int) *Parser {
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}
	return &Parser{MaxItems: maxItems}
}

// Parse loads markup from r and extracts candidates. Only a document that
// cannot be loaded at all is an error.
func (p *Parser) Parse(r io.Reader, spec SourceSpec) ([]CandidateItem, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, errors.NewParse(spec.Name, "failed to load document", err)
	}
	return p.ParseDocument(doc, spec), nil
}

// ParseDocument walks product nodes in document order and returns the accepted
// candidates, deduplicated by URL and capped at MaxItems.
func (p *Parser) ParseDocument(doc *goquery.Document, spec SourceSpec) []CandidateItem {
	log := logger.ForSource(spec.Name)
	dedup := NewDeduplicator()
	items := make([]CandidateItem, 0, p.MaxItems)

	spec.Extractor.ProductNodes(doc).EachWithBreak(func(i int, node *goquery.Selection) bool {
		item, ok, err := p.candidate(node, spec)
		if err != nil {
			log.Debug().Err(err).Int("node", i).Msg("Skipping malformed candidate")
			return true
		}
		if !ok || !dedup.Accept(item.URL) {
			return true
		}

		items = append(items, item)
		return len(items) < p.MaxItems
	})

	return items
}

// candidate evaluates one product node. ok is false when the node is
// irrelevant, unpriced or out of stock; err reports a recovered fault.
func (p *Parser) candidate(node *goquery.Selection, spec SourceSpec) (item CandidateItem, ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			item, ok, err = CandidateItem{}, false, fmt.Errorf("candidate extraction panicked: %v", r)
		}
	}()

	title := helpers.CollapseSpace(node.Text())
	if title == "" {
		title, _ = node.Attr("title")
		title = helpers.CollapseSpace(title)
	}
	if !IsRelevant(title, spec.RelevanceTerms) {
		return CandidateItem{}, false, nil
	}

	container := spec.Extractor.Container(node)
	rawPrice := strings.TrimSpace(spec.Extractor.PriceNode(container).Text())
	price, valid := parsePrice(rawPrice)
	if !valid {
		return CandidateItem{}, false, nil
	}

	if !InStock(spec.Extractor.StockMarker(container)) {
		return CandidateItem{}, false, nil
	}

	href, found := spec.Extractor.Link(node, container)

	return CandidateItem{
		Title:        title,
		RawPriceText: rawPrice,
		Price:        price,
		URL:          resolveLink(spec.ListingURL, href, found),
		InStock:      true,
	}, true, nil
}

// parsePrice strips everything but digits and decimal points and parses the
// remainder; zero, negative and unparsable values are rejected.
func parsePrice(raw string) (float64, bool) {
	numeric := helpers.NumericOnly(raw)
	if numeric == "" {
		return 0, false
	}

	d, err := decimal.NewFromString(numeric)
	if err != nil {
		return 0, false
	}

	d = d.Round(2)
	if !d.IsPositive() {
		return 0, false
	}
	return d.InexactFloat64(), true
}
