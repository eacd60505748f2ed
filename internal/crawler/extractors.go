package crawler

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// selectorExtractor implements Extractor directly from a Rule. Source
// variants embed it and override the lookups their markup needs.
type selectorExtractor struct {
	rule Rule
}

func (e selectorExtractor) ProductNodes(doc *goquery.Document) *goquery.Selection {
	return doc.Find(e.rule.Product)
}

func (e selectorExtractor) Container(node *goquery.Selection) *goquery.Selection {
	return node.Closest(e.rule.Container)
}

func (e selectorExtractor) PriceNode(container *goquery.Selection) *goquery.Selection {
	return container.Find(e.rule.Price).First()
}

func (e selectorExtractor) StockMarker(container *goquery.Selection) *goquery.Selection {
	if e.rule.Stock == "" {
		return container.Slice(0, 0)
	}
	return container.Find(e.rule.Stock)
}

func (e selectorExtractor) Link(_, container *goquery.Selection) (string, bool) {
	return hrefOf(container.Find(e.rule.Link).First())
}

func hrefOf(s *goquery.Selection) (string, bool) {
	if s.Length() == 0 {
		return "", false
	}
	href, exists := s.Attr("href")
	if !exists || strings.TrimSpace(href) == "" {
		return "", false
	}
	return href, true
}

// amazonExtractor: the product link wraps the title on some layouts and sits
// beside it on others.
type amazonExtractor struct {
	selectorExtractor
}

func (e amazonExtractor) Link(node, container *goquery.Selection) (string, bool) {
	if href, ok := hrefOf(node.Closest(e.rule.Link)); ok {
		return href, true
	}
	return e.selectorExtractor.Link(node, container)
}

// neweggExtractor: the title node is itself the product anchor.
type neweggExtractor struct {
	selectorExtractor
}

func (e neweggExtractor) Link(node, _ *goquery.Selection) (string, bool) {
	return hrefOf(node)
}

// bestBuyExtractor: the title node is itself the product anchor.
type bestBuyExtractor struct {
	selectorExtractor
}

func (e bestBuyExtractor) Link(node, _ *goquery.Selection) (string, bool) {
	return hrefOf(node)
}

// microCenterExtractor: the link lives on the product image inside the card.
type microCenterExtractor struct {
	selectorExtractor
}

// genericExtractor serves catalog sources declared in the sources file.
// Without a container selector the title's parent is the container; without a
// link selector the title node's own href is used.
type genericExtractor struct {
	selectorExtractor
}

func (e genericExtractor) Container(node *goquery.Selection) *goquery.Selection {
	if e.rule.Container == "" {
		return node.Parent()
	}
	return e.selectorExtractor.Container(node)
}

func (e genericExtractor) Link(node, container *goquery.Selection) (string, bool) {
	if e.rule.Link == "" {
		return hrefOf(node)
	}
	if href, ok := hrefOf(node.Closest(e.rule.Link)); ok {
		return href, true
	}
	return e.selectorExtractor.Link(node, container)
}

// Built-in extraction rules
var (
	amazonRule = Rule{
		Product:   ".a-size-medium.a-color-base.a-text-normal",
		Container: ".s-result-item",
		Price:     ".a-price .a-offscreen",
		Link:      ".a-link-normal.s-no-outline",
		Stock:     ".a-color-price",
	}
	neweggRule = Rule{
		Product:   ".item-title",
		Container: ".item-container",
		Price:     ".price-current strong",
		Link:      ".item-title",
		Stock:     ".item-promo",
	}
	bestBuyRule = Rule{
		Product:   ".sku-title a",
		Container: ".list-item",
		Price:     ".priceView-customer-price span",
		Link:      ".sku-title a",
		Stock:     ".btn-disabled",
	}
	microCenterRule = Rule{
		Product:   ".normal",
		Container: ".product_wrapper",
		Price:     ".price",
		Link:      ".image a",
		Stock:     ".stock",
	}
)

// NewAmazonExtractor returns the extractor for Amazon search results
func NewAmazonExtractor() Extractor {
	return amazonExtractor{selectorExtractor{rule: amazonRule}}
}

// NewNeweggExtractor returns the extractor for Newegg product lists
func NewNeweggExtractor() Extractor {
	return neweggExtractor{selectorExtractor{rule: neweggRule}}
}

// NewBestBuyExtractor returns the extractor for Best Buy search pages
func NewBestBuyExtractor() Extractor {
	return bestBuyExtractor{selectorExtractor{rule: bestBuyRule}}
}

// NewMicroCenterExtractor returns the extractor for Micro Center search results
func NewMicroCenterExtractor() Extractor {
	return microCenterExtractor{selectorExtractor{rule: microCenterRule}}
}

// NewGenericExtractor returns an extractor driven entirely by rule
func NewGenericExtractor(rule Rule) Extractor {
	return genericExtractor{selectorExtractor{rule: rule}}
}
