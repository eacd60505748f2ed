package crawler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const amazonFixture = `<html><body><div class="s-main-slot">
	<div class="s-result-item" data-asin="B0DT7L98J1">
		<a class="a-link-normal s-no-outline" href="/ASUS-TUF-GeForce-RTX-5090/dp/B0DT7L98J1/ref=sr_1_1"><img src="a.jpg"></a>
		<h2><a class="a-link-normal" href="/sspa/click?ad=1"><span class="a-size-medium a-color-base a-text-normal">ASUS TUF Gaming GeForce RTX 5090 32GB GDDR7 Graphics Card</span></a></h2>
		<span class="a-price"><span class="a-offscreen">$2,499.99</span><span aria-hidden="true">$2,499<sup>99</sup></span></span>
	</div>
	<div class="s-result-item" data-asin="B0DVCBDJBJ">
		<a class="a-link-normal s-no-outline" href="/MSI-Gaming-RTX-5090/dp/B0DVCBDJBJ"><span class="a-size-medium a-color-base a-text-normal">MSI Gaming GeForce RTX 5090 32G Suprim Liquid Graphics Card</span></a>
		<span class="a-price"><span class="a-offscreen">$3,099.00</span></span>
	</div>
	<div class="s-result-item" data-asin="B0DS2X13PH">
		<a class="a-link-normal s-no-outline" href="/PNY-RTX-5090/dp/B0DS2X13PH"><img src="c.jpg"></a>
		<span class="a-size-medium a-color-base a-text-normal">PNY GeForce RTX 5090 32GB Graphics Card</span>
		<span class="a-price"><span class="a-offscreen">$2,299.99</span></span>
		<span class="a-color-price">Currently unavailable.</span>
	</div>
	<div class="s-result-item" data-asin="B0CABLE">
		<a class="a-link-normal s-no-outline" href="/cable/dp/B0CABLE"><img src="d.jpg"></a>
		<span class="a-size-medium a-color-base a-text-normal">12VHPWR Cable for RTX 5090 Graphics Card</span>
		<span class="a-price"><span class="a-offscreen">$19.99</span></span>
	</div>
</div></body></html>`

const neweggFixture = `<html><body><div class="item-cells-wrap">
	<div class="item-container">
		<div class="item-info">
			<a class="item-title" href="https://www.newegg.com/msi-rtx-5090/p/N82E16814137915">MSI Gaming GeForce RTX 5090 32GB GDDR7 Graphics Card</a>
		</div>
		<ul class="price"><li class="price-current">$<strong>2,599</strong><sup>.99</sup></li></ul>
	</div>
	<div class="item-container">
		<div class="item-info">
			<a class="item-title" href="https://www.newegg.com/gigabyte-rtx-5090/p/N82E16814932760">GIGABYTE AORUS GeForce RTX 5090 Master 32G Graphics Card</a>
			<p class="item-promo">OUT OF STOCK</p>
		</div>
		<ul class="price"><li class="price-current">$<strong>2,899</strong><sup>.99</sup></li></ul>
	</div>
	<div class="item-container">
		<div class="item-info">
			<a class="item-title" href="https://www.newegg.com/zotac-rtx-5090/p/N82E16814500600">ZOTAC GAMING GeForce RTX 5090 SOLID 32GB Video Card</a>
			<p class="item-promo">Limited time offer</p>
		</div>
		<ul class="price"><li class="price-current">$<strong>2,399</strong><sup>.99</sup></li></ul>
	</div>
</div></body></html>`

const bestBuyFixture = `<html><body><ol class="sku-item-list">
	<li class="list-item">
		<h4 class="sku-title"><a href="/site/nvidia-geforce-rtx-5090/6614151.p?skuId=6614151">NVIDIA GeForce RTX 5090 32GB GDDR7 Graphics Card - Titanium/Black</a></h4>
		<div class="priceView-customer-price"><span aria-hidden="true">$1,999.99</span><span class="sr-only">Your price for this item is $1,999.99</span></div>
		<button class="btn btn-disabled">Sold Out</button>
	</li>
	<li class="list-item">
		<h4 class="sku-title"><a href="/site/asus-rtx-5090/6615929.p?skuId=6615929">ASUS ROG Astral GeForce RTX 5090 32GB GDDR7 Graphics Card</a></h4>
		<div class="priceView-customer-price"><span aria-hidden="true">$2,799.99</span></div>
		<button class="btn btn-primary">Add to Cart</button>
	</li>
</ol></body></html>`

const microCenterFixture = `<html><body><ul id="productGrid">
	<li class="product_wrapper">
		<div class="image"><a href="/product/690001/gigabyte-rtx-5090-gaming-oc"><img src="g.jpg"></a></div>
		<div class="normal"><h2><a>Gigabyte GeForce RTX 5090 Gaming OC Triple Fan 32GB GDDR7 Graphics Card</a></h2></div>
		<span class="price">$2,199.99</span>
		<span class="stock">12 NEW IN STOCK</span>
	</li>
	<li class="product_wrapper">
		<div class="image"><a href="/product/690002/msi-rtx-5090-ventus"><img src="m.jpg"></a></div>
		<div class="normal"><h2><a>MSI GeForce RTX 5090 Ventus 3X OC Triple Fan 32GB Graphics Card</a></h2></div>
		<span class="price">$2,099.99</span>
		<span class="stock">SOLD OUT at Tustin Store</span>
	</li>
</ul></body></html>`

func TestBuiltinExtractors(t *testing.T) {
	tests := []struct {
		name      string
		listing   string
		extractor Extractor
		html      string
		expected  []CandidateItem
	}{
		{
			name:      "Amazon",
			listing:   "https://www.amazon.com/s?k=rtx+5090",
			extractor: NewAmazonExtractor(),
			html:      amazonFixture,
			expected: []CandidateItem{
				{
					Title:        "ASUS TUF Gaming GeForce RTX 5090 32GB GDDR7 Graphics Card",
					RawPriceText: "$2,499.99",
					Price:        2499.99,
					URL:          "https://www.amazon.com/ASUS-TUF-GeForce-RTX-5090/dp/B0DT7L98J1/ref=sr_1_1",
					InStock:      true,
				},
				{
					Title:        "MSI Gaming GeForce RTX 5090 32G Suprim Liquid Graphics Card",
					RawPriceText: "$3,099.00",
					Price:        3099,
					URL:          "https://www.amazon.com/MSI-Gaming-RTX-5090/dp/B0DVCBDJBJ",
					InStock:      true,
				},
			},
		},
		{
			name:      "Newegg",
			listing:   "https://www.newegg.com/p/pl?d=rtx+5090",
			extractor: NewNeweggExtractor(),
			html:      neweggFixture,
			expected: []CandidateItem{
				{
					Title:        "MSI Gaming GeForce RTX 5090 32GB GDDR7 Graphics Card",
					RawPriceText: "2,599",
					Price:        2599,
					URL:          "https://www.newegg.com/msi-rtx-5090/p/N82E16814137915",
					InStock:      true,
				},
				{
					Title:        "ZOTAC GAMING GeForce RTX 5090 SOLID 32GB Video Card",
					RawPriceText: "2,399",
					Price:        2399,
					URL:          "https://www.newegg.com/zotac-rtx-5090/p/N82E16814500600",
					InStock:      true,
				},
			},
		},
		{
			name:      "Best Buy",
			listing:   "https://www.bestbuy.com/site/searchpage.jsp?st=rtx+5090",
			extractor: NewBestBuyExtractor(),
			html:      bestBuyFixture,
			expected: []CandidateItem{
				{
					Title:        "ASUS ROG Astral GeForce RTX 5090 32GB GDDR7 Graphics Card",
					RawPriceText: "$2,799.99",
					Price:        2799.99,
					URL:          "https://www.bestbuy.com/site/asus-rtx-5090/6615929.p?skuId=6615929",
					InStock:      true,
				},
			},
		},
		{
			name:      "Micro Center",
			listing:   "https://www.microcenter.com/search/search_results.aspx?Ntt=rtx+5090",
			extractor: NewMicroCenterExtractor(),
			html:      microCenterFixture,
			expected: []CandidateItem{
				{
					Title:        "Gigabyte GeForce RTX 5090 Gaming OC Triple Fan 32GB GDDR7 Graphics Card",
					RawPriceText: "$2,199.99",
					Price:        2199.99,
					URL:          "https://www.microcenter.com/product/690001/gigabyte-rtx-5090-gaming-oc",
					InStock:      true,
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := SourceSpec{
				Name:           tt.name,
				ListingURL:     tt.listing,
				Extractor:      tt.extractor,
				RelevanceTerms: testTerms,
			}

			items, err := NewParser(DefaultMaxItems).Parse(strings.NewReader(tt.html), spec)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, items)
		})
	}
}

func TestGenericExtractorDefaults(t *testing.T) {
	html := `<html><body>
		<div class="tile"><a class="name" href="/gpu/1">Founders GeForce RTX 5090 Graphics Card</a><b class="cost">$1,999.99</b></div>
		<div class="tile"><a class="name">PNY RTX 5090 GPU</a><b class="cost">$2,049.00</b><i class="flag">Unavailable</i></div>
	</body></html>`

	spec := SourceSpec{
		Name:           "Shop",
		ListingURL:     "https://shop.example.com/search?q=rtx+5090",
		Extractor:      NewGenericExtractor(Rule{Product: ".name", Price: ".cost", Stock: ".flag"}),
		RelevanceTerms: testTerms,
	}

	items, err := NewParser(0).Parse(strings.NewReader(html), spec)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "https://shop.example.com/gpu/1", items[0].URL)
	assert.Equal(t, 1999.99, items[0].Price)
}

func TestGenericExtractorWithSelectors(t *testing.T) {
	html := `<html><body><section>
		<article class="card">
			<a class="go" href="/item/7"><h3 class="title">Zotac GeForce RTX 5090 Graphics Card</h3></a>
			<div class="amount">USD 2,149.50</div>
		</article>
		<article class="card">
			<h3 class="title">Inno3D GeForce RTX 5090 Graphics Card</h3>
			<div class="amount">USD 2,089.00</div>
			<a class="go" href="/item/8">details</a>
		</article>
	</section></body></html>`

	spec := SourceSpec{
		Name:       "Shop",
		ListingURL: "https://shop.example.com/gpus",
		Extractor: NewGenericExtractor(Rule{
			Product:   ".title",
			Container: ".card",
			Price:     ".amount",
			Link:      "a.go",
		}),
		RelevanceTerms: testTerms,
	}

	items, err := NewParser(0).Parse(strings.NewReader(html), spec)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "https://shop.example.com/item/7", items[0].URL)
	assert.Equal(t, 2149.5, items[0].Price)
	assert.Equal(t, "https://shop.example.com/item/8", items[1].URL)
}
