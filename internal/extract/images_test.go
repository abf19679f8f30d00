package extract

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHarvestImageURLs_ByExtensionAndHost(t *testing.T) {
	text := `Intro slide.
See https://example.com/chart.png and https://example.com/doc.html
plus https://images.unsplash.com/photo-123 for the cover.
Ignore http://example.com/page and text.`

	urls := HarvestImageURLs(text)
	assert.Equal(t, []string{
		"https://example.com/chart.png",
		"https://images.unsplash.com/photo-123",
	}, urls)
}

func TestHarvestImageURLs_DeduplicatesAndCaps(t *testing.T) {
	var b strings.Builder
	b.WriteString("https://example.com/dup.jpg https://example.com/dup.jpg\n")
	for i := 0; i < 30; i++ {
		fmt.Fprintf(&b, "https://example.com/img-%d.png\n", i)
	}

	urls := HarvestImageURLs(b.String())
	assert.Len(t, urls, maxImageURLs)
	assert.Equal(t, "https://example.com/dup.jpg", urls[0], "first appearance wins")
	for i, u := range urls {
		for j, v := range urls {
			if i != j {
				assert.NotEqual(t, u, v)
			}
		}
	}
}

func TestHarvestImageURLs_NoMatches(t *testing.T) {
	assert.Empty(t, HarvestImageURLs("plain prose with no links"))
}

func TestAppendImageSection(t *testing.T) {
	out := AppendImageSection("body", []string{"https://a.png", "https://b.jpg"})
	assert.True(t, strings.HasPrefix(out, "body"))
	assert.Contains(t, out, "# Image resources")
	assert.Contains(t, out, "https://a.png\n")
	assert.Contains(t, out, "https://b.jpg\n")

	assert.Equal(t, "body", AppendImageSection("body", nil), "no URLs leaves text untouched")
}
