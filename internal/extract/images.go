package extract

import (
	"regexp"
	"strings"
)

// maxImageURLs caps how many harvested image links get forwarded to the
// remote service.
const maxImageURLs = 20

var urlPattern = regexp.MustCompile(`https?://[^\s<>"{}|\\^` + "`" + `\[\]]+`)

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg", ".bmp"}

var imageHosts = []string{"imgur.com", "imgbb.com", "cloudinary.com", "unsplash.com", "pexels.com"}

// HarvestImageURLs scans text for http(s) links that look like images, either
// by extension or by well-known image-hosting domains. Order of first
// appearance is preserved; duplicates are dropped.
func HarvestImageURLs(text string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, url := range urlPattern.FindAllString(text, -1) {
		lower := strings.ToLower(url)
		if !looksLikeImage(lower) {
			continue
		}
		if _, dup := seen[url]; dup {
			continue
		}
		seen[url] = struct{}{}
		out = append(out, url)
		if len(out) == maxImageURLs {
			break
		}
	}
	return out
}

func looksLikeImage(lower string) bool {
	for _, ext := range imageExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	for _, host := range imageHosts {
		if strings.Contains(lower, host) {
			return true
		}
	}
	return false
}

// AppendImageSection appends harvested image URLs to the submit text as a
// trailing resources section; the remote service picks them up from the
// input text itself.
func AppendImageSection(text string, urls []string) string {
	if len(urls) == 0 {
		return text
	}
	var b strings.Builder
	b.WriteString(text)
	b.WriteString("\n\n---\n\n# Image resources\n")
	for _, u := range urls {
		b.WriteString(u)
		b.WriteString("\n")
	}
	return b.String()
}
