package ranch99

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/lukman83/baydeals/internal/textparse"
)

// Section is one ad block: a named flyer image with its validity text.
type Section struct {
	Name     string
	Date     string
	ImageURL string
}

var (
	activityRe = regexp.MustCompile(`"name"\s*:\s*"([^"]+)"[^}]*"date"\s*:\s*"([^"]+)"[^}]*"imageUrl"\s*:\s*"([^"]+)"`)
	nextURLRe  = regexp.MustCompile(`url=([^&]+)`)
	dateRe     = regexp.MustCompile(`([A-Z][a-z]{2})\.(\d{1,2})\s*-\s*([A-Z][a-z]{2})\.(\d{1,2})`)
)

var months = map[string]int{
	"Jan": 1, "Feb": 2, "Mar": 3, "Apr": 4, "May": 5, "Jun": 6,
	"Jul": 7, "Aug": 8, "Sep": 9, "Oct": 10, "Nov": 11, "Dec": 12,
}

// ExtractSections reads ad sections from the hydration data embedded in
// the page's scripts, falling back to rendered flyer images.
func ExtractSections(doc *goquery.Document) []Section {
	var out []Section
	doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		// Hydration payloads are JSON inside JS string literals.
		text := strings.ReplaceAll(s.Text(), `\"`, `"`)
		for _, m := range activityRe.FindAllStringSubmatch(text, -1) {
			out = append(out, Section{Name: m[1], Date: m[2], ImageURL: m[3]})
		}
	})
	if len(out) > 0 {
		return out
	}

	doc.Find("img").Each(func(_ int, img *goquery.Selection) {
		src := img.AttrOr("src", "")
		if src == "" {
			src = img.AttrOr("data-src", "")
		}
		if !strings.Contains(src, "99ranch") || !isFlyerImage(src) {
			return
		}
		out = append(out, Section{Name: "Weekly Deal", ImageURL: unwrapImageURL(src)})
	})
	return out
}

func isFlyerImage(src string) bool {
	return strings.Contains(src, ".jpeg") || strings.Contains(src, ".jpg") || strings.Contains(src, ".png")
}

// unwrapImageURL extracts the original image from a Next.js optimised
// image URL (/_next/image?url=...&w=...).
func unwrapImageURL(src string) string {
	m := nextURLRe.FindStringSubmatch(src)
	if m == nil {
		return src
	}
	u, err := url.PathUnescape(m[1])
	if err != nil {
		return src
	}
	return u
}

// ParseDates reads "Feb.13 - Feb.19". The year comes from now; a
// December-to-January range spans the year boundary, and when now is
// already in January the December start belongs to the previous year.
func ParseDates(text string, now time.Time) (textparse.DateRange, bool) {
	m := dateRe.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return textparse.DateRange{}, false
	}
	sm, ok1 := months[m[1]]
	em, ok2 := months[m[3]]
	if !ok1 || !ok2 {
		return textparse.DateRange{}, false
	}

	startYear := now.Year()
	endYear := startYear
	if sm == 12 && em == 1 {
		if now.Month() == time.January {
			startYear--
		} else {
			endYear++
		}
	}
	r := textparse.DateRange{
		Start:  textparse.ISODate(strconv.Itoa(startYear), strconv.Itoa(sm), m[2]),
		Expiry: textparse.ISODate(strconv.Itoa(endYear), strconv.Itoa(em), m[4]),
	}
	if !r.Valid() {
		return textparse.DateRange{}, false
	}
	return r, true
}

// FallbackWeek is the Thursday-to-Wednesday week used when a section has
// no date.
func FallbackWeek(now time.Time) textparse.DateRange {
	return textparse.WeekWindow(now, time.Thursday)
}
