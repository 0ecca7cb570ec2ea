package normalize

import (
	"slices"
	"strings"
)

// Reason names the first title rule a link failed.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonBlank
	ReasonMeta // mentions "wikipedia" or "disambiguation"
	ReasonDigit
	ReasonNamespace
	ReasonPeriod
	ReasonNonASCII
)

var reasonNames = [...]string{
	ReasonNone:      "none",
	ReasonBlank:     "blank",
	ReasonMeta:      "meta",
	ReasonDigit:     "digit",
	ReasonNamespace: "namespace",
	ReasonPeriod:    "period",
	ReasonNonASCII:  "non_ascii",
}

func (r Reason) String() string {
	if r < 0 || int(r) >= len(reasonNames) {
		return "unknown"
	}
	return reasonNames[r]
}

// InvalidReason returns the first rule title breaks, or ReasonNone.
func InvalidReason(title string) Reason {
	if strings.TrimSpace(title) == "" {
		return ReasonBlank
	}
	lower := strings.ToLower(title)
	if strings.Contains(lower, "wikipedia") || strings.Contains(lower, "disambiguation") {
		return ReasonMeta
	}
	if strings.ContainsAny(title, "0123456789") {
		return ReasonDigit
	}
	if strings.Contains(title, ":") {
		return ReasonNamespace
	}
	if strings.Contains(title, ".") {
		return ReasonPeriod
	}
	for i := 0; i < len(title); i++ {
		if title[i] >= 0x80 {
			return ReasonNonASCII
		}
	}
	return ReasonNone
}

// IsValidTitle reports whether title looks like a plain article title.
func IsValidTitle(title string) bool {
	return InvalidReason(title) == ReasonNone
}

// LinkReport is the outcome of filtering a parse=links response.
type LinkReport struct {
	// Titles is sorted ascending and duplicate free.
	Titles []string
	// Rejected counts dropped link entries by rule.
	Rejected map[Reason]int
}

// AnalyzeLinks extracts parse.links[]["*"] from doc, keeps the valid titles,
// and returns them sorted and de-duplicated along with per-rule rejections.
func AnalyzeLinks(doc RawDocument) LinkReport {
	report := LinkReport{Titles: []string{}, Rejected: map[Reason]int{}}

	links, ok := Root(doc).Path("parse", "links").Items()
	if !ok {
		return report
	}
	for _, link := range links {
		title, ok := link.Get("*").String()
		if !ok {
			continue
		}
		if reason := InvalidReason(title); reason != ReasonNone {
			report.Rejected[reason]++
			continue
		}
		report.Titles = append(report.Titles, title)
	}

	slices.Sort(report.Titles)
	report.Titles = slices.Compact(report.Titles)
	return report
}

// ExtractLinks returns the sorted, unique, valid link titles in doc.
func ExtractLinks(doc RawDocument) []string {
	return AnalyzeLinks(doc).Titles
}
