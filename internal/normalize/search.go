package normalize

// SearchResult is the simplified shape of a full-text search response.
// Titles keep upstream relevance order.
type SearchResult struct {
	TotalHits int64    `json:"totalhits"`
	Titles    []string `json:"search"`
}

// EmptySearchResult is returned whenever the upstream document is unusable.
func EmptySearchResult() SearchResult {
	return SearchResult{TotalHits: 0, Titles: []string{}}
}

// NormalizeSearch reads query.searchinfo.totalhits and query.search[].title
// out of an action=query&list=search response. Missing or mistyped fields
// degrade to their zero value; it never fails.
func NormalizeSearch(doc RawDocument) SearchResult {
	query := Root(doc).Get("query")
	if !query.IsObject() {
		return EmptySearchResult()
	}

	result := EmptySearchResult()
	if hits, ok := query.Path("searchinfo", "totalhits").Int(); ok && hits > 0 {
		result.TotalHits = hits
	}

	entries, ok := query.Get("search").Items()
	if !ok {
		return result
	}
	for _, entry := range entries {
		if title, ok := entry.Get("title").String(); ok {
			result.Titles = append(result.Titles, title)
		}
	}
	return result
}
