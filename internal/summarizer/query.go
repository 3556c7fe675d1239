package summarizer

import "strings"

type QueryKind string

const (
	KindEmpty   QueryKind = "empty"
	KindHashtag QueryKind = "hashtag"
	KindAccount QueryKind = "account"
	KindKeyword QueryKind = "keyword"
)

// ClassifyQuery guesses what the user searched for: a #hashtag, an
// @account, or plain keywords. The first sigil-prefixed word wins.
func ClassifyQuery(query string) QueryKind {
	q := strings.TrimSpace(query)
	if q == "" {
		return KindEmpty
	}
	for _, word := range strings.Fields(q) {
		switch {
		case len(word) > 1 && strings.HasPrefix(word, "#"):
			return KindHashtag
		case len(word) > 1 && strings.HasPrefix(word, "@"):
			return KindAccount
		}
	}
	return KindKeyword
}
