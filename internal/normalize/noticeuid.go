package normalize

import (
	"net/url"

	"github.com/nfgomez/secop-analyzer/internal/models"
)

// noticeKeys are checked in this exact order; the first key carrying a
// populated first value wins.
var noticeKeys = []string{"noticeUID", "noticeUid", "noticeuid", "NoticeUID"}

// NoticeUID extracts the notice identifier from a SECOP detail URL's query
// string. Returns "" when the input is not a parseable URL or no identifier
// key is present; malformed input never panics.
func NoticeUID(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	params := parsed.Query()
	for _, key := range noticeKeys {
		if values := params[key]; len(values) > 0 && values[0] != "" {
			return values[0]
		}
	}
	return ""
}

// NoticeUIDFromRow recovers a notice identifier from the row's embedded
// urlproceso.url field. Best effort: a missing or malformed URL yields "",
// which sanitation later turns into the sentinel.
func NoticeUIDFromRow(row models.RawRow) string {
	return NoticeUID(embeddedURL(row))
}
