package normalize

import (
	"strings"
	"time"

	"github.com/nfgomez/secop-analyzer/internal/models"
)

// Sentinel replaces any missing or empty canonical field value.
const Sentinel = "No disponible"

// consultadoLayout formats the retrieval stamp carried by every record.
const consultadoLayout = "2006-01-02 15:04:05"

// Sanitize trims every field, replaces values that end up empty with the
// sentinel, and stamps the record with the retrieval time. It runs on every
// record regardless of type or lookup path; it is the single point that
// guarantees no field is ever absent or empty.
func Sanitize(rec models.CanonicalRecord, now time.Time) models.CanonicalRecord {
	for key, value := range rec {
		value = strings.TrimSpace(value)
		if value == "" {
			value = Sentinel
		}
		rec[key] = value
	}
	rec["Consultado"] = now.Format(consultadoLayout)
	return rec
}
