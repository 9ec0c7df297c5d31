package models

// RecordType identifies which normalization rules apply to a dataset.
type RecordType string

const (
	RecordTypeProcess  RecordType = "procesos"
	RecordTypeContract RecordType = "contratos"
)

// RawRow is one row exactly as the open-data portal returned it. Field names
// vary per dataset and values may be nested one level (urlproceso.url).
type RawRow map[string]any

// CanonicalRecord maps canonical field names to display-ready string values.
// After sanitation every value is either a non-empty trimmed string or the
// "No disponible" sentinel.
type CanonicalRecord map[string]string

// DatasetDescriptor describes one supported open-data dataset.
type DatasetDescriptor struct {
	// RemoteID is the Socrata resource identifier (e.g. "p6dx-8zbt").
	RemoteID string
	// RecordType selects the normalization variant.
	RecordType RecordType
	// CanonicalFields lists the output fields in presentation order.
	CanonicalFields []string
	// MonetaryFields marks which canonical fields callers should
	// currency-format. Values are stored unformatted.
	MonetaryFields map[string]bool
}
