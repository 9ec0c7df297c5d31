package opendata

import (
	"fmt"
	"strings"

	"github.com/nfgomez/secop-analyzer/internal/models"
)

// searchColumns lists the raw columns keyword search scans, per record type.
// These name provider-side fields, not canonical ones.
var searchColumns = map[models.RecordType][]string{
	models.RecordTypeProcess: {
		"nombre_del_procedimiento",
		"descripci_n_del_procedimiento",
		"entidad",
		"referencia_del_proceso",
		"id_del_proceso",
	},
	models.RecordTypeContract: {
		"objeto_del_contrato",
		"descripcion_del_proceso",
		"nombre_entidad",
		"proveedor_adjudicado",
		"referencia_del_contrato",
		"id_contrato",
	},
}

// escapeLiteral doubles single quotes so user input cannot break out of a
// $where string literal.
func escapeLiteral(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// exactFilter matches a notice identifier against the embedded process URL,
// case-insensitively.
func exactFilter(noticeUID string) string {
	return fmt.Sprintf("upper(urlproceso.url) like upper('%%%s%%')", escapeLiteral(noticeUID))
}

// keywordFilter ORs a case-insensitive substring condition across the record
// type's searchable columns.
func keywordFilter(rt models.RecordType, term string) string {
	escaped := escapeLiteral(term)
	columns := searchColumns[rt]
	conditions := make([]string, 0, len(columns))
	for _, column := range columns {
		conditions = append(conditions, fmt.Sprintf("upper(%s) like upper('%%%s%%')", column, escaped))
	}
	return strings.Join(conditions, " OR ")
}
