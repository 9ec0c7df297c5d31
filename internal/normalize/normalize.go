package normalize

import (
	"strconv"
	"strings"

	"github.com/nfgomez/secop-analyzer/internal/models"
)

// Func maps one raw row and a notice identifier onto the canonical field set
// of its record type. The returned record still needs Sanitize.
type Func func(row models.RawRow, noticeUID string) models.CanonicalRecord

// ForType returns the normalizer matching the record type.
func ForType(rt models.RecordType) (Func, bool) {
	switch rt {
	case models.RecordTypeProcess:
		return Process, true
	case models.RecordTypeContract:
		return Contract, true
	}
	return nil, false
}

// Process maps a row of the procesos dataset (p6dx-8zbt).
func Process(row models.RawRow, noticeUID string) models.CanonicalRecord {
	return models.CanonicalRecord{
		"Notice UID":                noticeUID,
		"ID del proceso":            field(row, "id_del_proceso"),
		"Referencia":                field(row, "referencia_del_proceso"),
		"Entidad contratante":       field(row, "entidad"),
		"NIT entidad":               field(row, "nit_entidad"),
		"Estado del procedimiento":  PickFirst(row, "estado_del_procedimiento", "estado_resumen"),
		"Adjudicado":                field(row, "adjudicado"),
		"Proveedor adjudicado":      PickFirst(row, "nombre_del_proveedor", "nombre_del_adjudicador"),
		"NIT proveedor":             field(row, "nit_del_proveedor_adjudicado"),
		"Modalidad de contratación": field(row, "modalidad_de_contratacion"),
		"Tipo de contrato":          field(row, "tipo_de_contrato"),
		// The two description fields deliberately prefer opposite sources so
		// both texts surface when the source populates both.
		"Objeto / descripción":      PickFirst(row, "nombre_del_procedimiento", "descripci_n_del_procedimiento"),
		"Descripción del contrato":  PickFirst(row, "descripci_n_del_procedimiento", "nombre_del_procedimiento"),
		"Valor del contrato":        PickFirst(row, "valor_total_adjudicacion", "precio_base"),
		"Presupuesto base":          field(row, "precio_base"),
		"Duración":                  contractTerm(row),
		"Ubicación":                 joinLocation(row, "ciudad_entidad", "departamento_entidad"),
		"Fecha de publicación":      field(row, "fecha_de_publicacion_del"),
		"Fecha de adjudicación":     field(row, "fecha_adjudicacion"),
		"URL proceso":               embeddedURL(row),
	}
}

// Contract maps a row of the contratos electrónicos dataset (jbjy-vk9h).
func Contract(row models.RawRow, noticeUID string) models.CanonicalRecord {
	adjudicado := field(row, "adjudicado")
	if adjudicado == "" {
		adjudicado = field(row, "estado_contrato")
	}
	return models.CanonicalRecord{
		"Notice UID":                noticeUID,
		"ID del proceso":            field(row, "proceso_de_compra"),
		"ID del contrato":           field(row, "id_contrato"),
		"Referencia":                field(row, "referencia_del_contrato"),
		"Entidad contratante":       field(row, "nombre_entidad"),
		"NIT entidad":               field(row, "nit_entidad"),
		"Estado del contrato":       field(row, "estado_contrato"),
		"Adjudicado":                adjudicado,
		"Proveedor adjudicado":      field(row, "proveedor_adjudicado"),
		"NIT proveedor":             field(row, "documento_proveedor"),
		"Modalidad de contratación": field(row, "modalidad_de_contratacion"),
		"Tipo de contrato":          field(row, "tipo_de_contrato"),
		// Same reversed preference as the procesos variant.
		"Objeto / descripción":      PickFirst(row, "objeto_del_contrato", "descripcion_del_proceso"),
		"Descripción del contrato":  PickFirst(row, "descripcion_del_proceso", "objeto_del_contrato"),
		"Valor del contrato":        field(row, "valor_del_contrato"),
		"Valor facturado":           field(row, "valor_facturado"),
		"Valor pagado":              field(row, "valor_pagado"),
		"Valor pendiente de pago":   field(row, "valor_pendiente_de_pago"),
		"Valor pago adelantado":     field(row, "valor_de_pago_adelantado"),
		"Duración":                  field(row, "duraci_n_del_contrato"),
		"Ubicación":                 joinLocation(row, "ciudad", "departamento"),
		"Fecha de firma":            field(row, "fecha_de_firma"),
		"Fecha de inicio":           field(row, "fecha_de_inicio_del_contrato"),
		"Fecha de fin":              field(row, "fecha_de_fin_del_contrato"),
		"URL proceso":               embeddedURL(row),
	}
}

// PickFirst returns the first populated value among the named raw fields.
// A value counts as unpopulated when it is absent, empty, or exactly the
// upstream "NULL"/"null" sentinels.
func PickFirst(row models.RawRow, keys ...string) string {
	for _, key := range keys {
		if v := field(row, key); !emptyLike(v) {
			return v
		}
	}
	return ""
}

func emptyLike(v string) bool {
	return v == "" || v == "NULL" || v == "null"
}

// field reads a raw scalar as a string. Non-scalar or unexpected shapes
// degrade to "" rather than failing the record.
func field(row models.RawRow, key string) string {
	switch v := row[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// contractTerm composes the procesos duration as "<quantity> <unit>",
// degrading to the quantity alone when the unit is missing.
func contractTerm(row models.RawRow) string {
	quantity := field(row, "duracion")
	unit := field(row, "unidad_de_duracion")
	switch {
	case quantity != "" && unit != "":
		return quantity + " " + unit
	case quantity != "":
		return quantity
	default:
		return ""
	}
}

// joinLocation joins city then department with ", ", skipping whichever is
// empty.
func joinLocation(row models.RawRow, cityKey, departmentKey string) string {
	parts := make([]string, 0, 2)
	if city := field(row, cityKey); city != "" {
		parts = append(parts, city)
	}
	if department := field(row, departmentKey); department != "" {
		parts = append(parts, department)
	}
	return strings.Join(parts, ", ")
}

// embeddedURL reads the url key nested under the urlproceso object. Absent or
// oddly shaped objects yield "".
func embeddedURL(row models.RawRow) string {
	nested, ok := row["urlproceso"].(map[string]any)
	if !ok {
		return ""
	}
	u, _ := nested["url"].(string)
	return u
}
