package datasets

import (
	"github.com/nfgomez/secop-analyzer/internal/models"
)

// ProviderDatasetID is the SECOP II registered-providers dataset. Provider
// rows are returned raw, so it needs no descriptor.
const ProviderDatasetID = "qmzu-gj57"

// Registry is an immutable, ordered set of dataset descriptors keyed by a
// human-readable label. Build one with NewRegistry or use Default.
type Registry struct {
	order   []string
	entries map[string]models.DatasetDescriptor
}

// Entry pairs a selection label with its descriptor.
type Entry struct {
	Label      string
	Descriptor models.DatasetDescriptor
}

// NewRegistry builds a registry preserving entry order. A duplicated label
// keeps the first descriptor.
func NewRegistry(entries ...Entry) Registry {
	r := Registry{
		order:   make([]string, 0, len(entries)),
		entries: make(map[string]models.DatasetDescriptor, len(entries)),
	}
	for _, e := range entries {
		if _, exists := r.entries[e.Label]; exists {
			continue
		}
		r.order = append(r.order, e.Label)
		r.entries[e.Label] = e.Descriptor
	}
	return r
}

// Labels returns the supported dataset labels in registration order.
func (r Registry) Labels() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// DefaultLabel returns the first registered label, or "" for an empty registry.
func (r Registry) DefaultLabel() string {
	if len(r.order) == 0 {
		return ""
	}
	return r.order[0]
}

// Lookup resolves a label to its descriptor.
func (r Registry) Lookup(label string) (models.DatasetDescriptor, bool) {
	desc, ok := r.entries[label]
	return desc, ok
}

// Default returns the registry of SECOP II datasets served by datos.gov.co.
func Default() Registry {
	return NewRegistry(
		Entry{
			Label: "SECOP II - Procesos (p6dx-8zbt)",
			Descriptor: models.DatasetDescriptor{
				RemoteID:   "p6dx-8zbt",
				RecordType: models.RecordTypeProcess,
				CanonicalFields: []string{
					"Notice UID",
					"ID del proceso",
					"Referencia",
					"Entidad contratante",
					"NIT entidad",
					"Estado del procedimiento",
					"Adjudicado",
					"Proveedor adjudicado",
					"NIT proveedor",
					"Modalidad de contratación",
					"Tipo de contrato",
					"Objeto / descripción",
					"Descripción del contrato",
					"Valor del contrato",
					"Presupuesto base",
					"Duración",
					"Ubicación",
					"Fecha de publicación",
					"Fecha de adjudicación",
					"URL proceso",
				},
				MonetaryFields: map[string]bool{
					"Valor del contrato": true,
					"Presupuesto base":   true,
				},
			},
		},
		Entry{
			Label: "SECOP II - Contratos electrónicos (jbjy-vk9h)",
			Descriptor: models.DatasetDescriptor{
				RemoteID:   "jbjy-vk9h",
				RecordType: models.RecordTypeContract,
				CanonicalFields: []string{
					"Notice UID",
					"ID del proceso",
					"ID del contrato",
					"Referencia",
					"Entidad contratante",
					"NIT entidad",
					"Estado del contrato",
					"Adjudicado",
					"Proveedor adjudicado",
					"NIT proveedor",
					"Modalidad de contratación",
					"Tipo de contrato",
					"Objeto / descripción",
					"Descripción del contrato",
					"Valor del contrato",
					"Valor facturado",
					"Valor pagado",
					"Valor pendiente de pago",
					"Valor pago adelantado",
					"Duración",
					"Ubicación",
					"Fecha de firma",
					"Fecha de inicio",
					"Fecha de fin",
					"URL proceso",
				},
				MonetaryFields: map[string]bool{
					"Valor del contrato":      true,
					"Valor facturado":         true,
					"Valor pagado":            true,
					"Valor pendiente de pago": true,
					"Valor pago adelantado":   true,
				},
			},
		},
	)
}
