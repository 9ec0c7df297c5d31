package datasets_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nfgomez/secop-analyzer/internal/datasets"
	"github.com/nfgomez/secop-analyzer/internal/models"
)

func TestDefaultRegistry(t *testing.T) {
	reg := datasets.Default()

	labels := reg.Labels()
	require.Equal(t, []string{
		"SECOP II - Procesos (p6dx-8zbt)",
		"SECOP II - Contratos electrónicos (jbjy-vk9h)",
	}, labels)
	require.Equal(t, labels[0], reg.DefaultLabel())

	procesos, ok := reg.Lookup(labels[0])
	require.True(t, ok)
	require.Equal(t, "p6dx-8zbt", procesos.RemoteID)
	require.Equal(t, models.RecordTypeProcess, procesos.RecordType)
	require.Len(t, procesos.CanonicalFields, 20)

	contratos, ok := reg.Lookup(labels[1])
	require.True(t, ok)
	require.Equal(t, "jbjy-vk9h", contratos.RemoteID)
	require.Equal(t, models.RecordTypeContract, contratos.RecordType)
	require.Len(t, contratos.CanonicalFields, 25)

	_, ok = reg.Lookup("SECOP I")
	require.False(t, ok)
}

// Every descriptor must carry the fields the presentation contract relies on,
// and monetary fields must be a subset of the canonical list.
func TestDescriptorInvariants(t *testing.T) {
	reg := datasets.Default()
	required := []string{"Notice UID", "Entidad contratante", "URL proceso"}

	for _, label := range reg.Labels() {
		desc, ok := reg.Lookup(label)
		require.True(t, ok)

		fields := make(map[string]bool, len(desc.CanonicalFields))
		for _, f := range desc.CanonicalFields {
			fields[f] = true
		}
		for _, f := range required {
			require.True(t, fields[f], "%s missing %q", label, f)
		}
		for f := range desc.MonetaryFields {
			require.True(t, fields[f], "%s monetary field %q not canonical", label, f)
		}
	}
}

func TestNewRegistryOrderAndDuplicates(t *testing.T) {
	reg := datasets.NewRegistry(
		datasets.Entry{Label: "b", Descriptor: models.DatasetDescriptor{RemoteID: "b-1"}},
		datasets.Entry{Label: "a", Descriptor: models.DatasetDescriptor{RemoteID: "a-1"}},
		datasets.Entry{Label: "b", Descriptor: models.DatasetDescriptor{RemoteID: "b-2"}},
	)

	require.Equal(t, []string{"b", "a"}, reg.Labels())
	desc, ok := reg.Lookup("b")
	require.True(t, ok)
	require.Equal(t, "b-1", desc.RemoteID)

	require.Empty(t, datasets.NewRegistry().DefaultLabel())
}
