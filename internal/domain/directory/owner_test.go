package directory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOwner(t *testing.T) {
	t.Run("creates active owner", func(t *testing.T) {
		owner, err := NewOwner("C00000001", "Maria", "Santos", "+351900000001", "maria@example.com")

		require.NoError(t, err)
		assert.Equal(t, "C00000001", owner.Code)
		assert.Equal(t, "Maria Santos", owner.FullName())
		assert.Equal(t, OwnerStatusActive, owner.Status)
		assert.Len(t, owner.GetDomainEvents(), 1)
	})

	t.Run("trims name whitespace", func(t *testing.T) {
		owner, err := NewOwner("C00000002", "  Maria ", " Santos ", "", "")

		require.NoError(t, err)
		assert.Equal(t, "Maria", owner.FirstName)
		assert.Equal(t, "Santos", owner.LastName)
	})

	t.Run("rejects missing code or name", func(t *testing.T) {
		_, err := NewOwner("", "Maria", "Santos", "", "")
		assert.Error(t, err)

		_, err = NewOwner("C00000003", "  ", "Santos", "", "")
		assert.Error(t, err)

		_, err = NewOwner("C00000003", "Maria", "", "", "")
		assert.Error(t, err)
	})
}

func TestNewPatient(t *testing.T) {
	ownerID := uuid.New()

	t.Run("creates active patient", func(t *testing.T) {
		patient, err := NewPatient("P00000001", ownerID, "Rex", "dog", "labrador", nil)

		require.NoError(t, err)
		assert.Equal(t, "P00000001", patient.Code)
		assert.Equal(t, ownerID, patient.OwnerID)
		assert.Equal(t, PatientStatusActive, patient.Status)
	})

	t.Run("rejects missing owner or species", func(t *testing.T) {
		_, err := NewPatient("P00000002", uuid.Nil, "Rex", "dog", "", nil)
		assert.Error(t, err)

		_, err = NewPatient("P00000002", ownerID, "Rex", "  ", "", nil)
		assert.Error(t, err)
	})
}
