package scheduling

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestAppointment(t *testing.T) *Appointment {
	appt, err := NewAppointment(uuid.New(), uuid.New(), time.Now().Add(24*time.Hour), "annual checkup")
	require.NoError(t, err)
	return appt
}

func TestAppointmentLifecycle(t *testing.T) {
	t.Run("scheduled to in progress to completed", func(t *testing.T) {
		appt := createTestAppointment(t)
		assert.Equal(t, AppointmentStatusScheduled, appt.Status)

		require.NoError(t, appt.Start())
		assert.Equal(t, AppointmentStatusInProgress, appt.Status)

		require.NoError(t, appt.Complete())
		assert.Equal(t, AppointmentStatusCompleted, appt.Status)
		require.NotNil(t, appt.CompletedAt)
	})

	t.Run("complete is allowed straight from scheduled", func(t *testing.T) {
		appt := createTestAppointment(t)
		require.NoError(t, appt.Complete())
		assert.Equal(t, AppointmentStatusCompleted, appt.Status)
	})

	t.Run("terminal states block transitions", func(t *testing.T) {
		appt := createTestAppointment(t)
		require.NoError(t, appt.Complete())

		assert.Error(t, appt.Complete())
		assert.Error(t, appt.Cancel())
		assert.Error(t, appt.Start())
	})

	t.Run("cancel before completion", func(t *testing.T) {
		appt := createTestAppointment(t)
		require.NoError(t, appt.Cancel())
		assert.Equal(t, AppointmentStatusCancelled, appt.Status)
	})
}

func TestNewAppointment_Validation(t *testing.T) {
	_, err := NewAppointment(uuid.Nil, uuid.New(), time.Now(), "checkup")
	assert.Error(t, err)

	_, err = NewAppointment(uuid.New(), uuid.Nil, time.Now(), "checkup")
	assert.Error(t, err)

	_, err = NewAppointment(uuid.New(), uuid.New(), time.Time{}, "checkup")
	assert.Error(t, err)

	_, err = NewAppointment(uuid.New(), uuid.New(), time.Now(), " ")
	assert.Error(t, err)
}
