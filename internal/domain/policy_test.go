package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-ClinicBookingService/pkg/ptr"
)

func TestDefaultBookingPolicy(t *testing.T) {
	assert.Equal(t, BookingPolicy{
		MaxAdvanceDays:     60,
		MinAdvanceHours:    2,
		CancellationHours:  24,
		AllowOnlineBooking: true,
	}, DefaultBookingPolicy())
}

func TestBookingPolicy_ApplyAndValidate(t *testing.T) {
	policy := DefaultBookingPolicy().Apply(BookingPolicyPatch{
		MinAdvanceHours:    ptr.Ptr(4),
		AllowOnlineBooking: ptr.Ptr(false),
	})

	assert.Equal(t, 4, policy.MinAdvanceHours)
	assert.Equal(t, 60, policy.MaxAdvanceDays)
	assert.False(t, policy.AllowOnlineBooking)
	assert.NoError(t, policy.Validate())

	tooFar := policy.Apply(BookingPolicyPatch{MaxAdvanceDays: ptr.Ptr(366)})
	assert.ErrorIs(t, tooFar.Validate(), ErrInvalidPolicy)

	negative := policy.Apply(BookingPolicyPatch{CancellationHours: ptr.Ptr(-1)})
	assert.ErrorIs(t, negative.Validate(), ErrInvalidPolicy)
}

func TestBookingPolicy_LimitsMessage(t *testing.T) {
	msg := DefaultBookingPolicy().LimitsMessage()
	assert.Contains(t, msg, "2 hours")
	assert.Contains(t, msg, "60 days")

	disabled := DefaultBookingPolicy()
	disabled.AllowOnlineBooking = false
	assert.Contains(t, disabled.LimitsMessage(), "disabled")
}
