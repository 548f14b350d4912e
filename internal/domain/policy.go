package domain

import "fmt"

// BookingPolicy is the clinic-wide temporal policy for online bookings
type BookingPolicy struct {
	MaxAdvanceDays     int  `json:"maxAdvanceDays"`
	MinAdvanceHours    int  `json:"minAdvanceHours"`
	CancellationHours  int  `json:"cancellationHours"`
	AllowOnlineBooking bool `json:"allowOnlineBooking"`
}

// DefaultBookingPolicy returns the policy used when settings are unavailable
func DefaultBookingPolicy() BookingPolicy {
	return BookingPolicy{
		MaxAdvanceDays:     DefaultMaxAdvanceDays,
		MinAdvanceHours:    DefaultMinAdvanceHours,
		CancellationHours:  DefaultCancellationHours,
		AllowOnlineBooking: DefaultAllowOnlineBooking,
	}
}

// LimitsMessage renders the human-readable booking limits
func (p BookingPolicy) LimitsMessage() string {
	if !p.AllowOnlineBooking {
		return fmt.Sprintf("online booking is currently disabled; bookings are accepted from %d hours up to %d days in advance through the clinic",
			p.MinAdvanceHours, p.MaxAdvanceDays)
	}
	return fmt.Sprintf("bookings are accepted from %d hours up to %d days in advance; free cancellation up to %d hours before",
		p.MinAdvanceHours, p.MaxAdvanceDays, p.CancellationHours)
}

// BookingPolicyPatch is a partial update of the policy
type BookingPolicyPatch struct {
	MaxAdvanceDays     *int  `json:"maxAdvanceDays,omitempty"`
	MinAdvanceHours    *int  `json:"minAdvanceHours,omitempty"`
	CancellationHours  *int  `json:"cancellationHours,omitempty"`
	AllowOnlineBooking *bool `json:"allowOnlineBooking,omitempty"`
}

// Apply returns a copy of the policy with the patch applied
func (p BookingPolicy) Apply(patch BookingPolicyPatch) BookingPolicy {
	if patch.MaxAdvanceDays != nil {
		p.MaxAdvanceDays = *patch.MaxAdvanceDays
	}
	if patch.MinAdvanceHours != nil {
		p.MinAdvanceHours = *patch.MinAdvanceHours
	}
	if patch.CancellationHours != nil {
		p.CancellationHours = *patch.CancellationHours
	}
	if patch.AllowOnlineBooking != nil {
		p.AllowOnlineBooking = *patch.AllowOnlineBooking
	}
	return p
}

// Validate checks the administrative bounds of the policy
func (p BookingPolicy) Validate() error {
	if p.MaxAdvanceDays < 0 || p.MaxAdvanceDays > MaxAdvanceDaysLimit {
		return fmt.Errorf("%w: maxAdvanceDays must be between 0 and %d", ErrInvalidPolicy, MaxAdvanceDaysLimit)
	}
	if p.MinAdvanceHours < 0 || p.MinAdvanceHours > MaxMinAdvanceHours {
		return fmt.Errorf("%w: minAdvanceHours must be between 0 and %d", ErrInvalidPolicy, MaxMinAdvanceHours)
	}
	if p.CancellationHours < 0 || p.CancellationHours > MaxCancellationHours {
		return fmt.Errorf("%w: cancellationHours must be between 0 and %d", ErrInvalidPolicy, MaxCancellationHours)
	}
	return nil
}
