package domain

// Service is a bookable clinic service
type Service struct {
	ID              int64
	Name            string
	DurationMinutes int
	IsActive        bool
	Availability    string // raw ServiceAvailability JSON, empty if not configured
}

// Staff is a clinic staff member who runs appointments
type Staff struct {
	ID           int64
	Name         string
	IsActive     bool
	WorkingHours string // raw StaffWorkingHours JSON, empty if not configured
}
