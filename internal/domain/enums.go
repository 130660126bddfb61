package domain

// AppointmentStatus represents the lifecycle of a calendar appointment.
type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusNoShow    AppointmentStatus = "no_show"
)

// ImportStatus represents the lifecycle of a queued document import.
type ImportStatus string

const (
	ImportStatusQueued     ImportStatus = "queued"
	ImportStatusProcessing ImportStatus = "processing"
	ImportStatusCompleted  ImportStatus = "completed"
	ImportStatusFailed     ImportStatus = "failed"
)

// DocumentCategory values assigned by the categorization collaborator.
const (
	CategoryProgressNotes  = "progress-notes"
	CategoryAssessment     = "assessment"
	CategoryTreatmentPlan  = "treatment-plan"
	CategoryIntakeForm     = "intake-form"
	CategoryCorrespondence = "correspondence"
	CategoryUncategorized  = "uncategorized"
)
