package constants

// Field bounds
const (
	MinPasswordLength = 6
	// bcrypt ignores input past 72 bytes
	MaxPasswordLength = 72
	MaxTitleLength    = 200
)

// Identity
const (
	ShortIDLength = 5
	MaxIDAttempts = 5
)

const MaxAIGeneratedTasks = 20

// Context keys
const (
	ContextKeyRequestID = "request_id"
	ContextKeyEntityID  = "entity_id"
)

const ServiceName = "ABACUS Task Management Application"
