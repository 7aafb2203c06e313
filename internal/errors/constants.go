package errors

// Error message constants
const (
	ErrMsgInvalidOrderID  = "Order ID must be a positive integer"
	ErrMsgInfoRequired    = "Info payload is required"
	ErrMsgInfoExists      = "Order already has info recorded"
	ErrMsgOrderNotFound   = "Order not found"
	ErrMsgInfoNotFound    = "Order info not found"
	ErrMsgMigrationStatus = "Failed to read migration status"
)
