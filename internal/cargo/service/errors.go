package service

// AuthContext is the capability derived from the shared-secret headers by the
// HTTP layer. Passing it explicitly keeps the gating logic testable without a
// router.
type AuthContext struct {
	// Admin may see plaintext PINs and run maintenance operations.
	Admin bool
	// BypassPin may move a parcel to delivery without the customer PIN.
	BypassPin bool
}

// ValidationError covers missing required fields and malformed batch input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func NewValidationError(msg string) error {
	return &ValidationError{Message: msg}
}

// PinRequiredError is returned when a delivery-location update lacks a valid
// customer PIN. PinCreated tells the client whether a fresh PIN was just
// issued, so it can prompt accordingly.
type PinRequiredError struct {
	PinCreated bool
	Message    string
}

func (e *PinRequiredError) Error() string { return e.Message }
