package protocol

// ErrorMessage reports a failed patch to the remote side.
type ErrorMessage struct {
	Code    string // Reconciler error code, e.g. "R003"
	Message string // Human-readable error message
	Fatal   bool   // If true, the session should be closed
}

// EncodeErrorMessage encodes an ErrorMessage to bytes.
func EncodeErrorMessage(em *ErrorMessage) []byte {
	e := NewEncoder()
	e.WriteString(em.Code)
	e.WriteString(em.Message)
	e.WriteBool(em.Fatal)
	return e.Bytes()
}

// DecodeErrorMessage decodes an ErrorMessage from bytes.
func DecodeErrorMessage(data []byte) (*ErrorMessage, error) {
	d := NewDecoder(data)

	code, err := d.ReadString()
	if err != nil {
		return nil, err
	}
	message, err := d.ReadString()
	if err != nil {
		return nil, err
	}
	fatal, err := d.ReadBool()
	if err != nil {
		return nil, err
	}

	return &ErrorMessage{Code: code, Message: message, Fatal: fatal}, nil
}

// ErrorFrame wraps an ErrorMessage in a FrameError frame.
func ErrorFrame(em *ErrorMessage) *Frame {
	return NewFrame(FrameError, EncodeErrorMessage(em))
}

// Error implements the error interface.
func (em *ErrorMessage) Error() string {
	if em.Fatal {
		return "fatal: " + em.Code + ": " + em.Message
	}
	return em.Code + ": " + em.Message
}
