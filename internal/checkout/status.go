package checkout

type Status string

const (
	StatusAccepted Status = "ACCEPTED"
	StatusRejected Status = "REJECTED"
)

func (s Status) IsTerminal() bool {
	return s == StatusAccepted || s == StatusRejected
}

// String representation (for logging)
func (s Status) String() string {
	return string(s)
}
