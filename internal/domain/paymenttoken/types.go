package paymenttoken

// ConsumeKind tells a capture from a release. Both remove the token; the
// kind only matters to the caller's own bookkeeping.
type ConsumeKind string

const (
	ConsumeCapture ConsumeKind = "capture"
	ConsumeCancel  ConsumeKind = "cancel"
)

func (k ConsumeKind) String() string {
	return string(k)
}

func (k ConsumeKind) IsValid() bool {
	switch k {
	case ConsumeCapture, ConsumeCancel:
		return true
	default:
		return false
	}
}
