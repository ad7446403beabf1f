package failure

import (
	"errors"
	"fmt"
)

// Kind classifies a terminal failure of a generation run
type Kind int

const (
	// KindUnknown is returned by KindOf for errors outside the taxonomy
	KindUnknown Kind = iota
	// KindConfiguration covers bad content configs and malformed script markers
	KindConfiguration
	// KindAsset covers images that could not be loaded or decoded
	KindAsset
	// KindEncoder covers codec, container and encoder process failures
	KindEncoder
	// KindCancelled marks a run stopped on purpose by the caller
	KindCancelled
)

// String returns a human-readable name of the kind
func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindAsset:
		return "asset"
	case KindEncoder:
		return "encoder"
	case KindCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// ErrCancelled is the rejection of a run stopped by the caller
var ErrCancelled = &Error{Kind: KindCancelled, Op: "generate", Err: errors.New("generation cancelled")}

// Error carries the failure kind next to the operation that failed
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s failure", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s failure: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrCancelled)
// holds for every cancellation regardless of the operation.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Op == "" || t == ErrCancelled || t.Op == e.Op)
}

// Configuration wraps err as a configuration failure
func Configuration(op string, err error) error {
	return &Error{Kind: KindConfiguration, Op: op, Err: err}
}

// Asset wraps err as an asset failure
func Asset(op string, err error) error {
	return &Error{Kind: KindAsset, Op: op, Err: err}
}

// Encoder wraps err as an encoder failure
func Encoder(op string, err error) error {
	return &Error{Kind: KindEncoder, Op: op, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}
