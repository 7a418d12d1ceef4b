package rpcproto

import "fmt"

// WireException is the generic envelope every typed domain exception (and
// the catch-all ApplicationException) is serialized as. Name identifies
// which declared exception the caller should reconstruct; ErrorCode and
// Message carry the generic ApplicationException payload used for
// unhandled runtime failures.
type WireException struct {
	Name      string `rpc:"1,string"`
	ErrorCode int32  `rpc:"2,i32"`
	Message   string `rpc:"3,string"`
}

// ApplicationException is the generic exception surfaced to a caller when a
// handler fails in a way the service's declared exception taxonomy does not
// cover (infrastructure errors, programming errors that escape handler
// boundaries, protocol errors).
type ApplicationException struct {
	ErrorCode int32
	Message   string
}

func (e *ApplicationException) Error() string {
	return fmt.Sprintf("application exception (code=%d): %s", e.ErrorCode, e.Message)
}

const ApplicationExceptionName = "ApplicationException"

// Generic ApplicationException error codes, mirroring the unknown-method /
// internal-error taxonomy conventionally used by framed RPC protocols.
const (
	ErrCodeUnknownMethod  int32 = 1
	ErrCodeInternalError  int32 = 2
	ErrCodeProtocolError  int32 = 3
	ErrCodeBadSequenceID  int32 = 4
	ErrCodeMissingResult  int32 = 5
)

// DomainException is implemented by every typed exception a service
// declares in its RPC surface (e.g. AccountNotFoundException). Name is the
// wire identifier used to reconstruct the right Go type on the client.
type DomainException interface {
	error
	ExceptionName() string
}

// ExceptionFactory constructs a zero-value DomainException for a wire name
// so the client can decode into the right concrete type.
type ExceptionFactory func() DomainException

// ExceptionRegistry maps wire exception names to constructors, scoped per
// service so that two services can reuse a short exception name (e.g.
// "NotFoundException") without colliding.
type ExceptionRegistry struct {
	byName map[string]ExceptionFactory
}

func NewExceptionRegistry() *ExceptionRegistry {
	return &ExceptionRegistry{byName: map[string]ExceptionFactory{}}
}

func (r *ExceptionRegistry) Register(name string, f ExceptionFactory) {
	r.byName[name] = f
}

// Build reconstructs the exception named by wire, or nil if the registry has
// no handler for it (the caller should fall back to ApplicationException).
func (r *ExceptionRegistry) Build(wire WireException) DomainException {
	f, ok := r.byName[wire.Name]
	if !ok {
		return nil
	}
	exc := f()
	if setter, ok := exc.(interface{ SetMessage(string) }); ok {
		setter.SetMessage(wire.Message)
	}
	return exc
}
