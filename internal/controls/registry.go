package controls

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/KilimcininKorOglu/ldapctrl/internal/ber"
	"github.com/KilimcininKorOglu/ldapctrl/internal/ldap"
	"github.com/KilimcininKorOglu/ldapctrl/internal/logging"
)

// Encodable is a typed control value that knows its OID.
type Encodable interface {
	OID() string
	EncodeValue(engine ber.Engine) ([]byte, error)
}

// ToControl encodes c and wraps it in a control envelope.
func ToControl(engine ber.Engine, c Encodable, critical bool) (ldap.Control, error) {
	value, err := c.EncodeValue(engine)
	if err != nil {
		return ldap.Control{}, err
	}
	return ldap.NewControl(c.OID(), critical, value), nil
}

// CriticalControl marks a control critical when it is wrapped.
type CriticalControl struct {
	Encodable
}

// Critical returns c marked critical.
func Critical(c Encodable) CriticalControl {
	return CriticalControl{Encodable: c}
}

// Control wraps the value in a critical control envelope.
func (c CriticalControl) Control(engine ber.Engine) (ldap.Control, error) {
	return ToControl(engine, c.Encodable, true)
}

// Parser decodes the value of one control type.
type Parser func(engine ber.Engine, value []byte) (Encodable, error)

// Parsed is a received control. Value is nil when the OID is not registered
// or the value was malformed and the control was not critical.
type Parsed struct {
	Raw   ldap.Control
	Value Encodable
}

// Registry maps control OIDs to value parsers.
type Registry struct {
	mu      sync.RWMutex
	parsers map[string]Parser
	engine  ber.Engine
	log     logging.Logger
}

// NewRegistry creates an empty registry. A nil engine selects the native
// engine, a nil logger discards output.
func NewRegistry(engine ber.Engine, log logging.Logger) *Registry {
	if engine == nil {
		engine = ber.Native{}
	}
	if log == nil {
		log = logging.NewNop()
	}
	return &Registry{
		parsers: make(map[string]Parser),
		engine:  engine,
		log:     log,
	}
}

// NewDefaultRegistry creates a registry that knows the paged results control.
func NewDefaultRegistry(engine ber.Engine, log logging.Logger) *Registry {
	r := NewRegistry(engine, log)
	r.Register(PagedResultsOID, parsePagedResults)
	return r
}

func parsePagedResults(engine ber.Engine, value []byte) (Encodable, error) {
	pr, err := NewCodec(engine).Decode(value)
	if err != nil {
		return nil, err
	}
	return pr, nil
}

// Register installs the parser for oid, replacing any previous one.
func (r *Registry) Register(oid string, p Parser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.parsers[oid] = p
}

// Parse decodes the value of ctrl.
//
// A malformed value fails the call only when the control is critical; a
// non-critical control with a bad value is logged and returned raw so the
// rest of the message can still be used.
func (r *Registry) Parse(ctrl ldap.Control) (Parsed, error) {
	r.mu.RLock()
	parse, ok := r.parsers[ctrl.OID]
	r.mu.RUnlock()

	parsed := Parsed{Raw: ctrl}
	if !ok {
		return parsed, nil
	}

	value, err := parse(r.engine, ctrl.Value)
	if err != nil {
		if ctrl.Criticality {
			return parsed, errors.Wrapf(err, "critical control %s", ctrl.OID)
		}
		r.log.Warn("ignoring malformed control", "oid", ctrl.OID, "error", err.Error())
		return parsed, nil
	}

	parsed.Value = value
	return parsed, nil
}

// ParseAll decodes every control in order, stopping at the first critical failure.
func (r *Registry) ParseAll(controls []ldap.Control) ([]Parsed, error) {
	out := make([]Parsed, 0, len(controls))
	for _, ctrl := range controls {
		p, err := r.Parse(ctrl)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// FindPagedResults decodes the first paged results control in controls with
// the native engine. The boolean reports whether one was present.
func FindPagedResults(controls []ldap.Control) (*PagedResults, bool, error) {
	return Codec{}.FindPagedResults(controls)
}
