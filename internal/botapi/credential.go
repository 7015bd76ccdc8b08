package botapi

import (
	"errors"
	"fmt"

	"github.com/dayuer/tgmux/internal/connector"
)

// Class selects one of a credential's three connector bindings.
type Class int

const (
	ClassLow Class = iota
	ClassHigh
	ClassReceive
)

func (c Class) String() string {
	switch c {
	case ClassLow:
		return "low"
	case ClassHigh:
		return "high"
	case ClassReceive:
		return "receive"
	default:
		return fmt.Sprintf("class(%d)", int(c))
	}
}

var (
	ErrEmptyToken   = errors.New("empty token")
	ErrNoCredential = errors.New("no such credential")
)

// Credential is one bot token with its three independent connectors, so
// long polls never queue behind sends and high-priority sends never queue
// behind low-priority ones.
type Credential struct {
	Token   string
	Low     connector.Connector
	High    connector.Connector
	Receive connector.Connector
}

func (c *Credential) binding(class Class) connector.Connector {
	switch class {
	case ClassHigh:
		return c.High
	case ClassReceive:
		return c.Receive
	default:
		return c.Low
	}
}

// Registry holds credentials by index. Indices are assigned in registration
// order and never change.
type Registry struct {
	creds []Credential
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register builds the three connectors for token and returns its index. On
// failure nothing is added.
func (r *Registry) Register(token string, factory connector.Factory) (int, error) {
	idx := len(r.creds)
	if token == "" {
		return -1, &Error{Kind: KindConfiguration, Op: "register", Index: idx, Err: ErrEmptyToken}
	}

	var conns [3]connector.Connector
	for i := range conns {
		c, err := factory()
		if err != nil {
			return -1, &Error{Kind: KindConfiguration, Op: "register", Index: idx,
				Err: fmt.Errorf("build %s connector: %w", Class(i), err)}
		}
		conns[i] = c
	}

	r.creds = append(r.creds, Credential{
		Token:   token,
		Low:     conns[ClassLow],
		High:    conns[ClassHigh],
		Receive: conns[ClassReceive],
	})
	return idx, nil
}

// Get returns the token and connector bound to (index, class).
func (r *Registry) Get(index int, class Class) (string, connector.Connector, error) {
	if index < 0 || index >= len(r.creds) {
		return "", nil, &Error{Kind: KindConfiguration, Op: "get", Index: index,
			Err: fmt.Errorf("%w (have %d)", ErrNoCredential, len(r.creds))}
	}
	c := &r.creds[index]
	return c.Token, c.binding(class), nil
}

// Len returns the number of registered credentials.
func (r *Registry) Len() int {
	return len(r.creds)
}
