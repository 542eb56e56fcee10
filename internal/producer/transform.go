package producer

import (
	"fmt"
	"sync"

	"github.com/bft-labs/mqship/internal/domain"
	"github.com/bft-labs/mqship/internal/ports"
)

// TransformerSpec names a transformer either by a pre-built instance or by a
// name registered with RegisterTransformer. Exactly one field is set; specs
// are resolved once, at producer construction.
type TransformerSpec struct {
	Instance ports.Transformer
	Name     string
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]func() ports.Transformer)
)

// RegisterTransformer makes a transformer constructor available for
// resolution by name, typically from file configuration. Registering the
// same name twice panics.
func RegisterTransformer(name string, factory func() ports.Transformer) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := registry[name]; dup {
		panic("mqship: transformer registered twice: " + name)
	}
	registry[name] = factory
}

func resolveTransformers(specs []TransformerSpec) ([]ports.Transformer, error) {
	out := make([]ports.Transformer, 0, len(specs))
	for _, spec := range specs {
		switch {
		case spec.Instance != nil:
			out = append(out, spec.Instance)
		case spec.Name != "":
			registryMu.RLock()
			factory := registry[spec.Name]
			registryMu.RUnlock()
			if factory == nil {
				return nil, fmt.Errorf("mqship: unknown transformer %q", spec.Name)
			}
			out = append(out, factory())
		default:
			return nil, fmt.Errorf("mqship: empty transformer spec")
		}
	}
	return out, nil
}

// applyTransformers runs input through each transformer in order, fanning
// out: the messages one transformer produces feed into the next. Messages
// from a validating transformer are checked before they continue; a failure
// drops the message and surfaces a *domain.ValidationError.
func applyTransformers(transformers []ports.Transformer, input any) ([]ports.Message, error) {
	inputs := []any{input}
	var msgs []ports.Message

	for _, tr := range transformers {
		msgs = msgs[:0]
		for _, in := range inputs {
			produced, err := tr.Transform(in)
			if err != nil {
				return nil, err
			}
			if v, ok := tr.(ports.Validator); ok {
				for _, m := range produced {
					valid, verr := v.Validate(m)
					if verr != nil {
						return nil, &domain.ValidationError{Cause: verr}
					}
					if !valid {
						return nil, &domain.ValidationError{}
					}
				}
			}
			msgs = append(msgs, produced...)
		}
		inputs = inputs[:0]
		for _, m := range msgs {
			inputs = append(inputs, m)
		}
	}

	if len(transformers) == 0 {
		return nil, nil
	}
	out := make([]ports.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}
