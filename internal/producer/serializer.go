package producer

import (
	"fmt"

	"github.com/bft-labs/mqship/internal/domain"
)

// passthroughSerializer is the default serializer: byte sequences pass
// through unchanged, anything structured is rejected.
type passthroughSerializer struct{}

func (passthroughSerializer) Serialize(body any) ([]byte, error) {
	switch v := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, &domain.SerializationError{
			Cause: fmt.Errorf("unsupported body type %T", body),
		}
	}
}
