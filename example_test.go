package mqship_test

import (
	"context"
	"log"

	"github.com/bft-labs/mqship"
	"github.com/bft-labs/mqship/pkg/transport"
)

// Example shows the typical producer setup: two failover groups, a scoped
// transaction, and one immediate send.
func Example() {
	groups := []mqship.EndpointGroup{
		{
			Name:      "primary",
			Endpoints: []mqship.Endpoint{{Host: "broker-a", Port: 61613}},
		},
		{
			Name:           "backup",
			Endpoints:      []mqship.Endpoint{{Host: "broker-b", Port: 61613}},
			ConnectHeaders: mqship.Headers{{Name: "login", Value: "standby"}},
		},
	}

	p, err := mqship.New(groups, transport.DefaultDialer(),
		mqship.WithConnectHeaders(mqship.Headers{{Name: "login", Value: "guest"}}),
		mqship.WithDefaultHeaders(mqship.Headers{{Name: "persistent", Value: "true"}}),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer p.Close()

	ctx := context.Background()

	// Both sends are buffered and delivered together by the commit; if the
	// body returns an error, neither is sent.
	err = p.InTransaction(ctx, func(ctx context.Context) error {
		if err := p.Send(ctx, "/queue/orders", nil, []byte(`{"id":1}`)); err != nil {
			return err
		}
		return p.Send(ctx, "/queue/audit", nil, []byte(`{"id":1,"event":"created"}`))
	})
	if err != nil {
		log.Fatal(err)
	}

	// Outside a transaction, sends deliver immediately.
	if err := p.Send(ctx, "metrics", nil, "orders=1"); err != nil {
		log.Fatal(err)
	}
}
