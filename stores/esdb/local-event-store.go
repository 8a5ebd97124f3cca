package esdbstore

import (
	"fmt"

	"github.com/EventStore/EventStore-Client-Go/esdb"
)

// NewLocalEventStore connects to a local, insecure esdb instance.
func NewLocalEventStore(options ...EventStoreOption) (*ESDBEventStore, error) {
	connection := fmt.Sprintf("esdb://admin:changeit@%s:%s?tls=false", "localhost", "2113")

	settings, err := esdb.ParseConnectionString(connection)
	if err != nil {
		return nil, err
	}

	client, err := esdb.NewClient(settings)
	if err != nil {
		return nil, err
	}

	return NewEventStore(client, options...), nil
}
