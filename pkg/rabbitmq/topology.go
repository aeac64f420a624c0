package rabbitmq

import (
	"fmt"
	"slices"
)

// Exchange names shared with the dispatch services.
const (
	RideExchange         = "ride_topic"
	DriverExchange       = "driver_topic"
	FleetExchange        = "fleet_topic"
	NotificationExchange = "notification_topic"
)

const (
	ConsoleRefreshQueue = "console_refresh"
	SMSBroadcastQueue   = "sms_broadcast"
)

type Exchange struct {
	Name string
	Kind string
}

type Binding struct {
	Queue      string
	RoutingKey string
	Exchange   string
}

// Topology is the set of exchanges, durable queues and bindings a service
// declares on every (re)connect.
type Topology struct {
	Exchanges []Exchange
	Queues    []string
	Bindings  []Binding
}

// ConsoleTopology is what the operations console consumes from and
// publishes to.
func ConsoleTopology() Topology {
	return Topology{
		Exchanges: []Exchange{
			{Name: RideExchange, Kind: "topic"},
			{Name: DriverExchange, Kind: "topic"},
			{Name: FleetExchange, Kind: "topic"},
			{Name: NotificationExchange, Kind: "topic"},
		},
		Queues: []string{ConsoleRefreshQueue, SMSBroadcastQueue},
		Bindings: []Binding{
			{ConsoleRefreshQueue, "driver.status.*", DriverExchange},
			{ConsoleRefreshQueue, "ride.status.*", RideExchange},
			{ConsoleRefreshQueue, "fleet.changed.*", FleetExchange},
			{SMSBroadcastQueue, "sms.broadcast.*", NotificationExchange},
		},
	}
}

// Validate checks that every binding names a declared queue and exchange.
func (t Topology) Validate() error {
	for _, b := range t.Bindings {
		if !slices.Contains(t.Queues, b.Queue) {
			return fmt.Errorf("binding %s: queue %q is not declared", b.RoutingKey, b.Queue)
		}
		if !slices.ContainsFunc(t.Exchanges, func(e Exchange) bool { return e.Name == b.Exchange }) {
			return fmt.Errorf("binding %s: exchange %q is not declared", b.RoutingKey, b.Exchange)
		}
	}
	return nil
}
