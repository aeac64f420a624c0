package rabbitmq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleTopology(t *testing.T) {
	topo := ConsoleTopology()
	require.NoError(t, topo.Validate())

	var refreshKeys []string
	for _, b := range topo.Bindings {
		if b.Queue == ConsoleRefreshQueue {
			refreshKeys = append(refreshKeys, b.RoutingKey)
		}
	}
	assert.ElementsMatch(t, []string{"driver.status.*", "ride.status.*", "fleet.changed.*"}, refreshKeys)
}

func TestTopologyValidate(t *testing.T) {
	topo := Topology{
		Exchanges: []Exchange{{Name: RideExchange, Kind: "topic"}},
		Queues:    []string{"ride_status"},
		Bindings:  []Binding{{"ride_status", "ride.status.*", RideExchange}},
	}
	require.NoError(t, topo.Validate())

	topo.Bindings = append(topo.Bindings, Binding{"missing", "x.*", RideExchange})
	assert.ErrorContains(t, topo.Validate(), `queue "missing"`)

	topo.Bindings = []Binding{{"ride_status", "x.*", FleetExchange}}
	assert.ErrorContains(t, topo.Validate(), `exchange "fleet_topic"`)
}
