package route_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Postmaster-Live/postmaster/internal/route"
)

func payload(t *testing.T, raw string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(raw), &v))
	return v
}

func TestResolve_FirstHitWins(t *testing.T) {
	p := payload(t, `{"repo":"infra"}`)
	routes := []route.Route{
		{Path: "$.repo", Mapping: []route.Mapping{{Value: "infra", Topic: "infra-events"}}},
		{Path: "$.repo", Mapping: []route.Mapping{{Value: "infra", Topic: "should-not-match"}}},
	}

	topic, matched, err := route.Resolve(p, routes)
	require.NoError(t, err)
	assert.True(t, matched)
	assert.Equal(t, "infra-events", topic)
}

func TestResolve_IntegerVsStringValue(t *testing.T) {
	p := payload(t, `{"priority":2}`)
	routes := []route.Route{
		{Path: "$.priority", Mapping: []route.Mapping{{Value: "2", Topic: "p2-events"}}},
	}

	topic, matched, err := route.Resolve(p, routes)
	require.NoError(t, err)
	assert.True(t, matched)
	assert.Equal(t, "p2-events", topic)
}

func TestResolve_NoMatch_FallsBack(t *testing.T) {
	p := payload(t, `{"repo":"other"}`)
	routes := []route.Route{
		{Path: "$.repo", Mapping: []route.Mapping{{Value: "infra", Topic: "infra-events"}}},
	}

	_, matched, err := route.Resolve(p, routes)
	require.NoError(t, err)
	assert.False(t, matched)
}

func TestResolve_FloatValue_HasNoStringifiedForm(t *testing.T) {
	p := payload(t, `{"score":1.5}`)
	routes := []route.Route{
		{Path: "$.score", Mapping: []route.Mapping{{Value: "1.5", Topic: "scored"}}},
	}

	_, matched, err := route.Resolve(p, routes)
	require.NoError(t, err)
	assert.False(t, matched)
}

func TestResolve_PathError_Propagates(t *testing.T) {
	p := payload(t, `{}`)
	routes := []route.Route{
		{Path: "$.missing", Mapping: []route.Mapping{{Value: "x", Topic: "y"}}},
	}

	_, _, err := route.Resolve(p, routes)
	require.Error(t, err)
	var rerr *route.Error
	assert.ErrorAs(t, err, &rerr)
}

func TestResolve_Empty_NoMatch(t *testing.T) {
	p := payload(t, `{}`)
	_, matched, err := route.Resolve(p, nil)
	require.NoError(t, err)
	assert.False(t, matched)
}
