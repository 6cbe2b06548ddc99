package handlerid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Postmaster-Live/postmaster/internal/handlerid"
)

func TestResourceName_RoundTrips(t *testing.T) {
	id := handlerid.New()
	name := handlerid.ResourceName(id)

	got, ok := handlerid.FromResourceName(name)
	require.True(t, ok)
	assert.Equal(t, id, got)
}

func TestFromResourceName_WrongPrefix(t *testing.T) {
	_, ok := handlerid.FromResourceName("webhook-" + handlerid.New().String())
	assert.False(t, ok)
}

func TestFromResourceName_InvalidUUID(t *testing.T) {
	_, ok := handlerid.FromResourceName(handlerid.ResourcePrefix + "not-a-uuid")
	assert.False(t, ok)
}

func TestParse_InvalidText(t *testing.T) {
	_, err := handlerid.Parse("not-a-uuid")
	assert.Error(t, err)
}
