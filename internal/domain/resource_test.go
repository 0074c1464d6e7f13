package domain_test

import (
	"testing"

	"github.com/Gunvolt24/orders_sync/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResource(t *testing.T) {
	tests := []struct {
		in   string
		want domain.Resource
	}{
		{"local", domain.ResourceLocal},
		{"remote", domain.ResourceRemote},
		{"  Remote ", domain.ResourceRemote},
		{"LOCAL", domain.ResourceLocal},
	}
	for _, tc := range tests {
		got, err := domain.ParseResource(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got)
	}
}

func TestParseResource_Unknown(t *testing.T) {
	for _, in := range []string{"", "cloud", "local1"} {
		_, err := domain.ParseResource(in)
		assert.ErrorIs(t, err, domain.ErrUnknownResource, in)
	}
}

func TestResources_AllValid(t *testing.T) {
	rs := domain.Resources()
	require.Len(t, rs, 2)
	for _, r := range rs {
		assert.True(t, r.Valid(), r.String())
	}
	assert.False(t, domain.Resource("active").Valid())
}
