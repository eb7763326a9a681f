package providers_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	_ "github.com/randalmurphal/enc/providers"
	"github.com/randalmurphal/enc/provider"
)

func TestAllProvidersRegistered(t *testing.T) {
	assert.Equal(t, []string{"google", "openai"}, provider.Available())
}
