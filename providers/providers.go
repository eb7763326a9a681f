// Package providers registers all known generation backends.
// Import this package to make all providers available via provider.New():
//
//	import _ "github.com/randalmurphal/enc/providers"
package providers

import (
	_ "github.com/randalmurphal/enc/google"
	_ "github.com/randalmurphal/enc/openai"
)
