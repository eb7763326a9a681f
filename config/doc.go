// Package config resolves the effective configuration for a transpilation run.
//
// Values come from four tiers, highest first:
//
//  1. Overrides, usually command-line flags
//  2. The environment, merged from ~/.enc.env, the process and ./.enc.env
//  3. The optional enc.toml project file
//  4. Catalog-derived limits and per-provider defaults
//
// Resolution never reads process globals directly. Callers build the
// Environment with BuildEnvironment and ParseEnvironment, load the catalog
// from PricingPath, and hand everything to Resolve, which returns an
// immutable Effective plus any warnings to log.
package config
