// Package config loads facade settings from a YAML file, a .env file and
// the environment, and applies them to a facade configuration.
//
//	settings, err := config.Load("checkout")
//	if err != nil {
//	    return err
//	}
//	atlas, err := settings.Atlas()
//
// Files are searched in the usual places (./cmd/<name>/atlas.yml,
// ./config/atlas.yml, ./atlas.yml, ...). Environment variables prefixed
// with ATLAS_ override file values, with underscores standing for nesting:
// ATLAS_RETRY_KIND=polling sets retry.kind.
package config
