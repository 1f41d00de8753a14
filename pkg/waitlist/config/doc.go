/*
Package config loads simulation settings from YAML or JSON.

# Basic Usage

Start from defaults and override only what a file sets:

	s, err := config.FromFile("simulation.yaml")
	if err != nil {
	    log.Fatal(err)
	}

	cutoff, _ := s.PurgeDate()
	level := s.Level()

A minimal file:

	clients: 20
	names_per_client: 50
	treat_ratio: 0.75
	purge_before: "2021-01-01"

Keys that are absent keep their Default() value. Loaded settings are always
validated; errors match ErrInvalidConfig and name the offending field.
*/
package config
