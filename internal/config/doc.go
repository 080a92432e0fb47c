// Package config resolves the settings a yggdrasil process runs with.
//
// Settings come from three layers, applied in order:
//
//  1. DefaultSettings, which stores the catalog in ./yggdrasil.json and
//     asks the provider for up to 7 candidates
//  2. the JSON settings file read by Load; a missing file is not an error
//     and keys absent from the file keep their defaults
//  3. the environment, optionally seeded from .env files
//
// # Environment
//
// Spotify credentials are read from SPOTIFY_CLIENT_ID and
// SPOTIFY_CLIENT_SECRET and are never written back to the settings file.
// YGGDRASIL_CATALOG and YGGDRASIL_LOG_LEVEL override the file values:
//
//	settings, err := config.Load(config.DefaultPath)
//	if err != nil {
//	    return err
//	}
//	_ = config.LoadEnvFiles(".env", ".env.local")
//	if err := settings.ApplyEnv(); err != nil {
//	    return err
//	}
//	if err := settings.Validate(); err != nil {
//	    return err
//	}
package config
