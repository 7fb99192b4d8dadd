// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data to the local filesystem.
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage
//   - ProfileStore: user timer profiles in a TOML file
//   - Watch: change notifications for a single file
package file
