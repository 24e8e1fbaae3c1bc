// Package configs loads the wrapper's TOML configuration from the user's
// config directory.
//
// The config file is entirely optional: identity, resolver command,
// agent binary, and SSH key path all have sensible defaults, and the
// wrapper runs usefully with no config at all. Credential material never
// lives in the config file; tokens and secret references have their own
// permission-validated files.
package configs
