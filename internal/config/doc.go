// Package config loads threatwatch settings from a TOML file.
//
// # Overview
//
// Every setting has a default, so threatwatch runs without any config file.
// When the file exists, only the keys it sets override the defaults. CLI
// flags are applied on top by the cmd package.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/threatwatch/config.toml (default)
//  3. If the config file doesn't exist, fall back to hardcoded defaults
//  4. If the file exists but fields are missing/empty, use defaults
//
// # Default Values
//
//   - Log file: /var/log/system.log
//   - Poll interval: 2 seconds
//   - Start at end: false (existing content is classified)
//   - Watch: true (fsnotify write events wake the tailer early)
//   - Log level / format: info / console
//   - Log path (interactive mode): ~/.local/state/threatwatch/threatwatch.log
//   - Signatures: "malicious" then "attack"
//
// # TOML Format
//
//	log_file = "/var/log/auth.log"
//	poll_seconds = 2
//	start_at_end = false
//	watch = true
//	log_level = "info"
//	log_format = "console"
//	log_path = "~/.local/state/threatwatch/threatwatch.log"
//
//	[[signatures]]
//	keyword = "malicious"
//	category = "malicious"
//
//	[[signatures]]
//	keyword = "attack"
//	category = "attack"
//
// Signatures are evaluated in file order and the first match wins. A
// signatures key replaces the built-in list entirely.
//
// # Validation
//
// Load fails fast, before anything is tailed, on:
//
//   - Malformed TOML ("parse config: ...")
//   - Non-positive poll_seconds, unknown log_level or log_format
//   - An empty signature list, an empty keyword or category, or a repeated
//     keyword (wraps signature.ErrInvalid)
//
// Paths beginning with "~" are expanded against the user's home directory
// and made absolute.
package config
