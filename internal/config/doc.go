// Package config handles loading and parsing the client configuration file.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/roadwatch/config.toml (default)
//  3. If the config file doesn't exist, fall back to hardcoded defaults
//  4. If the file exists but fields are missing/empty, use defaults
//  5. ROADWATCH_SERVER_URL (environment or a .env file in the working
//     directory) overrides the server URL from any source
//
// # Default Values
//
//   - Config file: ~/.config/roadwatch/config.toml
//   - Server URL: http://localhost:5000
//   - Log directory: ~/.local/share/roadwatch/logs
//   - Log file: <log_dir>/roadwatch.log
//
// # TOML Format
//
// Example config.toml:
//
//	server_url = "http://analysis.lan:5000"
//	log_dir = "~/.local/share/roadwatch/logs"
//
// Both fields are optional. Tilde expansion is performed automatically.
//
// # Error Handling
//
// Load returns errors for path expansion failures, file read errors
// (except os.ErrNotExist, which triggers defaults), and TOML parsing
// errors. A missing config file is NOT an error; the client works
// out-of-the-box against a local service.
//
// The package is read-only and stateless: configuration is loaded once at
// startup and returned as an immutable Config struct.
package config
