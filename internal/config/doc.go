// SPDX-License-Identifier: MPL-2.0

// Package config handles twinget configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/twinget/config.cue (or the XDG equivalent on
// Linux, ~/Library/Application Support/twinget/config.cue on macOS and
// %APPDATA%\twinget\config.cue on Windows), falling back to ./config.cue. Values can be
// overridden with TWINGET_* environment variables, e.g. TWINGET_PACK_OUTPUT_DIR.
//
// Files are validated against an embedded CUE schema (config_schema.cue).
package config
