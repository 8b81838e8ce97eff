// Package confloader provides configuration loading mechanism.
//
// This package implements a configuration loader that supports multiple
// sources using koanf as the underlying library, and a file watcher that
// triggers reloads.
//
// Priority (highest to lowest):
//
//  1. Command-line flags
//  2. Environment variables
//  3. Configuration files
//  4. Default values
package confloader
