// Package utils provides common utility functions for the reference layer.
// It includes helper functions for type conversion, bounded retries, and other
// shared logic that doesn't fit into domain-specific packages.
package utils
