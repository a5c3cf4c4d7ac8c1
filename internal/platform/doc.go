// Package platform holds the small amount of host-specific logic the pack
// pipeline needs: reading numeric ownership and normalizing separators.
package platform
