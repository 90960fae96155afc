// Package validation guards the two kinds of external input vidrank
// accepts: channel references typed by the user and filesystem paths
// coming from config.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	channelIDPattern = regexp.MustCompile(`^UC[A-Za-z0-9_-]{22}$`)
	handlePattern    = regexp.MustCompile(`^@[A-Za-z0-9._-]{3,30}$`)
	apiKeyPattern    = regexp.MustCompile(`^[A-Za-z0-9_-]{20,100}$`)
)

// ChannelValidator validates channel references before they reach the
// API client or the snapshot store.
type ChannelValidator struct {
	// MaxLength is the maximum allowed reference length
	MaxLength int
}

// NewChannelValidator creates a validator with secure defaults
func NewChannelValidator() *ChannelValidator {
	return &ChannelValidator{MaxLength: 128}
}

// ValidateID checks a raw channel ID: 24 characters, UC prefix.
func (v *ChannelValidator) ValidateID(id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("channel ID cannot be empty")
	}
	if len(id) > v.MaxLength {
		return fmt.Errorf("channel ID too long (max %d characters)", v.MaxLength)
	}
	if !channelIDPattern.MatchString(id) {
		return fmt.Errorf("invalid channel ID format: %q", id)
	}
	return nil
}

// ValidateHandle checks an @handle reference.
func (v *ChannelValidator) ValidateHandle(handle string) error {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return fmt.Errorf("handle cannot be empty")
	}
	if !handlePattern.MatchString(handle) {
		return fmt.Errorf("invalid handle format: %q", handle)
	}
	return nil
}

// NormalizeRef accepts either a raw channel ID or an @handle, trims
// whitespace, and reports which kind it found.
func (v *ChannelValidator) NormalizeRef(ref string) (string, bool, error) {
	ref = strings.TrimSpace(ref)
	if strings.HasPrefix(ref, "@") {
		if err := v.ValidateHandle(ref); err != nil {
			return "", false, err
		}
		return ref, true, nil
	}
	if err := v.ValidateID(ref); err != nil {
		return "", false, err
	}
	return ref, false, nil
}

// ValidateAPIKey rejects keys that cannot possibly be real before any
// request goes out. Control characters in a key would otherwise end up
// in a request URL.
func ValidateAPIKey(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("API key cannot be empty")
	}
	if !apiKeyPattern.MatchString(key) {
		return fmt.Errorf("API key contains invalid characters or has implausible length")
	}
	return nil
}
