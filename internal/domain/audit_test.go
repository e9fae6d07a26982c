package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeviceFromUserAgent(t *testing.T) {
	cases := map[string]string{
		"":       "",
		"Mozilla/5.0 (iPhone; CPU iPhone OS 16_0) Mobile/15E148": "mobile",
		"Mozilla/5.0 (iPad; CPU OS 16_0 like Mac OS X)":          "tablet",
		"Mozilla/5.0 (X11; Linux x86_64) Firefox/120.0":          "desktop",
	}
	for ua, want := range cases {
		assert.Equal(t, want, DeviceFromUserAgent(ua), "ua=%q", ua)
	}
}
