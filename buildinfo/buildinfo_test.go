package buildinfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserAgent(t *testing.T) {
	old := version
	defer func() { version = old }()

	version = ""
	assert.Equal(t, "dev", Version())
	assert.Equal(t, "LocationFinder/dev", UserAgent())

	version = "1.2.0"
	assert.Equal(t, "LocationFinder/1.2.0", UserAgent())
}
