package render

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMountLifecycle(t *testing.T) {
	m, err := NewMount("<html><body>hello</body></html>")
	require.NoError(t, err)

	// Staged file exists and holds the document
	data, err := os.ReadFile(m.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")

	assert.True(t, strings.HasPrefix(m.URL(), "file://"))
	assert.Equal(t, "file://"+m.Path(), m.URL())

	m.Teardown()
	_, err = os.Stat(m.Path())
	assert.True(t, os.IsNotExist(err), "mount file must be removed on teardown")
}

func TestMountTeardownIdempotent(t *testing.T) {
	m, err := NewMount("<html></html>")
	require.NoError(t, err)

	m.Teardown()
	// Second and third calls must be no-ops, not errors or panics
	m.Teardown()
	m.Teardown()

	_, statErr := os.Stat(m.Path())
	assert.True(t, os.IsNotExist(statErr))
}
