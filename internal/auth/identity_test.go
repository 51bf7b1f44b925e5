package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewIdentity_CopiesAttributes(t *testing.T) {
	attrs := map[string]string{AttrEmail: "jane@example.com", AttrName: ""}

	id := NewIdentity("google", "g-123", attrs)
	attrs[AttrEmail] = "changed@example.com"

	assert.Equal(t, "g-123", id.ExternalID)
	assert.Equal(t, "jane@example.com", id.Attribute(AttrEmail))
	assert.NotContains(t, id.Attributes, AttrName)
	assert.Empty(t, id.Attribute(AttrPicture))
}

func TestNewIdentity_NilAttributes(t *testing.T) {
	id := NewIdentity("google", "g-123", nil)

	assert.NotNil(t, id.Attributes)
	assert.Empty(t, id.Attribute(AttrEmail))
}
