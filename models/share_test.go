package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePermissions(t *testing.T) {
	set, err := ParsePermissions([]string{"view_company", "view_documents"})
	require.NoError(t, err)
	assert.True(t, set.Has(PermViewCompany))
	assert.True(t, set.Has(PermViewDocuments))
	assert.Equal(t, DefaultSharePermissions, set)

	set, err = ParsePermissions([]string{"view_company"})
	require.NoError(t, err)
	assert.True(t, set.Has(PermViewCompany))
	assert.False(t, set.Has(PermViewDocuments))

	_, err = ParsePermissions([]string{"delete_company"})
	assert.Error(t, err, "the permission vocabulary is closed")
}

func TestPermissionSetStorageRoundTrip(t *testing.T) {
	value, err := DefaultSharePermissions.Value()
	require.NoError(t, err)

	var scanned PermissionSet
	require.NoError(t, scanned.Scan(value))
	assert.Equal(t, DefaultSharePermissions, scanned)

	var empty PermissionSet
	require.NoError(t, empty.Scan(""))
	assert.False(t, empty.Has(PermViewCompany))
}
