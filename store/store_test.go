package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miku/gndzero/errors"
)

func TestStoreInsertAndLookup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	st, err := Create(path)
	require.NoError(t, err)
	require.NoError(t, st.Insert("118540238", "record one"))
	require.NoError(t, st.Insert("119408643", "record two"))
	require.NoError(t, st.Close())

	ro, err := Open(path)
	require.NoError(t, err)
	defer ro.Close()

	content, err := ro.Lookup("118540238")
	require.NoError(t, err)
	assert.Equal(t, "record one", content)

	count, err := ro.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestStoreDuplicateIDsAreDistinctRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	st, err := Create(path)
	require.NoError(t, err)
	require.NoError(t, st.Insert("118540238", "first"))
	require.NoError(t, st.Insert("118540238", "second"))
	require.NoError(t, st.Close())

	ro, err := Open(path)
	require.NoError(t, err)
	defer ro.Close()

	count, err := ro.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// Lookup returns the first row in insert order
	content, err := ro.Lookup("118540238")
	require.NoError(t, err)
	assert.Equal(t, "first", content)

	contents, err := ro.LookupAll("118540238")
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, contents)
}

func TestStoreLookupMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	st, err := Create(path)
	require.NoError(t, err)
	require.NoError(t, st.Insert("118540238", "content"))
	require.NoError(t, st.Close())

	ro, err := Open(path)
	require.NoError(t, err)
	defer ro.Close()

	_, err = ro.Lookup("999999999")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))

	_, err = ro.LookupAll("999999999")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestStoreReadDuringRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	st, err := Create(path)
	require.NoError(t, err)
	defer st.Close()

	require.NoError(t, st.Insert("118540238", "content"))
	assert.Equal(t, uint64(1), st.Len())

	// Pending rows are visible through the same store handle
	content, err := st.Lookup("118540238")
	require.NoError(t, err)
	assert.Equal(t, "content", content)
}

func TestStoreAbortDiscardsRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	st, err := Create(path)
	require.NoError(t, err)
	require.NoError(t, st.Insert("118540238", "partial"))
	require.NoError(t, st.Abort())

	// The rolled-back file has no committed buckets, so reads fail
	ro, err := Open(path)
	require.NoError(t, err)
	defer ro.Close()

	_, err = ro.Count()
	require.Error(t, err)
	assert.True(t, errors.IsStorage(err))
}

func TestStoreInsertAfterClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	st, err := Create(path)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	ro, err := Open(path)
	require.NoError(t, err)
	defer ro.Close()

	err = ro.Insert("118540238", "content")
	require.Error(t, err)
	assert.True(t, errors.IsStorage(err))
}
