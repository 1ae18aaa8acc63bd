package bufferpool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileView_ScopesToOneFile(t *testing.T) {
	m, f := newTestManager(t, 2)
	v := m.View(f)
	require.Same(t, f, v.File())

	p, h, err := v.AllocPage()
	require.NoError(t, err)

	h2, err := v.ReadPage(p)
	require.NoError(t, err)
	require.Equal(t, h.Frame(), h2.Frame())

	require.NoError(t, v.UnpinPage(p, true))
	require.NoError(t, v.UnpinPage(p, false))
	require.ErrorIs(t, v.UnpinPage(p, false), ErrPageNotPinned)

	require.NoError(t, v.Flush())
	require.Equal(t, 1, f.Stats().Writes)
	require.Empty(t, residentPages(m, f))

	require.NoError(t, v.DisposePage(p))
	require.False(t, f.Exists(p))
}
