//go:build integration

package s3

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-libs/storagesync/container"
	"github.com/input-output-hk/catalyst-forge-libs/storagesync/container/containertest"
	"github.com/input-output-hk/catalyst-forge-libs/storagesync/internal/testutil"
)

func TestLocalStackConformance(t *testing.T) {
	_, client := testutil.SetupLocalStackTest(t, "storagesync-it")

	n := 0
	containertest.TestSuite(t, func(t *testing.T) container.Container {
		// Each container gets its own prefix so listings start empty.
		n++
		c, err := NewWithClient(client, "storagesync-it", WithPrefix(fmt.Sprintf("%s/%d", t.Name(), n)))
		require.NoError(t, err)
		return c
	})
}

func TestLocalStackNewFromOptions(t *testing.T) {
	ls, _ := testutil.SetupLocalStackTest(t, "storagesync-opts")
	ctx := context.Background()

	c, err := New(ctx, "storagesync-opts",
		WithEndpoint(ls.Endpoint()),
		WithRegion(ls.Region()),
		WithStaticCredentials("test", "test"),
		WithForcePathStyle(true),
		WithPrefix("opts"),
	)
	require.NoError(t, err)

	require.NoError(t, c.UploadFile(ctx, "a.txt", strings.NewReader("alpha"), 5))

	records, err := c.ListFiles(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "a.txt", records[0].Path)
	assert.Equal(t, int64(5), records[0].Size)
}
