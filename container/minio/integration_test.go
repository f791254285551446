//go:build integration

package minio

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-libs/storagesync/container"
	"github.com/input-output-hk/catalyst-forge-libs/storagesync/container/containertest"
	"github.com/input-output-hk/catalyst-forge-libs/storagesync/internal/testutil"
)

func TestMinIOConformance(t *testing.T) {
	client := testutil.SetupMinIOTest(t, "storagesync-it")

	n := 0
	containertest.TestSuite(t, func(t *testing.T) container.Container {
		n++
		c, err := NewWithClient(client, "storagesync-it", WithPrefix(fmt.Sprintf("%s/%d", t.Name(), n)))
		require.NoError(t, err)
		return c
	})
}
