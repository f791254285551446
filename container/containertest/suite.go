// Package containertest provides a conformance test suite for validating
// container.Container implementations.
//
// Backends import this package from their tests and run TestSuite against a
// factory returning a fresh, empty container. The suite only exercises the
// Container contract: listing, streaming reads, and exact-length uploads.
//
// Example usage:
//
//	func TestMyBackend(t *testing.T) {
//	    containertest.TestSuite(t, func(t *testing.T) container.Container {
//	        return mybackend.New()
//	    })
//	}
package containertest

import (
	"testing"

	"github.com/input-output-hk/catalyst-forge-libs/storagesync/container"
)

// Factory returns a fresh, empty container for each subtest.
type Factory func(t *testing.T) container.Container

// TestSuite runs all conformance tests against a container.
func TestSuite(t *testing.T, newContainer Factory) {
	TestSuiteWithSkip(t, newContainer, nil)
}

// TestSuiteWithSkip runs conformance tests with optional test skipping.
// The skipTests parameter is a slice of test names to skip (e.g., "Upload/LargeFile").
// This is useful for backends with known behavioral differences from the standard contract.
func TestSuiteWithSkip(t *testing.T, newContainer Factory, skipTests []string) {
	shouldSkip := func(testName string) bool {
		for _, skip := range skipTests {
			if skip == testName {
				return true
			}
		}
		return false
	}

	t.Run("List", func(t *testing.T) {
		if shouldSkip("List") {
			t.Skip("Skipped by provider configuration")
			return
		}
		TestList(t, newContainer)
	})

	t.Run("Upload", func(t *testing.T) {
		if shouldSkip("Upload") {
			t.Skip("Skipped by provider configuration")
			return
		}
		TestUploadWithSkip(t, newContainer, skipTests)
	})

	t.Run("Sync", func(t *testing.T) {
		if shouldSkip("Sync") {
			t.Skip("Skipped by provider configuration")
			return
		}
		TestSync(t, newContainer)
	})
}
