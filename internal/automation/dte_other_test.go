// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package automation

import (
	"errors"
	"testing"
)

func TestNewDTE_UnsupportedPlatform(t *testing.T) {
	t.Parallel()

	_, err := NewDTE(DTEOptions{}).Open()
	if !errors.Is(err, ErrUnsupportedPlatform) {
		t.Fatalf("Open() = %v, want %v", err, ErrUnsupportedPlatform)
	}
}
