// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package automation

type unsupportedCapability struct{}

func newDTE(DTEOptions) Capability {
	return unsupportedCapability{}
}

func (unsupportedCapability) Open() (Handle, error) {
	return nil, ErrUnsupportedPlatform
}
