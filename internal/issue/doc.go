// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable errors and the troubleshooting catalog.
//
// An ActionableError names the failed operation, the resource involved and
// suggestions for fixing it, and may point at a catalog Issue whose Markdown
// guidance is rendered by 'twinget issues'.
package issue
