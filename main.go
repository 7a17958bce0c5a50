// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/ahuca/twinget/cmd/twinget"

func main() {
	cmd.Execute()
}
