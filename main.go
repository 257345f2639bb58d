// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/stonesthrow/stonesthrow/cmd/sthost"

func main() {
	cmd.Execute()
}
