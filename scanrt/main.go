// Command scanrt runs the built-in scan programs against a scripted or
// in-memory I/O driver.
package main

import "github.com/sarchlab/scanrt/scanrt/cmd"

func main() {
	cmd.Execute()
}
