// Command citasctl is the operator command line for the Citas API: it lists
// resources, queries availability, triggers notification resends and sends
// appointment reminders and survey invitations.
package main

import (
	"fmt"
	"os"

	"github.com/citasmx/citas-api/internal/config"
)

func main() {
	root := newRootCmd(config.LoadClient, os.Stdout, os.Stderr)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
