package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/tabwriter"

	"github.com/citasmx/citas-api/internal/apiclient"
	"github.com/citasmx/citas-api/internal/config"
	"github.com/citasmx/citas-api/internal/platform/logger"
	"github.com/spf13/cobra"
)

// cli carries the state shared by every command of one invocation.
type cli struct {
	loadConfig func() (*config.ClientConfig, error)
	out        io.Writer
	errOut     io.Writer

	asJSON bool
	cfg    *config.ClientConfig
	client *apiclient.Client
	logger *slog.Logger
}

func newRootCmd(loadConfig func() (*config.ClientConfig, error), out, errOut io.Writer) *cobra.Command {
	c := &cli{loadConfig: loadConfig, out: out, errOut: errOut}

	root := &cobra.Command{
		Use:           "citasctl",
		Short:         "Operate the Citas appointment API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup()
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)
	root.PersistentFlags().BoolVar(&c.asJSON, "json", false, "print JSON instead of a table")

	root.AddCommand(
		resourceCmd("distritos", "Judicial districts", listCmd(c, "distritos", districtFilters, districtColumns)),
		resourceCmd("oficinas", "Offices", listCmd(c, "oficinas", officeFilters, officeColumns)),
		resourceCmd("servicios", "Services offered by offices", listCmd(c, "servicios", serviceFilters, serviceColumns)),
		resourceCmd("usuarios", "Administrative users", listCmd(c, "usuarios", userFilters, userColumns)),
		resourceCmd("pagos", "Appointment payments", listCmd(c, "pagos", paymentFilters, paymentColumns)),
		resourceCmd("citas", "Appointments and availability",
			listCmd(c, "citas", appointmentFilters, appointmentColumns),
			c.daysCmd(),
			c.hoursCmd(),
		),
		c.notificationsCmd(),
		c.remindersCmd(),
		c.surveysCmd(),
	)
	return root
}

// setup loads the configuration and builds the API client.
func (c *cli) setup() error {
	if c.client != nil {
		return nil
	}
	cfg, err := c.loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	c.cfg = cfg
	c.logger = logger.NewTextLogger(c.errOut, cfg.LogLevel)
	c.client, err = apiclient.New(*cfg, c.logger)
	if err != nil {
		return fmt.Errorf("failed to create api client: %w", err)
	}
	return nil
}

func resourceCmd(name, short string, sub ...*cobra.Command) *cobra.Command {
	cmd := &cobra.Command{Use: name, Short: short}
	cmd.AddCommand(sub...)
	return cmd
}

// printJSON writes v indented.
func (c *cli) printJSON(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printTable writes a header and rows aligned in columns.
func (c *cli) printTable(header []string, rows [][]string) error {
	w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(header, "\t"))
	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	return w.Flush()
}
