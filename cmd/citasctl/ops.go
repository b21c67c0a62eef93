package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/citasmx/citas-api/internal/domain"
	"github.com/citasmx/citas-api/internal/platform/mailer"
	"github.com/citasmx/citas-api/internal/service/outreach"
	"github.com/spf13/cobra"
)

func (c *cli) daysCmd() *cobra.Command {
	var oficina, servicio int64
	cmd := &cobra.Command{
		Use:   "dias",
		Short: "Show the days with available hours",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			days, err := c.client.AvailableDays(cmd.Context(), oficina, servicio)
			if err != nil {
				return err
			}
			if c.asJSON {
				return c.printJSON(days)
			}
			rows := make([][]string, 0, len(days.Dias))
			for _, d := range days.Dias {
				rows = append(rows, []string{d.String(), d.Weekday().String()})
			}
			return c.printTable([]string{"FECHA", "DIA"}, rows)
		},
	}
	cmd.Flags().Int64Var(&oficina, "oficina", 0, "office id")
	cmd.Flags().Int64Var(&servicio, "servicio", 0, "service id")
	_ = cmd.MarkFlagRequired("oficina")
	_ = cmd.MarkFlagRequired("servicio")
	return cmd
}

func (c *cli) hoursCmd() *cobra.Command {
	var oficina, servicio int64
	var fecha string
	cmd := &cobra.Command{
		Use:   "horas",
		Short: "Show the available hours of one day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := domain.ParseDate(fecha, time.UTC)
			if err != nil {
				return err
			}
			hours, err := c.client.AvailableHours(cmd.Context(), oficina, servicio, day)
			if err != nil {
				return err
			}
			if c.asJSON {
				return c.printJSON(hours)
			}
			rows := make([][]string, 0, len(hours.Horas))
			for _, h := range hours.Horas {
				rows = append(rows, []string{h.Hora.String(), strconv.Itoa(h.Disponibles)})
			}
			return c.printTable([]string{"HORA", "DISPONIBLES"}, rows)
		},
	}
	cmd.Flags().Int64Var(&oficina, "oficina", 0, "office id")
	cmd.Flags().Int64Var(&servicio, "servicio", 0, "service id")
	cmd.Flags().StringVar(&fecha, "fecha", "", "date, YYYY-MM-DD")
	for _, name := range []string{"oficina", "servicio", "fecha"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func (c *cli) notificationsCmd() *cobra.Command {
	var tipo string
	resend := &cobra.Command{
		Use:   "reenviar",
		Short: "Queue the e-mails of pending registrations or recoveries again",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := domain.ParsePendingKind(tipo)
			if err != nil {
				return err
			}
			res, err := c.client.Resend(cmd.Context(), kind)
			if err != nil {
				return err
			}
			if c.asJSON {
				return c.printJSON(res)
			}
			return c.printTable(
				[]string{"TIPO", "ENCOLADAS", "VENCIDAS", "FALLIDAS"},
				[][]string{{string(res.Tipo), strconv.Itoa(res.Queued), strconv.Itoa(res.Expired), strconv.Itoa(res.Failed)}},
			)
		},
	}
	resend.Flags().StringVar(&tipo, "tipo", "", "registro or recuperacion")
	_ = resend.MarkFlagRequired("tipo")
	return resourceCmd("notificaciones", "Registration and recovery e-mails", resend)
}

func (c *cli) remindersCmd() *cobra.Command {
	return resourceCmd("recordatorios", "Appointment reminders",
		c.outreachCmd("enviar", "E-mail a reminder to every client booked on a day",
			(*outreach.Mailer).SendReminders))
}

func (c *cli) surveysCmd() *cobra.Command {
	return resourceCmd("encuestas", "Satisfaction surveys",
		c.outreachCmd("invitar", "Invite the clients who attended on a day to answer the survey",
			(*outreach.Mailer).SendSurveyInvitations))
}

type outreachRun func(m *outreach.Mailer, ctx context.Context, fecha domain.Date) (outreach.Result, error)

func (c *cli) outreachCmd(use, short string, run outreachRun) *cobra.Command {
	var fecha string
	var dryRun bool
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := domain.ParseDate(fecha, time.UTC)
			if err != nil {
				return err
			}
			m, err := c.newOutreachMailer(dryRun)
			if err != nil {
				return err
			}
			res, err := run(m, cmd.Context(), day)
			if err != nil {
				return err
			}
			if c.asJSON {
				return c.printJSON(res)
			}
			_, err = fmt.Fprintf(c.out, "enviados: %d, omitidos: %d, fallidos: %d\n", res.Sent, res.Skipped, res.Failed)
			return err
		},
	}
	cmd.Flags().StringVar(&fecha, "fecha", "", "appointment date, YYYY-MM-DD")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "log the e-mails instead of sending them")
	_ = cmd.MarkFlagRequired("fecha")
	return cmd
}

func (c *cli) newOutreachMailer(dryRun bool) (*outreach.Mailer, error) {
	var sender mailer.Sender = mailer.NewLogSender(c.logger)
	if !dryRun {
		if !c.cfg.Mail.Enabled() {
			return nil, fmt.Errorf("mail is not configured, set client.mail or use --dry-run")
		}
		var err error
		sender, err = mailer.NewClient(c.cfg.Mail, c.logger)
		if err != nil {
			return nil, err
		}
	}
	renderer, err := mailer.NewRenderer()
	if err != nil {
		return nil, err
	}
	return outreach.NewMailer(outreach.Deps{
		Directory: c.client,
		Renderer:  renderer,
		Sender:    sender,
		PortalURL: c.cfg.Mail.PortalURL,
		Logger:    c.logger,
	})
}
