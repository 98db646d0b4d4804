package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/yourorg/eztech-media/internal/mail"
)

func newMailCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mail",
		Short: "Transactional mail",
	}

	var to, subject, body string
	send := &cobra.Command{
		Use:   "send",
		Short: "Send one plaintext message through the configured relay",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.Mail.Login == "" {
				return errors.New("MAIL_LOGIN is not set")
			}
			sent := mail.New(a.cfg.Mail, a.log).Send(cmd.Context(), to, subject, body)
			if err := writeJSON(map[string]bool{"sent": sent}); err != nil {
				return err
			}
			if !sent {
				return errors.New("mail was not sent; see log for the cause")
			}
			return nil
		},
	}
	send.Flags().StringVar(&to, "to", "", "recipient address")
	send.Flags().StringVar(&subject, "subject", "", "subject line")
	send.Flags().StringVar(&body, "body", "", "plaintext body")
	_ = send.MarkFlagRequired("to")

	cmd.AddCommand(send)
	return cmd
}
