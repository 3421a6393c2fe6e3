package main

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/BillJr99/Ursinus-Boilerplate-Code/core"
	emailsvc "github.com/BillJr99/Ursinus-Boilerplate-Code/services/email"
	sendgridmail "github.com/BillJr99/Ursinus-Boilerplate-Code/services/email/sendgrid"
)

func newMailer(conf *core.Config) func() core.EmailService {
	return func() core.EmailService {
		if conf.Mail.SendgridKey != "" {
			return sendgridmail.NewService(conf.Mail.SendgridKey, conf.AppName, conf.Mail.FromEmail)
		}
		return emailsvc.NewConsoleService(conf.AppName, conf.Mail.FromEmail, nil)
	}
}

// notify e-mails the action log of a batch run to Mail.NotifyTo.
func (cli *commandLine) notify(run string, actions core.Actions, applied bool) error {
	to, err := core.ParseAddresses(cli.conf.Mail.NotifyTo)
	if err != nil {
		return err
	}
	if len(to) == 0 {
		cli.logger.Warn("[notify] no recipients configured in mail.notifyTo; nothing sent")
		return nil
	}

	mode := "dry-run"
	if applied {
		mode = "applied"
	}
	body := new(strings.Builder)
	fmt.Fprintf(body, "%s (%s, course %s)\n\n", run, mode, cli.conf.Canvas.CourseID)
	fmt.Fprintln(body, actions.String())
	fmt.Fprintln(body)
	fmt.Fprintln(body, actions.Summary())

	msg := &core.EmailMessage{
		To:      to,
		Subject: fmt.Sprintf("%s: %d warnings or errors", run, actions.Count(core.TagWarn, core.TagError)),
		BodyStr: body.String(),
	}
	if err := cli.mailer().SendMessages(msg); err != nil {
		return errors.Wrap(err, "sending the action log")
	}
	fmt.Fprintf(cli.stdout, "[notify] Action log sent to %d recipient(s).\n", len(to))
	return nil
}
