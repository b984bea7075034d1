// Package mail implements notify.Sender over SMTP using github.com/wneessen/go-mail.
package mail
