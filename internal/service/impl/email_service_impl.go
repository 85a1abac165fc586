package impl

import (
	"bytes"
	"context"
	htmltemplate "html/template"
	"text/template"

	"employee-portal/internal/mail"
	"employee-portal/internal/service"
)

const (
	registrationSubject = "Завершення реєстрації в корпоративному порталі"
	expiryLayout        = "02.01.2006 15:04 UTC"
)

var registrationText = template.Must(template.New("registration.txt").Parse(
	`Вітаємо{{with .Name}}, {{.}}{{end}}!

Ваш код підтвердження: {{.Code}}

Скопіюйте код у форму завершення реєстрації або скористайтеся посиланням нижче:
{{.Link}}

Посилання дійсне до {{.Expires}}.
`))

var registrationHTML = htmltemplate.Must(htmltemplate.New("registration.html").Parse(`
<div style="font-family: 'Inter', 'Segoe UI', system-ui, sans-serif; background:#f5f7fb; padding:24px;">
  <div style="max-width:560px; margin:0 auto; background:#ffffff; border-radius:16px; padding:28px;">
    <h1 style="font-size:20px; color:#0f172a; margin:0 0 12px 0;">Вітаємо{{with .Name}}, {{.}}{{end}}!</h1>
    <p style="color:#475569; margin:0 0 16px 0; line-height:1.6;">
      Ось ваш код підтвердження для завершення реєстрації. Скопіюйте його або використайте кнопку нижче.
    </p>
    <div style="background:#f8fafc; border:1px solid #e2e8f0; border-radius:12px; padding:16px; text-align:center; margin-bottom:20px;">
      <div style="font-size:14px; color:#475569; margin-bottom:6px;">Ваш код</div>
      <div style="font-size:28px; font-weight:700; color:#0f172a; letter-spacing:6px;">{{.Code}}</div>
    </div>
    <a href="{{.Link}}" style="display:inline-block; background:#2563eb; color:#ffffff; padding:12px 20px; border-radius:12px; text-decoration:none; font-weight:600;">
      Завершити реєстрацію
    </a>
    <p style="color:#475569; margin:16px 0 8px 0; line-height:1.6;">Або скопіюйте посилання й відкрийте його в браузері:</p>
    <div style="background:#f8fafc; border:1px dashed #cbd5e1; border-radius:10px; padding:12px 14px; font-size:13px; word-break:break-all;">{{.Link}}</div>
    <p style="color:#475569; margin:16px 0 0 0; font-size:13px;">Код дійсний до {{.Expires}}.</p>
  </div>
</div>
`))

type EmailServiceImpl struct {
	Sender mail.Sender
}

func NewEmailServiceImpl(sender mail.Sender) *EmailServiceImpl {
	return &EmailServiceImpl{Sender: sender}
}

func (e *EmailServiceImpl) Preview() bool { return mail.IsPreview(e.Sender) }

func (e *EmailServiceImpl) SendRegistrationConfirmation(ctx context.Context, m service.RegistrationEmail) error {
	msg, err := composeRegistrationMail(m)
	if err != nil {
		return err
	}
	return e.Sender.Send(ctx, msg)
}

func composeRegistrationMail(m service.RegistrationEmail) (mail.Message, error) {
	data := struct {
		Name, Code, Link, Expires string
	}{
		Name:    m.Name,
		Code:    m.Code,
		Link:    m.Link,
		Expires: m.ExpiresAt.UTC().Format(expiryLayout),
	}

	var text, html bytes.Buffer
	if err := registrationText.Execute(&text, data); err != nil {
		return mail.Message{}, err
	}
	if err := registrationHTML.Execute(&html, data); err != nil {
		return mail.Message{}, err
	}
	return mail.Message{
		To:      m.To,
		Subject: registrationSubject,
		Text:    text.String(),
		HTML:    html.String(),
	}, nil
}
