package impl

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"employee-portal/internal/mail"
	"employee-portal/internal/service"
)

func TestComposeRegistrationMail(t *testing.T) {
	msg, err := composeRegistrationMail(service.RegistrationEmail{
		To:        "new@company.com",
		Name:      "Ірина <script>",
		Code:      "01234567",
		Link:      "http://localhost:5173/register?email=new%40company.com&token=01234567",
		ExpiresAt: time.Date(2025, 2, 3, 4, 5, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.Equal(t, "new@company.com", msg.To)
	assert.Equal(t, registrationSubject, msg.Subject)
	assert.Contains(t, msg.Text, "Вітаємо, Ірина <script>!")
	assert.Contains(t, msg.Text, "Ваш код підтвердження: 01234567")
	assert.Contains(t, msg.Text, "&token=01234567")
	assert.Contains(t, msg.Text, "03.02.2025 04:05 UTC")

	assert.NotContains(t, msg.HTML, "<script>")
	assert.Contains(t, msg.HTML, "01234567")
	assert.Contains(t, msg.HTML, `href="http://localhost:5173/register?email=new%40company.com&amp;token=01234567"`)
}

func TestComposeRegistrationMailWithoutName(t *testing.T) {
	msg, err := composeRegistrationMail(service.RegistrationEmail{To: "a@company.com", Code: "1", Link: "http://x"})
	require.NoError(t, err)
	assert.Contains(t, msg.Text, "Вітаємо!")
}

func TestEmailServicePreview(t *testing.T) {
	outbox := mail.NewPreviewSender(nil)
	svc := NewEmailServiceImpl(outbox)
	assert.True(t, svc.Preview())

	require.NoError(t, svc.SendRegistrationConfirmation(context.Background(), service.RegistrationEmail{To: "a@company.com", Code: "1"}))
	assert.Len(t, outbox.Sent(), 1)
}
