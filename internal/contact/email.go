package contact

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

var emailTemplate = template.Must(template.New("contact").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; background: #f9fafb; padding: 40px 20px;">
  <div style="background: white; padding: 30px; border-radius: 12px;">
    <div style="text-align: center; margin-bottom: 30px;">
      <h1 style="color: #06b6d4; margin: 0; font-size: 28px;">KRONEUS</h1>
      <p style="color: #64748b; margin: 5px 0 0 0;">Zero Trust Security</p>
    </div>
    <h2 style="color: #0f172a; margin: 0 0 20px 0; font-size: 22px; border-bottom: 2px solid #06b6d4; padding-bottom: 10px;">New Contact Form Submission</h2>
    <table style="width: 100%; border-collapse: collapse;">
      <tr><td style="padding: 10px 0; color: #475569; font-weight: 600; width: 120px;">Name:</td><td style="padding: 10px 0;">{{.FullName}}</td></tr>
      <tr><td style="padding: 10px 0; color: #475569; font-weight: 600;">Email:</td><td style="padding: 10px 0;"><a href="mailto:{{.Email}}" style="color: #06b6d4;">{{.Email}}</a></td></tr>
      <tr><td style="padding: 10px 0; color: #475569; font-weight: 600;">Phone:</td><td style="padding: 10px 0;">{{.Phone}}</td></tr>
      <tr><td style="padding: 10px 0; color: #475569; font-weight: 600;">Service:</td><td style="padding: 10px 0;">{{.Service}}</td></tr>
    </table>
    <div style="padding: 20px; border-left: 4px solid #06b6d4; margin-top: 20px;">
      <h3 style="color: #475569; margin: 0 0 10px 0; font-size: 14px; text-transform: uppercase;">Message:</h3>
      <p style="color: #0f172a; margin: 0; line-height: 1.6; white-space: pre-wrap;">{{.Message}}</p>
    </div>
    <p style="color: #94a3b8; font-size: 12px; text-align: center; margin-top: 30px;">Sent from KRONEUS Contact Form<br/>{{.Sent}}</p>
  </div>
</div>
`))

type emailData struct {
	Submission
	Sent string
}

// Subject returns the notification subject line.
func Subject(sub Submission) string {
	return "New Contact Request from " + sub.FullName
}

// RenderEmail builds the notification body. All submitter fields are escaped.
func RenderEmail(sub Submission, sent time.Time) (string, error) {
	var buf bytes.Buffer
	data := emailData{Submission: sub, Sent: sent.UTC().Format("Monday, January 2, 2006 15:04 MST")}
	if err := emailTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render contact email: %w", err)
	}
	return buf.String(), nil
}
