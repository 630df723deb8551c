package mailer

import (
	"html/template"
	"strings"

	"sunseeker/internal/models"
)

type notificationData struct {
	Name       string
	Request    *models.Request
	VerifyLink string
	Caption    string
	HasImage   bool
	ImageCID   string
}

type replyData struct {
	Name    string
	Body    string
	Request *models.Request
}

var templateFuncs = template.FuncMap{
	"cid": func(id string) template.URL {
		return template.URL("cid:" + id)
	},
}

var notificationTmpl = template.Must(template.New("notification").Funcs(templateFuncs).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>Sunseeker - Request Received</title>
<style>
  body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; background: linear-gradient(90deg, rgba(255,209,213,1) 0%, rgba(255,236,173,1) 100%); }
  .email-container { background: rgba(255,255,255,0.95); border-radius: 15px; padding: 40px; }
  .header { text-align: center; margin-bottom: 30px; }
  .logo { font-size: 2.5rem; font-weight: bold; color: #4c2307; }
  .subtitle { color: #666; font-size: 1.1rem; }
  .content { background: rgba(255,255,255,0.8); padding: 25px; border-radius: 10px; border-left: 4px solid #ffda53; margin: 20px 0; }
  .request-details { background: rgba(255,255,255,0.9); padding: 20px; border-radius: 8px; margin: 15px 0; border: 2px solid #ffda53; }
  .detail-label { font-weight: bold; color: #4c2307; }
  .footer { text-align: center; margin-top: 30px; padding-top: 20px; border-top: 2px solid #ffda53; color: #666; font-size: 0.9rem; }
  .cta-button { display: inline-block; background: #ffda53; color: #4c2307; padding: 12px 25px; text-decoration: none; border-radius: 6px; font-weight: bold; margin: 20px 0; }
  .attachment { margin: 20px 0; text-align: center; background: rgba(255,255,255,0.9); padding: 15px; border-radius: 10px; border: 2px solid #ffda53; }
  .attachment img { max-width: 100%; border-radius: 8px; }
  .caption { color: #4c2307; font-weight: bold; margin-top: 10px; }
</style>
</head>
<body>
<div class="email-container">
  <div class="header">
    <div class="logo">Sunseeker</div>
    <div class="subtitle">Find what you seek</div>
  </div>
  <div class="content">
    <h2 style="color: #4c2307; margin-top: 0;">Request Received!</h2>
    <p>Dear {{.Name}},</p>
    <p>Thank you for reaching out to us. We have received your request and our team will review it shortly.</p>
    {{if .HasImage}}
    <div class="attachment">
      <img src="{{cid .ImageCID}}" alt="Attachment" />
      {{if .Caption}}<div class="caption">{{.Caption}}</div>{{end}}
    </div>
    {{end}}
    {{if .VerifyLink}}
    <div style="text-align: center;">
      <a href="{{.VerifyLink}}" class="cta-button">Click this button to verify your payment with the seeker</a>
    </div>
    {{end}}
    <div class="request-details">
      <h3 style="color: #4c2307; margin-top: 0;">Your Request Details:</h3>
      <div><span class="detail-label">Name:</span> {{.Request.Name}}</div>
      <div><span class="detail-label">Email:</span> {{.Request.Email}}</div>
      <div>
        <span class="detail-label">Message:</span><br>
        <div style="background: rgba(255,255,255,0.7); padding: 10px; border-radius: 5px; margin-top: 5px;">{{.Request.Message}}</div>
      </div>
      <div><span class="detail-label">Submitted:</span> {{.Request.CreatedAt.Format "Jan 2, 2006 3:04 PM"}}</div>
    </div>
    <p>We typically respond within 24-48 hours. You'll receive a follow-up email with our response.</p>
  </div>
  <div class="footer">
    <p>&copy;2025 Sunseeker, All Rights Reserved.</p>
    <p>This is an automated message, please do not reply directly to this email.</p>
  </div>
</div>
</body>
</html>
`))

var replyTmpl = template.Must(template.New("reply").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>Sunseeker - Response to Your Request</title>
<style>
  body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; background: linear-gradient(90deg, rgba(255,209,213,1) 0%, rgba(255,236,173,1) 100%); }
  .email-container { background: rgba(255,255,255,0.95); border-radius: 15px; padding: 40px; }
  .header { text-align: center; margin-bottom: 30px; }
  .logo { font-size: 2.5rem; font-weight: bold; color: #4c2307; }
  .subtitle { color: #666; font-size: 1.1rem; }
  .content { background: rgba(255,255,255,0.8); padding: 25px; border-radius: 10px; border-left: 4px solid #ffda53; margin: 20px 0; }
  .reply-section { background: rgba(255,255,255,0.9); padding: 20px; border-radius: 8px; margin: 15px 0; border: 2px solid #4c2307; }
  .original-request { background: rgba(255,255,255,0.7); padding: 15px; border-radius: 8px; margin: 15px 0; border-left: 3px solid #ffda53; }
  .footer { text-align: center; margin-top: 30px; padding-top: 20px; border-top: 2px solid #ffda53; color: #666; font-size: 0.9rem; }
</style>
</head>
<body>
<div class="email-container">
  <div class="header">
    <div class="logo">Sunseeker</div>
    <div class="subtitle">Find what you seek</div>
  </div>
  <div class="content">
    <h2 style="color: #4c2307; margin-top: 0;">Response to Your Request</h2>
    <p>Dear {{.Name}},</p>
    <p>Thank you for contacting us. Here is our response to your request:</p>
    <div class="reply-section">
      <h3 style="color: #4c2307; margin-top: 0;">Our Response:</h3>
      <div style="background: rgba(255,255,255,0.7); padding: 15px; border-radius: 5px; margin: 10px 0;">{{.Body}}</div>
    </div>
    <div class="original-request">
      <h4 style="color: #4c2307; margin-top: 0;">Your Original Request:</h4>
      <p><strong>Message:</strong> {{.Request.Message}}</p>
      <p><strong>Submitted:</strong> {{.Request.CreatedAt.Format "Jan 2, 2006 3:04 PM"}}</p>
    </div>
    <p>If you have any further questions, please don't hesitate to reach out to us again.</p>
  </div>
  <div class="footer">
    <p>&copy;2025 Sunseeker, All Rights Reserved.</p>
    <p>This is an automated message, please do not reply directly to this email.</p>
  </div>
</div>
</body>
</html>
`))

func renderNotification(data notificationData) (string, error) {
	var buf strings.Builder
	if err := notificationTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func renderReply(data replyData) (string, error) {
	var buf strings.Builder
	if err := replyTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
