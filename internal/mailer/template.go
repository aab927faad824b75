package mailer

import (
    "bytes"
    "html/template"
)

// Condensed version of the production cold-email layout. The generated
// body is escaped and dropped into the content block; everything else is
// fixed branding.
const htmlLayout = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<style>
body { font-family: 'Inter', -apple-system, 'Segoe UI', sans-serif; background-color: #f8f9fb; margin: 0; padding: 30px 0; line-height: 1.65; }
.email-container { max-width: 600px; margin: 0 auto; background: #ffffff; border-radius: 8px; overflow: hidden; }
.header { padding: 40px 40px 30px; text-align: center; border-bottom: 1px solid #e8eaed; }
.logo { font-size: 26px; font-weight: 700; color: #0f172a; }
.logo-accent { color: #6366f1; }
.tagline { color: #64748b; font-size: 13px; margin-top: 6px; }
.content { padding: 50px 40px; }
.body-text { font-size: 15px; color: #334155; white-space: pre-wrap; word-wrap: break-word; }
.cta-container { text-align: center; margin: 40px 0; }
.cta-button { display: inline-block; padding: 15px 36px; background: #6366f1; color: #ffffff !important; text-decoration: none; border-radius: 6px; font-weight: 600; font-size: 14px; }
.signature { margin-top: 45px; padding-top: 30px; border-top: 1px solid #e8eaed; }
.signature-company { font-size: 15px; font-weight: 700; color: #6366f1; }
.footer { background: #f8f9fb; padding: 30px 40px; text-align: center; border-top: 1px solid #e8eaed; font-size: 11px; color: #94a3b8; }
</style>
</head>
<body>
<div class="email-container">
  <div class="header">
    <div class="logo"><span class="logo-accent">Web</span>Asthetic Solutions</div>
    <div class="tagline">Building Your Digital Dreams</div>
  </div>
  <div class="content">
    <div class="body-text">{{.Body}}</div>
    <div class="cta-container">
      <a href="https://cal.com/webastheticsolutions" class="cta-button">Schedule a Free Consultation</a>
    </div>
    <div class="signature">
      <div>Best regards,</div>
      <div class="signature-company">WebAsthetic Solutions</div>
      <a href="https://webasthetic.in">webasthetic.in</a>
    </div>
  </div>
  <div class="footer">Automated Email &copy; 2026 WebAsthetic Solutions. All rights reserved.</div>
</div>
</body>
</html>`

var htmlTemplate = template.Must(template.New("email").Parse(htmlLayout))

// RenderHTML wraps the plain-text body in the branded HTML layout.
func RenderHTML(body string) (string, error) {
    var buf bytes.Buffer
    if err := htmlTemplate.Execute(&buf, struct{ Body string }{Body: body}); err != nil {
        return "", err
    }
    return buf.String(), nil
}
