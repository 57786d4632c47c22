package email

import (
	"bytes"
	"html/template"
)

type TemplateData struct {
	Subject     string
	BodyLines   []string
	ActionLabel string
	ActionURL   string
}

// notificationTemplate is the single layout used for every notification
// email: greeting-free body lines plus one call-to-action button.
const notificationTemplate = `<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>{{.Subject}}</title></head>
<body style="font-family: Arial, sans-serif; background-color: #f4f4f4; margin: 0; padding: 20px;">
  <div style="max-width: 560px; margin: 0 auto; background: #ffffff; border-radius: 8px; padding: 32px;">
    <h2 style="color: #222222; margin-top: 0;">{{.Subject}}</h2>
    {{range .BodyLines}}
    <p style="color: #444444; line-height: 1.5;">{{.}}</p>
    {{end}}
    {{if .ActionURL}}
    <p style="text-align: center; margin: 32px 0 16px;">
      <a href="{{.ActionURL}}" style="background: #2d6cdf; color: #ffffff; text-decoration: none; padding: 12px 28px; border-radius: 6px; display: inline-block;">{{.ActionLabel}}</a>
    </p>
    {{end}}
    <p style="color: #999999; font-size: 12px; margin-bottom: 0;">Allsers &middot; This is an automated message, please do not reply.</p>
  </div>
</body>
</html>`

type TemplateManager struct {
	tpl *template.Template
}

func NewTemplateManager() (*TemplateManager, error) {
	tpl, err := template.New("notification").Parse(notificationTemplate)
	if err != nil {
		return nil, err
	}
	return &TemplateManager{tpl: tpl}, nil
}

func (tm *TemplateManager) Render(data TemplateData) (string, error) {
	if data.ActionLabel == "" && data.ActionURL != "" {
		data.ActionLabel = "Open"
	}

	var buf bytes.Buffer
	if err := tm.tpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
