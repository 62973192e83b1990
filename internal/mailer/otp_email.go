package mailer

import (
	"bytes"
	"html/template"
)

const OtpSubject = "Your OTP Code"

var otpTemplate = template.Must(template.New("otp").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
</head>
<body style="font-family: Arial, sans-serif; background-color: #f7f9fc; margin: 0; padding: 0;">
  <div style="background-color: white; max-width: 600px; margin: 40px auto; padding: 30px 40px; border-radius: 8px; color: #333;">
    <div style="font-size: 22px; font-weight: bold; margin-bottom: 20px; color: #2a9d8f;">Your OTP Code</div>
    <div style="font-size: 16px; line-height: 1.5; margin-bottom: 30px;">
      Hello,<br /><br />
      Thank you for using our service. To complete your action, please use the following One-Time Password (OTP):
    </div>
    <div style="font-size: 28px; font-weight: bold; letter-spacing: 4px; color: #e76f51; text-align: center; padding: 15px 0; border: 2px dashed #e76f51; border-radius: 6px; margin-bottom: 30px;">{{.Code}}</div>
    <div style="font-size: 16px; line-height: 1.5; margin-bottom: 30px;">
      This OTP is valid for <strong>{{.Duration}}</strong>. Please do not share it with anyone.<br /><br />
      If you did not request this code, please ignore this email or contact support.
    </div>
    <div style="font-size: 14px; color: #999; text-align: center;">
      &copy; 2025 SoniQ. All rights reserved.<br>
      <span style="color:#888; font-size:12px;">Please do not reply to this email. Replies are not monitored.</span>
    </div>
  </div>
</body>
</html>`))

func RenderOtpEmail(code, duration string) (string, error) {
	var buf bytes.Buffer
	err := otpTemplate.Execute(&buf, struct{ Code, Duration string }{code, duration})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
