package mailer

import (
	"fmt"
	"html"
)

func buildHTMLBody(link, referenceNumber string) string {
	return fmt.Sprintf(htmlTemplate, html.EscapeString(referenceNumber), html.EscapeString(link))
}

func buildTextBody(link, referenceNumber string) string {
	return fmt.Sprintf(`Employee Evaluation - Action Required

Your performance evaluation has been completed.
Reference Number: %s

Please review your evaluation at: %s

This link is secure and unique to your evaluation.
`, referenceNumber, link)
}

const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
  <style>
    body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
    .container { max-width: 600px; margin: 0 auto; padding: 20px; }
    .header { background-color: #4a5568; color: white; padding: 20px; text-align: center; }
    .content { padding: 20px; background-color: #f7fafc; }
    .button { display: inline-block; padding: 12px 24px; background-color: #3182ce; color: white; text-decoration: none; border-radius: 5px; margin: 20px 0; }
    .footer { padding: 20px; text-align: center; font-size: 12px; color: #718096; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1>Employee Evaluation</h1>
    </div>
    <div class="content">
      <p>Dear Employee,</p>
      <p>Your performance evaluation has been completed. Please review your evaluation and provide your acknowledgment.</p>
      <p><strong>Reference Number:</strong> %s</p>
      <p>Click the button below to view and acknowledge your evaluation:</p>
      <div style="text-align: center;">
        <a href="%s" class="button">View Evaluation</a>
      </div>
      <p style="margin-top: 20px; font-size: 14px; color: #718096;">
        <strong>Note:</strong> This link is secure and unique to your evaluation. Please do not share it with others.
      </p>
    </div>
    <div class="footer">
      <p>This is an automated message. Please do not reply to this email.</p>
    </div>
  </div>
</body>
</html>`
