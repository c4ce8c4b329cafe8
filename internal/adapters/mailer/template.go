package mailer

import (
	"fmt"
	"time"
)

// OTPEmailSubject is used for both login and registration codes.
const OTPEmailSubject = "Your verification code"

// OTPEmailHTML renders the one-time code email body.
func OTPEmailHTML(code string, validity time.Duration) string {
	minutes := int(validity.Minutes())
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
  <body style="font-family: Arial, sans-serif; background-color: #f6f6f6; padding: 24px;">
    <div style="max-width: 480px; margin: 0 auto; background: #ffffff; border-radius: 8px; padding: 32px;">
      <h2 style="margin-top: 0; color: #333333;">Verify your email</h2>
      <p style="color: #555555;">Use the code below to continue signing in. It expires in %d minutes.</p>
      <p style="font-size: 32px; font-weight: bold; letter-spacing: 8px; text-align: center; color: #111111;">%s</p>
      <p style="color: #999999; font-size: 12px;">If you did not request this code, you can safely ignore this email.</p>
    </div>
  </body>
</html>`, minutes, code)
}
