package mailer

import "fmt"

// VerificationEmail renders the account verification mail body. The link
// points at GET /api/v1/users/verify with the code and user id as query
// parameters.
func VerificationEmail(name, link string) string {
	return fmt.Sprintf(`<p>Hi %s,</p>
<p>Welcome to Inkwell. Please verify your account by clicking the link below:</p>
<p><a href=%q>Verify your account</a></p>
<p>If you did not create this account you can ignore this mail.</p>`, name, link)
}

// RecoveryEmail renders the password recovery mail body.
func RecoveryEmail(name, link string) string {
	return fmt.Sprintf(`<p>Hi %s,</p>
<p>We received a request to reset your password. Follow the link below to choose a new one:</p>
<p><a href=%q>Reset your password</a></p>
<p>If you did not request a reset you can ignore this mail.</p>`, name, link)
}
