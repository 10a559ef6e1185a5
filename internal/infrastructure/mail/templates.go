package mail

import (
	htmltemplate "html/template"
	"text/template"
)

type templatePair struct {
	subject string
	text    *template.Template
	html    *htmltemplate.Template
}

const (
	templateWelcome       = "welcome"
	templatePasswordReset = "password_reset"
	templateFollowup      = "followup"
)

var templates = map[string]templatePair{
	templateWelcome: {
		subject: "Welcome to Integrated Oasis",
		text: template.Must(template.New("welcome.txt").Parse(
			`Hi {{.Name}},

Welcome to Integrated Oasis. Your account has been created. Log in at {{.AppURL}} to get started.

Thanks,
The Oasis team
`)),
		html: htmltemplate.Must(htmltemplate.New("welcome.html").Parse(
			`<p>Hi {{.Name}},</p>
<p>Welcome to Integrated Oasis. Your account has been created.</p>
<p><a href="{{.AppURL}}">Log in</a> to get started.</p>
<p>Thanks,<br>The Oasis team</p>
`)),
	},
	templatePasswordReset: {
		subject: "Password Reset - Integrated Oasis",
		text: template.Must(template.New("reset.txt").Parse(
			`Hi {{.Name}},

You requested a password reset for your Integrated Oasis account.

Reset your password here: {{.URL}}

This link will expire in 1 hour.

If you didn't request this, please ignore this email.

Thanks,
The Oasis team
`)),
		html: htmltemplate.Must(htmltemplate.New("reset.html").Parse(
			`<p>Hi {{.Name}},</p>
<p>You requested a password reset for your Integrated Oasis account.</p>
<p><a href="{{.URL}}">Reset your password</a></p>
<p>This link will expire in 1 hour.</p>
<p>If you didn't request this, please ignore this email.</p>
`)),
	},
	templateFollowup: {
		subject: "We'd love to see you back at Integrated Oasis",
		text: template.Must(template.New("followup.txt").Parse(
			`Hi {{.Name}},

We noticed you haven't been around lately. New courses are waiting for you at {{.AppURL}}.

Thanks,
The Oasis team
`)),
		html: htmltemplate.Must(htmltemplate.New("followup.html").Parse(
			`<p>Hi {{.Name}},</p>
<p>We noticed you haven't been around lately. New courses are waiting for you.</p>
<p><a href="{{.AppURL}}">Continue learning</a></p>
<p>Thanks,<br>The Oasis team</p>
`)),
	},
}

type templateData struct {
	Name   string
	AppURL string
	URL    string
}
