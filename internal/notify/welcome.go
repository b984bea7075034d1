package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
)

var welcomeTemplate = template.Must(template.New("welcome").Parse(`
<h2>Bem-vindo(a), {{.Name}}</h2>
<p>Seu cadastro no {{.AppName}} foi realizado com sucesso!</p>
<p>Estamos felizes em tê-lo(a) conosco.</p>
`))

// WelcomeMessage builds the e-mail sent after an account is created.
// name is HTML-escaped in the body.
func WelcomeMessage(appName, name, email string) (Message, error) {
	if strings.TrimSpace(appName) == "" {
		appName = "TutorWay"
	}

	var body bytes.Buffer
	data := struct {
		AppName string
		Name    string
	}{AppName: appName, Name: name}
	if err := welcomeTemplate.Execute(&body, data); err != nil {
		return Message{}, fmt.Errorf("failed to render welcome message: %w", err)
	}

	msg := Message{
		To:       email,
		Subject:  "Boas-vindas ao " + appName,
		HTMLBody: strings.TrimSpace(body.String()),
	}
	if err := msg.Validate(); err != nil {
		return Message{}, err
	}
	return msg, nil
}
