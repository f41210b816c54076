package guard

import (
	"io"
	"text/template"

	"github.com/wolfeidau/mihotel/internal/views"
	"golang.org/x/text/message"
)

var accessDeniedTmpl = template.Must(template.New("denied").Parse(`{{.Title}}

{{.Message}}

{{range .Actions}}  {{.Label}}{{if .Target}}: mihotel {{.Target}}{{end}}
{{end}}`))

// Action is a way out of the access denied view.
type Action struct {
	Label  string
	Target string
}

type accessDenied struct {
	Title   string
	Message string
	Actions []Action
}

// RenderAccessDenied writes the access denied view for target, offering to go
// back or to go to dashboard.
func RenderAccessDenied(w io.Writer, p *message.Printer, target, dashboard string) error {
	if p == nil {
		p = views.NewPrinter("en")
	}
	return accessDeniedTmpl.Execute(w, accessDenied{
		Title:   p.Sprintf(views.MsgAccessDenied),
		Message: p.Sprintf(views.MsgAccessDeniedFor, target),
		Actions: []Action{
			{Label: p.Sprintf(views.MsgGoBack)},
			{Label: p.Sprintf(views.MsgGoToDashboard), Target: commandFor(dashboard)},
		},
	})
}

// RenderLoading writes the loading indicator.
func RenderLoading(w io.Writer, p *message.Printer) error {
	if p == nil {
		p = views.NewPrinter("en")
	}
	_, err := io.WriteString(w, p.Sprintf(views.MsgLoading)+"\n")
	return err
}

// commandFor maps a route to the CLI command that shows it.
func commandFor(route string) string {
	if len(route) > 0 && route[0] == '/' {
		return route[1:]
	}
	return route
}
