// Package notify sends failure and completion messages of iterations via go-pkgz/notify destinations
package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/url"
	"os"
	"strings"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/go-pkgz/notify"
	"github.com/hashicorp/go-multierror"
)

// Params define what to notify about and how messages look
type Params struct {
	EnabledFailure     bool
	EnabledCompletion  bool
	FailureTemplate    string // optional template file, built-in template used if missing or broken
	CompletionTemplate string
	Host               string
}

// SendersParams define destinations
type SendersParams struct {
	SMTP      notify.SMTPParams
	FromEmail string
	ToEmails  []string
}

// Service sends messages to all destinations
type Service struct {
	Params
	destinations []notify.Notifier
	fromEmail    string
	toEmail      []string
}

// NewService makes notification service, nil if no destination defined
func NewService(p Params, sp SendersParams) *Service {
	if len(sp.ToEmails) == 0 {
		return nil
	}
	res := &Service{Params: p, fromEmail: sp.FromEmail, toEmail: sp.ToEmails}
	res.destinations = append(res.destinations, notify.NewEmail(sp.SMTP))
	log.Printf("[INFO] notifications to %v, failure:%v, completion:%v", sp.ToEmails, p.EnabledFailure, p.EnabledCompletion)
	return res
}

// Send message with subject to every destination
func (s *Service) Send(ctx context.Context, subj, text string) error {
	var errs *multierror.Error
	for _, dest := range s.destinations {
		switch dest.Schema() {
		case "mailto":
			to := fmt.Sprintf("mailto:%s?from=%s&subject=%s", strings.Join(s.toEmail, ","), s.fromEmail, url.QueryEscape(subj))
			if err := dest.Send(ctx, to, text); err != nil {
				errs = multierror.Append(errs, err)
			}
		default:
			log.Printf("[WARN] unsupported notification destination %s", dest)
		}
	}
	return errs.ErrorOrNil()
}

// IsOnFailure tells if failed jobs should be reported
func (s *Service) IsOnFailure() bool { return s.EnabledFailure }

// IsOnCompletion tells if completed iterations should be reported
func (s *Service) IsOnCompletion() bool { return s.EnabledCompletion }

// MakeFailureHTML makes message about failed jobs of the iteration
func (s *Service) MakeFailureHTML(iter string, jobs []string) (string, error) {
	data := struct {
		Iteration string
		Jobs      []string
		TS        time.Time
		Host      string
	}{Iteration: iter, Jobs: jobs, TS: time.Now(), Host: s.Host}
	return s.render(s.FailureTemplate, failureTmpl, data)
}

// MakeCompletionHTML makes message about an iteration with all submitted jobs retrieved
func (s *Service) MakeCompletionHTML(iter string, retrieved int) (string, error) {
	data := struct {
		Iteration string
		Retrieved int
		TS        time.Time
		Host      string
	}{Iteration: iter, Retrieved: retrieved, TS: time.Now(), Host: s.Host}
	return s.render(s.CompletionTemplate, completionTmpl, data)
}

func (s *Service) render(file, def string, data any) (string, error) {
	tmpl := def
	if file != "" {
		if b, err := os.ReadFile(file); err == nil { //nolint:gosec // template file set by the user
			if _, err := template.New("check").Parse(string(b)); err == nil {
				tmpl = string(b)
			} else {
				log.Printf("[WARN] can't parse template %s, default used: %v", file, err)
			}
		} else {
			log.Printf("[WARN] can't read template %s, default used: %v", file, err)
		}
	}

	t, err := template.New("msg").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("can't parse message template: %w", err)
	}
	buf := bytes.Buffer{}
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to apply template: %w", err)
	}
	return buf.String(), nil
}

const style = `<style type="text/css">
			body {font-family: "Arial"; font-size: 1.0em;}
			ul {margin-top: -0.5em; margin-left: -0.5em;}
			.bold {color: #882828; font-weight: 900;}
		</style>`

const failureTmpl = `<!DOCTYPE html>
<html>
	<head>
		<meta name="viewport" content="width=device-width" />
		<meta http-equiv="Content-Type" content="text/html; charset=UTF-8" />
		` + style + `
	</head>
	<body>
		<p>Jobs of <span class="bold">{{.Iteration}}</span> failed on {{.Host}} at {{.TS.Format "2006-01-02T15:04:05Z07:00"}}</p>
		<ul>
		{{- range .Jobs}}
			<li>Job: <span class="bold">{{.}}</span></li>
		{{- end}}
		</ul>
		<p>Resubmit them to continue the iteration.</p>
	</body>
</html>
`

const completionTmpl = `<!DOCTYPE html>
<html>
	<head>
		<meta name="viewport" content="width=device-width" />
		<meta http-equiv="Content-Type" content="text/html; charset=UTF-8" />
		` + style + `
	</head>
	<body>
		<p>Iteration <span class="bold">{{.Iteration}}</span> completed on {{.Host}} at {{.TS.Format "2006-01-02T15:04:05Z07:00"}}</p>
		<ul>
			<li>Retrieved: <span class="bold">{{.Retrieved}}</span></li>
		</ul>
	</body>
</html>
`
