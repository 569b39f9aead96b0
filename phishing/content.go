package phishing

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Pages shorter than this are treated as carrying no signal.
const minContentLength = 300

// Content rule weights.
const (
	weightLoginTitle     = 15
	weightPasswordField  = 20
	weightEmailPassword  = 15
	weightPostMethod     = 5
	weightBasicForm      = 5
	weightExternalAction = 15
	weightUrgency        = 10
)

var urgencyPhrases = []string{
	"urgent",
	"verify immediately",
	"account suspended",
	"act now",
	"limited time",
}

// ExtractContentSignals inspects fetched markup for credential-harvesting
// patterns. host is the page's own hostname, used to spot forms posting
// elsewhere. It also returns the visible body text for classification.
func ExtractContentSignals(html, host string) ([]Signal, string) {
	if len(html) < minContentLength {
		return nil, ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, ""
	}

	var signals []Signal
	add := func(points int, reason string) {
		signals = append(signals, Signal{Category: CategoryContent, Points: points, Reason: reason})
	}

	title := strings.ToLower(doc.Find("title").First().Text())
	if strings.Contains(title, "login") || strings.Contains(title, "verify") {
		add(weightLoginTitle, "Page title contains login/verification wording")
	}

	forms := doc.Find("form")
	passwordInForm := false
	forms.Each(func(_ int, form *goquery.Selection) {
		if hasInputType(form, "password") {
			passwordInForm = true
			add(weightPasswordField, "Page contains password input field")
			if hasInputType(form, "email") {
				add(weightEmailPassword, "Form collects email and password together")
			}
			if strings.EqualFold(strings.TrimSpace(form.AttrOr("method", "")), "post") {
				add(weightPostMethod, "Form submits credentials via POST")
			}
		}
		if submitsElsewhere(form.AttrOr("action", ""), host) {
			add(weightExternalAction, "Form submits data to external domain")
		}
	})

	switch {
	case !passwordInForm && hasInputType(doc.Selection, "password"):
		add(weightPasswordField, "Page contains password input field")
	case !passwordInForm && forms.Length() > 0:
		add(weightBasicForm, "Page contains basic form elements")
	}

	text := bodyText(doc)
	lower := strings.ToLower(text)
	for _, phrase := range urgencyPhrases {
		if strings.Contains(lower, phrase) {
			add(weightUrgency, fmt.Sprintf("Page contains urgency phrase %q", phrase))
		}
	}

	return signals, text
}

func hasInputType(sel *goquery.Selection, typ string) bool {
	found := false
	sel.Find("input").EachWithBreak(func(_ int, in *goquery.Selection) bool {
		if strings.EqualFold(strings.TrimSpace(in.AttrOr("type", "")), typ) {
			found = true
			return false
		}
		return true
	})
	return found
}

// submitsElsewhere reports whether a form action targets a host other than
// pageHost. Relative, empty and non-network actions stay on the page host.
func submitsElsewhere(action, pageHost string) bool {
	action = strings.TrimSpace(action)
	if action == "" || pageHost == "" {
		return false
	}
	u, err := url.Parse(action)
	if err != nil || u.Hostname() == "" {
		return false
	}
	return !strings.EqualFold(strings.TrimSuffix(u.Hostname(), "."), strings.TrimSuffix(pageHost, "."))
}

// bodyText returns the whitespace-collapsed text of <body> without scripts
// and styles.
func bodyText(doc *goquery.Document) string {
	body := doc.Find("body").Clone()
	body.Find("script, style, noscript, template").Remove()
	return strings.Join(strings.Fields(body.Text()), " ")
}
