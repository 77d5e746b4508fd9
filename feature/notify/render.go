package notify

import (
	"fmt"
	"strings"

	"parcel-watch/core/reconcile"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// RenderedMessage is a notification ready for delivery.
type RenderedMessage struct {
	Subject string
	Text    string
}

// Renderer turns notifications into plain text messages.
type Renderer struct{}

// NewRenderer creates a renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render produces the message for a single notification.
func (r *Renderer) Render(n reconcile.Notification) (*RenderedMessage, error) {
	return r.RenderDigest([]reconcile.Notification{n})
}

// RenderDigest produces one message covering every notification.
func (r *Renderer) RenderDigest(ns []reconcile.Notification) (*RenderedMessage, error) {
	if len(ns) == 0 {
		return nil, fmt.Errorf("nothing to render")
	}

	return &RenderedMessage{
		Subject: subject(ns),
		Text:    renderPlainText(ns),
	}, nil
}

func heading(n reconcile.Notification) string {
	parts := make([]string, 0, 2)
	for _, p := range []string{n.LocationName, n.AssetTypeName} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return "Property changes"
	}
	return strings.Join(parts, " ")
}

// kindLabel renders a change kind for display, e.g. "Sale And Ownership".
func kindLabel(kind reconcile.ChangeKind) string {
	if kind == "" {
		return "Change"
	}
	return cases.Title(language.English).String(strings.ReplaceAll(string(kind), "_", " "))
}

func subject(ns []reconcile.Notification) string {
	if len(ns) == 1 {
		return fmt.Sprintf("Parcel Watch: %s - %s", heading(ns[0]), ns[0].Change.PropertyID)
	}
	return fmt.Sprintf("Parcel Watch: %s - %d changes", heading(ns[0]), len(ns))
}

func renderPlainText(ns []reconcile.Notification) string {
	var sb strings.Builder

	sb.WriteString(heading(ns[0]) + "\n")
	sb.WriteString(strings.Repeat("=", 50) + "\n\n")

	for _, n := range ns {
		sb.WriteString(fmt.Sprintf("• [%s] %s\n", kindLabel(n.Change.Kind), n.Change.Text))
	}
	return sb.String()
}
