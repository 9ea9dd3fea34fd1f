package check

import (
	"strconv"
	"strings"

	"domainwatch/internal/models"
	"domainwatch/internal/settings"
)

var fallbackTemplates = map[string]string{
	"ssl_warning":    settings.DefaultTemplateSSLWarning,
	"ssl_expired":    settings.DefaultTemplateSSLExpired,
	"domain_warning": settings.DefaultTemplateDomainWarning,
	"domain_expired": settings.DefaultTemplateDomainExpired,
}

// buildMessage assembles the notification text for one domain, one line
// per alerting signal. The per-domain notify toggles gate their tiers
// here: notify_on_warning gates warning lines, notify_on_critical gates
// expired lines, so a fully gated domain produces an empty message and
// no dispatch.
func buildMessage(d *models.Domain, snap settings.Snapshot, sslStatus, domainStatus Status, sslDays, domainDays *int) string {
	var lines []string

	appendLine := func(signal string, status Status, days *int) {
		var key string
		switch {
		case status == StatusWarning && d.NotifyWarning:
			key = signal + "_warning"
		case status == StatusExpired && d.NotifyCritical:
			key = signal + "_expired"
		default:
			return
		}
		lines = append(lines, renderTemplate(templateFor(snap, key), d.Hostname, days))
	}

	appendLine("ssl", sslStatus, sslDays)
	appendLine("domain", domainStatus, domainDays)

	return strings.Join(lines, "\n")
}

func templateFor(snap settings.Snapshot, key string) string {
	if tpl, ok := snap.Templates[key]; ok && tpl != "" {
		return tpl
	}
	return fallbackTemplates[key]
}

func renderTemplate(tpl, hostname string, days *int) string {
	out := strings.ReplaceAll(tpl, "{domain}", hostname)
	if days != nil {
		out = strings.ReplaceAll(out, "{days}", strconv.Itoa(*days))
	}
	return out
}
