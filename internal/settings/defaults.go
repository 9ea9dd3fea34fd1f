package settings

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Built-in threshold constants, used when the settings table is absent
// or a row cannot be read. Days remaining at or below "danger" is
// expired-tier; at or below "warning" is warning-tier.
const (
	DefaultSSLDangerDays     = 7
	DefaultSSLWarningDays    = 30
	DefaultDomainDangerDays  = 14
	DefaultDomainWarningDays = 60
	DefaultIntervalHours     = 24
	DefaultRetentionDays     = 365
)

// Default message templates per (signal × tier). {domain} and {days} are
// substituted at dispatch time.
const (
	DefaultTemplateSSLWarning    = "⚠️ **SSL Expiring** {domain}: {days} days"
	DefaultTemplateSSLExpired    = "🚨 **SSL EXPIRED!** {domain}: {days} days"
	DefaultTemplateDomainWarning = "⏳ **Domain Expiring** {domain}: {days} days"
	DefaultTemplateDomainExpired = "🔥 **DOMAIN EXPIRES SOON!** {domain}: {days} days"
)

// DefaultSettings defines the default configuration values
var DefaultSettings = []Setting{
	// Expiry thresholds (days remaining)
	{Category: "thresholds", Key: "ssl_danger_days", Value: "7", ValueType: "int", Description: "SSL days remaining considered expired-tier"},
	{Category: "thresholds", Key: "ssl_warning_days", Value: "30", ValueType: "int", Description: "SSL days remaining considered warning-tier"},
	{Category: "thresholds", Key: "domain_danger_days", Value: "14", ValueType: "int", Description: "Registration days remaining considered expired-tier"},
	{Category: "thresholds", Key: "domain_warning_days", Value: "60", ValueType: "int", Description: "Registration days remaining considered warning-tier"},

	// Scheduler settings
	{Category: "scheduler", Key: "check_interval_hours", Value: "24", ValueType: "int", Description: "Hours between scheduled check runs (minimum 1)"},

	// Message templates
	{Category: "templates", Key: "ssl_warning", Value: DefaultTemplateSSLWarning, ValueType: "string", Description: "Message for warning-tier SSL expiry"},
	{Category: "templates", Key: "ssl_expired", Value: DefaultTemplateSSLExpired, ValueType: "string", Description: "Message for expired-tier SSL expiry"},
	{Category: "templates", Key: "domain_warning", Value: DefaultTemplateDomainWarning, ValueType: "string", Description: "Message for warning-tier registration expiry"},
	{Category: "templates", Key: "domain_expired", Value: DefaultTemplateDomainExpired, ValueType: "string", Description: "Message for expired-tier registration expiry"},

	// History settings
	{Category: "history", Key: "retention_days", Value: "365", ValueType: "int", Description: "Days to keep check history"},
}

// validateSettingValue validates a value against its expected type
func validateSettingValue(valueType, value string) error {
	switch valueType {
	case "int":
		if _, err := strconv.Atoi(value); err != nil {
			return fmt.Errorf("value must be an integer")
		}
	case "float":
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return fmt.Errorf("value must be a number")
		}
	case "bool":
		if value != "true" && value != "false" {
			return fmt.Errorf("value must be 'true' or 'false'")
		}
	case "json":
		if !json.Valid([]byte(value)) {
			return fmt.Errorf("value must be valid JSON")
		}
	}
	return nil
}
