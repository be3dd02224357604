package validator

import (
	"net/mail"
	"strings"

	"github.com/spf13/viper"
)

// Email accepts an address in one of bot.mail.valid-email-domains, or any
// address when none are configured.
func Email(email string, _ map[string]interface{}) bool {
	return emailFormat(email) && emailDomain(email)
}

func emailFormat(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}

func emailDomain(email string) bool {
	validDomains := viper.GetStringSlice("bot.mail.valid-email-domains")
	if len(validDomains) == 0 {
		return true
	}

	for _, domain := range validDomains {
		if strings.HasSuffix(email, domain) {
			return true
		}
	}
	return false
}
