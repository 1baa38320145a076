// Package auth selects accounts and obtains OAuth tokens for them.
package auth

import "strings"

const (
	// GoogleAccountType is the only account type the printer directory accepts.
	GoogleAccountType = "com.google"

	// CloudPrintScope authorizes printer directory calls.
	CloudPrintScope = "oauth2:https://www.googleapis.com/auth/cloudprint"
)

// Account is a user identity that can be offered in the account selector.
type Account struct {
	Name string
	Type string
}

// FilterAccounts keeps accounts whose type is in permitted, in input order.
// Accounts with a blank name are dropped. An empty permitted list keeps all.
func FilterAccounts(accounts []Account, permitted []string) []Account {
	allowed := make(map[string]struct{}, len(permitted))
	for _, t := range permitted {
		allowed[strings.TrimSpace(t)] = struct{}{}
	}
	out := make([]Account, 0, len(accounts))
	for _, acct := range accounts {
		if strings.TrimSpace(acct.Name) == "" {
			continue
		}
		if len(allowed) > 0 {
			if _, ok := allowed[acct.Type]; !ok {
				continue
			}
		}
		out = append(out, acct)
	}
	return out
}

// IndexOf returns the position of the named account, or -1.
func IndexOf(accounts []Account, name string) int {
	for i, acct := range accounts {
		if acct.Name == name {
			return i
		}
	}
	return -1
}
