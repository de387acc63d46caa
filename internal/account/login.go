package account

import "strings"

// LoginRoute maps an identifier prefix to the store that owns it.
type LoginRoute struct {
	Prefix string
	Kind   Kind
}

// LoginRoutes is checked in order; the first matching prefix wins.
var LoginRoutes = []LoginRoute{
	{Prefix: "01-", Kind: KindStudent},
	{Prefix: "P-", Kind: KindProfessor},
	{Prefix: "A-", Kind: KindAdmin},
}

// KindForLoginID resolves the record kind for a login identifier.
func KindForLoginID(id string) (Kind, bool) {
	for _, r := range LoginRoutes {
		if strings.HasPrefix(id, r.Prefix) {
			return r.Kind, true
		}
	}
	return "", false
}
