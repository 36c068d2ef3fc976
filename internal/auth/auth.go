// Package auth gates a session behind a shared secret. A secret selects
// exactly one worklist; there is no account state beyond that mapping.
package auth

import "errors"

// ErrInvalidCredential means the secret matched no annotator.
var ErrInvalidCredential = errors.New("credential not recognized")

// Entry is one configured annotator.
type Entry struct {
	Name     string
	Secret   string
	Worklist string
}

// Annotator is the identity a successful login yields.
type Annotator struct {
	Name     string
	Worklist string
}

// Authenticator resolves secrets against the configured annotators.
type Authenticator struct {
	bySecret map[string]Annotator
}

func New(entries []Entry) *Authenticator {
	m := make(map[string]Annotator, len(entries))
	for _, e := range entries {
		if e.Secret == "" {
			continue
		}
		m[e.Secret] = Annotator{Name: e.Name, Worklist: e.Worklist}
	}
	return &Authenticator{bySecret: m}
}

// Authenticate maps a secret to its annotator.
func (a *Authenticator) Authenticate(secret string) (Annotator, error) {
	if an, ok := a.bySecret[secret]; ok {
		return an, nil
	}
	return Annotator{}, ErrInvalidCredential
}
