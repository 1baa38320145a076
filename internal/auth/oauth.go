package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Authenticator furnishes bearer tokens for an account and scope. Forget
// drops whatever is cached for an account after the API rejects its token.
type Authenticator interface {
	Token(ctx context.Context, account, scope string) (string, error)
	Forget(account string)
}

// Ensure OAuth implements Authenticator at compile time.
var _ Authenticator = (*OAuth)(nil)

var (
	// ErrNoCredentials is returned for accounts without a stored grant.
	ErrNoCredentials = errors.New("no credentials for account")

	// ErrInvalidToken is returned when the token endpoint hands back an unusable token.
	ErrInvalidToken = errors.New("token endpoint returned an invalid token")
)

// Credentials is the stored grant for one account. AccessToken, when set,
// is used as-is and never refreshed.
type Credentials struct {
	RefreshToken string
	AccessToken  string
}

// OAuthOptions configure NewOAuth.
type OAuthOptions struct {
	ClientID     string
	ClientSecret string
	TokenURL     string       // empty uses Google's token endpoint
	HTTPClient   *http.Client // nil uses http.DefaultClient
	Credentials  map[string]Credentials
}

// OAuth exchanges stored refresh tokens for access tokens. Token sources are
// cached per account and scope so repeated calls reuse a still-valid token.
type OAuth struct {
	clientID     string
	clientSecret string
	endpoint     oauth2.Endpoint
	httpCtx      context.Context
	credentials  map[string]Credentials

	mu      sync.Mutex
	sources map[string]oauth2.TokenSource
}

// NewOAuth builds an OAuth authenticator.
func NewOAuth(opts OAuthOptions) *OAuth {
	endpoint := google.Endpoint
	if url := strings.TrimSpace(opts.TokenURL); url != "" {
		endpoint.TokenURL = url
	}
	// oauth2 reads the HTTP client from the context captured by each token source.
	httpCtx := context.Background()
	if opts.HTTPClient != nil {
		httpCtx = context.WithValue(httpCtx, oauth2.HTTPClient, opts.HTTPClient)
	}
	creds := make(map[string]Credentials, len(opts.Credentials))
	for name, c := range opts.Credentials {
		creds[name] = c
	}
	return &OAuth{
		clientID:     opts.ClientID,
		clientSecret: opts.ClientSecret,
		endpoint:     endpoint,
		httpCtx:      httpCtx,
		credentials:  creds,
		sources:      make(map[string]oauth2.TokenSource),
	}
}

// Token returns an access token for account scoped to scope.
func (o *OAuth) Token(ctx context.Context, account, scope string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	src, err := o.source(account, scope)
	if err != nil {
		return "", err
	}
	tok, err := fetch(ctx, src)
	if err != nil {
		return "", fmt.Errorf("fetch token for %s: %w", account, err)
	}
	if !tok.Valid() {
		return "", fmt.Errorf("%w for %s", ErrInvalidToken, account)
	}
	return tok.AccessToken, nil
}

type fetchResult struct {
	tok *oauth2.Token
	err error
}

// fetch runs src.Token but returns as soon as ctx is done. oauth2 token
// sources take no context, so an abandoned refresh finishes in the background
// bounded by the HTTP client's own timeout.
func fetch(ctx context.Context, src oauth2.TokenSource) (*oauth2.Token, error) {
	ch := make(chan fetchResult, 1)
	go func() {
		tok, err := src.Token()
		ch <- fetchResult{tok: tok, err: err}
	}()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		return r.tok, r.err
	}
}

// Forget drops cached tokens for account, forcing the next Token call to
// go back to the token endpoint.
func (o *OAuth) Forget(account string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	prefix := account + "\x00"
	for key := range o.sources {
		if strings.HasPrefix(key, prefix) {
			delete(o.sources, key)
		}
	}
}

func (o *OAuth) source(account, scope string) (oauth2.TokenSource, error) {
	key := account + "\x00" + scope

	o.mu.Lock()
	defer o.mu.Unlock()

	if src, ok := o.sources[key]; ok {
		return src, nil
	}

	creds, ok := o.credentials[account]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoCredentials, account)
	}

	var src oauth2.TokenSource
	switch {
	case strings.TrimSpace(creds.AccessToken) != "":
		src = oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: strings.TrimSpace(creds.AccessToken),
			TokenType:   "Bearer",
		})
	case strings.TrimSpace(creds.RefreshToken) != "":
		cfg := &oauth2.Config{
			ClientID:     o.clientID,
			ClientSecret: o.clientSecret,
			Endpoint:     o.endpoint,
			Scopes:       SplitScope(scope),
		}
		src = cfg.TokenSource(o.httpCtx, &oauth2.Token{RefreshToken: strings.TrimSpace(creds.RefreshToken)})
	default:
		return nil, fmt.Errorf("%w: %q", ErrNoCredentials, account)
	}

	o.sources[key] = src
	return src, nil
}

// SplitScope turns a platform-style scope string ("oauth2:a b") into scopes.
func SplitScope(scope string) []string {
	return strings.Fields(strings.TrimPrefix(strings.TrimSpace(scope), "oauth2:"))
}
