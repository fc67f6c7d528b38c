package supabase

import (
	"context"
	"time"

	"petmatch/pkg/auth"

	"github.com/google/uuid"
	"github.com/supabase-community/gotrue-go"
	"github.com/supabase-community/gotrue-go/types"
)

// AuthClient adapts gotrue-go to auth.Backend.
type AuthClient struct {
	gotrue gotrue.Client
	now    func() time.Time
}

var _ auth.Backend = (*AuthClient)(nil)

func NewAuthClient(client *Client) *AuthClient {
	// the project reference is unused once the URL is overridden
	gt := gotrue.New("", client.APIKey).
		WithCustomGoTrueURL(client.BaseURL + "/auth/v1").
		WithClient(*client.HTTPClient)

	return &AuthClient{gotrue: gt, now: time.Now}
}

func (a *AuthClient) SignInWithPassword(ctx context.Context, email, password string) (*auth.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res, err := a.gotrue.SignInWithEmailPassword(email, password)
	if err != nil {
		return nil, fromGoTrueError(err)
	}
	return a.toSession(res.Session), nil
}

func (a *AuthClient) SignUp(ctx context.Context, email, password string) (*auth.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res, err := a.gotrue.Signup(types.SignupRequest{Email: email, Password: password})
	if err != nil {
		return nil, fromGoTrueError(err)
	}
	if res.Session.AccessToken == "" {
		return &auth.Session{User: toUser(res.User)}, nil
	}
	return a.toSession(res.Session), nil
}

func (a *AuthClient) RefreshSession(ctx context.Context, refreshToken string) (*auth.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res, err := a.gotrue.RefreshToken(refreshToken)
	if err != nil {
		return nil, fromGoTrueError(err)
	}
	return a.toSession(res.Session), nil
}

func (a *AuthClient) GetUser(ctx context.Context, accessToken string) (*auth.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res, err := a.gotrue.WithToken(accessToken).GetUser()
	if err != nil {
		return nil, fromGoTrueError(err)
	}
	user := toUser(res.User)
	return &user, nil
}

func (a *AuthClient) SignOut(ctx context.Context, accessToken string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fromGoTrueError(a.gotrue.WithToken(accessToken).Logout())
}

func (a *AuthClient) toSession(s types.Session) *auth.Session {
	expiresAt := time.Time{}
	switch {
	case s.ExpiresAt > 0:
		expiresAt = time.Unix(s.ExpiresAt, 0)
	case s.ExpiresIn > 0:
		expiresAt = a.now().Add(time.Duration(s.ExpiresIn) * time.Second)
	}

	return &auth.Session{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		TokenType:    s.TokenType,
		ExpiresAt:    expiresAt,
		User:         toUser(s.User),
	}
}

func toUser(u types.User) auth.User {
	user := auth.User{Email: u.Email, Role: u.Role}
	if u.ID != uuid.Nil {
		user.ID = u.ID.String()
	}
	return user
}
