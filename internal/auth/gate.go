package auth

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/chalani/chalani/internal/backend"
	"github.com/chalani/chalani/internal/shared"
)

// Verifier resolves the user behind the token carried by ctx.
type Verifier interface {
	Me(ctx context.Context) (shared.CurrentUser, error)
}

// Gate decides, per request, whether the session holds a usable token.
type Gate struct {
	verifier Verifier
	logger   *slog.Logger
	now      func() time.Time
}

// NewGate constructs a Gate.
func NewGate(verifier Verifier, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{verifier: verifier, logger: logger, now: time.Now}
}

// Check runs the gate state machine for sess until it settles. A session
// without a token is rejected without contacting the backend; any
// verification failure clears the stored credentials.
func (g *Gate) Check(ctx context.Context, sess *shared.Session) Result {
	res := Result{State: StateUnverified}
	for !res.State.Terminal() {
		res = g.step(ctx, sess, res)
	}
	return res
}

// step performs one transition from res.State.
func (g *Gate) step(ctx context.Context, sess *shared.Session, res Result) Result {
	switch res.State {
	case StateUnverified:
		if sess == nil {
			return Result{State: StateUnauthenticated}
		}
		token := sess.Token()
		if token == "" {
			sess.ClearCredentials()
			return Result{State: StateUnauthenticated}
		}
		if g.expired(token) {
			g.logger.Debug("auth gate token expired", slog.String("state", res.State.String()))
			sess.ClearCredentials()
			return Result{State: StateUnauthenticated}
		}
		return Result{State: StateVerifying, Token: token}
	case StateVerifying:
		user, err := g.verifier.Me(backend.WithToken(ctx, res.Token))
		if err != nil {
			g.logger.Info("auth gate verification failed", slog.String("state", res.State.String()), slog.Any("error", err))
			sess.ClearCredentials()
			return Result{State: StateUnauthenticated}
		}
		sess.SetProfile(user.DisplayName(), user.Role)
		sess.SetUser(strconv.FormatInt(user.ID, 10))
		return Result{State: StateVerified, User: user, Token: res.Token}
	}
	return res
}

// Require admits only verified requests, placing the user and token in the
// request context. Others are sent to the login page.
func (g *Gate) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		res := g.Check(ctx, shared.SessionFromContext(ctx))
		if res.State != StateVerified {
			http.Redirect(w, r, LoginURL(r), http.StatusSeeOther)
			return
		}
		ctx = shared.ContextWithUser(ctx, res.User)
		ctx = backend.WithToken(ctx, res.Token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// LoginURL returns the login page, remembering GET targets.
func LoginURL(r *http.Request) string {
	if r.Method != http.MethodGet || r.URL.Path == "/" {
		return "/login"
	}
	return "/login?next=" + url.QueryEscape(r.URL.RequestURI())
}

// expired reports whether token is a JWT whose exp claim has passed. Opaque
// tokens are left to the backend.
func (g *Gate) expired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !exp.After(g.now())
}
