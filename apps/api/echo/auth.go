package echoapi

import (
	"fmt"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/auth"
	"github.com/trezcool/shule/core/user"
)

var contextTokenKey = "userToken"

// newJWTConfig is the JWT auth middleware config applied to authed routes.
func newJWTConfig(conf *core.Config) middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    []byte(conf.SecretKey),
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    contextTokenKey,
		Claims:        new(auth.Claims),
	}
}

// authenticate checks credentials and returns the claims for a session token.
// Unknown email and wrong password both map to the same error so the endpoint
// does not reveal which accounts exist.
func authenticate(ctx echo.Context, email, pwd string, svc *user.Service, conf *core.Config) (*auth.Claims, error) {
	reqCtx := ctx.Request().Context()

	usr, err := svc.GetByEmail(reqCtx, email)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return nil, errAuthenticationFailed
		}
		return nil, errors.Wrap(err, "finding user by email")
	}
	if err = usr.CheckPassword(pwd); err != nil {
		return nil, errAuthenticationFailed
	}
	if !usr.IsActive {
		return nil, errAccountDeactivated
	}
	usr, err = svc.SetLastLogin(reqCtx, usr)
	if err != nil {
		return nil, errors.Wrap(err, "setting lastLogin")
	}
	return auth.GetUserClaims(usr, conf), nil
}

func getContextClaims(ctx echo.Context) (auth.Claims, error) {
	if token, ok := ctx.Get(contextTokenKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*auth.Claims); ok {
			return *claims, nil
		}
	}
	return auth.Claims{}, errUnauthorized
}

// rolesMiddleware only lets identities whose role is in the allowed set
// through. An empty set allows any authenticated identity. Denials all
// surface as the same "permission denied" response; the denied role is
// only recorded in the server logs.
func rolesMiddleware(logger core.Logger, roles ...user.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if claims.HasAnyRole(roles...) {
				return next(ctx)
			}
			logger.Info(fmt.Sprintf(
				"access denied: user %s (role %q) on %s %s",
				claims.Subject, claims.Role, ctx.Request().Method, ctx.Path(),
			))
			return errHttpForbidden
		}
	}
}
