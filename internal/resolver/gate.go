package resolver

import (
	"context"

	"postboard/internal/service"
)

// RequireAuth resolves the token carried by args and calls fn with the
// resulting actor. When no user resolves, fn is not invoked and deny shapes
// service.ErrAuthentication into the operation's result.
func RequireAuth[A Authenticated, R any](
	ids service.Identity,
	deny func(error) (R, error),
	fn func(context.Context, service.Actor, A) (R, error),
) func(context.Context, A) (R, error) {
	return func(ctx context.Context, args A) (R, error) {
		token := args.AuthToken()
		u := ids.Resolve(ctx, token)
		if u == nil {
			return deny(service.ErrAuthentication)
		}
		return fn(ctx, service.Actor{User: *u, Token: token}, args)
	}
}

// asFieldError fails a sequence-returning operation at the envelope level.
func asFieldError[R any](err error) (R, error) {
	var zero R
	return zero, err
}

func postFailure(err error) (PostResult, error) {
	return PostResult{Error: err.Error()}, nil
}

func statusFailure(err error) (StatusResult, error) {
	return StatusResult{Error: err.Error()}, nil
}
