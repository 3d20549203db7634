// Package resolver implements the named operations on top of the services.
package resolver

import (
	"context"

	"postboard/internal/dispatch"
	"postboard/internal/service"
)

// Resolvers binds operations to the service layer.
type Resolvers struct {
	users service.Authorization
	ids   service.Identity
	posts service.Posts
}

func New(svc *service.Service) *Resolvers {
	return &Resolvers{users: svc.Authorization, ids: svc.Identity, posts: svc.Posts}
}

// Register adds every operation to d under its public name.
func (r *Resolvers) Register(d *dispatch.Dispatcher) {
	dispatch.Handle(d, "ping", dispatch.KindQuery, r.Ping)
	dispatch.Handle(d, "getAllPosts", dispatch.KindQuery, r.GetAllPosts)
	dispatch.Handle(d, "getPost", dispatch.KindQuery,
		RequireAuth(r.ids, postFailure, r.GetPost))
	dispatch.Handle(d, "getUserPostsById", dispatch.KindQuery,
		RequireAuth(r.ids, asFieldError[[]PostResult], r.GetUserPostsByID))

	// getPostById reads, but has always been exposed as a mutation.
	dispatch.Handle(d, "getPostById", dispatch.KindMutation,
		RequireAuth(r.ids, asFieldError[[]PostResult], r.GetPostByID))
	dispatch.Handle(d, "createUser", dispatch.KindMutation, r.CreateUser)
	dispatch.Handle(d, "loginUser", dispatch.KindMutation, r.LoginUser)
	dispatch.Handle(d, "createPost", dispatch.KindMutation,
		RequireAuth(r.ids, postFailure, r.CreatePost))
	dispatch.Handle(d, "updateById", dispatch.KindMutation,
		RequireAuth(r.ids, statusFailure, r.UpdateByID))
	dispatch.Handle(d, "deletePostById", dispatch.KindMutation,
		RequireAuth(r.ids, statusFailure, r.DeletePostByID))
}

func (r *Resolvers) Ping(ctx context.Context, _ NoArgs) (string, error) {
	return "pong", nil
}

func (r *Resolvers) GetAllPosts(ctx context.Context, _ NoArgs) ([]PostResult, error) {
	posts, err := r.posts.List(ctx)
	if err != nil {
		return nil, err
	}
	return NewPostResults(posts), nil
}

func (r *Resolvers) GetPost(ctx context.Context, _ service.Actor, a PostIDArgs) (PostResult, error) {
	p, err := r.posts.Get(ctx, a.id())
	if err != nil {
		return postFailure(err)
	}
	return newPostResult(p), nil
}

// GetPostByID returns a one-element list.
func (r *Resolvers) GetPostByID(ctx context.Context, _ service.Actor, a PostIDArgs) ([]PostResult, error) {
	p, err := r.posts.Get(ctx, a.id())
	if err != nil {
		return nil, err
	}
	return []PostResult{newPostResult(p)}, nil
}

// GetUserPostsByID lists posts owned by the user named in the id argument.
func (r *Resolvers) GetUserPostsByID(ctx context.Context, _ service.Actor, a PostIDArgs) ([]PostResult, error) {
	posts, err := r.posts.ListByUser(ctx, a.id())
	if err != nil {
		return nil, err
	}
	return NewPostResults(posts), nil
}

func (r *Resolvers) CreateUser(ctx context.Context, a CreateUserArgs) (RegistrationResult, error) {
	var in UserInput
	if a.Input != nil {
		in = *a.Input
	}
	u, err := r.users.Register(ctx, service.RegisterParams{
		Username:  deref(in.Username),
		Password:  deref(in.Password),
		Age:       in.Age,
		FirstName: in.FirstName,
		LastName:  in.LastName,
	})
	if err != nil {
		return RegistrationResult{Error: err.Error()}, nil
	}
	return RegistrationResult{ID: u.ID, Username: u.Username}, nil
}

func (r *Resolvers) LoginUser(ctx context.Context, a LoginArgs) (LoginResult, error) {
	token, err := r.users.Login(ctx, a.Input.Username, a.Input.Password)
	if err != nil {
		return LoginResult{Error: err.Error()}, nil
	}
	return LoginResult{Token: token}, nil
}

func (r *Resolvers) CreatePost(ctx context.Context, actor service.Actor, a CreatePostArgs) (PostResult, error) {
	p, err := r.posts.Create(ctx, actor, deref(a.Content))
	if err != nil {
		return postFailure(err)
	}
	return newPostResult(p), nil
}

func (r *Resolvers) UpdateByID(ctx context.Context, actor service.Actor, a UpdatePostArgs) (StatusResult, error) {
	if err := r.posts.Update(ctx, actor, derefID(a.ID), deref(a.Content)); err != nil {
		return statusFailure(err)
	}
	return StatusResult{Status: statusDone}, nil
}

func (r *Resolvers) DeletePostByID(ctx context.Context, actor service.Actor, a PostIDArgs) (StatusResult, error) {
	if err := r.posts.Delete(ctx, actor, a.id()); err != nil {
		return statusFailure(err)
	}
	return StatusResult{Status: statusDone}, nil
}
