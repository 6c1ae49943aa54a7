package api

import (
	"context"
	"net/http"

	"github.com/debemdeboas/blogfront/internal/config"
	"github.com/debemdeboas/blogfront/internal/draft"
	"github.com/debemdeboas/blogfront/internal/model"
)

type CreatePostResponse struct {
	Message string       `json:"message"`
	BlogID  model.PostID `json:"blog_id"`
}

// ListPosts returns every non-deleted post, newest first.
func (c *Client) ListPosts(ctx context.Context) ([]model.Post, error) {
	posts := []model.Post{}
	err := c.do(ctx, call{
		method:   http.MethodGet,
		path:     "/blogs/",
		fallback: config.ErrFetchBlogs,
	}, &posts)
	return posts, err
}

func (c *Client) GetPost(ctx context.Context, id model.PostID) (model.Post, error) {
	var post model.Post
	err := c.do(ctx, call{
		method:   http.MethodGet,
		path:     "/blogs/" + id.String(),
		fallback: config.ErrFetchBlog,
	}, &post)
	return post, err
}

// ListOwnPosts returns the non-deleted posts of the token's owner.
func (c *Client) ListOwnPosts(ctx context.Context, token string) ([]model.Post, error) {
	posts := []model.Post{}
	err := c.do(ctx, call{
		method:   http.MethodGet,
		path:     "/blogs/my",
		token:    token,
		authed:   true,
		fallback: config.ErrFetchOwnBlogs,
	}, &posts)
	return posts, err
}

func (c *Client) CreatePost(ctx context.Context, token string, req draft.CreatePostRequest) (CreatePostResponse, error) {
	if req.Tags == nil {
		req.Tags = []string{}
	}

	var out CreatePostResponse
	err := c.do(ctx, call{
		method:   http.MethodPost,
		path:     "/blogs/create",
		token:    token,
		authed:   true,
		body:     req,
		fallback: config.ErrCreateBlog,
	}, &out)
	return out, err
}

// DeletePost soft deletes a post owned by the token's user.
func (c *Client) DeletePost(ctx context.Context, token string, id model.PostID) (Message, error) {
	return c.toggleDeleted(ctx, token, "/blogs/delete/"+id.String(), config.ErrDeleteBlog)
}

// RestorePost undoes DeletePost.
func (c *Client) RestorePost(ctx context.Context, token string, id model.PostID) (Message, error) {
	return c.toggleDeleted(ctx, token, "/blogs/restore/"+id.String(), config.ErrRestoreBlog)
}

// toggleDeleted handles delete and restore. Both answer 200 with
// "success": false when the post is missing or owned by someone else.
func (c *Client) toggleDeleted(ctx context.Context, token, path, fallback string) (Message, error) {
	var out Message
	err := c.do(ctx, call{
		method:   http.MethodPut,
		path:     path,
		token:    token,
		authed:   true,
		fallback: fallback,
	}, &out)
	if err != nil {
		return out, err
	}

	if out.Success != nil && !*out.Success {
		msg := out.Message
		if msg == "" {
			msg = fallback
		}
		return out, &Error{Status: http.StatusOK, Message: msg}
	}
	return out, nil
}
