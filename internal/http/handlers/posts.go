package handlers

import (
	"context"
	"net/http"

	"github.com/geocoder89/sharedfeed/internal/domain/post"
	"github.com/geocoder89/sharedfeed/internal/http/middlewares"
	"github.com/geocoder89/sharedfeed/internal/service"
	"github.com/geocoder89/sharedfeed/internal/utils"
	"github.com/gin-gonic/gin"
)

type PostCreator interface {
	CreatePost(ctx context.Context, in service.CreatePostInput) (post.Post, error)
}

type FeedReader interface {
	ListFeed(ctx context.Context, q service.FeedQuery) (service.FeedPage, error)
	SearchByNames(ctx context.Context, q service.SearchQuery) (service.SearchPage, error)
}

type PostsHandler struct {
	posts PostCreator
	feed  FeedReader
}

func NewPostsHandler(posts PostCreator, feed FeedReader) *PostsHandler {
	return &PostsHandler{posts: posts, feed: feed}
}

type PostResponse struct {
	Post post.Post `json:"post"`
}

func (h *PostsHandler) CreatePost(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)
	if !ok {
		RespondUnauthorized(ctx, "unauthorized", "Missing identity context")
		return
	}

	var req post.CreatePostRequest

	if !BindJSON(ctx, &req) {
		return
	}

	p, err := h.posts.CreatePost(ctx.Request.Context(), service.CreatePostInput{
		UserID:   userID,
		Type:     req.Type,
		Content:  req.Content,
		Caption:  req.Caption,
		ImageURL: req.ImageURL,
		Date:     req.Date,
	})
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	RespondOK(ctx, http.StatusCreated, PostResponse{Post: p})
}

// ListFeed never rejects paging or sort input; bad values fall back to the
// defaults.
func (h *PostsHandler) ListFeed(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)
	if !ok {
		RespondUnauthorized(ctx, "unauthorized", "Missing identity context")
		return
	}

	page, err := h.feed.ListFeed(ctx.Request.Context(), service.FeedQuery{
		UserID: userID,
		Sort:   post.ParseSort(ctx.Query("sort"), ctx.Query("order")),
		Page:   utils.ParsePageQuery(ctx.Query("page"), ctx.Query("limit")),
	})
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	RespondCachedOK(ctx, page)
}

func (h *PostsHandler) Search(ctx *gin.Context) {
	var req post.SearchRequest

	if !BindJSON(ctx, &req) {
		return
	}

	res, err := h.feed.SearchByNames(ctx.Request.Context(), service.SearchQuery{
		Names: req.Names,
		Page:  req.Page,
		Limit: req.Limit,
	})
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	RespondOK(ctx, http.StatusOK, res)
}
