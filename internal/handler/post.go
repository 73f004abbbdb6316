package handler

import (
	"net/http"
	"strconv"

	"github.com/critterpost/critterpost/internal/ctxkeys"
	"github.com/critterpost/critterpost/internal/model"
	"github.com/critterpost/critterpost/internal/service"
)

type postHandler struct {
	postService *service.PostService
}

func NewPostHandler(postService *service.PostService) *postHandler {
	return &postHandler{
		postService: postService,
	}
}

type createPostRequest struct {
	Body string `json:"body"`
}

// Create inserts a post for the authenticated user. The optional ?prompt=
// query parameter schedules a deferred image generation; its outcome is
// reported by email only, never in this response.
func (h *postHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req createPostRequest
	err := decodeJSON(r, &req)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}

	post, err := h.postService.Create(user, req.Body, r.URL.Query().Get("prompt"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, post)
}

// List returns all posts with like counts. ?sorting=new|old|most_likes.
func (h *postHandler) List(w http.ResponseWriter, r *http.Request) {
	sorting, ok := model.ParsePostSorting(r.URL.Query().Get("sorting"))
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "invalid sorting, expected new, old or most_likes")
		return
	}

	posts, err := h.postService.List(sorting)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, posts)
}

// Get returns a post with its like count and comments.
func (h *postHandler) Get(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(w, r, "post_id")
	if !ok {
		return
	}

	post, err := h.postService.Get(postID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, post)
}

type createCommentRequest struct {
	PostID int64  `json:"post_id"`
	Body   string `json:"body"`
}

func (h *postHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req createCommentRequest
	err := decodeJSON(r, &req)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}

	comment, err := h.postService.CreateComment(user, req.PostID, req.Body)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, comment)
}

func (h *postHandler) Comments(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(w, r, "post_id")
	if !ok {
		return
	}

	comments, err := h.postService.Comments(postID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, comments)
}

type likeRequest struct {
	PostID int64 `json:"post_id"`
}

func (h *postHandler) Like(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req likeRequest
	err := decodeJSON(r, &req)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}

	like, err := h.postService.Like(user, req.PostID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, like)
}

func (h *postHandler) Likes(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(w, r, "post_id")
	if !ok {
		return
	}

	likes, err := h.postService.Likes(postID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, likes)
}

// pathID parses an integer path parameter, writing a 422 on failure.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid "+name)
		return 0, false
	}
	return id, true
}
