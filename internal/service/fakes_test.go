package service

import (
	"context"
	"errors"
	"sort"

	"anoa.com/campusbridge/internal/model"
	"anoa.com/campusbridge/pkg/apperror"
	"github.com/google/uuid"
)

// In-memory repository fakes mirroring the store semantics the real
// implementations get from Postgres.

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newFakeUserRepo(users ...*model.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
	for _, u := range users {
		if u.ID == uuid.Nil {
			u.ID = uuid.New()
		}
		repo.users[u.ID] = u
	}
	return repo
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, apperror.ErrNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, apperror.ErrNotFound
}

func (f *fakeUserRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]model.User, error) {
	var users []model.User
	for _, id := range ids {
		if user, ok := f.users[id]; ok {
			users = append(users, *user)
		}
	}
	return users, nil
}

func (f *fakeUserRepo) FindByRole(_ context.Context, role model.Role, branch *string) ([]model.User, error) {
	var users []model.User
	for _, user := range f.users {
		if user.Role != role {
			continue
		}
		if branch != nil && (user.Branch == nil || *user.Branch != *branch) {
			continue
		}
		users = append(users, *user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID.String() < users[j].ID.String() })
	return users, nil
}

func (f *fakeUserRepo) FindAll(_ context.Context, role, branch string, limit, offset int) ([]model.User, int64, error) {
	var users []model.User
	for _, user := range f.users {
		if role != "" && string(user.Role) != role {
			continue
		}
		if branch != "" && (user.Branch == nil || *user.Branch != branch) {
			continue
		}
		users = append(users, *user)
	}
	return users, int64(len(users)), nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *model.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.users, id)
	return nil
}

type fakeMessageRepo struct {
	messages []*model.Message
}

func (f *fakeMessageRepo) Create(_ context.Context, message *model.Message) error {
	if message.ID == uuid.Nil {
		message.ID = uuid.New()
	}
	f.messages = append(f.messages, message)
	return nil
}

func (f *fakeMessageRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Message, error) {
	for _, message := range f.messages {
		if message.ID == id {
			return message, nil
		}
	}
	return nil, apperror.ErrNotFound
}

func (f *fakeMessageRepo) FindBetween(_ context.Context, userA, userB uuid.UUID) ([]model.Message, error) {
	var result []model.Message
	for _, message := range f.messages {
		if (message.SenderID == userA && hasRecipient(message, userB)) ||
			(message.SenderID == userB && hasRecipient(message, userA)) {
			result = append(result, *message)
		}
	}
	return result, nil
}

func (f *fakeMessageRepo) FindForUser(_ context.Context, userID uuid.UUID) ([]model.Message, error) {
	var result []model.Message
	for _, message := range f.messages {
		if message.SenderID == userID || hasRecipient(message, userID) {
			result = append(result, *message)
		}
	}
	return result, nil
}

func (f *fakeMessageRepo) MarkAsRead(_ context.Context, id uuid.UUID) error {
	for _, message := range f.messages {
		if message.ID == id {
			message.IsRead = true
			return nil
		}
	}
	return apperror.ErrNotFound
}

func (f *fakeMessageRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, message := range f.messages {
		if message.ID == id {
			f.messages = append(f.messages[:i], f.messages[i+1:]...)
			return nil
		}
	}
	return apperror.ErrNotFound
}

func hasRecipient(message *model.Message, userID uuid.UUID) bool {
	for _, recipient := range message.Recipients {
		if recipient.ID == userID {
			return true
		}
	}
	return false
}

type fakePostRepo struct {
	posts map[uuid.UUID]*model.Post
}

func newFakePostRepo(posts ...*model.Post) *fakePostRepo {
	repo := &fakePostRepo{posts: make(map[uuid.UUID]*model.Post)}
	for _, p := range posts {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		repo.posts[p.ID] = p
	}
	return repo
}

func (f *fakePostRepo) Create(_ context.Context, post *model.Post) error {
	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}
	f.posts[post.ID] = post
	return nil
}

func (f *fakePostRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Post, error) {
	post, ok := f.posts[id]
	if !ok {
		return nil, apperror.ErrNotFound
	}
	return post, nil
}

func (f *fakePostRepo) FindAll(_ context.Context, limit, offset int) ([]model.Post, int64, error) {
	var posts []model.Post
	for _, post := range f.posts {
		posts = append(posts, *post)
	}
	return posts, int64(len(posts)), nil
}

func (f *fakePostRepo) Update(_ context.Context, post *model.Post) error {
	f.posts[post.ID] = post
	return nil
}

func (f *fakePostRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.posts, id)
	return nil
}

type fakeCommentRepo struct {
	comments map[uuid.UUID]*model.Comment
	posts    *fakePostRepo
}

func newFakeCommentRepo(posts *fakePostRepo) *fakeCommentRepo {
	return &fakeCommentRepo{
		comments: make(map[uuid.UUID]*model.Comment),
		posts:    posts,
	}
}

func (f *fakeCommentRepo) Create(_ context.Context, comment *model.Comment) (int, error) {
	post, ok := f.posts.posts[comment.PostID]
	if !ok {
		return 0, apperror.ErrNotFound
	}
	if comment.ID == uuid.Nil {
		comment.ID = uuid.New()
	}
	f.comments[comment.ID] = comment
	post.CommentCount++
	return post.CommentCount, nil
}

func (f *fakeCommentRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Comment, error) {
	comment, ok := f.comments[id]
	if !ok {
		return nil, apperror.ErrNotFound
	}
	return comment, nil
}

func (f *fakeCommentRepo) FindByPostID(_ context.Context, postID uuid.UUID) ([]model.Comment, error) {
	var comments []model.Comment
	for _, comment := range f.comments {
		if comment.PostID == postID {
			comments = append(comments, *comment)
		}
	}
	return comments, nil
}

func (f *fakeCommentRepo) Delete(_ context.Context, id uuid.UUID) (int, error) {
	comment, ok := f.comments[id]
	if !ok {
		return 0, apperror.ErrNotFound
	}
	delete(f.comments, id)

	post, ok := f.posts.posts[comment.PostID]
	if !ok {
		return 0, apperror.ErrNotFound
	}
	// Same clamp the SQL applies.
	if post.CommentCount > 0 {
		post.CommentCount--
	}
	return post.CommentCount, nil
}

type fakeLikeRepo struct {
	posts    *fakePostRepo
	comments *fakeCommentRepo
	likedBy  map[uuid.UUID]map[uuid.UUID]bool // entity id -> user ids
}

func newFakeLikeRepo(posts *fakePostRepo, comments *fakeCommentRepo) *fakeLikeRepo {
	return &fakeLikeRepo{
		posts:    posts,
		comments: comments,
		likedBy:  make(map[uuid.UUID]map[uuid.UUID]bool),
	}
}

func (f *fakeLikeRepo) members(entityID uuid.UUID) map[uuid.UUID]bool {
	if f.likedBy[entityID] == nil {
		f.likedBy[entityID] = make(map[uuid.UUID]bool)
	}
	return f.likedBy[entityID]
}

func (f *fakeLikeRepo) TogglePostLike(_ context.Context, postID, userID uuid.UUID) (bool, int, error) {
	post, ok := f.posts.posts[postID]
	if !ok {
		return false, 0, apperror.ErrNotFound
	}

	members := f.members(postID)
	if members[userID] {
		delete(members, userID)
		if post.Likes > 0 {
			post.Likes--
		}
		return false, post.Likes, nil
	}

	members[userID] = true
	post.Likes++
	return true, post.Likes, nil
}

func (f *fakeLikeRepo) ToggleCommentLike(_ context.Context, commentID, userID uuid.UUID) (bool, int, error) {
	comment, ok := f.comments.comments[commentID]
	if !ok {
		return false, 0, apperror.ErrNotFound
	}

	members := f.members(commentID)
	if members[userID] {
		delete(members, userID)
		if comment.Likes > 0 {
			comment.Likes--
		}
		return false, comment.Likes, nil
	}

	members[userID] = true
	comment.Likes++
	return true, comment.Likes, nil
}

func (f *fakeLikeRepo) IsPostLiked(_ context.Context, postID, userID uuid.UUID) (bool, error) {
	return f.members(postID)[userID], nil
}

func (f *fakeLikeRepo) IsCommentLiked(_ context.Context, commentID, userID uuid.UUID) (bool, error) {
	return f.members(commentID)[userID], nil
}

type fakeNotificationRepo struct {
	notifications []*model.Notification
	failCreate    bool
}

var errFakeStore = errors.New("store unavailable")

func (f *fakeNotificationRepo) Create(_ context.Context, notification *model.Notification) error {
	if f.failCreate {
		return errFakeStore
	}
	if notification.ID == uuid.Nil {
		notification.ID = uuid.New()
	}
	f.notifications = append(f.notifications, notification)
	return nil
}

func (f *fakeNotificationRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Notification, error) {
	for _, notification := range f.notifications {
		if notification.ID == id {
			return notification, nil
		}
	}
	return nil, apperror.ErrNotFound
}

func (f *fakeNotificationRepo) GetByRecipientID(_ context.Context, recipientID uuid.UUID, limit, offset int) ([]model.Notification, error) {
	var result []model.Notification
	for _, notification := range f.notifications {
		if notification.RecipientID == recipientID {
			result = append(result, *notification)
		}
	}
	return result, nil
}

func (f *fakeNotificationRepo) MarkAsRead(_ context.Context, id uuid.UUID) error {
	for _, notification := range f.notifications {
		if notification.ID == id {
			notification.IsRead = true
			return nil
		}
	}
	return apperror.ErrNotFound
}

func (f *fakeNotificationRepo) MarkAllAsRead(_ context.Context, recipientID uuid.UUID) error {
	for _, notification := range f.notifications {
		if notification.RecipientID == recipientID {
			notification.IsRead = true
		}
	}
	return nil
}

func (f *fakeNotificationRepo) CountUnread(_ context.Context, recipientID uuid.UUID) (int64, error) {
	var count int64
	for _, notification := range f.notifications {
		if notification.RecipientID == recipientID && !notification.IsRead {
			count++
		}
	}
	return count, nil
}
