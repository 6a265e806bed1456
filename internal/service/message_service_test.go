package service

import (
	"context"
	"testing"
	"time"

	"anoa.com/campusbridge/internal/dto"
	"anoa.com/campusbridge/internal/model"
	"anoa.com/campusbridge/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type messageFixture struct {
	svc              MessageService
	messageRepo      *fakeMessageRepo
	userRepo         *fakeUserRepo
	notificationRepo *fakeNotificationRepo

	official   *model.User
	teacherCSE *model.User
	studentCSE *model.User
	studentCS2 *model.User
	studentIT  *model.User
}

func newMessageFixture(t *testing.T) *messageFixture {
	t.Helper()

	f := &messageFixture{
		official:   &model.User{FullName: "Dean Hartono", Email: "dean@campus.test", Role: model.RoleOfficial, Position: strPtr("Dean")},
		teacherCSE: &model.User{FullName: "Ibu Sari", Email: "sari@campus.test", Role: model.RoleTeacher, Branch: strPtr("CSE")},
		studentCSE: &model.User{FullName: "Andi", Email: "andi@campus.test", Role: model.RoleStudent, Branch: strPtr("CSE")},
		studentCS2: &model.User{FullName: "Budi", Email: "budi@campus.test", Role: model.RoleStudent, Branch: strPtr("CSE")},
		studentIT:  &model.User{FullName: "Citra", Email: "citra@campus.test", Role: model.RoleStudent, Branch: strPtr("IT")},
	}

	f.userRepo = newFakeUserRepo(f.official, f.teacherCSE, f.studentCSE, f.studentCS2, f.studentIT)
	f.messageRepo = &fakeMessageRepo{}
	f.notificationRepo = &fakeNotificationRepo{}

	notificationSvc := NewNotificationService(f.notificationRepo, nil)
	f.svc = NewMessageService(f.messageRepo, f.userRepo, notificationSvc, nil, 0)
	return f
}

func recipientSet(resp *dto.MessageResponse) map[uuid.UUID]bool {
	set := make(map[uuid.UUID]bool, len(resp.RecipientIDs))
	for _, id := range resp.RecipientIDs {
		set[id] = true
	}
	return set
}

func TestSendMessage_TeacherDefaultsToOwnBranch(t *testing.T) {
	f := newMessageFixture(t)

	resp, err := f.svc.SendMessage(context.Background(), f.teacherCSE.ID, dto.SendMessageRequest{
		Content:    "Exam moved to Friday",
		TargetRole: "student",
	})
	require.NoError(t, err)

	assert.Equal(t, model.MessageGroup, resp.MessageType)
	got := recipientSet(resp)
	assert.True(t, got[f.studentCSE.ID])
	assert.True(t, got[f.studentCS2.ID])
	assert.False(t, got[f.studentIT.ID], "other branch must not be reached")
	assert.Len(t, resp.RecipientIDs, 2)
}

func TestSendMessage_OfficialReachesAllBranches(t *testing.T) {
	f := newMessageFixture(t)

	resp, err := f.svc.SendMessage(context.Background(), f.official.ID, dto.SendMessageRequest{
		Content:    "Campus closed tomorrow",
		TargetRole: "student",
	})
	require.NoError(t, err)

	assert.Len(t, resp.RecipientIDs, 3)
	assert.True(t, recipientSet(resp)[f.studentIT.ID])
}

func TestSendMessage_OfficialExplicitBranchNarrows(t *testing.T) {
	f := newMessageFixture(t)

	resp, err := f.svc.SendMessage(context.Background(), f.official.ID, dto.SendMessageRequest{
		Content:      "IT lab maintenance",
		TargetRole:   "student",
		TargetBranch: strPtr("IT"),
	})
	require.NoError(t, err)

	require.Len(t, resp.RecipientIDs, 1)
	assert.Equal(t, f.studentIT.ID, resp.RecipientIDs[0])
}

func TestSendMessage_ExplicitRecipientsBecomeIndividual(t *testing.T) {
	f := newMessageFixture(t)

	resp, err := f.svc.SendMessage(context.Background(), f.teacherCSE.ID, dto.SendMessageRequest{
		Content:      "See me after class",
		TargetRole:   "student",
		RecipientIDs: []string{f.studentCSE.ID.String()},
	})
	require.NoError(t, err)

	assert.Equal(t, model.MessageIndividual, resp.MessageType)
	require.Len(t, resp.RecipientIDs, 1)
	assert.Equal(t, f.studentCSE.ID, resp.RecipientIDs[0])
}

func TestSendMessage_UnknownExplicitRecipientFails(t *testing.T) {
	f := newMessageFixture(t)

	_, err := f.svc.SendMessage(context.Background(), f.official.ID, dto.SendMessageRequest{
		Content:      "hello",
		TargetRole:   "student",
		RecipientIDs: []string{f.studentCSE.ID.String(), uuid.NewString()},
	})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.Empty(t, f.messageRepo.messages, "nothing may persist when resolution fails")
}

func TestSendMessage_EmptyResolutionIsValid(t *testing.T) {
	f := newMessageFixture(t)
	teacherME := &model.User{FullName: "Pak Joko", Email: "joko@campus.test", Role: model.RoleTeacher, Branch: strPtr("ME")}
	require.NoError(t, f.userRepo.Create(context.Background(), teacherME))

	resp, err := f.svc.SendMessage(context.Background(), teacherME.ID, dto.SendMessageRequest{
		Content:    "Anyone out there?",
		TargetRole: "student",
	})
	require.NoError(t, err)

	assert.Empty(t, resp.RecipientIDs)
	assert.Empty(t, f.notificationRepo.notifications)
	assert.Len(t, f.messageRepo.messages, 1, "the message itself still persists")
}

func TestSendMessage_SenderExcludedFromGroup(t *testing.T) {
	f := newMessageFixture(t)

	resp, err := f.svc.SendMessage(context.Background(), f.studentCSE.ID, dto.SendMessageRequest{
		Content:    "Study group tonight",
		TargetRole: "student",
	})
	require.NoError(t, err)

	assert.False(t, recipientSet(resp)[f.studentCSE.ID])
	assert.Len(t, resp.RecipientIDs, 2)
}

func TestSendMessage_StudentToTeacherForbidden(t *testing.T) {
	f := newMessageFixture(t)

	_, err := f.svc.SendMessage(context.Background(), f.studentCSE.ID, dto.SendMessageRequest{
		Content:    "Can I skip the exam?",
		TargetRole: "teacher",
	})
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	assert.Empty(t, f.messageRepo.messages)
}

func TestSendMessage_TeacherOtherBranchForbidden(t *testing.T) {
	f := newMessageFixture(t)

	_, err := f.svc.SendMessage(context.Background(), f.teacherCSE.ID, dto.SendMessageRequest{
		Content:      "hi",
		TargetRole:   "student",
		TargetBranch: strPtr("IT"),
	})
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestSendMessage_FanOutOnePerRecipient(t *testing.T) {
	f := newMessageFixture(t)

	resp, err := f.svc.SendMessage(context.Background(), f.official.ID, dto.SendMessageRequest{
		Content:    "Scholarship results are out",
		TargetRole: "student",
	})
	require.NoError(t, err)
	require.Len(t, resp.RecipientIDs, 3)
	require.Len(t, f.notificationRepo.notifications, 3)

	seen := make(map[uuid.UUID]*model.Notification)
	for _, n := range f.notificationRepo.notifications {
		assert.Equal(t, model.NotificationMessage, n.Type)
		assert.Equal(t, f.official.ID, n.ActorID)
		assert.Equal(t, resp.ID, n.ReferenceID)
		assert.Contains(t, n.Content, f.official.FullName)
		seen[n.RecipientID] = n
	}
	assert.Len(t, seen, 3, "each recipient gets their own row")

	// Read state is per recipient.
	notificationSvc := NewNotificationService(f.notificationRepo, nil)
	first := seen[f.studentCSE.ID]
	require.NoError(t, notificationSvc.MarkAsRead(context.Background(), f.studentCSE.ID, first.ID))
	assert.True(t, first.IsRead)
	assert.False(t, seen[f.studentIT.ID].IsRead)
}

func TestSendMessage_ContentSanitized(t *testing.T) {
	f := newMessageFixture(t)

	resp, err := f.svc.SendMessage(context.Background(), f.official.ID, dto.SendMessageRequest{
		Content:    "  <b>hello</b> students  ",
		TargetRole: "student",
	})
	require.NoError(t, err)
	assert.Equal(t, "hello students", resp.Content)

	_, err = f.svc.SendMessage(context.Background(), f.official.ID, dto.SendMessageRequest{
		Content:    "   ",
		TargetRole: "student",
	})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestSendMessage_UnknownTargetRoleRejected(t *testing.T) {
	f := newMessageFixture(t)

	_, err := f.svc.SendMessage(context.Background(), f.official.ID, dto.SendMessageRequest{
		Content:    "hi",
		TargetRole: "alumni",
	})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestGetThread_AscendingWithStableTies(t *testing.T) {
	f := newMessageFixture(t)
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	// Inserted out of order and in both directions.
	mk := func(from, to *model.User, content string, at time.Time) {
		require.NoError(t, f.messageRepo.Create(context.Background(), &model.Message{
			SenderID:    from.ID,
			Sender:      *from,
			Content:     content,
			MessageType: model.MessageIndividual,
			Recipients:  []model.User{*to},
			CreatedAt:   at,
		}))
	}
	mk(f.teacherCSE, f.studentCSE, "third", base.Add(2*time.Minute))
	mk(f.studentCSE, f.teacherCSE, "first", base)
	mk(f.teacherCSE, f.studentCSE, "second", base.Add(time.Minute))
	mk(f.studentCSE, f.teacherCSE, "tie-a", base.Add(3*time.Minute))
	mk(f.teacherCSE, f.studentCSE, "tie-b", base.Add(3*time.Minute))
	// Noise from an unrelated pair.
	mk(f.official, f.studentIT, "noise", base)

	thread, err := f.svc.GetThread(context.Background(), f.studentCSE.ID, f.teacherCSE.ID)
	require.NoError(t, err)

	var contents []string
	for _, m := range thread {
		contents = append(contents, m.Content)
	}
	assert.Equal(t, []string{"first", "second", "third", "tie-a", "tie-b"}, contents)
}

func TestGetThread_UnknownCounterpart(t *testing.T) {
	f := newMessageFixture(t)

	_, err := f.svc.GetThread(context.Background(), f.studentCSE.ID, uuid.New())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestGetInbox_NewestFirst(t *testing.T) {
	f := newMessageFixture(t)
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	for i, content := range []string{"oldest", "middle", "newest"} {
		require.NoError(t, f.messageRepo.Create(context.Background(), &model.Message{
			SenderID:    f.teacherCSE.ID,
			Sender:      *f.teacherCSE,
			Content:     content,
			MessageType: model.MessageIndividual,
			Recipients:  []model.User{*f.studentCSE},
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}))
	}

	inbox, err := f.svc.GetInbox(context.Background(), f.studentCSE.ID)
	require.NoError(t, err)
	require.Len(t, inbox, 3)
	assert.Equal(t, "newest", inbox[0].Content)
	assert.Equal(t, "oldest", inbox[2].Content)
}

func TestMarkAsRead_RecipientOnly(t *testing.T) {
	f := newMessageFixture(t)

	message := &model.Message{
		SenderID:    f.teacherCSE.ID,
		Sender:      *f.teacherCSE,
		Content:     "read me",
		MessageType: model.MessageIndividual,
		Recipients:  []model.User{*f.studentCSE},
	}
	require.NoError(t, f.messageRepo.Create(context.Background(), message))

	err := f.svc.MarkAsRead(context.Background(), f.studentIT.ID, message.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	assert.False(t, message.IsRead)

	require.NoError(t, f.svc.MarkAsRead(context.Background(), f.studentCSE.ID, message.ID))
	assert.True(t, message.IsRead)
}

func TestDeleteMessage_SenderOnly(t *testing.T) {
	f := newMessageFixture(t)

	message := &model.Message{
		SenderID:    f.teacherCSE.ID,
		Sender:      *f.teacherCSE,
		Content:     "oops",
		MessageType: model.MessageIndividual,
		Recipients:  []model.User{*f.studentCSE},
	}
	require.NoError(t, f.messageRepo.Create(context.Background(), message))

	err := f.svc.DeleteMessage(context.Background(), f.studentCSE.ID, message.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	require.NoError(t, f.svc.DeleteMessage(context.Background(), f.teacherCSE.ID, message.ID))
	assert.Empty(t, f.messageRepo.messages)
}
