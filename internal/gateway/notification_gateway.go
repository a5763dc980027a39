package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"social-service/internal/models"
	"social-service/internal/presence"
	"social-service/internal/repositories"
	"social-service/internal/telemetry"
)

var (
	ErrNotInChat     = errors.New("user has no active chat")
	ErrNotChatMember = errors.New("user is not a chat member")
)

// NotificationGateway is the real-time entry point for presence, chat
// messages and friend notifications. Its multi-step sequences are
// at-least-once: a failure mid-sequence does not roll back earlier steps,
// but every step is audited under one correlation id.
type NotificationGateway struct {
	directory     presence.Directory
	pusher        Pusher
	users         repositories.UserRepository
	chats         repositories.ChatRepository
	messages      repositories.MessageRepository
	notifications repositories.NotificationRepository
	audit         *telemetry.AuditEmitter
	logger        *zap.SugaredLogger
}

// NewNotificationGateway builds the gateway.
func NewNotificationGateway(
	directory presence.Directory,
	pusher Pusher,
	users repositories.UserRepository,
	chats repositories.ChatRepository,
	messages repositories.MessageRepository,
	notifications repositories.NotificationRepository,
	audit *telemetry.AuditEmitter,
	logger *zap.SugaredLogger,
) *NotificationGateway {
	return &NotificationGateway{
		directory:     directory,
		pusher:        pusher,
		users:         users,
		chats:         chats,
		messages:      messages,
		notifications: notifications,
		audit:         audit,
		logger:        logger,
	}
}

// Register stores the user's live-connection handle. Idempotent overwrite;
// a reconnect simply replaces the previous handle.
func (g *NotificationGateway) Register(ctx context.Context, userID int, connID string) error {
	return g.directory.SetConnection(ctx, userID, connID)
}

// Unregister clears the user's presence on transport close. In-flight pushes
// to the dead handle are swallowed by the push layer.
func (g *NotificationGateway) Unregister(ctx context.Context, userID int, connID string) {
	if err := g.directory.ClearConnection(ctx, userID, connID); err != nil {
		g.logger.Warnw("clear connection failed", "user_id", userID, "error", err)
	}
}

// EnterChat marks the user as viewing chatID, retroactively marks every
// unseen message in that chat as seen, and tells co-present members which
// messages were caught up on. Entering twice with nothing new to see pushes
// nothing.
func (g *NotificationGateway) EnterChat(ctx context.Context, userID int, chatID int) error {
	member, err := g.chats.IsMember(ctx, chatID, userID)
	if err != nil {
		return fmt.Errorf("verify membership: %w", err)
	}
	if !member {
		return ErrNotChatMember
	}

	if err := g.directory.SetActiveChat(ctx, userID, chatID); err != nil {
		return fmt.Errorf("set active chat: %w", err)
	}

	unseen, err := g.messages.ListUnseenForUserInChat(ctx, userID, chatID)
	if err != nil {
		return fmt.Errorf("list unseen: %w", err)
	}

	seenIDs := make([]int, 0, len(unseen))
	for _, u := range unseen {
		if err := g.messages.MarkSeen(ctx, u.SeenStateID); err != nil {
			g.logger.Warnw("mark seen failed", "seen_state_id", u.SeenStateID, "error", err)
			continue
		}
		seenIDs = append(seenIDs, u.Message.ID)
	}
	if len(seenIDs) == 0 {
		return nil
	}

	marker, err := g.users.GetUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("load marker user: %w", err)
	}

	event := models.Event{
		Type:         models.EventUpdateSeenStatuses,
		SeenStatuses: &models.SeenStatusesPush{MarkerName: marker.Username, MessageIDs: seenIDs},
	}
	for _, memberID := range g.coPresentMembers(ctx, chatID, userID) {
		entry, ok, err := g.directory.Lookup(ctx, memberID)
		if err != nil || !ok {
			continue
		}
		g.pusher.Send(entry.ConnID, event)
	}
	return nil
}

// LeaveChat clears the user's active chat; the connection stays registered.
func (g *NotificationGateway) LeaveChat(ctx context.Context, userID int) error {
	return g.directory.ClearActiveChat(ctx, userID)
}

// SendMessage persists one message into the sender's active chat and fans it
// out: co-present members get a live push marked seen, everyone else gets a
// seen=false row plus a new-message notification, with a fresh unread count
// pushed if they are online anywhere in the app.
//
// The chat id is read off the sender's own presence record and membership is
// re-derived server-side; the client never supplies a member list.
func (g *NotificationGateway) SendMessage(ctx context.Context, userID int, content string, colorTag string) error {
	entry, ok, err := g.directory.Lookup(ctx, userID)
	if err != nil {
		return fmt.Errorf("lookup sender presence: %w", err)
	}
	if !ok || entry.ActiveChat == 0 {
		return ErrNotInChat
	}
	chatID := entry.ActiveChat

	memberIDs, err := g.chats.ListMemberIDs(ctx, chatID)
	if err != nil {
		return fmt.Errorf("list chat members: %w", err)
	}

	sender, err := g.users.GetUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("load sender: %w", err)
	}

	correlationID := uuid.NewString()
	msg, err := g.messages.CreateMessage(ctx, chatID, userID, content)
	if err != nil {
		g.audit.Emit(ctx, "error", "create_message", err.Error(), correlationID, userID)
		return fmt.Errorf("store message: %w", err)
	}
	g.audit.Emit(ctx, "info", "create_message", fmt.Sprintf("message %d stored in chat %d", msg.ID, chatID), correlationID, userID)

	// Presence is sampled once, up front, so the seen-by summary and the
	// per-member seen flags describe the same moment.
	coPresent := make(map[int]presence.Entry)
	online := make(map[int]presence.Entry)
	for _, memberID := range memberIDs {
		if memberID == userID {
			continue
		}
		e, found, err := g.directory.Lookup(ctx, memberID)
		if err != nil || !found {
			continue
		}
		online[memberID] = e
		if e.ActiveChat == chatID {
			coPresent[memberID] = e
		}
	}

	summary := g.seenBySummary(ctx, coPresent)
	push := models.Event{
		Type: models.EventReceiveMessage,
		Message: &models.MessagePush{
			MessageID:     msg.ID,
			SenderName:    sender.Username,
			Content:       msg.Content,
			SentAt:        msg.SentAt,
			SeenBySummary: summary,
			ColorTag:      colorTag,
		},
	}

	for _, memberID := range memberIDs {
		if memberID == userID {
			continue
		}
		if e, isCoPresent := coPresent[memberID]; isCoPresent {
			if _, err := g.messages.CreateSeenState(ctx, msg.ID, memberID, true); err != nil {
				g.audit.Emit(ctx, "error", "create_seen_state", err.Error(), correlationID, memberID)
				g.logger.Errorw("create seen state failed", "message_id", msg.ID, "user_id", memberID, "error", err)
			}
			g.pusher.Send(e.ConnID, push)
			continue
		}

		if _, err := g.messages.CreateSeenState(ctx, msg.ID, memberID, false); err != nil {
			g.audit.Emit(ctx, "error", "create_seen_state", err.Error(), correlationID, memberID)
			g.logger.Errorw("create seen state failed", "message_id", msg.ID, "user_id", memberID, "error", err)
		}
		n := models.Notification{
			Kind:       models.NotificationNewMessage,
			FromUserID: userID,
			ToUserID:   memberID,
			MessageID:  &msg.ID,
		}
		if _, err := g.notifications.CreateNotification(ctx, n); err != nil {
			g.audit.Emit(ctx, "error", "create_notification", err.Error(), correlationID, memberID)
			g.logger.Errorw("create message notification failed", "user_id", memberID, "error", err)
			continue
		}
		if e, isOnline := online[memberID]; isOnline {
			g.pushNotificationCount(ctx, memberID, e.ConnID)
		}
	}
	return nil
}

// SendFriendRequest resolves the target by username or email and creates a
// new-friend-request notification for them.
func (g *NotificationGateway) SendFriendRequest(ctx context.Context, userID int, username string, email string) Result {
	if username == "" && email == "" {
		return danger("You must provide a username or an email address.")
	}

	var target models.User
	var err error
	if username != "" {
		target, err = g.users.GetUserByUsername(ctx, username)
	} else {
		target, err = g.users.GetUserByEmail(ctx, email)
	}
	if errors.Is(err, repositories.ErrUserNotFound) {
		return danger("No user account matches the given username or email.")
	}
	if err != nil {
		g.logger.Errorw("resolve friend request target failed", "error", err)
		return danger("The friend request could not be sent. Please try again.")
	}

	if target.ID == userID {
		return danger("You can not send a friend request to yourself.")
	}

	friends, err := g.notifications.AreFriends(ctx, userID, target.ID)
	if err != nil {
		g.logger.Errorw("friendship check failed", "error", err)
		return danger("The friend request could not be sent. Please try again.")
	}
	if friends {
		return danger("That user is already in your friends list.")
	}

	n := models.Notification{
		Kind:       models.NotificationNewFriendRequest,
		FromUserID: userID,
		ToUserID:   target.ID,
	}
	if _, err := g.notifications.CreateNotification(ctx, n); err != nil {
		g.logger.Errorw("create friend request notification failed", "error", err)
		return danger("Unfortunately a friend request could not be sent to the user. Please try again.")
	}

	if entry, ok, err := g.directory.Lookup(ctx, target.ID); err == nil && ok {
		g.pushNotificationCount(ctx, target.ID, entry.ConnID)
	}

	return success("A friend request has been sent to the chosen user account!", 0)
}

// AcceptFriendInvitation creates the friendship, consumes the originating
// notification and notifies the original sender. The delete-create-notify
// sequence is at-least-once, not exactly-once.
func (g *NotificationGateway) AcceptFriendInvitation(ctx context.Context, userID int, notificationID int, senderID int) Result {
	return g.resolveFriendInvitation(ctx, userID, notificationID, senderID, true)
}

// RejectFriendInvitation consumes the originating notification and notifies
// the original sender of the rejection. No friendship is created.
func (g *NotificationGateway) RejectFriendInvitation(ctx context.Context, userID int, notificationID int, senderID int) Result {
	return g.resolveFriendInvitation(ctx, userID, notificationID, senderID, false)
}

func (g *NotificationGateway) resolveFriendInvitation(ctx context.Context, userID int, notificationID int, senderID int, accept bool) Result {
	sender, err := g.users.GetUser(ctx, senderID)
	if errors.Is(err, repositories.ErrUserNotFound) {
		return danger("The user does not seem to exist. Please try to contact them to see if something is wrong on their end.")
	}
	if err != nil {
		g.logger.Errorw("resolve invitation sender failed", "error", err)
		return danger("The friend invitation could not be processed. Please try again.")
	}

	correlationID := uuid.NewString()
	replyKind := models.NotificationFriendRequestRejected
	verb := "rejected"
	if accept {
		replyKind = models.NotificationFriendRequestAccepted
		verb = "accepted"
		if err := g.notifications.CreateFriendship(ctx, userID, sender.ID); err != nil {
			g.audit.Emit(ctx, "error", "create_friendship", err.Error(), correlationID, userID)
			if errors.Is(err, repositories.ErrAlreadyFriends) {
				return danger("That user is already in your friends list.")
			}
			return danger("Unfortunately the friend could not be added to your friends list. Please try again.")
		}
		g.audit.Emit(ctx, "info", "create_friendship", fmt.Sprintf("friendship %d-%d created", userID, sender.ID), correlationID, userID)
	}

	if err := g.notifications.DeleteNotification(ctx, notificationID); err != nil {
		g.audit.Emit(ctx, "error", "delete_notification", err.Error(), correlationID, userID)
		g.logger.Warnw("delete invitation notification failed", "notification_id", notificationID, "error", err)
	} else {
		g.audit.Emit(ctx, "info", "delete_notification", fmt.Sprintf("notification %d consumed", notificationID), correlationID, userID)
	}

	count, err := g.notifications.CountForUser(ctx, userID)
	if err != nil {
		g.logger.Warnw("count notifications failed", "user_id", userID, "error", err)
	}
	if entry, ok, lookupErr := g.directory.Lookup(ctx, userID); lookupErr == nil && ok {
		g.pusher.Send(entry.ConnID, models.NewNotificationCountEvent(count))
	}

	reply := models.Notification{
		Kind:       replyKind,
		FromUserID: userID,
		ToUserID:   sender.ID,
	}
	if _, err := g.notifications.CreateNotification(ctx, reply); err != nil {
		g.audit.Emit(ctx, "error", "create_reply_notification", err.Error(), correlationID, userID)
		return Result{
			Severity: SeverityDanger,
			Message: fmt.Sprintf("The friend request has been %s, but a notification could not be sent to the user. "+
				"If you need to notify them of your decision, send them a message through the app.", verb),
			NotificationCount: count,
		}
	}
	g.audit.Emit(ctx, "info", "create_reply_notification", fmt.Sprintf("%s reply sent to user %d", verb, sender.ID), correlationID, userID)

	if entry, ok, lookupErr := g.directory.Lookup(ctx, sender.ID); lookupErr == nil && ok {
		g.pushNotificationCount(ctx, sender.ID, entry.ConnID)
	}

	return success(fmt.Sprintf("The friend request has been successfully %s and a notification has been sent "+
		"to the user to notify them of your decision!", verb), count)
}

// coPresentMembers returns the chat members other than excludeID whose active
// chat is chatID right now.
func (g *NotificationGateway) coPresentMembers(ctx context.Context, chatID int, excludeID int) []int {
	memberIDs, err := g.chats.ListMemberIDs(ctx, chatID)
	if err != nil {
		g.logger.Warnw("list chat members failed", "chat_id", chatID, "error", err)
		return nil
	}
	var result []int
	for _, memberID := range memberIDs {
		if memberID == excludeID {
			continue
		}
		entry, ok, err := g.directory.Lookup(ctx, memberID)
		if err != nil || !ok {
			continue
		}
		if entry.ActiveChat == chatID {
			result = append(result, memberID)
		}
	}
	return result
}

// seenBySummary builds the "seen by" names from exactly the co-present
// members; the sender was excluded before the map was built.
func (g *NotificationGateway) seenBySummary(ctx context.Context, coPresent map[int]presence.Entry) string {
	if len(coPresent) == 0 {
		return ""
	}
	ids := make([]int, 0, len(coPresent))
	for id := range coPresent {
		ids = append(ids, id)
	}
	users, err := g.users.BulkUsers(ctx, ids)
	if err != nil {
		g.logger.Warnw("load co-present users failed", "error", err)
		return ""
	}
	names := make([]string, 0, len(users))
	for _, u := range users {
		names = append(names, u.Username)
	}
	return strings.Join(names, ", ")
}

func (g *NotificationGateway) pushNotificationCount(ctx context.Context, userID int, connID string) {
	count, err := g.notifications.CountForUser(ctx, userID)
	if err != nil {
		g.logger.Warnw("count notifications failed", "user_id", userID, "error", err)
		return
	}
	g.pusher.Send(connID, models.NewNotificationCountEvent(count))
}
