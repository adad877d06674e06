package handlers

import (
	"strings"

	"channelbot/bot/storage"
	"channelbot/core/logger"
	tghelpers "channelbot/core/telegram/helpers"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

func activeStatus(s tele.MemberStatus) bool {
	return s == tele.Member || s == tele.Administrator || s == tele.Creator
}

func outStatus(s tele.MemberStatus) bool {
	return s == tele.Left || s == tele.Kicked
}

// JoinedChannel reports a genuine join: the user was out and is now an
// active member. Promotions and restriction changes do not qualify.
func JoinedChannel(from, to tele.MemberStatus) bool {
	return outStatus(from) && activeStatus(to)
}

// LeftChannel reports a genuine leave: an active member is now out.
func LeftChannel(from, to tele.MemberStatus) bool {
	return activeStatus(from) && outStatus(to)
}

// SubstituteUser expands the {user} placeholder in a configured message.
func SubstituteUser(template, name string) string {
	return strings.ReplaceAll(template, "{user}", name)
}

func displayName(u *tele.User) string {
	if u == nil {
		return ""
	}
	name := u.FirstName
	if u.LastName != "" {
		name += " " + u.LastName
	}
	return name
}

// OnChatMember reacts to membership transitions in the linked channel:
// welcome on join, goodbye on leave. Messages go to the user's private
// chat and are best effort, a user who never started the bot is
// unreachable.
func (h *Handlers) OnChatMember(c tele.Context) error {
	upd := c.ChatMember()
	if upd == nil || upd.OldChatMember == nil || upd.NewChatMember == nil {
		return nil
	}

	ctx := tghelpers.BuildContext(c)
	s, err := h.settings.Read(ctx)
	if err != nil {
		logger.Error(ctx, "bot", "member.settings_read_failed", slog.String("err", err.Error()))
		return nil
	}
	if !s.HasChannel() || upd.Chat == nil || upd.Chat.ID != *s.ChannelID {
		return nil
	}

	oldRole := upd.OldChatMember.Role
	newRole := upd.NewChatMember.Role

	switch {
	case JoinedChannel(oldRole, newRole):
		return h.greet(c, s, upd.NewChatMember.User)
	case LeftChannel(oldRole, newRole):
		return h.farewell(c, s, upd.OldChatMember.User)
	}
	return nil
}

func (h *Handlers) greet(c tele.Context, s *storage.Settings, user *tele.User) error {
	if user == nil || !s.HasWelcome() {
		return nil
	}
	ctx := tghelpers.BuildContext(c)
	text := SubstituteUser(storage.StringOrEmpty(s.WelcomeText), displayName(user))

	logger.Info(ctx, "bot", "member.joined", slog.Int64("target_id", user.ID))
	if s.WelcomePhotoID != nil {
		return tghelpers.SendPhotoTo(c, user, *s.WelcomePhotoID, text)
	}
	return tghelpers.SendTextTo(c, user, text)
}

func (h *Handlers) farewell(c tele.Context, s *storage.Settings, user *tele.User) error {
	if user == nil || !s.HasGoodbye() {
		return nil
	}
	ctx := tghelpers.BuildContext(c)
	text := SubstituteUser(storage.StringOrEmpty(s.GoodbyeText), displayName(user))

	logger.Info(ctx, "bot", "member.left", slog.Int64("target_id", user.ID))
	if s.GoodbyePhotoID != nil {
		return tghelpers.SendPhotoTo(c, user, *s.GoodbyePhotoID, text)
	}
	return tghelpers.SendTextTo(c, user, text)
}

// OnJoinRequest approves pending join requests for the linked channel when
// auto approval is enabled.
func (h *Handlers) OnJoinRequest(c tele.Context) error {
	req := c.Update().ChatJoinRequest
	if req == nil || req.Chat == nil || req.Sender == nil {
		return nil
	}

	ctx := tghelpers.BuildContext(c)
	s, err := h.settings.Read(ctx)
	if err != nil {
		logger.Error(ctx, "bot", "join_request.settings_read_failed", slog.String("err", err.Error()))
		return nil
	}
	if !s.AutoApproveEnabled || !s.HasChannel() || req.Chat.ID != *s.ChannelID {
		return nil
	}

	if err := c.Bot().ApproveJoinRequest(req.Chat, req.Sender); err != nil {
		logger.Error(ctx, "bot", "join_request.approve_failed",
			slog.Int64("target_id", req.Sender.ID),
			slog.String("err", err.Error()),
		)
		return nil
	}
	logger.Info(ctx, "bot", "join_request.approved",
		slog.Int64("target_id", req.Sender.ID),
		slog.Int64("channel_id", req.Chat.ID),
	)
	return nil
}
