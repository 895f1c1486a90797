package discord

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/foxseedlab/lucidia/internal/analysis"
)

const (
	noticeTimeLayout  = "2006-01-02 15:04:05"
	messageCharLimit  = 2000
	transcriptPreview = 300
)

// Notifier posts analysis notices to a text channel over the REST API only;
// no gateway connection is opened.
type Notifier struct {
	session   *discordgo.Session
	channelID string
}

func NewNotifier(token, channelID string) (analysis.Notifier, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}
	return &Notifier{session: s, channelID: channelID}, nil
}

func (n *Notifier) NotifyAnalysis(ctx context.Context, notice analysis.Notice) error {
	content := buildNoticeMessage(notice)
	if len([]rune(content)) <= messageCharLimit {
		_, err := n.session.ChannelMessageSend(n.channelID, content, discordgo.WithContext(ctx))
		return wrapRESTError(err)
	}
	_, err := n.session.ChannelMessageSendComplex(n.channelID, &discordgo.MessageSend{
		Content: buildNoticeSummary(notice),
		Files: []*discordgo.File{
			{
				Name:        fmt.Sprintf("analysis-%s.txt", notice.SubmissionID),
				ContentType: "text/plain",
				Reader:      bytes.NewReader([]byte(buildNoticeAttachment(notice))),
			},
		},
	}, discordgo.WithContext(ctx))
	return wrapRESTError(err)
}

func buildNoticeSummary(notice analysis.Notice) string {
	status := "Analysis completed"
	if notice.Error != "" {
		status = "Analysis failed"
	}
	return fmt.Sprintf("**%s** `%s` (%s UTC)", status, notice.SubmissionID, notice.SubmittedAt.UTC().Format(noticeTimeLayout))
}

func buildNoticeMessage(notice analysis.Notice) string {
	lines := []string{
		buildNoticeSummary(notice),
		"> " + truncateRunes(strings.ReplaceAll(notice.Transcript, "\n", " "), transcriptPreview),
		"",
	}
	if notice.Error != "" {
		lines = append(lines, "Error: "+notice.Error)
	} else {
		lines = append(lines, notice.Result)
	}
	return strings.Join(lines, "\n")
}

func buildNoticeAttachment(notice analysis.Notice) string {
	body := notice.Result
	if notice.Error != "" {
		body = "Error: " + notice.Error
	}
	return strings.Join([]string{
		"Submission: " + notice.SubmissionID,
		"Submitted at: " + notice.SubmittedAt.UTC().Format(time.RFC3339),
		"",
		"Transcript:",
		notice.Transcript,
		"",
		"Analysis:",
		body,
	}, "\n")
}

func truncateRunes(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "…"
}

func wrapRESTError(err error) error {
	if err == nil {
		return nil
	}
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound {
		return fmt.Errorf("discord channel not found: %w", err)
	}
	return err
}
