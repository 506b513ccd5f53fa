// Package chat adapts the chat platform: it reads game notifications out
// of a channel's history and publishes summaries and report documents.
package chat

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/playdeck/matchstats/internal/domain/model"
	"github.com/playdeck/matchstats/internal/domain/notify"
	"github.com/playdeck/matchstats/pkg/logger"
	"github.com/playdeck/matchstats/pkg/metrics"
	"github.com/slack-go/slack"
)

const (
	historyPageSize = 1000
	maxHistoryPages = 20
)

// api is the slice of the platform client the adapter needs. Narrowed
// for test fakes.
type api interface {
	GetConversationHistoryContext(ctx context.Context, params *slack.GetConversationHistoryParameters) (*slack.GetConversationHistoryResponse, error)
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
	UploadFileV2Context(ctx context.Context, params slack.UploadFileV2Parameters) (*slack.FileSummary, error)
}

// Client reads notifications from one channel and publishes to another.
type Client struct {
	api           api
	channel       string
	reportChannel string
	ceiling       int
	log           logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for parse reporting.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// WithScoreCeiling drops parsed events scoring above n. Zero disables
// the filter.
func WithScoreCeiling(n int) Option {
	return func(c *Client) {
		c.ceiling = n
	}
}

// WithReportChannel directs summaries and uploads to a channel other
// than the history source.
func WithReportChannel(ch string) Option {
	return func(c *Client) {
		if ch != "" {
			c.reportChannel = ch
		}
	}
}

// withAPI swaps the platform client, used by tests.
func withAPI(a api) Option {
	return func(c *Client) {
		c.api = a
	}
}

// New builds a Client for the given bot token and history channel.
func New(token, channel string, opts ...Option) *Client {
	c := &Client{
		api:           slack.New(token),
		channel:       channel,
		reportChannel: channel,
		log:           logger.Get(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// History pages through the channel and returns every parseable game
// event. A transport failure on any page aborts the whole fetch; a
// partial history would silently skew the statistics.
func (c *Client) History(ctx context.Context) ([]model.GameEvent, error) {
	var (
		events []model.GameEvent
		cursor string
	)

	for page := 0; page < maxHistoryPages; page++ {
		resp, err := c.api.GetConversationHistoryContext(ctx, &slack.GetConversationHistoryParameters{
			ChannelID: c.channel,
			Cursor:    cursor,
			Limit:     historyPageSize,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: page %d: %w", ErrHistory, page, err)
		}

		for _, msg := range resp.Messages {
			if !notify.IsNotification(msg.Text) {
				continue
			}
			ev, ok := notify.Parse(msg.Text, parseTimestamp(msg.Timestamp))
			if !ok {
				metrics.RecordParseFailure()
				continue
			}
			if c.ceiling > 0 && ev.Score > c.ceiling {
				metrics.RecordEventDiscarded()
				c.log.Debug(ctx, "discarded implausible score",
					logger.Int("score", ev.Score),
					logger.Int("ceiling", c.ceiling))
				continue
			}
			events = append(events, ev)
		}

		cursor = resp.ResponseMetaData.NextCursor
		if !resp.HasMore || cursor == "" {
			break
		}
	}

	metrics.AddEventsParsed(len(events))
	return events, nil
}

// PostSummary posts the highlight text to the report channel.
func (c *Client) PostSummary(ctx context.Context, text string) error {
	_, _, err := c.api.PostMessageContext(ctx, c.reportChannel, slack.MsgOptionText(text, false))
	if err != nil {
		metrics.RecordPublishError()
		return fmt.Errorf("%w: post: %w", ErrPublish, err)
	}
	metrics.RecordSummaryPosted()
	return nil
}

// UploadReport attaches the rendered document to the report channel.
func (c *Client) UploadReport(ctx context.Context, name, payload string) error {
	_, err := c.api.UploadFileV2Context(ctx, slack.UploadFileV2Parameters{
		Filename: name,
		Title:    strings.TrimSuffix(name, ".txt"),
		Content:  payload,
		FileSize: len(payload),
		Channel:  c.reportChannel,
	})
	if err != nil {
		metrics.RecordPublishError()
		return fmt.Errorf("%w: upload %s: %w", ErrPublish, name, err)
	}
	metrics.RecordReportUploaded()
	return nil
}

// parseTimestamp reads the platform's "seconds.fraction" message ID
// format. Unparseable stamps yield a zero time rather than an error.
func parseTimestamp(ts string) time.Time {
	sec, _, _ := strings.Cut(ts, ".")
	n, err := strconv.ParseInt(sec, 10, 64)
	if err != nil || n == 0 {
		return time.Time{}
	}
	return time.Unix(n, 0).UTC()
}
