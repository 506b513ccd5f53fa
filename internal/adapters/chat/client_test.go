package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/slack-go/slack"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/playdeck/matchstats/pkg/logger"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

type fakeAPI struct {
	pages     []*slack.GetConversationHistoryResponse
	calls     int
	histErr   error
	posted    []string
	uploads   []slack.UploadFileV2Parameters
	postErr   error
	uploadErr error
}

func (f *fakeAPI) GetConversationHistoryContext(_ context.Context, params *slack.GetConversationHistoryParameters) (*slack.GetConversationHistoryResponse, error) {
	if f.histErr != nil {
		return nil, f.histErr
	}
	page := f.calls
	f.calls++
	if page >= len(f.pages) {
		return &slack.GetConversationHistoryResponse{}, nil
	}
	return f.pages[page], nil
}

func (f *fakeAPI) PostMessageContext(_ context.Context, channelID string, _ ...slack.MsgOption) (string, string, error) {
	if f.postErr != nil {
		return "", "", f.postErr
	}
	f.posted = append(f.posted, channelID)
	return channelID, "1.0", nil
}

func (f *fakeAPI) UploadFileV2Context(_ context.Context, params slack.UploadFileV2Parameters) (*slack.FileSummary, error) {
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	f.uploads = append(f.uploads, params)
	return &slack.FileSummary{}, nil
}

func page(hasMore bool, cursor string, texts ...string) *slack.GetConversationHistoryResponse {
	resp := &slack.GetConversationHistoryResponse{HasMore: hasMore}
	resp.ResponseMetaData.NextCursor = cursor
	for _, text := range texts {
		m := slack.Message{}
		m.Text = text
		m.Timestamp = "1755000000.000100"
		resp.Messages = append(resp.Messages, m)
	}
	return resp
}

func TestHistory(t *testing.T) {
	Convey("Given a channel spanning two history pages", t, func() {
		fake := &fakeAPI{pages: []*slack.GetConversationHistoryResponse{
			page(true, "next",
				"HIGH SCORE: 21 | Berlin, Germany | iPhone | AA11BB #3",
				"just chatting",
			),
			page(false, "",
				"Score: 9 | Oslo, Norway | Android | CC22DD #4",
			),
		}}
		c := New("token", "C-history", withAPI(fake))

		Convey("When fetching history", func() {
			events, err := c.History(context.Background())

			Convey("Then both pages contribute and chatter is dropped", func() {
				So(err, ShouldBeNil)
				So(fake.calls, ShouldEqual, 2)
				So(len(events), ShouldEqual, 2)
				So(events[0].Score, ShouldEqual, 21)
				So(events[0].HighScore, ShouldBeTrue)
				So(events[1].Score, ShouldEqual, 9)
				So(events[1].PlayerID, ShouldEqual, "CC22DD")
			})

			Convey("Then message stamps become UTC timestamps", func() {
				So(events[0].Timestamp.Unix(), ShouldEqual, 1755000000)
			})
		})
	})
}

func TestHistoryScoreCeiling(t *testing.T) {
	Convey("Given a history with an implausible score", t, func() {
		fake := &fakeAPI{pages: []*slack.GetConversationHistoryResponse{
			page(false, "",
				"Score: 12",
				"Score: 9999",
			),
		}}
		c := New("token", "C", withAPI(fake), WithScoreCeiling(30))

		Convey("When fetching history", func() {
			events, err := c.History(context.Background())

			Convey("Then the implausible event is filtered out", func() {
				So(err, ShouldBeNil)
				So(len(events), ShouldEqual, 1)
				So(events[0].Score, ShouldEqual, 12)
			})
		})
	})
}

func TestHistoryFailure(t *testing.T) {
	Convey("Given a failing transport", t, func() {
		fake := &fakeAPI{histErr: errors.New("rate limited")}
		c := New("token", "C", withAPI(fake))

		Convey("When fetching history", func() {
			events, err := c.History(context.Background())

			Convey("Then the fetch aborts with no partial result", func() {
				So(events, ShouldBeNil)
				So(errors.Is(err, ErrHistory), ShouldBeTrue)
			})
		})
	})
}

func TestPublish(t *testing.T) {
	Convey("Given a client with a dedicated report channel", t, func() {
		fake := &fakeAPI{}
		c := New("token", "C-history", withAPI(fake), WithReportChannel("C-reports"))

		Convey("When posting a summary", func() {
			err := c.PostSummary(context.Background(), "weekly highlights")

			Convey("Then it lands on the report channel", func() {
				So(err, ShouldBeNil)
				So(fake.posted, ShouldResemble, []string{"C-reports"})
			})
		})

		Convey("When uploading a report", func() {
			err := c.UploadReport(context.Background(), "stats.txt", "document body")

			Convey("Then the document carries its name and size", func() {
				So(err, ShouldBeNil)
				So(len(fake.uploads), ShouldEqual, 1)
				So(fake.uploads[0].Filename, ShouldEqual, "stats.txt")
				So(fake.uploads[0].Channel, ShouldEqual, "C-reports")
				So(fake.uploads[0].FileSize, ShouldEqual, len("document body"))
			})
		})

		Convey("When the platform rejects the post", func() {
			fake.postErr = errors.New("channel_not_found")
			err := c.PostSummary(context.Background(), "x")

			Convey("Then the error wraps the publish sentinel", func() {
				So(errors.Is(err, ErrPublish), ShouldBeTrue)
			})
		})
	})
}

func TestParseTimestamp(t *testing.T) {
	Convey("Given platform message stamps", t, func() {
		So(parseTimestamp("1755000000.000100").Unix(), ShouldEqual, 1755000000)
		So(parseTimestamp("garbage").IsZero(), ShouldBeTrue)
		So(parseTimestamp("").IsZero(), ShouldBeTrue)
	})
}
