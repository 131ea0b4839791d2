package intent

import (
	"context"
	"testing"
	"time"

	"github.com/pyguy/pybot/pkg/lookup"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSearcher returns a canned result and records the last query
type fakeSearcher struct {
	result    string
	err       error
	lastQuery string
}

func (f *fakeSearcher) Search(_ context.Context, query string) (string, error) {
	f.lastQuery = query
	return f.result, f.err
}

func fixedClock() time.Time {
	// Friday, 2025-03-14, 15:09 UTC
	return time.Date(2025, 3, 14, 15, 9, 0, 0, time.UTC)
}

func newTestClassifier(searcher lookup.Searcher) *Classifier {
	return NewClassifier(searcher, "UTC", time.Second, WithClock(fixedClock))
}

func TestClassifyTime(t *testing.T) {
	c := newTestClassifier(&fakeSearcher{})

	answer, handled := c.Classify(context.Background(), "What time is it?", "")
	require.True(t, handled)
	assert.Equal(t, "It's 3:09 PM right now.", answer)
}

func TestClassifyDate(t *testing.T) {
	c := newTestClassifier(&fakeSearcher{})

	answer, handled := c.Classify(context.Background(), "what's today's date", "")
	require.True(t, handled)
	assert.Equal(t, "Today is Friday, March 14, 2025.", answer)
}

func TestClassifyTimeAndDate(t *testing.T) {
	c := newTestClassifier(&fakeSearcher{})

	answer, handled := c.Classify(context.Background(), "tell me the time and date", "")
	require.True(t, handled)
	assert.Equal(t, "It's 3:09 PM on Friday, March 14, 2025.", answer)
}

func TestClassifyTimeWithTimezoneHint(t *testing.T) {
	c := newTestClassifier(&fakeSearcher{})

	// 15:09 UTC is 11:09 in New York during DST
	answer, handled := c.Classify(context.Background(), "what time is it", "America/New_York")
	require.True(t, handled)
	assert.Equal(t, "It's 11:09 AM right now.", answer)
}

func TestClassifyTimeWithBadHintFallsBack(t *testing.T) {
	c := newTestClassifier(&fakeSearcher{})

	answer, handled := c.Classify(context.Background(), "what time is it", "not-a-real-zone")
	require.True(t, handled)
	assert.Equal(t, "It's 3:09 PM right now.", answer)
}

func TestNewClassifierBadDefaultTZFallsBackToUTC(t *testing.T) {
	c := NewClassifier(&fakeSearcher{}, "Mars/Olympus_Mons", time.Second, WithClock(fixedClock))

	answer, handled := c.Classify(context.Background(), "what time is it", "")
	require.True(t, handled)
	assert.Equal(t, "It's 3:09 PM right now.", answer)
}

func TestClassifyWeatherWithPlace(t *testing.T) {
	searcher := &fakeSearcher{result: "Sunny, 22C"}
	c := newTestClassifier(searcher)

	answer, handled := c.Classify(context.Background(), "what's the weather like in tokyo", "")
	require.True(t, handled)
	assert.Equal(t, "Sunny, 22C", answer)
	assert.Equal(t, "current weather in tokyo", searcher.lastQuery)
}

func TestClassifyWeatherWithoutPlaceUsesHint(t *testing.T) {
	searcher := &fakeSearcher{result: "Rainy"}
	c := newTestClassifier(searcher)

	answer, handled := c.Classify(context.Background(), "how is the weather today", "Berlin")
	require.True(t, handled)
	assert.Equal(t, "Rainy", answer)
	assert.Equal(t, "current weather in Berlin", searcher.lastQuery)
}

func TestClassifyWeatherWithoutAnyLocation(t *testing.T) {
	searcher := &fakeSearcher{result: "Cloudy"}
	c := newTestClassifier(searcher)

	_, handled := c.Classify(context.Background(), "weather?", "")
	require.True(t, handled)
	assert.Equal(t, "current weather in your area", searcher.lastQuery)
}

func TestClassifyNewsTopic(t *testing.T) {
	searcher := &fakeSearcher{result: "Big headline"}
	c := newTestClassifier(searcher)

	answer, handled := c.Classify(context.Background(), "what's the latest news about space travel", "")
	require.True(t, handled)
	assert.Equal(t, "Big headline", answer)
	assert.Equal(t, "latest news in space travel", searcher.lastQuery)
}

func TestClassifyNewsWithoutTopicDefaultsToWorld(t *testing.T) {
	searcher := &fakeSearcher{result: "World headline"}
	c := newTestClassifier(searcher)

	_, handled := c.Classify(context.Background(), "any news?", "")
	require.True(t, handled)
	assert.Equal(t, "latest news in world", searcher.lastQuery)
}

func TestClassifySportsWinner(t *testing.T) {
	searcher := &fakeSearcher{result: "The underdogs took it"}
	c := newTestClassifier(searcher)

	answer, handled := c.Classify(context.Background(), "who won the champions league?", "")
	require.True(t, handled)
	assert.Equal(t, "The underdogs took it", answer)
	assert.Equal(t, "latest champions league winner", searcher.lastQuery)
}

func TestClassifySportsWithoutCompetitionNotHandled(t *testing.T) {
	c := newTestClassifier(&fakeSearcher{})

	_, handled := c.Classify(context.Background(), "who won the argument?", "")
	assert.False(t, handled)
}

func TestClassifyLookupFailureReturnsFallback(t *testing.T) {
	searcher := &fakeSearcher{err: lookup.ErrUnavailable()}
	c := newTestClassifier(searcher)

	answer, handled := c.Classify(context.Background(), "latest news about elections", "")
	require.True(t, handled)
	assert.Equal(t, FallbackReply, answer)
}

func TestClassifyUnmatchedMessages(t *testing.T) {
	searcher := &fakeSearcher{}
	c := newTestClassifier(searcher)

	for _, msg := range []string{
		"hello there",
		"my name is Ada",
		"can you write a poem",
		"",
		"   ",
	} {
		answer, handled := c.Classify(context.Background(), msg, "")
		assert.False(t, handled, "message %q should not be handled", msg)
		assert.Empty(t, answer)
	}
	assert.Empty(t, searcher.lastQuery)
}
