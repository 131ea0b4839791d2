// Package intent answers real-time questions (time, date, weather, news,
// sports results) directly, short-circuiting the generation backend.
package intent

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/pyguy/pybot/pkg/lookup"
)

// FallbackReply is shown when the lookup backend cannot produce an answer
const FallbackReply = "Hmm, I couldn't find any solid info on that just now."

const (
	timeFormat     = "It's 3:04 PM right now."
	dateFormat     = "Today is Monday, January 2, 2006."
	timeDateFormat = "It's 3:04 PM on Monday, January 2, 2006."
)

var (
	timeWordRe    = regexp.MustCompile(`\btime\b`)
	dateWordRe    = regexp.MustCompile(`\bdate\b`)
	weatherRe     = regexp.MustCompile(`weather(?:\s+like)?\s+in\s+([a-z][a-z\s]*)`)
	weatherWordRe = regexp.MustCompile(`\bweather\b`)
	newsWordRe    = regexp.MustCompile(`\b(?:news|headlines)\b`)
	newsLeadRe    = regexp.MustCompile(`^(?:what(?:'s|s| is)?|tell me|show me|give me)?\s*(?:the)?\s*latest\s*(?:news|headlines)\s*(?:about|on|in|from)?\s*`)
	wonRe         = regexp.MustCompile(`\bwho won\b`)
)

// competitions recognized in sports-result questions
var competitions = []string{
	"ipl",
	"world cup",
	"champions league",
	"premier league",
	"super bowl",
	"final",
}

// Classifier decides whether a message can be answered locally
type Classifier struct {
	searcher   lookup.Searcher
	now        func() time.Time
	defaultLoc *time.Location
	timeout    time.Duration
}

// ClassifierOption configures a Classifier
type ClassifierOption func(*Classifier)

// WithClock overrides the time source
func WithClock(now func() time.Time) ClassifierOption {
	return func(c *Classifier) {
		c.now = now
	}
}

// NewClassifier creates a classifier. defaultTZ names the timezone used when
// a location hint cannot be resolved; an unresolvable default falls back to
// UTC rather than failing.
func NewClassifier(searcher lookup.Searcher, defaultTZ string, lookupTimeout time.Duration, opts ...ClassifierOption) *Classifier {
	loc, err := time.LoadLocation(defaultTZ)
	if err != nil {
		loc = time.UTC
	}

	c := &Classifier{
		searcher:   searcher,
		now:        time.Now,
		defaultLoc: loc,
		timeout:    lookupTimeout,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Classify inspects a message and returns a direct answer when a real-time
// intent matches. It mutates nothing; the only side effect is the lookup call
// for weather/news/sports questions.
func (c *Classifier) Classify(ctx context.Context, message, locationHint string) (string, bool) {
	msg := strings.ToLower(strings.TrimSpace(message))
	if msg == "" {
		return "", false
	}

	hasTime := timeWordRe.MatchString(msg)
	hasDate := dateWordRe.MatchString(msg)

	switch {
	case hasTime && hasDate:
		return c.now().In(c.resolveLocation(locationHint)).Format(timeDateFormat), true
	case hasTime:
		return c.now().In(c.resolveLocation(locationHint)).Format(timeFormat), true
	case hasDate:
		return c.now().In(c.resolveLocation(locationHint)).Format(dateFormat), true
	}

	if m := weatherRe.FindStringSubmatch(msg); m != nil {
		place := strings.TrimSpace(m[1])
		return c.search(ctx, "current weather in "+place), true
	}
	if weatherWordRe.MatchString(msg) {
		place := strings.TrimSpace(locationHint)
		if place == "" {
			place = "your area"
		}
		return c.search(ctx, "current weather in "+place), true
	}

	if newsWordRe.MatchString(msg) {
		topic := strings.TrimSpace(newsLeadRe.ReplaceAllString(msg, ""))
		if topic == "" || topic == msg {
			topic = "world"
		}
		return c.search(ctx, "latest news in "+topic), true
	}

	if wonRe.MatchString(msg) {
		for _, competition := range competitions {
			if strings.Contains(msg, competition) {
				return c.search(ctx, fmt.Sprintf("latest %s winner", competition)), true
			}
		}
	}

	return "", false
}

// resolveLocation tries the hint as a timezone identifier and falls back to
// the configured default zone. It never fails.
func (c *Classifier) resolveLocation(hint string) *time.Location {
	if hint != "" {
		if loc, err := time.LoadLocation(hint); err == nil {
			return loc
		}
	}
	return c.defaultLoc
}

func (c *Classifier) search(ctx context.Context, query string) string {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	result, err := c.searcher.Search(ctx, query)
	if err != nil {
		return FallbackReply
	}
	return result
}
