package dialog

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/looplab/fsm"

	"github.com/iabalyuk/dailytracker/session"
)

const (
	stateAwaitingRating = "awaiting_rating"

	donationText = "❤️ Love this bot? Support it: https://saymealien.space/donation.html \n☕ Creator: @saymealien"
	// donationChance is the probability of appending donationText to a rating summary
	donationChance = 0.1
)

var rateEvents = fsm.Events{
	{Name: "commit", Src: []string{stateAwaitingRating}, Dst: stateDone},
}

// RateParameters asks for a 1..10 rating of every tracked parameter and
// stores them all at the end
type RateParameters struct {
	env Env
}

func NewRateParameters(env Env) *RateParameters {
	return &RateParameters{env: env.withDefaults()}
}

func (d *RateParameters) Kind() session.Kind { return session.KindRateParameters }

func (d *RateParameters) Start(ctx context.Context, userID int64) Outcome {
	params, err := d.env.Store.GetParameters(ctx, userID)
	if err != nil {
		return failed(d.Kind(), userID, err)
	}
	if len(params) == 0 {
		return finished(textReply("First add parameters to estimate in Settings.", MainMenu))
	}
	s := &session.Session{
		UserID:  userID,
		Kind:    d.Kind(),
		State:   stateAwaitingRating,
		Scratch: session.Scratch{Parameters: params},
	}
	return stay(s, ratingPrompt(params[0]))
}

func (d *RateParameters) Step(ctx context.Context, s *session.Session, input string) Outcome {
	params := s.Scratch.Parameters
	if s.Step < 0 || s.Step >= len(params) {
		return failed(d.Kind(), s.UserID, fmt.Errorf("rating step %d out of range", s.Step))
	}
	value, err := parseRating(input)
	if err != nil {
		return stay(s, textReply("Please enter a number between 1 and 10:", ratingPad))
	}

	next := s.Clone()
	next.Scratch.Ratings = append(next.Scratch.Ratings, session.Rating{Parameter: params[s.Step], Value: value})
	next.Step++
	if next.Step < len(params) {
		return stay(next, ratingPrompt(params[next.Step]))
	}
	return d.commit(ctx, next)
}

func (d *RateParameters) commit(ctx context.Context, s *session.Session) Outcome {
	if _, err := transition(ctx, rateEvents, s.State, "commit"); err != nil {
		return failed(d.Kind(), s.UserID, err)
	}
	day, err := d.env.localDay(ctx, s.UserID)
	if err != nil {
		return failed(d.Kind(), s.UserID, err)
	}

	summary := make([]string, 0, len(s.Scratch.Ratings))
	for _, r := range s.Scratch.Ratings {
		if err := d.env.Store.AppendEntry(ctx, s.UserID, day, r.Parameter, r.Value); err != nil {
			return failed(d.Kind(), s.UserID, err)
		}
		summary = append(summary, fmt.Sprintf("%s=%d", r.Parameter, r.Value))
	}

	text := fmt.Sprintf("✅ Saved for %s:\n%s", day, strings.Join(summary, ", "))
	if d.env.Rand() < donationChance {
		text += "\n\n" + donationText
	}
	return finished(textReply(text, MainMenu))
}

func ratingPrompt(parameter string) Reply {
	return textReply(fmt.Sprintf("Rate %s (1-10):", parameter), ratingPad)
}

// parseRating accepts plain decimal digits only, so "+5" and " 5" are rejected
func parseRating(input string) (int, error) {
	if input == "" || len(input) > 2 {
		return 0, fmt.Errorf("%w: %q is not a rating", ErrInvalidInput, input)
	}
	for _, r := range input {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("%w: %q is not a rating", ErrInvalidInput, input)
		}
	}
	v, _ := strconv.Atoi(input)
	if v < 1 || v > 10 {
		return 0, fmt.Errorf("%w: rating %d out of range", ErrInvalidInput, v)
	}
	return v, nil
}
