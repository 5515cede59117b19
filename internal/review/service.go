package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"VentureScanner/internal/curation"
	"VentureScanner/internal/domain"
	"VentureScanner/internal/ports"
)

// ErrAlreadyProcessed is returned when a decision targets a draft that has
// already left the pending state. Callers report it to the actor as a no-op.
var ErrAlreadyProcessed = errors.New("draft already processed")

// ErrWrongLane is returned when a bulk action targets a regular draft or
// vice versa.
var ErrWrongLane = errors.New("draft is not in the expected review lane")

const draftTTL = 48 * time.Hour

// Rejection carries the human's reasoning for a rejected draft.
type Rejection struct {
	Reason     string
	UserRating int
}

// Service drives the approval state machine and persists every decision as
// a reusable learning signal.
type Service struct {
	pending  ports.PendingRepository
	posted   ports.PostedRepository
	feedback ports.FeedbackRepository
	msgr     ports.Messenger
	share    *curation.ShareabilityScorer
	vague    []string
	logger   *slog.Logger
	now      func() time.Time
}

// NewService wires the repositories and the channel messenger. vaguePhrases
// feeds the decision metrics; now defaults to time.Now when nil.
func NewService(pending ports.PendingRepository, posted ports.PostedRepository, feedback ports.FeedbackRepository, msgr ports.Messenger, share *curation.ShareabilityScorer, vaguePhrases []string, logger *slog.Logger, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		pending:  pending,
		posted:   posted,
		feedback: feedback,
		msgr:     msgr,
		share:    share,
		vague:    vaguePhrases,
		logger:   logger,
		now:      now,
	}
}

// Approve publishes a pending draft to the channel and records the
// publication. The posted_news row is what blocks the URL forever after.
func (s *Service) Approve(ctx context.Context, id string) error {
	post, err := s.open(ctx, id, domain.StatusPending)
	if err != nil {
		return err
	}

	if err := s.msgr.Publish(ctx, post.PostText, post.ImageURL); err != nil {
		return fmt.Errorf("publish draft %s: %w", id, err)
	}

	if err := s.pending.UpdateStatus(ctx, id, domain.StatusApproved); err != nil {
		return fmt.Errorf("mark approved %s: %w", id, err)
	}

	record := domain.PostedNews{
		URLText:           post.URL,
		NewsType:          domain.NewsTypeNews,
		ShareabilityScore: s.share.ScoreText(post.Title + " " + post.PostText),
		SourceType:        string(post.Region),
		Title:             post.Title,
	}
	if err := s.posted.Insert(ctx, record); err != nil {
		return fmt.Errorf("record publication %s: %w", id, err)
	}

	s.recordMetric(ctx, post, domain.DecisionApproved, "", 0)
	return nil
}

// Reject marks a pending or bulk-pending draft rejected and stores the
// reason plus the full post text as a durable negative constraint.
func (s *Service) Reject(ctx context.Context, id string, rejection Rejection) error {
	post, err := s.openAny(ctx, id)
	if err != nil {
		return err
	}

	if err := s.pending.UpdateStatus(ctx, id, domain.StatusRejected); err != nil {
		return fmt.Errorf("mark rejected %s: %w", id, err)
	}

	constraint := domain.NegativeConstraint{
		Feedback:    rejection.Reason,
		PostContent: post.PostText,
	}
	if err := s.feedback.InsertConstraint(ctx, constraint); err != nil {
		return fmt.Errorf("store constraint for %s: %w", id, err)
	}

	s.recordMetric(ctx, post, domain.DecisionRejected, rejection.Reason, rejection.UserRating)
	return nil
}

// BulkApprove moves a bulk-lane draft to bulk_approved. The draft becomes a
// future style exemplar; nothing is published and no posted_news row exists.
func (s *Service) BulkApprove(ctx context.Context, id string) error {
	post, err := s.open(ctx, id, domain.StatusBulkPending)
	if err != nil {
		return err
	}

	if err := s.pending.UpdateStatus(ctx, id, domain.StatusBulkApproved); err != nil {
		return fmt.Errorf("mark bulk approved %s: %w", id, err)
	}

	s.recordMetric(ctx, post, domain.DecisionBulkApproved, "", 0)
	return nil
}

// AddFeedback stores free-text editor feedback as a constraint with no
// attached post, exactly as typed.
func (s *Service) AddFeedback(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return errors.New("empty feedback")
	}
	if err := s.feedback.InsertConstraint(ctx, domain.NegativeConstraint{Feedback: text}); err != nil {
		return fmt.Errorf("store feedback: %w", err)
	}
	return nil
}

// ExpireStale sweeps pending drafts older than the TTL into expired, freeing
// their URLs for re-proposal. Runs before any new draft creation.
func (s *Service) ExpireStale(ctx context.Context) (int, error) {
	cutoff := s.now().Add(-draftTTL)
	expired, err := s.pending.ExpireOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("expire stale drafts: %w", err)
	}
	if expired > 0 && s.logger != nil {
		s.logger.Info("expired stale drafts", "count", expired)
	}
	return expired, nil
}

func (s *Service) open(ctx context.Context, id string, lane domain.DraftStatus) (domain.PendingPost, error) {
	post, err := s.pending.Get(ctx, id)
	if err != nil {
		return domain.PendingPost{}, fmt.Errorf("load draft %s: %w", id, err)
	}
	if post.Status.Terminal() {
		return domain.PendingPost{}, ErrAlreadyProcessed
	}
	if post.Status != lane {
		return domain.PendingPost{}, ErrWrongLane
	}
	return post, nil
}

func (s *Service) openAny(ctx context.Context, id string) (domain.PendingPost, error) {
	post, err := s.pending.Get(ctx, id)
	if err != nil {
		return domain.PendingPost{}, fmt.Errorf("load draft %s: %w", id, err)
	}
	if post.Status.Terminal() {
		return domain.PendingPost{}, ErrAlreadyProcessed
	}
	return post, nil
}

// recordMetric stores the decision's measurable properties. Metrics are
// reporting data only, so failures are logged rather than propagated.
func (s *Service) recordMetric(ctx context.Context, post domain.PendingPost, decision domain.Decision, reason string, rating int) {
	metric := domain.PostMetric{
		PendingID:        post.ID,
		Region:           post.Region,
		Decision:         decision,
		RejectReason:     reason,
		UserRating:       rating,
		CharCount:        utf8.RuneCountInString(post.PostText),
		HasNumbers:       strings.ContainsAny(post.PostText, "0123456789"),
		HasVagueLanguage: s.hasVague(post.PostText),
		SourceURL:        post.URL,
	}
	if err := s.feedback.InsertMetric(ctx, metric); err != nil && s.logger != nil {
		s.logger.Warn("store post metric", "draft", post.ID, "error", err)
	}
}

func (s *Service) hasVague(text string) bool {
	lowered := strings.ToLower(text)
	for _, phrase := range s.vague {
		if strings.Contains(lowered, strings.ToLower(phrase)) {
			return true
		}
	}
	return false
}
