package live

import (
	"context"

	"go.uber.org/zap"

	"github.com/LuqmanKt98/testify-ai-avatar/internal/domain/entities"
	"github.com/LuqmanKt98/testify-ai-avatar/internal/domain/repositories"
	"github.com/LuqmanKt98/testify-ai-avatar/internal/usecase/analysis"
)

// Finalizer closes out a session: it stamps the terminal record first so
// the outcome survives an analysis crash, then attaches the report.
type Finalizer struct {
	sessions repositories.SessionRepository
	analyzer *analysis.Service
	logger   *zap.Logger
}

func NewFinalizer(sessions repositories.SessionRepository, analyzer *analysis.Service, logger *zap.Logger) *Finalizer {
	return &Finalizer{
		sessions: sessions,
		analyzer: analyzer,
		logger:   logger,
	}
}

// Finalize persists the ended session and its analysis report. The report
// step never fails outward; a repository error on the first write does.
func (f *Finalizer) Finalize(ctx context.Context, session *entities.Session, transcript []entities.TranscriptEntry, durationSeconds int, kbContent string) (*entities.Session, error) {
	session.MarkEnded(durationSeconds, transcript)
	if err := f.sessions.Update(ctx, session); err != nil {
		if f.logger != nil {
			f.logger.Error("❌ Failed to persist ended session",
				zap.String("session_id", session.ID.String()),
				zap.Error(err))
		}
		return nil, err
	}

	report := f.analyzer.Analyze(ctx, transcript, kbContent, durationSeconds)
	session.Report = report
	if err := f.sessions.Update(ctx, session); err != nil {
		// the session is already ended; losing the report is recoverable
		if f.logger != nil {
			f.logger.Warn("⚠️ Failed to persist analysis report",
				zap.String("session_id", session.ID.String()),
				zap.Error(err))
		}
	}

	if f.logger != nil {
		f.logger.Info("✅ Session finalized",
			zap.String("session_id", session.ID.String()),
			zap.Int("duration_seconds", durationSeconds),
			zap.Int("overall_score", report.OverallScore),
			zap.Bool("fallback_report", report.Fallback))
	}
	return session, nil
}
