package presenter

import (
	"github.com/LuqmanKt98/testify-ai-avatar/internal/adapter/dto/session"
	"github.com/LuqmanKt98/testify-ai-avatar/internal/domain/entities"
)

// SessionResponse maps a session entity to its API shape.
func SessionResponse(s *entities.Session) *session.SessionResponse {
	resp := &session.SessionResponse{
		ID:              s.ID.String(),
		UserName:        s.UserName,
		CaseType:        s.CaseType,
		AvatarID:        s.AvatarID,
		Language:        s.Language,
		Status:          string(s.Status),
		StartTime:       s.StartTime,
		EndTime:         s.EndTime,
		DurationSeconds: s.DurationSeconds,
		CreatedAt:       s.CreatedAt,
	}
	if s.KnowledgeBaseID != nil {
		id := s.KnowledgeBaseID.String()
		resp.KnowledgeBaseID = &id
	}
	for _, e := range s.Transcript {
		resp.Transcript = append(resp.Transcript, session.TranscriptEntryResponse{
			ID:        e.ID,
			Timestamp: e.Timestamp,
			Speaker:   string(e.Speaker),
			Text:      e.Text,
		})
	}
	resp.Report = ReportResponse(s.Report)
	return resp
}

// SessionListResponse maps a page of sessions without transcripts, which
// can be large.
func SessionListResponse(sessions []*entities.Session) []*session.SessionResponse {
	out := make([]*session.SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		trimmed := *s
		trimmed.Transcript = nil
		trimmed.Report = nil
		out = append(out, SessionResponse(&trimmed))
	}
	return out
}

// ReportResponse maps an analysis report, tolerating its absence.
func ReportResponse(r *entities.AnalysisReport) *session.ReportResponse {
	if r == nil {
		return nil
	}
	resp := &session.ReportResponse{
		OverallScore:      r.OverallScore,
		ClarityScore:      r.ClarityScore,
		CompletenessScore: r.CompletenessScore,
		ConsistencyScore:  r.ConsistencyScore,
		Summary:           r.Summary,
		Highlights:        r.Highlights,
		Recommendations:   r.Recommendations,
		Fallback:          r.Fallback,
	}
	for _, seg := range r.FlaggedSegments {
		resp.FlaggedSegments = append(resp.FlaggedSegments, session.FlaggedSegmentResponse{
			Timestamp: seg.Timestamp,
			Reason:    seg.Reason,
			Text:      seg.Text,
		})
	}
	return resp
}

// AvatarListResponse maps the interviewer catalog.
func AvatarListResponse(avatars []entities.Avatar) []session.AvatarResponse {
	out := make([]session.AvatarResponse, 0, len(avatars))
	for _, a := range avatars {
		out = append(out, session.AvatarResponse{
			ID:        a.ID,
			Name:      a.Name,
			Role:      a.Role,
			Languages: a.Languages,
		})
	}
	return out
}
