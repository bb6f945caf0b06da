package service

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/result-magic-api/internal/models"
	appErrors "github.com/noah-isme/result-magic-api/pkg/errors"
)

type dispatchRepository interface {
	Create(ctx context.Context, record *models.DispatchRecord) error
	ListBySchool(ctx context.Context, schoolID string, limit int) ([]models.DispatchRecord, error)
}

// DefaultDispatchSignature closes generated parent messages.
const DefaultDispatchSignature = "School Administration"

var (
	htmlTag  = regexp.MustCompile(`<[^>]*>`)
	nonDigit = regexp.MustCompile(`\D`)
)

// DispatchRequest selects the students of a result set whose parents receive a result link.
type DispatchRequest struct {
	ResultSetID   string                `json:"result_set_id" validate:"required"`
	StudentIDs    []string              `json:"student_ids" validate:"required,min=1,dive,required"`
	Method        models.DispatchMethod `json:"method" validate:"required,oneof=email whatsapp"`
	CustomMessage string                `json:"custom_message" validate:"max=4000"`
}

// DispatchResult lists the generated links and the students that could not be reached.
type DispatchResult struct {
	RecordID   string                   `json:"record_id,omitempty"`
	Method     models.DispatchMethod    `json:"method"`
	Successful []models.DispatchTarget  `json:"successful"`
	Failed     []models.DispatchFailure `json:"failed"`
}

// DispatchService builds mailto and WhatsApp deep links for parents and records each run.
type DispatchService struct {
	sets      resultSetReader
	repo      dispatchRepository
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	signature string
}

// NewDispatchService constructs a DispatchService.
func NewDispatchService(sets resultSetReader, repo dispatchRepository, metrics *MetricsService, signature string, validate *validator.Validate, logger *zap.Logger) *DispatchService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if strings.TrimSpace(signature) == "" {
		signature = DefaultDispatchSignature
	}
	return &DispatchService{sets: sets, repo: repo, metrics: metrics, validator: validate, logger: logger, signature: signature}
}

// Preview generates the links without recording the dispatch.
func (s *DispatchService) Preview(ctx context.Context, actor *models.JWTClaims, req DispatchRequest) (*DispatchResult, error) {
	_, result, err := s.build(ctx, actor, req)
	return result, err
}

// Dispatch generates the links and stores a dispatch record.
func (s *DispatchService) Dispatch(ctx context.Context, actor *models.JWTClaims, req DispatchRequest) (*DispatchResult, error) {
	set, result, err := s.build(ctx, actor, req)
	if err != nil {
		return nil, err
	}
	record := &models.DispatchRecord{
		SchoolID:     set.SchoolID,
		ResultSetID:  set.ID,
		Method:       req.Method,
		Message:      req.CustomMessage,
		Successful:   result.Successful,
		Failed:       result.Failed,
		DispatchedBy: actor.FullName,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record dispatch")
	}
	result.RecordID = record.ID
	s.metrics.RecordDispatch(string(req.Method), len(result.Successful), len(result.Failed))
	s.logger.Info("results dispatched",
		zap.String("result_set_id", set.ID),
		zap.String("method", string(req.Method)),
		zap.Int("successful", len(result.Successful)),
		zap.Int("failed", len(result.Failed)),
	)
	return result, nil
}

// History returns the school's most recent dispatch records.
func (s *DispatchService) History(ctx context.Context, actor *models.JWTClaims, limit int) ([]models.DispatchRecord, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	records, err := s.repo.ListBySchool(ctx, actor.SchoolID, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load dispatch history")
	}
	if records == nil {
		records = []models.DispatchRecord{}
	}
	return records, nil
}

func (s *DispatchService) build(ctx context.Context, actor *models.JWTClaims, req DispatchRequest) (*models.ResultSet, *DispatchResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid dispatch payload")
	}
	set, err := s.sets.Get(ctx, actor, req.ResultSetID)
	if err != nil {
		return nil, nil, err
	}

	result := &DispatchResult{Method: req.Method, Successful: []models.DispatchTarget{}, Failed: []models.DispatchFailure{}}
	for _, id := range req.StudentIDs {
		student, ok := set.FindStudent(id)
		if !ok {
			result.Failed = append(result.Failed, models.DispatchFailure{StudentID: id, Reason: "student not found in result set"})
			continue
		}
		target, reason := s.target(set, student, req)
		if reason != "" {
			result.Failed = append(result.Failed, models.DispatchFailure{StudentID: student.ID, StudentName: student.Name, Reason: reason})
			continue
		}
		result.Successful = append(result.Successful, target)
	}
	return set, result, nil
}

func (s *DispatchService) target(set *models.ResultSet, student *models.StudentRecord, req DispatchRequest) (models.DispatchTarget, string) {
	target := models.DispatchTarget{StudentID: student.ID, StudentName: student.Name, AdmissionNumber: student.AdmissionNumber}
	missing := fmt.Sprintf("No %s contact available", req.Method)

	switch req.Method {
	case models.DispatchWhatsApp:
		phone := nonDigit.ReplaceAllString(student.ParentDetails.PhoneNumber, "")
		if phone == "" {
			return target, missing
		}
		message := req.CustomMessage
		if strings.TrimSpace(message) == "" {
			message = s.whatsAppMessage(set, student)
		}
		target.Recipient = phone
		target.Link = fmt.Sprintf("https://wa.me/%s?text=%s", phone, encodeURIComponent(message))
	case models.DispatchEmail:
		email := strings.TrimSpace(student.ParentDetails.Email)
		if email == "" {
			return target, missing
		}
		body := req.CustomMessage
		if strings.TrimSpace(body) == "" {
			body = s.emailBody(set, student)
		}
		subject := fmt.Sprintf("%s - %s Results for %s", set.ClassData.ClassName, set.Term, student.Name)
		target.Recipient = email
		target.Link = fmt.Sprintf("mailto:%s?subject=%s&body=%s", email, encodeURIComponent(subject), encodeURIComponent(htmlTag.ReplaceAllString(body, "")))
	default:
		return target, fmt.Sprintf("unsupported dispatch method %s", req.Method)
	}
	return target, ""
}

func (s *DispatchService) whatsAppMessage(set *models.ResultSet, student *models.StudentRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", student.ParentDetails.FullName)
	fmt.Fprintf(&b, "This is %s %s results for %s (%s).\n\n", set.ClassData.ClassName, set.Term, student.Name, student.AdmissionNumber)
	fmt.Fprintf(&b, "Overall Average: %s%%\n\n", formatScore(student.Average))
	b.WriteString("Subject Breakdown:\n")
	for _, subject := range set.ClassData.Subjects {
		fmt.Fprintf(&b, "• %s: %s%%\n", subject, formatScore(student.SubjectTotals[subject]))
	}
	fmt.Fprintf(&b, "\nBest regards,\n%s", s.signature)
	return b.String()
}

func (s *DispatchService) emailBody(set *models.ResultSet, student *models.StudentRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", student.ParentDetails.FullName)
	fmt.Fprintf(&b, "Please find below the %s results for %s (Admission Number: %s):\n\n", set.Term, student.Name, student.AdmissionNumber)
	b.WriteString("Overall Performance\n")
	fmt.Fprintf(&b, "Average Score: %s%%\n", formatScore(student.Average))
	fmt.Fprintf(&b, "Total Score: %s\n\n", formatScore(student.OverallTotal))
	b.WriteString("Subject Breakdown\n")
	for _, subject := range set.ClassData.Subjects {
		fmt.Fprintf(&b, "%s: %s%%\n", subject, formatScore(student.SubjectTotals[subject]))
	}
	fmt.Fprintf(&b, "\nThank you for your continued support.\n\nBest regards,\n%s", s.signature)
	return b.String()
}

// encodeURIComponent percent-encodes s for a URL query value, spaces as %20.
func encodeURIComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
