package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/meeyqueue/case-backend/internal/apperr"
	"github.com/meeyqueue/case-backend/internal/attachments"
	"github.com/meeyqueue/case-backend/internal/dto"
	"github.com/meeyqueue/case-backend/internal/metrics"
	"github.com/meeyqueue/case-backend/internal/models"
	"github.com/meeyqueue/case-backend/internal/queue"
	"github.com/meeyqueue/case-backend/internal/repository"
	"github.com/meeyqueue/case-backend/internal/validate"
)

var sortValues = []string{"1", "-1", "asc", "desc"}

type CaseServiceOption func(*CaseService)

// WithClock replaces time.Now, mainly for tests that need a fixed calendar day.
func WithClock(now func() time.Time) CaseServiceOption {
	return func(s *CaseService) { s.now = now }
}

func WithMetrics(m *metrics.Metrics) CaseServiceOption {
	return func(s *CaseService) { s.metrics = m }
}

func WithAttachments(store attachments.Store) CaseServiceOption {
	return func(s *CaseService) { s.attachments = store }
}

// CaseService runs the case lifecycle: open -> processing -> closed|completed.
// Every operation validates fully before it mutates anything.
type CaseService struct {
	cases       repository.CaseRepository
	events      repository.CaseEventRepository
	identity    *IdentityService
	counter     queue.Counter
	attachments attachments.Store
	metrics     *metrics.Metrics
	now         func() time.Time
}

func NewCaseService(
	cases repository.CaseRepository,
	events repository.CaseEventRepository,
	identity *IdentityService,
	counter queue.Counter,
	opts ...CaseServiceOption,
) *CaseService {
	s := &CaseService{
		cases:       cases,
		events:      events,
		identity:    identity,
		counter:     counter,
		attachments: attachments.NoopStore{},
		now:         time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Create opens a case for a user and gives it the next queue number at its location.
func (s *CaseService) Create(ctx context.Context, userID string, req dto.CreateCaseRequest) (_ *models.Case, err error) {
	defer s.observe("create", &err)

	if err := validate.CaseFields(req.Subject, req.Description, req.Language, req.Location); err != nil {
		return nil, err
	}

	uid, parseErr := uuid.Parse(userID)
	if parseErr != nil {
		return nil, apperr.NotFound("User not found", map[string]string{"uid": userID})
	}
	user, err := s.identity.GetUser(ctx, uid)
	if err != nil {
		return nil, err
	}

	nric := req.NRIC
	if nric == "" {
		nric = user.NRIC
	}
	if nric != "" {
		if err := validate.Nric(nric); err != nil {
			return nil, err
		}
	}

	existing, err := s.cases.FindOpenByUser(ctx, user.ID)
	if err != nil {
		return nil, internal("find open case", err)
	}
	if existing != nil {
		return nil, apperr.Conflict("User already has an open case.", map[string]string{"uid": existing.ID.String()})
	}

	now := s.now()
	start := time.Now()
	queueNo, err := s.counter.Next(ctx, req.Location, now)
	s.metrics.ObserveQueueNumber(start)
	if err != nil {
		return nil, internal("allocate queue number", err)
	}

	c := &models.Case{
		ID:           uuid.New(),
		UserID:       user.ID,
		NRIC:         nric,
		Subject:      req.Subject,
		Description:  req.Description,
		Language:     req.Language,
		Status:       models.CaseStatusOpen,
		Category:     models.CaseCategoryNormal,
		Location:     req.Location,
		QueueNo:      queueNo,
		RefID:        user.RefID(),
		WhatsappCall: req.WhatsappCall,
		CreatedAt:    now,
	}
	if err := s.cases.Create(ctx, c); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Conflict("User already has an open case.", map[string]string{"userId": user.ID.String()})
		}
		return nil, internal("create case", err)
	}

	s.metrics.IncrementCreated(c.Location)
	s.record(ctx, c.ID, models.CaseCreated, "", c.Status)
	slog.InfoContext(ctx, "case created",
		"case_id", c.ID.String(),
		"user_id", user.ID.String(),
		"location", c.Location,
		"queue_no", c.QueueNo,
	)
	return c, nil
}

// Assign hands an open case to a kiosk manager and moves it to processing.
func (s *CaseService) Assign(ctx context.Context, id string, req dto.AssignCaseRequest) (_ *models.Case, err error) {
	defer s.observe("assign", &err)

	if id == "" {
		return nil, apperr.BadRequest("uid is required", nil)
	}
	if req.Assignee == "" {
		return nil, apperr.BadRequest("body.assignee is required (uuid of volunteer)", req)
	}

	c, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Status != models.CaseStatusOpen {
		return nil, apperr.InvalidState("Case is not open.", map[string]string{"status": c.Status})
	}

	assigneeID, parseErr := uuid.Parse(req.Assignee)
	if parseErr != nil {
		return nil, apperr.NotFound("volunteer does not exist.", nil)
	}
	volunteer, err := s.identity.ResolveAssignee(ctx, assigneeID)
	if err != nil {
		return nil, err
	}

	status := models.CaseStatusProcessing
	updated, err := s.update(ctx, c.ID, models.CasePatch{Status: &status, Assignee: &volunteer.ID})
	if err != nil {
		return nil, err
	}

	s.record(ctx, c.ID, models.CaseAssigned, assigneeString(c.Assignee), volunteer.ID.String())
	s.record(ctx, c.ID, models.StatusUpdated, c.Status, status)
	return updated, nil
}

// Categorize changes the category of a case that is not yet closed or completed.
func (s *CaseService) Categorize(ctx context.Context, id string, req dto.CategorizeCaseRequest) (_ *models.Case, err error) {
	defer s.observe("categorize", &err)

	if id == "" {
		return nil, apperr.BadRequest("uid is required", nil)
	}
	if req.Category == "" {
		return nil, apperr.BadRequest("body.category is required", req)
	}
	if !validate.IsCategory(req.Category) {
		return nil, apperr.BadRequest("category can only be "+validate.Choices(validate.Categories)+".", nil)
	}

	c, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.IsTerminal() {
		return nil, apperr.InvalidState("Case is "+c.Status+".", map[string]string{"status": c.Status})
	}

	updated, err := s.update(ctx, c.ID, models.CasePatch{Category: &req.Category})
	if err != nil {
		return nil, err
	}
	s.record(ctx, c.ID, models.CaseCategorized, c.Category, req.Category)
	return updated, nil
}

// Close moves a case into a terminal status.
func (s *CaseService) Close(ctx context.Context, id string, req dto.CloseCaseRequest) (_ *models.Case, err error) {
	defer s.observe("close", &err)

	if id == "" {
		return nil, apperr.BadRequest("uid is required", nil)
	}
	if !validate.IsFinalState(req.Status) {
		return nil, apperr.BadRequest("closing status and can only be "+validate.Choices(validate.FinalStates)+".", req)
	}

	c, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.IsTerminal() {
		return nil, apperr.InvalidState("Case is closed.", c)
	}

	updated, err := s.update(ctx, c.ID, models.CasePatch{Status: &req.Status})
	if err != nil {
		return nil, err
	}
	s.record(ctx, c.ID, models.StatusUpdated, c.Status, req.Status)
	return updated, nil
}

// Delete removes a case regardless of its status and returns the removed record.
func (s *CaseService) Delete(ctx context.Context, id string) (_ *models.Case, err error) {
	defer s.observe("delete", &err)

	notDeleted := apperr.BadRequest("Something went wrong, case not deleted.", map[string]string{"uid": id})
	caseID, parseErr := uuid.Parse(id)
	if parseErr != nil {
		return nil, notDeleted
	}

	deleted, err := s.cases.DeleteByID(ctx, caseID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notDeleted
	}
	if err != nil {
		return nil, internal("delete case", err)
	}

	s.record(ctx, deleted.ID, models.CaseDeleted, deleted.Status, "")
	slog.InfoContext(ctx, "case deleted", "case_id", deleted.ID.String(), "location", deleted.Location)
	return deleted, nil
}

// List returns at most repository.MaxListLimit cases, newest first unless
// sort is "1" or "asc".
func (s *CaseService) List(ctx context.Context, q dto.CaseListQuery) (_ []models.Case, err error) {
	defer s.observe("list", &err)

	if len(q.Unknown) > 0 {
		return nil, apperr.BadRequest("Invalid query parameter: "+strings.Join(q.Unknown, ", ")+".", nil)
	}

	filter := repository.CaseFilter{Limit: repository.MaxListLimit}
	for _, param := range []struct {
		key   string
		value *string
	}{
		{"location", q.Location},
		{"status", q.Status},
		{"category", q.Category},
		{"sort", q.Sort},
	} {
		if param.value != nil && strings.TrimSpace(*param.value) == "" {
			return nil, apperr.BadRequest(param.key+" cannot be empty.", nil)
		}
	}

	if q.Location != nil {
		filter.Location = q.Location
	}
	if q.Status != nil {
		if !validate.IsStatus(*q.Status) {
			return nil, apperr.BadRequest("status can only be "+validate.Choices(validate.Statuses)+".", nil)
		}
		filter.Status = q.Status
	}
	if q.Category != nil {
		if !validate.IsCategory(*q.Category) {
			return nil, apperr.BadRequest("category can only be "+validate.Choices(validate.Categories)+".", nil)
		}
		filter.Category = q.Category
	}
	if q.Sort != nil {
		sort := strings.ToLower(*q.Sort)
		if !oneOf(sort, sortValues) {
			return nil, apperr.BadRequest("sort can only be "+validate.Choices(sortValues)+".", nil)
		}
		filter.SortAsc = sort == "1" || sort == "asc"
	}

	cases, err := s.cases.List(ctx, filter)
	if err != nil {
		return nil, internal("list cases", err)
	}
	return cases, nil
}

func (s *CaseService) Get(ctx context.Context, id string) (*models.Case, error) {
	return s.find(ctx, id)
}

// Attachments returns presigned download links for the files uploaded with a case.
func (s *CaseService) Attachments(ctx context.Context, id string) ([]string, error) {
	c, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	links, err := s.attachments.Links(ctx, c.ID.String())
	if err != nil {
		slog.WarnContext(ctx, "attachment lookup failed", "case_id", c.ID.String(), "error", err.Error())
		return nil, apperr.BadRequest("Error occured while retrieving attachments.", nil)
	}
	return links, nil
}

// Events returns the audit trail of a case, oldest first. The trail of a
// deleted case is still available.
func (s *CaseService) Events(ctx context.Context, id string) ([]models.CaseEvent, error) {
	caseID, err := uuid.Parse(id)
	if err != nil {
		return nil, caseNotFound(id)
	}
	events, err := s.events.ListByCase(ctx, caseID)
	if err != nil {
		return nil, internal("list case events", err)
	}
	return events, nil
}

func (s *CaseService) find(ctx context.Context, id string) (*models.Case, error) {
	caseID, err := uuid.Parse(id)
	if err != nil {
		return nil, caseNotFound(id)
	}
	c, err := s.cases.FindByID(ctx, caseID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, caseNotFound(id)
	}
	if err != nil {
		return nil, internal("find case", err)
	}
	return c, nil
}

func (s *CaseService) update(ctx context.Context, id uuid.UUID, patch models.CasePatch) (*models.Case, error) {
	updated, err := s.cases.UpdateByID(ctx, id, patch)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, caseNotFound(id.String())
	}
	if err != nil {
		return nil, internal("update case", err)
	}
	return updated, nil
}

// record appends an audit event. A failed write is logged and never fails
// the mutation that already succeeded.
func (s *CaseService) record(ctx context.Context, caseID uuid.UUID, eventType models.CaseEventType, previous, next string) {
	s.metrics.IncrementTransition(string(eventType), next)

	event := &models.CaseEvent{
		ID:            uuid.New(),
		CaseID:        caseID,
		EventType:     eventType,
		PreviousValue: previous,
		NewValue:      next,
		Actor:         ActorFromContext(ctx),
		CreatedAt:     s.now(),
	}
	if err := s.events.Append(ctx, event); err != nil {
		slog.ErrorContext(ctx, "case event not recorded",
			"case_id", caseID.String(),
			"action", string(eventType),
			"error", err.Error(),
		)
	}
}

func (s *CaseService) observe(operation string, err *error) {
	if *err != nil {
		s.metrics.IncrementRejected(operation, string(apperr.KindOf(*err)))
	}
}

func caseNotFound(id string) error {
	return apperr.NotFound("Case not found", map[string]string{"uid": id})
}

func assigneeString(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}

func oneOf(value string, allowed []string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}
